package stats

import (
	"context"
	"fmt"
	"strings"

	"github.com/gorcon/rcon"
)

const defaultRconCommand = "list"

// RconOnline answers OnlinePlayers from a game server console and delegates
// every other lookup to the embedded Provider.
type RconOnline struct {
	Provider

	Address  string
	Password string
	Command  string

	// exec is swapped out in tests.
	exec func(address, password, command string) (string, error)
}

func NewRconOnline(next Provider, address, password, command string) *RconOnline {
	if command == "" {
		command = defaultRconCommand
	}
	return &RconOnline{
		Provider: next,
		Address:  address,
		Password: password,
		Command:  command,
		exec:     executeRconCommand,
	}
}

func (r *RconOnline) OnlinePlayers(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	resp, err := r.exec(r.Address, r.Password, r.Command)
	if err != nil {
		return "", fmt.Errorf("rcon %s: %w", r.Address, err)
	}
	resp = strings.TrimSpace(resp)
	if resp == "" {
		return "", nil
	}
	return "在线玩家\n" + resp, nil
}

func executeRconCommand(address, password, command string) (string, error) {
	conn, err := rcon.Dial(address, password)
	if err != nil {
		return "", fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close()

	response, err := conn.Execute(command)
	if err != nil {
		return "", fmt.Errorf("failed: %w", err)
	}

	return response, nil
}
