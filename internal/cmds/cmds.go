package cmds

import (
	"context"
	"strconv"
	"strings"

	"github.com/awfufu/go-statbot/internal/stats"
)

type Command struct {
	Name    string // Command name, used in logs and the message log
	HelpMsg string // Help line, empty hides the command from the help list
	// Parse reports whether text selects this command and returns its arguments.
	Parse func(text string) ([]string, bool)
	// Exec returns the reply. An empty reply lets later commands try the same text.
	Exec func(ctx context.Context, d *Dispatcher, req *Request) (string, error)
}

type Request struct {
	Text string
	Args []string
	Self string // nickname used when an optional argument is omitted
}

// argOrSelf returns argument i, or the caller's own nickname when it is empty.
func (r *Request) argOrSelf(i int) string {
	if i < len(r.Args) && r.Args[i] != "" {
		return r.Args[i]
	}
	return r.Self
}

// cmdList is evaluated in order; the first command whose Exec returns a
// non-empty reply wins.
var cmdList []*Command

func init() {
	cmdList = []*Command{
		onlinePlayersCommand,
		playerInfoCommand,
		leaderboardCommand,
		leaderboardNCommand,
		onlineEliteCommand,
		onlineLowCommand,
		groupLeaderboardCommand,
		groupLeaderboardNCommand,
		friendListCommand,
		onlineFriendsCommand,
		playerStatsCommand,
		matchupStatsCommand,
		weeklyReportCommand,
		dailyReportCommand,
		helpCommand,
	}
}

type Dispatcher struct {
	stats    stats.Provider
	aiPrefix string
	commands []*Command
}

// New builds a dispatcher over the fixed command table. aiPrefix is only
// shown in the help text.
func New(st stats.Provider, aiPrefix string) *Dispatcher {
	return &Dispatcher{
		stats:    st,
		aiPrefix: aiPrefix,
		commands: cmdList,
	}
}

// Dispatch returns the reply for text, or "" when no command answers it.
func (d *Dispatcher) Dispatch(ctx context.Context, text, self string) (string, error) {
	_, reply, err := d.Match(ctx, text, self)
	return reply, err
}

// Match is Dispatch plus the name of the command that produced the reply.
// Errors from the stats provider are returned as is.
func (d *Dispatcher) Match(ctx context.Context, text, self string) (string, string, error) {
	text = strings.TrimSpace(text)

	for _, cmd := range d.commands {
		args, ok := cmd.Parse(text)
		if !ok {
			continue
		}
		reply, err := cmd.Exec(ctx, d, &Request{Text: text, Args: args, Self: self})
		if err != nil {
			return cmd.Name, "", err
		}
		if reply != "" {
			return cmd.Name, reply, nil
		}
	}
	return "", "", nil
}

func exact(word string) func(string) ([]string, bool) {
	return func(text string) ([]string, bool) {
		return nil, text == word
	}
}

// prefixed matches text starting with word. The trimmed remainder is handed
// to shape, which decides whether the command applies.
func prefixed(word string, shape func(rest string) ([]string, bool)) func(string) ([]string, bool) {
	return func(text string) ([]string, bool) {
		rest, ok := strings.CutPrefix(text, word)
		if !ok {
			return nil, false
		}
		return shape(strings.TrimSpace(rest))
	}
}

func anyRest(rest string) ([]string, bool) {
	return []string{rest}, true
}

func nonEmpty(rest string) ([]string, bool) {
	return []string{rest}, rest != ""
}

func numeric(rest string) ([]string, bool) {
	return []string{rest}, isNumeric(rest)
}

// isNumeric accepts plain ASCII digits that fit in an int.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	_, err := strconv.Atoi(s)
	return err == nil
}

func str2int(s string) int {
	value, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return value
}
