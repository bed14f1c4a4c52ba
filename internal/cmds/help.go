package cmds

import (
	"context"
	"fmt"
	"strings"
)

const helpFooter = "注：[] 表示可选参数，不带昵称的命令默认查询发送者信息"

// helpCommand answers any text containing 帮助 that no earlier command took.
var helpCommand = &Command{
	Name:  "help",
	Parse: func(text string) ([]string, bool) { return nil, strings.Contains(text, "帮助") },
	Exec: func(ctx context.Context, d *Dispatcher, req *Request) (string, error) {
		return d.HelpText(), nil
	},
}

// HelpText lists every command with a help line, followed by the AI entry.
func (d *Dispatcher) HelpText() string {
	var sb strings.Builder
	sb.WriteString("可用命令：\n")

	n := 0
	for _, cmd := range d.commands {
		if cmd.HelpMsg == "" {
			continue
		}
		n++
		fmt.Fprintf(&sb, "%d. %s\n", n, cmd.HelpMsg)
	}
	fmt.Fprintf(&sb, "%d. AI对话 - 发送\"%s 你的问题\"\n\n", n+1, d.aiPrefix)
	sb.WriteString(helpFooter)
	return sb.String()
}
