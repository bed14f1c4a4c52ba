package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/awfufu/go-statbot/internal/cmds"
	"github.com/awfufu/go-statbot/internal/stats"
	"github.com/spf13/cobra"
)

func newDispatchCmd() *cobra.Command {
	var self, prefix string

	cmd := &cobra.Command{
		Use:   "dispatch [text...]",
		Short: "Run texts through the keyword commands using the stub stats backend",
		Long: `Each argument is matched as one chat message. With no arguments,
every line of stdin is matched instead.`,
		Example: "  statbot dispatch 查询VP 排行榜10 对局统计VP_CHN",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := cmds.New(stats.Stub{}, prefix)
			if len(args) > 0 {
				for _, text := range args {
					if err := dispatchOne(cmd.Context(), d, cmd.OutOrStdout(), text, self); err != nil {
						return err
					}
				}
				return nil
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				text := strings.TrimSpace(scanner.Text())
				if text == "" {
					continue
				}
				if err := dispatchOne(cmd.Context(), d, cmd.OutOrStdout(), text, self); err != nil {
					return err
				}
			}
			return scanner.Err()
		},
	}
	cmd.Flags().StringVar(&self, "self", "self", "nickname used when a command omits it")
	cmd.Flags().StringVar(&prefix, "prefix", "", "AI trigger prefix shown in the help text")
	return cmd
}

func dispatchOne(ctx context.Context, d *cmds.Dispatcher, w io.Writer, text, self string) error {
	name, reply, err := d.Match(ctx, text, self)
	if err != nil {
		return fmt.Errorf("%s: %w", text, err)
	}
	if reply == "" {
		fmt.Fprintf(w, "%s\t-\n", text)
		return nil
	}
	fmt.Fprintf(w, "%s\t%s\t%s\n", text, name, strings.ReplaceAll(reply, "\n", `\n`))
	return nil
}
