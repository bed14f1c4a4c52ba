package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/awfufu/go-statbot/internal/db"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var driver, dsn string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the most recent handled messages from the message log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := db.Open(driver, dsn)
			if err != nil {
				return err
			}
			defer store.Close()

			recs, err := store.RecentMessages(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("读取消息记录失败: %w", err)
			}
			for _, rec := range recs {
				printRecord(cmd.OutOrStdout(), rec)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&driver, "driver", "sqlite", "database driver: sqlite or postgres")
	cmd.Flags().StringVar(&dsn, "dsn", "db/bot.db", "sqlite file path or postgres dsn")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of messages to print")
	return cmd
}

// printRecord writes one tab separated line: time, group, sender, route, content.
func printRecord(w io.Writer, rec db.Record) {
	sender := rec.Name
	if rec.Card != "" {
		sender = rec.Card
	}
	route := rec.Route
	if route == "" {
		route = "-"
	}
	if rec.Failed {
		route += "!"
	}
	fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
		rec.Time.Local().Format("2006-01-02 15:04:05"),
		rec.GroupID, sender, route,
		strings.ReplaceAll(rec.Content, "\n", `\n`))
}
