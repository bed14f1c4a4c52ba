package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "statbot",
		Short:        "Game stats chat bot for NapCat (OneBot v11)",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringP("config", "c", "config.yaml", "配置文件路径")

	root.AddCommand(newServeCmd())
	root.AddCommand(newDispatchCmd())
	root.AddCommand(newHistoryCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
