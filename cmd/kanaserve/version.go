package main

import (
	"fmt"

	"github.com/bastiangx/kanaserve/internal/cli"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the current version",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.Banner(AppName, Version))
			fmt.Fprintln(out, gh)
			return nil
		},
	}
}
