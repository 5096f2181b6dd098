package main

import (
	"github.com/bastiangx/kanaserve/internal/cli"
	"github.com/bastiangx/kanaserve/pkg/kana"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func newCliCmd(a *app) *cobra.Command {
	var (
		limit    int
		katakana bool
	)
	cmd := &cobra.Command{
		Use:   "cli",
		Short: "Interactive shell: romaji in, candidates out [DBG]",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			persister, store, err := a.openLearning(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := persister.Close(); err != nil {
					log.Errorf("Closing learning backend: %v", err)
				}
			}()

			svc, err := a.loadService(ctx, store)
			if err != nil {
				return err
			}

			mode, _ := kana.ParseMode(a.cfg.CLI.DefaultMode)
			if katakana {
				mode = kana.Katakana
			}
			if !cmd.Flags().Changed("limit") {
				limit = a.cfg.CLI.DefaultLimit
			}
			log.Debug("Input info:", "mode", mode, "limit", limit)

			h := cli.NewInputHandler(svc, mode, limit, cmd.InOrStdin(), cmd.OutOrStdout()).WithPersister(persister)
			return h.Start(ctx)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "number of candidates to show")
	cmd.Flags().BoolVarP(&katakana, "katakana", "k", false, "start in katakana mode")
	return cmd
}
