package main

import (
	"fmt"
	"strings"

	"github.com/bastiangx/kanaserve/pkg/suggest"
	"github.com/spf13/cobra"
)

func newSuggestCmd(a *app) *cobra.Command {
	var (
		predict bool
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "suggest <reading or text>",
		Short: "Print the candidates for a reading, one per line",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			persister, store, err := a.openLearning(ctx)
			if err != nil {
				return err
			}
			defer persister.Close()

			svc, err := a.loadService(ctx, store)
			if err != nil {
				return err
			}

			input := strings.Join(args, " ")
			out := cmd.OutOrStdout()
			if predict {
				for _, r := range svc.Predict(input, limit) {
					fmt.Fprintln(out, r)
				}
				return nil
			}
			res := svc.Suggest(suggest.Request{Text: input})
			for i, c := range res.Candidates {
				if limit > 0 && i >= limit {
					break
				}
				fmt.Fprintln(out, c)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&predict, "predict", "p", false, "list readings starting with the input instead")
	cmd.Flags().IntVar(&limit, "limit", 0, "max lines to print (0 for all)")
	return cmd
}
