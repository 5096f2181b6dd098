package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/bastiangx/kanaserve/pkg/kana"
	"github.com/spf13/cobra"
)

func newConvertCmd(a *app) *cobra.Command {
	var (
		katakana bool
		mode     string
	)
	cmd := &cobra.Command{
		Use:   "convert [romaji...]",
		Short: "Convert romaji to kana; reads lines from stdin without arguments",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := kana.ParseMode(mode)
			if err != nil {
				return err
			}
			if katakana {
				m = kana.Katakana
			}

			out := cmd.OutOrStdout()
			if len(args) > 0 {
				fmt.Fprintln(out, kana.Convert(strings.Join(args, " "), m))
				return nil
			}
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				fmt.Fprintln(out, kana.Convert(scanner.Text(), m))
			}
			return scanner.Err()
		},
	}
	cmd.Flags().BoolVarP(&katakana, "katakana", "k", false, "output katakana")
	cmd.Flags().StringVar(&mode, "mode", "hiragana", "output mode: hiragana or katakana")
	return cmd
}
