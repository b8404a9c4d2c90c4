package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/go-klatt/internal/phoneme"
)

func newPhonemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "phonemes",
		Short: "List the phoneme inventory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			inv, err := phoneme.LoadFile(cfg.Paths.PhonemeTable)
			if err != nil {
				return fmt.Errorf("load phoneme table: %w", err)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s: %d phonemes\n", inv.Name(), inv.Len())

			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "SYMBOL\tCLASSES\tDURATION\tF1\tF2\tF3")
			for _, sym := range inv.Symbols() {
				e, err := inv.Lookup(sym)
				if err != nil {
					return err
				}
				p := e.Params
				fmt.Fprintf(tw, "%s\t%s\t%.0f\t%.0f\t%.0f\t%.0f\n",
					sym, e.Classes, p.DurationMS(), p[phoneme.F1], p[phoneme.F2], p[phoneme.F3])
			}
			return tw.Flush()
		},
	}
}
