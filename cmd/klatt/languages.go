package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/go-klatt/internal/rules"
)

func newLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the available rulesets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, id := range rules.Names() {
				rs, err := rules.Lookup(id)
				if err != nil {
					return err
				}
				mark := " "
				if id == cfg.Rules.Language {
					mark = "*"
				}
				fmt.Fprintf(w, "%s %s\t%s (%d rules)\n", mark, id, rs.Name, len(rs.Rules))
			}
			return nil
		},
	}
}
