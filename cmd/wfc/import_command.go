package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asherwoodbury/wikidata-football-cleanup/internal/config"
	"github.com/asherwoodbury/wikidata-football-cleanup/internal/registry"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <csv-file>",
		Short: "Load stale player-club entries into the ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *registry.Store) error {
				result, err := store.ImportCSV(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Imported %d entries (%d duplicates, %d malformed rows)\n",
					result.Added, result.Duplicates, result.Malformed)
				return nil
			})
		},
	}
}
