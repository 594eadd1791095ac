package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asherwoodbury/wikidata-football-cleanup/internal/articles"
	"github.com/asherwoodbury/wikidata-football-cleanup/internal/config"
	"github.com/asherwoodbury/wikidata-football-cleanup/internal/fetcher"
	"github.com/asherwoodbury/wikidata-football-cleanup/internal/registry"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var era string
	var force bool

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch Wikipedia articles for pending entries",
		Long: "Fetch runs the resumable article download. It repairs state left by\n" +
			"an interrupted run, then works through pending entries with the\n" +
			"configured politeness delay. Interrupt it at any time; the next run\n" +
			"picks up where it stopped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *registry.Store) error {
				articleStore, err := articles.NewStore(cfg.Paths.ArticlesDir)
				if err != nil {
					return err
				}
				logger, err := ctx.logger()
				if err != nil {
					return err
				}

				summary, err := fetcher.New(cfg, store, articleStore, logger).Run(cmd.Context(), fetcher.Options{
					Limit: limit,
					Era:   era,
					Force: force,
				})
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if summary.Repaired > 0 {
					fmt.Fprintf(out, "Repaired %d entries from a previous run\n", summary.Repaired)
				}
				fmt.Fprintf(out, "Fetched %d, skipped %d, failed %d (run %s)\n",
					summary.Fetched, summary.Skipped, summary.Failed, summary.RunID)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of entries to fetch (0 = all)")
	cmd.Flags().StringVar(&era, "era", "", "Only fetch entries from this era bucket")
	cmd.Flags().BoolVar(&force, "force", false, "Refetch entries that already settled")
	return cmd
}

func newRetryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry",
		Short: "Reset failed entries so the next fetch tries them again",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *registry.Store) error {
				count, err := store.RetryFailed(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reset %d failed entries to pending\n", count)
				return nil
			})
		},
	}
}
