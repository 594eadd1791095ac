package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asherwoodbury/wikidata-football-cleanup/internal/config"
	"github.com/asherwoodbury/wikidata-football-cleanup/internal/pipeline"
	"github.com/asherwoodbury/wikidata-football-cleanup/internal/registry"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var era string
	var force bool

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract departure dates from fetched articles",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(func(cfg *config.Config, store *registry.Store, p *pipeline.Pipeline) error {
				summary, err := p.RunExtraction(cmd.Context(), pipeline.ExtractionOptions{
					Limit: limit,
					Era:   era,
					Force: force,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Processed %d articles: %d dates found, %d without dates, %d failed, %d already done\n",
					summary.Processed, summary.Found, summary.NoDate, summary.Failed, summary.Skipped)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of articles to process (0 = all)")
	cmd.Flags().StringVar(&era, "era", "", "Only process entries from this era bucket")
	cmd.Flags().BoolVar(&force, "force", false, "Reprocess entries that already have a correction")
	return cmd
}

func newValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Rule on extracted corrections",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(func(cfg *config.Config, store *registry.Store, p *pipeline.Pipeline) error {
				summary, err := p.RunValidation(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Validated %d corrections: %d accepted, %d rejected, %d need research\n",
					summary.Validated, summary.Accepted, summary.Rejected, summary.NeedsResearch)
				return nil
			})
		},
	}
}

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Write accepted corrections as a QuickStatements file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(func(cfg *config.Config, store *registry.Store, p *pipeline.Pipeline) error {
				summary, err := p.RunBatch(cmd.Context(), outPath)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Wrote %d commands to %s\n", summary.Written, summary.Path)
				for _, reason := range summary.Skipped {
					fmt.Fprintf(out, "Skipped %s\n", reason)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Batch file destination (default: timestamped file in batch_dir)")
	return cmd
}
