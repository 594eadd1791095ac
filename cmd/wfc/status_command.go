package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asherwoodbury/wikidata-football-cleanup/internal/config"
	"github.com/asherwoodbury/wikidata-football-cleanup/internal/registry"
)

const ansiReset = "\x1b[0m"
const ansiBlue = "\x1b[34m"

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show ledger progress and validation results",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *registry.Store) error {
				summary, err := store.Summarize(cmd.Context())
				if err != nil {
					return err
				}
				verdicts, err := store.VerdictStats(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)

				fmt.Fprintln(out, sectionHeader("Fetch progress", colorize))
				fmt.Fprintln(out, renderTable(
					[]string{"Status", "Count"},
					[][]string{
						{"pending", strconv.Itoa(summary.Pending)},
						{"fetching", strconv.Itoa(summary.Fetching)},
						{"fetched", strconv.Itoa(summary.Fetched)},
						{"failed", strconv.Itoa(summary.Failed)},
						{"skipped", strconv.Itoa(summary.Skipped)},
						{"total", strconv.Itoa(summary.Total)},
					},
					2,
				))

				fmt.Fprintln(out, sectionHeader("Validation", colorize))
				fmt.Fprintln(out, renderTable(
					[]string{"Decision", "Count"},
					[][]string{
						{"accepted", strconv.Itoa(verdicts[registry.DecisionAccepted])},
						{"rejected", strconv.Itoa(verdicts[registry.DecisionRejected])},
						{"needs research", strconv.Itoa(verdicts[registry.DecisionNeedsResearch])},
					},
					2,
				))
				return nil
			})
		},
	}
}

func sectionHeader(title string, colorize bool) string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	if colorize {
		return ansiBlue + line + ansiReset
	}
	return line
}
