package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robleto/MeepleGo-sub002/internal/app"
	"github.com/robleto/MeepleGo-sub002/internal/pipeline"
	"github.com/robleto/MeepleGo-sub002/internal/rawcorpus"
)

func newRebuildCommand(ctx *commandContext) *cobra.Command {
	var (
		input            string
		dryRun           bool
		verifyAfter      bool
		jsonOut          bool
		failOnViolations bool
	)

	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild stored honors from a raw honor corpus",
		Long: "Parse, classify, and merge raw honor entries into the stored per-game\n" +
			"honor collections. --input accepts a JSON/JSONL file or a directory of them.",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := strings.TrimSpace(input)
			if path == "" {
				return errors.New("--input is required")
			}
			entries, err := rawcorpus.LoadPath(path)
			if err != nil {
				return fmt.Errorf("load raw corpus: %w", err)
			}

			return ctx.withServices(cmd, func(svc *app.Services) error {
				var summary *pipeline.Summary
				err := withRunLock(svc.Config, dryRun, func() error {
					var runErr error
					summary, runErr = svc.Runner.Run(cmd.Context(), entries, pipeline.RunOptions{
						DryRun: dryRun,
						Verify: verifyAfter || failOnViolations,
					})
					return runErr
				})
				if err != nil {
					return err
				}
				svc.FlushMetrics()

				if jsonOut {
					if err := writeJSON(cmd, summary); err != nil {
						return err
					}
				} else {
					out := cmd.OutOrStdout()
					renderRunSummary(out, summary, shouldColorize(out))
				}
				return runOutcome(summary.Failed, summary.Report, failOnViolations)
			})
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Raw honor file or directory")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute changes without writing to the store")
	cmd.Flags().BoolVar(&verifyAfter, "verify", false, "Verify the corpus after the rebuild")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output the run summary as JSON")
	cmd.Flags().BoolVar(&failOnViolations, "fail-on-violations", false, "Exit non-zero when verification finds violations (implies --verify)")
	return cmd
}
