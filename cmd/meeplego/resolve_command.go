package main

import (
	"github.com/spf13/cobra"

	"github.com/robleto/MeepleGo-sub002/internal/app"
	"github.com/robleto/MeepleGo-sub002/internal/pipeline"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var (
		gameIDs []int64
		dryRun  bool
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Deduplicate stored honors and drop Specials shadowed by a Winner",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withServices(cmd, func(svc *app.Services) error {
				var summary *pipeline.ResolveSummary
				err := withRunLock(svc.Config, dryRun, func() error {
					var runErr error
					summary, runErr = svc.Runner.ResolveStored(cmd.Context(), gameIDs, dryRun)
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
					renderResolveSummary(out, summary, shouldColorize(out))
				}
				return runOutcome(summary.Failed, nil, false)
			})
		},
	}

	cmd.Flags().Int64SliceVar(&gameIDs, "game", nil, "Limit to these bgg ids (repeatable)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report changes without writing")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output the summary as JSON")
	return cmd
}
