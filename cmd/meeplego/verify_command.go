package main

import (
	"github.com/spf13/cobra"

	"github.com/robleto/MeepleGo-sub002/internal/app"
)

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	var failOnViolations bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check stored honors against the award family rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withServices(cmd, func(svc *app.Services) error {
				report, err := svc.Runner.VerifyStored(cmd.Context())
				if err != nil {
					return err
				}
				svc.FlushMetrics()

				if jsonOut {
					if err := writeJSON(cmd, report); err != nil {
						return err
					}
				} else {
					out := cmd.OutOrStdout()
					renderReport(out, report, shouldColorize(out))
				}
				return runOutcome(nil, report, failOnViolations)
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output the report as JSON")
	cmd.Flags().BoolVar(&failOnViolations, "fail-on-violations", false, "Exit non-zero when violations exist")
	return cmd
}
