package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/robleto/MeepleGo-sub002/internal/app"
	"github.com/robleto/MeepleGo-sub002/internal/placeholder"
)

func newPlaceholdersCommand(ctx *commandContext) *cobra.Command {
	var deleteGames bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "placeholders",
		Short: "Find games whose name is an award description",
		Long: "List games that look like award placeholders (\"2023 Spiel des Jahres\").\n" +
			"With --delete they are removed from the store.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withServices(cmd, func(svc *app.Services) error {
				var result *placeholder.Result
				err := withRunLock(svc.Config, !deleteGames, func() error {
					var runErr error
					result, runErr = svc.Cleaner.Run(cmd.Context(), svc.Store, !deleteGames)
					return runErr
				})
				if err != nil {
					return err
				}

				if jsonOut {
					if err := writeJSON(cmd, result); err != nil {
						return err
					}
				} else {
					renderPlaceholders(cmd, result)
				}
				if len(result.Failed) > 0 {
					return fmt.Errorf("%d placeholder(s) could not be deleted", len(result.Failed))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&deleteGames, "delete", false, "Delete the placeholder games")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output the result as JSON")
	return cmd
}

func renderPlaceholders(cmd *cobra.Command, result *placeholder.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scanned %d games, %d placeholder(s)", result.Scanned, len(result.Candidates))
	if !result.DryRun {
		fmt.Fprintf(out, ", %d deleted", result.Deleted)
	}
	fmt.Fprintln(out)
	if len(result.Candidates) == 0 {
		return
	}
	rows := make([][]string, 0, len(result.Candidates))
	for _, c := range result.Candidates {
		rows = append(rows, []string{
			strconv.FormatInt(c.ID, 10),
			c.Name,
			string(c.Reason),
			strconv.Itoa(c.Honors),
			yesNo(c.Deleted),
		})
	}
	printTable(out, []column{{"Game", true}, {"Name", false}, {"Reason", false}, {"Honors", true}, {"Deleted", false}}, rows)
	for _, f := range result.Failed {
		fmt.Fprintf(out, "  delete %d failed after %d attempt(s): %s\n", f.ID, f.Attempts, f.Error)
	}
}
