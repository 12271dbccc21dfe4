package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/robleto/MeepleGo-sub002/internal/app"
	"github.com/robleto/MeepleGo-sub002/internal/store"
)

func newGameCommand(ctx *commandContext) *cobra.Command {
	gameCmd := &cobra.Command{
		Use:   "game",
		Short: "Inspect stored games",
	}
	gameCmd.AddCommand(newGameShowCommand(ctx))
	return gameCmd
}

func newGameShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a game and its honors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid game id %q", args[0])
			}
			return ctx.withServices(cmd, func(svc *app.Services) error {
				game, err := svc.Store.FetchGameByID(cmd.Context(), id)
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("game %d not found", id)
				}
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, game)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s (bgg %d), %d honor(s)\n", game.Name, game.ID, len(game.Honors))
				if len(game.Honors) == 0 {
					return nil
				}
				rows := make([][]string, 0, len(game.Honors))
				for _, rec := range game.Honors {
					rows = append(rows, []string{
						strconv.Itoa(rec.Year),
						rec.AwardType,
						rec.Category.String(),
						rec.Name,
						rec.Source,
						yesNo(rec.Validated),
						rec.HonorID,
					})
				}
				printTable(out, []column{{"Year", true}, {"Award", false}, {"Category", false}, {"Name", false}, {"Source", false}, {"Validated", false}, {"Honor ID", false}}, rows)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output the game as JSON")
	return cmd
}
