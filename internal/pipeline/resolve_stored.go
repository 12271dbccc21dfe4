package pipeline

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/robleto/MeepleGo-sub002/internal/honor"
	"github.com/robleto/MeepleGo-sub002/internal/logging"
	"github.com/robleto/MeepleGo-sub002/internal/resolve"
	"github.com/robleto/MeepleGo-sub002/internal/retry"
	"github.com/robleto/MeepleGo-sub002/internal/store"
)

// Change describes the honors of one game before and after resolution.
type Change struct {
	GameID int64          `json:"bgg_id"`
	Name   string         `json:"name"`
	Before []honor.Record `json:"before"`
	After  []honor.Record `json:"after"`
}

// ResolveSummary reports a ResolveStored run.
type ResolveSummary struct {
	RunID              string        `json:"run_id"`
	DryRun             bool          `json:"dry_run"`
	Games              int           `json:"games"`
	Updated            int           `json:"updated"`
	Unchanged          int           `json:"unchanged"`
	Failed             []GameFailure `json:"failed,omitempty"`
	Duplicates         int           `json:"duplicates"`
	SuppressedSpecials int           `json:"suppressed_specials"`
	Changes            []Change      `json:"changes,omitempty"`
}

// ResolveStored re-runs conflict resolution over games already in the store
// without reading any raw input. An empty ids slice selects every game that
// holds honors. In dry-run mode the changes are computed and reported but
// nothing is written.
func (r *Runner) ResolveStored(ctx context.Context, ids []int64, dryRun bool) (*ResolveSummary, error) {
	summary := &ResolveSummary{RunID: uuid.NewString(), DryRun: dryRun}
	ctx = logging.WithRunID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, r.logger)

	games, err := r.selectGames(ctx, ids)
	if err != nil {
		return nil, err
	}
	summary.Games = len(games)

	for _, game := range games {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if game.Unreadable != "" {
			f := GameFailure{GameID: game.ID, Operation: "fetch", Attempts: 1, Error: game.Unreadable}
			summary.Failed = append(summary.Failed, f)
			r.metrics.Game(OutcomeFailed)
			logging.WarnWithContext(logging.WithContext(logging.WithGameID(ctx, game.ID), r.logger), "stored honors unreadable", "game_failed",
				logging.String("error", f.Error),
				logging.String(logging.FieldErrorHint, "rebuild the game from the raw corpus"),
			)
			continue
		}
		resolved, stats := resolve.Resolve(game.Honors)
		summary.Duplicates += stats.Duplicates
		summary.SuppressedSpecials += stats.SuppressedSpecials
		if honor.Equal(resolved, game.Honors) {
			summary.Unchanged++
			continue
		}
		summary.Changes = append(summary.Changes, Change{
			GameID: game.ID,
			Name:   game.Name,
			Before: game.Honors,
			After:  resolved,
		})
		if dryRun {
			summary.Updated++
			continue
		}
		gameCtx := logging.WithGameID(ctx, game.ID)
		attempts, err := retry.Do(gameCtx, r.opts.Retry, store.IsTransient, func(ctx context.Context) error {
			return r.store.ReplaceHonors(ctx, game.ID, resolved)
		})
		r.countRetries("replace", attempts)
		if err != nil {
			f := GameFailure{GameID: game.ID, Operation: "replace", Attempts: attempts, Error: err.Error()}
			summary.Failed = append(summary.Failed, f)
			r.metrics.Game(OutcomeFailed)
			logging.WarnWithContext(logging.WithContext(gameCtx, r.logger), "resolve write failed", "game_failed",
				logging.Int("attempts", attempts),
				logging.String("error", f.Error),
			)
			continue
		}
		summary.Updated++
		r.metrics.Game(OutcomeUpdated)
	}

	logger.Info("resolve finished",
		logging.String(logging.FieldEventType, "resolve_finished"),
		logging.Int("games", summary.Games),
		logging.Int("updated", summary.Updated),
		logging.Int("unchanged", summary.Unchanged),
		logging.Int("failed", len(summary.Failed)),
		logging.Bool("dry_run", dryRun),
	)
	return summary, nil
}

func (r *Runner) selectGames(ctx context.Context, ids []int64) ([]honor.Game, error) {
	if len(ids) == 0 {
		var games []honor.Game
		_, err := retry.Do(ctx, r.opts.Retry, store.IsTransient, func(ctx context.Context) error {
			g, err := r.store.FetchGamesWithHonors(ctx)
			games = g
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("fetch games: %w", err)
		}
		return games, nil
	}
	ids = slices.Clone(ids)
	slices.Sort(ids)
	ids = slices.Compact(ids)
	games := make([]honor.Game, 0, len(ids))
	for _, id := range ids {
		game, _, err := r.fetchGame(ctx, r.store, id)
		if errors.Is(err, store.ErrCorruptHonors) {
			games = append(games, store.Unreadable(id, "", err))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("fetch game %d: %w", id, err)
		}
		games = append(games, *game)
	}
	return games, nil
}
