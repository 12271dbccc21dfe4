package placeholder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/robleto/MeepleGo-sub002/internal/honor"
	"github.com/robleto/MeepleGo-sub002/internal/logging"
	"github.com/robleto/MeepleGo-sub002/internal/retry"
	"github.com/robleto/MeepleGo-sub002/internal/store"
)

// Candidate is a game flagged as a placeholder.
type Candidate struct {
	ID      int64  `json:"bgg_id"`
	Name    string `json:"name"`
	Reason  Reason `json:"reason"`
	Honors  int    `json:"honors"`
	Deleted bool   `json:"deleted"`
}

// Failure records a placeholder that could not be deleted.
type Failure struct {
	ID       int64  `json:"bgg_id"`
	Attempts int    `json:"attempts"`
	Error    string `json:"error"`
}

// Result summarizes one cleanup pass.
type Result struct {
	Scanned    int         `json:"scanned"`
	Candidates []Candidate `json:"candidates"`
	Deleted    int         `json:"deleted"`
	Failed     []Failure   `json:"failed,omitempty"`
	DryRun     bool        `json:"dry_run"`
}

// Cleaner deletes placeholder games from a store.
type Cleaner struct {
	detector *Detector
	policy   retry.Policy
	logger   *slog.Logger
}

// NewCleaner builds a cleaner around detector.
func NewCleaner(detector *Detector, policy retry.Policy, logger *slog.Logger) *Cleaner {
	return &Cleaner{
		detector: detector,
		policy:   policy,
		logger:   logging.NewComponentLogger(logger, "placeholder"),
	}
}

// Run scans every game in st. Award types seen in stored honors widen a
// per-run copy of the detector before scanning. With dryRun set nothing is deleted.
// Delete failures are collected in the result and do not stop the pass.
func (c *Cleaner) Run(ctx context.Context, st store.Store, dryRun bool) (*Result, error) {
	if c == nil || c.detector == nil {
		return nil, errors.New("placeholder cleaner not configured")
	}
	games, err := listGames(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	detector := c.detector.WithFamilies(ObservedFamilies(games)...)

	result := &Result{Scanned: len(games), DryRun: dryRun}
	for _, game := range games {
		reason, ok := detector.Match(game.Name)
		if !ok {
			continue
		}
		candidate := Candidate{ID: game.ID, Name: game.Name, Reason: reason, Honors: len(game.Honors)}
		logger := c.logger.With(logging.Int64(logging.FieldGameID, game.ID))
		if dryRun {
			logger.Info("placeholder game found",
				logging.String(logging.FieldEventType, "placeholder_found"),
				logging.String("name", game.Name),
				logging.String("reason", string(reason)),
			)
			result.Candidates = append(result.Candidates, candidate)
			continue
		}
		attempts, err := retry.Do(ctx, c.policy, store.IsTransient, func(ctx context.Context) error {
			return st.DeleteGame(ctx, game.ID)
		})
		switch {
		case err == nil:
			candidate.Deleted = true
			result.Deleted++
			logger.Info("placeholder game deleted",
				logging.String(logging.FieldEventType, "placeholder_deleted"),
				logging.String("name", game.Name),
				logging.String("reason", string(reason)),
			)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return result, err
		default:
			result.Failed = append(result.Failed, Failure{ID: game.ID, Attempts: attempts, Error: err.Error()})
			logging.WarnWithContext(logger, "placeholder delete failed", "placeholder_delete_failed",
				logging.Int("attempts", attempts),
				logging.Error(err),
			)
		}
		result.Candidates = append(result.Candidates, candidate)
	}
	return result, nil
}

func listGames(ctx context.Context, st store.Store) ([]honor.Game, error) {
	if seeder, ok := st.(store.Seeder); ok {
		return seeder.ListGames(ctx)
	}
	return st.FetchGamesWithHonors(ctx)
}
