package pipeline

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/robleto/MeepleGo-sub002/internal/classify"
	"github.com/robleto/MeepleGo-sub002/internal/honor"
	"github.com/robleto/MeepleGo-sub002/internal/logging"
	"github.com/robleto/MeepleGo-sub002/internal/metrics"
	"github.com/robleto/MeepleGo-sub002/internal/rawcorpus"
	"github.com/robleto/MeepleGo-sub002/internal/resolve"
	"github.com/robleto/MeepleGo-sub002/internal/retry"
	"github.com/robleto/MeepleGo-sub002/internal/store"
	"github.com/robleto/MeepleGo-sub002/internal/store/memstore"
	"github.com/robleto/MeepleGo-sub002/internal/verify"
)

// DefaultWorkers bounds the per-game pool when Options.Workers is unset.
const DefaultWorkers = 8

// Game outcomes reported to metrics.
const (
	OutcomeUpdated   = "updated"
	OutcomeUnchanged = "unchanged"
	OutcomeMissing   = "missing"
	OutcomeCreated   = "created"
	OutcomeFailed    = "failed"
)

// Options tunes a Runner.
type Options struct {
	Workers int
	Retry   retry.Policy
	// Source is stamped on every built record.
	Source string
	// CreateMissingGames seeds games absent from the store when the backend
	// implements store.Seeder.
	CreateMissingGames bool
	Now                func() time.Time
}

// RunOptions selects per-invocation behaviour.
type RunOptions struct {
	// DryRun computes every change against an in-memory snapshot of the
	// store and leaves the store untouched.
	DryRun bool
	// Verify runs the integrity verifier after all games finished.
	Verify bool
}

// Components are the collaborators a Runner drives. Nil members get
// defaults.
type Components struct {
	Checker    *rawcorpus.Checker
	Classifier *classify.Classifier
	Verifier   *verify.Verifier
	Metrics    *metrics.Recorder
}

// GameFailure is one game that could not be processed.
type GameFailure struct {
	GameID    int64  `json:"bgg_id"`
	Operation string `json:"operation"`
	Attempts  int    `json:"attempts"`
	Error     string `json:"error"`
}

// Summary reports one rebuild run.
type Summary struct {
	RunID              string         `json:"run_id"`
	DryRun             bool           `json:"dry_run"`
	Entries            int            `json:"entries"`
	Skipped            int            `json:"skipped"`
	SkipReasons        map[string]int `json:"skip_reasons,omitempty"`
	Records            int            `json:"records"`
	Games              int            `json:"games"`
	Updated            int            `json:"updated"`
	Unchanged          int            `json:"unchanged"`
	Missing            int            `json:"missing"`
	Created            int            `json:"created"`
	Failed             []GameFailure  `json:"failed,omitempty"`
	Duplicates         int            `json:"duplicates"`
	SuppressedSpecials int            `json:"suppressed_specials"`
	Report             *verify.Report `json:"report,omitempty"`
	Duration           time.Duration  `json:"duration"`
}

// Runner executes the pipeline against a store.
type Runner struct {
	store      store.Store
	checker    *rawcorpus.Checker
	classifier *classify.Classifier
	verifier   *verify.Verifier
	metrics    *metrics.Recorder
	logger     *slog.Logger
	opts       Options
}

// New builds a runner.
func New(st store.Store, c Components, opts Options, logger *slog.Logger) *Runner {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Retry.Attempts <= 0 {
		opts.Retry = retry.Default()
	}
	if opts.Source == "" {
		opts.Source = honor.SourceScrape
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if c.Checker == nil {
		c.Checker = rawcorpus.NewChecker(nil)
	}
	if c.Classifier == nil {
		c.Classifier = classify.New(classify.Options{})
	}
	if c.Verifier == nil {
		c.Verifier = verify.New(nil, nil)
	}
	return &Runner{
		store:      st,
		checker:    c.Checker,
		classifier: c.Classifier,
		verifier:   c.Verifier,
		metrics:    c.Metrics,
		logger:     logging.NewComponentLogger(logger, "pipeline"),
		opts:       opts,
	}
}

// tally collects per-game results from concurrent workers.
type tally struct {
	updated   atomic.Int64
	unchanged atomic.Int64
	missing   atomic.Int64
	created   atomic.Int64

	mu       sync.Mutex
	failures []GameFailure
	stats    resolve.Stats
}

func (t *tally) fail(f GameFailure) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failures = append(t.failures, f)
}

func (t *tally) addStats(s resolve.Stats) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats.Add(s)
}

func (t *tally) sortedFailures() []GameFailure {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := slices.Clone(t.failures)
	slices.SortFunc(out, func(a, b GameFailure) int { return cmp.Compare(a.GameID, b.GameID) })
	return out
}

// Run processes entries. Only failures that stop the run as a whole are
// returned as errors; per-game failures land in Summary.Failed.
func (r *Runner) Run(ctx context.Context, entries []honor.RawEntry, ro RunOptions) (*Summary, error) {
	started := r.opts.Now()
	summary := &Summary{
		RunID:       uuid.NewString(),
		DryRun:      ro.DryRun,
		Entries:     len(entries),
		SkipReasons: make(map[string]int),
	}
	ctx = logging.WithRunID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, r.logger)

	target := r.store
	if ro.DryRun {
		snapshot, err := memstore.Snapshot(ctx, r.store)
		if err != nil {
			return nil, fmt.Errorf("snapshot store for dry run: %w", err)
		}
		target = snapshot
	}

	logger.Info("rebuild started",
		logging.String(logging.FieldEventType, "run_started"),
		logging.Int("entries", len(entries)),
		logging.Bool("dry_run", ro.DryRun),
		logging.Int("workers", r.opts.Workers),
	)

	built := r.buildAll(entries, started, summary, logger)
	batches := Group(built)
	summary.Records = len(built)
	summary.Games = len(batches)

	t := &tally{}
	if err := r.forEachGame(ctx, batches, func(ctx context.Context, batch GameBatch) {
		r.processGame(ctx, target, batch, t)
	}); err != nil {
		return nil, err
	}

	summary.Updated = int(t.updated.Load())
	summary.Unchanged = int(t.unchanged.Load())
	summary.Missing = int(t.missing.Load())
	summary.Created = int(t.created.Load())
	summary.Failed = t.sortedFailures()
	summary.Duplicates = t.stats.Duplicates
	summary.SuppressedSpecials = t.stats.SuppressedSpecials

	if ro.Verify {
		report, err := r.verifyStore(ctx, target)
		if err != nil {
			return nil, err
		}
		summary.Report = report
	}

	finished := r.opts.Now()
	summary.Duration = finished.Sub(started)
	r.metrics.RunFinished(summary.Duration, finished)

	logger.Info("rebuild finished",
		logging.String(logging.FieldEventType, "run_finished"),
		logging.Int("games", summary.Games),
		logging.Int("updated", summary.Updated),
		logging.Int("unchanged", summary.Unchanged),
		logging.Int("missing", summary.Missing),
		logging.Int("failed", len(summary.Failed)),
		logging.Int("skipped", summary.Skipped),
		logging.Duration("duration", summary.Duration),
	)
	return summary, nil
}

func (r *Runner) buildAll(entries []honor.RawEntry, runAt time.Time, summary *Summary, logger *slog.Logger) []Built {
	var built []Built
	for _, raw := range entries {
		entry, parsed, reason := r.checker.Prepare(raw)
		if reason == "" {
			c, err := r.classifier.Classify(entry, parsed)
			switch {
			case errors.Is(err, classify.ErrMissingAwardSet):
				reason = rawcorpus.ReasonMissingAwardSet
			case err != nil:
				reason = "classify-error"
			default:
				r.metrics.Entry("processed")
				logger.Debug("entry classified",
					logging.String("entry", entry.Label()),
					logging.String(logging.FieldAwardType, c.AwardType),
					logging.Int(logging.FieldYear, entry.YearValue()),
					logging.String("category", c.Category.String()),
					logging.String("signal", string(c.Signal)),
				)
				built = append(built, Build(entry, c, runAt, r.opts.Source)...)
				continue
			}
		}
		summary.Skipped++
		summary.SkipReasons[reason]++
		r.metrics.Entry(reason)
		logger.Debug("entry skipped",
			logging.String("entry", raw.Label()),
			logging.String("reason", reason),
		)
	}
	return built
}

// forEachGame runs fn for every batch on a pool of opts.Workers goroutines
// and waits for all of them. It returns the context error when the run was
// cancelled.
func (r *Runner) forEachGame(ctx context.Context, batches []GameBatch, fn func(context.Context, GameBatch)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for _, batch := range batches {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			fn(logging.WithGameID(gctx, batch.ID), batch)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (r *Runner) processGame(ctx context.Context, target store.Store, batch GameBatch, t *tally) {
	logger := logging.WithContext(ctx, r.logger)

	op := "fetch"
	game, attempts, err := r.fetchGame(ctx, target, batch.ID)
	if errors.Is(err, store.ErrNotFound) {
		op = "create"
		game, attempts, err = r.createGame(ctx, target, batch)
		if game == nil && err == nil {
			t.missing.Add(1)
			r.metrics.Game(OutcomeMissing)
			logging.WarnWithContext(logger, "game not in store", "game_missing",
				logging.String("name", batch.Name),
				logging.Int("records", len(batch.Records)),
				logging.String(logging.FieldErrorHint, "import the game or enable pipeline.create_missing_games"),
				logging.String(logging.FieldImpact, "honors for this game were not stored"),
			)
			return
		}
		if err == nil {
			t.created.Add(1)
			r.metrics.Game(OutcomeCreated)
		}
	}
	if err != nil {
		r.recordFailure(logger, t, GameFailure{GameID: batch.ID, Operation: op, Attempts: attempts, Error: err.Error()})
		return
	}

	merged := Merge(game.Honors, batch.Records)
	resolved, stats := resolve.Resolve(merged)
	t.addStats(stats)

	if honor.Equal(resolved, game.Honors) {
		t.unchanged.Add(1)
		r.metrics.Game(OutcomeUnchanged)
		logger.Debug("honors unchanged", logging.Int("records", len(resolved)))
		return
	}

	attempts, err = retry.Do(ctx, r.opts.Retry, store.IsTransient, func(ctx context.Context) error {
		return target.ReplaceHonors(ctx, batch.ID, resolved)
	})
	r.countRetries("replace", attempts)
	if err != nil {
		r.recordFailure(logger, t, GameFailure{GameID: batch.ID, Operation: "replace", Attempts: attempts, Error: err.Error()})
		return
	}
	t.updated.Add(1)
	r.metrics.Game(OutcomeUpdated)
	logger.Info("honors updated",
		logging.String(logging.FieldEventType, "game_updated"),
		logging.Int("before", len(game.Honors)),
		logging.Int("after", len(resolved)),
		logging.Int("duplicates", stats.Duplicates),
		logging.Int("suppressed_specials", stats.SuppressedSpecials),
	)
}

func (r *Runner) fetchGame(ctx context.Context, target store.Store, id int64) (*honor.Game, int, error) {
	var game *honor.Game
	attempts, err := retry.Do(ctx, r.opts.Retry, store.IsTransient, func(ctx context.Context) error {
		g, err := target.FetchGameByID(ctx, id)
		game = g
		return err
	})
	r.countRetries("fetch", attempts)
	return game, attempts, err
}

// createGame seeds a missing game when allowed. It returns a nil game and a
// nil error when the game stays missing.
func (r *Runner) createGame(ctx context.Context, target store.Store, batch GameBatch) (*honor.Game, int, error) {
	seeder, ok := target.(store.Seeder)
	if !r.opts.CreateMissingGames || !ok {
		return nil, 0, nil
	}
	attempts, err := retry.Do(ctx, r.opts.Retry, store.IsTransient, func(ctx context.Context) error {
		return seeder.UpsertGame(ctx, batch.ID, batch.Name)
	})
	r.countRetries("upsert", attempts)
	if err != nil {
		return nil, attempts, fmt.Errorf("create game: %w", err)
	}
	return &honor.Game{ID: batch.ID, Name: batch.Name}, attempts, nil
}

func (r *Runner) recordFailure(logger *slog.Logger, t *tally, f GameFailure) {
	t.fail(f)
	r.metrics.Game(OutcomeFailed)
	logging.WarnWithContext(logger, "game processing failed", "game_failed",
		logging.String("operation", f.Operation),
		logging.Int("attempts", f.Attempts),
		logging.String("error", f.Error),
		logging.String(logging.FieldErrorHint, "rerun the rebuild once the store is reachable"),
	)
}

func (r *Runner) countRetries(operation string, attempts int) {
	for i := 1; i < attempts; i++ {
		r.metrics.Retry(operation)
	}
}

func (r *Runner) verifyStore(ctx context.Context, target store.Store) (*verify.Report, error) {
	var games []honor.Game
	attempts, err := retry.Do(ctx, r.opts.Retry, store.IsTransient, func(ctx context.Context) error {
		g, err := target.FetchGamesWithHonors(ctx)
		games = g
		return err
	})
	r.countRetries("fetch_all", attempts)
	if err != nil {
		return nil, fmt.Errorf("verify: fetch corpus: %w", err)
	}
	report := r.verifier.Verify(games)
	r.metrics.Violations(report.CountByRule())

	logger := logging.WithContext(ctx, r.logger)
	for _, v := range report.Violations {
		logger.Warn("integrity violation",
			logging.String(logging.FieldEventType, "integrity_violation"),
			logging.String("rule", v.Rule),
			logging.String(logging.FieldAwardType, v.AwardType),
			logging.Int(logging.FieldYear, v.Year),
			logging.String("detail", v.Detail),
		)
	}
	return report, nil
}

// VerifyStored runs the verifier over the stored corpus.
func (r *Runner) VerifyStored(ctx context.Context) (*verify.Report, error) {
	return r.verifyStore(ctx, r.store)
}
