package app

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/robleto/MeepleGo-sub002/internal/awardrules"
	"github.com/robleto/MeepleGo-sub002/internal/classify"
	"github.com/robleto/MeepleGo-sub002/internal/config"
	"github.com/robleto/MeepleGo-sub002/internal/logging"
	"github.com/robleto/MeepleGo-sub002/internal/metrics"
	"github.com/robleto/MeepleGo-sub002/internal/pipeline"
	"github.com/robleto/MeepleGo-sub002/internal/placeholder"
	"github.com/robleto/MeepleGo-sub002/internal/rawcorpus"
	"github.com/robleto/MeepleGo-sub002/internal/retry"
	"github.com/robleto/MeepleGo-sub002/internal/slugparse"
	"github.com/robleto/MeepleGo-sub002/internal/store"
	"github.com/robleto/MeepleGo-sub002/internal/verify"
)

// Services bundles the configured components.
type Services struct {
	Config     *config.Config
	Logger     *slog.Logger
	Store      store.Store
	Parser     *slugparse.Parser
	Classifier *classify.Classifier
	Rules      *awardrules.Set
	Detector   *placeholder.Detector
	Verifier   *verify.Verifier
	Metrics    *metrics.Recorder
	Runner     *pipeline.Runner
	Cleaner    *placeholder.Cleaner
}

// New opens the configured store and builds every component around it.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Services, error) {
	st, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	svc, err := NewWithStore(cfg, st, logger)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return svc, nil
}

// NewWithStore builds the components around an already opened store.
func NewWithStore(cfg *config.Config, st store.Store, logger *slog.Logger) (*Services, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	rules, err := awardrules.LoadSet(cfg.Paths.RulesDir, cfg.Verify.DefaultSingleWinner)
	if err != nil {
		return nil, fmt.Errorf("load award rules: %w", err)
	}

	parser := NewParser(cfg)
	classifier := NewClassifier(cfg)
	detector := placeholder.NewDetector(placeholder.Options{
		Families: rules.Families(),
		SignalWords: slices.Concat(
			wordsOr(cfg.Classifier.WinnerWords, classify.DefaultWinnerWords),
			wordsOr(cfg.Classifier.NomineeWords, classify.DefaultNomineeWords),
			wordsOr(cfg.Classifier.SpecialWords, classify.DefaultSpecialWords),
		),
		Similarity: cfg.Verify.PlaceholderSimilarity,
	})
	verifier := verify.New(rules, detector)
	recorder := metrics.New()
	policy := RetryPolicy(cfg)

	runner := pipeline.New(st, pipeline.Components{
		Checker:    rawcorpus.NewChecker(parser),
		Classifier: classifier,
		Verifier:   verifier,
		Metrics:    recorder,
	}, pipeline.Options{
		Workers:            cfg.Pipeline.Workers,
		Retry:              policy,
		Source:             cfg.Pipeline.Source,
		CreateMissingGames: cfg.Pipeline.CreateMissingGames,
	}, logger)

	return &Services{
		Config:     cfg,
		Logger:     logger,
		Store:      st,
		Parser:     parser,
		Classifier: classifier,
		Rules:      rules,
		Detector:   detector,
		Verifier:   verifier,
		Metrics:    recorder,
		Runner:     runner,
		Cleaner:    placeholder.NewCleaner(detector, policy, logger),
	}, nil
}

// NewParser builds the slug parser from the [parser] and [pipeline] sections.
func NewParser(cfg *config.Config) *slugparse.Parser {
	return slugparse.New(slugparse.Options{
		MinYear:        cfg.Pipeline.MinYear,
		MaxYear:        cfg.Pipeline.MaxYear,
		Substitutions:  cfg.Parser.Substitutions,
		LowercaseWords: cfg.Parser.LowercaseWords,
	})
}

// NewClassifier builds the classifier from the [classifier] section.
func NewClassifier(cfg *config.Config) *classify.Classifier {
	return classify.New(classify.Options{
		WinnerWords:   cfg.Classifier.WinnerWords,
		NomineeWords:  cfg.Classifier.NomineeWords,
		SpecialWords:  cfg.Classifier.SpecialWords,
		MinStemLength: cfg.Classifier.MinStemLength,
		StemStopWords: cfg.Classifier.StemStopWords,
	})
}

// RetryPolicy converts the [pipeline] retry settings.
func RetryPolicy(cfg *config.Config) retry.Policy {
	return retry.Policy{
		Attempts:       cfg.Pipeline.RetryAttempts,
		InitialBackoff: cfg.RetryInitialBackoff(),
		MaxBackoff:     cfg.RetryMaxBackoff(),
	}
}

// FlushMetrics writes the metrics textfile when one is configured. Failures
// are logged and never fail the command.
func (s *Services) FlushMetrics() {
	if s == nil || s.Config == nil {
		return
	}
	path := s.Config.Paths.MetricsTextfile
	if path == "" {
		return
	}
	if err := s.Metrics.WriteTextfile(path); err != nil {
		logging.WarnWithContext(s.Logger, "metrics textfile not written", "metrics_write_failed",
			logging.String("path", path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "node_exporter keeps the previous run's values"),
		)
	}
}

// Close releases the store.
func (s *Services) Close() error {
	if s == nil || s.Store == nil {
		return nil
	}
	return s.Store.Close()
}

func wordsOr(words, fallback []string) []string {
	if len(words) > 0 {
		return words
	}
	return fallback
}
