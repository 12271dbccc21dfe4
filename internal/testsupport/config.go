package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/robleto/MeepleGo-sub002/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults to a sqlite store inside the data directory and applies any
// provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.RulesDir = filepath.Join(base, "rules")
	cfgVal.Store.Backend = config.BackendSQLite
	cfgVal.Store.SQLitePath = filepath.Join(cfgVal.Paths.DataDir, "meeplego.db")
	cfgVal.Pipeline.Workers = 2
	cfgVal.Pipeline.RetryInitialBackoffMS = 0
	cfgVal.Pipeline.RetryMaxBackoffMS = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithMemoryStore switches the test config to the in-memory backend.
func WithMemoryStore() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Store.Backend = config.BackendMemory
	}
}

// WithMetricsTextfile enables the metrics textfile under the temp dir.
func WithMetricsTextfile() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.MetricsTextfile = filepath.Join(b.baseDir, "metrics", "meeplego.prom")
	}
}

// WithCreateMissingGames toggles seeding of games absent from the store.
func WithCreateMissingGames() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Pipeline.CreateMissingGames = true
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
