package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and file locations.
type Paths struct {
	DataDir         string `toml:"data_dir"`
	LogDir          string `toml:"log_dir"`
	RulesDir        string `toml:"rules_dir"`
	MetricsTextfile string `toml:"metrics_textfile"`
}

// Store selects and configures the game store backend.
type Store struct {
	// Backend is sqlite, postgres, redis, or memory. Empty infers the backend
	// from the DSN prefix and falls back to sqlite.
	Backend     string `toml:"backend"`
	DSN         string `toml:"dsn"`
	SQLitePath  string `toml:"sqlite_path"`
	RedisPrefix string `toml:"redis_prefix"`
}

// Pipeline bounds the rebuild run.
type Pipeline struct {
	Workers               int    `toml:"workers"`
	RetryAttempts         int    `toml:"retry_attempts"`
	RetryInitialBackoffMS int    `toml:"retry_initial_backoff_ms"`
	RetryMaxBackoffMS     int    `toml:"retry_max_backoff_ms"`
	MinYear               int    `toml:"min_year"`
	MaxYear               int    `toml:"max_year"`
	Source                string `toml:"source"`
	CreateMissingGames    bool   `toml:"create_missing_games"`
}

// Parser holds the slug title casing tables.
type Parser struct {
	// Substitutions maps lowercased title phrases to their display form.
	Substitutions  map[string]string `toml:"substitutions"`
	LowercaseWords []string          `toml:"lowercase_words"`
}

// Classifier holds the result token tables. Empty lists use built-in
// defaults.
type Classifier struct {
	WinnerWords   []string `toml:"winner_words"`
	NomineeWords  []string `toml:"nominee_words"`
	SpecialWords  []string `toml:"special_words"`
	MinStemLength int      `toml:"min_stem_length"`
	// StemStopWords are whole words read as a truncated result word only
	// when the text ends in "..." or "…".
	StemStopWords []string `toml:"stem_stop_words"`
}

// Verify configures the integrity verifier.
type Verify struct {
	DefaultSingleWinner   bool    `toml:"default_single_winner"`
	PlaceholderSimilarity float64 `toml:"placeholder_similarity"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for meeplego.
//
// Configuration sections by subsystem:
//   - Paths: data, log, and rule directories plus the metrics textfile
//   - Store: backend selection and connection settings
//   - Pipeline: worker pool, retry, and year bounds
//   - Parser: slug title casing tables
//   - Classifier: winner/nominee/special token tables
//   - Verify: rule defaults and placeholder detection threshold
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Store      Store      `toml:"store"`
	Pipeline   Pipeline   `toml:"pipeline"`
	Parser     Parser     `toml:"parser"`
	Classifier Classifier `toml:"classifier"`
	Verify     Verify     `toml:"verify"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LockPath is the file guarding against concurrent mutating runs.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "meeplego.lock")
}

// RetryInitialBackoff returns the first retry delay.
func (c *Config) RetryInitialBackoff() time.Duration {
	return time.Duration(c.Pipeline.RetryInitialBackoffMS) * time.Millisecond
}

// RetryMaxBackoff returns the retry delay ceiling.
func (c *Config) RetryMaxBackoff() time.Duration {
	return time.Duration(c.Pipeline.RetryMaxBackoffMS) * time.Millisecond
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
