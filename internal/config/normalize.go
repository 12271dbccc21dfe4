package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeStore(); err != nil {
		return err
	}
	c.normalizePipeline()
	c.normalizeParser()
	c.normalizeClassifier()
	c.normalizeVerify()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(strings.TrimSpace(c.Paths.DataDir)); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.RulesDir, err = expandPath(strings.TrimSpace(c.Paths.RulesDir)); err != nil {
		return fmt.Errorf("paths.rules_dir: %w", err)
	}
	if c.Paths.MetricsTextfile, err = expandPath(strings.TrimSpace(c.Paths.MetricsTextfile)); err != nil {
		return fmt.Errorf("paths.metrics_textfile: %w", err)
	}
	return nil
}

// normalizeStore applies DSN environment fallbacks and infers the backend.
// MEEPLEGO_STORE_DSN always applies; DATABASE_URL and REDIS_URL only apply
// when the matching backend was selected explicitly.
func (c *Config) normalizeStore() error {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	c.Store.DSN = strings.TrimSpace(c.Store.DSN)
	if c.Store.DSN == "" {
		if value, ok := os.LookupEnv("MEEPLEGO_STORE_DSN"); ok {
			c.Store.DSN = strings.TrimSpace(value)
		}
	}
	if c.Store.DSN == "" {
		switch c.Store.Backend {
		case BackendPostgres:
			c.Store.DSN = strings.TrimSpace(os.Getenv("DATABASE_URL"))
		case BackendRedis:
			c.Store.DSN = strings.TrimSpace(os.Getenv("REDIS_URL"))
		}
	}
	if c.Store.Backend == "" {
		c.Store.Backend = InferBackend(c.Store.DSN)
	}

	var err error
	c.Store.SQLitePath = strings.TrimSpace(c.Store.SQLitePath)
	if c.Store.SQLitePath == "" {
		c.Store.SQLitePath = filepath.Join(c.Paths.DataDir, defaultSQLiteName)
	}
	if c.Store.SQLitePath, err = expandPath(c.Store.SQLitePath); err != nil {
		return fmt.Errorf("store.sqlite_path: %w", err)
	}
	if strings.TrimSpace(c.Store.RedisPrefix) == "" {
		c.Store.RedisPrefix = defaultRedisPrefix
	}
	return nil
}

// InferBackend picks a backend from a DSN scheme. Unknown or empty DSNs map
// to sqlite.
func InferBackend(dsn string) string {
	lower := strings.ToLower(strings.TrimSpace(dsn))
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return BackendPostgres
	case strings.HasPrefix(lower, "redis://"), strings.HasPrefix(lower, "rediss://"):
		return BackendRedis
	case lower == "memory" || lower == "mem://":
		return BackendMemory
	default:
		return BackendSQLite
	}
}

func (c *Config) normalizePipeline() {
	c.Pipeline.Source = strings.TrimSpace(c.Pipeline.Source)
	if c.Pipeline.Source == "" {
		c.Pipeline.Source = defaultSource
	}
	if c.Pipeline.RetryAttempts == 0 {
		c.Pipeline.RetryAttempts = defaultRetryAttempts
	}
}

func (c *Config) normalizeParser() {
	if len(c.Parser.Substitutions) > 0 {
		subs := make(map[string]string, len(c.Parser.Substitutions))
		for phrase, display := range c.Parser.Substitutions {
			key := strings.Join(strings.Fields(strings.ToLower(phrase)), " ")
			if key == "" || strings.TrimSpace(display) == "" {
				continue
			}
			subs[key] = strings.TrimSpace(display)
		}
		c.Parser.Substitutions = subs
	}
	c.Parser.LowercaseWords = normalizeWords(c.Parser.LowercaseWords)
}

func (c *Config) normalizeClassifier() {
	c.Classifier.WinnerWords = normalizeWords(c.Classifier.WinnerWords)
	c.Classifier.NomineeWords = normalizeWords(c.Classifier.NomineeWords)
	c.Classifier.SpecialWords = normalizeWords(c.Classifier.SpecialWords)
	c.Classifier.StemStopWords = normalizeWords(c.Classifier.StemStopWords)
	if c.Classifier.MinStemLength == 0 {
		c.Classifier.MinStemLength = defaultMinStemLength
	}
}

func (c *Config) normalizeVerify() {
	if c.Verify.PlaceholderSimilarity == 0 {
		c.Verify.PlaceholderSimilarity = defaultPlaceholderSimilarity
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func normalizeWords(words []string) []string {
	if len(words) == 0 {
		return nil
	}
	out := make([]string, 0, len(words))
	seen := make(map[string]struct{}, len(words))
	for _, word := range words {
		normalized := strings.ToLower(strings.TrimSpace(word))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}
