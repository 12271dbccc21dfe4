package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateClassifier(); err != nil {
		return err
	}
	if err := c.validateVerify(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateStore() error {
	switch c.Store.Backend {
	case BackendSQLite:
		if strings.TrimSpace(c.Store.SQLitePath) == "" {
			return errors.New("store.sqlite_path must be set for the sqlite backend")
		}
	case BackendPostgres:
		if c.Store.DSN == "" {
			return errors.New("store.dsn must be set for the postgres backend (or set MEEPLEGO_STORE_DSN / DATABASE_URL)")
		}
	case BackendRedis:
		if c.Store.DSN == "" {
			return errors.New("store.dsn must be set for the redis backend (or set MEEPLEGO_STORE_DSN / REDIS_URL)")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("store.backend: unsupported value %q (want sqlite, postgres, redis, or memory)", c.Store.Backend)
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if err := ensurePositiveMap(map[string]int{
		"pipeline.workers":        c.Pipeline.Workers,
		"pipeline.retry_attempts": c.Pipeline.RetryAttempts,
		"pipeline.min_year":       c.Pipeline.MinYear,
		"pipeline.max_year":       c.Pipeline.MaxYear,
	}); err != nil {
		return err
	}
	if c.Pipeline.RetryInitialBackoffMS < 0 {
		return errors.New("pipeline.retry_initial_backoff_ms must be >= 0")
	}
	if c.Pipeline.RetryMaxBackoffMS < c.Pipeline.RetryInitialBackoffMS {
		return errors.New("pipeline.retry_max_backoff_ms must be >= pipeline.retry_initial_backoff_ms")
	}
	if c.Pipeline.MinYear > c.Pipeline.MaxYear {
		return fmt.Errorf("pipeline.min_year (%d) must not exceed pipeline.max_year (%d)", c.Pipeline.MinYear, c.Pipeline.MaxYear)
	}
	return nil
}

func (c *Config) validateClassifier() error {
	if c.Classifier.MinStemLength < 1 {
		return errors.New("classifier.min_stem_length must be positive")
	}
	return nil
}

func (c *Config) validateVerify() error {
	if c.Verify.PlaceholderSimilarity <= 0 || c.Verify.PlaceholderSimilarity > 1 {
		return errors.New("verify.placeholder_similarity must be in (0, 1]")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
