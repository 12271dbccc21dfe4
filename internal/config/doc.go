// Package config loads, normalizes, and validates meeplego configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours environment fallbacks for store connection strings
// (MEEPLEGO_STORE_DSN, DATABASE_URL, REDIS_URL). The Config type holds every
// knob the pipeline and CLI need: where data and logs live, which store
// backend to open, worker and retry bounds, and the token tables used by the
// slug parser and award classifier.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical log formats, and clear validation errors.
package config
