// Package logging assembles structured slog loggers for meeplego.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context helpers so pipeline code can tag log lines
// with the run id and the game being processed. NewFromConfig writes
// human-readable lines to stderr and, when a log directory is configured,
// mirrors every record as JSON into meeplego.log.
//
// Components receive a *slog.Logger explicitly; NewNop supplies a discarding
// logger for tests and wiring code that cannot fail.
package logging
