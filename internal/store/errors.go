package store

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports a missing game.
	ErrNotFound = errors.New("game not found")
	// ErrTransient marks failures worth retrying: busy databases, dropped
	// connections, timeouts.
	ErrTransient = errors.New("transient store failure")
	// ErrSchemaMismatch indicates the database schema version differs from
	// the version this build expects.
	ErrSchemaMismatch = errors.New("schema version mismatch")
	// ErrCorruptHonors marks a stored honor collection that does not decode.
	ErrCorruptHonors = errors.New("corrupt honors collection")
)

// Transient wraps err so IsTransient reports true.
func Transient(err error) error {
	if err == nil || errors.Is(err, ErrTransient) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrTransient, err)
}

// IsTransient reports whether err should be retried. Context cancellation is
// never transient.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	return errors.Is(err, ErrTransient)
}

// NotFound returns an ErrNotFound wrapped with the game id.
func NotFound(id int64) error {
	return fmt.Errorf("%w: bgg_id %d", ErrNotFound, id)
}
