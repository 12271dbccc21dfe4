// Package store defines the persistence contract the honor pipeline depends
// on, plus the error classification and JSON codec shared by every backend.
//
// A game is keyed by its bgg_id and carries a name and a JSON encoded honor
// collection. The pipeline only ever replaces that collection wholesale.
// Backends live in subpackages: sqlstore (SQLite and PostgreSQL via sqlx),
// redisstore, and memstore for tests and dry runs.
package store
