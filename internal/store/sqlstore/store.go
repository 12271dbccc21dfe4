// Package sqlstore persists games in SQLite or PostgreSQL through sqlx.
//
// Both dialects share one schema and one set of queries written with "?"
// placeholders; sqlx rebinds them for PostgreSQL. SQLite busy errors are
// retried locally and surfaced as store.ErrTransient when they persist.
package sqlstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/robleto/MeepleGo-sub002/internal/honor"
	"github.com/robleto/MeepleGo-sub002/internal/store"
)

// Dialect names a supported SQL backend.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Store implements store.Store and store.Seeder.
type Store struct {
	db      *sqlx.DB
	dialect Dialect
	target  string
}

var (
	_ store.Store  = (*Store)(nil)
	_ store.Seeder = (*Store)(nil)
)

// OpenSQLite opens (creating if needed) the SQLite database at path.
func OpenSQLite(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	return initialize(ctx, db, DialectSQLite, path)
}

// OpenPostgres connects to the PostgreSQL database at dsn.
func OpenPostgres(ctx context.Context, dsn string) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", classify(err))
	}
	return initialize(ctx, db, DialectPostgres, redactDSN(dsn))
}

func initialize(ctx context.Context, db *sqlx.DB, dialect Dialect, target string) (*Store, error) {
	s := &Store{db: db, dialect: dialect, target: target}
	if err := s.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Dialect reports the backend in use.
func (s *Store) Dialect() Dialect { return s.dialect }

// Target returns the database path or the redacted DSN.
func (s *Store) Target() string { return s.target }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

type gameRow struct {
	ID     int64  `db:"bgg_id"`
	Name   string `db:"name"`
	Honors string `db:"honors"`
}

func (r gameRow) game() (honor.Game, error) {
	records, err := store.DecodeHonors(r.Honors)
	if err != nil {
		return honor.Game{}, fmt.Errorf("game %d: %w", r.ID, err)
	}
	return honor.Game{ID: r.ID, Name: r.Name, Honors: records}, nil
}

func (s *Store) selectGames(ctx context.Context, query string) ([]honor.Game, error) {
	var rows []gameRow
	if err := s.retryOnBusy(ctx, func() error {
		rows = rows[:0]
		return s.db.SelectContext(ctx, &rows, s.db.Rebind(query))
	}); err != nil {
		return nil, err
	}
	games := make([]honor.Game, 0, len(rows))
	for _, row := range rows {
		g, err := row.game()
		if err != nil {
			g = store.Unreadable(row.ID, row.Name, err)
		}
		games = append(games, g)
	}
	return games, nil
}

// FetchGamesWithHonors returns every game holding honors, ordered by id.
func (s *Store) FetchGamesWithHonors(ctx context.Context) ([]honor.Game, error) {
	games, err := s.selectGames(ctx, `SELECT bgg_id, name, honors FROM games
        WHERE honors <> '' AND honors <> '[]' AND honors <> 'null'
        ORDER BY bgg_id`)
	if err != nil {
		return nil, fmt.Errorf("fetch games with honors: %w", err)
	}
	return games, nil
}

// ListGames returns every game, including those without honors.
func (s *Store) ListGames(ctx context.Context) ([]honor.Game, error) {
	games, err := s.selectGames(ctx, `SELECT bgg_id, name, honors FROM games ORDER BY bgg_id`)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

// FetchGameByID loads one game.
func (s *Store) FetchGameByID(ctx context.Context, id int64) (*honor.Game, error) {
	var row gameRow
	err := s.retryOnBusy(ctx, func() error {
		return s.db.GetContext(ctx, &row, s.db.Rebind(`SELECT bgg_id, name, honors FROM games WHERE bgg_id = ?`), id)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.NotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch game %d: %w", id, err)
	}
	g, err := row.game()
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// ReplaceHonors overwrites the honor collection of an existing game.
func (s *Store) ReplaceHonors(ctx context.Context, id int64, honors []honor.Record) error {
	encoded, err := store.EncodeHonors(honors)
	if err != nil {
		return err
	}
	res, err := s.execWithRetry(ctx,
		`UPDATE games SET honors = ?, updated_at = ? WHERE bgg_id = ?`,
		encoded, time.Now().UTC().Format(time.RFC3339Nano), id,
	)
	if err != nil {
		return fmt.Errorf("replace honors for game %d: %w", id, err)
	}
	return requireRow(res, id)
}

// DeleteGame removes a game row.
func (s *Store) DeleteGame(ctx context.Context, id int64) error {
	res, err := s.execWithRetry(ctx, `DELETE FROM games WHERE bgg_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete game %d: %w", id, err)
	}
	return requireRow(res, id)
}

// UpsertGame inserts a game or renames an existing one, keeping its honors.
func (s *Store) UpsertGame(ctx context.Context, id int64, name string) error {
	_, err := s.execWithRetry(ctx,
		`INSERT INTO games (bgg_id, name, honors, updated_at) VALUES (?, ?, '[]', ?)
        ON CONFLICT (bgg_id) DO UPDATE SET name = excluded.name, updated_at = excluded.updated_at`,
		id, strings.TrimSpace(name), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert game %d: %w", id, err)
	}
	return nil
}

func requireRow(res sql.Result, id int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return store.NotFound(id)
	}
	return nil
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var res sql.Result
	err := s.retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = s.db.ExecContext(ctx, s.db.Rebind(query), args...)
		return execErr
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// retryOnBusy absorbs short SQLite lock contention. Whatever error remains is
// classified so callers can decide on a longer retry.
func (s *Store) retryOnBusy(ctx context.Context, op func() error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return classify(lastErr)
}

// classify marks connection-level and lock errors as transient.
func classify(err error) error {
	if err == nil || errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if isSQLiteBusy(err) || errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return store.Transient(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return store.Transient(err)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		// connection exception, insufficient resources, operator intervention
		case "08", "53", "57":
			return store.Transient(err)
		}
		if pqErr.Code == "40001" || pqErr.Code == "40P01" {
			return store.Transient(err)
		}
	}
	return err
}

func redactDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return dsn
	}
	return dsn[:scheme+3] + "***" + dsn[at:]
}
