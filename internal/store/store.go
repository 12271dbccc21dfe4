package store

import (
	"context"

	"github.com/robleto/MeepleGo-sub002/internal/honor"
)

// Store is the adapter the pipeline reads from and writes to.
type Store interface {
	// FetchGamesWithHonors returns every game holding at least one honor,
	// ordered by id. A game whose collection does not decode is returned
	// with Unreadable set rather than failing the call.
	FetchGamesWithHonors(ctx context.Context) ([]honor.Game, error)
	// FetchGameByID returns ErrNotFound when the game is absent and
	// ErrCorruptHonors when its collection does not decode.
	FetchGameByID(ctx context.Context, id int64) (*honor.Game, error)
	// ReplaceHonors overwrites the whole honor collection of a game.
	ReplaceHonors(ctx context.Context, id int64, honors []honor.Record) error
	// DeleteGame removes a game. Used by placeholder cleanup only.
	DeleteGame(ctx context.Context, id int64) error
	Close() error
}

// Seeder is implemented by backends that can create games and list games
// without honors.
type Seeder interface {
	UpsertGame(ctx context.Context, id int64, name string) error
	ListGames(ctx context.Context) ([]honor.Game, error)
}
