package testsupport

import (
	"context"
	"testing"

	"github.com/robleto/MeepleGo-sub002/internal/config"
	"github.com/robleto/MeepleGo-sub002/internal/honor"
	"github.com/robleto/MeepleGo-sub002/internal/store/sqlstore"
)

// MustOpenStore opens the sqlite store named by cfg and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *sqlstore.Store {
	t.Helper()

	st, err := sqlstore.OpenSQLite(context.Background(), cfg.Store.SQLitePath)
	if err != nil {
		t.Fatalf("sqlstore.OpenSQLite: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// SeedGames upserts games and their honors into st.
func SeedGames(t testing.TB, st *sqlstore.Store, games ...honor.Game) {
	t.Helper()

	ctx := context.Background()
	for _, g := range games {
		if err := st.UpsertGame(ctx, g.ID, g.Name); err != nil {
			t.Fatalf("UpsertGame(%d): %v", g.ID, err)
		}
		if len(g.Honors) == 0 {
			continue
		}
		if err := st.ReplaceHonors(ctx, g.ID, g.Honors); err != nil {
			t.Fatalf("ReplaceHonors(%d): %v", g.ID, err)
		}
	}
}
