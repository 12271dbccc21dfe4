// Package storetest holds a behavioural test suite every store backend must
// pass.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/robleto/MeepleGo-sub002/internal/honor"
	"github.com/robleto/MeepleGo-sub002/internal/store"
)

// Backend is a store that can also seed games.
type Backend interface {
	store.Store
	store.Seeder
}

// Factory opens an empty backend for one subtest.
type Factory func(t *testing.T) Backend

// SampleHonors returns a small collection with every category.
func SampleHonors() []honor.Record {
	at := time.Date(2024, 7, 15, 9, 30, 0, 0, time.UTC)
	return []honor.Record{
		{Year: 2024, AwardType: "Spiel des Jahres", Category: honor.CategoryWinner, Result: "Winner", Source: honor.SourceScrape, HonorID: "98765", Name: "2024 Spiel des Jahres", Slug: "2024-spiel-des-jahres-winner", CreatedAt: at},
		{Year: 2023, AwardType: "Spiel des Jahres", Category: honor.CategoryNominee, Result: "Nominee", Source: honor.SourceScrape, HonorID: "87654", Name: "2023 Spiel des Jahres", CreatedAt: at},
		{Year: 2022, AwardType: "Golden Geek", Category: honor.CategorySpecial, Subcategory: "Best Party Game", Source: honor.SourceScrape, Validated: true, Name: "2022 Golden Geek Best Party Game", Description: "Golden Geek list", CreatedAt: at},
	}
}

// Run exercises the store contract against backends produced by newBackend.
func Run(t *testing.T, newBackend Factory) {
	t.Helper()
	ctx := context.Background()

	t.Run("replace and fetch round trip", func(t *testing.T) {
		s := newBackend(t)
		if err := s.UpsertGame(ctx, 379043, "Sky Team"); err != nil {
			t.Fatalf("UpsertGame: %v", err)
		}
		want := SampleHonors()
		if err := s.ReplaceHonors(ctx, 379043, want); err != nil {
			t.Fatalf("ReplaceHonors: %v", err)
		}
		got, err := s.FetchGameByID(ctx, 379043)
		if err != nil {
			t.Fatalf("FetchGameByID: %v", err)
		}
		if got.Name != "Sky Team" || got.ID != 379043 {
			t.Fatalf("unexpected game: %+v", got)
		}
		if diff := cmp.Diff(want, got.Honors); diff != "" {
			t.Fatalf("honors mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("fetch games with honors skips empty collections", func(t *testing.T) {
		s := newBackend(t)
		for id, name := range map[int64]string{3: "Three", 1: "One", 2: "Two"} {
			if err := s.UpsertGame(ctx, id, name); err != nil {
				t.Fatalf("UpsertGame: %v", err)
			}
		}
		if err := s.ReplaceHonors(ctx, 3, SampleHonors()[:1]); err != nil {
			t.Fatalf("ReplaceHonors: %v", err)
		}
		if err := s.ReplaceHonors(ctx, 1, SampleHonors()[1:]); err != nil {
			t.Fatalf("ReplaceHonors: %v", err)
		}
		games, err := s.FetchGamesWithHonors(ctx)
		if err != nil {
			t.Fatalf("FetchGamesWithHonors: %v", err)
		}
		if len(games) != 2 || games[0].ID != 1 || games[1].ID != 3 {
			t.Fatalf("unexpected games: %+v", games)
		}
		all, err := s.ListGames(ctx)
		if err != nil {
			t.Fatalf("ListGames: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("ListGames returned %d games, want 3", len(all))
		}
	})

	t.Run("replace with empty collection clears honors", func(t *testing.T) {
		s := newBackend(t)
		if err := s.UpsertGame(ctx, 7, "Seven"); err != nil {
			t.Fatalf("UpsertGame: %v", err)
		}
		if err := s.ReplaceHonors(ctx, 7, SampleHonors()); err != nil {
			t.Fatalf("ReplaceHonors: %v", err)
		}
		if err := s.ReplaceHonors(ctx, 7, nil); err != nil {
			t.Fatalf("ReplaceHonors(nil): %v", err)
		}
		games, err := s.FetchGamesWithHonors(ctx)
		if err != nil {
			t.Fatalf("FetchGamesWithHonors: %v", err)
		}
		if len(games) != 0 {
			t.Fatalf("expected no games with honors, got %+v", games)
		}
	})

	t.Run("missing games report not found", func(t *testing.T) {
		s := newBackend(t)
		if _, err := s.FetchGameByID(ctx, 404); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("FetchGameByID: expected ErrNotFound, got %v", err)
		}
		if err := s.ReplaceHonors(ctx, 404, SampleHonors()); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("ReplaceHonors: expected ErrNotFound, got %v", err)
		}
		if err := s.DeleteGame(ctx, 404); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("DeleteGame: expected ErrNotFound, got %v", err)
		}
	})

	t.Run("delete removes the game", func(t *testing.T) {
		s := newBackend(t)
		if err := s.UpsertGame(ctx, 11, "2019 Spiel des Jahres Winner"); err != nil {
			t.Fatalf("UpsertGame: %v", err)
		}
		if err := s.DeleteGame(ctx, 11); err != nil {
			t.Fatalf("DeleteGame: %v", err)
		}
		if _, err := s.FetchGameByID(ctx, 11); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("expected deleted game to be gone, got %v", err)
		}
	})

	t.Run("upsert keeps existing honors", func(t *testing.T) {
		s := newBackend(t)
		if err := s.UpsertGame(ctx, 5, "Old Name"); err != nil {
			t.Fatalf("UpsertGame: %v", err)
		}
		if err := s.ReplaceHonors(ctx, 5, SampleHonors()); err != nil {
			t.Fatalf("ReplaceHonors: %v", err)
		}
		if err := s.UpsertGame(ctx, 5, "New Name"); err != nil {
			t.Fatalf("UpsertGame: %v", err)
		}
		got, err := s.FetchGameByID(ctx, 5)
		if err != nil {
			t.Fatalf("FetchGameByID: %v", err)
		}
		if got.Name != "New Name" || len(got.Honors) != len(SampleHonors()) {
			t.Fatalf("unexpected game after upsert: %+v", got)
		}
	})
}
