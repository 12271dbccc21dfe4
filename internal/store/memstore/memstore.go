// Package memstore is an in-memory store.Store used by tests and dry runs.
package memstore

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/robleto/MeepleGo-sub002/internal/honor"
	"github.com/robleto/MeepleGo-sub002/internal/store"
)

// Hook lets tests inject failures. Returning a non-nil error aborts the call.
type Hook func(op string, id int64) error

// Store keeps games in a map guarded by a mutex.
type Store struct {
	mu     sync.Mutex
	games  map[int64]honor.Game
	writes map[int64]int
	hook   Hook
}

// New returns a store seeded with games.
func New(games ...honor.Game) *Store {
	s := &Store{games: make(map[int64]honor.Game), writes: make(map[int64]int)}
	for _, g := range games {
		s.games[g.ID] = g.Clone()
	}
	return s
}

// Snapshot copies every game from src, including games without honors.
func Snapshot(ctx context.Context, src store.Store) (*Store, error) {
	var (
		games []honor.Game
		err   error
	)
	if seeder, ok := src.(store.Seeder); ok {
		games, err = seeder.ListGames(ctx)
	} else {
		games, err = src.FetchGamesWithHonors(ctx)
	}
	if err != nil {
		return nil, err
	}
	return New(games...), nil
}

// SetHook installs a failure hook.
func (s *Store) SetHook(h Hook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hook = h
}

// Writes returns how many successful ReplaceHonors calls hit id.
func (s *Store) Writes(id int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes[id]
}

func (s *Store) check(op string, id int64) error {
	if s.hook == nil {
		return nil
	}
	return s.hook(op, id)
}

func (s *Store) FetchGamesWithHonors(ctx context.Context) ([]honor.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("fetch_all", 0); err != nil {
		return nil, err
	}
	out := make([]honor.Game, 0, len(s.games))
	for _, g := range s.games {
		if len(g.Honors) > 0 || g.Unreadable != "" {
			out = append(out, g.Clone())
		}
	}
	sortGames(out)
	return out, nil
}

func (s *Store) FetchGameByID(ctx context.Context, id int64) (*honor.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("fetch", id); err != nil {
		return nil, err
	}
	g, ok := s.games[id]
	if !ok {
		return nil, store.NotFound(id)
	}
	if g.Unreadable != "" {
		return nil, fmt.Errorf("game %d: %w: %s", id, store.ErrCorruptHonors, g.Unreadable)
	}
	clone := g.Clone()
	return &clone, nil
}

func (s *Store) ReplaceHonors(ctx context.Context, id int64, honors []honor.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("replace", id); err != nil {
		return err
	}
	g, ok := s.games[id]
	if !ok {
		return store.NotFound(id)
	}
	g.Honors = slices.Clone(honors)
	g.Unreadable = ""
	s.games[id] = g
	s.writes[id]++
	return nil
}

func (s *Store) DeleteGame(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("delete", id); err != nil {
		return err
	}
	if _, ok := s.games[id]; !ok {
		return store.NotFound(id)
	}
	delete(s.games, id)
	return nil
}

func (s *Store) UpsertGame(ctx context.Context, id int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("upsert", id); err != nil {
		return err
	}
	g := s.games[id]
	g.ID = id
	g.Name = name
	s.games[id] = g
	return nil
}

func (s *Store) ListGames(ctx context.Context) ([]honor.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]honor.Game, 0, len(s.games))
	for _, g := range s.games {
		out = append(out, g.Clone())
	}
	sortGames(out)
	return out, nil
}

func (s *Store) Close() error { return nil }

func sortGames(games []honor.Game) {
	slices.SortFunc(games, func(a, b honor.Game) int { return cmp.Compare(a.ID, b.ID) })
}
