// Package redisstore keeps games in Redis hashes.
//
// Each game lives at "{prefix}game:{id}" with "name" and "honors" fields. Two
// sets index the corpus: "{prefix}games" holds every id and
// "{prefix}games:with_honors" holds ids whose collection is non-empty.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/robleto/MeepleGo-sub002/internal/honor"
	"github.com/robleto/MeepleGo-sub002/internal/store"
)

// DefaultPrefix namespaces every key.
const DefaultPrefix = "meeplego:"

// Store implements store.Store and store.Seeder on Redis.
type Store struct {
	client *redis.Client
	prefix string
}

var (
	_ store.Store  = (*Store)(nil)
	_ store.Seeder = (*Store)(nil)
)

// Open connects using a redis:// URL and verifies the connection.
func Open(ctx context.Context, url, prefix string) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", store.Transient(err))
	}
	return New(client, prefix), nil
}

// New wraps an existing client.
func New(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) gameKey(id int64) string { return s.prefix + "game:" + strconv.FormatInt(id, 10) }
func (s *Store) allKey() string          { return s.prefix + "games" }
func (s *Store) honoredKey() string      { return s.prefix + "games:with_honors" }

// Close closes the client.
func (s *Store) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

// FetchGamesWithHonors loads every indexed game with honors, ordered by id.
func (s *Store) FetchGamesWithHonors(ctx context.Context) ([]honor.Game, error) {
	games, err := s.loadIndexed(ctx, s.honoredKey())
	if err != nil {
		return nil, fmt.Errorf("fetch games with honors: %w", err)
	}
	out := games[:0]
	for _, g := range games {
		if len(g.Honors) > 0 || g.Unreadable != "" {
			out = append(out, g)
		}
	}
	return out, nil
}

// ListGames loads every game.
func (s *Store) ListGames(ctx context.Context) ([]honor.Game, error) {
	games, err := s.loadIndexed(ctx, s.allKey())
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

func (s *Store) loadIndexed(ctx context.Context, setKey string) ([]honor.Game, error) {
	members, err := s.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return nil, classify(err)
	}
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("index %s holds non numeric id %q", setKey, m)
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, s.gameKey(id))
	}
	if len(ids) > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, classify(err)
		}
	}

	games := make([]honor.Game, 0, len(ids))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			// Index entry left behind by an interrupted delete.
			continue
		}
		g, err := decodeGame(ids[i], fields)
		if err != nil {
			g = store.Unreadable(ids[i], fields["name"], err)
		}
		games = append(games, g)
	}
	return games, nil
}

// FetchGameByID loads one game.
func (s *Store) FetchGameByID(ctx context.Context, id int64) (*honor.Game, error) {
	fields, err := s.client.HGetAll(ctx, s.gameKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("fetch game %d: %w", id, classify(err))
	}
	if len(fields) == 0 {
		return nil, store.NotFound(id)
	}
	g, err := decodeGame(id, fields)
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
	key := s.gameKey(id)
	member := strconv.FormatInt(id, 10)

	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if exists == 0 {
			return store.NotFound(id)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, "honors", encoded)
			if len(honors) > 0 {
				pipe.SAdd(ctx, s.honoredKey(), member)
			} else {
				pipe.SRem(ctx, s.honoredKey(), member)
			}
			return nil
		})
		return err
	}, key)
	if errors.Is(err, store.ErrNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("replace honors for game %d: %w", id, classify(err))
	}
	return nil
}

// DeleteGame removes a game and its index entries.
func (s *Store) DeleteGame(ctx context.Context, id int64) error {
	member := strconv.FormatInt(id, 10)
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, s.gameKey(id))
		pipe.SRem(ctx, s.allKey(), member)
		pipe.SRem(ctx, s.honoredKey(), member)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete game %d: %w", id, classify(err))
	}
	if del.Val() == 0 {
		return store.NotFound(id)
	}
	return nil
}

// UpsertGame creates a game or renames it, keeping existing honors.
func (s *Store) UpsertGame(ctx context.Context, id int64, name string) error {
	key := s.gameKey(id)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, "name", name)
		pipe.HSetNX(ctx, key, "honors", "[]")
		pipe.SAdd(ctx, s.allKey(), strconv.FormatInt(id, 10))
		return nil
	})
	if err != nil {
		return fmt.Errorf("upsert game %d: %w", id, classify(err))
	}
	return nil
}

func decodeGame(id int64, fields map[string]string) (honor.Game, error) {
	records, err := store.DecodeHonors(fields["honors"])
	if err != nil {
		return honor.Game{}, fmt.Errorf("game %d: %w", id, err)
	}
	return honor.Game{ID: id, Name: fields["name"], Honors: records}, nil
}

// classify marks Redis failures transient, except cancellation and redis.Nil.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, redis.Nil) {
		return err
	}
	return store.Transient(err)
}
