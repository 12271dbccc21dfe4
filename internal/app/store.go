package app

import (
	"context"
	"fmt"

	"github.com/robleto/MeepleGo-sub002/internal/config"
	"github.com/robleto/MeepleGo-sub002/internal/store"
	"github.com/robleto/MeepleGo-sub002/internal/store/memstore"
	"github.com/robleto/MeepleGo-sub002/internal/store/redisstore"
	"github.com/robleto/MeepleGo-sub002/internal/store/sqlstore"
)

// OpenStore opens the backend selected by cfg.Store.
func OpenStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("open store: config is required")
	}
	backend := cfg.Store.Backend
	if backend == "" {
		backend = config.InferBackend(cfg.Store.DSN)
	}
	switch backend {
	case config.BackendSQLite:
		st, err := sqlstore.OpenSQLite(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return st, nil
	case config.BackendPostgres:
		st, err := sqlstore.OpenPostgres(ctx, cfg.Store.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		return st, nil
	case config.BackendRedis:
		st, err := redisstore.Open(ctx, cfg.Store.DSN, cfg.Store.RedisPrefix)
		if err != nil {
			return nil, fmt.Errorf("open redis store: %w", err)
		}
		return st, nil
	case config.BackendMemory:
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("open store: unsupported backend %q", backend)
	}
}
