// Package store picks the durable key-value backend named by configuration.
package store

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
	"github.com/Makepad-fr/tada/internal/store/kv"
	"github.com/Makepad-fr/tada/internal/store/memstore"
	"github.com/Makepad-fr/tada/internal/store/redisstore"
	"github.com/Makepad-fr/tada/internal/store/sqlitestore"
)

const sqliteFileName = "todos.db"

// Open returns the backend for cfg.Backend. The caller closes it.
func Open(ctx context.Context, cfg config.Storage) (kv.Store, error) {
	log.Debug().Str("backend", cfg.Backend).Msg("opening storage")

	switch cfg.Backend {
	case config.BackendFile, "":
		return jsonstore.New(cfg.Dir)
	case config.BackendMemory:
		return memstore.New(), nil
	case config.BackendRedis:
		return redisstore.New(ctx, redisstore.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	case config.BackendSQLite:
		p := cfg.SQLite.Path
		if p == "" {
			p = filepath.Join(cfg.Dir, sqliteFileName)
		}
		return sqlitestore.Open(ctx, p)
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}
