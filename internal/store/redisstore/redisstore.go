package redisstore

import (
	"context"
	"errors"
	"fmt"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Makepad-fr/tada/internal/store/kv"
)

type Options struct {
	Addr     string
	Password string
	DB       int
}

// Store keeps each key as a plain redis string without expiry.
type Store struct {
	client *goRedis.Client
}

// New connects and pings the server.
func New(ctx context.Context, opt Options) (*Store, error) {
	client := goRedis.NewClient(&goRedis.Options{
		Addr:     opt.Addr,
		Password: opt.Password,
		DB:       opt.DB,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opt.Addr, err)
	}

	log.Debug().
		Int("db", opt.DB).
		Str("addr", opt.Addr).
		Msg("Connected to Redis")

	return &Store{client: client}, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goRedis.Nil) {
			return nil, kv.ErrNotFound
		}
		log.Warn().Err(err).Str("key", key).Msg("failed to get value")
		return nil, fmt.Errorf("failed to get value: %w", err)
	}
	return b, nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to set value")
		return fmt.Errorf("failed to set value: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
