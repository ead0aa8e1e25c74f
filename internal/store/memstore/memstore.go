package memstore

import (
	"context"

	"github.com/Makepad-fr/tada/internal/store/kv"
)

// Store keeps values in process memory. Nothing survives the process.
type Store struct {
	data map[string][]byte
}

func New() *Store {
	return &Store{data: map[string][]byte{}}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := s.data[key]
	if !ok {
		return nil, kv.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *Store) Put(_ context.Context, key string, value []byte) error {
	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *Store) Close() error { return nil }
