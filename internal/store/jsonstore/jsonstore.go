package jsonstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Makepad-fr/tada/internal/store/kv"
)

// JSON-backed storage. One file per key, human-readable, portable.
// No locking; fine for a local single-user CLI.

// Store maps every key to <dir>/<lowercased key>.json.
type Store struct {
	dir string
}

// New returns a store rooted at dir; an empty dir means the working directory.
func New(dir string) (*Store, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getwd: %w", err)
		}
		dir = wd
	}
	return &Store{dir: dir}, nil
}

// Path returns the file backing key.
func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, strings.ToLower(key)+".json")
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	b, err := os.ReadFile(s.Path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, kv.ErrNotFound
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	return b, nil
}

// Put writes to a temp file and renames it over the old one, so a failed
// write never leaves a truncated value behind.
func (s *Store) Put(_ context.Context, key string, value []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	p := s.Path(key)
	tmp, err := os.CreateTemp(s.dir, filepath.Base(p)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op after a successful rename
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	log.Debug().Str("path", p).Int("bytes", len(value)).Msg("jsonstore: wrote value")
	return nil
}

func (s *Store) Close() error { return nil }
