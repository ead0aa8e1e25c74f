// Package todos holds the ordered todo list and mirrors it to a single
// durable key-value slot after every mutation.
//
// The list is owned by one execution context; Store is not safe for
// concurrent use.
package todos

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store/kv"
)

// StorageKey is the slot holding the whole serialized list.
const StorageKey = "TODOS"

var (
	ErrNoMatch     = errors.New("no item matches")
	ErrAmbiguousID = errors.New("id prefix matches more than one item")
)

type Store struct {
	backend kv.Store
	items   []model.Item
	newID   func() string
}

type Option func(*Store)

// WithIDGenerator replaces the uuid generator. It must never repeat an id.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// Load reads the slot and builds a Store from it. A missing slot yields an
// empty list; a malformed one fails with *DeserializationError.
func Load(ctx context.Context, backend kv.Store, opts ...Option) (*Store, error) {
	s := &Store{
		backend: backend,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	b, err := backend.Get(ctx, StorageKey)
	switch {
	case errors.Is(err, kv.ErrNotFound):
		s.items = []model.Item{}
		log.Debug().Msg("no stored todos, starting empty")
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("load todos: %w", err)
	}

	items, err := Decode(b)
	if err != nil {
		log.Warn().Err(err).Str("key", StorageKey).Msg("failed to decode stored todos")
		return nil, &DeserializationError{Key: StorageKey, Err: err}
	}
	s.items = items
	log.Debug().Int("count", len(items)).Msg("loaded todos")
	return s, nil
}

// Items returns a copy of the list in order.
func (s *Store) Items() []model.Item {
	return slices.Clone(s.items)
}

func (s *Store) Len() int { return len(s.items) }

func (s *Store) Stats() (done, pending int) {
	return model.Stats(s.items)
}

// Add appends a new pending item and persists the list. An empty name is
// ignored and returns nil, nil. Invalid UTF-8 is replaced with U+FFFD so the
// stored value reloads to the same name. When the write fails the item stays
// in memory.
func (s *Store) Add(ctx context.Context, name string) (*model.Item, error) {
	if name == "" {
		return nil, nil
	}
	name = strings.ToValidUTF8(name, "\uFFFD")
	it := model.Item{ID: s.newID(), Name: name}
	s.items = append(s.items, it)
	log.Debug().Str("id", it.ID).Msg("added todo")
	return &it, s.Persist(ctx)
}

// Toggle flips the complete flag of id and persists. Unknown ids report false
// and write nothing.
func (s *Store) Toggle(ctx context.Context, id string) (bool, error) {
	i := s.index(id)
	if i < 0 {
		return false, nil
	}
	s.items[i].Complete = !s.items[i].Complete
	log.Debug().Str("id", id).Bool("complete", s.items[i].Complete).Msg("toggled todo")
	return true, s.Persist(ctx)
}

// Remove deletes id and persists. Unknown ids report false and write nothing.
func (s *Store) Remove(ctx context.Context, id string) (bool, error) {
	i := s.index(id)
	if i < 0 {
		return false, nil
	}
	s.items = slices.Delete(s.items, i, i+1)
	log.Debug().Str("id", id).Msg("removed todo")
	return true, s.Persist(ctx)
}

// Reset overwrites the slot with an empty list without reading it first, so
// it also recovers a slot Load rejects.
func Reset(ctx context.Context, backend kv.Store) error {
	b, err := Encode(nil)
	if err != nil {
		return err
	}
	if err := backend.Put(ctx, StorageKey, b); err != nil {
		return fmt.Errorf("reset todos: %w", err)
	}
	log.Debug().Msg("reset todos")
	return nil
}

// Persist overwrites the slot with the full list. There is no retry; on
// failure the previous stored value is left as it was.
func (s *Store) Persist(ctx context.Context) error {
	b, err := Encode(s.items)
	if err != nil {
		return fmt.Errorf("persist todos: %w", err)
	}
	if err := s.backend.Put(ctx, StorageKey, b); err != nil {
		log.Warn().Err(err).Msg("failed to persist todos")
		return fmt.Errorf("persist todos: %w", err)
	}
	return nil
}

// Resolve maps ref to an item id: an exact id wins, otherwise ref must be a
// prefix of exactly one id. It fails with ErrNoMatch or ErrAmbiguousID.
func (s *Store) Resolve(ref string) (string, error) {
	if ref == "" {
		return "", ErrNoMatch
	}
	if s.index(ref) >= 0 {
		return ref, nil
	}
	match := ""
	for _, it := range s.items {
		if strings.HasPrefix(it.ID, ref) {
			if match != "" {
				return "", ErrAmbiguousID
			}
			match = it.ID
		}
	}
	if match == "" {
		return "", ErrNoMatch
	}
	return match, nil
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.items, func(it model.Item) bool { return it.ID == id })
}
