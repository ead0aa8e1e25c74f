// Package kvtest checks the behavior every kv.Store implementation shares.
package kvtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/store/kv"
)

// Run exercises s with keys it does not expect to exist beforehand.
func Run(t *testing.T, s kv.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := s.Get(ctx, "MISSING")
		assert.ErrorIs(t, err, kv.ErrNotFound)
	})

	t.Run("put then get", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "TODOS", []byte(`[{"id":"1","name":"A","complete":false}]`)))
		got, err := s.Get(ctx, "TODOS")
		require.NoError(t, err)
		assert.Equal(t, `[{"id":"1","name":"A","complete":false}]`, string(got))
	})

	t.Run("put overwrites", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "TODOS", []byte(`[{"id":"1","name":"A","complete":false},{"id":"2","name":"B","complete":true}]`)))
		require.NoError(t, s.Put(ctx, "TODOS", []byte(`[]`)))
		got, err := s.Get(ctx, "TODOS")
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(got))
	})

	t.Run("keys are independent", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "OTHER", []byte("x")))
		got, err := s.Get(ctx, "TODOS")
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(got))
	})
}
