package redisstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/store/kv/kvtest"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := New(context.Background(), Options{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestStore(t *testing.T) {
	s, _ := newTestStore(t)
	kvtest.Run(t, s)
}

func TestStore_NoExpiry(t *testing.T) {
	s, mr := newTestStore(t)
	require.NoError(t, s.Put(context.Background(), "TODOS", []byte("[]")))

	assert.Equal(t, "[]", mustGet(t, mr, "TODOS"))
	assert.Zero(t, mr.TTL("TODOS"))
}

func TestStore_Password(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("secret")

	_, err := New(context.Background(), Options{Addr: mr.Addr()})
	assert.Error(t, err)

	s, err := New(context.Background(), Options{Addr: mr.Addr(), Password: "secret"})
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}

func TestNew_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := New(context.Background(), Options{Addr: addr})
	assert.Error(t, err)
}

func mustGet(t *testing.T, mr *miniredis.Miniredis, key string) string {
	t.Helper()
	v, err := mr.Get(key)
	require.NoError(t, err)
	return v
}
