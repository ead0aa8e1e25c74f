package jsonstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/store/kv"
	"github.com/Makepad-fr/tada/internal/store/kv/kvtest"
)

func TestStore(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	kvtest.Run(t, s)
}

func TestStore_FileLayout(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "todos.json"), s.Path("TODOS"))

	require.NoError(t, s.Put(context.Background(), "TODOS", []byte("[]")))
	b, err := os.ReadFile(filepath.Join(dir, "todos.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestStore_CreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	s, err := New(dir)
	require.NoError(t, err)

	_, err = s.Get(context.Background(), "TODOS")
	assert.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, s.Put(context.Background(), "TODOS", []byte("[]")))
	_, err = os.Stat(filepath.Join(dir, "todos.json"))
	assert.NoError(t, err)
}

func TestStore_FailedWriteKeepsOldValue(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, s.Put(context.Background(), "TODOS", []byte(`[{"id":"1","name":"A","complete":false}]`)))

	require.NoError(t, os.Chmod(dir, 0o500))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	assert.Error(t, s.Put(context.Background(), "TODOS", []byte(`[]`)))

	got, err := s.Get(context.Background(), "TODOS")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1","name":"A","complete":false}]`, string(got))
}

func TestNew_DefaultsToWorkingDir(t *testing.T) {
	s, err := New("")
	require.NoError(t, err)
	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "todos.json"), s.Path("TODOS"))
}
