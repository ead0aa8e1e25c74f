package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/model"
)

type result struct {
	code   int
	stdout string
	stderr string
}

// run executes the CLI against a file backend in dir with the mono theme.
func run(t *testing.T, dir string, stdin string, args ...string) result {
	t.Helper()
	full := append([]string{"--dir", dir, "--backend", "file", "--theme", "mono"}, args...)
	var out, errOut bytes.Buffer
	code := Execute(context.Background(), full, strings.NewReader(stdin), &out, &errOut)
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

func storedItems(t *testing.T, dir string) []model.Item {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(dir, "todos.json"))
	require.NoError(t, err)
	var items []model.Item
	require.NoError(t, json.Unmarshal(b, &items))
	return items
}

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"TADA_STORAGE_BACKEND", "TADA_STORAGE_DIR", "TADA_STORAGE_SQLITE_PATH", "TADA_STORAGE_REDIS_PASSWORD", "TADA_THEME", "TADA_LOG_LEVEL", "TADA_TOKEN"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	orig := auth.Dir
	authDir := filepath.Join(t.TempDir(), ".tada")
	auth.Dir = func() (string, error) { return authDir, nil }
	t.Cleanup(func() { auth.Dir = orig })
}

func TestAddListToggleRemove(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()

	r := run(t, dir, "", "add", "Buy", "milk")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "added ")

	r = run(t, dir, "", "add", "Walk dog")
	require.Equal(t, 0, r.code, r.stderr)

	items := storedItems(t, dir)
	require.Len(t, items, 2)
	assert.Equal(t, "Buy milk", items[0].Name)
	assert.Equal(t, "Walk dog", items[1].Name)
	assert.False(t, items[0].Complete)

	r = run(t, dir, "", "ls")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "[ ] "+items[0].ID[:8]+" Buy milk")
	assert.Contains(t, r.stdout, "Total 2")

	// toggle by short id
	r = run(t, dir, "", "done", items[0].ID[:8])
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "toggled")
	assert.True(t, storedItems(t, dir)[0].Complete)

	r = run(t, dir, "", "ls", "--group")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Pending")
	assert.Contains(t, r.stdout, "[x] "+items[0].ID[:8]+" Buy milk")

	// remove by full id
	r = run(t, dir, "", "rm", items[1].ID)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "removed")

	left := storedItems(t, dir)
	require.Len(t, left, 1)
	assert.Equal(t, items[0].ID, left[0].ID)
}

func TestAdd_EmptyNameIsIgnored(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()

	r := run(t, dir, "", "add", "   ")
	assert.Equal(t, 0, r.code)
	assert.Contains(t, r.stdout, "nothing added")

	_, err := os.Stat(filepath.Join(dir, "todos.json"))
	assert.True(t, os.IsNotExist(err), "nothing should be written")
}

func TestUnknownIDIsNotAnError(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	require.Equal(t, 0, run(t, dir, "", "add", "A").code)
	before, err := os.ReadFile(filepath.Join(dir, "todos.json"))
	require.NoError(t, err)

	for _, cmd := range []string{"done", "rm"} {
		r := run(t, dir, "", cmd, "nonexistent")
		assert.Equal(t, 0, r.code, cmd)
		assert.Contains(t, r.stdout, "no item matches")
	}

	after, err := os.ReadFile(filepath.Join(dir, "todos.json"))
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestMalformedStorage(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "todos.json"), []byte("{not a list"), 0o644))

	r := run(t, dir, "", "ls")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "malformed")
	assert.Contains(t, r.stderr, "todo reset")

	// nothing was overwritten
	b, err := os.ReadFile(filepath.Join(dir, "todos.json"))
	require.NoError(t, err)
	assert.Equal(t, "{not a list", string(b))

	r = run(t, dir, "", "reset")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Empty(t, storedItems(t, dir))

	assert.Equal(t, 0, run(t, dir, "", "ls").code)
}

func TestUsageErrors(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()

	tests := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{name: "no subcommand", args: nil},
		{name: "unknown subcommand", args: []string{"frobnicate"}, wantMsg: `unknown command "frobnicate"`},
		{name: "add without name", args: []string{"add"}},
		{name: "done without id", args: []string{"done"}},
		{name: "rm with two ids", args: []string{"rm", "a", "b"}},
		{name: "ls with args", args: []string{"ls", "x"}},
		{name: "bad flag", args: []string{"ls", "--nope"}},
		{name: "bad backend", args: []string{"--backend", "postgres", "ls"}},
		{name: "auth without action", args: []string{"auth"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := run(t, dir, "", tt.args...)
			assert.Equal(t, 2, r.code, r.stderr)
			assert.Contains(t, r.stderr, tt.wantMsg)
		})
	}
}

func TestHelp(t *testing.T) {
	isolateEnv(t)
	r := run(t, t.TempDir(), "", "--help")
	assert.Equal(t, 0, r.code)
	assert.Contains(t, r.stdout, "todo add")
}

func TestMemoryBackend(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()

	r := run(t, dir, "", "--backend", "memory", "add", "A")
	require.Equal(t, 0, r.code, r.stderr)

	_, err := os.Stat(filepath.Join(dir, "todos.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestSQLiteBackend(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()

	r := run(t, dir, "", "--backend", "sqlite", "add", "Persist me")
	require.Equal(t, 0, r.code, r.stderr)

	r = run(t, dir, "", "--backend", "sqlite", "ls")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Persist me")

	_, err := os.Stat(filepath.Join(dir, "todos.db"))
	assert.NoError(t, err)
}

func TestAuthLoginStatusLogout(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()

	r := run(t, dir, "", "auth", "status")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "not logged in")

	r = run(t, dir, "s3cret\n", "auth", "login")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "logged in")

	r = run(t, dir, "", "auth", "status")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "source: file")

	r = run(t, dir, "", "auth", "logout")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "logged out")

	ti, err := auth.GetToken()
	require.NoError(t, err)
	assert.Nil(t, ti)
}

func TestAmbiguousPrefix(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	value := []byte(`[{"id":"abc1","name":"A","complete":false},{"id":"abc2","name":"B","complete":false}]`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "todos.json"), value, 0o644))

	r := run(t, dir, "", "done", "abc")
	assert.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "matches more than one item")
	assert.NotContains(t, r.stdout, "no item matches")

	b, err := os.ReadFile(filepath.Join(dir, "todos.json"))
	require.NoError(t, err)
	assert.Equal(t, value, b)
}

func TestDotEnvDoesNotLeakLogs(t *testing.T) {
	isolateEnv(t)
	work := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(work, ".env"), []byte("TADA_THEME=mono\n"), 0o644))
	t.Chdir(work)

	r := run(t, t.TempDir(), "", "add", "Buy milk")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "added ")
	assert.NotContains(t, r.stderr, `"level"`)
	assert.Empty(t, r.stderr)
}

func TestAuthLogout_UnreadableCredentials(t *testing.T) {
	isolateEnv(t)
	authDir, err := auth.Dir()
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(authDir, 0o700))
	p := filepath.Join(authDir, "credentials.json")
	require.NoError(t, os.WriteFile(p, []byte("{broken"), 0o600))

	r := run(t, t.TempDir(), "", "auth", "logout")
	assert.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "ignoring unreadable credentials")
	assert.Contains(t, r.stdout, "logged out")

	_, err = os.Stat(p)
	assert.True(t, os.IsNotExist(err))
}
