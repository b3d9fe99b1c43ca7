package kv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openBackends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	fileStore, err := NewFileStore(filepath.Join(dir, "store"))
	require.NoError(t, err)
	sqliteStore, err := NewSQLiteStore(filepath.Join(dir, "tudu.db"))
	require.NoError(t, err)

	stores := map[string]Store{
		BackendMemory: NewMemoryStore(),
		BackendFile:   fileStore,
		BackendSQLite: sqliteStore,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			_ = s.Close()
		}
	})
	return stores
}

func TestStoreContract(t *testing.T) {
	for name, store := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := store.Get("todos")
			require.NoError(t, err)
			assert.False(t, ok, "missing key should report ok=false")

			require.NoError(t, store.Set("todos", `[{"text":"a","done":false}]`))
			got, ok, err := store.Get("todos")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `[{"text":"a","done":false}]`, got)

			require.NoError(t, store.Set("todos", `[]`))
			got, _, err = store.Get("todos")
			require.NoError(t, err)
			assert.Equal(t, `[]`, got, "Set must replace the previous value")

			require.NoError(t, store.Remove("todos"))
			_, ok, err = store.Get("todos")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.Remove("never-set"))
		})
	}
}

func TestStoreRejectsInvalidKeys(t *testing.T) {
	for name, store := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "  ", "a/b", `a\b`, "..", "."} {
				err := store.Set(key, "x")
				assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
				_, _, err = store.Get(key)
				assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
			}
		})
	}
}

func TestStoreClosed(t *testing.T) {
	for name, store := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Close())
			_, _, err := store.Get("todos")
			assert.ErrorIs(t, err, ErrClosed)
			assert.ErrorIs(t, store.Set("todos", "[]"), ErrClosed)
		})
	}
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	first, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set("todos", `[1]`))
	require.NoError(t, first.Close())

	second, err := NewFileStore(dir)
	require.NoError(t, err)
	got, ok, err := second.Get("todos")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[1]`, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
	assert.Equal(t, "todos.json", entries[0].Name())
}

func TestSQLiteStorePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tudu.db")
	first, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Set("todos", `[2]`))
	require.NoError(t, first.Close())

	second, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer second.Close()
	got, ok, err := second.Get("todos")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[2]`, got)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		backend string
		path    string
		wantErr bool
	}{
		{backend: "", path: filepath.Join(dir, "a")},
		{backend: "file", path: filepath.Join(dir, "b")},
		{backend: "SQLite", path: filepath.Join(dir, "c.db")},
		{backend: "memory"},
		{backend: "redis", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			s, err := Open(tt.backend, tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, s.Close())
		})
	}
}
