package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "custom_rules")
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)

	require.NoError(t, s.Put(ctx, "custom_rules", []byte(`[]`)))
	got, err := s.Get(ctx, "custom_rules")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	require.NoError(t, s.Put(ctx, "custom_rules", []byte(`[{"id":"1"}]`)))
	got, err = s.Get(ctx, "custom_rules")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, string(got))

	_, err = s.Get(ctx, "other")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	v := []byte("abc")
	require.NoError(t, s.Put(ctx, "k", v))
	v[0] = 'x'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "rules")
	testStore(t, NewFileStore(dir))

	_, err := os.Stat(filepath.Join(dir, "custom_rules.json"))
	assert.NoError(t, err)
}

func TestFileStore_RejectsPathKeys(t *testing.T) {
	s := NewFileStore(t.TempDir())
	err := s.Put(context.Background(), "../escape", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid store key")
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "bankflow.db"))
	require.NoError(t, err)
	defer s.Close()

	testStore(t, s)
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bankflow.db")
	ctx := context.Background()

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "custom_rules", []byte(`[1]`)))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get(ctx, "custom_rules")
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(got))
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, closeFn, err := Open(KindFile, filepath.Join(dir, "rules"))
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)
	assert.NoError(t, closeFn())

	s, closeFn, err = Open(KindSQLite, filepath.Join(dir, "db", "rules.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	assert.NoError(t, closeFn())

	s, _, err = Open(KindMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, closeFn, err = Open("redis", "")
	require.Error(t, err)
	assert.NotNil(t, closeFn)
}
