package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSnapshotAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "things.json")

	s, err := New[[]int](path, nil)
	require.NoError(t, err)
	assert.True(t, s.IsEmpty())

	s.Set("b", []int{2})
	s.Set("a", []int{1})
	require.NoError(t, s.WriteSnapshot())

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	reloaded, err := New[[]int](path, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, reloaded.Keys())

	v, err := reloaded.Get("b")
	require.NoError(t, err)
	assert.Equal(t, []int{2}, *v)

	_, err = reloaded.Get("c")
	assert.Error(t, err)
}

func TestStoreLoadFromFileToleratesEmptyAndNull(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))

	s, err := New[int](empty, nil)
	require.NoError(t, err)
	assert.Zero(t, s.Count())

	null := filepath.Join(dir, "null.json")
	require.NoError(t, os.WriteFile(null, []byte("null"), 0o644))

	s, err = New[int](null, nil)
	require.NoError(t, err)
	s.Set("ok", 1)
	assert.Equal(t, 1, s.Count())
}

func TestStoreRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{oops"), 0o644))

	_, err := New[int](path, nil)
	assert.Error(t, err)
}

func TestStoreCustomDecoder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{oops"), 0o644))

	s, err := New[int](path, func([]byte) (StoreData[int], error) {
		return StoreData[int]{"fallback": 1}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []StoreKey{"fallback"}, s.Keys())
}

func TestStoreEntriesIsCopy(t *testing.T) {
	s, err := New[int](filepath.Join(t.TempDir(), "x.json"), nil)
	require.NoError(t, err)

	s.Set("a", 1)
	entries := s.Entries()
	entries["b"] = 2

	assert.Equal(t, 1, s.Count())
}
