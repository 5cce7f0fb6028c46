/*
file: go-redis-server/internal/store/persist_test.go
*/
package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	s := New()
	require.NoError(t, s.Set("str", "v", ExpiryPolicy{}))
	_, err := s.Push("list", true, "a", "b", "c")
	require.NoError(t, err)
	_, err = s.HSet("hash", map[string]string{"f": "1"})
	require.NoError(t, err)

	require.NoError(t, s.SaveToFile(dir))

	restored := New()
	require.NoError(t, restored.LoadFromFile(dir))

	e, ok := restored.Get("str")
	require.True(t, ok)
	assert.Equal(t, "v", e.Str)

	list, err := restored.Range("list")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, list)

	v, ok, err := restored.HGet("hash", "f")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1", v)
}

func TestLoadFromFileMissingIsNotError(t *testing.T) {
	s := New()
	assert.NoError(t, s.LoadFromFile(t.TempDir()))
	assert.Empty(t, s.Keys())
}
