/*
file: go-redis-server/internal/store/store_test.go
*/
package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGetDel(t *testing.T) {
	s := New()
	require.NoError(t, s.Set("k", "v", ExpiryPolicy{}))
	e, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", e.Str)

	assert.Equal(t, 1, s.Del("k"))
	_, ok = s.Get("k")
	assert.False(t, ok)
}

func TestExpiryPX(t *testing.T) {
	s := New()
	require.NoError(t, s.Set("k", "v", ExpiryPolicy{HasPX: true, PXMillis: 20}))
	_, ok := s.Get("k")
	assert.True(t, ok)
	time.Sleep(40 * time.Millisecond)
	_, ok = s.Get("k")
	assert.False(t, ok)
}

func TestNXXX(t *testing.T) {
	s := New()
	require.NoError(t, s.Set("k", "1", ExpiryPolicy{}))
	assert.ErrorIs(t, s.Set("k", "2", ExpiryPolicy{NX: true}), ErrNXFailed)
	assert.NoError(t, s.Set("k", "2", ExpiryPolicy{XX: true}))
	assert.ErrorIs(t, s.Set("missing", "v", ExpiryPolicy{XX: true}), ErrXXFailed)
}

func TestKeepTTL(t *testing.T) {
	s := New()
	require.NoError(t, s.Set("k", "1", ExpiryPolicy{HasEX: true, EXSecs: 100}))
	require.NoError(t, s.Set("k", "2", ExpiryPolicy{KeepTTL: true}))
	e, _ := s.Get("k")
	assert.False(t, e.ExpiresAt.IsZero())

	require.NoError(t, s.Set("k", "3", ExpiryPolicy{}))
	e, _ = s.Get("k")
	assert.True(t, e.ExpiresAt.IsZero())
}

func TestWrongType(t *testing.T) {
	s := New()
	require.NoError(t, s.Set("k", "s", ExpiryPolicy{}))
	_, err := s.Push("k", true, "x")
	assert.ErrorIs(t, err, ErrWrongType{})
	assert.Equal(t, "string", s.Type("k"))
}

func TestListPushPopIndex(t *testing.T) {
	s := New()
	n, err := s.Push("k", true, "a", "b", "c")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	v, ok, err := s.Index("k", -1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "c", v)

	_, ok, err = s.Index("k", -4)
	require.NoError(t, err)
	assert.False(t, ok)

	v, ok, err = s.Pop("k", false)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", v)
}

func TestListSet(t *testing.T) {
	s := New()
	assert.ErrorIs(t, s.SetIndex("missing", 0, "x"), ErrNoSuchKey{})
	s.Push("k", true, "a")
	assert.ErrorIs(t, s.SetIndex("k", 5, "x"), ErrIndexOutOfRange{})
	require.NoError(t, s.SetIndex("k", 0, "z"))
	v, _, _ := s.Index("k", 0)
	assert.Equal(t, "z", v)
}

func TestListRemove(t *testing.T) {
	s := New()
	s.Push("k", true, "a", "b", "a", "c", "a")
	n, err := s.Remove("k", 2, "a")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	rest, _ := s.Range("k")
	assert.Equal(t, []string{"b", "c", "a"}, rest)
}

func TestHashOrdering(t *testing.T) {
	s := New()
	created, err := s.HSet("h", map[string]string{"b": "2", "a": "1"})
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	created, err = s.HSet("h", map[string]string{"a": "1"})
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	all, err := s.HGetAll("h")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].Field)
	assert.Equal(t, "b", all[1].Field)
}

func TestRename(t *testing.T) {
	s := New()
	assert.False(t, s.Rename("missing", "dst"))
	s.Set("src", "v", ExpiryPolicy{HasEX: true, EXSecs: 100})
	s.Set("dst", "old", ExpiryPolicy{})
	assert.True(t, s.Rename("src", "dst"))
	e, ok := s.Get("dst")
	require.True(t, ok)
	assert.Equal(t, "v", e.Str)
	assert.False(t, e.ExpiresAt.IsZero())
	_, ok = s.Get("src")
	assert.False(t, ok)
}

func TestMatchKeys(t *testing.T) {
	s := New()
	s.Set("foo", "1", ExpiryPolicy{})
	s.Set("foobar", "1", ExpiryPolicy{})
	s.Set("baz", "1", ExpiryPolicy{})
	matches, err := s.MatchKeys("foo*")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"foo", "foobar"}, matches)
}
