/*
file: go-redis-server/internal/resp/resp_test.go
*/
package resp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cases := []Value{
		NewSimpleString("PONG"),
		NewError("ERR boom"),
		NewInteger(42),
		NewInteger(-7),
		NewBulkString("hello"),
		NewBulkString(""),
		NewNullBulk(),
		NewArray([]Value{NewBulkString("GET"), NewBulkString("k")}),
		NewArray(nil),
		NewNullArray(),
		NewArray([]Value{NewArray([]Value{NewInteger(1), NewInteger(2)})}),
	}
	for _, v := range cases {
		encoded := Serialize(v)
		decoded, used, err := Parse(encoded)
		require.NoError(t, err)
		assert.Equal(t, len(encoded), used)
		assert.Equal(t, v, decoded)
	}
}

func TestParsePing(t *testing.T) {
	v, used, err := Parse([]byte("*1\r\n$4\r\nPING\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 14, used)
	name, args, ok := v.Command()
	require.True(t, ok)
	assert.Equal(t, "PING", name)
	assert.Empty(t, args)
}

func TestIncomplete(t *testing.T) {
	_, _, err := Parse([]byte("*1\r\n$4\r\nPI"))
	assert.ErrorIs(t, err, ErrIncomplete)

	_, _, err = Parse([]byte("*2\r\n$3\r\nGET\r\n"))
	assert.ErrorIs(t, err, ErrIncomplete)

	_, _, err = Parse([]byte("$5\r\nhel"))
	assert.ErrorIs(t, err, ErrIncomplete)
}

func TestResumable(t *testing.T) {
	full := []byte("*2\r\n$3\r\nGET\r\n$3\r\nfoo\r\n")
	for split := 1; split < len(full); split++ {
		_, _, err := Parse(full[:split])
		if split < len(full) {
			assert.ErrorIsf(t, err, ErrIncomplete, "split at %d", split)
		}
	}
	v, used, err := Parse(full)
	require.NoError(t, err)
	assert.Equal(t, len(full), used)
	name, args, ok := v.Command()
	require.True(t, ok)
	assert.Equal(t, "GET", name)
	assert.Equal(t, []string{"foo"}, args)
}

func TestBulkContainsCRLF(t *testing.T) {
	v, used, err := Parse([]byte("$6\r\na\r\nb\r\n\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "a\r\nb\r\n", string(v.Bulk))
	assert.Equal(t, 12, used)
}

func TestMalformed(t *testing.T) {
	_, _, err := Parse([]byte("*abc\r\n"))
	var merr *MalformedError
	assert.ErrorAs(t, err, &merr)

	_, _, err = Parse([]byte("$5\r\nhello!\r\n"))
	assert.ErrorAs(t, err, &merr)
}

func TestHashSerializesAsArray(t *testing.T) {
	h := NewHash([]HashField{
		{Key: "a", Value: NewBulkString("1")},
		{Key: "b", Value: NewBulkString("2")},
	})
	encoded := Serialize(h)
	decoded, _, err := Parse(encoded)
	require.NoError(t, err)
	require.Equal(t, Array, decoded.Typ)
	require.Len(t, decoded.Items, 4)
	assert.Equal(t, "a", string(decoded.Items[0].Bulk))
	assert.Equal(t, "1", string(decoded.Items[1].Bulk))
	assert.Equal(t, "b", string(decoded.Items[2].Bulk))
	assert.Equal(t, "2", string(decoded.Items[3].Bulk))
}
