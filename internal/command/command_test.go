/*
file: go-redis-server/internal/command/command_test.go
*/
package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashmaji946/go-redis-server/internal/logging"
	"github.com/akashmaji946/go-redis-server/internal/replication"
	"github.com/akashmaji946/go-redis-server/internal/resp"
	"github.com/akashmaji946/go-redis-server/internal/store"
)

func TestPingEcho(t *testing.T) {
	reg := NewDefaultRegistry()
	ctx := &Context{Store: store.New()}

	reply := reg.Dispatch(ctx, "PING", nil, nil)
	require.NotNil(t, reply)
	assert.Equal(t, "PONG", reply.Str)

	reply = reg.Dispatch(ctx, "ECHO", []string{"hi"}, nil)
	require.NotNil(t, reply)
	assert.Equal(t, "hi", string(reply.Bulk))
}

func TestUnknownCommand(t *testing.T) {
	reg := NewDefaultRegistry()
	ctx := &Context{Store: store.New()}
	reply := reg.Dispatch(ctx, "NOPE", nil, nil)
	require.NotNil(t, reply)
	assert.Equal(t, resp.Error, reply.Typ)
}

func TestArityEnforced(t *testing.T) {
	reg := NewDefaultRegistry()
	ctx := &Context{Store: store.New()}
	reply := reg.Dispatch(ctx, "GET", nil, nil)
	require.NotNil(t, reply)
	assert.Equal(t, resp.Error, reply.Typ)
	assert.Contains(t, reply.Str, "wrong number of arguments")
}

func TestSetGetViaDispatch(t *testing.T) {
	reg := NewDefaultRegistry()
	ctx := &Context{Store: store.New()}

	reply := reg.Dispatch(ctx, "SET", []string{"k", "v"}, nil)
	require.NotNil(t, reply)
	assert.Equal(t, "OK", reply.Str)

	reply = reg.Dispatch(ctx, "GET", []string{"k"}, nil)
	require.NotNil(t, reply)
	assert.Equal(t, "v", string(reply.Bulk))
}

func TestWrongTypeViaDispatch(t *testing.T) {
	reg := NewDefaultRegistry()
	ctx := &Context{Store: store.New()}
	reg.Dispatch(ctx, "SET", []string{"k", "v"}, nil)
	reply := reg.Dispatch(ctx, "LPUSH", []string{"k", "x"}, nil)
	require.NotNil(t, reply)
	assert.Equal(t, resp.ErrWrongType, reply.Str)
	assert.Equal(t, "string", ctx.Store.Type("k"))
}

func TestMutatingCommandPropagatesOnPrimary(t *testing.T) {
	s := store.New()
	eng := replication.New(replication.RolePrimary, s, logging.New())
	replica := eng.Attach("")

	ctx := &Context{Store: s, Replication: eng}
	raw := resp.Serialize(resp.NewArray([]resp.Value{
		resp.NewBulkString("SET"), resp.NewBulkString("k"), resp.NewBulkString("v"),
	}))
	reg := NewDefaultRegistry()
	reply := reg.Dispatch(ctx, "SET", []string{"k", "v"}, raw)
	require.NotNil(t, reply)
	assert.Equal(t, "OK", reply.Str)

	select {
	case got := <-replica.Outbox():
		assert.Equal(t, raw, got)
	default:
		t.Fatal("expected propagated bytes in replica outbox")
	}
	assert.EqualValues(t, len(raw), eng.Offset())
}

func TestReadOnlyCommandDoesNotPropagate(t *testing.T) {
	s := store.New()
	eng := replication.New(replication.RolePrimary, s, logging.New())
	replica := eng.Attach("")
	s.Set("k", "v", store.ExpiryPolicy{})

	ctx := &Context{Store: s, Replication: eng}
	reg := NewDefaultRegistry()
	reg.Dispatch(ctx, "GET", []string{"k"}, []byte("irrelevant"))

	select {
	case <-replica.Outbox():
		t.Fatal("read-only command must not propagate")
	default:
	}
	assert.EqualValues(t, 0, eng.Offset())
}

func TestFailedMutationDoesNotPropagate(t *testing.T) {
	s := store.New()
	eng := replication.New(replication.RolePrimary, s, logging.New())
	replica := eng.Attach("")
	s.Set("k", "v", store.ExpiryPolicy{})

	ctx := &Context{Store: s, Replication: eng}
	reg := NewDefaultRegistry()
	reg.Dispatch(ctx, "LPUSH", []string{"k", "x"}, []byte("raw"))

	select {
	case <-replica.Outbox():
		t.Fatal("failed mutation must not propagate")
	default:
	}
}

func TestReplicaLinkNeverPropagates(t *testing.T) {
	s := store.New()
	eng := replication.New(replication.RolePrimary, s, logging.New())
	replica := eng.Attach("")

	ctx := &Context{Store: s, Replication: eng, IsReplicaLink: true}
	reg := NewDefaultRegistry()
	reg.Dispatch(ctx, "SET", []string{"k", "v"}, []byte("raw"))

	select {
	case <-replica.Outbox():
		t.Fatal("commands applied as a replica must not re-propagate")
	default:
	}
}
