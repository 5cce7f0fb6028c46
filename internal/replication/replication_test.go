/*
file: go-redis-server/internal/replication/replication_test.go
*/
package replication

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashmaji946/go-redis-server/internal/logging"
	"github.com/akashmaji946/go-redis-server/internal/resp"
	"github.com/akashmaji946/go-redis-server/internal/store"
)

func TestPropagateFanOutAndOffset(t *testing.T) {
	s := store.New()
	e := New(RolePrimary, s, logging.New())
	r1 := e.Attach("6380")
	r2 := e.Attach("6381")

	raw := []byte("*1\r\n$4\r\nPING\r\n")
	e.Propagate(raw)

	assert.Equal(t, raw, <-r1.Outbox())
	assert.Equal(t, raw, <-r2.Outbox())
	assert.EqualValues(t, len(raw), e.Offset())
}

func TestPropagateDropsOverflowingReplica(t *testing.T) {
	s := store.New()
	e := New(RolePrimary, s, logging.New())
	r := e.Attach("")

	for i := 0; i < replicaQueueDepth+1; i++ {
		e.Propagate([]byte("x"))
	}

	select {
	case <-r.Closed():
	case <-time.After(time.Second):
		t.Fatal("expected replica to be dropped on backpressure overflow")
	}
}

func TestHandleREPLCONF(t *testing.T) {
	s := store.New()
	e := New(RolePrimary, s, logging.New())

	reply, hasReply := e.HandleREPLCONF([]string{"listening-port", "6380"})
	assert.True(t, hasReply)
	assert.Equal(t, "OK", reply.Str)

	_, hasReply = e.HandleREPLCONF([]string{"ACK", "42"})
	assert.False(t, hasReply)
}

// fakeWriter captures frames/raw bytes written by HandlePSYNC for assertion
// without needing a real socket.
type fakeWriter struct {
	values [][]byte
	raw    [][]byte
}

func (w *fakeWriter) WriteValue(v resp.Value) error {
	w.values = append(w.values, resp.Serialize(v))
	return nil
}
func (w *fakeWriter) WriteRaw(b []byte) error {
	cp := append([]byte(nil), b...)
	w.raw = append(w.raw, cp)
	return nil
}
func (w *fakeWriter) Flush() error { return nil }

func TestHandlePSYNCWritesFullResyncAndSnapshot(t *testing.T) {
	s := store.New()
	require.NoError(t, s.Set("k", "v", store.ExpiryPolicy{}))
	e := New(RolePrimary, s, logging.New())

	w := &fakeWriter{}
	replica, err := e.HandlePSYNC(w)
	require.NoError(t, err)
	require.NotNil(t, replica)

	require.Len(t, w.values, 1)
	assert.Contains(t, string(w.values[0]), "FULLRESYNC")
	require.Len(t, w.raw, 2)
	assert.Contains(t, string(w.raw[0]), "$")

	snap, err := decodeSnapshot(w.raw[1])
	require.NoError(t, err)
	assert.Equal(t, "v", snap["k"].Str)
}

// TestRunReplicaHandshakeAndStream drives RunReplica against a hand-rolled
// primary that speaks exactly the wire sequence spec.md §4.5 documents, then
// verifies the replica's store converges and a streamed SET is applied.
func TestRunReplicaHandshakeAndStream(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	primaryStore := store.New()
	require.NoError(t, primaryStore.Set("existing", "seed", store.ExpiryPolicy{}))
	primary := New(RolePrimary, primaryStore, logging.New())

	done := make(chan struct{})
	go func() {
		defer close(done)
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewReader(conn)

		expectFrame(r) // PING
		conn.Write([]byte("+PONG\r\n"))
		expectFrame(r) // REPLCONF listening-port
		conn.Write([]byte("+OK\r\n"))
		expectFrame(r) // REPLCONF capa psync2
		conn.Write([]byte("+OK\r\n"))
		expectFrame(r) // PSYNC ? -1

		w, attachErr := primary.HandlePSYNC(&connWriter{conn})
		if attachErr != nil {
			return
		}

		raw := []byte("*3\r\n$3\r\nSET\r\n$3\r\nfoo\r\n$3\r\nbar\r\n")
		conn.Write(raw)
		_ = w
	}()

	applied := make(chan resp.Value, 1)
	replicaStore := store.New()
	replicaEngine := New(RoleReplica, replicaStore, logging.New())

	runErr := make(chan error, 1)
	go func() {
		runErr <- RunReplica(replicaEngine, ln.Addr().String(), "6380", func(frame resp.Value) {
			applied <- frame
		})
	}()

	select {
	case frame := <-applied:
		name, args, ok := frame.Command()
		require.True(t, ok)
		assert.Equal(t, "SET", name)
		assert.Equal(t, []string{"foo", "bar"}, args)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for streamed command")
	}

	e, ok := replicaStore.Get("existing")
	require.True(t, ok)
	assert.Equal(t, "seed", e.Str)

	<-done
}

type connWriter struct{ conn net.Conn }

func (w *connWriter) WriteValue(v resp.Value) error { _, err := w.conn.Write(resp.Serialize(v)); return err }
func (w *connWriter) WriteRaw(b []byte) error        { _, err := w.conn.Write(b); return err }
func (w *connWriter) Flush() error                   { return nil }

func expectFrame(r *bufio.Reader) {
	var buf []byte
	for {
		_, n, err := resp.Parse(buf)
		if err == nil {
			_ = n
			return
		}
		b, rerr := r.ReadByte()
		if rerr != nil {
			return
		}
		buf = append(buf, b)
	}
}
