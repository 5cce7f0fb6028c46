/*
file: go-redis-server/internal/server/connection.go
*/

// Package server owns the accept loop and per-connection state: reading
// bytes into the RESP parser, dispatching complete frames through the
// command registry, and writing replies back — the connection manager of
// spec.md §4.4.
package server

import (
	"net"
	"sync"

	"github.com/akashmaji946/go-redis-server/internal/command"
	"github.com/akashmaji946/go-redis-server/internal/logging"
	"github.com/akashmaji946/go-redis-server/internal/replication"
	"github.com/akashmaji946/go-redis-server/internal/resp"
	"github.com/akashmaji946/go-redis-server/internal/store"
)

// safeWriter serializes concurrent writers on one connection: the normal
// reply path and a replica fan-out forwarder can both want to write to the
// same socket once a connection has been promoted to a replica feed.
type safeWriter struct {
	mu sync.Mutex
	w  *resp.Writer
}

func newSafeWriter(conn net.Conn) *safeWriter {
	return &safeWriter{w: resp.NewWriter(conn)}
}

func (s *safeWriter) WriteValue(v resp.Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.w.WriteValue(v); err != nil {
		return err
	}
	return s.w.Flush()
}

func (s *safeWriter) WriteRaw(b []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.w.WriteRaw(b); err != nil {
		return err
	}
	return s.w.Flush()
}

func (s *safeWriter) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Flush()
}

var _ replication.ReplyWriter = (*safeWriter)(nil)

// connection is one accepted socket's lifetime: read frames, dispatch,
// reply. A connection that issues a successful PSYNC is promoted in place
// to a replica feed (spec.md §4.5) rather than being torn down and
// reconnected.
type connection struct {
	conn  net.Conn
	store *store.Store
	reg   *command.Registry
	repl  *replication.Engine
	log   *logging.Logger
}

// serve runs the read/dispatch/reply loop until the connection closes. It
// never panics on a single bad frame beyond closing that connection —
// per-connection errors do not affect other connections (spec.md §7.1).
func (c *connection) serve() {
	defer c.conn.Close()
	defer func() {
		// A store.Entry whose type tag disagrees with its populated payload
		// is an internal invariant violation, not client-reachable input
		// (spec.md §7 "may panic — they indicate a bug, not user error").
		// Recovering here keeps that bug confined to this one connection.
		if r := recover(); r != nil {
			c.log.Errorf("connection %s: recovered from panic: %v", c.conn.RemoteAddr(), r)
		}
	}()

	w := newSafeWriter(c.conn)
	var buf []byte
	chunk := make([]byte, 4096)

	for {
		frame, raw, err := readOneFrame(c.conn, &buf, chunk)
		if err != nil {
			return
		}

		name, args, ok := frame.Command()
		if !ok {
			continue
		}

		ctx := &command.Context{Store: c.store, Replication: c.repl, Conn: w}
		reply := c.reg.Dispatch(ctx, name, args, raw)

		if ctx.AttachedReplica != nil {
			go forwardReplicaStream(ctx.AttachedReplica, w, c.repl, c.log)
			continue
		}

		if reply != nil {
			if err := w.WriteValue(*reply); err != nil {
				return
			}
		}
	}
}

// readOneFrame parses the next complete RESP frame out of buf, reading more
// bytes from conn as needed. It returns the frame and the exact raw bytes
// that made it up (needed verbatim for replication fan-out).
func readOneFrame(conn net.Conn, buf *[]byte, chunk []byte) (resp.Value, []byte, error) {
	for {
		v, n, err := resp.Parse(*buf)
		if err == nil {
			raw := append([]byte(nil), (*buf)[:n]...)
			*buf = (*buf)[n:]
			return v, raw, nil
		}
		if err != resp.ErrIncomplete {
			return resp.Value{}, nil, err
		}
		read, rerr := conn.Read(chunk)
		if read > 0 {
			*buf = append(*buf, chunk[:read]...)
		}
		if rerr != nil {
			return resp.Value{}, nil, rerr
		}
	}
}

// forwardReplicaStream drains a replica's outbound queue onto its
// connection until the replica is dropped (backpressure overflow, closed by
// Engine.Propagate) or a write fails, then detaches it.
func forwardReplicaStream(r *replication.Replica, w replication.ReplyWriter, repl *replication.Engine, log *logging.Logger) {
	defer repl.Detach(r)
	for {
		select {
		case raw, ok := <-r.Outbox():
			if !ok {
				return
			}
			if err := w.WriteRaw(raw); err != nil {
				log.Warnf("replication: write to replica failed: %v", err)
				return
			}
		case <-r.Closed():
			return
		}
	}
}
