/*
file: go-redis-server/internal/replication/engine.go
*/

// Package replication implements primary/replica roles: replid/offset
// bookkeeping, the PSYNC/REPLCONF primary side, per-replica bounded
// fan-out queues, and the replica-side handshake state machine.
package replication

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/akashmaji946/go-redis-server/internal/logging"
	"github.com/akashmaji946/go-redis-server/internal/resp"
	"github.com/akashmaji946/go-redis-server/internal/store"
)

// Role is primary or replica, assigned once at process start (spec.md §4.5).
type Role int

const (
	RolePrimary Role = iota
	RoleReplica
)

// replicaQueueDepth bounds each replica's outbound fan-out channel. On
// overflow the primary drops that replica rather than block the command
// loop (spec.md §5 "Backpressure").
const replicaQueueDepth = 1024

// Replica is one attached downstream connection on a primary.
type Replica struct {
	id     int64
	port   string
	outbox chan []byte
	closed chan struct{}
	once   sync.Once
}

func (r *Replica) Close() {
	r.once.Do(func() { close(r.closed) })
}

// enqueue appends raw bytes to the replica's outbound queue. It never
// blocks: a full queue means the replica is dropped.
func (r *Replica) enqueue(raw []byte) (ok bool) {
	select {
	case r.outbox <- raw:
		return true
	default:
		return false
	}
}

// Engine owns replication role/offset state and, on a primary, the set of
// attached replicas. It holds no reference back to connections or the
// server loop — callers push data in (Propagate) and pull replica handles
// out (Attach) by id, per the no-cycles design note in spec.md §9.
type Engine struct {
	log *logging.Logger

	mu       sync.Mutex
	role     Role
	replID   string
	offset   int64
	replicas map[int64]*Replica
	nextID   int64

	store *store.Store
}

// New constructs an Engine in the given role. A replica's Engine additionally runs a
// handshake goroutine (see handshake.go) that may later promote offset/
// replID from the primary's FULLRESYNC reply.
func New(role Role, s *store.Store, log *logging.Logger) *Engine {
	return &Engine{
		log:      log,
		role:     role,
		replID:   generateReplID(),
		replicas: make(map[int64]*Replica),
		store:    s,
	}
}

func generateReplID() string {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand.Read only fails if the OS RNG is broken; there is no
		// sane fallback that preserves the 40-hex-char contract, so panic.
		panic(fmt.Sprintf("replication: cannot generate replid: %v", err))
	}
	return hex.EncodeToString(b)
}

func (e *Engine) IsPrimary() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.role == RolePrimary
}

func (e *Engine) ReplID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.replID
}

func (e *Engine) Offset() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.offset
}

func (e *Engine) setFullResync(replID string, offset int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.replID = replID
	e.offset = offset
}

// Propagate fans raw (the exact bytes a client sent) out to every attached
// replica and advances the offset, per the fan-out invariant in spec.md
// §4.5: local apply has already happened by the time dispatch calls this.
func (e *Engine) Propagate(raw []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.role != RolePrimary {
		return
	}
	e.offset += int64(len(raw))
	for id, r := range e.replicas {
		if !r.enqueue(raw) {
			e.log.Warnf("replication: replica %d queue full, dropping", id)
			delete(e.replicas, id)
			r.Close()
		}
	}
}

// Attach registers a new replica connection and returns a handle whose
// Outbox channel the connection's writer goroutine drains. port is stored
// on the handle as given and nothing reads it; HandlePSYNC passes an empty
// string, so the port a replica announces with REPLCONF listening-port is
// not recorded.
func (e *Engine) Attach(port string) *Replica {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	r := &Replica{
		id:     e.nextID,
		port:   port,
		outbox: make(chan []byte, replicaQueueDepth),
		closed: make(chan struct{}),
	}
	e.replicas[r.id] = r
	return r
}

// Detach removes a replica on connection close.
func (e *Engine) Detach(r *Replica) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.replicas, r.id)
}

// Outbox exposes the channel a replica connection's writer goroutine reads
// from to forward fanned-out bytes.
func (r *Replica) Outbox() <-chan []byte { return r.outbox }

// Closed signals the replica was dropped for backpressure and its
// connection should be torn down.
func (r *Replica) Closed() <-chan struct{} { return r.closed }

// HandleREPLCONF answers the primary side of REPLCONF listening-port / capa
// with +OK, per spec.md §4.5. hasReply is false for subcommands that expect
// no reply at all: ACK frames a replica sends back to the primary carry no
// response, and GETACK is answered by the replica-side handshake loop
// (handshake.go), not here.
func (e *Engine) HandleREPLCONF(args []string) (reply resp.Value, hasReply bool) {
	if len(args) < 1 {
		return resp.NewError("ERR wrong number of arguments for 'replconf' command"), true
	}
	sub := args[0]
	switch {
	case equalFold(sub, "listening-port"):
		return resp.OK(), true
	case equalFold(sub, "capa"):
		return resp.OK(), true
	case equalFold(sub, "ack"):
		return resp.Value{}, false
	case equalFold(sub, "getack"):
		return resp.Value{}, false
	default:
		return resp.OK(), true
	}
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
