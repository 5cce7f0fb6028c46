/*
file: go-redis-server/internal/command/registry.go
*/

// Package command implements the command table: each entry pairs an
// arity contract with a handler, and dispatch enforces that contract once,
// centrally, before the handler ever sees malformed arity.
package command

import (
	"fmt"
	"strings"

	"github.com/akashmaji946/go-redis-server/internal/replication"
	"github.com/akashmaji946/go-redis-server/internal/resp"
	"github.com/akashmaji946/go-redis-server/internal/store"
)

// Context is everything a Handler needs beyond the command's own
// arguments: the keyspace, the replication engine (may be nil; Dispatch and
// the REPLCONF/PSYNC/INFO handlers check for nil before using it), and whether this connection is the primary's feed
// into a replica, in which case client-style replies are suppressed by the
// connection layer regardless of what the handler returns.
type Context struct {
	Store         *store.Store
	Replication   *replication.Engine
	Conn          replication.ReplyWriter
	IsReplicaLink bool

	// AttachedReplica is set by the PSYNC handler once it has completed the
	// primary-side handshake; the connection layer must switch this
	// connection over to forwarding AttachedReplica.Outbox() after Dispatch
	// returns. nil on every other command.
	AttachedReplica *replication.Replica
}

// Handler executes one command and returns its reply frame. A handler that
// answers out-of-band (PSYNC writes its own FULLRESYNC + snapshot directly
// via ctx.Conn) returns nil to suppress the normal reply path.
type Handler func(ctx *Context, args []string) *resp.Value

// Entry is one registered command's contract. Mutates marks commands whose
// successful execution must be fanned out to replicas (spec.md §4.5); the
// registry enforces that centrally in Dispatch rather than scattering
// Propagate calls across handlers.
type Entry struct {
	Name    string
	MinArgs int // not counting the command name itself
	MaxArgs int // -1 means unbounded
	Mutates bool
	Handler Handler
}

// Registry is an explicit value built at startup (§9: never a package-level
// singleton) so tests can construct alternate tables.
type Registry struct {
	entries map[string]Entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

func (r *Registry) Register(e Entry) {
	r.entries[e.Name] = e
}

// Lookup exposes an entry's contract by case-insensitive name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	e, ok := r.entries[strings.ToUpper(name)]
	return e, ok
}

// Dispatch looks up name, enforces its arity contract, invokes its handler,
// and — for a successful mutating command issued directly by a client on a
// primary — fans raw (the exact bytes the client sent, including the
// terminating CRLFs) out to attached replicas and advances the offset.
// raw may be nil for connections with no replication concern (tests).
func (r *Registry) Dispatch(ctx *Context, name string, args []string, raw []byte) *resp.Value {
	canonical := strings.ToUpper(name)
	entry, ok := r.entries[canonical]
	if !ok {
		v := resp.NewError(fmt.Sprintf("ERR unknown command '%s'", name))
		return &v
	}
	if len(args) < entry.MinArgs || (entry.MaxArgs >= 0 && len(args) > entry.MaxArgs) {
		v := resp.NewError(fmt.Sprintf("ERR wrong number of arguments for '%s' command", strings.ToLower(canonical)))
		return &v
	}

	reply := entry.Handler(ctx, args)

	if entry.Mutates && !ctx.IsReplicaLink && reply != nil && reply.Typ != resp.Error &&
		ctx.Replication != nil && ctx.Replication.IsPrimary() && raw != nil {
		ctx.Replication.Propagate(raw)
	}

	return reply
}

// Names returns every registered command name, used by the COMMAND handler.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for n := range r.entries {
		names = append(names, n)
	}
	return names
}
