/*
file: go-redis-server/internal/command/register.go
*/
package command

// NewDefaultRegistry builds the command table spec.md §4.3 lists, wiring
// each name's arity contract and mutate-for-replication flag. Built fresh
// per server instance rather than a package-level singleton (spec.md §9).
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(Entry{Name: "PING", MinArgs: 0, MaxArgs: 1, Handler: handlePing})
	r.Register(Entry{Name: "ECHO", MinArgs: 1, MaxArgs: 1, Handler: handleEcho})
	r.Register(Entry{Name: "COMMAND", MinArgs: 0, MaxArgs: -1, Handler: handleCommand(r)})
	r.Register(Entry{Name: "INFO", MinArgs: 0, MaxArgs: 1, Handler: handleInfo})
	r.Register(Entry{Name: "SELECT", MinArgs: 1, MaxArgs: 1, Handler: handleSelect})

	r.Register(Entry{Name: "FLUSHALL", MinArgs: 0, MaxArgs: 0, Mutates: true, Handler: handleFlushAll})
	r.Register(Entry{Name: "KEYS", MinArgs: 1, MaxArgs: 1, Handler: handleKeys})
	r.Register(Entry{Name: "TYPE", MinArgs: 1, MaxArgs: 1, Handler: handleType})
	r.Register(Entry{Name: "DEL", MinArgs: 1, MaxArgs: -1, Mutates: true, Handler: handleDel})
	r.Register(Entry{Name: "UNLINK", MinArgs: 1, MaxArgs: -1, Mutates: true, Handler: handleUnlink})
	r.Register(Entry{Name: "EXPIRE", MinArgs: 2, MaxArgs: 3, Mutates: true, Handler: handleExpire})
	r.Register(Entry{Name: "RENAME", MinArgs: 2, MaxArgs: 2, Mutates: true, Handler: handleRename})

	r.Register(Entry{Name: "GET", MinArgs: 1, MaxArgs: 1, Handler: handleGet})
	r.Register(Entry{Name: "SET", MinArgs: 2, MaxArgs: -1, Mutates: true, Handler: handleSet})

	r.Register(Entry{Name: "LLEN", MinArgs: 1, MaxArgs: 1, Handler: handleLLen})
	r.Register(Entry{Name: "LREM", MinArgs: 3, MaxArgs: 3, Mutates: true, Handler: handleLRem})
	r.Register(Entry{Name: "LINDEX", MinArgs: 2, MaxArgs: 2, Handler: handleLIndex})
	r.Register(Entry{Name: "LPOP", MinArgs: 1, MaxArgs: 1, Mutates: true, Handler: handlePop(false)})
	r.Register(Entry{Name: "RPOP", MinArgs: 1, MaxArgs: 1, Mutates: true, Handler: handlePop(true)})
	r.Register(Entry{Name: "LPUSH", MinArgs: 2, MaxArgs: -1, Mutates: true, Handler: handlePush(false)})
	r.Register(Entry{Name: "RPUSH", MinArgs: 2, MaxArgs: -1, Mutates: true, Handler: handlePush(true)})
	r.Register(Entry{Name: "LSET", MinArgs: 3, MaxArgs: 3, Mutates: true, Handler: handleLSet})

	r.Register(Entry{Name: "HGET", MinArgs: 2, MaxArgs: 2, Handler: handleHGet})
	r.Register(Entry{Name: "HEXISTS", MinArgs: 2, MaxArgs: 2, Handler: handleHExists})
	r.Register(Entry{Name: "HDEL", MinArgs: 2, MaxArgs: -1, Mutates: true, Handler: handleHDel})
	r.Register(Entry{Name: "HGETALL", MinArgs: 1, MaxArgs: 1, Handler: handleHGetAll})
	r.Register(Entry{Name: "HKEYS", MinArgs: 1, MaxArgs: 1, Handler: handleHKeys})
	r.Register(Entry{Name: "HLEN", MinArgs: 1, MaxArgs: 1, Handler: handleHLen})
	r.Register(Entry{Name: "HMSET", MinArgs: 3, MaxArgs: -1, Mutates: true, Handler: handleHMSet})
	r.Register(Entry{Name: "HSET", MinArgs: 3, MaxArgs: -1, Mutates: true, Handler: handleHSet})
	r.Register(Entry{Name: "HVALS", MinArgs: 1, MaxArgs: 1, Handler: handleHVals})

	r.Register(Entry{Name: "REPLCONF", MinArgs: 1, MaxArgs: -1, Handler: handleReplconf})
	r.Register(Entry{Name: "PSYNC", MinArgs: 2, MaxArgs: 2, Handler: handlePsync})

	return r
}
