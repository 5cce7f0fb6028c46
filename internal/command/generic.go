/*
file: go-redis-server/internal/command/generic.go
*/
package command

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/akashmaji946/go-redis-server/internal/resp"
	"github.com/akashmaji946/go-redis-server/internal/store"
)

// parseInt coerces a bulk-string argument to an int64, returning the
// canonical "value is not an integer" error text on failure (spec.md §7.3).
func parseInt(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("ERR value is not an integer or out of range")
	}
	return n, nil
}

func errReply(msg string) *resp.Value {
	v := resp.NewError(msg)
	return &v
}

func okReply() *resp.Value {
	v := resp.OK()
	return &v
}

func intReply(n int64) *resp.Value {
	v := resp.NewInteger(n)
	return &v
}

func bulkReply(s string) *resp.Value {
	v := resp.NewBulkString(s)
	return &v
}

func nullBulkReply() *resp.Value {
	v := resp.NewNullBulk()
	return &v
}

func arrayReply(items []resp.Value) *resp.Value {
	v := resp.NewArray(items)
	return &v
}

func wrongTypeReply(err error) (*resp.Value, bool) {
	if _, ok := err.(store.ErrWrongType); ok {
		return errReply(resp.ErrWrongType), true
	}
	return nil, false
}

func handlePing(ctx *Context, args []string) *resp.Value {
	if len(args) == 0 {
		v := resp.NewSimpleString("PONG")
		return &v
	}
	return bulkReply(args[0])
}

func handleEcho(ctx *Context, args []string) *resp.Value {
	return bulkReply(args[0])
}

// handleCommand answers COMMAND with an array of registered command names,
// matching the teacher's introspection-only reply shape (no per-command
// arity/flags metadata, which no client in this spec's scope inspects).
func handleCommand(reg *Registry) Handler {
	return func(ctx *Context, args []string) *resp.Value {
		names := reg.Names()
		items := make([]resp.Value, len(names))
		for i, n := range names {
			items[i] = resp.NewBulkString(strings.ToLower(n))
		}
		return arrayReply(items)
	}
}

// handleInfo reports replication role/replid/offset, the one section of
// INFO this spec's scope actually needs (spec.md §4.5's observability
// surface is otherwise just logging).
func handleInfo(ctx *Context, args []string) *resp.Value {
	var b strings.Builder
	b.WriteString("# Replication\r\n")
	if ctx.Replication == nil {
		return bulkReply(b.String())
	}
	role := "master"
	if !ctx.Replication.IsPrimary() {
		role = "slave"
	}
	fmt.Fprintf(&b, "role:%s\r\n", role)
	fmt.Fprintf(&b, "master_replid:%s\r\n", ctx.Replication.ReplID())
	fmt.Fprintf(&b, "master_repl_offset:%d\r\n", ctx.Replication.Offset())
	return bulkReply(b.String())
}

func handleFlushAll(ctx *Context, args []string) *resp.Value {
	ctx.Store.FlushAll()
	return okReply()
}

// handleSelect is a no-op beyond validating its index: this store has
// exactly one logical database (spec.md §4.3 "SELECT (no-op ok)"), so
// there is nothing to switch, but a non-integer argument still errors
// rather than silently replying +OK.
func handleSelect(ctx *Context, args []string) *resp.Value {
	if _, err := parseInt(args[0]); err != nil {
		return errReply(err.Error())
	}
	return okReply()
}

func handleKeys(ctx *Context, args []string) *resp.Value {
	matches, err := ctx.Store.MatchKeys(args[0])
	if err != nil {
		return errReply(err.Error())
	}
	items := make([]resp.Value, len(matches))
	for i, k := range matches {
		items[i] = resp.NewBulkString(k)
	}
	return arrayReply(items)
}

func handleType(ctx *Context, args []string) *resp.Value {
	return bulkReply(ctx.Store.Type(args[0]))
}

func handleDel(ctx *Context, args []string) *resp.Value {
	return intReply(int64(ctx.Store.Del(args...)))
}

func handleUnlink(ctx *Context, args []string) *resp.Value {
	return intReply(int64(ctx.Store.Unlink(args...)))
}

// handleExpire implements EXPIRE key seconds [NX|XX|GT|LT] per spec.md §4.2.
func handleExpire(ctx *Context, args []string) *resp.Value {
	secs, err := parseInt(args[1])
	if err != nil {
		return errReply(err.Error())
	}
	flag := store.ExpireAlways
	if len(args) == 3 {
		switch strings.ToUpper(args[2]) {
		case "NX":
			flag = store.ExpireNX
		case "XX":
			flag = store.ExpireXX
		case "GT":
			flag = store.ExpireGT
		case "LT":
			flag = store.ExpireLT
		default:
			return errReply("ERR unsupported option " + args[2])
		}
	}
	deadline := time.Now().Add(time.Duration(secs) * time.Second)
	if ctx.Store.Expire(args[0], deadline, flag) {
		return intReply(1)
	}
	return intReply(0)
}

func handleRename(ctx *Context, args []string) *resp.Value {
	if !ctx.Store.Rename(args[0], args[1]) {
		return errReply("ERR no such key")
	}
	return okReply()
}
