/*
file: go-redis-server/internal/command/hash.go
*/
package command

import "github.com/akashmaji946/go-redis-server/internal/resp"

func handleHSet(ctx *Context, args []string) *resp.Value {
	if len(args)%2 != 1 {
		return errReply("ERR wrong number of arguments for 'hset' command")
	}
	fields := make(map[string]string, len(args)/2)
	for i := 1; i < len(args); i += 2 {
		fields[args[i]] = args[i+1]
	}
	n, err := ctx.Store.HSet(args[0], fields)
	if v, ok := wrongTypeReply(err); ok {
		return v
	}
	return intReply(int64(n))
}

// handleHMSet is HSET's legacy alias: the reply is +OK instead of a count
// (the Redis command HSET/HMSET semantics split this spec preserves, per
// spec.md §4.3's listing of both names).
func handleHMSet(ctx *Context, args []string) *resp.Value {
	if len(args)%2 != 1 {
		return errReply("ERR wrong number of arguments for 'hmset' command")
	}
	fields := make(map[string]string, len(args)/2)
	for i := 1; i < len(args); i += 2 {
		fields[args[i]] = args[i+1]
	}
	_, err := ctx.Store.HSet(args[0], fields)
	if v, ok := wrongTypeReply(err); ok {
		return v
	}
	return okReply()
}

func handleHGet(ctx *Context, args []string) *resp.Value {
	v, ok, err := ctx.Store.HGet(args[0], args[1])
	if r, is := wrongTypeReply(err); is {
		return r
	}
	if !ok {
		return nullBulkReply()
	}
	return bulkReply(v)
}

func handleHExists(ctx *Context, args []string) *resp.Value {
	ok, err := ctx.Store.HExists(args[0], args[1])
	if v, is := wrongTypeReply(err); is {
		return v
	}
	if ok {
		return intReply(1)
	}
	return intReply(0)
}

func handleHDel(ctx *Context, args []string) *resp.Value {
	n, err := ctx.Store.HDel(args[0], args[1:]...)
	if v, ok := wrongTypeReply(err); ok {
		return v
	}
	return intReply(int64(n))
}

func handleHLen(ctx *Context, args []string) *resp.Value {
	n, err := ctx.Store.HLen(args[0])
	if v, ok := wrongTypeReply(err); ok {
		return v
	}
	return intReply(int64(n))
}

func handleHKeys(ctx *Context, args []string) *resp.Value {
	keys, err := ctx.Store.HKeys(args[0])
	if v, ok := wrongTypeReply(err); ok {
		return v
	}
	items := make([]resp.Value, len(keys))
	for i, k := range keys {
		items[i] = resp.NewBulkString(k)
	}
	return arrayReply(items)
}

func handleHVals(ctx *Context, args []string) *resp.Value {
	vals, err := ctx.Store.HVals(args[0])
	if v, ok := wrongTypeReply(err); ok {
		return v
	}
	items := make([]resp.Value, len(vals))
	for i, val := range vals {
		items[i] = resp.NewBulkString(val)
	}
	return arrayReply(items)
}

func handleHGetAll(ctx *Context, args []string) *resp.Value {
	pairs, err := ctx.Store.HGetAll(args[0])
	if v, ok := wrongTypeReply(err); ok {
		return v
	}
	items := make([]resp.Value, 0, 2*len(pairs))
	for _, p := range pairs {
		items = append(items, resp.NewBulkString(p.Field), resp.NewBulkString(p.Value))
	}
	return arrayReply(items)
}
