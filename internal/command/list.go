/*
file: go-redis-server/internal/command/list.go
*/
package command

import "github.com/akashmaji946/go-redis-server/internal/resp"

func handlePush(right bool) Handler {
	return func(ctx *Context, args []string) *resp.Value {
		n, err := ctx.Store.Push(args[0], right, args[1:]...)
		if v, ok := wrongTypeReply(err); ok {
			return v
		}
		return intReply(int64(n))
	}
}

func handlePop(right bool) Handler {
	return func(ctx *Context, args []string) *resp.Value {
		v, ok, err := ctx.Store.Pop(args[0], right)
		if r, is := wrongTypeReply(err); is {
			return r
		}
		if !ok {
			return nullBulkReply()
		}
		return bulkReply(v)
	}
}

func handleLLen(ctx *Context, args []string) *resp.Value {
	n, err := ctx.Store.Len(args[0])
	if v, ok := wrongTypeReply(err); ok {
		return v
	}
	return intReply(int64(n))
}

func handleLIndex(ctx *Context, args []string) *resp.Value {
	idx, err := parseInt(args[1])
	if err != nil {
		return errReply(err.Error())
	}
	val, ok, err := ctx.Store.Index(args[0], int(idx))
	if v, is := wrongTypeReply(err); is {
		return v
	}
	if !ok {
		return nullBulkReply()
	}
	return bulkReply(val)
}

func handleLSet(ctx *Context, args []string) *resp.Value {
	idx, err := parseInt(args[1])
	if err != nil {
		return errReply(err.Error())
	}
	if err := ctx.Store.SetIndex(args[0], int(idx), args[2]); err != nil {
		return errReply(err.Error())
	}
	return okReply()
}

func handleLRem(ctx *Context, args []string) *resp.Value {
	count, err := parseInt(args[1])
	if err != nil {
		return errReply(err.Error())
	}
	n, err := ctx.Store.Remove(args[0], int(count), args[2])
	if v, ok := wrongTypeReply(err); ok {
		return v
	}
	return intReply(int64(n))
}
