/*
file: go-redis-server/internal/command/string.go
*/
package command

import (
	"strings"

	"github.com/akashmaji946/go-redis-server/internal/resp"
	"github.com/akashmaji946/go-redis-server/internal/store"
)

func handleGet(ctx *Context, args []string) *resp.Value {
	e, ok := ctx.Store.Get(args[0])
	if !ok {
		return nullBulkReply()
	}
	if e.Kind != store.KindString {
		return errReply(resp.ErrWrongType)
	}
	return bulkReply(e.Str)
}

// handleSet implements SET key value [EX s | PX ms] [NX|XX] [KEEPTTL] per
// spec.md §4.2. Flags may appear in any order, case-insensitively.
func handleSet(ctx *Context, args []string) *resp.Value {
	key, value := args[0], args[1]
	policy := store.ExpiryPolicy{}

	for i := 2; i < len(args); i++ {
		switch strings.ToUpper(args[i]) {
		case "NX":
			policy.NX = true
		case "XX":
			policy.XX = true
		case "KEEPTTL":
			policy.KeepTTL = true
		case "EX":
			i++
			if i >= len(args) {
				return errReply("ERR syntax error")
			}
			n, err := parseInt(args[i])
			if err != nil {
				return errReply(err.Error())
			}
			policy.HasEX = true
			policy.EXSecs = n
		case "PX":
			i++
			if i >= len(args) {
				return errReply("ERR syntax error")
			}
			n, err := parseInt(args[i])
			if err != nil {
				return errReply(err.Error())
			}
			policy.HasPX = true
			policy.PXMillis = n
		default:
			return errReply("ERR syntax error")
		}
	}

	err := ctx.Store.Set(key, value, policy)
	switch err {
	case nil:
		return okReply()
	case store.ErrNXFailed, store.ErrXXFailed:
		return nullBulkReply()
	default:
		return errReply(err.Error())
	}
}
