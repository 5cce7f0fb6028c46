/*
file: go-redis-server/internal/command/replication.go
*/
package command

import "github.com/akashmaji946/go-redis-server/internal/resp"

// handleReplconf answers the primary side of the handshake (listening-port,
// capa) and silently accepts ACK frames, per spec.md §4.5. A nil return
// suppresses any reply, which is required for ACK — the replica did not ask
// a question, it answered one.
func handleReplconf(ctx *Context, args []string) *resp.Value {
	if ctx.Replication == nil {
		return errReply("ERR REPLCONF without replication configured")
	}
	reply, hasReply := ctx.Replication.HandleREPLCONF(args)
	if !hasReply {
		return nil
	}
	return &reply
}

// handlePsync implements the primary side of PSYNC ? -1: reply FULLRESYNC,
// stream the bulk-framed snapshot directly over ctx.Conn, and attach the
// connection as a replica. The normal reply path is suppressed (nil
// return); the connection layer must switch to forwarding
// ctx.AttachedReplica's outbox afterward.
func handlePsync(ctx *Context, args []string) *resp.Value {
	if ctx.Replication == nil {
		return errReply("ERR PSYNC without replication configured")
	}
	r, err := ctx.Replication.HandlePSYNC(ctx.Conn)
	if err != nil {
		return errReply("ERR psync failed: " + err.Error())
	}
	ctx.AttachedReplica = r
	return nil
}
