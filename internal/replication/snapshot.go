/*
file: go-redis-server/internal/replication/snapshot.go
*/
package replication

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/akashmaji946/go-redis-server/internal/resp"
	"github.com/akashmaji946/go-redis-server/internal/store"
)

// encodeSnapshot gob-encodes the current keyspace. spec.md §9 permits either
// a fixed empty-DB blob or a real serialization of the keyspace; this
// module chooses the latter (see DESIGN.md) so a freshly attached replica
// actually receives pre-existing primary state, reusing the teacher's own
// gob-based RDB format end to end.
func (e *Engine) encodeSnapshot() ([]byte, error) {
	snap := e.store.Snapshot()
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return nil, fmt.Errorf("replication: encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// decodeSnapshot restores a keyspace from a gob-encoded blob.
func decodeSnapshot(raw []byte) (map[string]store.Entry, error) {
	var snap map[string]store.Entry
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("replication: decode snapshot: %w", err)
	}
	return snap, nil
}

// HandlePSYNC implements the primary side of spec.md §4.5: reply
// FULLRESYNC, write the bulk-framed snapshot (no trailing CRLF after the
// body — the documented exception to normal bulk framing), then attach the
// connection to the replica set. The caller (server/connection.go) must
// have released the keyspace-adjacent locks before calling this, since
// writing the snapshot is an out-of-band I/O call (spec.md §5).
func (e *Engine) HandlePSYNC(w ReplyWriter) (*Replica, error) {
	e.mu.Lock()
	replID, offset := e.replID, e.offset
	e.mu.Unlock()

	if err := w.WriteValue(resp.NewSimpleString(fmt.Sprintf("FULLRESYNC %s %d", replID, offset))); err != nil {
		return nil, err
	}

	payload, err := e.encodeSnapshot()
	if err != nil {
		return nil, err
	}
	if err := w.WriteRaw(resp.BulkHeader(len(payload))); err != nil {
		return nil, err
	}
	if err := w.WriteRaw(payload); err != nil {
		return nil, err
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}

	return e.Attach(""), nil
}

// ReplyWriter is the minimal write surface HandlePSYNC needs; satisfied by
// *resp.Writer and used directly by the command package's Context, so
// command never depends on server.
type ReplyWriter interface {
	WriteValue(resp.Value) error
	WriteRaw([]byte) error
	Flush() error
}
