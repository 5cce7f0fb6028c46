/*
file: go-redis-server/internal/replication/handshake.go
*/
package replication

import (
	"bufio"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/akashmaji946/go-redis-server/internal/logging"
	"github.com/akashmaji946/go-redis-server/internal/resp"
)

// HandshakeState is the replica-side state machine of spec.md §4.5.
type HandshakeState int

const (
	HandshakingPing HandshakeState = iota
	SendingListeningPort
	SendingCapabilities
	SendingPsync
	ReceivingRdbDump
	StreamingCommands
)

// ApplyFunc applies one command frame received over the replication stream
// to the local keyspace, exactly as if it had arrived from a client. It is
// supplied by the caller (the server package, which owns the command
// registry) so this package never depends on command — keeping the
// dependency graph free of the cycle spec.md §9 calls out.
type ApplyFunc func(frame resp.Value)

const minBackoff = 200 * time.Millisecond
const maxBackoff = 5 * time.Second

// Supervise runs RunReplica in a loop, reconnecting with exponential
// backoff (capped at maxBackoff) on any failure, per spec.md §4.5 "On any
// unexpected frame or I/O failure, the replica resets to HandshakingPing
// after a backoff." It only returns when stop is closed.
func Supervise(e *Engine, addr, listenPort string, apply ApplyFunc, log *logging.Logger, stop <-chan struct{}) {
	backoff := minBackoff
	for {
		select {
		case <-stop:
			return
		default:
		}

		err := RunReplica(e, addr, listenPort, apply)
		if err != nil {
			log.Warnf("replication: handshake with %s failed: %v (retrying in %s)", addr, err, backoff)
		}

		select {
		case <-stop:
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

// RunReplica drives the full replica lifecycle against a primary at addr:
// handshake, snapshot load, then an unbounded streaming-apply loop. It
// blocks until the connection fails (it watches no stop channel), at which
// point the caller is expected to call RunReplica again after a backoff —
// this function performs one connection attempt's worth of work, not the
// retry loop itself, so the caller's backoff policy stays visible and
// testable independent of connection setup.
func RunReplica(e *Engine, addr, listenPort string, apply ApplyFunc) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("replication: dial primary: %w", err)
	}
	defer conn.Close()

	r := bufio.NewReader(conn)

	if err := sendAndExpect(conn, r, cmdArray("PING"), "PONG"); err != nil {
		return err
	}
	if err := sendAndExpect(conn, r, cmdArray("REPLCONF", "listening-port", listenPort), "OK"); err != nil {
		return err
	}
	if err := sendAndExpect(conn, r, cmdArray("REPLCONF", "capa", "psync2"), "OK"); err != nil {
		return err
	}

	if _, err := conn.Write(cmdArray("PSYNC", "?", "-1")); err != nil {
		return fmt.Errorf("replication: send PSYNC: %w", err)
	}
	line, err := readSimpleString(r)
	if err != nil {
		return fmt.Errorf("replication: read FULLRESYNC: %w", err)
	}
	replID, offset, err := parseFullResync(line)
	if err != nil {
		return err
	}
	e.setFullResync(replID, offset)

	payload, err := readBulkNoTrailingCRLF(r)
	if err != nil {
		return fmt.Errorf("replication: read snapshot: %w", err)
	}
	snap, err := decodeSnapshot(payload)
	if err != nil {
		return err
	}
	e.store.Load(snap)

	return streamCommands(e, conn, r, apply)
}

// streamCommands implements StreamingCommands: every subsequent frame is a
// normal command array, applied locally and never answered, except
// REPLCONF GETACK which gets the documented ACK reply.
func streamCommands(e *Engine, conn net.Conn, r *bufio.Reader, apply ApplyFunc) error {
	for {
		frame, raw, err := readFrame(r)
		if err != nil {
			return fmt.Errorf("replication: stream read: %w", err)
		}
		e.advanceOffset(int64(len(raw)))

		name, args, ok := frame.Command()
		if ok && strings.EqualFold(name, "REPLCONF") && len(args) >= 1 && strings.EqualFold(args[0], "GETACK") {
			ack := resp.Serialize(resp.NewArray([]resp.Value{
				resp.NewBulkString("REPLCONF"),
				resp.NewBulkString("ACK"),
				resp.NewBulkString(strconv.FormatInt(e.Offset(), 10)),
			}))
			if _, err := conn.Write(ack); err != nil {
				return fmt.Errorf("replication: write ACK: %w", err)
			}
			continue
		}

		apply(frame)
	}
}

func (e *Engine) advanceOffset(n int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.offset += n
}

func cmdArray(parts ...string) []byte {
	items := make([]resp.Value, len(parts))
	for i, p := range parts {
		items[i] = resp.NewBulkString(p)
	}
	return resp.Serialize(resp.NewArray(items))
}

func sendAndExpect(conn net.Conn, r *bufio.Reader, frame []byte, want string) error {
	if _, err := conn.Write(frame); err != nil {
		return fmt.Errorf("replication: write: %w", err)
	}
	got, err := readSimpleString(r)
	if err != nil {
		return fmt.Errorf("replication: read reply: %w", err)
	}
	if !strings.EqualFold(got, want) {
		return fmt.Errorf("replication: unexpected reply %q, want %q", got, want)
	}
	return nil
}

// readSimpleString reads one line and expects a +-prefixed simple string,
// tolerating a leading FULLRESYNC payload which embeds its own args on the
// same line.
func readSimpleString(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if len(line) == 0 || (line[0] != '+' && line[0] != '-') {
		return "", fmt.Errorf("replication: expected simple string, got %q", line)
	}
	if line[0] == '-' {
		return "", fmt.Errorf("replication: primary error: %s", line[1:])
	}
	return line[1:], nil
}

func parseFullResync(line string) (replID string, offset int64, err error) {
	fields := strings.Fields(line)
	if len(fields) != 3 || !strings.EqualFold(fields[0], "FULLRESYNC") {
		return "", 0, fmt.Errorf("replication: malformed FULLRESYNC line %q", line)
	}
	offset, err = strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("replication: malformed FULLRESYNC offset %q", fields[2])
	}
	return fields[1], offset, nil
}

// readBulkNoTrailingCRLF reads a `$<len>\r\n<len-bytes>` frame with no
// terminating CRLF after the payload — the snapshot transfer's documented
// exception to normal bulk framing (spec.md §4.5).
func readBulkNoTrailingCRLF(r *bufio.Reader) ([]byte, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return nil, err
	}
	line = strings.TrimRight(line, "\r\n")
	if len(line) == 0 || line[0] != '$' {
		return nil, fmt.Errorf("replication: expected bulk header, got %q", line)
	}
	n, err := strconv.ParseInt(line[1:], 10, 64)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("replication: malformed bulk length %q", line[1:])
	}
	buf := make([]byte, n)
	if _, err := readFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func readFull(r *bufio.Reader, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// readFrame parses exactly one RESP frame off r, returning both the parsed
// Value and the exact raw bytes consumed (needed for offset accounting).
func readFrame(r *bufio.Reader) (resp.Value, []byte, error) {
	var buf []byte
	for {
		v, n, err := resp.Parse(buf)
		if err == nil {
			return v, buf[:n], nil
		}
		if err != resp.ErrIncomplete {
			return resp.Value{}, nil, err
		}
		// One byte at a time, so nothing past this frame is taken out of r.
		b, rerr := r.ReadByte()
		if rerr != nil {
			return resp.Value{}, nil, rerr
		}
		buf = append(buf, b)
	}
}
