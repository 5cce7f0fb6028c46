/*
file: go-redis-server/internal/store/store.go
*/

// Package store implements the typed in-memory keyspace: String, List and
// Hash entries with absolute expiry and strict per-key type discipline.
package store

import (
	"sync"
	"time"
)

// Kind is the type tag of a stored Entry.
type Kind string

const (
	KindString Kind = "string"
	KindList   Kind = "list"
	KindHash   Kind = "hash"
)

// ErrWrongType is returned whenever an operation's type contract is
// violated by the entry currently stored at a key.
type ErrWrongType struct{}

func (ErrWrongType) Error() string {
	return "ERR operation against a key holding the wrong kind of value"
}

// Entry is one keyspace record. Kind and the populated payload field always
// agree; once set, Kind cannot change except by delete-then-recreate.
type Entry struct {
	Kind Kind

	Str  string
	List []string
	Hash map[string]string

	CreatedAt time.Time
	// ExpiresAt is the absolute deadline; the zero Time means "no expiry".
	ExpiresAt time.Time
}

func (e *Entry) hasExpiry() bool { return !e.ExpiresAt.IsZero() }

func (e *Entry) isExpired(now time.Time) bool {
	return e.hasExpiry() && !now.Before(e.ExpiresAt)
}

// Store is the keyspace: a mutex-guarded map from key to Entry. Every
// exported method is a single bounded critical section — no method blocks
// on I/O while holding mu, per the concurrency model in spec.md §5.
type Store struct {
	mu   sync.RWMutex
	data map[string]*Entry
}

func New() *Store {
	return &Store{data: make(map[string]*Entry)}
}

// lockedGet returns the entry at key if present and not expired, lazily
// evicting it otherwise. Caller must hold mu for writing (eviction mutates
// the map), which is why every read path below takes the write lock — reads
// are not purely read-only once lazy expiry is in play.
func (s *Store) lockedGet(key string, now time.Time) (*Entry, bool) {
	e, ok := s.data[key]
	if !ok {
		return nil, false
	}
	if e.isExpired(now) {
		delete(s.data, key)
		return nil, false
	}
	return e, true
}

// Get returns the entry at key, or ok=false if absent or expired.
func (s *Store) Get(key string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.lockedGet(key, time.Now())
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// ExpiryPolicy carries SET's optional expiry/existence flags.
type ExpiryPolicy struct {
	HasPX    bool
	PXMillis int64
	HasEX    bool
	EXSecs   int64
	NX       bool
	XX       bool
	KeepTTL  bool
}

// ErrNXFailed / ErrXXFailed report a failed conditional SET; the caller
// replies with a null bulk rather than an error (spec.md §4.2).
var (
	ErrNXFailed = errString("NX condition not met")
	ErrXXFailed = errString("XX condition not met")
)

type errString string

func (e errString) Error() string { return string(e) }

// Set unconditionally writes (subject to NX/XX) a String entry.
func (s *Store) Set(key, value string, policy ExpiryPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	existing, exists := s.lockedGet(key, now)
	if policy.NX && exists {
		return ErrNXFailed
	}
	if policy.XX && !exists {
		return ErrXXFailed
	}

	e := &Entry{Kind: KindString, Str: value, CreatedAt: now}
	switch {
	case policy.HasPX:
		e.ExpiresAt = now.Add(time.Duration(policy.PXMillis) * time.Millisecond)
	case policy.HasEX:
		e.ExpiresAt = now.Add(time.Duration(policy.EXSecs) * time.Second)
	case policy.KeepTTL && exists:
		e.ExpiresAt = existing.ExpiresAt
	}
	s.data[key] = e
	return nil
}

// Del removes keys and returns the count actually removed.
func (s *Store) Del(keys ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	n := 0
	for _, k := range keys {
		if _, ok := s.lockedGet(k, now); ok {
			delete(s.data, k)
			n++
		}
	}
	return n
}

// Unlink has identical visibility to Del: the key is gone from subsequent
// Get calls immediately. This in-memory store has no deferred destructor to
// run off the hot path, so Unlink is Del by another name.
func (s *Store) Unlink(keys ...string) int { return s.Del(keys...) }

// Type reports the type tag of key, or "none" if absent/expired.
func (s *Store) Type(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.lockedGet(key, time.Now())
	if !ok {
		return "none"
	}
	return string(e.Kind)
}

// ExpireFlag selects EXPIRE's conditional-update semantics.
type ExpireFlag int

const (
	ExpireAlways ExpireFlag = iota
	ExpireNX
	ExpireXX
	ExpireGT
	ExpireLT
)

// Expire sets a key's deadline, honoring the NX/XX/GT/LT flag.
// Returns true if the deadline was changed, false if the key is absent or
// the flag condition was not met.
func (s *Store) Expire(key string, deadline time.Time, flag ExpireFlag) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.lockedGet(key, time.Now())
	if !ok {
		return false
	}
	switch flag {
	case ExpireNX:
		if e.hasExpiry() {
			return false
		}
	case ExpireXX:
		if !e.hasExpiry() {
			return false
		}
	case ExpireGT:
		if e.hasExpiry() && !deadline.After(e.ExpiresAt) {
			return false
		}
	case ExpireLT:
		if e.hasExpiry() && !deadline.Before(e.ExpiresAt) {
			return false
		}
	}
	e.ExpiresAt = deadline
	return true
}

// Rename moves src to dst, replacing dst if it exists, and preserves src's
// ttl. Returns false if src does not exist.
func (s *Store) Rename(src, dst string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	e, ok := s.lockedGet(src, now)
	if !ok {
		return false
	}
	if src == dst {
		return true
	}
	delete(s.data, src)
	s.data[dst] = e
	return true
}

// Keys returns every non-expired key; lazy eviction is applied along the
// way so a KEYS scan also reaps anything it passes over.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	keys := make([]string, 0, len(s.data))
	for k, e := range s.data {
		if e.isExpired(now) {
			delete(s.data, k)
			continue
		}
		keys = append(keys, k)
	}
	return keys
}

// FlushAll clears every key, used by FLUSHALL.
func (s *Store) FlushAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]*Entry)
}

// Snapshot returns a copy of the keyspace suitable for gob encoding into a
// replication snapshot. List and Hash payloads are copied too, so encoding
// the result after the lock is released cannot race with later writes.
func (s *Store) Snapshot() map[string]Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Entry, len(s.data))
	for k, e := range s.data {
		ce := *e
		if e.List != nil {
			ce.List = append([]string(nil), e.List...)
		}
		if e.Hash != nil {
			ce.Hash = make(map[string]string, len(e.Hash))
			for f, v := range e.Hash {
				ce.Hash[f] = v
			}
		}
		out[k] = ce
	}
	return out
}

// Load replaces the keyspace wholesale with entries (used when a replica
// applies a FULLRESYNC snapshot).
func (s *Store) Load(entries map[string]Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data := make(map[string]*Entry, len(entries))
	for k, e := range entries {
		ce := e
		data[k] = &ce
	}
	s.data = data
}
