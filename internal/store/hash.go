/*
file: go-redis-server/internal/store/hash.go
*/
package store

import (
	"sort"
	"time"
)

func (s *Store) lockedHash(key string, create bool) (*Entry, error) {
	now := time.Now()
	e, ok := s.lockedGet(key, now)
	if !ok {
		if !create {
			return nil, nil
		}
		e = &Entry{Kind: KindHash, Hash: make(map[string]string), CreatedAt: now}
		s.data[key] = e
		return e, nil
	}
	if e.Kind != KindHash {
		return nil, ErrWrongType{}
	}
	return e, nil
}

// HSet sets fields on a hash, creating the key if absent, and returns the
// number of fields that were newly created (not merely overwritten).
func (s *Store) HSet(key string, fields map[string]string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.lockedHash(key, true)
	if err != nil {
		return 0, err
	}
	created := 0
	for field, value := range fields {
		if _, exists := e.Hash[field]; !exists {
			created++
		}
		e.Hash[field] = value
	}
	return created, nil
}

// HGet returns a field's value, ok=false if the hash or field is absent.
func (s *Store) HGet(key, field string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.lockedHash(key, false)
	if err != nil {
		return "", false, err
	}
	if e == nil {
		return "", false, nil
	}
	v, ok := e.Hash[field]
	return v, ok, nil
}

// HExists reports whether field is present.
func (s *Store) HExists(key, field string) (bool, error) {
	_, ok, err := s.HGet(key, field)
	return ok, err
}

// HDel removes fields and returns the count actually deleted.
func (s *Store) HDel(key string, fields ...string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.lockedHash(key, false)
	if err != nil {
		return 0, err
	}
	if e == nil {
		return 0, nil
	}
	n := 0
	for _, f := range fields {
		if _, ok := e.Hash[f]; ok {
			delete(e.Hash, f)
			n++
		}
	}
	if len(e.Hash) == 0 {
		delete(s.data, key)
	}
	return n, nil
}

// HLen returns the number of fields, 0 if absent.
func (s *Store) HLen(key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.lockedHash(key, false)
	if err != nil {
		return 0, err
	}
	if e == nil {
		return 0, nil
	}
	return len(e.Hash), nil
}

// HKeys returns field names in sorted order for deterministic replies.
func (s *Store) HKeys(key string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.lockedHash(key, false)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, nil
	}
	keys := make([]string, 0, len(e.Hash))
	for k := range e.Hash {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// HVals returns field values ordered by their (sorted) field name, matching
// the ordering HGetAll and HKeys use.
func (s *Store) HVals(key string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.lockedHash(key, false)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, nil
	}
	keys := make([]string, 0, len(e.Hash))
	for k := range e.Hash {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	vals := make([]string, len(keys))
	for i, k := range keys {
		vals[i] = e.Hash[k]
	}
	return vals, nil
}

// HGetAll returns fields in sorted-by-key order for deterministic replies.
func (s *Store) HGetAll(key string) ([]HashPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.lockedHash(key, false)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, nil
	}
	keys := make([]string, 0, len(e.Hash))
	for k := range e.Hash {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]HashPair, len(keys))
	for i, k := range keys {
		out[i] = HashPair{Field: k, Value: e.Hash[k]}
	}
	return out, nil
}

// HashPair is one field/value result row from HGetAll.
type HashPair struct {
	Field string
	Value string
}
