/*
file: go-redis-server/internal/store/list.go
*/
package store

import "time"

// lockedList returns the list at key, creating an empty one if absent, or
// reports ErrWrongType if a different type is stored there. Only Push
// passes create=true; every other operation passes create=false and treats
// a nil entry as an absent key (LSET turns that into ErrNoSuchKey).
func (s *Store) lockedList(key string, create bool) (*Entry, error) {
	now := time.Now()
	e, ok := s.lockedGet(key, now)
	if !ok {
		if !create {
			return nil, nil
		}
		e = &Entry{Kind: KindList, CreatedAt: now}
		s.data[key] = e
		return e, nil
	}
	if e.Kind != KindList {
		return nil, ErrWrongType{}
	}
	return e, nil
}

// Push appends (right=true) or prepends (right=false) values and returns the
// new length. Creates the key as an empty list if absent.
func (s *Store) Push(key string, right bool, values ...string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.lockedList(key, true)
	if err != nil {
		return 0, err
	}
	if right {
		e.List = append(e.List, values...)
	} else {
		for _, v := range values {
			e.List = append([]string{v}, e.List...)
		}
	}
	return len(e.List), nil
}

// Pop removes and returns the left (right=false) or right (right=true)
// element. ok=false means the key is absent or the list is empty.
func (s *Store) Pop(key string, right bool) (value string, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.lockedList(key, false)
	if err != nil {
		return "", false, err
	}
	if e == nil || len(e.List) == 0 {
		return "", false, nil
	}
	if right {
		value = e.List[len(e.List)-1]
		e.List = e.List[:len(e.List)-1]
	} else {
		value = e.List[0]
		e.List = e.List[1:]
	}
	if len(e.List) == 0 {
		delete(s.data, key)
	}
	return value, true, nil
}

// Len returns the list length, 0 if absent.
func (s *Store) Len(key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.lockedList(key, false)
	if err != nil {
		return 0, err
	}
	if e == nil {
		return 0, nil
	}
	return len(e.List), nil
}

// resolveIndex converts a possibly-negative Redis-style index into a Go
// slice index; ok=false means out of range.
func resolveIndex(idx, length int) (int, bool) {
	if idx < 0 {
		idx += length
	}
	if idx < 0 || idx >= length {
		return 0, false
	}
	return idx, true
}

// Index returns the element at idx (negative indexes count from the end).
// ok=false means out of range or the key is absent.
func (s *Store) Index(key string, idx int) (value string, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.lockedList(key, false)
	if err != nil {
		return "", false, err
	}
	if e == nil {
		return "", false, nil
	}
	i, inRange := resolveIndex(idx, len(e.List))
	if !inRange {
		return "", false, nil
	}
	return e.List[i], true, nil
}

// ErrNoSuchKey is returned by write operations that must error rather than
// create a key (LSET, RENAME's missing-source case is reported separately).
type ErrNoSuchKey struct{}

func (ErrNoSuchKey) Error() string { return "ERR no such key" }

// ErrIndexOutOfRange is LSET's error for an out-of-bounds index.
type ErrIndexOutOfRange struct{}

func (ErrIndexOutOfRange) Error() string { return "ERR index out of range" }

// SetIndex overwrites the element at idx. No key is an error; out-of-range
// is an error; neither creates or mutates anything else.
func (s *Store) SetIndex(key string, idx int, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.lockedList(key, false)
	if err != nil {
		return err
	}
	if e == nil {
		return ErrNoSuchKey{}
	}
	i, inRange := resolveIndex(idx, len(e.List))
	if !inRange {
		return ErrIndexOutOfRange{}
	}
	e.List[i] = value
	return nil
}

// Remove deletes up to |count| occurrences of value: count>0 scans
// head-to-tail, count<0 tail-to-head, count==0 removes every occurrence.
// Returns the number of elements removed.
func (s *Store) Remove(key string, count int, value string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.lockedList(key, false)
	if err != nil {
		return 0, err
	}
	if e == nil {
		return 0, nil
	}

	out := make([]string, 0, len(e.List))
	removed := 0
	limit := count
	if limit < 0 {
		limit = -limit
	}
	unlimited := count == 0

	if count >= 0 {
		for _, v := range e.List {
			if v == value && (unlimited || removed < limit) {
				removed++
				continue
			}
			out = append(out, v)
		}
	} else {
		for i := len(e.List) - 1; i >= 0; i-- {
			v := e.List[i]
			if v == value && removed < limit {
				removed++
				continue
			}
			out = append([]string{v}, out...)
		}
	}

	e.List = out
	if len(e.List) == 0 {
		delete(s.data, key)
	}
	return removed, nil
}

// Range returns a copy of the full list contents, used by tests to inspect
// a list; no command calls it.
func (s *Store) Range(key string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.lockedList(key, false)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, nil
	}
	out := make([]string, len(e.List))
	copy(out, e.List)
	return out, nil
}
