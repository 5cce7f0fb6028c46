/*
file: go-redis-server/internal/store/glob.go
*/
package store

import "github.com/gobwas/glob"

// MatchKeys filters Keys() against a Redis-style glob pattern: `*` matches
// any run, `?` matches one character, and `[...]` matches a character
// class — the semantics KEYS documents in spec.md §4.3.
func (s *Store) MatchKeys(pattern string) ([]string, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, &MalformedPatternError{Pattern: pattern}
	}
	var out []string
	for _, k := range s.Keys() {
		if g.Match(k) {
			out = append(out, k)
		}
	}
	return out, nil
}

// MalformedPatternError reports an unparsable KEYS glob pattern.
type MalformedPatternError struct {
	Pattern string
}

func (e *MalformedPatternError) Error() string {
	return "ERR invalid glob pattern '" + e.Pattern + "'"
}
