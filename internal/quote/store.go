package quote

import (
	"context"
	"strings"

	"github.com/Simplici0/homequote/internal/apperr"
)

// Store persists estimate records by natural key. Keys match
// case-insensitively and the first stored match wins.
type Store interface {
	// List returns every record in storage order.
	List(ctx context.Context) ([]Record, error)
	// Get returns the first record whose key matches, or apperr.ErrNotFound.
	Get(ctx context.Context, key string) (Record, error)
	// Upsert replaces the matching record or appends a new one. More than
	// one stored match is an *apperr.PersistenceConflictError.
	Upsert(ctx context.Context, r Record) error
	// Delete removes the first matching record, or returns apperr.ErrNotFound.
	Delete(ctx context.Context, key string) error
}

// KeyMatches reports whether a stored key matches a requested one.
func KeyMatches(stored, key string) bool {
	return strings.EqualFold(strings.TrimSpace(stored), strings.TrimSpace(key))
}

// MatchIndexes returns the positions of every record matching key.
func MatchIndexes(records []Record, key string) []int {
	var out []int
	for i, r := range records {
		if KeyMatches(r.Key, key) {
			out = append(out, i)
		}
	}
	return out
}

// UpsertRows applies upsert semantics to an in-memory row list and returns
// the updated list.
func UpsertRows(records []Record, r Record) ([]Record, error) {
	matches := MatchIndexes(records, r.Key)
	switch len(matches) {
	case 0:
		return append(append([]Record(nil), records...), r), nil
	case 1:
		out := append([]Record(nil), records...)
		out[matches[0]] = r
		return out, nil
	default:
		return nil, &apperr.PersistenceConflictError{Key: r.Key, Matches: len(matches)}
	}
}

// DeleteRows removes the first record matching key.
func DeleteRows(records []Record, key string) ([]Record, error) {
	matches := MatchIndexes(records, key)
	if len(matches) == 0 {
		return nil, apperr.ErrNotFound
	}
	i := matches[0]
	out := make([]Record, 0, len(records)-1)
	out = append(out, records[:i]...)
	return append(out, records[i+1:]...), nil
}
