// Package storetest checks quote.Store implementations against the shared
// key-matching and upsert contract.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Simplici0/homequote/internal/apperr"
	"github.com/Simplici0/homequote/internal/quote"
)

// Factory returns an empty store. Seeded rows, when given, are stored as-is
// in order, bypassing upsert checks.
type Factory func(t *testing.T, seeded ...quote.Record) quote.Store

// Record builds a distinguishable record for key.
func Record(key, tag string) quote.Record {
	return quote.Record{
		Key:          key,
		Timestamp:    "2025-03-14T15:09:26Z",
		CustomerInfo: fmt.Sprintf(`{"first_name":%q}`, tag),
		Inputs:       `{}`,
		Results:      fmt.Sprintf(`{"catalog_version":"2025.1","tag":%q}`, tag),
	}
}

// Run exercises every Store operation.
func Run(t *testing.T, newStore Factory) {
	t.Run("EmptyList", func(t *testing.T) {
		s := newStore(t)
		rows, err := s.List(context.Background())
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(rows) != 0 {
			t.Fatalf("expected no rows, got %d", len(rows))
		}
	})

	t.Run("UpsertAppendsInOrder", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		for _, key := range []string{"Alpha", "Beta", "Gamma"} {
			if err := s.Upsert(ctx, Record(key, key)); err != nil {
				t.Fatalf("Upsert %s: %v", key, err)
			}
		}
		rows, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(rows) != 3 || rows[0].Key != "Alpha" || rows[2].Key != "Gamma" {
			t.Fatalf("unexpected rows: %+v", rows)
		}
	})

	t.Run("UpsertReplacesCaseInsensitively", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		if err := s.Upsert(ctx, Record("Reyes", "first")); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
		if err := s.Upsert(ctx, Record("Beta", "beta")); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
		replacement := Record("REYES", "second")
		if err := s.Upsert(ctx, replacement); err != nil {
			t.Fatalf("Upsert replacement: %v", err)
		}

		rows, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("expected 2 rows, got %+v", rows)
		}
		got, err := s.Get(ctx, "reyes")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got != replacement {
			t.Fatalf("Get = %+v, want %+v", got, replacement)
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		s := newStore(t, Record("Alpha", "a"))
		if _, err := s.Get(context.Background(), "Beta"); !errors.Is(err, apperr.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("DeleteRemovesOnlyMatch", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t, Record("Alpha", "a"), Record("Beta", "b"))
		if err := s.Delete(ctx, "ALPHA"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		rows, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(rows) != 1 || rows[0].Key != "Beta" {
			t.Fatalf("unexpected rows after delete: %+v", rows)
		}
		if err := s.Delete(ctx, "Alpha"); !errors.Is(err, apperr.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

// RunDuplicates covers stores that can hold more than one row per key.
func RunDuplicates(t *testing.T, newStore Factory) {
	t.Run("GetReturnsFirstMatch", func(t *testing.T) {
		s := newStore(t, Record("reyes", "first"), Record("Reyes", "second"))
		got, err := s.Get(context.Background(), "REYES")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got != Record("reyes", "first") {
			t.Fatalf("Get = %+v, want first match", got)
		}
	})

	t.Run("UpsertConflict", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t, Record("reyes", "first"), Record("Reyes", "second"))
		err := s.Upsert(ctx, Record("Reyes", "third"))
		var conflict *apperr.PersistenceConflictError
		if !errors.As(err, &conflict) || conflict.Matches != 2 {
			t.Fatalf("expected conflict, got %v", err)
		}
		rows, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(rows) != 2 || rows[1] != Record("Reyes", "second") {
			t.Fatalf("rows changed after conflict: %+v", rows)
		}
	})

	t.Run("DeleteRemovesFirstMatch", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t, Record("reyes", "first"), Record("Reyes", "second"))
		if err := s.Delete(ctx, "Reyes"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		got, err := s.Get(ctx, "reyes")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got != Record("Reyes", "second") {
			t.Fatalf("expected second row to remain, got %+v", got)
		}
	})
}
