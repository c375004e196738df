// Package filestore keeps estimate records in a single JSON file.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Simplici0/homequote/internal/apperr"
	"github.com/Simplici0/homequote/internal/quote"
)

const fileMode = 0o600

// Store is a quote.Store over one JSON document holding the ordered rows.
// Every write replaces the file through a uniquely named temp file and
// rename, so writers in separate processes never share a temp file.
type Store struct {
	path string
	mu   sync.Mutex
}

var _ quote.Store = (*Store)(nil)

// New returns a store at path. The file is created on first write.
func New(path string) *Store {
	return &Store{path: path}
}

// readRows reads the row list; a missing file is an empty list.
func (s *Store) readRows() ([]quote.Record, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read estimates file: %w", err)
	}
	var rows []quote.Record
	if err := json.Unmarshal(b, &rows); err != nil {
		return nil, fmt.Errorf("decode estimates file: %w", err)
	}
	return rows, nil
}

func (s *Store) writeRows(rows []quote.Record) error {
	if rows == nil {
		rows = []quote.Record{}
	}
	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("encode estimates file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create estimates dir: %w", err)
	}
	f, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp estimates file: %w", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if err := f.Chmod(fileMode); err != nil {
		f.Close()
		return fmt.Errorf("chmod temp estimates file: %w", err)
	}
	if _, err := f.Write(b); err != nil {
		f.Close()
		return fmt.Errorf("write estimates file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write estimates file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace estimates file: %w", err)
	}
	return nil
}

// List returns every record in file order.
func (s *Store) List(ctx context.Context) ([]quote.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readRows()
}

// Get returns the first record whose key matches.
func (s *Store) Get(ctx context.Context, key string) (quote.Record, error) {
	if err := ctx.Err(); err != nil {
		return quote.Record{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readRows()
	if err != nil {
		return quote.Record{}, err
	}
	if idx := quote.MatchIndexes(rows, key); len(idx) > 0 {
		return rows[idx[0]], nil
	}
	return quote.Record{}, apperr.ErrNotFound
}

// Upsert replaces the matching record or appends a new one.
func (s *Store) Upsert(ctx context.Context, r quote.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readRows()
	if err != nil {
		return err
	}
	rows, err = quote.UpsertRows(rows, r)
	if err != nil {
		return err
	}
	return s.writeRows(rows)
}

// Delete removes the first matching record.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readRows()
	if err != nil {
		return err
	}
	rows, err = quote.DeleteRows(rows, key)
	if err != nil {
		return err
	}
	return s.writeRows(rows)
}
