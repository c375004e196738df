// Package sqlitestore keeps estimate records and rate catalogs in SQLite.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Simplici0/homequote/internal/apperr"
	"github.com/Simplici0/homequote/internal/catalog"
	"github.com/Simplici0/homequote/internal/quote"
)

// Store is a quote.Store backed by the estimates table.
type Store struct {
	db *sql.DB
}

var _ quote.Store = (*Store)(nil)

// New returns a store over an already migrated database.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type keyRow struct {
	id  int64
	key string
}

// matching returns the ids of rows whose key matches, in insertion order.
func matching(ctx context.Context, q querier, key string) ([]int64, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, account_name FROM estimates ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query estimate keys: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var r keyRow
		if err := rows.Scan(&r.id, &r.key); err != nil {
			return nil, fmt.Errorf("scan estimate key: %w", err)
		}
		if quote.KeyMatches(r.key, key) {
			ids = append(ids, r.id)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate estimate keys: %w", err)
	}
	return ids, nil
}

// List returns every record in insertion order.
func (s *Store) List(ctx context.Context) ([]quote.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT account_name, timestamp, customer_info, inputs, results
		FROM estimates
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query estimates: %w", err)
	}
	defer rows.Close()

	var out []quote.Record
	for rows.Next() {
		var r quote.Record
		if err := rows.Scan(&r.Key, &r.Timestamp, &r.CustomerInfo, &r.Inputs, &r.Results); err != nil {
			return nil, fmt.Errorf("scan estimate: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate estimates: %w", err)
	}
	return out, nil
}

// Get returns the first record whose key matches.
func (s *Store) Get(ctx context.Context, key string) (quote.Record, error) {
	ids, err := matching(ctx, s.db, key)
	if err != nil {
		return quote.Record{}, err
	}
	if len(ids) == 0 {
		return quote.Record{}, apperr.ErrNotFound
	}

	var r quote.Record
	err = s.db.QueryRowContext(ctx, `
		SELECT account_name, timestamp, customer_info, inputs, results
		FROM estimates
		WHERE id = ?
	`, ids[0]).Scan(&r.Key, &r.Timestamp, &r.CustomerInfo, &r.Inputs, &r.Results)
	if errors.Is(err, sql.ErrNoRows) {
		return quote.Record{}, apperr.ErrNotFound
	}
	if err != nil {
		return quote.Record{}, fmt.Errorf("query estimate: %w", err)
	}
	return r, nil
}

// Upsert replaces the matching row or inserts a new one inside one transaction.
func (s *Store) Upsert(ctx context.Context, r quote.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert transaction: %w", err)
	}
	defer tx.Rollback()

	ids, err := matching(ctx, tx, r.Key)
	if err != nil {
		return err
	}

	switch len(ids) {
	case 0:
		_, err = tx.ExecContext(ctx, `
			INSERT INTO estimates (account_name, timestamp, customer_info, inputs, results)
			VALUES (?, ?, ?, ?, ?)
		`, r.Key, r.Timestamp, r.CustomerInfo, r.Inputs, r.Results)
	case 1:
		_, err = tx.ExecContext(ctx, `
			UPDATE estimates
			SET account_name = ?, timestamp = ?, customer_info = ?, inputs = ?, results = ?
			WHERE id = ?
		`, r.Key, r.Timestamp, r.CustomerInfo, r.Inputs, r.Results, ids[0])
	default:
		return &apperr.PersistenceConflictError{Key: r.Key, Matches: len(ids)}
	}
	if err != nil {
		return fmt.Errorf("write estimate: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert transaction: %w", err)
	}
	return nil
}

// Delete removes the first matching row.
func (s *Store) Delete(ctx context.Context, key string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete transaction: %w", err)
	}
	defer tx.Rollback()

	ids, err := matching(ctx, tx, key)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return apperr.ErrNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM estimates WHERE id = ?`, ids[0]); err != nil {
		return fmt.Errorf("delete estimate: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete transaction: %w", err)
	}
	return nil
}

// LoadCatalog reads and validates a stored rate catalog.
func (s *Store) LoadCatalog(ctx context.Context, version string) (*catalog.Catalog, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM rate_catalogs WHERE version = ?`, version).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", catalog.ErrUnknownVersion, version)
	}
	if err != nil {
		return nil, fmt.Errorf("query catalog %s: %w", version, err)
	}

	c, err := catalog.Parse([]byte(doc))
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", version, err)
	}
	return c, nil
}

// CatalogVersions lists stored catalog versions, newest first.
func (s *Store) CatalogVersions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT version FROM rate_catalogs ORDER BY version DESC`)
	if err != nil {
		return nil, fmt.Errorf("query catalog versions: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan catalog version: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog versions: %w", err)
	}
	return out, nil
}
