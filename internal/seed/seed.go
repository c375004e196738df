// Package seed loads the built-in rate catalogs into the database.
package seed

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Simplici0/homequote/internal/catalog"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Skipped int
}

// Run stores every catalog whose version is not in rate_catalogs yet.
// Stored versions are never rewritten, so running it again is a no-op.
func Run(ctx context.Context, db *sql.DB, catalogs []*catalog.Catalog) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}
	for _, c := range catalogs {
		if err := ensureCatalog(ctx, tx, c, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureCatalog(ctx context.Context, tx *sql.Tx, c *catalog.Catalog, stats *Stats) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validate catalog %s: %w", c.Version, err)
	}

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM rate_catalogs WHERE version = ? LIMIT 1)`, c.Version).Scan(&exists); err != nil {
		return fmt.Errorf("check catalog %s existence: %w", c.Version, err)
	}
	if exists {
		stats.Skipped++
		return nil
	}

	doc, err := c.Marshal()
	if err != nil {
		return fmt.Errorf("encode catalog %s: %w", c.Version, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO rate_catalogs (version, document) VALUES (?, ?)`, c.Version, string(doc)); err != nil {
		return fmt.Errorf("insert catalog %s: %w", c.Version, err)
	}
	stats.Inserts++
	return nil
}
