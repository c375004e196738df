// Package app builds the estimate service from configuration.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Simplici0/homequote/internal/addon"
	"github.com/Simplici0/homequote/internal/catalog"
	"github.com/Simplici0/homequote/internal/config"
	"github.com/Simplici0/homequote/internal/db"
	"github.com/Simplici0/homequote/internal/migrations"
	"github.com/Simplici0/homequote/internal/quote"
	"github.com/Simplici0/homequote/internal/seed"
	"github.com/Simplici0/homequote/internal/store/dynamostore"
	"github.com/Simplici0/homequote/internal/store/filestore"
	"github.com/Simplici0/homequote/internal/store/sqlitestore"
)

// Wire bundles the store, catalog and service for one process.
type Wire struct {
	Store   quote.Store
	Catalog *catalog.Catalog
	Service *quote.Service

	closers []func() error
}

// NewWire opens the configured store, resolves the active catalog and builds
// the service. Callers must Close the result.
func NewWire(ctx context.Context, cfg config.Config, log *zap.Logger) (*Wire, error) {
	w := &Wire{}

	var catalogs *sqlitestore.Store
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		database, err := openSQLite(ctx, cfg.DBPath, log)
		if err != nil {
			return nil, err
		}
		w.closers = append(w.closers, database.Close)
		s := sqlitestore.New(database)
		w.Store, catalogs = s, s
	case config.BackendFile:
		w.Store = filestore.New(cfg.EstimatesFile)
	case config.BackendDynamoDB:
		client, err := dynamostore.Connect(ctx, dynamostore.ClientConfig{Region: cfg.AWSRegion, Endpoint: cfg.DynamoEndpoint})
		if err != nil {
			return nil, err
		}
		w.Store = dynamostore.New(client, cfg.EstimatesTable)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	c, source, err := resolveCatalog(ctx, cfg, catalogs)
	if err != nil {
		_ = w.Close()
		return nil, err
	}
	log.Info("rate catalog loaded", zap.String("version", c.Version), zap.String("source", source))

	w.Catalog = c
	w.Service = quote.NewService(quote.NewEngine(c, addon.Default()), w.Store, log)
	return w, nil
}

// Close releases the store's resources.
func (w *Wire) Close() error {
	var errs []error
	for i := len(w.closers) - 1; i >= 0; i-- {
		errs = append(errs, w.closers[i]())
	}
	return errors.Join(errs...)
}

func openSQLite(ctx context.Context, path string, log *zap.Logger) (*sql.DB, error) {
	database, err := db.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := migrations.Up(ctx, database); err != nil {
		database.Close()
		return nil, err
	}
	stats, err := seed.Run(ctx, database, catalog.Builtins())
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("seed rate catalogs: %w", err)
	}
	if stats.Inserts > 0 {
		log.Info("rate catalogs seeded", zap.Int("inserts", stats.Inserts))
	}
	return database, nil
}

// resolveCatalog picks the active catalog: an explicit file, then the
// database's stored catalogs, then the builtins.
func resolveCatalog(ctx context.Context, cfg config.Config, stored *sqlitestore.Store) (*catalog.Catalog, string, error) {
	if cfg.CatalogFile != "" {
		data, err := os.ReadFile(cfg.CatalogFile)
		if err != nil {
			return nil, "", fmt.Errorf("read catalog file: %w", err)
		}
		c, err := catalog.Parse(data)
		if err != nil {
			return nil, "", fmt.Errorf("load catalog file %s: %w", cfg.CatalogFile, err)
		}
		return c, cfg.CatalogFile, nil
	}

	version := cfg.CatalogVersion
	if version == "" {
		version = catalog.DefaultVersion
	}
	if stored != nil {
		c, err := stored.LoadCatalog(ctx, version)
		if err != nil {
			return nil, "", err
		}
		return c, "database", nil
	}
	c, err := catalog.Lookup(version)
	if err != nil {
		return nil, "", err
	}
	return c, "builtin", nil
}
