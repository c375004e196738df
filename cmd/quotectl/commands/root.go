package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Simplici0/homequote/internal/app"
	"github.com/Simplici0/homequote/internal/config"
	"github.com/Simplici0/homequote/internal/logging"
	"github.com/Simplici0/homequote/internal/quote"
)

type cli struct {
	envFile        string
	store          string
	dbPath         string
	estimatesFile  string
	catalogVersion string
	catalogFile    string
	verbose        bool
	asJSON         bool

	cfg  config.Config
	log  *zap.Logger
	wire *app.Wire
}

// document is the file format read by price and estimates save.
type document struct {
	Customer quote.Customer `json:"customer"`
	Inputs   quote.Inputs   `json:"inputs"`
}

// Execute runs the CLI with os.Args.
func Execute() error {
	root, c := newRootCmd()
	err := root.Execute()
	return errors.Join(err, c.close())
}

func newRootCmd() (*cobra.Command, *cli) {
	c := &cli{}

	root := &cobra.Command{
		Use:          "quotectl",
		Short:        "Price and manage home-service estimates",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "dotenv file to load")
	root.PersistentFlags().StringVar(&c.store, "store", "", "store backend: sqlite, file or dynamodb")
	root.PersistentFlags().StringVar(&c.dbPath, "db", "", "sqlite database path")
	root.PersistentFlags().StringVar(&c.estimatesFile, "estimates-file", "", "JSON estimates file for the file backend")
	root.PersistentFlags().StringVar(&c.catalogVersion, "catalog-version", "", "rate catalog version")
	root.PersistentFlags().StringVar(&c.catalogFile, "catalog-file", "", "rate catalog document to price with")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log to stderr")
	root.PersistentFlags().BoolVar(&c.asJSON, "json", false, "print JSON instead of text")

	root.AddCommand(c.priceCmd(), c.catalogCmd(), c.estimatesCmd())
	return root, c
}

// setup loads configuration and wires the service once per invocation.
func (c *cli) setup(ctx context.Context) error {
	if c.wire != nil {
		return nil
	}

	cfg, err := config.LoadFile(c.envFile)
	if err != nil {
		return err
	}
	if c.store != "" {
		cfg.StoreBackend = c.store
	}
	if c.dbPath != "" {
		cfg.DBPath = c.dbPath
	}
	if c.estimatesFile != "" {
		cfg.EstimatesFile = c.estimatesFile
	}
	if c.catalogVersion != "" {
		cfg.CatalogVersion = c.catalogVersion
	}
	if c.catalogFile != "" {
		cfg.CatalogFile = c.catalogFile
	}

	level := "warn"
	if c.verbose {
		level = "debug"
	}
	log, err := logging.New(cfg.IsDev(), level)
	if err != nil {
		return err
	}

	wire, err := app.NewWire(ctx, cfg, log)
	if err != nil {
		return err
	}
	c.cfg, c.log, c.wire = cfg, log, wire
	return nil
}

func (c *cli) close() error {
	if c.wire == nil {
		return nil
	}
	err := c.wire.Close()
	_ = c.log.Sync()
	c.wire = nil
	return err
}

func readDocument(path string) (document, error) {
	var doc document
	if path == "" {
		return doc, fmt.Errorf("input file required (-f)")
	}

	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return doc, err
		}
		defer f.Close()
		r = f
	}

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return doc, fmt.Errorf("decode %s: %w", path, err)
	}
	return doc, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *cli) printQuote(w io.Writer, q quote.Quote) error {
	if c.asJSON {
		return printJSON(w, q)
	}
	return quote.WriteText(w, q)
}
