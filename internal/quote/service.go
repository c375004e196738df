package quote

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Simplici0/homequote/internal/apperr"
)

// Service computes quotes and keeps their records in a Store.
type Service struct {
	engine *Engine
	store  Store
	log    *zap.Logger
}

// NewService wires an engine to a store. A nil logger disables logging.
func NewService(engine *Engine, store Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{engine: engine, store: store, log: log}
}

// Engine returns the engine used for pricing.
func (s *Service) Engine() *Engine { return s.engine }

// Save prices a quote for key and upserts its record. An existing record for
// key keeps its quote ID.
func (s *Service) Save(ctx context.Context, key string, customer Customer, in Inputs) (Quote, error) {
	q, err := s.engine.Compute(key, customer, in)
	if err != nil {
		return Quote{}, err
	}

	prev, err := s.store.Get(ctx, q.Key)
	switch {
	case err == nil:
		if old, derr := Deserialize(prev); derr == nil {
			q.ID = old.ID
		}
	case errors.Is(err, apperr.ErrNotFound):
	default:
		return Quote{}, fmt.Errorf("load estimate %q: %w", q.Key, err)
	}

	if err := s.put(ctx, q); err != nil {
		return Quote{}, err
	}
	s.log.Info("estimate saved",
		zap.String("key", q.Key),
		zap.String("quote_id", q.ID.String()),
		zap.String("total", q.Total.StringFixed(2)),
		zap.String("catalog_version", q.CatalogVersion),
		zap.Int("line_items", len(q.LineItems)),
	)
	return q, nil
}

// Load returns the stored quote for key. A record that fails to decode is
// an *apperr.CorruptRecordError.
func (s *Service) Load(ctx context.Context, key string) (Quote, error) {
	r, err := s.store.Get(ctx, key)
	if err != nil {
		return Quote{}, fmt.Errorf("load estimate %q: %w", key, err)
	}
	q, err := Deserialize(r)
	if err != nil {
		return Quote{}, &apperr.CorruptRecordError{Key: r.Key, Err: err}
	}
	return q, nil
}

// List returns a summary of every stored estimate. Records that fail to
// decode are skipped and logged.
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list estimates: %w", err)
	}
	out := make([]Summary, 0, len(records))
	for _, r := range records {
		sum, err := Summarize(r)
		if err != nil {
			s.log.Warn("skipping unreadable estimate", zap.String("key", r.Key), zap.Error(err))
			continue
		}
		out = append(out, sum)
	}
	return out, nil
}

// Recompute reloads the estimate for key, prices it again against the
// engine's catalog, and stores the result. A nil in reuses the saved inputs.
func (s *Service) Recompute(ctx context.Context, key string, in *Inputs) (Quote, error) {
	prev, err := s.Load(ctx, key)
	if err != nil {
		return Quote{}, err
	}
	inputs := prev.Inputs
	if in != nil {
		inputs = *in
	}

	q, err := s.engine.Recompute(prev, inputs)
	if err != nil {
		return Quote{}, err
	}
	if err := s.put(ctx, q); err != nil {
		return Quote{}, err
	}
	s.log.Info("estimate recomputed",
		zap.String("key", q.Key),
		zap.String("previous_total", prev.Total.StringFixed(2)),
		zap.String("total", q.Total.StringFixed(2)),
		zap.String("previous_catalog_version", prev.CatalogVersion),
		zap.String("catalog_version", q.CatalogVersion),
	)
	return q, nil
}

// Delete removes the estimate for key.
func (s *Service) Delete(ctx context.Context, key string) error {
	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete estimate %q: %w", key, err)
	}
	s.log.Info("estimate deleted", zap.String("key", key))
	return nil
}

func (s *Service) put(ctx context.Context, q Quote) error {
	r, err := Serialize(q)
	if err != nil {
		return err
	}
	if err := s.store.Upsert(ctx, r); err != nil {
		return fmt.Errorf("save estimate %q: %w", q.Key, err)
	}
	return nil
}
