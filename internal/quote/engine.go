package quote

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Simplici0/homequote/internal/addon"
	"github.com/Simplici0/homequote/internal/apperr"
	"github.com/Simplici0/homequote/internal/catalog"
	"github.com/Simplici0/homequote/internal/pricing"
)

// Engine prices quotes against one catalog and add-on registry. It holds no
// mutable state and may be shared.
type Engine struct {
	catalog *catalog.Catalog
	addons  *addon.Registry
	now     func() time.Time
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithClock overrides the time source used for ComputedAt.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// NewEngine returns an engine for c and r.
func NewEngine(c *catalog.Catalog, r *addon.Registry, opts ...EngineOption) *Engine {
	e := &Engine{catalog: c, addons: r, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the catalog the engine prices against.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// Addons returns the engine's add-on registry.
func (e *Engine) Addons() *addon.Registry { return e.addons }

// Price computes line items and total without building a quote.
func (e *Engine) Price(in Inputs) ([]pricing.LineItem, decimal.Decimal, error) {
	c := e.catalog

	houseWash, err := pricing.HouseWash(in.HouseWash, c)
	if err != nil {
		return nil, decimal.Zero, err
	}
	pest, err := pricing.PestControl(in.PestControl, c)
	if err != nil {
		return nil, decimal.Zero, err
	}
	rodent, err := pricing.RodentControl(in.RodentControl, c)
	if err != nil {
		return nil, decimal.Zero, err
	}
	windows, err := pricing.Windows(in.Windows, c)
	if err != nil {
		return nil, decimal.Zero, err
	}
	mandatory := []pricing.LineItem{houseWash, pest, rodent, windows}

	extras, err := e.addons.PriceAll(in.AddOns, c)
	if err != nil {
		return nil, decimal.Zero, err
	}

	total, err := Aggregate(mandatory, extras)
	if err != nil {
		return nil, decimal.Zero, err
	}
	return append(mandatory, extras...), total, nil
}

// Compute prices a new quote. Nothing is returned unless every line item
// prices successfully.
func (e *Engine) Compute(key string, customer Customer, in Inputs) (Quote, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Quote{}, apperr.Invalid("key", "account name is required")
	}
	return e.build(uuid.New(), key, customer, in)
}

// Recompute prices prev again from in against the engine's catalog. The
// quote ID, key and customer carry over; everything else is recalculated.
// prev is not modified.
func (e *Engine) Recompute(prev Quote, in Inputs) (Quote, error) {
	id := prev.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	return e.build(id, prev.Key, prev.Customer, in)
}

func (e *Engine) build(id uuid.UUID, key string, customer Customer, in Inputs) (Quote, error) {
	items, total, err := e.Price(in)
	if err != nil {
		return Quote{}, err
	}
	return Quote{
		ID:             id,
		Key:            key,
		Customer:       customer,
		Inputs:         cloneInputs(in),
		CatalogVersion: e.catalog.Version,
		LineItems:      items,
		Total:          total,
		ComputedAt:     e.now().UTC(),
	}, nil
}

func cloneInputs(in Inputs) Inputs {
	out := in
	if in.Windows.TracksSills != nil {
		v := *in.Windows.TracksSills
		out.Windows.TracksSills = &v
	}
	if in.AddOns != nil {
		out.AddOns = make([]addon.Request, len(in.AddOns))
		for i, req := range in.AddOns {
			out.AddOns[i] = addon.Request{Kind: req.Kind, Payload: append([]byte(nil), req.Payload...)}
		}
	}
	return out
}
