// Package addon prices optional services through a registry keyed by kind.
//
// Each kind owns a payload type, a validator and a pricer. New kinds are added
// with Register; nothing else in the quote pipeline changes.
package addon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/Simplici0/homequote/internal/apperr"
	"github.com/Simplici0/homequote/internal/catalog"
	"github.com/Simplici0/homequote/internal/pricing"
)

// Kind identifies an add-on service.
type Kind string

// Payload is the typed input of one add-on kind.
type Payload interface {
	AddonKind() Kind
}

// Request is an add-on selection as submitted: the kind plus its JSON payload.
type Request struct {
	Kind    Kind            `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// NewRequest encodes p into a request for its kind.
func NewRequest(p Payload) (Request, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return Request{}, fmt.Errorf("encode %s payload: %w", p.AddonKind(), err)
	}
	return Request{Kind: p.AddonKind(), Payload: raw}, nil
}

// MustRequest is NewRequest for payloads known to encode.
func MustRequest(p Payload) Request {
	req, err := NewRequest(p)
	if err != nil {
		panic(err)
	}
	return req
}

// Equal reports whether two requests carry the same kind and payload,
// ignoring insignificant whitespace in the payload.
func (r Request) Equal(o Request) bool {
	return r.Kind == o.Kind && bytes.Equal(compact(r.Payload), compact(o.Payload))
}

func compact(raw json.RawMessage) []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	return buf.Bytes()
}

type entry struct {
	decode   func(json.RawMessage) (Payload, error)
	validate func(Payload) error
	price    func(Payload, *catalog.Catalog) (pricing.LineItem, error)
}

// Registry maps add-on kinds to their schema and pricing rule. Registration
// happens at startup; pricing only reads the registry, so a populated
// Registry may be shared by concurrent callers.
type Registry struct {
	entries map[Kind]entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[Kind]entry)}
}

// Register adds or replaces the rule for kind. Payloads for kind are decoded
// into P, checked by validate and priced by price.
func Register[P Payload](r *Registry, kind Kind, validate func(P) error, price func(P, *catalog.Catalog) (pricing.LineItem, error)) {
	r.entries[kind] = entry{
		decode: func(raw json.RawMessage) (Payload, error) {
			var p P
			dec := json.NewDecoder(bytes.NewReader(raw))
			dec.DisallowUnknownFields()
			if err := dec.Decode(&p); err != nil {
				return nil, apperr.Invalid(string(kind), "invalid payload: %v", err)
			}
			return p, nil
		},
		validate: func(p Payload) error { return validate(p.(P)) },
		price:    func(p Payload, c *catalog.Catalog) (pricing.LineItem, error) { return price(p.(P), c) },
	}
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []Kind {
	kinds := make([]Kind, 0, len(r.entries))
	for k := range r.entries {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Decode returns the validated typed payload of req.
func (r *Registry) Decode(req Request) (Payload, error) {
	e, ok := r.entries[req.Kind]
	if !ok {
		return nil, &apperr.UnsupportedAddonError{Kind: string(req.Kind)}
	}
	if len(bytes.TrimSpace(req.Payload)) == 0 || bytes.Equal(bytes.TrimSpace(req.Payload), []byte("null")) {
		return nil, apperr.Invalid(string(req.Kind), "payload is required")
	}
	p, err := e.decode(req.Payload)
	if err != nil {
		return nil, err
	}
	if err := e.validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Price validates req and prices it against c. Pricing one add-on never
// depends on any other line item.
func (r *Registry) Price(req Request, c *catalog.Catalog) (pricing.LineItem, error) {
	p, err := r.Decode(req)
	if err != nil {
		return pricing.LineItem{}, err
	}
	item, err := r.entries[req.Kind].price(p, c)
	if err != nil {
		return pricing.LineItem{}, err
	}
	return item, nil
}

// PriceAll prices every request in order. It returns no line items if any
// request fails.
func (r *Registry) PriceAll(reqs []Request, c *catalog.Catalog) ([]pricing.LineItem, error) {
	items := make([]pricing.LineItem, 0, len(reqs))
	for i, req := range reqs {
		item, err := r.Price(req, c)
		if err != nil {
			return nil, fmt.Errorf("add-on %d (%s): %w", i, req.Kind, err)
		}
		items = append(items, item)
	}
	return items, nil
}
