package addon

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/homequote/internal/apperr"
	"github.com/Simplici0/homequote/internal/catalog"
	"github.com/Simplici0/homequote/internal/pricing"
)

// Built-in add-on kinds.
const (
	KindRoofTreatment    Kind = "roof_treatment"
	KindGutterCleaning   Kind = "gutter_cleaning"
	KindRoofBlowOff      Kind = "roof_blow_off"
	KindConcreteCleaning Kind = "concrete_cleaning"
	KindDeckCleaning     Kind = "deck_cleaning"
	KindCustom           Kind = "custom"
)

// RoofTreatment is charged per square foot at the material's rate. For
// materials that allow it, FloorOverride raises the floor; it never lowers
// it below the catalog floor.
type RoofTreatment struct {
	Material      catalog.RoofMaterial `json:"material"`
	Area          int                  `json:"sq_ft"`
	FloorOverride *decimal.Decimal     `json:"floor_override,omitempty"`
}

// AddonKind returns KindRoofTreatment.
func (RoofTreatment) AddonKind() Kind { return KindRoofTreatment }

// GutterCleaning is charged per linear foot.
type GutterCleaning struct {
	LinearFeet int `json:"linear_ft"`
}

// AddonKind returns KindGutterCleaning.
func (GutterCleaning) AddonKind() Kind { return KindGutterCleaning }

// RoofBlowOff is billed by the hour, with an hourly surcharge for a second worker.
type RoofBlowOff struct {
	Hours       decimal.Decimal `json:"hours"`
	ExtraWorker bool            `json:"extra_worker"`
}

// AddonKind returns KindRoofBlowOff.
func (RoofBlowOff) AddonKind() Kind { return KindRoofBlowOff }

// ConcreteCleaning is charged per square foot.
type ConcreteCleaning struct {
	Area int `json:"sq_ft"`
}

// AddonKind returns KindConcreteCleaning.
func (ConcreteCleaning) AddonKind() Kind { return KindConcreteCleaning }

// DeckCleaning covers decks and docks, charged per square foot.
type DeckCleaning struct {
	Area int `json:"sq_ft"`
}

// AddonKind returns KindDeckCleaning.
func (DeckCleaning) AddonKind() Kind { return KindDeckCleaning }

// Custom is a caller-priced line item. The price is rounded to cents.
type Custom struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// AddonKind returns KindCustom.
func (Custom) AddonKind() Kind { return KindCustom }

// Default returns a registry with every built-in kind.
func Default() *Registry {
	r := NewRegistry()
	Register(r, KindRoofTreatment, validateRoof, priceRoof)
	Register(r, KindGutterCleaning, validateGutter, priceGutter)
	Register(r, KindRoofBlowOff, validateBlowOff, priceBlowOff)
	Register(r, KindConcreteCleaning,
		func(p ConcreteCleaning) error { return positiveArea(KindConcreteCleaning, p.Area) },
		func(p ConcreteCleaning, c *catalog.Catalog) (pricing.LineItem, error) {
			return perArea(KindConcreteCleaning, "concrete cleaning", p.Area, c.Addons.ConcretePerSqFt, c), nil
		})
	Register(r, KindDeckCleaning,
		func(p DeckCleaning) error { return positiveArea(KindDeckCleaning, p.Area) },
		func(p DeckCleaning, c *catalog.Catalog) (pricing.LineItem, error) {
			return perArea(KindDeckCleaning, "deck/dock cleaning", p.Area, c.Addons.DeckPerSqFt, c), nil
		})
	Register(r, KindCustom, validateCustom, priceCustom)
	return r
}

func item(kind Kind, name string, price decimal.Decimal, c *catalog.Catalog) pricing.LineItem {
	return pricing.LineItem{Kind: string(kind), Name: name, Price: price, CatalogVersion: c.Version}
}

func positiveArea(kind Kind, area int) error {
	if area <= 0 {
		return apperr.Invalid(string(kind)+".sq_ft", "must be greater than 0")
	}
	return nil
}

func validateRoof(p RoofTreatment) error {
	if !p.Material.Valid() {
		return apperr.Invalid("roof_treatment.material", "unknown roof material %q", p.Material)
	}
	if err := positiveArea(KindRoofTreatment, p.Area); err != nil {
		return err
	}
	if p.FloorOverride != nil && p.FloorOverride.IsNegative() {
		return apperr.Invalid("roof_treatment.floor_override", "must not be negative")
	}
	return nil
}

func priceRoof(p RoofTreatment, c *catalog.Catalog) (pricing.LineItem, error) {
	rate, err := c.Roof(p.Material)
	if err != nil {
		return pricing.LineItem{}, err
	}

	floor := rate.Floor
	if p.FloorOverride != nil {
		if !rate.AllowFloorOverride {
			return pricing.LineItem{}, apperr.Invalid("roof_treatment.floor_override", "not allowed for %s roofs", p.Material)
		}
		floor = decimal.Max(floor, *p.FloorOverride)
	}

	raw := rate.Rate.Mul(decimal.NewFromInt(int64(p.Area)))
	return item(KindRoofTreatment, "roof treatment", pricing.Clamp(raw, floor), c), nil
}

func validateGutter(p GutterCleaning) error {
	if p.LinearFeet <= 0 {
		return apperr.Invalid("gutter_cleaning.linear_ft", "must be greater than 0")
	}
	return nil
}

func priceGutter(p GutterCleaning, c *catalog.Catalog) (pricing.LineItem, error) {
	raw := c.Addons.GutterPerFoot.Mul(decimal.NewFromInt(int64(p.LinearFeet)))
	return item(KindGutterCleaning, "gutter cleaning", pricing.Clamp(raw, c.Addons.GutterFloor), c), nil
}

func validateBlowOff(p RoofBlowOff) error {
	if !p.Hours.IsPositive() {
		return apperr.Invalid("roof_blow_off.hours", "must be greater than 0")
	}
	return nil
}

func priceBlowOff(p RoofBlowOff, c *catalog.Catalog) (pricing.LineItem, error) {
	total := p.Hours.Mul(c.Addons.BlowOffHourly)
	if p.ExtraWorker {
		total = total.Add(p.Hours.Mul(c.Addons.SecondWorkerHourly))
	}
	return item(KindRoofBlowOff, "roof blow-off", pricing.Round(total), c), nil
}

func perArea(kind Kind, name string, area int, rate decimal.Decimal, c *catalog.Catalog) pricing.LineItem {
	return item(kind, name, pricing.Round(rate.Mul(decimal.NewFromInt(int64(area)))), c)
}

func validateCustom(p Custom) error {
	if strings.TrimSpace(p.Name) == "" {
		return apperr.Invalid("custom.name", "is required")
	}
	if !pricing.Round(p.Price).IsPositive() {
		return apperr.Invalid("custom.price", "must be at least 0.01")
	}
	return nil
}

func priceCustom(p Custom, c *catalog.Catalog) (pricing.LineItem, error) {
	return item(KindCustom, strings.TrimSpace(p.Name), pricing.Round(p.Price), c), nil
}
