// Package catalog holds the versioned rate tables the calculators are pinned to.
//
// A Catalog is treated as read-only once it has been validated. Builtin
// constructors return fresh values on every call, so callers never share maps.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/homequote/internal/apperr"
)

// SizeFees is a per-unit fee for each of the three size tiers.
type SizeFees struct {
	Small  decimal.Decimal `json:"small"`
	Medium decimal.Decimal `json:"medium"`
	Large  decimal.Decimal `json:"large"`
}

// HouseWashRates prices the exterior wash.
type HouseWashRates struct {
	MethodRates          map[CleaningMethod]decimal.Decimal `json:"method_rates"`
	SidingAdjustments    map[Siding]decimal.Decimal         `json:"siding_adjustments"`
	StoryMultipliers     map[Stories]decimal.Decimal        `json:"story_multipliers"`
	ComplexSidings       []Siding                           `json:"complex_sidings"`
	ComplexityMultiplier decimal.Decimal                    `json:"complexity_multiplier"`
	OverhangFees         SizeFees                           `json:"overhang_fees"`
	DeckFees             SizeFees                           `json:"deck_fees"`
	LadderSpotFee        decimal.Decimal                    `json:"ladder_spot_fee"`
	Floor                decimal.Decimal                    `json:"floor"`
}

// PestTier applies to treated areas from MinArea up to the next tier.
type PestTier struct {
	MinArea int                               `json:"min_area"`
	Rates   map[StructureType]decimal.Decimal `json:"rates"`
	Floors  map[StructureType]decimal.Decimal `json:"floors"`
}

// PestControlRates prices the pest control service.
type PestControlRates struct {
	Tiers                []PestTier                      `json:"tiers"`
	Severity             map[Infestation]decimal.Decimal `json:"severity"`
	FirstLadderSpot      decimal.Decimal                 `json:"first_ladder_spot"`
	AdditionalLadderSpot decimal.Decimal                 `json:"additional_ladder_spot"`
}

// RodentControlRates prices the rodent control service. The base fee covers
// IncludedStations bait stations.
type RodentControlRates struct {
	BaseFee            decimal.Decimal `json:"base_fee"`
	IncludedStations   int             `json:"included_stations"`
	ExtraStationFee    decimal.Decimal `json:"extra_station_fee"`
	InteriorMonitoring decimal.Decimal `json:"interior_monitoring"`
}

// WindowSideRates prices one side (exterior or interior) of window cleaning.
type WindowSideRates struct {
	Standard decimal.Decimal `json:"standard"`
	High     decimal.Decimal `json:"high"`
	Floor    decimal.Decimal `json:"floor"`
}

// WindowRates prices window cleaning.
type WindowRates struct {
	Exterior           WindowSideRates `json:"exterior"`
	Interior           WindowSideRates `json:"interior"`
	TracksSillsDefault decimal.Decimal `json:"tracks_sills_default"`
}

// RoofRate is the per-square-foot rate and floor for one roof material.
// AllowFloorOverride lets callers raise the floor for that material.
type RoofRate struct {
	Rate               decimal.Decimal `json:"rate"`
	Floor              decimal.Decimal `json:"floor"`
	AllowFloorOverride bool            `json:"allow_floor_override"`
}

// AddonRates prices the built-in add-on services.
type AddonRates struct {
	Roof               map[RoofMaterial]RoofRate `json:"roof"`
	GutterPerFoot      decimal.Decimal           `json:"gutter_per_foot"`
	GutterFloor        decimal.Decimal           `json:"gutter_floor"`
	BlowOffHourly      decimal.Decimal           `json:"blow_off_hourly"`
	SecondWorkerHourly decimal.Decimal           `json:"second_worker_hourly"`
	ConcretePerSqFt    decimal.Decimal           `json:"concrete_per_sqft"`
	DeckPerSqFt        decimal.Decimal           `json:"deck_per_sqft"`
}

// Catalog is one named, versioned set of rates.
type Catalog struct {
	Version       string             `json:"version"`
	HouseWash     HouseWashRates     `json:"house_wash"`
	PestControl   PestControlRates   `json:"pest_control"`
	RodentControl RodentControlRates `json:"rodent_control"`
	Windows       WindowRates        `json:"windows"`
	Addons        AddonRates         `json:"add_ons"`
}

func lookup[K ~string, V any](c *Catalog, table string, m map[K]V, key K) (V, error) {
	v, ok := m[key]
	if !ok {
		var zero V
		return zero, &apperr.ConfigError{Catalog: c.Version, Table: table, Key: string(key)}
	}
	return v, nil
}

// MethodRate returns the per-square-foot wash rate for a cleaning method.
func (c *Catalog) MethodRate(m CleaningMethod) (decimal.Decimal, error) {
	return lookup(c, "house_wash.method_rates", c.HouseWash.MethodRates, m)
}

// SidingAdjustment returns the per-square-foot adjustment for a siding type.
func (c *Catalog) SidingAdjustment(s Siding) (decimal.Decimal, error) {
	return lookup(c, "house_wash.siding_adjustments", c.HouseWash.SidingAdjustments, s)
}

// StoryMultiplier returns the multiplier for a story count.
func (c *Catalog) StoryMultiplier(s Stories) (decimal.Decimal, error) {
	return lookup(c, "house_wash.story_multipliers", c.HouseWash.StoryMultipliers, s)
}

// IsComplexSiding reports whether s triggers the complexity multiplier.
func (c *Catalog) IsComplexSiding(s Siding) bool {
	return contains(c.HouseWash.ComplexSidings, s)
}

// PestTierFor returns the tier an area falls in: the last tier whose
// MinArea is at or below area.
func (c *Catalog) PestTierFor(area int) (PestTier, error) {
	tiers := c.PestControl.Tiers
	for i := len(tiers) - 1; i >= 0; i-- {
		if area >= tiers[i].MinArea {
			return tiers[i], nil
		}
	}
	return PestTier{}, &apperr.ConfigError{Catalog: c.Version, Table: "pest_control.tiers", Key: fmt.Sprint(area)}
}

// PestRate returns the per-square-foot rate of a tier for a structure type.
func (c *Catalog) PestRate(t PestTier, s StructureType) (decimal.Decimal, error) {
	return lookup(c, "pest_control.tiers.rates", t.Rates, s)
}

// PestFloor returns the floor of a tier for a structure type.
func (c *Catalog) PestFloor(t PestTier, s StructureType) (decimal.Decimal, error) {
	return lookup(c, "pest_control.tiers.floors", t.Floors, s)
}

// Severity returns the flat adder for an infestation level.
func (c *Catalog) Severity(i Infestation) (decimal.Decimal, error) {
	return lookup(c, "pest_control.severity", c.PestControl.Severity, i)
}

// Roof returns the rates for a roof material.
func (c *Catalog) Roof(m RoofMaterial) (RoofRate, error) {
	return lookup(c, "add_ons.roof", c.Addons.Roof, m)
}

// Validate checks the catalog invariants: non-negative floors and rates,
// strictly increasing tier breakpoints starting at zero, story multipliers
// increasing with story count, and enum tables covering their whole domain.
// All problems are reported together.
func (c *Catalog) Validate() error {
	v := &validator{c: c}

	if c.Version == "" {
		v.fail(errors.New("version is required"))
	}

	hw := c.HouseWash
	coverage(v, "house_wash.method_rates", hw.MethodRates, CleaningMethods())
	coverage(v, "house_wash.siding_adjustments", hw.SidingAdjustments, Sidings())
	coverage(v, "house_wash.story_multipliers", hw.StoryMultipliers, AllStories())
	for _, s := range hw.ComplexSidings {
		if !s.Valid() {
			v.fail(fmt.Errorf("house_wash.complex_sidings: unknown siding %q", s))
		}
	}
	prev := decimal.Zero
	for _, s := range AllStories() {
		m, ok := hw.StoryMultipliers[s]
		if !ok {
			continue
		}
		if !m.GreaterThan(prev) {
			v.fail(fmt.Errorf("house_wash.story_multipliers: %s must exceed the previous story count", s))
		}
		prev = m
	}
	if hw.ComplexityMultiplier.LessThan(decimal.NewFromInt(1)) {
		v.fail(errors.New("house_wash.complexity_multiplier must be at least 1"))
	}
	v.nonNegative("house_wash.overhang_fees", hw.OverhangFees.Small, hw.OverhangFees.Medium, hw.OverhangFees.Large)
	v.nonNegative("house_wash.deck_fees", hw.DeckFees.Small, hw.DeckFees.Medium, hw.DeckFees.Large)
	v.nonNegative("house_wash.ladder_spot_fee", hw.LadderSpotFee)
	v.nonNegative("house_wash.floor", hw.Floor)

	pc := c.PestControl
	if len(pc.Tiers) == 0 {
		v.fail(errors.New("pest_control.tiers: at least one tier is required"))
	}
	for i, t := range pc.Tiers {
		if i == 0 && t.MinArea != 0 {
			v.fail(errors.New("pest_control.tiers: first tier must start at 0"))
		}
		if i > 0 && t.MinArea <= pc.Tiers[i-1].MinArea {
			v.fail(fmt.Errorf("pest_control.tiers: breakpoint %d is not above %d", t.MinArea, pc.Tiers[i-1].MinArea))
		}
		coverage(v, "pest_control.tiers.rates", t.Rates, StructureTypes())
		coverage(v, "pest_control.tiers.floors", t.Floors, StructureTypes())
		for _, r := range t.Rates {
			v.nonNegative("pest_control.tiers.rates", r)
		}
		for _, f := range t.Floors {
			v.nonNegative("pest_control.tiers.floors", f)
		}
	}
	coverage(v, "pest_control.severity", pc.Severity, Infestations())
	v.nonNegative("pest_control.ladder", pc.FirstLadderSpot, pc.AdditionalLadderSpot)

	rc := c.RodentControl
	v.nonNegative("rodent_control", rc.BaseFee, rc.ExtraStationFee, rc.InteriorMonitoring)
	if rc.IncludedStations < 0 {
		v.fail(errors.New("rodent_control.included_stations must not be negative"))
	}

	w := c.Windows
	v.nonNegative("windows.exterior", w.Exterior.Standard, w.Exterior.High, w.Exterior.Floor)
	v.nonNegative("windows.interior", w.Interior.Standard, w.Interior.High, w.Interior.Floor)
	v.nonNegative("windows.tracks_sills_default", w.TracksSillsDefault)

	a := c.Addons
	coverage(v, "add_ons.roof", a.Roof, RoofMaterials())
	for _, r := range a.Roof {
		v.nonNegative("add_ons.roof", r.Rate, r.Floor)
	}
	v.nonNegative("add_ons", a.GutterPerFoot, a.GutterFloor, a.BlowOffHourly, a.SecondWorkerHourly, a.ConcretePerSqFt, a.DeckPerSqFt)

	if len(v.errs) == 0 {
		return nil
	}
	return fmt.Errorf("invalid catalog %q: %w", c.Version, errors.Join(v.errs...))
}

type validator struct {
	c    *Catalog
	errs []error
}

func (v *validator) fail(err error) { v.errs = append(v.errs, err) }

func (v *validator) nonNegative(field string, values ...decimal.Decimal) {
	for _, d := range values {
		if d.IsNegative() {
			v.fail(fmt.Errorf("%s: %s must not be negative", field, d))
		}
	}
}

func coverage[K ~string, V any](v *validator, table string, m map[K]V, domain []K) {
	for _, k := range domain {
		if _, ok := m[k]; !ok {
			v.fail(&apperr.ConfigError{Catalog: v.c.Version, Table: table, Key: string(k)})
		}
	}
}

// Parse decodes a catalog document and validates it.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Marshal encodes c as an indented catalog document accepted by Parse.
func (c *Catalog) Marshal() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}
