package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/Simplici0/homequote/internal/apperr"
	"github.com/Simplici0/homequote/internal/catalog"
)

// SizeCounts counts small, medium and large units of one feature.
type SizeCounts struct {
	Small  int `json:"small"`
	Medium int `json:"medium"`
	Large  int `json:"large"`
}

func (s SizeCounts) validate(field string) error {
	if s.Small < 0 || s.Medium < 0 || s.Large < 0 {
		return apperr.Invalid(field, "counts must not be negative")
	}
	return nil
}

// HouseWashInput describes an exterior wash.
type HouseWashInput struct {
	Area        int                    `json:"sq_ft"`
	Stories     catalog.Stories        `json:"stories"`
	Siding      catalog.Siding         `json:"siding"`
	Cleaning    catalog.CleaningMethod `json:"cleaning"`
	Overhangs   SizeCounts             `json:"overhangs"`
	Decks       SizeCounts             `json:"decks"`
	LadderSpots int                    `json:"ladder_spots"`
}

// Validate checks domain rules that do not depend on a catalog.
func (in HouseWashInput) Validate() error {
	if in.Area <= 0 {
		return apperr.Invalid("house_wash.sq_ft", "must be greater than 0")
	}
	if !in.Stories.Valid() {
		return apperr.Invalid("house_wash.stories", "unknown story count %q", in.Stories)
	}
	if !in.Siding.Valid() {
		return apperr.Invalid("house_wash.siding", "unknown siding %q", in.Siding)
	}
	if !in.Cleaning.Valid() {
		return apperr.Invalid("house_wash.cleaning", "unknown cleaning method %q", in.Cleaning)
	}
	if err := in.Overhangs.validate("house_wash.overhangs"); err != nil {
		return err
	}
	if err := in.Decks.validate("house_wash.decks"); err != nil {
		return err
	}
	if in.LadderSpots < 0 {
		return apperr.Invalid("house_wash.ladder_spots", "must not be negative")
	}
	return nil
}

// PestControlInput describes a pest control treatment.
type PestControlInput struct {
	Area        int                   `json:"sq_ft"`
	Structure   catalog.StructureType `json:"structure"`
	Infestation catalog.Infestation   `json:"infestation"`
	LadderSpots int                   `json:"ladder_spots"`
}

// Validate checks domain rules that do not depend on a catalog.
func (in PestControlInput) Validate() error {
	if in.Area <= 0 {
		return apperr.Invalid("pest_control.sq_ft", "must be greater than 0")
	}
	if !in.Structure.Valid() {
		return apperr.Invalid("pest_control.structure", "unknown structure type %q", in.Structure)
	}
	if !in.Infestation.Valid() {
		return apperr.Invalid("pest_control.infestation", "unknown infestation level %q", in.Infestation)
	}
	if in.LadderSpots < 0 {
		return apperr.Invalid("pest_control.ladder_spots", "must not be negative")
	}
	return nil
}

// RodentControlInput describes a rodent bait station program.
type RodentControlInput struct {
	Stations           int  `json:"stations"`
	InteriorMonitoring bool `json:"interior_monitoring"`
}

// Validate checks domain rules that do not depend on a catalog.
func (in RodentControlInput) Validate() error {
	if in.Stations < 0 {
		return apperr.Invalid("rodent_control.stations", "must not be negative")
	}
	return nil
}

// WindowInput describes window cleaning.
//
// TracksSills left nil uses the catalog default. An explicit zero is only
// honored when WaiveTracksSills confirms it; otherwise it also means default.
// WaiveTracksSills with TracksSills unset or non-zero is rejected.
type WindowInput struct {
	ExteriorStandard int              `json:"ext_standard"`
	ExteriorHigh     int              `json:"ext_high"`
	InteriorStandard int              `json:"int_standard"`
	InteriorHigh     int              `json:"int_high"`
	TracksSills      *decimal.Decimal `json:"tracks_sills,omitempty"`
	WaiveTracksSills bool             `json:"waive_tracks_sills,omitempty"`
}

// Validate checks domain rules that do not depend on a catalog.
func (in WindowInput) Validate() error {
	if in.ExteriorStandard < 0 || in.ExteriorHigh < 0 {
		return apperr.Invalid("windows.exterior", "counts must not be negative")
	}
	if in.InteriorStandard < 0 || in.InteriorHigh < 0 {
		return apperr.Invalid("windows.interior", "counts must not be negative")
	}
	if in.TracksSills != nil && in.TracksSills.IsNegative() {
		return apperr.Invalid("windows.tracks_sills", "must not be negative")
	}
	if in.WaiveTracksSills && (in.TracksSills == nil || !in.TracksSills.IsZero()) {
		return apperr.Invalid("windows.waive_tracks_sills", "requires tracks_sills set to 0")
	}
	return nil
}

// Equal reports whether two window inputs carry the same values.
func (in WindowInput) Equal(o WindowInput) bool {
	if in.ExteriorStandard != o.ExteriorStandard || in.ExteriorHigh != o.ExteriorHigh ||
		in.InteriorStandard != o.InteriorStandard || in.InteriorHigh != o.InteriorHigh ||
		in.WaiveTracksSills != o.WaiveTracksSills {
		return false
	}
	if in.TracksSills == nil || o.TracksSills == nil {
		return in.TracksSills == nil && o.TracksSills == nil
	}
	return in.TracksSills.Equal(*o.TracksSills)
}
