package catalog

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/homequote/internal/apperr"
)

func TestBuiltinsValidate(t *testing.T) {
	for _, c := range Builtins() {
		if err := c.Validate(); err != nil {
			t.Fatalf("builtin %s: %v", c.Version, err)
		}
	}
}

func TestLookup(t *testing.T) {
	c, err := Lookup(LegacyVersion)
	if err != nil {
		t.Fatalf("lookup legacy: %v", err)
	}
	if c.Version != LegacyVersion {
		t.Fatalf("version = %q, want %q", c.Version, LegacyVersion)
	}

	if _, err := Lookup("1999.9"); !errors.Is(err, ErrUnknownVersion) {
		t.Fatalf("expected ErrUnknownVersion, got %v", err)
	}
}

func TestBuiltinsDoNotShareMaps(t *testing.T) {
	a := Default()
	a.HouseWash.MethodRates[CleaningSoapScrub] = decimal.NewFromInt(9)

	b := Default()
	if !b.HouseWash.MethodRates[CleaningSoapScrub].Equal(decimal.RequireFromString("0.18")) {
		t.Fatalf("mutating one catalog leaked into another")
	}
}

func TestParse_RoundTripsMarshal(t *testing.T) {
	raw, err := Default().Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	c, err := Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	rate, err := c.MethodRate(CleaningSoftWash)
	if err != nil {
		t.Fatalf("method rate: %v", err)
	}
	if !rate.Equal(decimal.RequireFromString("0.20")) {
		t.Fatalf("SH rate = %s, want 0.20", rate)
	}
	if len(c.PestControl.Tiers) != 2 || c.PestControl.Tiers[1].MinArea != 4000 {
		t.Fatalf("unexpected tiers: %+v", c.PestControl.Tiers)
	}
}

func TestParse_RejectsMalformedJSON(t *testing.T) {
	if _, err := Parse([]byte(`{"version":`)); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestValidate_MissingEnumEntryIsConfigError(t *testing.T) {
	c := Default()
	delete(c.HouseWash.SidingAdjustments, SidingVinyl)

	err := c.Validate()
	var ce *apperr.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if ce.Key != string(SidingVinyl) {
		t.Fatalf("ConfigError key = %q, want %q", ce.Key, SidingVinyl)
	}
}

func TestValidate_RejectsNegativeFloor(t *testing.T) {
	c := Default()
	c.Windows.Interior.Floor = decimal.NewFromInt(-1)

	if err := c.Validate(); err == nil {
		t.Fatalf("expected negative floor to be rejected")
	}
}

func TestValidate_RejectsNonIncreasingTiers(t *testing.T) {
	c := Default()
	c.PestControl.Tiers[1].MinArea = 0

	if err := c.Validate(); err == nil {
		t.Fatalf("expected duplicate breakpoint to be rejected")
	}
}

func TestValidate_RejectsFirstTierAboveZero(t *testing.T) {
	c := Default()
	c.PestControl.Tiers[0].MinArea = 10

	if err := c.Validate(); err == nil {
		t.Fatalf("expected first tier above zero to be rejected")
	}
}

func TestValidate_RejectsDecreasingStoryMultiplier(t *testing.T) {
	c := Default()
	c.HouseWash.StoryMultipliers[Stories3] = decimal.RequireFromString("1.10")

	if err := c.Validate(); err == nil {
		t.Fatalf("expected non-increasing story multiplier to be rejected")
	}
}

func TestLookupHelpers_MissingKeyIsConfigError(t *testing.T) {
	c := Default()
	delete(c.PestControl.Severity, InfestationHeavy)

	if _, err := c.Severity(InfestationHeavy); !apperr.IsConfig(err) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if _, err := c.Roof(RoofMaterial("Slate")); !apperr.IsConfig(err) {
		t.Fatalf("expected ConfigError for unknown roof, got %v", err)
	}
}

func TestPestTierFor(t *testing.T) {
	c := Default()

	cases := []struct {
		area    int
		minArea int
	}{
		{area: 0, minArea: 0},
		{area: 3999, minArea: 0},
		{area: 4000, minArea: 4000},
		{area: 12000, minArea: 4000},
	}
	for _, tc := range cases {
		tier, err := c.PestTierFor(tc.area)
		if err != nil {
			t.Fatalf("area %d: %v", tc.area, err)
		}
		if tier.MinArea != tc.minArea {
			t.Fatalf("area %d: tier starts at %d, want %d", tc.area, tier.MinArea, tc.minArea)
		}
	}
}

func TestIsComplexSiding(t *testing.T) {
	c := Default()
	for _, s := range Sidings() {
		want := s == SidingShiplap || s == SidingLog
		if got := c.IsComplexSiding(s); got != want {
			t.Fatalf("IsComplexSiding(%s) = %v, want %v", s, got, want)
		}
	}
}

func TestEnumValid(t *testing.T) {
	if Siding("Stucco").Valid() {
		t.Fatalf("Stucco should not be a declared siding")
	}
	if !Stories2_5.Valid() || Stories("4").Valid() {
		t.Fatalf("unexpected story validity")
	}
	if !InfestationMedium.Valid() || Infestation("extreme").Valid() {
		t.Fatalf("unexpected infestation validity")
	}
}
