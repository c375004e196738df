package catalog

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// DefaultVersion is the catalog used when a deployment selects none.
	DefaultVersion = "2025.1"
	// LegacyVersion is the pre-tier catalog, kept so older estimates recompute.
	LegacyVersion = "2024.1"
)

// ErrUnknownVersion is returned by Lookup for versions with no builtin catalog.
var ErrUnknownVersion = errors.New("unknown catalog version")

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Default returns the default catalog.
func Default() *Catalog {
	return &Catalog{
		Version: DefaultVersion,
		HouseWash: HouseWashRates{
			MethodRates: map[CleaningMethod]decimal.Decimal{
				CleaningSoapScrub: d("0.18"),
				CleaningSoftWash:  d("0.20"),
			},
			SidingAdjustments: map[Siding]decimal.Decimal{
				SidingBrick:    d("0.00"),
				SidingMetal:    d("0.00"),
				SidingVinyl:    d("0.02"),
				SidingShiplap:  d("0.04"),
				SidingHardieLP: d("0.06"),
				SidingLog:      d("0.08"),
			},
			StoryMultipliers: map[Stories]decimal.Decimal{
				Stories1:   d("1.00"),
				Stories1_5: d("1.05"),
				Stories2:   d("1.10"),
				Stories2_5: d("1.15"),
				Stories3:   d("1.20"),
			},
			ComplexSidings:       []Siding{SidingShiplap, SidingLog},
			ComplexityMultiplier: d("1.25"),
			OverhangFees:         SizeFees{Small: d("20"), Medium: d("30"), Large: d("40")},
			DeckFees:             SizeFees{Small: d("15"), Medium: d("25"), Large: d("40")},
			LadderSpotFee:        d("75"),
			Floor:                d("299"),
		},
		PestControl: PestControlRates{
			Tiers: []PestTier{
				{
					MinArea: 0,
					Rates: map[StructureType]decimal.Decimal{
						StructureResidential: d("0.045"),
						StructureCommercial:  d("0.055"),
					},
					Floors: map[StructureType]decimal.Decimal{
						StructureResidential: d("119"),
						StructureCommercial:  d("199"),
					},
				},
				{
					MinArea: 4000,
					Rates: map[StructureType]decimal.Decimal{
						StructureResidential: d("0.040"),
						StructureCommercial:  d("0.050"),
					},
					Floors: map[StructureType]decimal.Decimal{
						StructureResidential: d("179"),
						StructureCommercial:  d("249"),
					},
				},
			},
			Severity: map[Infestation]decimal.Decimal{
				InfestationNone:   d("0"),
				InfestationMedium: d("50"),
				InfestationHeavy:  d("100"),
			},
			FirstLadderSpot:      d("75"),
			AdditionalLadderSpot: d("25"),
		},
		RodentControl: RodentControlRates{
			BaseFee:            d("399"),
			IncludedStations:   4,
			ExtraStationFee:    d("30"),
			InteriorMonitoring: d("50"),
		},
		Windows: WindowRates{
			Exterior:           WindowSideRates{Standard: d("3.30"), High: d("5.25"), Floor: d("149")},
			Interior:           WindowSideRates{Standard: d("2.00"), High: d("4.00"), Floor: d("99")},
			TracksSillsDefault: d("99"),
		},
		Addons: AddonRates{
			Roof: map[RoofMaterial]RoofRate{
				RoofAsphalt: {Rate: d("0.25"), Floor: d("399")},
				RoofOther:   {Rate: d("0.85"), Floor: d("399"), AllowFloorOverride: true},
			},
			GutterPerFoot:      d("0.50"),
			GutterFloor:        d("149"),
			BlowOffHourly:      d("149"),
			SecondWorkerHourly: d("42"),
			ConcretePerSqFt:    d("0.15"),
			DeckPerSqFt:        d("0.15"),
		},
	}
}

// Legacy returns the 2024.1 catalog: pest control priced at one flat rate
// with no severity adders and the full ladder fee for every spot.
func Legacy() *Catalog {
	c := Default()
	c.Version = LegacyVersion
	c.PestControl = PestControlRates{
		Tiers: []PestTier{{
			MinArea: 0,
			Rates: map[StructureType]decimal.Decimal{
				StructureResidential: d("0.045"),
				StructureCommercial:  d("0.045"),
			},
			Floors: map[StructureType]decimal.Decimal{
				StructureResidential: d("119"),
				StructureCommercial:  d("119"),
			},
		}},
		Severity: map[Infestation]decimal.Decimal{
			InfestationNone:   d("0"),
			InfestationMedium: d("0"),
			InfestationHeavy:  d("0"),
		},
		FirstLadderSpot:      d("75"),
		AdditionalLadderSpot: d("75"),
	}
	return c
}

// Builtins returns every builtin catalog, default first.
func Builtins() []*Catalog {
	return []*Catalog{Default(), Legacy()}
}

// Lookup returns the builtin catalog with the given version.
func Lookup(version string) (*Catalog, error) {
	for _, c := range Builtins() {
		if c.Version == version {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownVersion, version)
}
