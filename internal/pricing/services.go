package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/Simplici0/homequote/internal/catalog"
)

// HouseWash prices an exterior wash.
//
// The area is charged at the cleaning method rate plus the siding adjustment,
// scaled by the story multiplier. The complexity multiplier applies once when
// the siding is in the catalog's complex set or any ladder spot is needed.
// Per-unit overhang, deck and ladder fees are added before the floor.
func HouseWash(in HouseWashInput, c *catalog.Catalog) (LineItem, error) {
	if err := in.Validate(); err != nil {
		return LineItem{}, err
	}

	rates := c.HouseWash
	methodRate, err := c.MethodRate(in.Cleaning)
	if err != nil {
		return LineItem{}, err
	}
	sidingAdj, err := c.SidingAdjustment(in.Siding)
	if err != nil {
		return LineItem{}, err
	}
	storyMult, err := c.StoryMultiplier(in.Stories)
	if err != nil {
		return LineItem{}, err
	}

	subtotal := count(in.Area).Mul(methodRate.Add(sidingAdj)).Mul(storyMult)
	if c.IsComplexSiding(in.Siding) || in.LadderSpots > 0 {
		subtotal = subtotal.Mul(rates.ComplexityMultiplier)
	}

	fees := sizeFees(rates.OverhangFees, in.Overhangs).
		Add(sizeFees(rates.DeckFees, in.Decks)).
		Add(rates.LadderSpotFee.Mul(count(in.LadderSpots)))

	return LineItem{
		Kind:           KindHouseWash,
		Name:           "house washing",
		Price:          Clamp(subtotal.Add(fees), rates.Floor),
		CatalogVersion: c.Version,
	}, nil
}

func sizeFees(fees catalog.SizeFees, n SizeCounts) decimal.Decimal {
	return fees.Small.Mul(count(n.Small)).
		Add(fees.Medium.Mul(count(n.Medium))).
		Add(fees.Large.Mul(count(n.Large)))
}

// PestControl prices a pest control treatment.
//
// The rate and floor come from the area tier for the structure type. The
// infestation adder and the ladder surcharge are flat amounts.
func PestControl(in PestControlInput, c *catalog.Catalog) (LineItem, error) {
	if err := in.Validate(); err != nil {
		return LineItem{}, err
	}

	tier, err := c.PestTierFor(in.Area)
	if err != nil {
		return LineItem{}, err
	}
	rate, err := c.PestRate(tier, in.Structure)
	if err != nil {
		return LineItem{}, err
	}
	floor, err := c.PestFloor(tier, in.Structure)
	if err != nil {
		return LineItem{}, err
	}
	severity, err := c.Severity(in.Infestation)
	if err != nil {
		return LineItem{}, err
	}

	raw := count(in.Area).Mul(rate).
		Add(severity).
		Add(PestLadderSurcharge(c, in.LadderSpots))

	return LineItem{
		Kind:           KindPestControl,
		Name:           "pest control",
		Price:          Clamp(raw, floor),
		CatalogVersion: c.Version,
	}, nil
}

// PestLadderSurcharge is the first-spot fee plus the additional-spot fee for
// every spot after the first. No spots cost nothing.
func PestLadderSurcharge(c *catalog.Catalog, spots int) decimal.Decimal {
	if spots <= 0 {
		return decimal.Zero
	}
	pc := c.PestControl
	return pc.FirstLadderSpot.Add(pc.AdditionalLadderSpot.Mul(count(spots - 1)))
}

// RodentControl prices a rodent program. The base fee covers the included
// stations, so it doubles as the floor.
func RodentControl(in RodentControlInput, c *catalog.Catalog) (LineItem, error) {
	if err := in.Validate(); err != nil {
		return LineItem{}, err
	}

	rates := c.RodentControl
	extra := in.Stations - rates.IncludedStations
	if extra < 0 {
		extra = 0
	}

	total := rates.BaseFee.Add(rates.ExtraStationFee.Mul(count(extra)))
	if in.InteriorMonitoring {
		total = total.Add(rates.InteriorMonitoring)
	}

	return LineItem{
		Kind:           KindRodentControl,
		Name:           "rodent control",
		Price:          Round(total),
		CatalogVersion: c.Version,
	}, nil
}

// Windows prices window cleaning. Exterior and interior are priced and
// floored independently; tracks and sills is a flat fee. The line item price
// is the sum of its three components.
func Windows(in WindowInput, c *catalog.Catalog) (LineItem, error) {
	if err := in.Validate(); err != nil {
		return LineItem{}, err
	}

	rates := c.Windows
	exterior := windowSide(rates.Exterior, in.ExteriorStandard, in.ExteriorHigh)
	interior := windowSide(rates.Interior, in.InteriorStandard, in.InteriorHigh)
	tracks := Round(TracksSills(in, c))

	return LineItem{
		Kind:           KindWindows,
		Name:           "window cleaning",
		Price:          exterior.Add(interior).Add(tracks),
		CatalogVersion: c.Version,
		Components: []Component{
			{Name: "exterior windows", Price: exterior},
			{Name: "interior windows", Price: interior},
			{Name: "tracks and sills", Price: tracks},
		},
	}, nil
}

func windowSide(r catalog.WindowSideRates, standard, high int) decimal.Decimal {
	raw := r.Standard.Mul(count(standard)).Add(r.High.Mul(count(high)))
	return Clamp(raw, r.Floor)
}

// TracksSills resolves the tracks and sills fee: an explicit positive value,
// a confirmed zero, or the catalog default.
func TracksSills(in WindowInput, c *catalog.Catalog) decimal.Decimal {
	if in.TracksSills == nil {
		return c.Windows.TracksSillsDefault
	}
	if in.TracksSills.IsZero() && !in.WaiveTracksSills {
		return c.Windows.TracksSillsDefault
	}
	return *in.TracksSills
}
