package quote

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Simplici0/homequote/internal/addon"
	"github.com/Simplici0/homequote/internal/apperr"
	"github.com/Simplici0/homequote/internal/catalog"
	"github.com/Simplici0/homequote/internal/pricing"
)

var fixedNow = time.Date(2025, 3, 14, 15, 9, 26, 535897000, time.UTC)

func newEngine(c *catalog.Catalog) *Engine {
	return NewEngine(c, addon.Default(), WithClock(func() time.Time { return fixedNow }))
}

func money(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("%s = %s, want %s", name, got.StringFixed(2), want)
	}
}

// standardInputs prices to 360 + 119 + 399 + 347 = 1225 on the default catalog.
func standardInputs() Inputs {
	return Inputs{
		HouseWash: pricing.HouseWashInput{
			Area:     2000,
			Stories:  catalog.Stories1,
			Siding:   catalog.SidingBrick,
			Cleaning: catalog.CleaningSoapScrub,
		},
		PestControl: pricing.PestControlInput{
			Area:        2000,
			Structure:   catalog.StructureResidential,
			Infestation: catalog.InfestationNone,
		},
		RodentControl: pricing.RodentControlInput{Stations: 4},
		Windows:       pricing.WindowInput{ExteriorStandard: 20},
	}
}

func customer() Customer {
	return Customer{FirstName: "Dana", LastName: "Reyes", Email: "dana@example.com", Phone: "555-0100", Address: "12 Elm St"}
}

func item(kind, price string) pricing.LineItem {
	return pricing.LineItem{Kind: kind, Name: kind, Price: decimal.RequireFromString(price), CatalogVersion: catalog.DefaultVersion}
}

func mandatoryItems() []pricing.LineItem {
	return []pricing.LineItem{
		item(pricing.KindHouseWash, "360"),
		item(pricing.KindPestControl, "119"),
		item(pricing.KindRodentControl, "399"),
		item(pricing.KindWindows, "347"),
	}
}

func TestAggregate_SumsLineItems(t *testing.T) {
	total, err := Aggregate(mandatoryItems(), []pricing.LineItem{item("custom", "85.50")})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	money(t, "total", total, "1310.50")
}

func TestAggregate_RejectsIncompleteMandatorySet(t *testing.T) {
	full := mandatoryItems()
	cases := map[string][]pricing.LineItem{
		"missing windows":   full[:3],
		"duplicate rodent":  append(append([]pricing.LineItem(nil), full...), item(pricing.KindRodentControl, "399")),
		"add-on as service": append(append([]pricing.LineItem(nil), full...), item("custom", "10")),
		"empty":             nil,
	}
	for name, mandatory := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Aggregate(mandatory, nil); !errors.Is(err, apperr.ErrIncompleteQuote) {
				t.Fatalf("expected ErrIncompleteQuote, got %v", err)
			}
		})
	}
}

func TestCompute_StandardQuote(t *testing.T) {
	q, err := newEngine(catalog.Default()).Compute("  Reyes Residence ", customer(), standardInputs())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	money(t, "total", q.Total, "1225")
	if q.Key != "Reyes Residence" {
		t.Fatalf("key = %q", q.Key)
	}
	if q.ID == uuid.Nil {
		t.Fatalf("expected quote id")
	}
	if !q.ComputedAt.Equal(fixedNow) || q.CatalogVersion != catalog.DefaultVersion {
		t.Fatalf("unexpected metadata: %s %s", q.ComputedAt, q.CatalogVersion)
	}

	wantKinds := pricing.MandatoryKinds()
	if len(q.LineItems) != len(wantKinds) {
		t.Fatalf("expected %d line items, got %d", len(wantKinds), len(q.LineItems))
	}
	for i, kind := range wantKinds {
		if q.LineItems[i].Kind != kind {
			t.Fatalf("line item %d kind = %q, want %q", i, q.LineItems[i].Kind, kind)
		}
	}
	money(t, "windows", q.LineItems[3].Price, "347")
}

func TestCompute_RequiresKey(t *testing.T) {
	_, err := newEngine(catalog.Default()).Compute("   ", customer(), standardInputs())
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCompute_AddOnRaisesTotalByItsPrice(t *testing.T) {
	e := newEngine(catalog.Default())
	base, err := e.Compute("Reyes", customer(), standardInputs())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	in := standardInputs()
	in.AddOns = []addon.Request{addon.MustRequest(addon.GutterCleaning{LinearFeet: 400})}
	withGutter, err := e.Compute("Reyes", customer(), in)
	if err != nil {
		t.Fatalf("Compute with add-on: %v", err)
	}

	gutter := withGutter.LineItems[len(withGutter.LineItems)-1]
	money(t, "gutter", gutter.Price, "200")
	money(t, "delta", withGutter.Total.Sub(base.Total), gutter.Price.String())
	for i := range base.LineItems {
		if !base.LineItems[i].Equal(withGutter.LineItems[i]) {
			t.Fatalf("mandatory line item %d changed: %+v vs %+v", i, base.LineItems[i], withGutter.LineItems[i])
		}
	}
}

func TestCompute_TotalIsSumOfLineItemsWithSubCentCustomPrice(t *testing.T) {
	in := standardInputs()
	in.AddOns = []addon.Request{addon.MustRequest(addon.Custom{Name: "Screen repair", Price: decimal.RequireFromString("10.005")})}

	q, err := newEngine(catalog.Default()).Compute("Reyes", customer(), in)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	sum := decimal.Zero
	for _, item := range q.LineItems {
		sum = sum.Add(item.Price)
	}
	money(t, "custom", q.LineItems[len(q.LineItems)-1].Price, "10.01")
	money(t, "total", q.Total, "1235.01")
	if !q.Total.Equal(sum) {
		t.Fatalf("total %s != sum of line items %s", q.Total.String(), sum.String())
	}

	r, err := Serialize(q)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if _, err := Deserialize(r); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
}

func TestCompute_IsAllOrNothing(t *testing.T) {
	in := standardInputs()
	in.AddOns = []addon.Request{
		addon.MustRequest(addon.GutterCleaning{LinearFeet: 400}),
		{Kind: "chimney_sweep", Payload: json.RawMessage(`{"flues": 2}`)},
	}
	q, err := newEngine(catalog.Default()).Compute("Reyes", customer(), in)
	if !apperr.IsUnsupportedAddon(err) {
		t.Fatalf("expected unsupported add-on error, got %v", err)
	}
	if q.ID != uuid.Nil || q.LineItems != nil {
		t.Fatalf("expected zero quote, got %+v", q)
	}
}

func TestRecompute_FailureLeavesPreviousQuoteIntact(t *testing.T) {
	e := newEngine(catalog.Default())
	prev, err := e.Compute("Reyes", customer(), standardInputs())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	snapshot := prev

	in := standardInputs()
	in.AddOns = []addon.Request{{Kind: "chimney_sweep", Payload: json.RawMessage(`{}`)}}
	if _, err := e.Recompute(prev, in); !apperr.IsUnsupportedAddon(err) {
		t.Fatalf("expected unsupported add-on error, got %v", err)
	}
	if !prev.Equal(snapshot) {
		t.Fatalf("previous quote modified")
	}
	money(t, "previous total", prev.Total, "1225")
}

func TestRecompute_KeepsIdentityAndUsesCurrentCatalog(t *testing.T) {
	in := standardInputs()
	in.PestControl.Infestation = catalog.InfestationMedium

	legacy, err := newEngine(catalog.Legacy()).Compute("Reyes", customer(), in)
	if err != nil {
		t.Fatalf("Compute legacy: %v", err)
	}
	// 2000 × 0.045 = 90, floored at 119 with no severity adder
	money(t, "legacy pest", legacy.LineItems[1].Price, "119")

	current, err := newEngine(catalog.Default()).Recompute(legacy, legacy.Inputs)
	if err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	// 90 + 50 = 140
	money(t, "current pest", current.LineItems[1].Price, "140")
	money(t, "total", current.Total, "1246")

	if current.ID != legacy.ID || current.Key != legacy.Key || current.Customer != legacy.Customer {
		t.Fatalf("identity not preserved: %+v vs %+v", current, legacy)
	}
	if current.CatalogVersion != catalog.DefaultVersion || legacy.CatalogVersion != catalog.LegacyVersion {
		t.Fatalf("catalog versions = %s / %s", legacy.CatalogVersion, current.CatalogVersion)
	}
}

func TestPrice_IsIdempotent(t *testing.T) {
	e := newEngine(catalog.Default())
	in := standardInputs()
	in.AddOns = []addon.Request{addon.MustRequest(addon.DeckCleaning{Area: 333})}

	items1, total1, err := e.Price(in)
	if err != nil {
		t.Fatalf("Price: %v", err)
	}
	items2, total2, err := e.Price(in)
	if err != nil {
		t.Fatalf("Price: %v", err)
	}
	if !total1.Equal(total2) || len(items1) != len(items2) {
		t.Fatalf("results differ: %s vs %s", total1, total2)
	}
	for i := range items1 {
		if !items1[i].Equal(items2[i]) {
			t.Fatalf("line item %d differs", i)
		}
	}
}

func TestSerialize_RoundTrip(t *testing.T) {
	tracks := decimal.RequireFromString("150")
	in := standardInputs()
	in.HouseWash.Overhangs = pricing.SizeCounts{Small: 1, Large: 2}
	in.Windows.TracksSills = &tracks
	in.AddOns = []addon.Request{
		addon.MustRequest(addon.RoofTreatment{Material: catalog.RoofOther, Area: 500, FloorOverride: &tracks}),
		addon.MustRequest(addon.Custom{Name: "Shutter repair", Price: decimal.RequireFromString("85.50")}),
	}

	q, err := newEngine(catalog.Default()).Compute("Reyes", customer(), in)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	r, err := Serialize(q)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if r.Key != "Reyes" || r.Timestamp != "2025-03-14T15:09:26.535897Z" {
		t.Fatalf("unexpected record header: %+v", r)
	}

	got, err := Deserialize(r)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if !got.Equal(q) {
		t.Fatalf("round trip mismatch:\n got  %+v\n want %+v", got, q)
	}
}

func TestDeserialize_RejectsTamperedTotal(t *testing.T) {
	q, err := newEngine(catalog.Default()).Compute("Reyes", customer(), standardInputs())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	q.Total = q.Total.Add(decimal.NewFromInt(1))

	r, err := Serialize(q)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if _, err := Deserialize(r); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeserialize_RejectsSubCentPrices(t *testing.T) {
	q, err := newEngine(catalog.Default()).Compute("Reyes", customer(), standardInputs())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	items := append([]pricing.LineItem(nil), q.LineItems...)
	items[0].Price = items[0].Price.Add(decimal.RequireFromString("0.004"))
	q.LineItems = items
	q.Total = q.Total.Add(decimal.RequireFromString("0.004"))

	r, err := Serialize(q)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if _, err := Deserialize(r); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeserialize_RejectsMalformedRecords(t *testing.T) {
	q, err := newEngine(catalog.Default()).Compute("Reyes", customer(), standardInputs())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	good, err := Serialize(q)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	cases := map[string]func(*Record){
		"empty key":          func(r *Record) { r.Key = "" },
		"bad timestamp":      func(r *Record) { r.Timestamp = "yesterday" },
		"bad customer":       func(r *Record) { r.CustomerInfo = "{" },
		"bad inputs":         func(r *Record) { r.Inputs = "[]" },
		"bad results":        func(r *Record) { r.Results = "not json" },
		"no catalog version": func(r *Record) { r.Results = `{"line_items":[],"total":"0"}` },
		"missing services":   func(r *Record) { r.Results = `{"catalog_version":"2025.1","line_items":[],"total":"0"}` },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			r := good
			mutate(&r)
			if _, err := Deserialize(r); !apperr.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUpsertRows(t *testing.T) {
	rows := []Record{{Key: "Alpha", Results: "a1"}, {Key: "Beta", Results: "b1"}}

	replaced, err := UpsertRows(rows, Record{Key: "ALPHA", Results: "a2"})
	if err != nil {
		t.Fatalf("UpsertRows replace: %v", err)
	}
	if len(replaced) != 2 || replaced[0].Results != "a2" || replaced[0].Key != "ALPHA" {
		t.Fatalf("unexpected rows after replace: %+v", replaced)
	}
	if rows[0].Results != "a1" {
		t.Fatalf("input rows modified")
	}

	appended, err := UpsertRows(rows, Record{Key: "Gamma"})
	if err != nil {
		t.Fatalf("UpsertRows append: %v", err)
	}
	if len(appended) != 3 || appended[2].Key != "Gamma" {
		t.Fatalf("unexpected rows after append: %+v", appended)
	}

	spare := make([]Record, 2, 4)
	copy(spare, rows)
	first, err := UpsertRows(spare, Record{Key: "Gamma"})
	if err != nil {
		t.Fatalf("UpsertRows append: %v", err)
	}
	second, err := UpsertRows(spare, Record{Key: "Delta"})
	if err != nil {
		t.Fatalf("UpsertRows append: %v", err)
	}
	if first[2].Key != "Gamma" || second[2].Key != "Delta" {
		t.Fatalf("append shared the input's backing array: %+v %+v", first, second)
	}

	dupes := []Record{{Key: "alpha"}, {Key: "Alpha "}}
	_, err = UpsertRows(dupes, Record{Key: "Alpha"})
	var conflict *apperr.PersistenceConflictError
	if !errors.As(err, &conflict) || conflict.Matches != 2 {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestDeleteRows(t *testing.T) {
	rows := []Record{{Key: "alpha", Results: "first"}, {Key: "Beta"}, {Key: "ALPHA", Results: "second"}}

	out, err := DeleteRows(rows, "Alpha")
	if err != nil {
		t.Fatalf("DeleteRows: %v", err)
	}
	if len(out) != 2 || out[1].Results != "second" {
		t.Fatalf("expected first match removed, got %+v", out)
	}

	if _, err := DeleteRows(rows, "gamma"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestWriteText(t *testing.T) {
	q, err := newEngine(catalog.Default()).Compute("Reyes", customer(), standardInputs())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	var b strings.Builder
	if err := WriteText(&b, q); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	out := b.String()
	for _, want := range []string{"Reyes", "Dana Reyes", "house washing", "360.00", "  tracks and sills", "Total", "1225.00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}
