// Package pricing turns validated service inputs into priced line items.
//
// Every calculator is a pure function of its input and a catalog. Prices are
// rounded half-up to cents once, after floors are applied.
package pricing

import (
	"github.com/shopspring/decimal"
)

// Service kinds of the mandatory line items.
const (
	KindHouseWash     = "house_wash"
	KindPestControl   = "pest_control"
	KindRodentControl = "rodent_control"
	KindWindows       = "windows"
)

// MandatoryKinds lists the services every quote must price, in display order.
func MandatoryKinds() []string {
	return []string{KindHouseWash, KindPestControl, KindRodentControl, KindWindows}
}

// IsMandatory reports whether kind is one of the mandatory services.
func IsMandatory(kind string) bool {
	for _, k := range MandatoryKinds() {
		if k == kind {
			return true
		}
	}
	return false
}

// Component is one named part of a line item's price.
type Component struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// LineItem is a single priced service or add-on.
type LineItem struct {
	Kind           string          `json:"kind"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	CatalogVersion string          `json:"catalog_version"`
	Components     []Component     `json:"components,omitempty"`
}

// Equal reports whether two line items carry the same values.
func (li LineItem) Equal(o LineItem) bool {
	if li.Kind != o.Kind || li.Name != o.Name || li.CatalogVersion != o.CatalogVersion {
		return false
	}
	if !li.Price.Equal(o.Price) || len(li.Components) != len(o.Components) {
		return false
	}
	for i := range li.Components {
		if li.Components[i].Name != o.Components[i].Name || !li.Components[i].Price.Equal(o.Components[i].Price) {
			return false
		}
	}
	return true
}

// Round rounds a non-negative amount to cents, half-up.
func Round(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}

// Clamp returns the larger of raw and floor, rounded to cents.
func Clamp(raw, floor decimal.Decimal) decimal.Decimal {
	return Round(decimal.Max(raw, floor))
}

func count(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }
