package quote

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/homequote/internal/apperr"
	"github.com/Simplici0/homequote/internal/pricing"
)

// Aggregate returns the quote total. mandatory must hold exactly one line item
// of each mandatory service; addons may be empty.
func Aggregate(mandatory, addons []pricing.LineItem) (decimal.Decimal, error) {
	seen := make(map[string]int, len(mandatory))
	for _, item := range mandatory {
		if !pricing.IsMandatory(item.Kind) {
			return decimal.Zero, fmt.Errorf("%w: %q is not a mandatory service", apperr.ErrIncompleteQuote, item.Kind)
		}
		seen[item.Kind]++
	}
	for _, kind := range pricing.MandatoryKinds() {
		switch seen[kind] {
		case 1:
		case 0:
			return decimal.Zero, fmt.Errorf("%w: missing %s", apperr.ErrIncompleteQuote, kind)
		default:
			return decimal.Zero, fmt.Errorf("%w: %s priced %d times", apperr.ErrIncompleteQuote, kind, seen[kind])
		}
	}

	return pricing.Round(sum(mandatory).Add(sum(addons))), nil
}

func sum(items []pricing.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price)
	}
	return total
}
