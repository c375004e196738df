// Package quote assembles priced line items into quotes and converts quotes
// to and from persisted estimate records.
package quote

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Simplici0/homequote/internal/addon"
	"github.com/Simplici0/homequote/internal/pricing"
)

// Customer is the contact block stored with an estimate.
type Customer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

// Inputs are the property measurements and selections a quote is priced from.
type Inputs struct {
	HouseWash     pricing.HouseWashInput     `json:"house_wash"`
	PestControl   pricing.PestControlInput   `json:"pest_control"`
	RodentControl pricing.RodentControlInput `json:"rodent_control"`
	Windows       pricing.WindowInput        `json:"windows"`
	AddOns        []addon.Request            `json:"add_ons,omitempty"`
}

// Equal reports whether two input sets carry the same values.
func (in Inputs) Equal(o Inputs) bool {
	if in.HouseWash != o.HouseWash || in.PestControl != o.PestControl || in.RodentControl != o.RodentControl {
		return false
	}
	if !in.Windows.Equal(o.Windows) || len(in.AddOns) != len(o.AddOns) {
		return false
	}
	for i := range in.AddOns {
		if !in.AddOns[i].Equal(o.AddOns[i]) {
			return false
		}
	}
	return true
}

// Quote is a fully priced estimate. Total is always the sum of LineItems.
// Mandatory services come first in display order, then add-ons in the order
// they were requested.
type Quote struct {
	ID             uuid.UUID          `json:"id"`
	Key            string             `json:"key"`
	Customer       Customer           `json:"customer"`
	Inputs         Inputs             `json:"inputs"`
	CatalogVersion string             `json:"catalog_version"`
	LineItems      []pricing.LineItem `json:"line_items"`
	Total          decimal.Decimal    `json:"total"`
	ComputedAt     time.Time          `json:"computed_at"`
}

// Equal reports whether two quotes carry the same values.
func (q Quote) Equal(o Quote) bool {
	if q.ID != o.ID || q.Key != o.Key || q.Customer != o.Customer || q.CatalogVersion != o.CatalogVersion {
		return false
	}
	if !q.Total.Equal(o.Total) || !q.ComputedAt.Equal(o.ComputedAt) || !q.Inputs.Equal(o.Inputs) {
		return false
	}
	if len(q.LineItems) != len(o.LineItems) {
		return false
	}
	for i := range q.LineItems {
		if !q.LineItems[i].Equal(o.LineItems[i]) {
			return false
		}
	}
	return true
}

// Split separates mandatory line items from add-ons, keeping order.
func Split(items []pricing.LineItem) (mandatory, addons []pricing.LineItem) {
	for _, item := range items {
		if pricing.IsMandatory(item.Kind) {
			mandatory = append(mandatory, item)
		} else {
			addons = append(addons, item)
		}
	}
	return mandatory, addons
}
