package quote

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Simplici0/homequote/internal/apperr"
	"github.com/Simplici0/homequote/internal/pricing"
)

// TimestampLayout is the layout of Record.Timestamp.
const TimestampLayout = time.RFC3339Nano

// Record is the persisted form of a quote: a natural key, a timestamp and
// three JSON documents.
type Record struct {
	Key          string `json:"account_name" dynamodbav:"account_name"`
	Timestamp    string `json:"timestamp" dynamodbav:"timestamp"`
	CustomerInfo string `json:"customer_info" dynamodbav:"customer_info"`
	Inputs       string `json:"inputs" dynamodbav:"inputs"`
	Results      string `json:"results" dynamodbav:"results"`
}

type results struct {
	QuoteID        uuid.UUID          `json:"quote_id"`
	CatalogVersion string             `json:"catalog_version"`
	LineItems      []pricing.LineItem `json:"line_items"`
	Total          decimal.Decimal    `json:"total"`
}

// Summary is the listing view of a stored estimate.
type Summary struct {
	Key       string          `json:"key"`
	Timestamp string          `json:"timestamp"`
	Total     decimal.Decimal `json:"total"`
}

// Serialize converts q into its record form.
func Serialize(q Quote) (Record, error) {
	customer, err := json.Marshal(q.Customer)
	if err != nil {
		return Record{}, fmt.Errorf("encode customer info: %w", err)
	}
	inputs, err := json.Marshal(q.Inputs)
	if err != nil {
		return Record{}, fmt.Errorf("encode inputs: %w", err)
	}
	res, err := json.Marshal(results{
		QuoteID:        q.ID,
		CatalogVersion: q.CatalogVersion,
		LineItems:      q.LineItems,
		Total:          q.Total,
	})
	if err != nil {
		return Record{}, fmt.Errorf("encode results: %w", err)
	}

	return Record{
		Key:          q.Key,
		Timestamp:    q.ComputedAt.UTC().Format(TimestampLayout),
		CustomerInfo: string(customer),
		Inputs:       string(inputs),
		Results:      string(res),
	}, nil
}

// Deserialize rebuilds a quote from r. Malformed documents, prices with
// sub-cent digits and a total that does not match the stored line items are
// validation errors.
func Deserialize(r Record) (Quote, error) {
	if strings.TrimSpace(r.Key) == "" {
		return Quote{}, apperr.Invalid("account_name", "is required")
	}
	computedAt, err := time.Parse(TimestampLayout, r.Timestamp)
	if err != nil {
		return Quote{}, apperr.Invalid("timestamp", "invalid timestamp %q", r.Timestamp)
	}

	var customer Customer
	if err := json.Unmarshal([]byte(r.CustomerInfo), &customer); err != nil {
		return Quote{}, apperr.Invalid("customer_info", "malformed document: %v", err)
	}
	var inputs Inputs
	if err := json.Unmarshal([]byte(r.Inputs), &inputs); err != nil {
		return Quote{}, apperr.Invalid("inputs", "malformed document: %v", err)
	}
	res, err := decodeResults(r.Results)
	if err != nil {
		return Quote{}, err
	}

	for i, item := range res.LineItems {
		if !item.Price.Equal(pricing.Round(item.Price)) {
			return Quote{}, apperr.Invalid("results.line_items", "item %d (%s) price %s is not in cents", i, item.Kind, item.Price.String())
		}
	}
	mandatory, addons := Split(res.LineItems)
	total, err := Aggregate(mandatory, addons)
	if err != nil {
		return Quote{}, apperr.Invalid("results.line_items", "%v", err)
	}
	if !total.Equal(res.Total) {
		return Quote{}, apperr.Invalid("results.total", "stored total %s does not match line items %s", res.Total.StringFixed(2), total.StringFixed(2))
	}

	return Quote{
		ID:             res.QuoteID,
		Key:            r.Key,
		Customer:       customer,
		Inputs:         inputs,
		CatalogVersion: res.CatalogVersion,
		LineItems:      res.LineItems,
		Total:          res.Total,
		ComputedAt:     computedAt,
	}, nil
}

// Summarize reads the listing view of r without decoding its inputs.
func Summarize(r Record) (Summary, error) {
	res, err := decodeResults(r.Results)
	if err != nil {
		return Summary{}, err
	}
	return Summary{Key: r.Key, Timestamp: r.Timestamp, Total: res.Total}, nil
}

func decodeResults(raw string) (results, error) {
	var res results
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return results{}, apperr.Invalid("results", "malformed document: %v", err)
	}
	if res.CatalogVersion == "" {
		return results{}, apperr.Invalid("results.catalog_version", "is required")
	}
	return res, nil
}
