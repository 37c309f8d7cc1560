// Package normalize – prediction payloads
//
// This file maps prediction-batch responses onto shortage records. Besides
// the canonical already-normalized array, two legacy layouts remain in
// production ({orders: [...]} and {data: {orders: [...]}}, each optionally
// wrapped in a single-element array); the shape matchers in shapes.go cover
// them all.
package normalize

import (
	"encoding/json"

	"github.com/valio-aimo/go-ops-backend/internal/domain"
	"github.com/valio-aimo/go-ops-backend/internal/format"
)

// Predictions maps a prediction-batch response onto shortage records.
//
// Behavior:
//   - An array whose first element already carries id/sku/riskScore is
//     treated as canonical and passed through (with defaults applied).
//   - Otherwise the order shapes are tried in precedence order; per order
//     item, LOW-risk items (case-insensitive) are skipped, the id is
//     "<order_number>-<product_code>", the display name prefers the legacy
//     product_info.Tuote alias over the product code, and a non-numeric
//     stockout_probability falls back to 0.
//   - Unrecognized payloads yield an empty slice, never an error.
func Predictions(raw any) []domain.ShortageRecord {
	if recs, ok := canonicalShortages(raw); ok {
		return recs
	}

	orders, ok := extractOrders(raw)
	if !ok {
		return []domain.ShortageRecord{}
	}

	out := []domain.ShortageRecord{}
	for _, o := range orders {
		order := asMap(o)
		if order == nil {
			continue
		}
		orderNumber := str(order, "order_number")
		if orderNumber == "" {
			orderNumber = "UNKNOWN_ORDER"
		}
		customer := stringify(order["customer_number"])
		if customer == "" {
			customer = "Unknown customer"
		}
		items, _ := order["items"].([]any)
		for _, it := range items {
			item := asMap(it)
			if item == nil {
				continue
			}
			if level := str(item, "risk_level"); domain.NormalizeIdentity(level) == "low" {
				continue
			}
			code := str(item, "product_code")
			if code == "" {
				code = "UNKNOWN_PRODUCT"
			}
			rawName := str(asMap(item["product_info"]), "Tuote")
			if rawName == "" {
				rawName = code
			}
			risk, _ := num(item, "stockout_probability")

			out = append(out, domain.ShortageRecord{
				ID:                    domain.ShortageID(orderNumber, code),
				SKU:                   code,
				ProductName:           format.ProductName(rawName),
				CustomerName:          customer,
				RiskScore:             risk,
				Status:                domain.StatusPending,
				OrderID:               orderNumber,
				SuggestedReplacements: []domain.ReplacementSuggestion{},
			})
		}
	}
	return out
}

// canonicalShortages detects an already-normalized array and decodes it
// directly into domain records.
func canonicalShortages(raw any) ([]domain.ShortageRecord, bool) {
	arr, ok := raw.([]any)
	if !ok || len(arr) == 0 {
		return nil, false
	}
	first := asMap(arr[0])
	if first == nil {
		return nil, false
	}
	if _, hasID := first["id"]; !hasID {
		return nil, false
	}
	if _, hasSKU := first["sku"]; !hasSKU {
		return nil, false
	}
	if _, hasRisk := first["riskScore"]; !hasRisk {
		return nil, false
	}

	b, err := json.Marshal(arr)
	if err != nil {
		return nil, false
	}
	var recs []domain.ShortageRecord
	if err := json.Unmarshal(b, &recs); err != nil {
		return nil, false
	}
	for i := range recs {
		if recs[i].Status == "" {
			recs[i].Status = domain.StatusPending
		}
		if recs[i].SuggestedReplacements == nil {
			recs[i].SuggestedReplacements = []domain.ReplacementSuggestion{}
		}
	}
	return recs, true
}
