// Package normalize – outbound-resolution payloads
//
// This file maps the outbound-resolution webhook rows and derives the
// observed-shortages view from them. Two field dialects coexist upstream:
// the current flow sends product_name/product_id, the legacy flow sent
// Tuote/id. Replaced and called are tri-state booleans (explicit null means
// "call still open"), so they survive as pointers.
package normalize

import (
	"strconv"

	"github.com/valio-aimo/go-ops-backend/internal/domain"
	"github.com/valio-aimo/go-ops-backend/internal/format"
)

// OutboundRows maps the webhook payload onto resolution rows. Non-array
// payloads and non-object elements yield an empty slice.
func OutboundRows(raw any) []domain.ResolutionRow {
	items, _ := raw.([]any)
	out := []domain.ResolutionRow{}
	for _, it := range items {
		row := asMap(it)
		if row == nil {
			continue
		}
		name := str(row, "product_name")
		if name == "" {
			name = str(row, "Tuote")
		}
		out = append(out, domain.ResolutionRow{
			ProductName:    name,
			ProductID:      stringify(row["product_id"]),
			RowID:          stringify(row["id"]),
			CustomerNumber: stringify(row["customer_number"]),
			Replaced:       boolPtr(row, "replaced"),
			Called:         boolPtr(row, "called"),
			ReplacedWith:   str(row, "replacedWith"),
			ProductQty:     stringify(row["product_qty"]),
		})
	}
	return out
}

// Observed projects resolution rows onto the observed-shortages view.
//
// Behavior:
//   - A row qualifies when it has not been replaced and the customer either
//     confirmed the shortage on a call (called == true) or the call is still
//     open (called == nil).
//   - Observed shortages are confirmed, so riskScore is fixed at 1.0 and the
//     synthetic order id is "OBS-<productID>".
//   - The record id embeds the row's position so repeated products stay
//     distinguishable within one poll; duplicates by (sku, customerName)
//     are dropped first-wins.
func Observed(rows []domain.ResolutionRow) []domain.ShortageRecord {
	out := []domain.ShortageRecord{}
	seen := map[string]struct{}{}
	for i, row := range rows {
		if row.Replaced != nil && *row.Replaced {
			continue
		}
		if row.Called != nil && !*row.Called {
			continue
		}

		productID := row.ProductID
		if productID == "" {
			productID = row.RowID
		}
		if productID == "" {
			productID = "observed-" + strconv.Itoa(i)
		}
		name := row.ProductName
		if name == "" {
			name = "Unknown Product"
		}
		customer := row.CustomerNumber
		if customer == "" {
			customer = "Unknown Customer"
		}

		sku := row.ProductID
		if sku == "" {
			sku = productID
		}
		key := domain.ObservedKey(sku, customer)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		rec := domain.ShortageRecord{
			ID:                    "observed-" + productID + "-" + strconv.Itoa(i),
			SKU:                   sku,
			ProductName:           format.ProductName(name),
			CustomerName:          customer,
			RiskScore:             1.0,
			Status:                domain.StatusPending,
			OrderID:               "OBS-" + productID,
			SuggestedReplacements: []domain.ReplacementSuggestion{},
			Type:                  domain.TypeObserved,
		}
		if row.ReplacedWith != "" {
			rec.ReplacementProduct = format.ProductName(row.ReplacedWith)
		}
		out = append(out, rec)
	}
	return out
}
