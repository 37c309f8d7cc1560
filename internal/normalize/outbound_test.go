package normalize

import (
	"testing"

	"github.com/valio-aimo/go-ops-backend/internal/domain"
)

func TestOutboundRows_FieldAliasing(t *testing.T) {
	payload := `[
		{"product_name": "Valio kevytmaito 1 | ESL", "product_id": 4021, "customer_number": 118, "replaced": false, "called": true, "replacedWith": "Valio rasvaton maito 1"},
		{"Tuote": "Valio vispikerma 1 | UHT", "id": "row-7", "replaced": null, "called": null}
	]`
	rows := OutboundRows(decodeJSON(t, payload))
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	r0 := rows[0]
	if r0.ProductName != "Valio kevytmaito 1 | ESL" {
		t.Errorf("productName = %q", r0.ProductName)
	}
	if r0.ProductID != "4021" {
		t.Errorf("numeric product_id must stringify, got %q", r0.ProductID)
	}
	if r0.CustomerNumber != "118" {
		t.Errorf("customerNumber = %q", r0.CustomerNumber)
	}
	if r0.Replaced == nil || *r0.Replaced {
		t.Errorf("replaced = %v, want false", r0.Replaced)
	}
	if r0.Called == nil || !*r0.Called {
		t.Errorf("called = %v, want true", r0.Called)
	}

	r1 := rows[1]
	if r1.ProductName != "Valio vispikerma 1 | UHT" {
		t.Errorf("legacy Tuote alias not applied: %q", r1.ProductName)
	}
	if r1.RowID != "row-7" {
		t.Errorf("rowID = %q", r1.RowID)
	}
	if r1.Replaced != nil || r1.Called != nil {
		t.Errorf("explicit nulls must stay nil pointers: %+v", r1)
	}
}

func TestOutboundRows_NonArray(t *testing.T) {
	rows := OutboundRows(decodeJSON(t, `{"not": "an array"}`))
	if rows == nil || len(rows) != 0 {
		t.Fatalf("want empty non-nil slice, got %v", rows)
	}
}

func boolp(b bool) *bool { return &b }

func TestObserved_Projection(t *testing.T) {
	rows := []domain.ResolutionRow{
		{ProductName: "Valio kevytmaito 1 | ESL", ProductID: "4021", CustomerNumber: "118", Replaced: boolp(false), Called: boolp(true), ReplacedWith: "Valio rasvaton maito 1"},
		{ProductName: "Valio voi 500 g", ProductID: "5001", CustomerNumber: "200", Replaced: boolp(true), Called: boolp(true)},
		{ProductName: "Valio jogurtti", ProductID: "6001", CustomerNumber: "300", Called: nil},
		{ProductName: "Valio kerma", ProductID: "7001", CustomerNumber: "400", Called: boolp(false)},
	}
	obs := Observed(rows)
	if len(obs) != 2 {
		t.Fatalf("got %d observed, want 2 (replaced and not-called rows excluded)", len(obs))
	}

	first := obs[0]
	if first.ID != "observed-4021-0" {
		t.Errorf("id = %q", first.ID)
	}
	if first.OrderID != "OBS-4021" {
		t.Errorf("orderId = %q", first.OrderID)
	}
	if first.RiskScore != 1.0 {
		t.Errorf("riskScore = %v, want 1.0", first.RiskScore)
	}
	if first.Type != domain.TypeObserved {
		t.Errorf("type = %q", first.Type)
	}
	if first.Status != domain.StatusPending {
		t.Errorf("status = %q", first.Status)
	}
	if first.ProductName != "Valio Kevytmaito 1L (ESL)" {
		t.Errorf("productName = %q", first.ProductName)
	}
	if first.ReplacementProduct != "Valio Rasvaton Maito 1L" {
		t.Errorf("replacementProduct = %q", first.ReplacementProduct)
	}

	if obs[1].ID != "observed-6001-2" {
		t.Errorf("open-call row id = %q", obs[1].ID)
	}
}

func TestObserved_DedupFirstWins(t *testing.T) {
	rows := []domain.ResolutionRow{
		{ProductName: "Valio maito", ProductID: "4021", CustomerNumber: "118", Called: boolp(true), ReplacedWith: "First"},
		{ProductName: "Valio maito", ProductID: " 4021 ", CustomerNumber: "118", Called: boolp(true), ReplacedWith: "Second"},
	}
	obs := Observed(rows)
	if len(obs) != 1 {
		t.Fatalf("got %d observed, want 1 after dedup", len(obs))
	}
	if obs[0].ReplacementProduct != "First" {
		t.Errorf("dedup must keep the first row, got %q", obs[0].ReplacementProduct)
	}
}

func TestObserved_Defaults(t *testing.T) {
	obs := Observed([]domain.ResolutionRow{{Called: boolp(true)}})
	if len(obs) != 1 {
		t.Fatalf("got %d observed, want 1", len(obs))
	}
	r := obs[0]
	if r.ProductName != "Unknown Product" {
		t.Errorf("productName = %q", r.ProductName)
	}
	if r.CustomerName != "Unknown Customer" {
		t.Errorf("customerName = %q", r.CustomerName)
	}
	if r.ID != "observed-observed-0-0" {
		t.Errorf("fallback id = %q", r.ID)
	}
}
