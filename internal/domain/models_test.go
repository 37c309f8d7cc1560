package domain

import (
	"errors"
	"testing"
)

func TestCanonicalOutcome(t *testing.T) {
	cases := map[string]CallOutcome{
		"replacement_accepted": OutcomeReplacementAccepted,
		"accepted":             OutcomeReplacementAccepted,
		"ACCEPTED":             OutcomeReplacementAccepted,
		"replacement_declined": OutcomeReplacementDeclined,
		"declined":             OutcomeReplacementDeclined,
		"credits_only":         OutcomeCreditsOnly,
		"credits":              OutcomeCreditsOnly,
		"  credits  ":          OutcomeCreditsOnly,
		"incomplete":           OutcomeIncomplete,
		"no_answer":            OutcomeNoAnswer,
		"":                     OutcomeUnknown,
		"weird_new_value":      OutcomeUnknown,
	}
	for in, want := range cases {
		if got := CanonicalOutcome(in); got != want {
			t.Errorf("CanonicalOutcome(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestShortageID_Deterministic(t *testing.T) {
	a := ShortageID("ORD-2025-1145", "VAL-MLK-001")
	b := ShortageID("ORD-2025-1145", "VAL-MLK-001")
	if a != b {
		t.Fatalf("same inputs produced different ids: %q vs %q", a, b)
	}
	if a != "ORD-2025-1145-VAL-MLK-001" {
		t.Fatalf("unexpected id %q", a)
	}
}

func TestObservedKey_CaseAndSpaceInsensitive(t *testing.T) {
	a := ObservedKey("VAL-MLK-001", "Ravintola Savoy")
	b := ObservedKey("  val-mlk-001 ", "RAVINTOLA SAVOY")
	if a != b {
		t.Fatalf("keys differ: %q vs %q", a, b)
	}
}

func validShortage() ShortageRecord {
	return ShortageRecord{
		ID:                    "ORD-1-SKU-9",
		SKU:                   "SKU-9",
		ProductName:           "Valio Kevytmaito 1L",
		CustomerName:          "Ravintola Savoy",
		RiskScore:             0.87,
		Status:                StatusPending,
		OrderID:               "ORD-1",
		SuggestedReplacements: []ReplacementSuggestion{},
	}
}

func TestValidateShortage(t *testing.T) {
	if err := ValidateShortage(validShortage()); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}

	cases := []struct {
		name string
		mut  func(*ShortageRecord)
	}{
		{"missing id", func(s *ShortageRecord) { s.ID = "" }},
		{"missing sku", func(s *ShortageRecord) { s.SKU = "" }},
		{"missing productName", func(s *ShortageRecord) { s.ProductName = "" }},
		{"missing customerName", func(s *ShortageRecord) { s.CustomerName = "" }},
		{"risk too high", func(s *ShortageRecord) { s.RiskScore = 1.5 }},
		{"risk negative", func(s *ShortageRecord) { s.RiskScore = -0.1 }},
		{"bad status", func(s *ShortageRecord) { s.Status = "open" }},
		{"missing orderId", func(s *ShortageRecord) { s.OrderID = "" }},
		{"nil replacements", func(s *ShortageRecord) { s.SuggestedReplacements = nil }},
	}
	for _, tc := range cases {
		s := validShortage()
		tc.mut(&s)
		err := ValidateShortage(s)
		if err == nil {
			t.Errorf("%s: expected error, got nil", tc.name)
			continue
		}
		if !errors.Is(err, ErrValidation) {
			t.Errorf("%s: error does not wrap ErrValidation: %v", tc.name, err)
		}
	}
}

func validCall() CallRecord {
	return CallRecord{
		ID:              "call-1",
		Time:            "2025-10-03T10:00:00Z",
		CustomerName:    "Ravintola Savoy",
		Direction:       DirectionOutbound,
		Language:        "fi",
		Status:          CallCompleted,
		Outcome:         OutcomeReplacementAccepted,
		Summary:         "Kevytmaito replaced with fat-free milk",
		Transcript:      []TranscriptTurn{},
		DurationSeconds: 127,
	}
}

func TestValidateCall(t *testing.T) {
	if err := ValidateCall(validCall()); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}

	cases := []struct {
		name string
		mut  func(*CallRecord)
	}{
		{"missing id", func(c *CallRecord) { c.ID = "" }},
		{"missing time", func(c *CallRecord) { c.Time = "" }},
		{"missing customerName", func(c *CallRecord) { c.CustomerName = "" }},
		{"bad direction", func(c *CallRecord) { c.Direction = "sideways" }},
		{"missing language", func(c *CallRecord) { c.Language = "" }},
		{"bad status", func(c *CallRecord) { c.Status = "done" }},
		{"missing outcome", func(c *CallRecord) { c.Outcome = "" }},
		{"missing summary", func(c *CallRecord) { c.Summary = "" }},
		{"negative duration", func(c *CallRecord) { c.DurationSeconds = -1 }},
		{"nil transcript", func(c *CallRecord) { c.Transcript = nil }},
	}
	for _, tc := range cases {
		c := validCall()
		tc.mut(&c)
		if err := ValidateCall(c); err == nil {
			t.Errorf("%s: expected error, got nil", tc.name)
		}
	}
}
