// Package domain defines the canonical record shapes the dashboard backend
// reconciles: predicted and observed inventory shortages, and AI-agent call
// logs. Upstream sources deliver several historically accreted JSON layouts;
// the normalize package maps all of them onto these types before anything
// reaches the store.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ShortageStatus is the lifecycle state of a shortage record.
type ShortageStatus string

const (
	// StatusPending marks a shortage that has not been confirmed handled.
	StatusPending ShortageStatus = "pending"
	// StatusResolved marks a shortage confirmed replaced or otherwise closed.
	StatusResolved ShortageStatus = "resolved"
)

// ShortageType distinguishes statistically predicted shortages from ones
// confirmed via an inbound customer call.
type ShortageType string

const (
	TypePredicted ShortageType = "predicted"
	TypeObserved  ShortageType = "observed"
)

// Source identifies which upstream delivered a batch of records. The
// reconciliation engine uses it to decide whether a status regression is
// allowed (only a fresh prediction cycle may revert a resolved shortage).
type Source string

const (
	SourcePrediction Source = "prediction"
	SourceWebhook    Source = "webhook"
	SourceCalls      Source = "calls"
)

// ReplacementSuggestion is one proposed substitute for an out-of-stock
// product.
type ReplacementSuggestion struct {
	SKU         string   `json:"sku"`
	ProductName string   `json:"productName"`
	Reason      string   `json:"reason"`
	Tags        []string `json:"tags"`
}

// ShortageRecord represents a predicted or observed inventory shortfall for
// one product/customer/order combination.
//
// Fields:
//   - ID: stable identity across polls; derived as "<orderId>-<sku>" when the
//     upstream provides no ID of its own (see ShortageID).
//   - RiskScore: stockout probability in [0,1]; fixed at 1.0 for observed
//     shortages, which are confirmed rather than predicted.
//   - Status: pending or resolved; once resolved, the reconciliation engine
//     will not silently regress it (see reconcile package).
//   - Type: optional; "observed" for records derived from the resolution
//     webhook, empty/"predicted" otherwise.
//   - ReplacementProduct: display name of the substitute, when the resolution
//     webhook already knows one.
type ShortageRecord struct {
	ID                    string                  `json:"id"`
	SKU                   string                  `json:"sku"`
	ProductName           string                  `json:"productName"`
	CustomerName          string                  `json:"customerName"`
	RiskScore             float64                 `json:"riskScore"`
	Status                ShortageStatus          `json:"status"`
	OrderID               string                  `json:"orderId"`
	SuggestedReplacements []ReplacementSuggestion `json:"suggestedReplacements"`
	Type                  ShortageType            `json:"type,omitempty"`
	ReplacementProduct    string                  `json:"replacementProduct,omitempty"`
}

// ShortageID derives the deterministic composite identity used when an
// upstream provides no stable ID. Two polls describing the same logical
// shortage must map to the same value.
func ShortageID(orderID, sku string) string {
	return orderID + "-" + sku
}

// ObservedKey is the dedup identity for the derived observed-shortages view:
// case- and whitespace-insensitive (sku, customerName).
func ObservedKey(sku, customerName string) string {
	return NormalizeIdentity(sku) + "|" + NormalizeIdentity(customerName)
}

// NormalizeIdentity lower-cases and trims a value for identity comparison.
// Upstream rows spell product IDs and names with inconsistent case and
// padding.
func NormalizeIdentity(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// CallStatus is the lifecycle state of a call record.
type CallStatus string

const (
	CallCompleted  CallStatus = "completed"
	CallFailed     CallStatus = "failed"
	CallInProgress CallStatus = "in_progress"
)

// CallDirection tells who initiated the call.
type CallDirection string

const (
	DirectionInbound  CallDirection = "inbound"
	DirectionOutbound CallDirection = "outbound"
)

// CallOutcome is the canonical result classification of a call. Upstream
// variants have used several spellings over time; CanonicalOutcome folds
// them all into this set.
type CallOutcome string

const (
	OutcomeReplacementAccepted CallOutcome = "replacement_accepted"
	OutcomeReplacementDeclined CallOutcome = "replacement_declined"
	OutcomeCreditsOnly         CallOutcome = "credits_only"
	OutcomeIncomplete          CallOutcome = "incomplete"
	OutcomeNoAnswer            CallOutcome = "no_answer"
	OutcomeUnknown             CallOutcome = "unknown"
)

// outcomeAliases maps every historically observed upstream outcome spelling
// to its canonical value. Unlisted values map to OutcomeUnknown rather than
// failing.
var outcomeAliases = map[string]CallOutcome{
	"replacement_accepted": OutcomeReplacementAccepted,
	"accepted":             OutcomeReplacementAccepted,
	"replacement_declined": OutcomeReplacementDeclined,
	"declined":             OutcomeReplacementDeclined,
	"credits_only":         OutcomeCreditsOnly,
	"credits":              OutcomeCreditsOnly,
	"incomplete":           OutcomeIncomplete,
	"no_answer":            OutcomeNoAnswer,
}

// CanonicalOutcome translates an upstream outcome string into the canonical
// enum. Unrecognized values become OutcomeUnknown; this function never fails.
func CanonicalOutcome(raw string) CallOutcome {
	if out, ok := outcomeAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return out
	}
	return OutcomeUnknown
}

// Transcript speakers.
const (
	SpeakerAgent    = "agent"
	SpeakerCustomer = "customer"
)

// TranscriptTurn is a single utterance within a call.
type TranscriptTurn struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// CallRecord is the normalized representation of one AI-agent phone
// conversation.
//
// Fields:
//   - ID: opaque identity assigned by the upstream call system; preserved
//     across list-poll/detail-fetch enrichment.
//   - Time: ISO-8601 timestamp; collections are kept in descending time
//     order (most recent first).
//   - Transcript: may arrive empty from list-style polls and be populated
//     lazily by a detail fetch.
//   - RelatedOrderID / RelatedSKU: soft denormalized links to a shortage;
//     dangling references are valid.
type CallRecord struct {
	ID              string           `json:"id"`
	Time            string           `json:"time"`
	CustomerName    string           `json:"customerName"`
	Direction       CallDirection    `json:"direction"`
	Language        string           `json:"language"`
	Status          CallStatus       `json:"status"`
	Outcome         CallOutcome      `json:"outcome"`
	RelatedOrderID  *string          `json:"relatedOrderId"`
	RelatedSKU      *string          `json:"relatedSku"`
	Summary         string           `json:"summary"`
	Transcript      []TranscriptTurn `json:"transcript"`
	DurationSeconds int              `json:"durationSeconds"`
	AudioURL        string           `json:"audioUrl,omitempty"`
	PhotoURL        string           `json:"photoUrl,omitempty"`
}

// ResolutionRow is one row from the outbound-resolution webhook, after field
// aliasing (product_name vs the legacy Tuote key, product_id vs id) has been
// applied. Replaced and Called are tri-state in the upstream payload, so they
// stay pointers here.
type ResolutionRow struct {
	ProductName    string
	ProductID      string
	RowID          string
	CustomerNumber string
	Replaced       *bool
	Called         *bool
	ReplacedWith   string
	ProductQty     string
}

// ErrValidation wraps all webhook payload validation failures so handlers
// can map them to a 400 uniformly.
var ErrValidation = errors.New("invalid payload")

// ValidateShortage checks the required fields of an inbound shortage webhook
// write. It returns a descriptive error wrapping ErrValidation on the first
// missing or malformed field.
func ValidateShortage(s ShortageRecord) error {
	switch {
	case s.ID == "":
		return fmt.Errorf("%w: missing id", ErrValidation)
	case s.SKU == "":
		return fmt.Errorf("%w: missing sku", ErrValidation)
	case s.ProductName == "":
		return fmt.Errorf("%w: missing productName", ErrValidation)
	case s.CustomerName == "":
		return fmt.Errorf("%w: missing customerName", ErrValidation)
	case s.RiskScore < 0 || s.RiskScore > 1:
		return fmt.Errorf("%w: riskScore must be in [0,1]", ErrValidation)
	case s.Status != StatusPending && s.Status != StatusResolved:
		return fmt.Errorf("%w: status must be pending or resolved", ErrValidation)
	case s.OrderID == "":
		return fmt.Errorf("%w: missing orderId", ErrValidation)
	case s.SuggestedReplacements == nil:
		return fmt.Errorf("%w: suggestedReplacements must be an array", ErrValidation)
	}
	return nil
}

// ValidateCall checks the required fields of an inbound call webhook write.
func ValidateCall(c CallRecord) error {
	switch {
	case c.ID == "":
		return fmt.Errorf("%w: missing id", ErrValidation)
	case c.Time == "":
		return fmt.Errorf("%w: missing time", ErrValidation)
	case c.CustomerName == "":
		return fmt.Errorf("%w: missing customerName", ErrValidation)
	case c.Direction != DirectionInbound && c.Direction != DirectionOutbound:
		return fmt.Errorf("%w: direction must be inbound or outbound", ErrValidation)
	case c.Language == "":
		return fmt.Errorf("%w: missing language", ErrValidation)
	case c.Status != CallCompleted && c.Status != CallFailed && c.Status != CallInProgress:
		return fmt.Errorf("%w: status must be completed, failed or in_progress", ErrValidation)
	case c.Outcome == "":
		return fmt.Errorf("%w: missing outcome", ErrValidation)
	case c.Summary == "":
		return fmt.Errorf("%w: missing summary", ErrValidation)
	case c.DurationSeconds < 0:
		return fmt.Errorf("%w: durationSeconds must be >= 0", ErrValidation)
	case c.Transcript == nil:
		return fmt.Errorf("%w: transcript must be an array", ErrValidation)
	}
	return nil
}
