// Package reconcile implements the pure merge rules that keep the shortage
// and call collections stable across polls. Every function here takes the
// current collection and a fresh batch and returns the next collection plus
// a change flag; nothing in this package touches the store, the clock, or
// the network, which keeps the rules directly testable.
//
// The core invariants:
//
//   - Identity merge: records are matched by ID, so a re-delivered batch is
//     idempotent (Changed stays false).
//   - No regression: a resolved shortage never silently reverts to pending.
//     Only a fresh prediction cycle may do that, because it represents the
//     upstream recomputing the risk from scratch.
//   - Retention: records absent from an incremental batch are kept; sources
//     deliver views, not authoritative full states. Full replacement is an
//     explicit separate operation used by the webhook array writes.
package reconcile

import (
	"reflect"
	"sort"
	"time"

	"github.com/valio-aimo/go-ops-backend/internal/domain"
)

// Result is the outcome of a shortage merge.
type Result struct {
	// Next is the merged collection.
	Next []domain.ShortageRecord
	// Changed reports whether Next differs from the previous collection.
	Changed bool
	// NewlyArrived holds the records whose IDs were not present before.
	NewlyArrived []domain.ShortageRecord
}

// CallsResult is the outcome of a call merge.
type CallsResult struct {
	Next         []domain.CallRecord
	Changed      bool
	NewlyArrived []domain.CallRecord
}

// Shortages merges an incoming batch into the existing collection.
//
// Behavior:
//   - Duplicate IDs within the batch are dropped first-wins.
//   - An incoming record replaces its existing counterpart, except that a
//     resolved record stays resolved when the batch says pending — unless
//     src is the prediction source, whose batches are fresh risk cycles
//     allowed to reopen.
//   - Existing records absent from the batch are retained in place; new
//     records append in batch order.
func Shortages(existing, incoming []domain.ShortageRecord, src domain.Source) Result {
	incoming = dedupShortages(incoming)

	byID := make(map[string]domain.ShortageRecord, len(incoming))
	for _, rec := range incoming {
		byID[rec.ID] = rec
	}

	next := make([]domain.ShortageRecord, 0, len(existing)+len(incoming))
	seen := make(map[string]struct{}, len(existing))
	for _, old := range existing {
		seen[old.ID] = struct{}{}
		rec, ok := byID[old.ID]
		if !ok {
			next = append(next, old)
			continue
		}
		if old.Status == domain.StatusResolved && rec.Status == domain.StatusPending && src != domain.SourcePrediction {
			rec.Status = domain.StatusResolved
		}
		next = append(next, rec)
	}

	var arrived []domain.ShortageRecord
	for _, rec := range incoming {
		if _, ok := seen[rec.ID]; ok {
			continue
		}
		next = append(next, rec)
		arrived = append(arrived, rec)
	}

	return Result{
		Next:         next,
		Changed:      !reflect.DeepEqual(existing, next),
		NewlyArrived: arrived,
	}
}

// Replace applies full-replacement semantics: the incoming batch becomes the
// collection, deduplicated first-wins. Used by webhook array writes, where
// the sender owns the complete state.
func Replace(incoming []domain.ShortageRecord) []domain.ShortageRecord {
	return dedupShortages(incoming)
}

// Calls merges an incoming call batch into the existing collection.
//
// List polls deliver placeholder records (no transcript, no caller
// identity); an earlier detail fetch must not be undone by the next poll,
// so enrichment fields survive when the incoming record leaves them empty.
// The merged collection is kept in descending time order.
func Calls(existing, incoming []domain.CallRecord) CallsResult {
	byID := make(map[string]domain.CallRecord, len(existing))
	for _, c := range existing {
		byID[c.ID] = c
	}

	next := make([]domain.CallRecord, 0, len(existing)+len(incoming))
	merged := make(map[string]struct{}, len(incoming))
	var arrived []domain.CallRecord
	for _, in := range incoming {
		if in.ID == "" {
			continue
		}
		if _, dup := merged[in.ID]; dup {
			continue
		}
		merged[in.ID] = struct{}{}
		old, ok := byID[in.ID]
		if !ok {
			next = append(next, in)
			arrived = append(arrived, in)
			continue
		}
		next = append(next, enrichCall(old, in))
	}
	for _, old := range existing {
		if _, ok := merged[old.ID]; !ok {
			next = append(next, old)
		}
	}

	sortCallsDesc(next)
	return CallsResult{
		Next:         next,
		Changed:      !reflect.DeepEqual(existing, next),
		NewlyArrived: arrived,
	}
}

// UpsertCall inserts or updates a single call, preserving enrichment the
// same way a batch merge does.
func UpsertCall(existing []domain.CallRecord, in domain.CallRecord) ([]domain.CallRecord, bool) {
	res := Calls(existing, []domain.CallRecord{in})
	return res.Next, res.Changed
}

// ReplaceCalls applies full-replacement semantics to the call collection,
// deduplicated first-wins and sorted most recent first.
func ReplaceCalls(incoming []domain.CallRecord) []domain.CallRecord {
	next := make([]domain.CallRecord, 0, len(incoming))
	seen := make(map[string]struct{}, len(incoming))
	for _, c := range incoming {
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		next = append(next, c)
	}
	sortCallsDesc(next)
	return next
}

// AutoResolve marks pending shortages resolved when a resolution row
// confirms the product was replaced. Rows match by product ID against the
// SKU or by product name, both case- and whitespace-insensitive. Already
// resolved records are untouched, so applying the same rows twice is a
// no-op.
func AutoResolve(shortages []domain.ShortageRecord, rows []domain.ResolutionRow) (next []domain.ShortageRecord, resolved []domain.ShortageRecord, changed bool) {
	next = make([]domain.ShortageRecord, len(shortages))
	copy(next, shortages)

	for i, s := range next {
		if s.Status == domain.StatusResolved {
			continue
		}
		for _, row := range rows {
			if row.Replaced == nil || !*row.Replaced {
				continue
			}
			sameID := row.ProductID != "" && domain.NormalizeIdentity(row.ProductID) == domain.NormalizeIdentity(s.SKU)
			sameName := row.ProductName != "" && domain.NormalizeIdentity(row.ProductName) == domain.NormalizeIdentity(s.ProductName)
			if !sameID && !sameName {
				continue
			}
			next[i].Status = domain.StatusResolved
			resolved = append(resolved, next[i])
			changed = true
			break
		}
	}
	return next, resolved, changed
}

func dedupShortages(in []domain.ShortageRecord) []domain.ShortageRecord {
	out := make([]domain.ShortageRecord, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, rec := range in {
		if _, dup := seen[rec.ID]; dup {
			continue
		}
		seen[rec.ID] = struct{}{}
		out = append(out, rec)
	}
	return out
}

// enrichCall overlays the incoming record on the old one while keeping
// detail-fetch enrichment the incoming list item lacks.
func enrichCall(old, in domain.CallRecord) domain.CallRecord {
	if len(in.Transcript) == 0 && len(old.Transcript) > 0 {
		in.Transcript = old.Transcript
	}
	if in.AudioURL == "" {
		in.AudioURL = old.AudioURL
	}
	if in.PhotoURL == "" {
		in.PhotoURL = old.PhotoURL
	}
	if in.RelatedOrderID == nil {
		in.RelatedOrderID = old.RelatedOrderID
	}
	if in.RelatedSKU == nil {
		in.RelatedSKU = old.RelatedSKU
	}
	if in.CustomerName == "" || (in.CustomerName == "Customer" && old.CustomerName != "") {
		in.CustomerName = old.CustomerName
	}
	return in
}

// sortCallsDesc orders calls most recent first. Timestamps are RFC3339 so
// unparsable values sort by raw string as a tiebreak.
func sortCallsDesc(calls []domain.CallRecord) {
	sort.SliceStable(calls, func(i, j int) bool {
		ti, erri := time.Parse(time.RFC3339, calls[i].Time)
		tj, errj := time.Parse(time.RFC3339, calls[j].Time)
		if erri != nil || errj != nil {
			return calls[i].Time > calls[j].Time
		}
		return ti.After(tj)
	})
}
