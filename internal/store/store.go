// Package store holds the single in-memory reconciliation state: the
// shortage collection, the derived observed-shortages view, and the call
// log. State is deliberately not persisted; a restart reseeds from the
// demo dataset when enabled and the pollers rebuild the rest.
//
// Every mutation runs the relevant reconcile rule and swaps the collection
// inside one critical section, so readers never observe a half-merged
// batch. All read paths return copies.
package store

import (
	"sync"
	"time"

	"github.com/valio-aimo/go-ops-backend/internal/domain"
	"github.com/valio-aimo/go-ops-backend/internal/reconcile"
)

// Options configures a Store.
type Options struct {
	// Seed loads the demo fallback dataset on construction.
	Seed bool
	// IdempotencyTTL bounds how long webhook idempotency keys are
	// remembered. Zero falls back to 24h.
	IdempotencyTTL time.Duration
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Store is the mutex-guarded reconciliation state. Safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	shortages []domain.ShortageRecord
	observed  []domain.ShortageRecord
	calls     []domain.CallRecord

	idem    map[string]time.Time
	idemTTL time.Duration
	now     func() time.Time
}

// New builds a Store, optionally seeded with the demo dataset.
func New(opts Options) *Store {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.IdempotencyTTL <= 0 {
		opts.IdempotencyTTL = 24 * time.Hour
	}
	s := &Store{
		shortages: []domain.ShortageRecord{},
		observed:  []domain.ShortageRecord{},
		calls:     []domain.CallRecord{},
		idem:      map[string]time.Time{},
		idemTTL:   opts.IdempotencyTTL,
		now:       opts.Now,
	}
	if opts.Seed {
		s.shortages = SeedShortages()
		s.calls = SeedCalls(opts.Now())
	}
	return s
}

// Shortages returns a copy of the shortage collection.
func (s *Store) Shortages() []domain.ShortageRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyShortages(s.shortages)
}

// Observed returns a copy of the derived observed-shortages view.
func (s *Store) Observed() []domain.ShortageRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyShortages(s.observed)
}

// Calls returns a copy of the call collection, most recent first. A
// positive limit caps the result.
func (s *Store) Calls(limit int) []domain.CallRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	calls := s.calls
	if limit > 0 && limit < len(calls) {
		calls = calls[:limit]
	}
	return copyCalls(calls)
}

// Call returns one call by ID.
func (s *Store) Call(id string) (domain.CallRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.calls {
		if c.ID == id {
			return c, true
		}
	}
	return domain.CallRecord{}, false
}

// ApplyShortages merges an incoming batch under the source's merge rules
// and swaps in the result.
func (s *Store) ApplyShortages(incoming []domain.ShortageRecord, src domain.Source) reconcile.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := reconcile.Shortages(s.shortages, incoming, src)
	if res.Changed {
		s.shortages = res.Next
	}
	return res
}

// ReplaceShortages swaps in a full replacement of the shortage collection.
func (s *Store) ReplaceShortages(incoming []domain.ShortageRecord) {
	next := reconcile.Replace(incoming)
	s.mu.Lock()
	s.shortages = next
	s.mu.Unlock()
}

// UpsertShortage inserts or updates a single record via the webhook merge
// rules (a resolved record is not regressed).
func (s *Store) UpsertShortage(rec domain.ShortageRecord) bool {
	res := s.ApplyShortages([]domain.ShortageRecord{rec}, domain.SourceWebhook)
	return res.Changed
}

// ApplyResolutions runs auto-resolution over the shortage collection and
// reports which records it closed.
func (s *Store) ApplyResolutions(rows []domain.ResolutionRow) (resolved []domain.ShortageRecord, changed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, resolved, changed := reconcile.AutoResolve(s.shortages, rows)
	if changed {
		s.shortages = next
	}
	return resolved, changed
}

// SetObserved swaps in the recomputed observed-shortages view. The view is
// rebuilt wholesale each resolution poll, so this is a plain replacement.
func (s *Store) SetObserved(recs []domain.ShortageRecord) {
	s.mu.Lock()
	s.observed = copyShortages(recs)
	s.mu.Unlock()
}

// ApplyCalls merges an incoming call batch and swaps in the result.
func (s *Store) ApplyCalls(incoming []domain.CallRecord) reconcile.CallsResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := reconcile.Calls(s.calls, incoming)
	if res.Changed {
		s.calls = res.Next
	}
	return res
}

// ReplaceCalls swaps in a full replacement of the call collection.
func (s *Store) ReplaceCalls(incoming []domain.CallRecord) {
	next := reconcile.ReplaceCalls(incoming)
	s.mu.Lock()
	s.calls = next
	s.mu.Unlock()
}

// UpsertCall inserts or updates a single call, preserving enrichment.
func (s *Store) UpsertCall(rec domain.CallRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, changed := reconcile.UpsertCall(s.calls, rec)
	if changed {
		s.calls = next
	}
	return changed
}

// Remember records a webhook idempotency key. It returns false when the key
// was already seen within the TTL, meaning the write is a replay. Expired
// keys are pruned on the way through.
func (s *Store) Remember(key string) bool {
	if key == "" {
		return true
	}
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, exp := range s.idem {
		if now.After(exp) {
			delete(s.idem, k)
		}
	}
	if exp, ok := s.idem[key]; ok && now.Before(exp) {
		return false
	}
	s.idem[key] = now.Add(s.idemTTL)
	return true
}

// Seen reports whether key identifies a delivery recorded within the TTL.
// It never records the key itself; that is Remember's job. The idempotency
// middleware uses it to flag replays without consuming the key.
func (s *Store) Seen(key string) bool {
	if key == "" {
		return false
	}
	now := s.now()
	s.mu.RLock()
	defer s.mu.RUnlock()
	exp, ok := s.idem[key]
	return ok && now.Before(exp)
}

// Stats reports collection sizes for the records_held gauge.
func (s *Store) Stats() (shortages, observed, calls int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.shortages), len(s.observed), len(s.calls)
}

func copyShortages(in []domain.ShortageRecord) []domain.ShortageRecord {
	out := make([]domain.ShortageRecord, len(in))
	copy(out, in)
	return out
}

func copyCalls(in []domain.CallRecord) []domain.CallRecord {
	out := make([]domain.CallRecord, len(in))
	copy(out, in)
	return out
}
