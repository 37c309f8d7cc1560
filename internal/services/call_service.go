// Package services – CallService
//
// This file implements call-log synchronization against the voice-agent
// API, lazy transcript enrichment on detail reads, audio passthrough, and
// manual call triggering. The list poll only carries summary items, so a
// record's transcript is fetched the first time someone opens the call and
// written back to the store; subsequent polls must not undo it (the
// reconcile rules guarantee that).
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/valio-aimo/go-ops-backend/internal/domain"
	"github.com/valio-aimo/go-ops-backend/internal/normalize"
	"github.com/valio-aimo/go-ops-backend/internal/store"
	"github.com/valio-aimo/go-ops-backend/internal/upstream"
)

// newCallsTotal counts calls that appeared for the first time in a poll;
// each increment corresponds to one operator notification in the log.
var newCallsTotal = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "calls_new_total",
	Help: "Total number of newly observed calls across polls.",
})

func init() {
	prometheus.MustRegister(newCallsTotal)
}

// CallSource defines the upstream contract required by CallService.
type CallSource interface {
	// Conversations lists the agent's conversations (summary items).
	Conversations(ctx context.Context) (any, error)

	// Conversation fetches one conversation with its full transcript.
	Conversation(ctx context.Context, id string) (any, error)

	// ConversationAudio fetches the recording bytes and content type.
	ConversationAudio(ctx context.Context, id string) ([]byte, string, error)

	// Post sends a raw JSON payload, used for the call-trigger webhook.
	Post(ctx context.Context, url string, payload []byte) (int, []byte, error)
}

// CallService owns the call side of the store.
type CallService struct {
	Source     CallSource
	Store      *store.Store
	TriggerURL string
	Log        zerolog.Logger
}

// NewCallService constructs a CallService. An empty trigger URL makes
// TriggerCall acknowledge without forwarding (demo behavior).
func NewCallService(src CallSource, st *store.Store, triggerURL string, log zerolog.Logger) *CallService {
	return &CallService{Source: src, Store: st, TriggerURL: triggerURL, Log: log}
}

// Refresh runs one call-log poll. Upstream failure leaves the store's
// last-known-good calls in place; an empty upstream list does too, so a
// temporarily blank API cannot wipe the log.
func (s *CallService) Refresh(ctx context.Context) error {
	raw, err := s.Source.Conversations(ctx)
	if err != nil {
		return err
	}
	incoming := normalize.Calls(raw)
	if len(incoming) == 0 {
		s.Log.Debug().Msg("call system returned no conversations; keeping current log")
		return nil
	}

	res := s.Store.ApplyCalls(incoming)
	for _, c := range res.NewlyArrived {
		newCallsTotal.Inc()
		s.Log.Info().
			Str("id", c.ID).
			Str("customer", c.CustomerName).
			Str("status", string(c.Status)).
			Msg("new call observed")
	}
	return nil
}

// Calls returns the stored call log, most recent first. A positive limit
// caps the result.
func (s *CallService) Calls(limit int) []domain.CallRecord {
	return s.Store.Calls(limit)
}

// Call returns one call by ID, enriching it with the full transcript from
// the call system when the stored record only has list-poll data.
// Enrichment is best-effort: a failed detail fetch logs and falls back to
// the stored record.
func (s *CallService) Call(ctx context.Context, id string) (domain.CallRecord, error) {
	rec, ok := s.Store.Call(id)
	if !ok {
		return domain.CallRecord{}, ErrCallNotFound
	}
	if len(rec.Transcript) > 0 {
		return rec, nil
	}

	raw, err := s.Source.Conversation(ctx, id)
	if err != nil || raw == nil {
		if err != nil {
			s.Log.Warn().Err(err).Str("id", id).Msg("transcript enrichment failed; serving stored record")
		}
		return rec, nil
	}
	detail, ok := raw.(map[string]any)
	if !ok {
		return rec, nil
	}
	enriched := normalize.CallFromDetail(detail)
	if enriched.ID == "" {
		return rec, nil
	}
	s.Store.UpsertCall(enriched)
	if merged, ok := s.Store.Call(id); ok {
		return merged, nil
	}
	return rec, nil
}

// CallAudio returns the recording for one call.
func (s *CallService) CallAudio(ctx context.Context, id string) ([]byte, string, error) {
	if _, ok := s.Store.Call(id); !ok {
		return nil, "", ErrCallNotFound
	}
	body, ct, err := s.Source.ConversationAudio(ctx, id)
	if err != nil {
		var se *upstream.StatusError
		if errors.As(err, &se) && se.Status == 404 {
			return nil, "", ErrAudioUnavailable
		}
		return nil, "", err
	}
	return body, ct, nil
}

// TriggerCall asks the call system to dial the customer for a shortage.
// With no trigger webhook configured the request is acknowledged without
// side effects, which is the demo deployment's behavior.
func (s *CallService) TriggerCall(ctx context.Context, shortageID string) error {
	s.Log.Info().Str("shortage_id", shortageID).Msg("call trigger requested")
	if s.TriggerURL == "" {
		return nil
	}
	payload := []byte(fmt.Sprintf(`{"shortageId":%q,"action":"trigger_call"}`, shortageID))
	status, _, err := s.Source.Post(ctx, s.TriggerURL, payload)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return &upstream.StatusError{URL: s.TriggerURL, Status: status}
	}
	return nil
}

// Webhook writes to the call collection.

// UpsertCall applies a single webhook call write.
func (s *CallService) UpsertCall(rec domain.CallRecord) error {
	if err := domain.ValidateCall(rec); err != nil {
		return err
	}
	s.Store.UpsertCall(rec)
	s.Log.Info().Str("id", rec.ID).Msg("call upserted via webhook")
	return nil
}

// ReplaceCalls applies a full-replacement webhook write. Every element must
// validate; the first failure rejects the whole batch.
func (s *CallService) ReplaceCalls(recs []domain.CallRecord) error {
	for _, rec := range recs {
		if err := domain.ValidateCall(rec); err != nil {
			return err
		}
	}
	s.Store.ReplaceCalls(recs)
	s.Log.Info().Int("count", len(recs)).Msg("calls replaced via webhook")
	return nil
}
