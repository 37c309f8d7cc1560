// Package normalize – call-system payloads
//
// This file maps the voice agent's conversation payloads onto call records.
// The list endpoint delivers summary items without transcripts; the detail
// endpoint delivers the full conversation. Both mappings share the status
// translation and the outcome heuristics, which classify a call from its
// transcript when the upstream analysis does not say.
package normalize

import (
	"strings"
	"time"

	"github.com/valio-aimo/go-ops-backend/internal/domain"
	"github.com/valio-aimo/go-ops-backend/internal/format"
)

// defaultCustomer is used when no external number identifies the caller.
const defaultCustomer = "Customer"

// defaultSummary is the last-resort call summary.
const defaultSummary = "Call conversation"

// creditKeywords mark a credits/refund resolution in either language.
var creditKeywords = []string{"krediitti", "credit", "raha", "refund"}

// acceptKeywords mark replacement acceptance in Finnish or English.
var acceptKeywords = []string{"sopii", "käy", "hyväksyn", "ok", "yes", "accept"}

// Calls maps a conversation-list payload onto call records. The payload is
// either a bare array or an object with a "conversations" key.
func Calls(raw any) []domain.CallRecord {
	items, ok := raw.([]any)
	if !ok {
		items, _ = asMap(raw)["conversations"].([]any)
	}
	out := []domain.CallRecord{}
	for _, it := range items {
		if item := asMap(it); item != nil {
			out = append(out, CallFromListItem(item))
		}
	}
	return out
}

// CallFromListItem maps one conversation-list entry onto a call record.
// List entries carry no transcript and no caller identity; the transcript
// stays empty until a detail fetch enriches the record, and the customer
// name takes its placeholder default.
func CallFromListItem(item map[string]any) domain.CallRecord {
	id := str(item, "conversation_id")
	rawStatus := str(item, "status")
	msgCount, _ := num(item, "message_count")
	hasTranscript := str(item, "transcript_summary") != "" || msgCount > 0
	status := callStatus(rawStatus, hasTranscript)

	outcome := domain.OutcomeIncomplete
	if rawStatus == "done" && str(item, "call_successful") == "success" {
		summaryText := strings.ToLower(str(item, "transcript_summary") + " " + str(item, "call_summary_title"))
		if containsAny(summaryText, creditKeywords) {
			outcome = domain.OutcomeCreditsOnly
		} else {
			outcome = domain.OutcomeReplacementAccepted
		}
	}

	summary := str(item, "call_summary_title", "transcript_summary")
	if summary == "" {
		summary = defaultSummary
	}

	rec := domain.CallRecord{
		ID:           id,
		Time:         isoTime(item, "start_time_unix_secs"),
		CustomerName: defaultCustomer,
		Direction:    callDirection(str(item, "direction")),
		Language:     "fi",
		Status:       status,
		Outcome:      outcome,
		Summary:      summary,
		Transcript:   []domain.TranscriptTurn{},
	}
	if d, ok := num(item, "call_duration_secs"); ok {
		rec.DurationSeconds = int(d)
	} else if d, ok := num(asMap(item["metadata"]), "call_duration_secs"); ok {
		rec.DurationSeconds = int(d)
	}
	if rawStatus == "done" && str(item, "call_successful") == "success" {
		rec.AudioURL = audioPath(id)
	}
	return rec
}

// CallFromDetail maps one full conversation payload onto a call record,
// including the transcript, the caller's external number, and the
// transcript-based outcome heuristics.
func CallFromDetail(conv map[string]any) domain.CallRecord {
	id := str(conv, "conversation_id")
	rawStatus := str(conv, "status")
	meta := asMap(conv["metadata"])
	analysis := asMap(conv["analysis"])
	phone := asMap(meta["phone_call"])

	transcript := []domain.TranscriptTurn{}
	if turns, ok := conv["transcript"].([]any); ok {
		for _, t := range turns {
			turn := asMap(t)
			if turn == nil {
				continue
			}
			speaker := domain.SpeakerAgent
			if str(turn, "role") == "user" {
				speaker = domain.SpeakerCustomer
			}
			transcript = append(transcript, domain.TranscriptTurn{
				Speaker: speaker,
				Text:    str(turn, "message"),
			})
		}
	}

	hasTranscript := len(transcript) > 0 || str(analysis, "transcript_summary") != ""
	status := callStatus(rawStatus, hasTranscript)

	customer := str(phone, "external_number")
	if customer == "" {
		customer = defaultCustomer
	}

	outcome := domain.OutcomeIncomplete
	if str(analysis, "call_successful") == "success" {
		outcome = transcriptOutcome(transcript, rawStatus)
	}

	summary := str(analysis, "call_summary_title", "transcript_summary")
	if summary == "" {
		summary = transcriptSummary(transcript)
	}

	direction := str(phone, "direction")
	if direction == "" {
		direction = str(meta, "direction")
	}

	rec := domain.CallRecord{
		ID:           id,
		Time:         isoTime(meta, "start_time_unix_secs"),
		CustomerName: customer,
		Direction:    callDirection(direction),
		Language:     format.Language(str(meta, "main_language")),
		Status:       status,
		Outcome:      outcome,
		Summary:      summary,
		Transcript:   transcript,
	}
	if oid := str(meta, "order_id", "orderId"); oid != "" {
		rec.RelatedOrderID = &oid
	}
	if sku := str(meta, "sku", "product_sku"); sku != "" {
		rec.RelatedSKU = &sku
	}
	if d, ok := num(meta, "call_duration_secs"); ok {
		rec.DurationSeconds = int(d)
	}
	if hasAudio(conv) {
		rec.AudioURL = audioPath(id)
	}
	return rec
}

// callStatus translates the upstream lifecycle state. A present transcript
// means the call finished even when the upstream still reports an
// intermediate state other than processing/initiated.
func callStatus(raw string, hasTranscript bool) domain.CallStatus {
	switch {
	case raw == "processing" || raw == "initiated":
		return domain.CallInProgress
	case raw == "done" || hasTranscript:
		return domain.CallCompleted
	case raw == "failed":
		return domain.CallFailed
	default:
		return domain.CallCompleted
	}
}

func callDirection(raw string) domain.CallDirection {
	if raw == string(domain.DirectionInbound) {
		return domain.DirectionInbound
	}
	return domain.DirectionOutbound
}

// transcriptOutcome classifies a successful call from its transcript:
// credit/refund keywords win over acceptance keywords, and a transcript of
// at most one turn is incomplete.
func transcriptOutcome(transcript []domain.TranscriptTurn, rawStatus string) domain.CallOutcome {
	if rawStatus == "failed" || rawStatus == "processing" || rawStatus == "initiated" {
		return domain.OutcomeIncomplete
	}
	var b strings.Builder
	for _, t := range transcript {
		b.WriteString(strings.ToLower(t.Text))
		b.WriteString(" ")
	}
	text := b.String()
	if containsAny(text, creditKeywords) {
		return domain.OutcomeCreditsOnly
	}
	if containsAny(text, acceptKeywords) {
		return domain.OutcomeReplacementAccepted
	}
	if len(transcript) <= 1 {
		return domain.OutcomeIncomplete
	}
	return domain.OutcomeReplacementAccepted
}

// transcriptSummary falls back to the agent's opening line, clipped to 100
// runes.
func transcriptSummary(transcript []domain.TranscriptTurn) string {
	for _, t := range transcript {
		if t.Speaker != domain.SpeakerAgent {
			continue
		}
		if r := []rune(t.Text); len(r) > 100 {
			return string(r[:100]) + "..."
		}
		return t.Text
	}
	return defaultSummary
}

// isoTime converts a unix-seconds field to an ISO-8601 UTC timestamp,
// defaulting to the current time when absent.
func isoTime(m map[string]any, key string) string {
	if secs, ok := num(m, key); ok && secs > 0 {
		return time.Unix(int64(secs), 0).UTC().Format(time.RFC3339)
	}
	return time.Now().UTC().Format(time.RFC3339)
}

// audioPath is the backend's own audio-proxy route for a conversation.
func audioPath(id string) string {
	return "/api/calls/" + id + "/audio"
}

func hasAudio(conv map[string]any) bool {
	for _, key := range []string{"has_audio", "has_user_audio", "has_response_audio"} {
		if b, ok := conv[key].(bool); ok && b {
			return true
		}
	}
	return false
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
