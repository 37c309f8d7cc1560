// Shortage HTTP handlers.
//
// This file exposes REST endpoints for the shortage collection:
//   - GET  /predictions            (list, predicted + observed)
//   - POST /webhooks/prediction    (single upsert)
//   - POST /webhooks/predictions   (full array replacement)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses. Webhook writes honor the
// Idempotency-Key header; a retried delivery is acknowledged with the same
// success envelope without reapplying the write.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/valio-aimo/go-ops-backend/internal/domain"
	"github.com/valio-aimo/go-ops-backend/internal/http/middleware"
	"github.com/valio-aimo/go-ops-backend/internal/services"
)

//
// Service contracts
//

// ShortageService defines the shortage operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use.
type ShortageService interface {
	// Predictions returns the current predicted-shortage collection.
	Predictions() []domain.ShortageRecord
	// Upsert applies a single webhook shortage write without regressing a
	// resolved record.
	Upsert(rec domain.ShortageRecord) error
	// ReplaceAll swaps the whole predicted collection for the given batch.
	ReplaceAll(recs []domain.ShortageRecord) error
}

// ObservedViewer exposes the derived observed-shortages view.
type ObservedViewer interface {
	// Observed returns the latest observed-shortage projection.
	Observed() []domain.ShortageRecord
}

// CallService defines the call-log operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type CallService interface {
	// Calls returns stored calls, most recent first; limit > 0 caps the result.
	Calls(limit int) []domain.CallRecord
	// Call returns one call by ID, enriching the transcript lazily.
	Call(ctx context.Context, id string) (domain.CallRecord, error)
	// CallAudio returns the recording bytes and content type for one call.
	CallAudio(ctx context.Context, id string) ([]byte, string, error)
	// TriggerCall asks the voice agent to dial the customer for a shortage.
	TriggerCall(ctx context.Context, shortageID string) error
	// UpsertCall applies a single webhook call write.
	UpsertCall(rec domain.CallRecord) error
	// ReplaceCalls swaps the whole call log for the given batch.
	ReplaceCalls(recs []domain.CallRecord) error
}

// UpstreamFetcher performs raw GET passthrough for the proxy endpoints.
type UpstreamFetcher interface {
	// Fetch returns the upstream status and body without interpreting either.
	Fetch(ctx context.Context, url string) (int, []byte, error)
}

// DeliveryLog records accepted webhook delivery keys so retries can be
// detected and acknowledged without reapplying.
type DeliveryLog interface {
	// Remember records key and reports whether it was fresh.
	Remember(key string) bool
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for shortages, calls, proxies, and the
// call trigger. It depends on abstract service interfaces to keep transport
// concerns separate from business logic.
type Handlers struct {
	shortageSvc ShortageService
	observedSvc ObservedViewer
	callSvc     CallService
	proxy       UpstreamFetcher
	deliveries  DeliveryLog
	observedURL string
	outboundURL string
}

// New constructs a Handlers instance bound to the given services. The proxy
// URLs point at the observed- and outbound-shortage webhooks; an empty URL
// makes the corresponding proxy endpoint report misconfiguration.
func New(shortageSvc ShortageService, observedSvc ObservedViewer, callSvc CallService, proxy UpstreamFetcher, deliveries DeliveryLog, observedURL, outboundURL string) *Handlers {
	return &Handlers{
		shortageSvc: shortageSvc,
		observedSvc: observedSvc,
		callSvc:     callSvc,
		proxy:       proxy,
		deliveries:  deliveries,
		observedURL: observedURL,
		outboundURL: outboundURL,
	}
}

//
// DTOs
//

// WebhookAck is the success envelope returned by all webhook write endpoints.
// The shape is a fixed contract with the upstream automation platform.
type WebhookAck struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Updated 3 predictions"`
	// Count is set for batch writes.
	Count int `json:"count,omitempty" example:"3"`
	// PredictionID is set for single shortage writes.
	PredictionID string `json:"predictionId,omitempty" example:"ORD-2025-001-VAL-MLK-001"`
	// CallID is set for single call writes.
	CallID string `json:"callId,omitempty" example:"call-1"`
}

//
// Helpers
//

// replayed reports whether this request is a duplicate webhook delivery.
// recordDelivery is its write-side counterpart, called after a successful
// apply so a failed write does not consume the key.
func (h *Handlers) replayed(c *gin.Context) bool {
	_, hasKey := middleware.GetIdempotencyKey(c)
	return hasKey && middleware.IsReplay(c)
}

func (h *Handlers) recordDelivery(c *gin.Context) {
	if key, ok := middleware.GetIdempotencyKey(c); ok {
		h.deliveries.Remember(key)
	}
}

//
// Handlers
//

// ListPredictions godoc
// @ID          listPredictions
// @Summary     List shortage records
// @Description Returns the reconciled shortage collection: predicted shortages followed by the derived observed-shortages view.
// @Tags        Shortages
// @Produce     json
//
// @Success     200  {array}   domain.ShortageRecord
// @Router      /predictions [get]
func (h *Handlers) ListPredictions(c *gin.Context) {
	predicted := h.shortageSvc.Predictions()
	observed := h.observedSvc.Observed()

	out := make([]domain.ShortageRecord, 0, len(predicted)+len(observed))
	out = append(out, predicted...)
	out = append(out, observed...)
	ok(c, http.StatusOK, out)
}

// UpsertPrediction godoc
// @ID          upsertPrediction
// @Summary     Upsert one shortage record
// @Description Adds or updates a single shortage. A resolved record is not regressed by the write.
// @Tags        Webhooks
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string                 false "Delivery dedup key"
// @Param       body             body    domain.ShortageRecord  true  "Shortage record"
//
// @Success     200  {object}  handlers.WebhookAck
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid payload"
// @Router      /webhooks/prediction [post]
func (h *Handlers) UpsertPrediction(c *gin.Context) {
	var rec domain.ShortageRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeInvalidPayload, "invalid prediction data structure")
		return
	}

	if h.replayed(c) {
		ok(c, http.StatusOK, WebhookAck{Success: true, Message: "Prediction updated/added successfully", PredictionID: rec.ID})
		return
	}
	if err := h.shortageSvc.Upsert(rec); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			fail(c, http.StatusBadRequest, ErrCodeInvalidPayload, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	h.recordDelivery(c)

	ok(c, http.StatusOK, WebhookAck{Success: true, Message: "Prediction updated/added successfully", PredictionID: rec.ID})
}

// ReplacePredictions godoc
// @ID          replacePredictions
// @Summary     Replace the shortage collection
// @Description Swaps the whole predicted-shortage collection for the posted array. Every element must validate; the first failure rejects the batch.
// @Tags        Webhooks
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string                   false "Delivery dedup key"
// @Param       body             body    []domain.ShortageRecord  true  "Full shortage batch"
//
// @Success     200  {object}  handlers.WebhookAck
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid payload or non-array body"
// @Router      /webhooks/predictions [post]
func (h *Handlers) ReplacePredictions(c *gin.Context) {
	var recs []domain.ShortageRecord
	if err := c.ShouldBindJSON(&recs); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeInvalidPayload, "expected an array of predictions")
		return
	}

	if h.replayed(c) {
		ok(c, http.StatusOK, WebhookAck{Success: true, Message: fmt.Sprintf("Updated %d predictions", len(recs)), Count: len(recs)})
		return
	}
	if err := h.shortageSvc.ReplaceAll(recs); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			fail(c, http.StatusBadRequest, ErrCodeInvalidPayload, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	h.recordDelivery(c)

	ok(c, http.StatusOK, WebhookAck{Success: true, Message: fmt.Sprintf("Updated %d predictions", len(recs)), Count: len(recs)})
}

// Compile-time checks that the concrete services satisfy the contracts.
var (
	_ ShortageService = (*services.PredictionService)(nil)
	_ ObservedViewer  = (*services.ObservedService)(nil)
	_ CallService     = (*services.CallService)(nil)
)
