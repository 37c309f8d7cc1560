// Call HTTP handlers.
//
// This file exposes REST endpoints for the call log:
//   - GET  /calls             (list, most recent first)
//   - GET  /calls/{id}        (detail, lazy transcript enrichment)
//   - GET  /calls/{id}/audio  (recording passthrough)
//   - POST /webhooks/calls    (array replaces, object upserts)
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/valio-aimo/go-ops-backend/internal/domain"
	"github.com/valio-aimo/go-ops-backend/internal/services"
	"github.com/valio-aimo/go-ops-backend/internal/utils"
)

// ListCalls godoc
// @ID          listCalls
// @Summary     List calls
// @Description Returns the reconciled call log in descending time order. A positive limit caps the result.
// @Tags        Calls
// @Produce     json
//
// @Param       limit  query  int  false  "Maximum number of calls"  minimum(1)
//
// @Success     200  {array}  domain.CallRecord
// @Router      /calls [get]
func (h *Handlers) ListCalls(c *gin.Context) {
	limit := utils.AtoiDefault(c.Query("limit"), 0)
	if limit < 0 {
		limit = 0
	}
	ok(c, http.StatusOK, h.callSvc.Calls(limit))
}

// GetCall godoc
// @ID          getCall
// @Summary     Get one call
// @Description Returns a call by ID. When the stored record only carries list-poll data, the full transcript is fetched from the call system first.
// @Tags        Calls
// @Produce     json
//
// @Param       id  path  string  true  "Call ID"  example(conv_01jxyz)
//
// @Success     200  {object}  domain.CallRecord
// @Failure     404  {object}  handlers.ErrorResponse  "Call not found"
// @Router      /calls/{id} [get]
func (h *Handlers) GetCall(c *gin.Context) {
	rec, err := h.callSvc.Call(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrCallNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "call not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, rec)
}

// GetCallAudio godoc
// @ID          getCallAudio
// @Summary     Get call recording
// @Description Streams the call recording from the call system. The response carries the upstream content type, typically audio/mpeg.
// @Tags        Calls
// @Produce     octet-stream
//
// @Param       id  path  string  true  "Call ID"
//
// @Success     200  {file}    file
// @Failure     404  {object}  handlers.ErrorResponse  "Call unknown or no recording"
// @Failure     502  {object}  handlers.ErrorResponse  "Call system unreachable"
// @Router      /calls/{id}/audio [get]
func (h *Handlers) GetCallAudio(c *gin.Context) {
	body, ct, err := h.callSvc.CallAudio(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCallNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "call not found")
		case errors.Is(err, services.ErrAudioUnavailable):
			fail(c, http.StatusNotFound, ErrCodeAudioUnavailable, "no recording available for this call")
		default:
			fail(c, http.StatusBadGateway, ErrCodeUpstreamFailed, err.Error())
		}
		return
	}
	c.Data(http.StatusOK, ct, body)
}

// WriteCalls godoc
// @ID          writeCalls
// @Summary     Write calls via webhook
// @Description An array body replaces the whole call log; an object body upserts a single call by ID. Every record must validate.
// @Tags        Webhooks
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string             false "Delivery dedup key"
// @Param       body             body    domain.CallRecord  true  "Call record or array of call records"
//
// @Success     200  {object}  handlers.WebhookAck
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid payload"
// @Router      /webhooks/calls [post]
func (h *Handlers) WriteCalls(c *gin.Context) {
	var raw json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeInvalidPayload, "invalid call data structure")
		return
	}

	if isJSONArray(raw) {
		h.replaceCalls(c, raw)
		return
	}
	h.upsertCall(c, raw)
}

func (h *Handlers) replaceCalls(c *gin.Context, raw json.RawMessage) {
	var recs []domain.CallRecord
	if err := json.Unmarshal(raw, &recs); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeInvalidPayload, "invalid call data structure")
		return
	}

	if h.replayed(c) {
		ok(c, http.StatusOK, WebhookAck{Success: true, Message: fmt.Sprintf("Updated %d calls (full replacement)", len(recs)), Count: len(recs)})
		return
	}
	if err := h.callSvc.ReplaceCalls(recs); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			fail(c, http.StatusBadRequest, ErrCodeInvalidPayload, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	h.recordDelivery(c)

	ok(c, http.StatusOK, WebhookAck{Success: true, Message: fmt.Sprintf("Updated %d calls (full replacement)", len(recs)), Count: len(recs)})
}

func (h *Handlers) upsertCall(c *gin.Context, raw json.RawMessage) {
	var rec domain.CallRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeInvalidPayload, "invalid call data structure")
		return
	}

	if h.replayed(c) {
		ok(c, http.StatusOK, WebhookAck{Success: true, Message: "Call added/updated successfully", CallID: rec.ID})
		return
	}
	if err := h.callSvc.UpsertCall(rec); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			fail(c, http.StatusBadRequest, ErrCodeInvalidPayload, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	h.recordDelivery(c)

	ok(c, http.StatusOK, WebhookAck{Success: true, Message: "Call added/updated successfully", CallID: rec.ID})
}

// isJSONArray reports whether the payload's first significant byte opens an
// array, which selects full-replacement semantics.
func isJSONArray(raw []byte) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}
