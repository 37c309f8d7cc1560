// Call-trigger HTTP handler.
//
// POST /trigger-call forwards a manual "call this customer now" request to
// the automation platform. Without a configured trigger webhook the request
// is acknowledged and logged only, which keeps demo deployments working.
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// TriggerCallRequest is the JSON payload for triggering an outbound call.
type TriggerCallRequest struct {
	// ShortageID identifies the shortage the agent should call about.
	ShortageID string `json:"shortageId" binding:"required" example:"ORD-2025-001-VAL-MLK-001"`
}

// TriggerCallResponse acknowledges a trigger request.
type TriggerCallResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"AI call triggered for shortage ORD-2025-001-VAL-MLK-001"`
}

// TriggerCall godoc
// @ID          triggerCall
// @Summary     Trigger an outbound call
// @Description Asks the voice agent to dial the customer affected by the given shortage.
// @Tags        Calls
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.TriggerCallRequest  true  "Trigger payload"
//
// @Success     200  {object}  handlers.TriggerCallResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing shortageId"
// @Failure     502  {object}  handlers.ErrorResponse  "Trigger webhook rejected the request"
// @Router      /trigger-call [post]
func (h *Handlers) TriggerCall(c *gin.Context) {
	var req TriggerCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "shortageId is required")
		return
	}

	if err := h.callSvc.TriggerCall(c.Request.Context(), req.ShortageID); err != nil {
		fail(c, http.StatusBadGateway, ErrCodeTriggerFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, TriggerCallResponse{
		Success: true,
		Message: fmt.Sprintf("AI call triggered for shortage %s", req.ShortageID),
	})
}
