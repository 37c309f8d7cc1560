// Proxy HTTP handlers.
//
// This file exposes the two server-side proxy endpoints that shield browser
// clients from the external webhook platform (CORS, credentials):
//   - GET /observed-shortages
//   - GET /outbound-shortages
//
// The proxy is deliberately dumb about payload shape, but defensive about
// transport: an empty upstream body becomes an empty array, a non-2xx status
// passes through as an error envelope, and unparsable JSON maps to 502 so
// upstream bugs are distinguishable from ours.
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ObservedShortages godoc
// @ID          observedShortages
// @Summary     Proxy the observed-shortages webhook
// @Description Forwards the observed-shortages webhook response verbatim. An empty upstream body yields an empty array.
// @Tags        Proxies
// @Produce     json
//
// @Success     200  {array}   any
// @Failure     500  {object}  handlers.ErrorResponse  "Webhook URL not configured"
// @Failure     502  {object}  handlers.ErrorResponse  "Upstream unreachable or returned invalid JSON"
// @Router      /observed-shortages [get]
func (h *Handlers) ObservedShortages(c *gin.Context) {
	h.proxyJSON(c, h.observedURL, "observed webhook URL not configured")
}

// OutboundShortages godoc
// @ID          outboundShortages
// @Summary     Proxy the outbound-resolution webhook
// @Description Forwards the outbound-resolution webhook response verbatim. An empty upstream body yields an empty array.
// @Tags        Proxies
// @Produce     json
//
// @Success     200  {array}   any
// @Failure     500  {object}  handlers.ErrorResponse  "Webhook URL not configured"
// @Failure     502  {object}  handlers.ErrorResponse  "Upstream unreachable or returned invalid JSON"
// @Router      /outbound-shortages [get]
func (h *Handlers) OutboundShortages(c *gin.Context) {
	h.proxyJSON(c, h.outboundURL, "outbound webhook URL not configured")
}

// proxyJSON implements the shared passthrough contract for both proxies.
func (h *Handlers) proxyJSON(c *gin.Context, url, missingMsg string) {
	if url == "" {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, missingMsg)
		return
	}

	status, body, err := h.proxy.Fetch(c.Request.Context(), url)
	if err != nil {
		fail(c, http.StatusBadGateway, ErrCodeUpstreamFailed, err.Error())
		return
	}
	if status < 200 || status >= 300 {
		fail(c, status, ErrCodeUpstreamFailed, fmt.Sprintf("upstream returned status %d", status))
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		ok(c, http.StatusOK, []any{})
		return
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		fail(c, http.StatusBadGateway, ErrCodeUpstreamInvalid, "upstream returned invalid JSON")
		return
	}
	ok(c, http.StatusOK, payload)
}
