// Package upstream – source adapters
//
// This file implements the HTTP client used to reach every external data
// source the backend polls or proxies: the example-order feed, the shortage
// prediction batch endpoint, the ElevenLabs conversational-AI API, and the
// outbound-resolution webhook. Every request is context-aware, sends
// Cache-Control: no-store so intermediaries never serve stale data, and is
// bounded by the configured client timeout. Adapters decode into loosely
// typed values (any); mapping onto domain records is the normalize package's
// job.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// parseErrBodyLimit caps how much of an unparsable payload is retained for
// logging.
const parseErrBodyLimit = 512

// Options configures a Client. Zero-valued URLs disable the corresponding
// adapter; services treat a disabled source as "nothing to fetch".
type Options struct {
	// ExampleDataURL serves the demo order batches the prediction cycle
	// starts from.
	ExampleDataURL string
	// PredictionURL accepts POST {"orders": [...]} and returns shortage
	// predictions in one of the historically accreted shapes.
	PredictionURL string
	// ConversationsURL is the base of the call-system API, up to and
	// including "/convai".
	ConversationsURL string
	// AgentID scopes conversation listings to one voice agent.
	AgentID string
	// APIKey is sent as the xi-api-key header on call-system requests.
	APIKey string
	// Timeout bounds every request end to end.
	Timeout time.Duration
}

// Client is the shared adapter for all upstream sources. It is safe for
// concurrent use.
type Client struct {
	http *http.Client
	opts Options
}

// NewClient builds a Client with the given options. A zero Timeout falls
// back to 15s.
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	return &Client{
		http: &http.Client{Timeout: opts.Timeout},
		opts: opts,
	}
}

// ExampleOrders fetches the example-data feed and extracts the raw order
// list. The feed nests its orders under one of several top-level example
// keys; they are tried in a fixed precedence order and the first hit wins.
// Returns nil when the source is not configured or no key yields orders.
func (c *Client) ExampleOrders(ctx context.Context) ([]any, error) {
	if c.opts.ExampleDataURL == "" {
		return nil, nil
	}
	body, err := c.get(ctx, c.opts.ExampleDataURL, nil)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, nil
	}
	var doc map[string]any
	if err := c.decode(c.opts.ExampleDataURL, body, &doc); err != nil {
		return nil, err
	}
	for _, key := range []string{"multi_customer_orders", "batch_orders_example", "cake_bakery_order"} {
		if orders, ok := ordersUnder(doc[key]); ok {
			return orders, nil
		}
	}
	return nil, nil
}

// ordersUnder digs "<example>.data.orders" out of one example entry.
func ordersUnder(v any) ([]any, bool) {
	entry, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	data, ok := entry["data"].(map[string]any)
	if !ok {
		return nil, false
	}
	orders, ok := data["orders"].([]any)
	if !ok || len(orders) == 0 {
		return nil, false
	}
	return orders, true
}

// PredictionBatch posts an order batch to the prediction endpoint and
// returns the decoded response. The response shape varies by deployment,
// so it comes back untyped for the normalize package to match.
func (c *Client) PredictionBatch(ctx context.Context, orders []any) (any, error) {
	if c.opts.PredictionURL == "" {
		return nil, nil
	}
	payload, err := json.Marshal(map[string]any{"orders": orders})
	if err != nil {
		return nil, fmt.Errorf("encode prediction batch: %w", err)
	}
	status, body, err := c.Post(ctx, c.opts.PredictionURL, payload)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &StatusError{URL: c.opts.PredictionURL, Status: status}
	}
	if len(body) == 0 {
		return nil, nil
	}
	var out any
	if err := c.decode(c.opts.PredictionURL, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Conversations lists the voice agent's conversations. Returns the decoded
// list payload untyped; nil when the call system is not configured.
func (c *Client) Conversations(ctx context.Context) (any, error) {
	if c.opts.ConversationsURL == "" || c.opts.APIKey == "" {
		return nil, nil
	}
	u := c.opts.ConversationsURL + "/conversations"
	if c.opts.AgentID != "" {
		u += "?agent_id=" + url.QueryEscape(c.opts.AgentID)
	}
	return c.getJSON(ctx, u, c.callHeaders())
}

// Conversation fetches the detail record for one conversation, including
// the full transcript.
func (c *Client) Conversation(ctx context.Context, id string) (any, error) {
	if c.opts.ConversationsURL == "" || c.opts.APIKey == "" {
		return nil, nil
	}
	u := c.opts.ConversationsURL + "/conversations/" + url.PathEscape(id)
	return c.getJSON(ctx, u, c.callHeaders())
}

// ConversationAudio fetches the recorded audio for one conversation. It
// returns the raw bytes and the upstream content type.
func (c *Client) ConversationAudio(ctx context.Context, id string) ([]byte, string, error) {
	u := c.opts.ConversationsURL + "/conversations/" + url.PathEscape(id) + "/audio"
	req, err := c.newRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, "", err
	}
	for k, v := range c.callHeaders() {
		req.Header.Set(k, v)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", u, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", &StatusError{URL: u, Status: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", u, err)
	}
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = "audio/mpeg"
	}
	return body, ct, nil
}

// ResolutionRows fetches the outbound-resolution webhook at url and decodes
// its row payload. An empty body means "no rows yet" and decodes to nil.
func (c *Client) ResolutionRows(ctx context.Context, rowsURL string) (any, error) {
	if rowsURL == "" {
		return nil, nil
	}
	return c.getJSON(ctx, rowsURL, nil)
}

// Fetch performs a raw GET and hands back status and body untouched. Proxy
// endpoints use it for status passthrough; only transport failures are
// errors here.
func (c *Client) Fetch(ctx context.Context, fetchURL string) (int, []byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return 0, nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("fetch %s: %w", fetchURL, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read %s: %w", fetchURL, err)
	}
	return resp.StatusCode, body, nil
}

// Post performs a raw JSON POST and hands back status and body untouched.
func (c *Client) Post(ctx context.Context, postURL string, payload []byte) (int, []byte, error) {
	req, err := c.newRequest(ctx, http.MethodPost, postURL, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("post %s: %w", postURL, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read %s: %w", postURL, err)
	}
	return resp.StatusCode, body, nil
}

// get performs a GET and enforces a 2xx status.
func (c *Client) get(ctx context.Context, getURL string, headers map[string]string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, getURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", getURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{URL: getURL, Status: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", getURL, err)
	}
	return body, nil
}

// getJSON is get plus tolerant JSON decoding: an empty body decodes to nil.
func (c *Client) getJSON(ctx context.Context, getURL string, headers map[string]string) (any, error) {
	body, err := c.get(ctx, getURL, headers)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	var out any
	if err := c.decode(getURL, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) newRequest(ctx context.Context, method, reqURL string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", reqURL, err)
	}
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) decode(reqURL string, body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		snippet := body
		if len(snippet) > parseErrBodyLimit {
			snippet = snippet[:parseErrBodyLimit]
		}
		return &ParseError{URL: reqURL, Body: snippet, Err: err}
	}
	return nil
}

func (c *Client) callHeaders() map[string]string {
	return map[string]string{"xi-api-key": c.opts.APIKey}
}
