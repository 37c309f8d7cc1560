package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(srvURL string) *Client {
	return NewClient(Options{
		ExampleDataURL:   srvURL + "/example-data",
		PredictionURL:    srvURL + "/predict",
		ConversationsURL: srvURL + "/v1/convai",
		AgentID:          "agent-1",
		APIKey:           "secret",
		Timeout:          2 * time.Second,
	})
}

func TestExampleOrders_PrecedenceAndExtraction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"cake_bakery_order":       {"data": {"orders": [{"order_number": "C-1"}]}},
			"multi_customer_orders":   {"data": {"orders": [{"order_number": "M-1"}, {"order_number": "M-2"}]}}
		}`))
	}))
	defer srv.Close()

	orders, err := newTestClient(srv.URL).ExampleOrders(context.Background())
	if err != nil {
		t.Fatalf("ExampleOrders: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("got %d orders, want 2 (multi_customer_orders must win)", len(orders))
	}
	first, _ := orders[0].(map[string]any)
	if first["order_number"] != "M-1" {
		t.Errorf("unexpected first order: %v", orders[0])
	}
}

func TestExampleOrders_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	orders, err := newTestClient(srv.URL).ExampleOrders(context.Background())
	if err != nil {
		t.Fatalf("empty body must not error: %v", err)
	}
	if orders != nil {
		t.Errorf("expected nil orders, got %v", orders)
	}
}

func TestGetJSON_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).ResolutionRows(context.Background(), srv.URL+"/rows")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if se.Status != http.StatusBadGateway {
		t.Errorf("Status = %d, want 502", se.Status)
	}
}

func TestGetJSON_ParseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).ResolutionRows(context.Background(), srv.URL+"/rows")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if len(pe.Body) == 0 {
		t.Error("ParseError.Body should retain the offending payload")
	}
}

func TestResolutionRows_EmptyBodyIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	rows, err := newTestClient(srv.URL).ResolutionRows(context.Background(), srv.URL+"/rows")
	if err != nil {
		t.Fatalf("empty body must decode to nil, got error: %v", err)
	}
	if rows != nil {
		t.Errorf("expected nil rows, got %v", rows)
	}
}

func TestConversations_SendsAPIKeyAndAgentID(t *testing.T) {
	var gotKey, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("xi-api-key")
		gotAgent = r.URL.Query().Get("agent_id")
		w.Write([]byte(`{"conversations": []}`))
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).Conversations(context.Background()); err != nil {
		t.Fatalf("Conversations: %v", err)
	}
	if gotKey != "secret" {
		t.Errorf("xi-api-key = %q, want %q", gotKey, "secret")
	}
	if gotAgent != "agent-1" {
		t.Errorf("agent_id = %q, want %q", gotAgent, "agent-1")
	}
}

func TestConversations_Unconfigured(t *testing.T) {
	c := NewClient(Options{})
	out, err := c.Conversations(context.Background())
	if err != nil || out != nil {
		t.Fatalf("unconfigured client should be a no-op, got (%v, %v)", out, err)
	}
}

func TestConversationAudio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/convai/conversations/conv-9/audio" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte{0xFF, 0xFB})
	}))
	defer srv.Close()

	body, ct, err := newTestClient(srv.URL).ConversationAudio(context.Background(), "conv-9")
	if err != nil {
		t.Fatalf("ConversationAudio: %v", err)
	}
	if ct != "audio/mpeg" {
		t.Errorf("content type = %q", ct)
	}
	if len(body) != 2 {
		t.Errorf("body length = %d, want 2", len(body))
	}
}

func TestPredictionBatch_PostsOrders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		w.Write([]byte(`{"orders": []}`))
	}))
	defer srv.Close()

	out, err := newTestClient(srv.URL).PredictionBatch(context.Background(), []any{map[string]any{"order_number": "O-1"}})
	if err != nil {
		t.Fatalf("PredictionBatch: %v", err)
	}
	if out == nil {
		t.Fatal("expected decoded response")
	}
}

func TestFetch_PassesThroughStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))
	defer srv.Close()

	status, body, err := newTestClient(srv.URL).Fetch(context.Background(), srv.URL+"/raw")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if status != http.StatusTeapot {
		t.Errorf("status = %d", status)
	}
	if string(body) != "short and stout" {
		t.Errorf("body = %q", body)
	}
}
