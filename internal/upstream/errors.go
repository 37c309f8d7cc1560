// Package upstream – error taxonomy
//
// This file defines the typed errors the source adapters return so callers
// can distinguish the three upstream failure modes: a reachable endpoint
// answering with a non-2xx status (StatusError), a 2xx answer whose body is
// not valid JSON (ParseError), and plain wrapped transport errors for
// everything else (DNS, TLS, timeouts). Services check these with errors.As
// and decide per source whether to keep last-known-good data or surface the
// failure.
package upstream

import "fmt"

// StatusError reports a non-2xx response from an upstream endpoint. The
// body, if any, is discarded; proxy endpoints that need status passthrough
// use Client.Fetch instead of the typed adapters.
type StatusError struct {
	// URL is the request URL that produced the response.
	URL string
	// Status is the HTTP status code received.
	Status int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s: unexpected status %d", e.URL, e.Status)
}

// ParseError reports a 2xx response whose body could not be decoded as JSON.
type ParseError struct {
	// URL is the request URL that produced the body.
	URL string
	// Body holds a truncated copy of the offending payload for logging.
	Body []byte
	// Err is the underlying decode error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("upstream %s: invalid JSON body: %v", e.URL, e.Err)
}

// Unwrap exposes the underlying decode error for errors.Is/As chains.
func (e *ParseError) Unwrap() error { return e.Err }
