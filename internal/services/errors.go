// Package services implements the business logic between the HTTP layer and
// the store: prediction refresh cycles, call-log synchronization, observed
// shortage recomputation, and call triggering. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed
// at the handler layer.
package services

import "errors"

var (
	// ErrCallNotFound indicates that the requested call does not exist in
	// the store.
	ErrCallNotFound = errors.New("call not found")

	// ErrAudioUnavailable is returned when the call system has no recording
	// for the requested conversation.
	ErrAudioUnavailable = errors.New("call audio not available")
)
