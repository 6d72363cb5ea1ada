// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes symbolic error code constants that are mapped to HTTP
// responses (via the `fail()` helper in this package). These codes give
// clients a stable, machine-readable taxonomy that supplements the
// human-readable error message.
//
// Conventions:
//   - Codes are lowercase, snake_case, and domain-agnostic unless noted.
//   - Generic codes (bad_request, not_found, conflict, ...) mirror common
//     HTTP status semantics.
//   - Domain-specific codes are reserved for business outcomes a status
//     alone cannot convey.
package handlers

// The middleware layer declares its own codes for the envelopes it owns
// (unauthorized, too_many_requests, internal_error on panic recovery).
const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeConflict         = "conflict"

	// Domain-specific:
	ErrCodeCardExhausted  = "card_number_exhausted"
	ErrCodeIntakeComplete = "intake_complete"
	ErrCodeUpstream       = "upstream_error"
)
