// Package services defines the business logic behind the code-correction API.
// This file centralizes service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import "errors"

var (
	// ErrNoCorrector is returned when PatchService has no Corrector wired in.
	ErrNoCorrector = errors.New("no corrector configured")
)

// Caller-facing validation messages.
const (
	MsgNotJSON      = "Request must be JSON: {'code': 'raw python string'}"
	MsgInvalidField = "Field 'code' is required and must be a string."
)
