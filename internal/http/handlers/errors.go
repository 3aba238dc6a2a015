// Package handlers defines the HTTP-layer error titles used across all API endpoints.
//
// This file centralizes the `error` titles written into ErrorResponse by
// `fail()`. Titles mirror the HTTP reason phrase except for validation
// failures, which carry the domain title "Invalid payload".
//
// Conventions:
//   - Clients branch on the HTTP status; the title is a stable label for humans
//     and log searches.
//   - The `message` field carries the detail. For webhook failures it is a
//     single uniform sentence that never leaks downstream specifics.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "error": "Invalid payload",
//	  "message": "Field 'code' is required and must be a string."
//	}
package handlers

// Error titles.
//
// 429 and 500 envelopes are written by middleware (RateLimiter, Recovery),
// which titles them with http.StatusText.
const (
	ErrInvalidPayload   = "Invalid payload"
	ErrBadGateway       = "Bad Gateway"
	ErrPayloadTooLarge  = "Payload Too Large"
	ErrNotFound         = "Not Found"
	ErrMethodNotAllowed = "Method Not Allowed"
)

// Messages for errors whose detail is fixed.
const (
	MsgWebhookUnavailable = "Unable to retrieve corrected code from n8n webhook."
	MsgPayloadTooLarge    = "request body too large"
	MsgNotFound           = "resource not found"
	MsgMethodNotAllowed   = "method not allowed"
)
