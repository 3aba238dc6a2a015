// Package domain defines the value types exchanged between the HTTP layer,
// the service layer and the webhook client. None of them are persisted.
package domain

// PatchRequest is the validated inbound payload of POST /patch-code.
type PatchRequest struct {
	Code string `json:"code"`
}

// CorrectionResult is the outcome of a successful round trip to the webhook.
// CorrectedCode is returned to the caller verbatim.
type CorrectionResult struct {
	CorrectedCode string `json:"corrected_code"`
}

// ValidationReason distinguishes why an inbound payload was rejected.
type ValidationReason string

const (
	// ReasonNotJSON marks a body that is not JSON (by content type or syntax).
	ReasonNotJSON ValidationReason = "not_json"
	// ReasonInvalidField marks JSON without a string "code" field.
	ReasonInvalidField ValidationReason = "invalid_field"
)

// ValidationError reports a malformed inbound payload. Message is safe to
// return to the caller.
type ValidationError struct {
	Reason  ValidationReason
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
