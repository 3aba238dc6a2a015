// Package services – request validation
//
// ValidatePatchRequest gates malformed input before any network call is
// attempted. It is a pure function of the declared content type and the raw
// body, so handlers can run it without touching the webhook.
package services

import (
	"encoding/json"
	"strings"

	"github.com/tbourn/cerberus-api/internal/domain"
)

// ValidatePatchRequest decodes body into a PatchRequest.
//
// It fails with a *domain.ValidationError when:
//   - the content type is not JSON, or the body is not valid JSON (ReasonNotJSON)
//   - the document is not an object, lacks "code", or "code" is not a string
//     (ReasonInvalidField)
//
// The empty string is a valid code value.
func ValidatePatchRequest(contentType string, body []byte) (domain.PatchRequest, error) {
	if !isJSONContentType(contentType) || !json.Valid(body) {
		return domain.PatchRequest{}, &domain.ValidationError{Reason: domain.ReasonNotJSON, Message: MsgNotJSON}
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil || doc == nil {
		// Valid JSON that is not an object (array, string, null, ...).
		return domain.PatchRequest{}, invalidField()
	}
	raw, ok := doc["code"]
	if !ok {
		return domain.PatchRequest{}, invalidField()
	}
	var code string
	// A JSON null would unmarshal into a string as a no-op, so check the token.
	if len(raw) == 0 || raw[0] != '"' || json.Unmarshal(raw, &code) != nil {
		return domain.PatchRequest{}, invalidField()
	}
	return domain.PatchRequest{Code: code}, nil
}

func invalidField() error {
	return &domain.ValidationError{Reason: domain.ReasonInvalidField, Message: MsgInvalidField}
}

// isJSONContentType accepts application/json and application/*+json,
// ignoring parameters and case.
func isJSONContentType(ct string) bool {
	mt, _, _ := strings.Cut(ct, ";")
	mt = strings.ToLower(strings.TrimSpace(mt))
	if mt == "application/json" {
		return true
	}
	return strings.HasPrefix(mt, "application/") && strings.HasSuffix(mt, "+json")
}
