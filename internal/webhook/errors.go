// Package webhook calls the downstream n8n code-correction webhook and
// normalizes every outcome into a CorrectionResult or a *Failure.
//
// Failure taxonomy:
//   - KindTimeout:  the call did not complete within the configured timeout
//   - KindUpstream: transport error or non-2xx/3xx status from the webhook
//   - KindResponse: the webhook answered successfully with an unusable body
//
// All kinds are terminal for the current request; nothing is retried.
package webhook

import (
	"errors"
	"fmt"
)

// Kind classifies a webhook failure.
type Kind string

const (
	KindTimeout  Kind = "timeout"
	KindUpstream Kind = "upstream"
	KindResponse Kind = "response"
)

// Sentinels matched by errors.Is against any *Failure of the same kind.
var (
	ErrTimeout  = errors.New("webhook timeout")
	ErrUpstream = errors.New("webhook upstream failure")
	ErrResponse = errors.New("webhook response invalid")
)

// Failure is the error returned by Client.Correct.
type Failure struct {
	Kind       Kind
	Message    string
	StatusCode int   // downstream HTTP status, 0 when no response was received
	Err        error // underlying cause, may be nil
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %v", f.Message, f.Err)
	}
	return f.Message
}

// Unwrap exposes both the kind sentinel and the cause.
func (f *Failure) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := f.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if f.Err != nil {
		errs = append(errs, f.Err)
	}
	return errs
}

func (k Kind) sentinel() error {
	switch k {
	case KindTimeout:
		return ErrTimeout
	case KindUpstream:
		return ErrUpstream
	case KindResponse:
		return ErrResponse
	}
	return nil
}

func timeoutFailure(err error) *Failure {
	return &Failure{Kind: KindTimeout, Message: "n8n webhook request timed out", Err: err}
}

func upstreamFailure(msg string, status int, err error) *Failure {
	return &Failure{Kind: KindUpstream, Message: msg, StatusCode: status, Err: err}
}

func responseFailure(msg string, status int, err error) *Failure {
	return &Failure{Kind: KindResponse, Message: msg, StatusCode: status, Err: err}
}
