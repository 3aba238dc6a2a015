// Package services – PatchService
//
// PatchService owns the code-correction use case: it hands a validated
// PatchRequest to a Corrector (the n8n webhook client in production) and
// returns exactly one outcome, a CorrectionResult or an error.
//
// Observability: Patch is OpenTelemetry-instrumented; the span carries the
// snippet length, never the snippet.
package services

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/cerberus-api/internal/domain"
)

// Corrector submits code for correction and returns the corrected snippet.
// Implementations must be safe for concurrent use.
type Corrector interface {
	Correct(ctx context.Context, code string) (domain.CorrectionResult, error)
}

// PatchService coordinates code correction requests.
type PatchService struct {
	Corrector Corrector
}

// NewPatchService constructs a PatchService bound to c.
func NewPatchService(c Corrector) *PatchService {
	return &PatchService{Corrector: c}
}

// Patch forwards req.Code to the Corrector. Errors are returned untouched so
// callers can inspect the webhook failure kind.
func (s *PatchService) Patch(ctx context.Context, req domain.PatchRequest) (domain.CorrectionResult, error) {
	tr := otel.Tracer("services/PatchService")
	ctx, span := tr.Start(ctx, "Patch",
		trace.WithAttributes(attribute.Int("code.length", len(req.Code))),
	)
	defer span.End()

	if s == nil || s.Corrector == nil {
		span.SetStatus(codes.Error, ErrNoCorrector.Error())
		return domain.CorrectionResult{}, ErrNoCorrector
	}

	res, err := s.Corrector.Correct(ctx, req.Code)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "correction failed")
		return domain.CorrectionResult{}, err
	}
	return res, nil
}
