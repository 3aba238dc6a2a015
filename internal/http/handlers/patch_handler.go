// Code-correction HTTP handlers.
//
// This file exposes the public endpoints:
//   - GET  /health       (liveness, never touches the webhook)
//   - POST /patch-code   (forward a snippet to the n8n webhook, return the fix)
//
// Handlers are transport-thin: they read and validate the body, call the
// PatchService, and translate the single outcome into an HTTP response.
package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/cerberus-api/internal/domain"
	"github.com/tbourn/cerberus-api/internal/http/middleware"
	"github.com/tbourn/cerberus-api/internal/services"
	"github.com/tbourn/cerberus-api/internal/webhook"
)

// PatchService is the code-correction use case consumed by PatchCode.
//
// Implementations must be safe for concurrent use. The returned error is
// either nil or describes a downstream failure; validation happens before
// the service is called.
type PatchService interface {
	Patch(ctx context.Context, req domain.PatchRequest) (domain.CorrectionResult, error)
}

// Handlers groups the HTTP endpoints of the API.
type Handlers struct {
	patchSvc PatchService
}

// New constructs and returns a Handlers instance bound to svc.
func New(svc PatchService) *Handlers {
	return &Handlers{patchSvc: svc}
}

// HealthResponse is the liveness body.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// PatchCodeRequest documents the inbound payload. The handler validates the
// raw body itself so the exact rejection reasons stay under its control.
type PatchCodeRequest struct {
	// Code is the raw snippet to correct. The empty string is accepted.
	Code string `json:"code" example:"print 'hello'"`
}

// PatchCodeResponse is the success body of POST /patch-code.
type PatchCodeResponse struct {
	CorrectedCode string `json:"corrected_code" example:"print('hello')"`
}

// Health godoc
// @ID          health
// @Summary     Liveness probe
// @Description Always returns 200 while the process is up. Does not call the webhook.
// @Tags        System
// @Produce     json
// @Success     200  {object}  handlers.HealthResponse
// @Router      /health [get]
func (h *Handlers) Health(c *gin.Context) {
	ok(c, http.StatusOK, HealthResponse{Status: "ok"})
}

// PatchCode godoc
// @ID          patchCode
// @Summary     Correct a code snippet
// @Description Forwards the snippet to the n8n correction webhook and returns the corrected code.
// @Description Every downstream problem (timeout, error status, unusable body) maps to 502.
// @Tags        Patch
// @Accept      json
// @Produce     json
//
// @Param       X-Request-ID  header  string  false  "Correlation ID (echoed back)"
// @Param       body          body    handlers.PatchCodeRequest  true  "Snippet to correct"
//
// @Success     200  {object}  handlers.PatchCodeResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid payload"
// @Failure     413  {object}  handlers.ErrorResponse  "Payload too large"
// @Failure     429  {object}  handlers.ErrorResponse  "Rate limited"
// @Failure     502  {object}  handlers.ErrorResponse  "Webhook failure"
// @Router      /patch-code [post]
func (h *Handlers) PatchCode(c *gin.Context) {
	lg := middleware.LoggerFrom(c)

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, http.StatusRequestEntityTooLarge, ErrPayloadTooLarge, MsgPayloadTooLarge)
			return
		}
		lg.Warn().Err(err).Msg("failed to read request body")
		fail(c, http.StatusBadRequest, ErrInvalidPayload, services.MsgNotJSON)
		return
	}

	req, err := services.ValidatePatchRequest(c.ContentType(), body)
	if err != nil {
		var verr *domain.ValidationError
		msg := services.MsgNotJSON
		if errors.As(err, &verr) {
			msg = verr.Message
			lg.Info().Str("reason", string(verr.Reason)).Msg("rejected patch request")
		}
		fail(c, http.StatusBadRequest, ErrInvalidPayload, msg)
		return
	}

	lg.Info().Int("code_length", len(req.Code)).Msg("forwarding code to n8n webhook")

	res, err := h.patchSvc.Patch(c.Request.Context(), req)
	if err != nil {
		ev := lg.Error().Err(err)
		var f *webhook.Failure
		if errors.As(err, &f) {
			ev = ev.Str("kind", string(f.Kind)).Int("upstream_status", f.StatusCode)
		}
		ev.Msg("n8n webhook call failed")
		_ = c.Error(err)
		fail(c, http.StatusBadGateway, ErrBadGateway, MsgWebhookUnavailable)
		return
	}

	ok(c, http.StatusOK, PatchCodeResponse{CorrectedCode: res.CorrectedCode})
}

// NotFound renders the error envelope for unknown routes.
func NotFound(c *gin.Context) {
	fail(c, http.StatusNotFound, ErrNotFound, MsgNotFound)
}

// MethodNotAllowed renders the error envelope for known routes hit with the
// wrong method.
func MethodNotAllowed(c *gin.Context) {
	fail(c, http.StatusMethodNotAllowed, ErrMethodNotAllowed, MsgMethodNotAllowed)
}
