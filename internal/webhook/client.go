package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/cerberus-api/internal/config"
	"github.com/tbourn/cerberus-api/internal/domain"
)

// Fallbacks applied by New when the config was not produced by config.Load.
const (
	DefaultTimeout          = 20 * time.Second
	DefaultMaxResponseBytes = 8 << 20
)

// Client performs the single outbound call to the correction webhook.
// It holds no per-call state and is safe for concurrent use.
type Client struct {
	cfg  config.WebhookConfig
	http *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for outbound calls. The
// configured timeout is still enforced through the request context.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New returns a Client for cfg. The default transport is wrapped with
// otelhttp so the webhook call joins the inbound trace.
func New(cfg config.WebhookConfig, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxResponseBytes <= 0 {
		cfg.MaxResponseBytes = DefaultMaxResponseBytes
	}
	c := &Client{
		cfg:  cfg,
		http: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Config returns the webhook configuration in effect.
func (c *Client) Config() config.WebhookConfig { return c.cfg }

type correctRequest struct {
	Code string `json:"code"`
}

// Correct posts {"code": code} to the webhook and returns the
// "corrected_code" field of its JSON answer. Any deviation yields a *Failure.
//
// The caller's cancellation is detached: only the configured timeout bounds
// the call, covering connect, headers and body read.
func (c *Client) Correct(ctx context.Context, code string) (domain.CorrectionResult, error) {
	started := time.Now()
	ctx, span := otel.Tracer("webhook/Client").Start(ctx, "Correct",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.Int("code.length", len(code))),
	)
	defer span.End()

	res, f := c.call(ctx, code)
	if f != nil {
		if f.StatusCode != 0 {
			span.SetAttributes(attribute.Int("http.response.status_code", f.StatusCode))
		}
		span.SetAttributes(attribute.String("webhook.outcome", string(f.Kind)))
		span.RecordError(f)
		span.SetStatus(codes.Error, f.Message)
		observe(string(f.Kind), started)
		return domain.CorrectionResult{}, f
	}
	span.SetAttributes(attribute.String("webhook.outcome", outcomeOK))
	observe(outcomeOK, started)
	return res, nil
}

func (c *Client) call(ctx context.Context, code string) (domain.CorrectionResult, *Failure) {
	payload, err := json.Marshal(correctRequest{Code: code})
	if err != nil {
		return domain.CorrectionResult{}, upstreamFailure("failed to encode n8n webhook request", 0, err)
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return domain.CorrectionResult{}, upstreamFailure("failed to call n8n webhook", 0, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return domain.CorrectionResult{}, timeoutFailure(err)
		}
		return domain.CorrectionResult{}, upstreamFailure("failed to call n8n webhook", 0, err)
	}
	defer resp.Body.Close()

	status := resp.StatusCode
	switch {
	case status >= http.StatusInternalServerError:
		discard(resp.Body)
		return domain.CorrectionResult{}, upstreamFailure(
			fmt.Sprintf("n8n webhook returned server error %d", status), status, nil)
	case status >= http.StatusBadRequest:
		discard(resp.Body)
		return domain.CorrectionResult{}, upstreamFailure(
			fmt.Sprintf("n8n webhook returned unexpected status %d", status), status, nil)
	}

	limit := c.cfg.MaxResponseBytes
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		if isTimeout(ctx, err) {
			f := timeoutFailure(err)
			f.StatusCode = status
			return domain.CorrectionResult{}, f
		}
		return domain.CorrectionResult{}, upstreamFailure("failed to read n8n webhook response", status, err)
	}
	if int64(len(body)) > limit {
		return domain.CorrectionResult{}, responseFailure(
			fmt.Sprintf("n8n webhook response exceeded %d bytes", limit), status, nil)
	}

	return decodeCorrection(body, status)
}

// decodeCorrection extracts the "corrected_code" string from a webhook body.
func decodeCorrection(body []byte, status int) (domain.CorrectionResult, *Failure) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return domain.CorrectionResult{}, responseFailure("n8n webhook response was not valid JSON", status, err)
	}
	obj, _ := doc.(map[string]any)
	corrected, ok := obj["corrected_code"].(string)
	if !ok {
		return domain.CorrectionResult{}, responseFailure("n8n webhook response missing 'corrected_code' string", status, nil)
	}
	return domain.CorrectionResult{CorrectedCode: corrected}, nil
}

// isTimeout reports whether err was caused by the call deadline.
func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// discard drains a bounded amount of an unused body so the connection can be reused.
func discard(r io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(r, 4<<10))
}
