// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides SecurityHeaders. Every response from the gateway is
// either a JSON envelope or, when enabled, the Swagger UI. JSON responses get
// a locked-down policy (no framing, no active content, no caching since they
// echo user code). The Swagger UI needs its own scripts and styles, so paths
// under DocsPrefix get the baseline headers only.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	// apiCSP forbids a JSON body from ever being rendered as active content.
	apiCSP = "default-src 'none'; frame-ancestors 'none'"

	defaultHSTSMaxAge = 180 * 24 * time.Hour
)

// SecurityOptions configures SecurityHeaders.
type SecurityOptions struct {
	EnableHSTS bool          // only for HTTPS requests; see isHTTPS
	HSTSMaxAge time.Duration // <= 0 means 180 days
	NoStore    bool          // Cache-Control: no-store on API responses

	// DocsPrefix is the path prefix of the Swagger UI ("/swagger/"), or
	// empty when the UI is not mounted.
	DocsPrefix string
}

// SecurityHeaders returns a Gin middleware that hardens every response.
//
// All responses:
//
//	X-Content-Type-Options: nosniff
//	Referrer-Policy: no-referrer
//	Strict-Transport-Security (EnableHSTS and HTTPS only)
//
// API responses additionally:
//
//	X-Frame-Options: DENY
//	Content-Security-Policy: default-src 'none'; frame-ancestors 'none'
//	Cache-Control: no-store (NoStore)
//
// Docs responses get X-Frame-Options: SAMEORIGIN instead and stay cacheable.
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	var hsts string
	if opt.EnableHSTS {
		age := opt.HSTSMaxAge
		if age <= 0 {
			age = defaultHSTSMaxAge
		}
		hsts = "max-age=" + strconv.FormatInt(int64(age/time.Second), 10) + "; includeSubDomains"
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "no-referrer")

		if isDocsPath(c.Request.URL.Path, opt.DocsPrefix) {
			h.Set("X-Frame-Options", "SAMEORIGIN")
		} else {
			h.Set("X-Frame-Options", "DENY")
			h.Set("Content-Security-Policy", apiCSP)
			if opt.NoStore {
				h.Set("Cache-Control", "no-store")
			}
		}

		if hsts != "" && isHTTPS(c.Request) {
			h.Set("Strict-Transport-Security", hsts)
		}

		c.Next()
	}
}

func isDocsPath(path, prefix string) bool {
	return prefix != "" && strings.HasPrefix(path, prefix)
}

// isHTTPS reports whether the request used HTTPS either directly or via a
// reverse proxy that set X-Forwarded-Proto: https.
func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
