package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newSecurityEngine(opt SecurityOptions) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SecurityHeaders(opt))
	r.POST("/api/patch-code", func(c *gin.Context) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Bad Gateway"})
	})
	r.GET("/swagger/*any", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte("<html></html>"))
	})
	return r
}

func TestSecurityHeaders_APIResponse(t *testing.T) {
	r := newSecurityEngine(SecurityOptions{NoStore: true, DocsPrefix: "/swagger/"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/patch-code", nil))

	h := w.Header()
	want := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"Referrer-Policy":         "no-referrer",
		"X-Frame-Options":         "DENY",
		"Content-Security-Policy": apiCSP,
		"Cache-Control":           "no-store",
	}
	for k, v := range want {
		if got := h.Get(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
	if h.Get("Strict-Transport-Security") != "" {
		t.Errorf("HSTS must be off unless enabled")
	}
}

func TestSecurityHeaders_DocsPathRelaxed(t *testing.T) {
	r := newSecurityEngine(SecurityOptions{NoStore: true, DocsPrefix: "/swagger/"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))

	h := w.Header()
	if h.Get("Content-Security-Policy") != "" {
		t.Fatalf("swagger UI must not get the API CSP, got %q", h.Get("Content-Security-Policy"))
	}
	if h.Get("Cache-Control") != "" {
		t.Fatalf("swagger assets should stay cacheable, got %q", h.Get("Cache-Control"))
	}
	if h.Get("X-Frame-Options") != "SAMEORIGIN" || h.Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("unexpected docs headers: %#v", h)
	}
}

func TestSecurityHeaders_NoDocsPrefixMeansStrictEverywhere(t *testing.T) {
	r := newSecurityEngine(SecurityOptions{NoStore: false})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))

	if got := w.Header().Get("Content-Security-Policy"); got != apiCSP {
		t.Fatalf("CSP = %q, want %q", got, apiCSP)
	}
	if w.Header().Get("Cache-Control") != "" {
		t.Fatalf("NoStore=false must not set Cache-Control")
	}
}

func TestSecurityHeaders_HSTS(t *testing.T) {
	cases := []struct {
		name  string
		opt   SecurityOptions
		tls   bool
		proto string
		want  string
	}{
		{"disabled", SecurityOptions{HSTSMaxAge: time.Hour}, true, "", ""},
		{"plain http", SecurityOptions{EnableHSTS: true, HSTSMaxAge: time.Hour}, false, "", ""},
		{"direct tls", SecurityOptions{EnableHSTS: true, HSTSMaxAge: 24 * time.Hour}, true, "", "max-age=86400; includeSubDomains"},
		{"proxy https", SecurityOptions{EnableHSTS: true, HSTSMaxAge: time.Hour}, false, "HTTPS", "max-age=3600; includeSubDomains"},
		{"default age", SecurityOptions{EnableHSTS: true}, true, "", "max-age=15552000; includeSubDomains"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newSecurityEngine(tc.opt)
			req := httptest.NewRequest(http.MethodPost, "/api/patch-code", nil)
			if tc.tls {
				req.TLS = &tls.ConnectionState{}
			}
			if tc.proto != "" {
				req.Header.Set("X-Forwarded-Proto", tc.proto)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if got := w.Header().Get("Strict-Transport-Security"); got != tc.want {
				t.Fatalf("HSTS = %q, want %q", got, tc.want)
			}
		})
	}
}
