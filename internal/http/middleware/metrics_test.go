package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// newGatewayEngine mirrors the gateway's route shape: an unlimited health
// check and a limited patch route whose downstream is always failing.
func newGatewayEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics())

	rl := NewRateLimiter(0.001, 1, nil)
	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	api.POST("/patch-code", rl.Handler(), func(c *gin.Context) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Bad Gateway"})
	})
	return r
}

func serve(r http.Handler, method, target string) int {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, strings.NewReader(`{"code":"x"}`)))
	return w.Code
}

func TestMetrics_PatchCodeRouteLabels_AndRateLimited(t *testing.T) {
	r := newGatewayEngine()

	const route = "/api/patch-code"
	base502 := testutil.ToFloat64(httpReqs.WithLabelValues("POST", route, "502"))
	base429 := testutil.ToFloat64(httpReqs.WithLabelValues("POST", route, "429"))
	baseHealth := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/api/health", "200"))
	baseLimited := testutil.ToFloat64(rateLimited)

	if code := serve(r, http.MethodPost, route); code != http.StatusBadGateway {
		t.Fatalf("first patch = %d, want 502", code)
	}
	if code := serve(r, http.MethodPost, route); code != http.StatusTooManyRequests {
		t.Fatalf("second patch = %d, want 429", code)
	}
	if code := serve(r, http.MethodGet, "/api/health"); code != http.StatusOK {
		t.Fatalf("health = %d", code)
	}

	if got := testutil.ToFloat64(httpReqs.WithLabelValues("POST", route, "502")); got != base502+1 {
		t.Fatalf("502 counter = %v; want %v", got, base502+1)
	}
	// Rejected requests are still counted under the route, not as unmatched.
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("POST", route, "429")); got != base429+1 {
		t.Fatalf("429 counter = %v; want %v", got, base429+1)
	}
	if got := testutil.ToFloat64(rateLimited); got != baseLimited+1 {
		t.Fatalf("http_requests_rate_limited_total = %v; want %v", got, baseLimited+1)
	}
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/api/health", "200")); got != baseHealth+1 {
		t.Fatalf("health counter = %v; want %v", got, baseHealth+1)
	}
	if inFlight := testutil.ToFloat64(httpInflight); inFlight != 0 {
		t.Fatalf("httpInflight = %v; want 0", inFlight)
	}
}

func TestMetrics_UnmatchedPathsShareOneLabel(t *testing.T) {
	r := newGatewayEngine()

	base := testutil.ToFloat64(httpReqs.WithLabelValues("GET", unmatchedPath, "404"))
	for _, p := range []string{"/api/patch-code/abc", "/api/v2/health", "/.env"} {
		if code := serve(r, http.MethodGet, p); code != http.StatusNotFound {
			t.Fatalf("GET %s = %d", p, code)
		}
	}
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", unmatchedPath, "404")); got != base+3 {
		t.Fatalf("unmatched counter = %v; want %v", got, base+3)
	}
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/.env", "404")); got != 0 {
		t.Fatalf("raw URL leaked into path label")
	}
}
