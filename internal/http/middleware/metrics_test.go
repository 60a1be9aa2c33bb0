package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_CountersAndPathFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Metrics())

	// Parameterized route: the path label must be the route template.
	r.GET("/items/:id", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	// Bodiless response: size is -1 and the size histogram skips it.
	r.GET("/statusonly", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	// Baselines guard against interference from other tests in the package.
	baseOK := testutil.ToFloat64(reqCount.WithLabelValues("GET", "/items/:id", "200"))
	base404 := testutil.ToFloat64(reqCount.WithLabelValues("GET", "/does-not-exist", "404"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/abc", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET /items/abc -> %d", w.Code)
	}

	// Unmatched route falls back to the raw URL path label.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/does-not-exist", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET /does-not-exist -> %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/statusonly", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("GET /statusonly -> %d", w.Code)
	}

	gotOK := testutil.ToFloat64(reqCount.WithLabelValues("GET", "/items/:id", "200"))
	if gotOK != baseOK+1 {
		t.Fatalf("counter /items/:id 200 = %v; want %v", gotOK, baseOK+1)
	}
	got404 := testutil.ToFloat64(reqCount.WithLabelValues("GET", "/does-not-exist", "404"))
	if got404 != base404+1 {
		t.Fatalf("counter 404 fallback = %v; want %v", got404, base404+1)
	}

	// No requests left in flight once handlers return.
	if inFlight := testutil.ToFloat64(reqInFlight); inFlight != 0 {
		t.Fatalf("reqInFlight = %v; want 0", inFlight)
	}
}
