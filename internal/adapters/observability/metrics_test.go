package observability_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"smart_travel/internal/adapters/observability"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record samples so the vectors show up in the exposition
	observability.ObserveHTTP("/v1/places", "GET", 200, 12*time.Millisecond)
	observability.ObserveExternal("nominatim", "search", 200, 40*time.Millisecond)
	observability.ObserveImageFallback("no_thumbnail")
	observability.ObserveSearchFailure("hotel")

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, name := range []string{
		"travel_http_requests_total",
		"travel_external_requests_total",
		"travel_image_fallbacks_total",
		"travel_search_failures_total",
	} {
		if !strings.Contains(out, name) {
			t.Fatalf("expected %s in output", name)
		}
	}
}
