package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	before := testutil.ToFloat64(HttpRequestsTotal.WithLabelValues("GET", "/orders", "418"))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	after := testutil.ToFloat64(HttpRequestsTotal.WithLabelValues("GET", "/orders", "418"))
	assert.Equal(t, before+1, after)
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := Middleware(mux)

	before := testutil.ToFloat64(HttpRequestsTotal.WithLabelValues("GET", "GET /orders/{id}", "200"))

	// Distinct order ids must land in the same series.
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/orders/2608-001", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/orders/2608-002", nil))

	after := testutil.ToFloat64(HttpRequestsTotal.WithLabelValues("GET", "GET /orders/{id}", "200"))
	assert.Equal(t, before+2, after)
	assert.Equal(t, float64(0),
		testutil.ToFloat64(HttpRequestsTotal.WithLabelValues("GET", "/orders/2608-001", "200")))
}

func TestTrackExport(t *testing.T) {
	okBefore := testutil.ToFloat64(ExportsTotal.WithLabelValues("pdf", "success"))
	errBefore := testutil.ToFloat64(ExportsTotal.WithLabelValues("pdf", "error"))

	TrackExport("pdf")(nil)
	TrackExport("pdf")(errors.New("render failed"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(ExportsTotal.WithLabelValues("pdf", "success")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(ExportsTotal.WithLabelValues("pdf", "error")))
}

func TestHandler(t *testing.T) {
	RecordOrderOperation("create")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tailorder_order_operations_total")
}
