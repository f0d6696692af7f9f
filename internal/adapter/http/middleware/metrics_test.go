package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fintrackhq/fintrack/internal/infrastructure/metrics"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/api/v1/accounts/42", "/api/v1/accounts/:id"},
		{"/api/v1/accounts/42/archive", "/api/v1/accounts/:id/archive"},
		{"/api/v1/transactions/01HZXK3V9W", "/api/v1/transactions/:id"},
		{"/api/v1/cards/7", "/api/v1/cards/:id"},
		{"/api/v1/accounts", "/api/v1/accounts"},
		{"/health", "/health"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.in); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMetricsMiddlewareRecordsRequests(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	mw := NewMetricsMiddleware(m)

	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	var sawRequests bool
	for _, mf := range families {
		if mf.GetName() == "fintrack_http_requests_total" {
			sawRequests = true
			if len(mf.GetMetric()) != 1 {
				t.Fatalf("expected one labeled series, got %d", len(mf.GetMetric()))
			}
		}
	}

	if !sawRequests {
		t.Fatalf("expected fintrack_http_requests_total to be recorded")
	}
}
