package metrics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestMiddlewareCountsRequests(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/admin/students/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/admin/students/abc", nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	families, err := m.registry.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	var total float64
	for _, f := range families {
		if f.GetName() != "campus_http_requests_total" {
			continue
		}
		for _, metric := range f.GetMetric() {
			total += metric.GetCounter().GetValue()
			for _, l := range metric.GetLabel() {
				if l.GetName() == "route" && l.GetValue() == "/admin/students/abc" {
					t.Error("expected route pattern label, got raw path")
				}
			}
		}
	}
	if total != 4 {
		t.Errorf("expected 4 recorded requests, got %v", total)
	}
}

func TestSummaryHandler(t *testing.T) {
	m := New()
	m.IncAuthSuccess("login")
	m.IncAuthFailure("login", "bad_credentials")
	m.IncAuthFailure("me", "expired")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics/summary", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var summary Summary
	if err := json.NewDecoder(rec.Body).Decode(&summary); err != nil {
		t.Fatalf("decoding summary: %v", err)
	}
	if summary.Auth.Successes != 1 {
		t.Errorf("expected 1 auth success, got %v", summary.Auth.Successes)
	}
	if summary.Auth.Failures != 2 {
		t.Errorf("expected 2 auth failures, got %v", summary.Auth.Failures)
	}
	if summary.Server.StartTime == 0 {
		t.Error("expected server start time to be set")
	}
}

func TestPrometheusHandler(t *testing.T) {
	m := New()
	m.IncAuthSuccess("login")

	rec := httptest.NewRecorder()
	m.PrometheusHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "campus_auth_successes_total") {
		t.Errorf("expected exposition to include auth counter, got:\n%s", body)
	}
}
