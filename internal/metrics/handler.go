package metrics

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	dto "github.com/prometheus/client_model/go"
)

// Summary is the JSON response for the live metrics endpoint.
type Summary struct {
	HTTP   httpSummary `json:"http"`
	Auth   authInfo    `json:"auth"`
	Server serverInfo  `json:"server"`
}

type httpSummary struct {
	TotalRequests float64 `json:"totalRequests"`
	ErrorRate     float64 `json:"errorRate"`
}

type authInfo struct {
	Failures  float64 `json:"failures"`
	Successes float64 `json:"successes"`
}

type serverInfo struct {
	StartTime     float64 `json:"startTime"`
	UptimeSeconds float64 `json:"uptimeSeconds"`
}

// routePattern resolves the matched chi route pattern, falling back to the
// raw path for unrouted requests.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

// Handler serves a JSON summary of live metrics.
func (m *Metrics) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		families, err := m.registry.Gather()
		if err != nil {
			http.Error(w, "failed to gather metrics", http.StatusInternalServerError)
			return
		}

		fam := make(map[string]*dto.MetricFamily, len(families))
		for _, f := range families {
			fam[f.GetName()] = f
		}

		start := gaugeValue(fam["campus_server_start_time_seconds"])
		summary := Summary{
			HTTP: httpSummary{
				TotalRequests: sumCounter(fam["campus_http_requests_total"]),
				ErrorRate:     errorRate(fam["campus_http_requests_total"]),
			},
			Auth: authInfo{
				Failures:  sumCounter(fam["campus_auth_failures_total"]),
				Successes: sumCounter(fam["campus_auth_successes_total"]),
			},
			Server: serverInfo{
				StartTime:     start,
				UptimeSeconds: float64(time.Now().Unix()) - start,
			},
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache, no-store")
		_ = json.NewEncoder(w).Encode(summary)
	}
}

func sumCounter(f *dto.MetricFamily) float64 {
	if f == nil {
		return 0
	}
	var total float64
	for _, m := range f.GetMetric() {
		if m.GetCounter() != nil {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func gaugeValue(f *dto.MetricFamily) float64 {
	if f == nil {
		return 0
	}
	ms := f.GetMetric()
	if len(ms) == 0 || ms[0].GetGauge() == nil {
		return 0
	}
	return ms[0].GetGauge().GetValue()
}

// errorRate is 5xx responses over total, using the status_code label.
func errorRate(f *dto.MetricFamily) float64 {
	if f == nil {
		return 0
	}
	var total, errors float64
	for _, m := range f.GetMetric() {
		if m.GetCounter() == nil {
			continue
		}
		v := m.GetCounter().GetValue()
		total += v
		for _, l := range m.GetLabel() {
			if l.GetName() == "status_code" && len(l.GetValue()) > 0 && l.GetValue()[0] == '5' {
				errors += v
			}
		}
	}
	if total == 0 {
		return 0
	}
	return errors / total
}
