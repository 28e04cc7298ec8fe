package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/quillnote/quillnote/internal/metrics"
)

func TestMetrics_RecordsRequests(t *testing.T) {
	t.Parallel()

	recorder := metrics.NewInMemory()
	r := chi.NewRouter()
	r.Use(Metrics(recorder))
	r.Get("/notes/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, path := range []string{"/notes/a", "/notes/b", "/unknown"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := recorder.Snapshot().HTTPRequests; got != 3 {
		t.Errorf("HTTPRequests = %d, want 3", got)
	}
}

func TestMetrics_UnknownMethodsShareOneSeries(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	recorder, err := metrics.NewPrometheus(reg)
	if err != nil {
		t.Fatalf("NewPrometheus: %v", err)
	}

	r := chi.NewRouter()
	r.Use(Metrics(recorder))

	for _, method := range []string{"FOO1", "FOO2", "FOO3", "BAR"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(method, "/unknown", nil))
	}

	n, err := testutil.GatherAndCount(reg, "quillnote_http_request_duration_seconds")
	if err != nil {
		t.Fatalf("GatherAndCount: %v", err)
	}
	if n != 1 {
		t.Errorf("series = %d, want 1", n)
	}
}

func TestMethodLabel(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		http.MethodGet:    http.MethodGet,
		http.MethodDelete: http.MethodDelete,
		"PROPFIND":        "other",
		"get":             "other",
	}
	for in, want := range tests {
		if got := methodLabel(in); got != want {
			t.Errorf("methodLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
