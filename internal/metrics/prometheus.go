package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "quillnote"

// PrometheusRecorder exports metrics through a Prometheus registry.
type PrometheusRecorder struct {
	registrations  *prometheus.CounterVec
	logins         *prometheus.CounterVec
	logouts        prometheus.Counter
	gateDecisions  *prometheus.CounterVec
	noteOperations *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

var _ Recorder = (*PrometheusRecorder)(nil)

// NewPrometheus creates a recorder and registers its collectors with reg.
func NewPrometheus(reg prometheus.Registerer) (*PrometheusRecorder, error) {
	r := &PrometheusRecorder{
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Registration attempts by outcome.",
		}, []string{"outcome"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		logouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logouts_total",
			Help:      "Logout requests.",
		}),
		gateDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gate_decisions_total",
			Help:      "Authorization gate decisions by state.",
		}, []string{"state"}),
		noteOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "note_operations_total",
			Help:      "Note operations by kind and outcome.",
		}, []string{"op", "outcome"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	for _, c := range []prometheus.Collector{
		r.registrations, r.logins, r.logouts, r.gateDecisions, r.noteOperations, r.httpDuration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// IncRegistration increments the registration counter for outcome.
func (r *PrometheusRecorder) IncRegistration(outcome string) {
	r.registrations.WithLabelValues(outcome).Inc()
}

// IncLogin increments the login counter for outcome.
func (r *PrometheusRecorder) IncLogin(outcome string) {
	r.logins.WithLabelValues(outcome).Inc()
}

// IncLogout increments the logout counter.
func (r *PrometheusRecorder) IncLogout() {
	r.logouts.Inc()
}

// IncGateDecision increments the gate decision counter for state.
func (r *PrometheusRecorder) IncGateDecision(state string) {
	r.gateDecisions.WithLabelValues(state).Inc()
}

// IncNoteOperation increments the note operation counter.
func (r *PrometheusRecorder) IncNoteOperation(op, outcome string) {
	r.noteOperations.WithLabelValues(op, outcome).Inc()
}

// ObserveHTTPRequest records request latency.
func (r *PrometheusRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	r.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}
