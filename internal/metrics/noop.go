package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncRegistration is a no-op.
func (n *NoopRecorder) IncRegistration(outcome string) {}

// IncLogin is a no-op.
func (n *NoopRecorder) IncLogin(outcome string) {}

// IncLogout is a no-op.
func (n *NoopRecorder) IncLogout() {}

// IncGateDecision is a no-op.
func (n *NoopRecorder) IncGateDecision(state string) {}

// IncNoteOperation is a no-op.
func (n *NoopRecorder) IncNoteOperation(op, outcome string) {}

// ObserveHTTPRequest is a no-op.
func (n *NoopRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {}
