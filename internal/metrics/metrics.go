// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Outcome labels shared by the recorders.
const (
	OutcomeSuccess  = "success"
	OutcomeInvalid  = "invalid"
	OutcomeConflict = "conflict"
	OutcomeFailure  = "failure"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Recorder captures metric events for the application.
type Recorder interface {
	// Auth metrics
	IncRegistration(outcome string)
	IncLogin(outcome string)
	IncLogout()

	// Gate metrics; state is the decision state name.
	IncGateDecision(state string)

	// Note metrics; op is list, get, create, update or delete.
	IncNoteOperation(op, outcome string)

	// HTTP metrics; route is the chi route pattern.
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)
}
