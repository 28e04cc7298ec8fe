package metrics

import (
	"maps"
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	Registrations  map[string]uint64 // by outcome
	Logins         map[string]uint64 // by outcome
	Logouts        uint64
	GateDecisions  map[string]uint64 // by state
	NoteOperations map[string]uint64 // by "op/outcome"
	HTTPRequests   uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	logouts      uint64
	httpRequests uint64

	mu             sync.Mutex
	registrations  map[string]uint64
	logins         map[string]uint64
	gateDecisions  map[string]uint64
	noteOperations map[string]uint64
}

var _ Recorder = (*InMemoryRecorder)(nil)

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		registrations:  make(map[string]uint64),
		logins:         make(map[string]uint64),
		gateDecisions:  make(map[string]uint64),
		noteOperations: make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Registrations:  maps.Clone(m.registrations),
		Logins:         maps.Clone(m.logins),
		Logouts:        atomic.LoadUint64(&m.logouts),
		GateDecisions:  maps.Clone(m.gateDecisions),
		NoteOperations: maps.Clone(m.noteOperations),
		HTTPRequests:   atomic.LoadUint64(&m.httpRequests),
	}
}

func (m *InMemoryRecorder) inc(counter map[string]uint64, key string) {
	m.mu.Lock()
	counter[key]++
	m.mu.Unlock()
}

// IncRegistration increments the registration counter for outcome.
func (m *InMemoryRecorder) IncRegistration(outcome string) {
	m.inc(m.registrations, outcome)
}

// IncLogin increments the login counter for outcome.
func (m *InMemoryRecorder) IncLogin(outcome string) {
	m.inc(m.logins, outcome)
}

// IncLogout increments the logout counter.
func (m *InMemoryRecorder) IncLogout() {
	atomic.AddUint64(&m.logouts, 1)
}

// IncGateDecision increments the gate decision counter for state.
func (m *InMemoryRecorder) IncGateDecision(state string) {
	m.inc(m.gateDecisions, state)
}

// IncNoteOperation increments the note counter under "op/outcome".
func (m *InMemoryRecorder) IncNoteOperation(op, outcome string) {
	m.inc(m.noteOperations, op+"/"+outcome)
}

// ObserveHTTPRequest counts a served request.
func (m *InMemoryRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	atomic.AddUint64(&m.httpRequests, 1)
}
