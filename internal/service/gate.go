package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quillnote/quillnote/internal/metrics"
	"github.com/quillnote/quillnote/internal/model"
)

// GateState is the authorization state of a request.
type GateState int

const (
	// Unresolved is the state before the gate has run.
	Unresolved GateState = iota
	// Resolved means the token mapped to a live session.
	Resolved
	// Rejected means the request carries no usable session.
	Rejected
)

// String returns the state name.
func (s GateState) String() string {
	switch s {
	case Resolved:
		return "resolved"
	case Rejected:
		return "rejected"
	default:
		return "unresolved"
	}
}

// Decision is the outcome of Gate.Authorize. IdentityID is set only when
// State is Resolved.
type Decision struct {
	State      GateState
	IdentityID string
}

// SessionResolver maps a token to an identity id.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (identityID string, ok bool, err error)
}

// Gate decides whether a request may reach a protected operation.
type Gate struct {
	sessions SessionResolver
	logger   *slog.Logger
	metrics  metrics.Recorder
}

// NewGate creates a new Gate.
func NewGate(sessions SessionResolver, logger *slog.Logger, recorder metrics.Recorder) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Gate{sessions: sessions, logger: logger, metrics: recorder}
}

// Authorize resolves token. A rejected request returns model.ErrAuthorization;
// a store failure returns a plain error and is never Resolved.
func (g *Gate) Authorize(ctx context.Context, token string) (Decision, error) {
	if token == "" {
		g.metrics.IncGateDecision(Rejected.String())
		return Decision{State: Rejected}, fmt.Errorf("%w: missing session token", model.ErrAuthorization)
	}

	identityID, ok, err := g.sessions.Resolve(ctx, token)
	if err != nil {
		g.metrics.IncGateDecision(metrics.OutcomeError)
		return Decision{State: Unresolved}, fmt.Errorf("authorize: %w", err)
	}
	if !ok {
		g.metrics.IncGateDecision(Rejected.String())
		return Decision{State: Rejected}, fmt.Errorf("%w: invalid session", model.ErrAuthorization)
	}

	g.metrics.IncGateDecision(Resolved.String())
	return Decision{State: Resolved, IdentityID: identityID}, nil
}
