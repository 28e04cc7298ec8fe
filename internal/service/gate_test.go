package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillnote/quillnote/internal/model"
)

type resolverFunc func(ctx context.Context, token string) (string, bool, error)

func (f resolverFunc) Resolve(ctx context.Context, token string) (string, bool, error) {
	return f(ctx, token)
}

func TestGate_Authorize(t *testing.T) {
	t.Parallel()
	boom := errors.New("store down")

	tests := []struct {
		name      string
		token     string
		resolver  resolverFunc
		wantState GateState
		wantID    string
		wantErr   error
	}{
		{
			name:  "resolved",
			token: "tok",
			resolver: func(context.Context, string) (string, bool, error) {
				return "alice", true, nil
			},
			wantState: Resolved,
			wantID:    "alice",
		},
		{
			name:  "empty token never reaches the resolver",
			token: "",
			resolver: func(context.Context, string) (string, bool, error) {
				panic("resolver must not be called")
			},
			wantState: Rejected,
			wantErr:   model.ErrAuthorization,
		},
		{
			name:  "absent session",
			token: "tok",
			resolver: func(context.Context, string) (string, bool, error) {
				return "", false, nil
			},
			wantState: Rejected,
			wantErr:   model.ErrAuthorization,
		},
		{
			name:  "store failure",
			token: "tok",
			resolver: func(context.Context, string) (string, bool, error) {
				return "", false, boom
			},
			wantState: Unresolved,
			wantErr:   boom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			gate := NewGate(tt.resolver, nil, nil)

			decision, err := gate.Authorize(context.Background(), tt.token)
			assert.Equal(t, tt.wantState, decision.State)
			assert.Equal(t, tt.wantID, decision.IdentityID)
			if tt.wantErr == nil {
				require.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestGate_StoreFailureIsNotAuthorizationError(t *testing.T) {
	t.Parallel()
	gate := NewGate(resolverFunc(func(context.Context, string) (string, bool, error) {
		return "", false, errors.New("store down")
	}), nil, nil)

	_, err := gate.Authorize(context.Background(), "tok")
	assert.NotErrorIs(t, err, model.ErrAuthorization)
}

func TestGateState_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "unresolved", Unresolved.String())
	assert.Equal(t, "resolved", Resolved.String())
	assert.Equal(t, "rejected", Rejected.String())
}
