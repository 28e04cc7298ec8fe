package service

import (
	"testing"

	"github.com/quillnote/quillnote/internal/auth"
	"github.com/quillnote/quillnote/internal/metrics"
	"github.com/quillnote/quillnote/internal/session"
	"github.com/quillnote/quillnote/internal/store/memory"
)

// testParams keep argon2 fast in tests; the algorithm is unchanged.
var testParams = auth.Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

type testEnv struct {
	identities *memory.IdentityStore
	sessions   *memory.SessionStore
	notes      *memory.NoteStore
	manager    *session.Manager
	recorder   *metrics.InMemoryRecorder
	auth       *AuthService
	gate       *Gate
	noteSvc    *NoteService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		identities: memory.NewIdentityStore(),
		sessions:   memory.NewSessionStore(),
		notes:      memory.NewNoteStore(),
		recorder:   metrics.NewInMemory(),
	}
	env.manager = session.NewManager(env.sessions, session.NoExpiry, session.WithIdentityChecker(env.identities))
	env.auth = NewAuthService(env.identities, auth.NewArgon2HasherWithParams(testParams), env.manager, nil, env.recorder)
	env.gate = NewGate(env.manager, nil, env.recorder)
	env.noteSvc = NewNoteService(env.notes, nil, env.recorder)
	return env
}

// login registers username and returns a session token for it.
func (env *testEnv) login(t *testing.T, username, password string) (identityID, token string) {
	t.Helper()
	ctx := t.Context()
	id, err := env.auth.Register(ctx, username, password)
	if err != nil {
		t.Fatalf("Register(%q) failed: %v", username, err)
	}
	token, err = env.auth.Login(ctx, username, password)
	if err != nil {
		t.Fatalf("Login(%q) failed: %v", username, err)
	}
	return id, token
}
