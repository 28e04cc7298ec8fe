package memory

import (
	"context"
	"sync"
	"time"

	"github.com/quillnote/quillnote/internal/model"
	"github.com/quillnote/quillnote/internal/session"
)

var _ session.Store = (*SessionStore)(nil)

// SessionStore keeps sessions in memory keyed by token hash. Expired
// sessions are never returned; a sweeper removes them in the background.
type SessionStore struct {
	sessions sync.Map // string -> *model.Session
	now      func() time.Time

	mu     sync.Mutex // guards the sweeper lifecycle only
	stop   chan struct{}
	doneWG sync.WaitGroup
}

// NewSessionStore creates an empty SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{now: time.Now}
}

// Create inserts s unless its token hash is already present.
func (st *SessionStore) Create(_ context.Context, s *model.Session) error {
	rec := *s
	if _, loaded := st.sessions.LoadOrStore(rec.TokenHash, &rec); loaded {
		return session.ErrTokenCollision
	}
	return nil
}

// Get returns a copy of the session stored under tokenHash.
func (st *SessionStore) Get(_ context.Context, tokenHash string) (*model.Session, error) {
	v, ok := st.sessions.Load(tokenHash)
	if !ok {
		return nil, session.ErrNotFound
	}
	rec := *v.(*model.Session)
	if rec.IsExpiredAt(st.now()) {
		st.sessions.CompareAndDelete(tokenHash, v)
		return nil, session.ErrNotFound
	}
	return &rec, nil
}

// Delete removes the session. Absent sessions are ignored.
func (st *SessionStore) Delete(_ context.Context, tokenHash string) error {
	st.sessions.Delete(tokenHash)
	return nil
}

// Sweep removes sessions expired at now and returns how many were removed.
func (st *SessionStore) Sweep(now time.Time) int {
	removed := 0
	st.sessions.Range(func(k, v any) bool {
		if v.(*model.Session).IsExpiredAt(now) && st.sessions.CompareAndDelete(k, v) {
			removed++
		}
		return true
	})
	return removed
}

// StartSweeper runs Sweep every interval until Close is called.
// Calling it again while a sweeper runs is a no-op.
func (st *SessionStore) StartSweeper(interval time.Duration) {
	if interval <= 0 {
		return
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if st.stop != nil {
		return
	}
	stop := make(chan struct{})
	st.stop = stop

	st.doneWG.Add(1)
	go func() {
		defer st.doneWG.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				st.Sweep(st.now())
			}
		}
	}()
}

// Close stops the sweeper and waits for it to exit.
func (st *SessionStore) Close() error {
	st.mu.Lock()
	if st.stop != nil {
		close(st.stop)
		st.stop = nil
	}
	st.mu.Unlock()
	st.doneWG.Wait()
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (st *SessionStore) Len() int {
	n := 0
	st.sessions.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
