// Package memory provides in-process store backends for development and
// tests. They honour the same per-record atomicity as the durable backends
// without a global lock.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/quillnote/quillnote/internal/model"
	"github.com/quillnote/quillnote/internal/store"
)

var _ store.CredentialStore = (*IdentityStore)(nil)

// IdentityStore keeps identities in memory.
type IdentityStore struct {
	byUsername sync.Map // string -> *model.Identity
	byID       sync.Map // string -> *model.Identity
}

// NewIdentityStore creates an empty IdentityStore.
func NewIdentityStore() *IdentityStore {
	return &IdentityStore{}
}

// CreateIdentity inserts identity. LoadOrStore on the username is the
// uniqueness arbiter, so concurrent registrations yield one winner.
func (s *IdentityStore) CreateIdentity(_ context.Context, identity *model.Identity) error {
	rec := *identity
	if _, loaded := s.byUsername.LoadOrStore(rec.Username, &rec); loaded {
		return store.ErrUsernameTaken
	}
	if _, loaded := s.byID.LoadOrStore(rec.ID, &rec); loaded {
		s.byUsername.CompareAndDelete(rec.Username, &rec)
		return fmt.Errorf("create identity %s: %w", rec.ID, store.ErrDuplicateID)
	}
	return nil
}

// GetIdentityByUsername returns a copy of the identity.
func (s *IdentityStore) GetIdentityByUsername(_ context.Context, username string) (*model.Identity, error) {
	v, ok := s.byUsername.Load(username)
	if !ok {
		return nil, store.ErrIdentityNotFound
	}
	rec := *v.(*model.Identity)
	return &rec, nil
}

// IdentityExists reports whether id is registered.
func (s *IdentityStore) IdentityExists(_ context.Context, id string) (bool, error) {
	_, ok := s.byID.Load(id)
	return ok, nil
}

// Remove deletes an identity. Registration never calls it; it stands in
// for out-of-band account removal.
func (s *IdentityStore) Remove(id string) {
	v, ok := s.byID.LoadAndDelete(id)
	if !ok {
		return
	}
	s.byUsername.CompareAndDelete(v.(*model.Identity).Username, v)
}

// Len returns the number of stored identities.
func (s *IdentityStore) Len() int {
	n := 0
	s.byID.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
