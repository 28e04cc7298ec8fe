// Package store defines the durable store contracts used by the services.
//
// Lookups of a single note always take a model.NoteKey (id and owner
// together), so ownership is enforced at the store boundary instead of by
// caller discipline.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/quillnote/quillnote/internal/model"
)

// Store errors shared by every backend.
var (
	ErrUsernameTaken    = errors.New("username already exists")
	ErrIdentityNotFound = errors.New("identity not found")
	ErrNoteNotFound     = errors.New("note not found")
	ErrDuplicateID      = errors.New("duplicate id")
)

// CredentialStore maps usernames to identities.
type CredentialStore interface {
	// CreateIdentity inserts identity. The store's uniqueness constraint is
	// the arbiter: a taken username yields ErrUsernameTaken and the existing
	// record is left untouched.
	CreateIdentity(ctx context.Context, identity *model.Identity) error

	// GetIdentityByUsername returns the identity or ErrIdentityNotFound.
	GetIdentityByUsername(ctx context.Context, username string) (*model.Identity, error)

	// IdentityExists reports whether an identity with the id exists.
	IdentityExists(ctx context.Context, id string) (bool, error)
}

// NoteStore persists notes.
type NoteStore interface {
	// CreateNote inserts a note.
	CreateNote(ctx context.Context, note *model.Note) error

	// ListNotesByOwner returns the owner's notes, newest first.
	ListNotesByOwner(ctx context.Context, ownerID string) ([]*model.Note, error)

	// GetNote returns the note addressed by key or ErrNoteNotFound.
	GetNote(ctx context.Context, key model.NoteKey) (*model.Note, error)

	// UpdateNote replaces title and content of the note addressed by key in
	// one atomic step and returns the result, or ErrNoteNotFound.
	UpdateNote(ctx context.Context, key model.NoteKey, title, content string, updatedAt time.Time) (*model.Note, error)

	// DeleteNote removes the note addressed by key or returns ErrNoteNotFound.
	DeleteNote(ctx context.Context, key model.NoteKey) error
}
