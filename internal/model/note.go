package model

import (
	"slices"
	"strings"
	"time"
)

// Note is a text note owned by exactly one identity.
type Note struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"-"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NoteKey addresses a note through its owner. Every read, update and
// delete of a single note goes through a NoteKey so a note owned by
// someone else is indistinguishable from a missing one.
type NoteKey struct {
	ID      string
	OwnerID string
}

// OwnedBy reports whether the note belongs to the given identity.
func (n *Note) OwnedBy(identityID string) bool {
	return identityID != "" && n.OwnerID == identityID
}

// Matches reports whether the note is addressed by key.
func (n *Note) Matches(key NoteKey) bool {
	return n.ID == key.ID && n.OwnedBy(key.OwnerID)
}

// SortNotesNewestFirst orders notes by creation time descending, breaking
// ties by ID descending so the order is stable.
func SortNotesNewestFirst(notes []*Note) {
	slices.SortFunc(notes, func(a, b *Note) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
}
