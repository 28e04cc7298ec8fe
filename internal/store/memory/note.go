package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/quillnote/quillnote/internal/model"
	"github.com/quillnote/quillnote/internal/store"
)

var _ store.NoteStore = (*NoteStore)(nil)

// NoteStore keeps notes in memory, keyed by id. Records are immutable
// once stored; updates swap in a new record with CompareAndSwap so each
// note is updated atomically.
type NoteStore struct {
	notes sync.Map // string -> *model.Note
}

// NewNoteStore creates an empty NoteStore.
func NewNoteStore() *NoteStore {
	return &NoteStore{}
}

// CreateNote inserts a copy of note.
func (s *NoteStore) CreateNote(_ context.Context, note *model.Note) error {
	rec := *note
	if _, loaded := s.notes.LoadOrStore(rec.ID, &rec); loaded {
		return fmt.Errorf("create note %s: %w", rec.ID, store.ErrDuplicateID)
	}
	return nil
}

// ListNotesByOwner returns copies of the owner's notes, newest first.
func (s *NoteStore) ListNotesByOwner(_ context.Context, ownerID string) ([]*model.Note, error) {
	notes := make([]*model.Note, 0)
	s.notes.Range(func(_, v any) bool {
		n := v.(*model.Note)
		if n.OwnedBy(ownerID) {
			c := *n
			notes = append(notes, &c)
		}
		return true
	})
	model.SortNotesNewestFirst(notes)
	return notes, nil
}

// GetNote returns a copy of the note addressed by key.
func (s *NoteStore) GetNote(_ context.Context, key model.NoteKey) (*model.Note, error) {
	cur, ok := s.load(key)
	if !ok {
		return nil, store.ErrNoteNotFound
	}
	c := *cur
	return &c, nil
}

// UpdateNote replaces title and content of the note addressed by key.
func (s *NoteStore) UpdateNote(_ context.Context, key model.NoteKey, title, content string, updatedAt time.Time) (*model.Note, error) {
	for {
		cur, ok := s.load(key)
		if !ok {
			return nil, store.ErrNoteNotFound
		}

		next := *cur
		next.Title = title
		next.Content = content
		next.UpdatedAt = updatedAt

		if s.notes.CompareAndSwap(key.ID, cur, &next) {
			c := next
			return &c, nil
		}
		// Lost a race with another writer on this note; reload.
	}
}

// DeleteNote removes the note addressed by key.
func (s *NoteStore) DeleteNote(_ context.Context, key model.NoteKey) error {
	for {
		cur, ok := s.load(key)
		if !ok {
			return store.ErrNoteNotFound
		}
		if s.notes.CompareAndDelete(key.ID, cur) {
			return nil
		}
	}
}

func (s *NoteStore) load(key model.NoteKey) (*model.Note, bool) {
	v, ok := s.notes.Load(key.ID)
	if !ok {
		return nil, false
	}
	n := v.(*model.Note)
	if !n.Matches(key) {
		return nil, false
	}
	return n, true
}
