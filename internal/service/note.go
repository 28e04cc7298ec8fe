package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/quillnote/quillnote/internal/metrics"
	"github.com/quillnote/quillnote/internal/model"
	"github.com/quillnote/quillnote/internal/store"
)

// maxTitleLength is the title limit in runes.
const maxTitleLength = 200

// NoteService handles note business logic. Every operation is scoped to the
// acting identity.
type NoteService struct {
	notes   store.NoteStore
	logger  *slog.Logger
	metrics metrics.Recorder
	now     func() time.Time
}

// NewNoteService creates a new NoteService.
func NewNoteService(notes store.NoteStore, logger *slog.Logger, recorder metrics.Recorder) *NoteService {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &NoteService{
		notes:   notes,
		logger:  logger,
		metrics: recorder,
		now:     time.Now,
	}
}

// List returns the identity's notes, newest first.
func (s *NoteService) List(ctx context.Context, identityID string) ([]*model.Note, error) {
	if identityID == "" {
		return nil, model.ErrAuthorization
	}

	notes, err := s.notes.ListNotesByOwner(ctx, identityID)
	if err != nil {
		s.metrics.IncNoteOperation("list", metrics.OutcomeError)
		return nil, fmt.Errorf("list notes: %w", err)
	}

	s.metrics.IncNoteOperation("list", metrics.OutcomeSuccess)
	return notes, nil
}

// Get returns one note owned by the identity.
func (s *NoteService) Get(ctx context.Context, identityID, noteID string) (*model.Note, error) {
	if identityID == "" {
		return nil, model.ErrAuthorization
	}

	note, err := s.notes.GetNote(ctx, model.NoteKey{ID: noteID, OwnerID: identityID})
	if err != nil {
		return nil, s.storeError("get", err)
	}

	s.metrics.IncNoteOperation("get", metrics.OutcomeSuccess)
	return note, nil
}

// Create stores a new note owned by the identity.
func (s *NoteService) Create(ctx context.Context, identityID, title, content string) (*model.Note, error) {
	if identityID == "" {
		return nil, model.ErrAuthorization
	}
	if err := validateNote(title, content); err != nil {
		s.metrics.IncNoteOperation("create", metrics.OutcomeInvalid)
		return nil, err
	}

	now := s.timestamp()
	note := &model.Note{
		ID:        newID(),
		OwnerID:   identityID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.notes.CreateNote(ctx, note); err != nil {
		s.metrics.IncNoteOperation("create", metrics.OutcomeError)
		return nil, fmt.Errorf("create note: %w", err)
	}

	s.metrics.IncNoteOperation("create", metrics.OutcomeSuccess)
	s.logger.Debug("note created",
		slog.String("identity_id", identityID),
		slog.String("note_id", note.ID),
	)
	return note, nil
}

// Update replaces title and content of a note owned by the identity.
// A note owned by someone else is reported exactly like a missing one.
func (s *NoteService) Update(ctx context.Context, identityID, noteID, title, content string) (*model.Note, error) {
	if identityID == "" {
		return nil, model.ErrAuthorization
	}
	if err := validateNote(title, content); err != nil {
		s.metrics.IncNoteOperation("update", metrics.OutcomeInvalid)
		return nil, err
	}

	key := model.NoteKey{ID: noteID, OwnerID: identityID}
	note, err := s.notes.UpdateNote(ctx, key, title, content, s.timestamp())
	if err != nil {
		return nil, s.storeError("update", err)
	}

	s.metrics.IncNoteOperation("update", metrics.OutcomeSuccess)
	return note, nil
}

// Delete removes a note owned by the identity.
func (s *NoteService) Delete(ctx context.Context, identityID, noteID string) error {
	if identityID == "" {
		return model.ErrAuthorization
	}

	if err := s.notes.DeleteNote(ctx, model.NoteKey{ID: noteID, OwnerID: identityID}); err != nil {
		return s.storeError("delete", err)
	}

	s.metrics.IncNoteOperation("delete", metrics.OutcomeSuccess)
	return nil
}

// timestamp returns the current time in UTC at the microsecond precision
// postgres TIMESTAMPTZ keeps, so a returned note matches a later read.
func (s *NoteService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// storeError maps a note store error to a service error kind.
func (s *NoteService) storeError(op string, err error) error {
	if errors.Is(err, store.ErrNoteNotFound) {
		s.metrics.IncNoteOperation(op, metrics.OutcomeNotFound)
		return fmt.Errorf("%w: note", model.ErrNotFound)
	}
	s.metrics.IncNoteOperation(op, metrics.OutcomeError)
	return fmt.Errorf("%s note: %w", op, err)
}

func validateNote(title, content string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", model.ErrValidation)
	}
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: content is required", model.ErrValidation)
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return fmt.Errorf("%w: title must be at most %d characters", model.ErrValidation, maxTitleLength)
	}
	return nil
}
