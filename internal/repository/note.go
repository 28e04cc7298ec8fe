package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/quillnote/quillnote/internal/model"
	"github.com/quillnote/quillnote/internal/store"
)

var _ store.NoteStore = (*Repository)(nil)

const noteColumns = `id, owner_id, title, content, created_at, updated_at`

// CreateNote inserts a new note.
func (r *Repository) CreateNote(ctx context.Context, note *model.Note) error {
	query := `
		INSERT INTO notes (` + noteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		note.ID,
		note.OwnerID,
		note.Title,
		note.Content,
		note.CreatedAt,
		note.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicateID
		}
		return oops.With("operation", "create note").With("note_id", note.ID).Wrap(err)
	}

	return nil
}

// ListNotesByOwner returns the owner's notes, newest first.
func (r *Repository) ListNotesByOwner(ctx context.Context, ownerID string) ([]*model.Note, error) {
	query := `
		SELECT ` + noteColumns + `
		FROM notes
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, oops.With("operation", "list notes").Wrap(err)
	}
	defer rows.Close()

	notes := make([]*model.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, oops.With("operation", "scan note row").Wrap(err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "iterate notes").Wrap(err)
	}

	return notes, nil
}

// GetNote returns the note matching both id and owner.
func (r *Repository) GetNote(ctx context.Context, key model.NoteKey) (*model.Note, error) {
	query := `
		SELECT ` + noteColumns + `
		FROM notes
		WHERE id = $1 AND owner_id = $2
	`

	note, err := scanNote(r.pool.QueryRow(ctx, query, key.ID, key.OwnerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNoteNotFound
		}
		return nil, oops.With("operation", "get note").With("note_id", key.ID).Wrap(err)
	}

	return note, nil
}

// UpdateNote replaces title and content in one statement keyed by id and
// owner, so a foreign note is indistinguishable from a missing one.
func (r *Repository) UpdateNote(ctx context.Context, key model.NoteKey, title, content string, updatedAt time.Time) (*model.Note, error) {
	query := `
		UPDATE notes
		SET title = $3, content = $4, updated_at = $5
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + noteColumns

	note, err := scanNote(r.pool.QueryRow(ctx, query, key.ID, key.OwnerID, title, content, updatedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNoteNotFound
		}
		return nil, oops.With("operation", "update note").With("note_id", key.ID).Wrap(err)
	}

	return note, nil
}

// DeleteNote removes the note matching both id and owner.
func (r *Repository) DeleteNote(ctx context.Context, key model.NoteKey) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM notes WHERE id = $1 AND owner_id = $2`,
		key.ID, key.OwnerID,
	)
	if err != nil {
		return oops.With("operation", "delete note").With("note_id", key.ID).Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNoteNotFound
	}
	return nil
}

func scanNote(row pgx.Row) (*model.Note, error) {
	var note model.Note
	err := row.Scan(
		&note.ID,
		&note.OwnerID,
		&note.Title,
		&note.Content,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &note, nil
}
