package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"note-keeper/internal/domain"
	"note-keeper/internal/repository"
)

// user_id is deliberately not a foreign key: notes may be stored without an
// owner and nothing checks that the owner exists.
const createNotesTable = `
CREATE TABLE IF NOT EXISTS notes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	text TEXT NOT NULL,
	date TEXT NOT NULL,
	user_id INTEGER NULL
);
CREATE INDEX IF NOT EXISTS idx_notes_user_id ON notes(user_id);
`

type NoteRepository struct {
	db *sql.DB
}

func NewNoteRepository(db *sql.DB) repository.NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createNotesTable); err != nil {
		return fmt.Errorf("create notes table: %w", err)
	}
	return nil
}

func (r *NoteRepository) Create(ctx context.Context, note *domain.Note) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
INSERT INTO notes (title, text, date, user_id)
VALUES (?, ?, ?, ?)`,
		note.Title,
		note.Text,
		note.Date,
		nullID(note.UserID),
	)
	if err != nil {
		return 0, fmt.Errorf("insert note: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("note last insert id: %w", err)
	}
	note.ID = id
	return id, nil
}

// Update overwrites title and text. There is no version check.
func (r *NoteRepository) Update(ctx context.Context, note *domain.Note) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE notes
SET title=?, text=?
WHERE id=?`,
		note.Title,
		note.Text,
		note.ID,
	)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("note update rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("note %d: %w", note.ID, repository.ErrNotFound)
	}
	return nil
}

func (r *NoteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("note delete rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("note %d: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (r *NoteRepository) Get(ctx context.Context, id int64) (*domain.Note, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, title, text, date, user_id
FROM notes
WHERE id=?`,
		id,
	)
	return scanNote(row)
}

func (r *NoteRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Note, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, title, text, date, user_id
FROM notes
WHERE user_id=?
ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	notes := []domain.Note{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, *note)
	}

	return notes, rows.Err()
}

func scanNote(scanner interface {
	Scan(dest ...any) error
}) (*domain.Note, error) {
	var (
		note   domain.Note
		userID sql.NullInt64
	)
	if err := scanner.Scan(
		&note.ID,
		&note.Title,
		&note.Text,
		&note.Date,
		&userID,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("note: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan note: %w", err)
	}
	if userID.Valid {
		id := userID.Int64
		note.UserID = &id
	}
	return &note, nil
}

func nullID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}
