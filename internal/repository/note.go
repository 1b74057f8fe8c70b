package repository

import (
	"context"

	"note-keeper/internal/domain"
)

// NoteRepository exposes persistence operations for notes.
type NoteRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, note *domain.Note) (int64, error)
	Update(ctx context.Context, note *domain.Note) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*domain.Note, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Note, error)
}
