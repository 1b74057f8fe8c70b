package service

import (
	"context"
	"time"

	"note-keeper/internal/domain"
	"note-keeper/internal/repository"
)

// NoteService coordinates note operations. None of them check ownership.
type NoteService interface {
	CreateNote(ctx context.Context, ownerID *int64, title, text string) (*domain.Note, error)
	GetNote(ctx context.Context, id int64) (*domain.Note, error)
	ListNotes(ctx context.Context, userID int64) ([]domain.Note, error)
	UpdateNote(ctx context.Context, id int64, title, text string) (*domain.Note, error)
	DeleteNote(ctx context.Context, id int64) error
}

type noteService struct {
	notes repository.NoteRepository
	now   func() time.Time
}

func NewNoteService(notes repository.NoteRepository) NoteService {
	return &noteService{
		notes: notes,
		now:   time.Now,
	}
}

func (s *noteService) CreateNote(ctx context.Context, ownerID *int64, title, text string) (*domain.Note, error) {
	note := &domain.Note{
		Title:  title,
		Text:   text,
		Date:   s.now().Format(domain.DateLayout),
		UserID: ownerID,
	}
	if _, err := s.notes.Create(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *noteService) GetNote(ctx context.Context, id int64) (*domain.Note, error) {
	return s.notes.Get(ctx, id)
}

func (s *noteService) ListNotes(ctx context.Context, userID int64) ([]domain.Note, error) {
	return s.notes.ListByUser(ctx, userID)
}

// UpdateNote replaces title and text. Concurrent updates race; the last one wins.
func (s *noteService) UpdateNote(ctx context.Context, id int64, title, text string) (*domain.Note, error) {
	note, err := s.notes.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	note.Title = title
	note.Text = text
	if err := s.notes.Update(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *noteService) DeleteNote(ctx context.Context, id int64) error {
	if _, err := s.notes.Get(ctx, id); err != nil {
		return err
	}
	return s.notes.Delete(ctx, id)
}
