package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"note-keeper/internal/domain"
	"note-keeper/internal/repository"
)

func testNote(title string, userID *int64) *domain.Note {
	return &domain.Note{Title: title, Text: "body of " + title, Date: "10-19-2026", UserID: userID}
}

func newNoteRepo(t *testing.T) repository.NoteRepository {
	t.Helper()
	repo := NewNoteRepository(openTestDB(t))
	require.NoError(t, repo.Init(context.Background()))
	return repo
}

func TestNoteRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := newNoteRepo(t)
	owner := int64(7)

	note := testNote("T1", &owner)
	id, err := repo.Create(ctx, note)
	require.NoError(t, err)
	assert.Equal(t, id, note.ID)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "T1", got.Title)
	assert.Equal(t, "body of T1", got.Text)
	assert.Equal(t, "10-19-2026", got.Date)
	require.NotNil(t, got.UserID)
	assert.Equal(t, owner, *got.UserID)

	got.Title = "T2"
	require.NoError(t, repo.Update(ctx, got))
	updated, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "T2", updated.Title)
	assert.Equal(t, "body of T1", updated.Text)

	require.NoError(t, repo.Delete(ctx, id))
	_, err = repo.Get(ctx, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, id), repository.ErrNotFound)
}

func TestNoteRepositoryListByUser(t *testing.T) {
	ctx := context.Background()
	repo := newNoteRepo(t)
	alice, bob := int64(1), int64(2)

	for _, n := range []*domain.Note{testNote("a1", &alice), testNote("b1", &bob), testNote("orphan", nil), testNote("a2", &alice)} {
		_, err := repo.Create(ctx, n)
		require.NoError(t, err)
	}

	notes, err := repo.ListByUser(ctx, alice)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "a1", notes[0].Title)
	assert.Equal(t, "a2", notes[1].Title)

	empty, err := repo.ListByUser(ctx, 99)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestNoteRepositoryStoresNullOwner(t *testing.T) {
	ctx := context.Background()
	repo := newNoteRepo(t)

	id, err := repo.Create(ctx, testNote("orphan", nil))
	require.NoError(t, err)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got.UserID)
}

func TestNoteRepositoryUpdateMissing(t *testing.T) {
	repo := newNoteRepo(t)
	err := repo.Update(context.Background(), &domain.Note{ID: 404, Title: "x"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestNoteRepositoryStorageFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, title, text, date, user_id").
		WithArgs(int64(3)).
		WillReturnError(sql.ErrConnDone)

	repo := NewNoteRepository(db)
	_, err = repo.Get(context.Background(), 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NotErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
