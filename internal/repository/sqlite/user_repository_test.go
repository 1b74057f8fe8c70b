package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"note-keeper/internal/domain"
	"note-keeper/internal/repository"
)

func TestUserRepositoryCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(openTestDB(t))
	require.NoError(t, repo.Init(ctx))

	user := &domain.User{FirstName: "A", LastName: "B", Email: "a@b.com", PasswordHash: []byte("hash")}
	id, err := repo.Create(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "A", got.FirstName)
	assert.Equal(t, "B", got.LastName)
	assert.Equal(t, "a@b.com", got.Email)
	assert.Equal(t, []byte("hash"), got.PasswordHash)

	byEmail, err := repo.GetByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, id, byEmail.ID)
}

func TestUserRepositoryDuplicateEmailInsertsButLookupFails(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(openTestDB(t))
	require.NoError(t, repo.Init(ctx))

	first, err := repo.Create(ctx, &domain.User{FirstName: "A", Email: "dup@b.com", PasswordHash: []byte("x")})
	require.NoError(t, err)
	second, err := repo.Create(ctx, &domain.User{FirstName: "C", Email: "dup@b.com", PasswordHash: []byte("y")})
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	_, err = repo.GetByEmail(ctx, "dup@b.com")
	assert.ErrorIs(t, err, repository.ErrMultipleRows)
	assert.NotErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepositoryNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(openTestDB(t))
	require.NoError(t, repo.Init(ctx))

	_, err := repo.GetByID(ctx, 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.GetByEmail(ctx, "nobody@b.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
