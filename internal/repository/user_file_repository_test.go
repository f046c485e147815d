package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"GuardianAngelAPI/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCreateAndLookup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	repo, err := NewUserFileRepository(path, testLogger(t))
	require.NoError(t, err)
	ctx := context.Background()

	user := &models.User{
		ID:         "u1",
		Email:      "parent@example.com",
		ParentName: "Sarah",
		ChildName:  "John",
		CreatedAt:  time.Now(),
	}
	require.NoError(t, repo.Create(ctx, user))

	// Duplicate email rejected, case-insensitively.
	err = repo.Create(ctx, &models.User{ID: "u2", Email: "Parent@Example.com"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	got, err := repo.GetByEmail(ctx, "PARENT@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	got, err = repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Sarah", got.ParentName)

	_, err = repo.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserUpdatePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	repo, err := NewUserFileRepository(path, testLogger(t))
	require.NoError(t, err)
	ctx := context.Background()

	user := &models.User{ID: "u1", Email: "parent@example.com", ChildName: "John"}
	require.NoError(t, repo.Create(ctx, user))

	user.ChildName = "Johnny"
	require.NoError(t, repo.Update(ctx, user))

	reloaded, err := NewUserFileRepository(path, testLogger(t))
	require.NoError(t, err)
	got, err := reloaded.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Johnny", got.ChildName)
}
