package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/traveler-registration/internal/domain"
	"github.com/pkordes/traveler-registration/internal/repo"
	"github.com/pkordes/traveler-registration/testutil"
)

func TestUserRepo_CreateAndGet(t *testing.T) {
	r := repo.NewUserRepo(testutil.NewTx(t))
	ctx := context.Background()

	created, err := r.Create(ctx, domain.User{Username: "clerk", Email: "clerk@example.com", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.NotEqual(t, [16]byte{}, created.ID, "ID should be DB-generated UUID")

	byName, err := r.GetByUsername(ctx, "clerk")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)
	assert.Equal(t, "hash", byName.PasswordHash)
	assert.Equal(t, "clerk@example.com", byName.Email)
}

func TestUserRepo_Create_DuplicateUsername(t *testing.T) {
	r := repo.NewUserRepo(testutil.NewTx(t))
	ctx := context.Background()
	_, err := r.Create(ctx, domain.User{Username: "dup", Email: "a@example.com", PasswordHash: "h"})
	require.NoError(t, err)

	_, err = r.Create(ctx, domain.User{Username: "dup", Email: "b@example.com", PasswordHash: "h"})

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUserRepo_GetByUsername_NotFound(t *testing.T) {
	r := repo.NewUserRepo(testutil.NewTx(t))

	_, err := r.GetByUsername(context.Background(), "nobody-here")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepo_Count(t *testing.T) {
	r := repo.NewUserRepo(testutil.NewTx(t))
	ctx := context.Background()
	before, err := r.Count(ctx)
	require.NoError(t, err)

	_, err = r.Create(ctx, domain.User{Username: "counted", Email: "counted@example.com", PasswordHash: "h"})
	require.NoError(t, err)

	after, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)
}
