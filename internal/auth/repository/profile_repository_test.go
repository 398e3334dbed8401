package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phonestore/internal/errors"
	"phonestore/internal/testutil"
)

func TestNewMySQLProfileRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLProfileRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestProfileRepository_UpsertAndFind(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLProfileRepository(db)
	ctx := context.Background()
	id := uuid.New().String()
	testutil.DeleteOnCleanup(t, db, "Profiles", id)

	require.NoError(t, repo.Upsert(ctx, id, "ops@example.com", true))

	p, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", p.Email)
	assert.True(t, p.IsAdmin)

	require.NoError(t, repo.Upsert(ctx, id, "ops@example.com", false))

	p, err = repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, p.IsAdmin)
}

func TestProfileRepository_FindByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLProfileRepository(db)

	p, err := repo.FindByID(context.Background(), uuid.New().String())
	assert.Error(t, err)
	assert.Nil(t, p)

	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}
