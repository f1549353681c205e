package repository

import (
	"context"
	"testing"

	"cliptube/internal/database"
	"cliptube/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRepo(t *testing.T) *UserRepository {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	return NewUserRepository(db)
}

func newTestUser(t *testing.T, username, email string) *domain.User {
	t.Helper()
	u, err := domain.NewUser(username, email, "Test User", "password123")
	require.NoError(t, err)
	u.AvatarURL = "/static/uploads/avatar.png"
	return u
}

func TestCreateAndGet(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	u := newTestUser(t, "Alice", "Alice@Example.com")
	require.NoError(t, repo.Create(ctx, u))
	require.NotZero(t, u.ID)

	// stored lowercased
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "alice@example.com", u.Email)

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Nil(t, got.RefreshToken)
}

func TestCreateDuplicate(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestUser(t, "alice", "a@x.com")))

	err := repo.Create(ctx, newTestUser(t, "alice", "other@x.com"))
	assert.ErrorIs(t, err, ErrDuplicate)

	err = repo.Create(ctx, newTestUser(t, "other", "a@x.com"))
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestGetByUsernameOrEmail(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestUser(t, "alice", "a@x.com")))

	byName, err := repo.GetByUsernameOrEmail(ctx, "ALICE")
	require.NoError(t, err)
	assert.Equal(t, "alice", byName.Username)

	byEmail, err := repo.GetByUsernameOrEmail(ctx, "A@X.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", byEmail.Username)

	_, err = repo.GetByUsernameOrEmail(ctx, "nobody")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestExistsByUsernameOrEmail(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestUser(t, "alice", "a@x.com")))

	exists, err := repo.ExistsByUsernameOrEmail(ctx, "alice", "fresh@x.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByUsernameOrEmail(ctx, "fresh", "A@X.COM")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByUsernameOrEmail(ctx, "fresh", "fresh@x.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRefreshTokenLifecycle(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	u := newTestUser(t, "alice", "a@x.com")
	require.NoError(t, repo.Create(ctx, u))

	require.NoError(t, repo.SetRefreshToken(ctx, u.ID, "token-one"))
	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.RefreshToken)
	assert.Equal(t, "token-one", *got.RefreshToken)

	// CAS succeeds against the live value
	swapped, err := repo.SetRefreshTokenIfMatch(ctx, u.ID, "token-one", "token-two")
	require.NoError(t, err)
	assert.True(t, swapped)

	// and fails against the superseded one
	swapped, err = repo.SetRefreshTokenIfMatch(ctx, u.ID, "token-one", "token-three")
	require.NoError(t, err)
	assert.False(t, swapped)

	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.RefreshToken)
	assert.Equal(t, "token-two", *got.RefreshToken)

	require.NoError(t, repo.ClearRefreshToken(ctx, u.ID))
	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, got.RefreshToken)
}
