package postgres

import (
	"context"
	"testing"
	"time"

	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &entity.User{
		Email:    "buyer@example.com",
		Username: "buyer",
		FullName: "Some Buyer",
		Type:     entity.RoleCustomer,
	}
	require.NoError(t, repo.Create(ctx, user))
	require.NotEqual(t, uuid.Nil, user.ID)

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "buyer", byID.Username)
	assert.Equal(t, entity.RoleCustomer, byID.Type)

	byEmail, err := repo.FindByEmail(ctx, "buyer@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	first := &entity.User{Email: "dup@example.com", Username: "first", Type: entity.RoleShop}
	require.NoError(t, repo.Create(ctx, first))

	second := &entity.User{Email: "dup@example.com", Username: "second", Type: entity.RoleShop}
	err := repo.Create(ctx, second)
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domainerrors.ErrUserAlreadyExists.ErrorCode(), appErr.ErrorCode())
}

func TestUserRepository_FindByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestAuthRepository_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	repo := NewAuthRepository(db)
	ctx := context.Background()

	user := &entity.User{Email: "auth@example.com", Username: "authuser", Type: entity.RoleCustomer}
	require.NoError(t, users.Create(ctx, user))

	require.NoError(t, repo.CreateAuthentication(ctx, &entity.Authentication{
		UserID:         user.ID,
		Provider:       entity.ProviderTypePassword,
		ProviderUserID: "authuser",
		PasswordHash:   "$2a$10$fakehash",
	}))

	auth, err := repo.FindAuthentication(ctx, entity.ProviderTypePassword, "authuser")
	require.NoError(t, err)
	assert.Equal(t, user.ID, auth.UserID)
	assert.Equal(t, "$2a$10$fakehash", auth.PasswordHash)

	_, err = repo.FindAuthentication(ctx, entity.ProviderTypePassword, "unknown")
	assert.ErrorIs(t, err, repository.ErrAuthNotFound)
}

func TestRefreshTokenRepository_Lifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRefreshTokenRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	token := &entity.RefreshToken{
		UserID:    userID,
		TokenHash: "hash-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, repo.CreateRefreshToken(ctx, token))

	found, err := repo.FindRefreshTokenByHash(ctx, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, userID, found.UserID)

	count, err := repo.CountActiveSessionsByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, repo.DeleteRefreshTokenByHash(ctx, "hash-1"))
	_, err = repo.FindRefreshTokenByHash(ctx, "hash-1")
	assert.ErrorIs(t, err, repository.ErrRefreshTokenNotFound)
}

func TestRefreshTokenRepository_ExpiredTokenRejected(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRefreshTokenRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.CreateRefreshToken(ctx, &entity.RefreshToken{
		UserID:    uuid.New(),
		TokenHash: "stale",
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	_, err := repo.FindRefreshTokenByHash(ctx, "stale")
	assert.ErrorIs(t, err, repository.ErrRefreshTokenExpired)

	require.NoError(t, repo.DeleteExpiredRefreshTokens(ctx))

	var count int64
	require.NoError(t, db.Table("refresh_tokens").Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestContactRepository_OwnershipQueries(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContactRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	contact := &entity.Contact{
		UserID: userID,
		City:   "Moscow",
		Street: "Tverskaya",
		House:  "1",
		Phone:  "+79990001122",
	}
	require.NoError(t, repo.Create(ctx, contact))

	owned, err := repo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, "Tverskaya", owned[0].Street)

	other, err := repo.FindByUserID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, repo.Delete(ctx, contact.ID))
	_, err = repo.FindByID(ctx, contact.ID)
	assert.ErrorIs(t, err, repository.ErrContactNotFound)
}
