package impl

import (
	"context"
	"testing"

	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/service"
	"bazaar/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userServiceFixtures struct {
	service      usecase.UserUsecase
	factory      *fakeRepoFactory
	tokenService *fakeTokenService
	publisher    *fakePublisher
}

func createTestUserService(maxActiveSessions int) userServiceFixtures {
	factory := newFakeRepoFactory()
	tokenService := &fakeTokenService{}
	publisher := &fakePublisher{}

	svc := NewUserService(UserServiceParams{
		TxManager:        &fakeTxManager{factory: factory},
		UserRepo:         factory.users,
		RefreshTokenRepo: factory.tokens,
		Hasher:           fakePasswordHasher{},
		TokenService:     tokenService,
		Publisher:        publisher,
		Config:           newTestConfig(maxActiveSessions),
		Logger:           newDiscardLogger(),
	})

	return userServiceFixtures{
		service:      svc,
		factory:      factory,
		tokenService: tokenService,
		publisher:    publisher,
	}
}

func registerInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Email:    "buyer@example.com",
		Username: "buyer",
		Password: "Password123!",
		FullName: "Buyer One",
		Type:     "customer",
		Company:  "ACME",
		Position: "manager",
	}
}

func TestUserService_Register_Success(t *testing.T) {
	fx := createTestUserService(0)
	ctx := context.Background()

	output, err := fx.service.Register(ctx, registerInput())

	require.NoError(t, err)
	require.NotNil(t, output.User)
	assert.Equal(t, "buyer@example.com", output.User.Email)
	assert.Equal(t, entity.RoleCustomer, output.User.Type)

	// Credential row stored under the password provider, keyed by username.
	auth, err := fx.factory.auths.FindAuthentication(ctx, entity.ProviderTypePassword, "buyer")
	require.NoError(t, err)
	assert.Equal(t, output.User.ID, auth.UserID)
	assert.Equal(t, "hashed:Password123!", auth.PasswordHash)

	// Welcome mail event published after commit.
	require.Len(t, fx.publisher.events, 1)
	assert.Equal(t, service.MailEventUserRegistered, fx.publisher.events[0].Type)
	assert.Equal(t, "buyer@example.com", fx.publisher.events[0].Email)
}

func TestUserService_Register_InvalidType(t *testing.T) {
	fx := createTestUserService(0)

	input := registerInput()
	input.Type = "admin"

	_, err := fx.service.Register(context.Background(), input)

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidUserType)
	assert.Empty(t, fx.publisher.events)
}

func TestUserService_Register_DuplicateUsername(t *testing.T) {
	fx := createTestUserService(0)
	ctx := context.Background()

	_, err := fx.service.Register(ctx, registerInput())
	require.NoError(t, err)

	input := registerInput()
	input.Email = "other@example.com"
	_, err = fx.service.Register(ctx, input)

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	fx := createTestUserService(0)
	ctx := context.Background()

	_, err := fx.service.Register(ctx, registerInput())
	require.NoError(t, err)

	input := registerInput()
	input.Username = "other"
	_, err = fx.service.Register(ctx, input)

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestUserService_Login_Success(t *testing.T) {
	fx := createTestUserService(0)
	ctx := context.Background()

	registered, err := fx.service.Register(ctx, registerInput())
	require.NoError(t, err)

	output, err := fx.service.Login(ctx, usecase.LoginInput{Username: "buyer", Password: "Password123!"})

	require.NoError(t, err)
	assert.NotEmpty(t, output.AccessToken)
	assert.NotEmpty(t, output.RefreshToken)
	assert.Equal(t, registered.User.ID, output.User.ID)

	// Session row stored under the token hash.
	count, err := fx.factory.tokens.CountActiveSessionsByUserID(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	fx := createTestUserService(0)
	ctx := context.Background()

	_, err := fx.service.Register(ctx, registerInput())
	require.NoError(t, err)

	_, err = fx.service.Login(ctx, usecase.LoginInput{Username: "buyer", Password: "nope"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestUserService_Login_UnknownUserSameError(t *testing.T) {
	fx := createTestUserService(0)

	_, err := fx.service.Login(context.Background(), usecase.LoginInput{Username: "ghost", Password: "whatever"})

	require.Error(t, err)
	// Unknown username and wrong password must be indistinguishable.
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestUserService_Login_SessionLimit(t *testing.T) {
	fx := createTestUserService(2)
	ctx := context.Background()

	_, err := fx.service.Register(ctx, registerInput())
	require.NoError(t, err)

	login := usecase.LoginInput{Username: "buyer", Password: "Password123!"}
	for range 2 {
		_, err = fx.service.Login(ctx, login)
		require.NoError(t, err)
	}

	_, err = fx.service.Login(ctx, login)

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrSessionLimitExceeded)
}

func TestUserService_RefreshToken_Success(t *testing.T) {
	fx := createTestUserService(0)
	ctx := context.Background()

	_, err := fx.service.Register(ctx, registerInput())
	require.NoError(t, err)
	login, err := fx.service.Login(ctx, usecase.LoginInput{Username: "buyer", Password: "Password123!"})
	require.NoError(t, err)

	output, err := fx.service.RefreshToken(ctx, usecase.RefreshTokenInput{RefreshToken: login.RefreshToken})

	require.NoError(t, err)
	assert.NotEmpty(t, output.AccessToken)
	assert.NotEqual(t, login.AccessToken, output.AccessToken)
}

func TestUserService_RefreshToken_UnknownToken(t *testing.T) {
	fx := createTestUserService(0)

	_, err := fx.service.RefreshToken(context.Background(), usecase.RefreshTokenInput{RefreshToken: "made-up"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
}

func TestUserService_Logout_EndsSession(t *testing.T) {
	fx := createTestUserService(0)
	ctx := context.Background()

	registered, err := fx.service.Register(ctx, registerInput())
	require.NoError(t, err)
	login, err := fx.service.Login(ctx, usecase.LoginInput{Username: "buyer", Password: "Password123!"})
	require.NoError(t, err)

	err = fx.service.Logout(ctx, usecase.LogoutInput{RefreshToken: login.RefreshToken})
	require.NoError(t, err)

	count, err := fx.factory.tokens.CountActiveSessionsByUserID(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	// Refreshing with the revoked token must fail.
	_, err = fx.service.RefreshToken(ctx, usecase.RefreshTokenInput{RefreshToken: login.RefreshToken})
	assert.Error(t, err)
}

func TestUserService_Logout_UnknownTokenIsNoop(t *testing.T) {
	fx := createTestUserService(0)

	err := fx.service.Logout(context.Background(), usecase.LogoutInput{RefreshToken: "made-up"})

	require.NoError(t, err)
}

// Wrapped domain errors must stay matchable through the usecase layer.
func TestUserService_ErrorsSurviveWrapping(t *testing.T) {
	wrapped := errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	assert.ErrorIs(t, errors.Wrap(wrapped, "outer"), domainerrors.ErrInvalidCredentials)
}
