package service_test

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/SergeiKhy/url-shortener/internal/service"
	"github.com/SergeiKhy/url-shortener/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupAuthService создаёт сервис аутентификации с моками и заданными инвайтами
func setupAuthService(t *testing.T, inviteCodes ...string) (service.AuthService, service.TokenService) {
	t.Helper()

	tokens, err := service.NewTokenService(testSecret, service.DefaultTokenTTL)
	require.NoError(t, err)

	authService := service.NewAuthService(
		mocks.NewMockUserRepository(),
		mocks.NewMockInviteRepository(inviteCodes...),
		service.NewPasswordHasher(),
		tokens,
		zap.NewNop(),
	)
	return authService, tokens
}

// TestAuthService_SignUp_Success проверяет регистрацию по коду приглашения
func TestAuthService_SignUp_Success(t *testing.T) {
	authService, tokens := setupAuthService(t, "invite-1")
	ctx := context.Background()

	result, err := authService.SignUp(ctx, "alice@example.com", "secret123", "invite-1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", result.User.Email)
	assert.NotEqual(t, "secret123", result.User.PasswordHash)

	// Выпущенный токен валиден и содержит личность пользователя
	identity, err := tokens.Validate(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, identity.UserID)
	assert.Equal(t, "alice@example.com", identity.Email)
}

// TestAuthService_SignUp_InviteIsSingleUse: код приглашения одноразовый
func TestAuthService_SignUp_InviteIsSingleUse(t *testing.T) {
	authService, _ := setupAuthService(t, "invite-1")
	ctx := context.Background()

	_, err := authService.SignUp(ctx, "alice@example.com", "secret123", "invite-1")
	require.NoError(t, err)

	result, err := authService.SignUp(ctx, "bob@example.com", "secret456", "invite-1")
	assert.ErrorIs(t, err, service.ErrInvalidInvite)
	assert.Nil(t, result)
}

// TestAuthService_SignUp_UnknownInvite: несуществующий код отклоняется
func TestAuthService_SignUp_UnknownInvite(t *testing.T) {
	authService, _ := setupAuthService(t)
	ctx := context.Background()

	result, err := authService.SignUp(ctx, "alice@example.com", "secret123", "no-such-code")
	assert.ErrorIs(t, err, service.ErrInvalidInvite)
	assert.Nil(t, result)
}

// TestAuthService_SignUp_DuplicateEmail: повторная регистрация email отклоняется
func TestAuthService_SignUp_DuplicateEmail(t *testing.T) {
	authService, _ := setupAuthService(t, "invite-1", "invite-2")
	ctx := context.Background()

	_, err := authService.SignUp(ctx, "alice@example.com", "secret123", "invite-1")
	require.NoError(t, err)

	result, err := authService.SignUp(ctx, "alice@example.com", "other456", "invite-2")
	assert.ErrorIs(t, err, service.ErrEmailTaken)
	assert.Nil(t, result)
}

// TestAuthService_Login_Success проверяет вход с верным паролем
func TestAuthService_Login_Success(t *testing.T) {
	authService, tokens := setupAuthService(t, "invite-1")
	ctx := context.Background()

	_, err := authService.SignUp(ctx, "alice@example.com", "secret123", "invite-1")
	require.NoError(t, err)

	result, err := authService.Login(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)

	identity, err := tokens.Validate(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", identity.Email)
}

// TestAuthService_Login_WrongPassword: неверный пароль и неизвестный email
// дают одну и ту же ошибку
func TestAuthService_Login_WrongPassword(t *testing.T) {
	authService, _ := setupAuthService(t, "invite-1")
	ctx := context.Background()

	_, err := authService.SignUp(ctx, "alice@example.com", "secret123", "invite-1")
	require.NoError(t, err)

	result, err := authService.Login(ctx, "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	assert.Nil(t, result)

	result, err = authService.Login(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	assert.Nil(t, result)
}
