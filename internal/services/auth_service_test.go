package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cmms-system/internal/dto"
	"cmms-system/internal/entities"
	"cmms-system/pkg/config"
	"cmms-system/pkg/constants"
	apperrors "cmms-system/pkg/errors"
	"cmms-system/pkg/service"
	"cmms-system/pkg/utils"
)

func newTestAuthService(t *testing.T, users ...entities.User) (AuthServiceInterface, *fakeCacheRepo, *fakeUserRepo) {
	t.Helper()
	userRepo := &fakeUserRepo{users: users}
	cache := newFakeCacheRepo()
	jwtSvc := service.NewJWTService("test-secret-key", time.Hour, 24*time.Hour, zap.NewNop())
	cfg := &config.AuthConfig{MaxLoginAttempts: 3, LockoutDuration: 15 * time.Minute}
	return NewAuthService(userRepo, cache, jwtSvc, zap.NewNop(), cfg), cache, userRepo
}

func activeUser(t *testing.T, id uint64, email, password string) entities.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	return entities.User{
		ID:           id,
		Username:     "user",
		Email:        email,
		PasswordHash: hash,
		Role:         constants.RoleTechnician,
		IsActive:     true,
	}
}

func TestAuthLoginSuccess(t *testing.T) {
	ctx := context.Background()
	svc, cache, _ := newTestAuthService(t, activeUser(t, 1, "tech@cmms.local", "secret123"))

	res, err := svc.Login(ctx, dto.LoginDTO{Email: "tech@cmms.local", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
	assert.Equal(t, uint64(1), res.User.ID)

	// Refresh-токен сохранен как активная сессия.
	stored, err := cache.Get(ctx, "refresh_session:1")
	require.NoError(t, err)
	assert.Equal(t, res.RefreshToken, stored)
}

func TestAuthLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAuthService(t, activeUser(t, 1, "tech@cmms.local", "secret123"))

	_, err := svc.Login(ctx, dto.LoginDTO{Email: "tech@cmms.local", Password: "wrong-pass"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, dto.LoginDTO{Email: "nobody@cmms.local", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthLoginLockout(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAuthService(t, activeUser(t, 1, "tech@cmms.local", "secret123"))

	for i := 0; i < 3; i++ {
		_, err := svc.Login(ctx, dto.LoginDTO{Email: "tech@cmms.local", Password: "wrong-pass"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	}

	// После исчерпания попыток блокируется даже верный пароль.
	_, err := svc.Login(ctx, dto.LoginDTO{Email: "tech@cmms.local", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrAccountLocked)
}

func TestAuthLoginResetsAttemptsOnSuccess(t *testing.T) {
	ctx := context.Background()
	svc, cache, _ := newTestAuthService(t, activeUser(t, 1, "tech@cmms.local", "secret123"))

	for i := 0; i < 2; i++ {
		_, _ = svc.Login(ctx, dto.LoginDTO{Email: "tech@cmms.local", Password: "wrong-pass"})
	}

	_, err := svc.Login(ctx, dto.LoginDTO{Email: "tech@cmms.local", Password: "secret123"})
	require.NoError(t, err)

	attempts, err := cache.Get(ctx, "login_attempts:tech@cmms.local")
	require.NoError(t, err)
	assert.Empty(t, attempts)
}

func TestAuthLoginDeactivatedAccount(t *testing.T) {
	user := activeUser(t, 1, "fired@cmms.local", "secret123")
	user.IsActive = false
	svc, _, _ := newTestAuthService(t, user)

	_, err := svc.Login(context.Background(), dto.LoginDTO{Email: "fired@cmms.local", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrAccountDeactivated)
}

func TestAuthSignupDefaults(t *testing.T) {
	ctx := context.Background()
	svc, _, userRepo := newTestAuthService(t)

	res, err := svc.Signup(ctx, dto.SignupDTO{Username: "newbie", Email: "newbie@cmms.local", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)

	// Самостоятельная регистрация дает активного техника.
	assert.Equal(t, constants.RoleTechnician, res.User.Role)
	assert.True(t, res.User.IsActive)

	created, err := userRepo.FindUserByEmail(ctx, "newbie@cmms.local")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", created.PasswordHash)
	assert.NoError(t, utils.ComparePasswords(created.PasswordHash, "secret123"))
}

func TestAuthRefreshTokenRotation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAuthService(t, activeUser(t, 1, "tech@cmms.local", "secret123"))

	first, err := svc.Login(ctx, dto.LoginDTO{Email: "tech@cmms.local", Password: "secret123"})
	require.NoError(t, err)

	second, err := svc.RefreshToken(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, second.AccessToken)

	// Старый refresh-токен вытеснен новой сессией.
	_, err = svc.RefreshToken(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestAuthRefreshRejectsAccessToken(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAuthService(t, activeUser(t, 1, "tech@cmms.local", "secret123"))

	res, err := svc.Login(ctx, dto.LoginDTO{Email: "tech@cmms.local", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.RefreshToken(ctx, res.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestAuthLogoutDropsSession(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAuthService(t, activeUser(t, 1, "tech@cmms.local", "secret123"))

	res, err := svc.Login(ctx, dto.LoginDTO{Email: "tech@cmms.local", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, 1))

	_, err = svc.RefreshToken(ctx, res.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
