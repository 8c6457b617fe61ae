// Файл: internal/services/auth_service.go
package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"cmms-system/internal/dto"
	"cmms-system/internal/entities"
	"cmms-system/internal/repositories"
	"cmms-system/pkg/config"
	"cmms-system/pkg/constants"
	apperrors "cmms-system/pkg/errors"
	"cmms-system/pkg/service"
	"cmms-system/pkg/utils"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error)
	Signup(ctx context.Context, payload dto.SignupDTO) (*dto.AuthResponseDTO, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.AuthResponseDTO, error)
	Logout(ctx context.Context, userID uint64) error
	GetUserByID(ctx context.Context, userID uint64) (*entities.User, error)
}

type AuthService struct {
	userRepo   repositories.UserRepositoryInterface
	cacheRepo  repositories.CacheRepositoryInterface
	jwtService service.JWTService
	logger     *zap.Logger
	cfg        *config.AuthConfig
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	jwtService service.JWTService,
	logger *zap.Logger,
	cfg *config.AuthConfig,
) AuthServiceInterface {
	return &AuthService{
		userRepo:   userRepo,
		cacheRepo:  cacheRepo,
		jwtService: jwtService,
		logger:     logger,
		cfg:        cfg,
	}
}

func loginAttemptsKey(email string) string {
	return fmt.Sprintf("login_attempts:%s", email)
}

func refreshSessionKey(userID uint64) string {
	return fmt.Sprintf("refresh_session:%d", userID)
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error) {
	logger := s.logger.With(zap.String("email", payload.Email))

	// Блокировка по количеству неудачных попыток.
	attemptsStr, _ := s.cacheRepo.Get(ctx, loginAttemptsKey(payload.Email))
	if attempts, _ := strconv.Atoi(attemptsStr); attempts >= s.cfg.MaxLoginAttempts {
		logger.Warn("Учетная запись временно заблокирована после неудачных попыток входа")
		return nil, apperrors.ErrAccountLocked
	}

	user, err := s.userRepo.FindUserByEmail(ctx, payload.Email)
	if err != nil {
		s.registerFailedAttempt(ctx, payload.Email)
		logger.Warn("Попытка входа с неизвестным email")
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := utils.ComparePasswords(user.PasswordHash, payload.Password); err != nil {
		s.registerFailedAttempt(ctx, payload.Email)
		logger.Warn("Неверный пароль", zap.Uint64("userID", user.ID))
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		logger.Warn("Вход в деактивированную учетную запись", zap.Uint64("userID", user.ID))
		return nil, apperrors.ErrAccountDeactivated
	}

	_ = s.cacheRepo.Del(ctx, loginAttemptsKey(payload.Email))

	now := time.Now().UTC()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		// Не срываем вход из-за вспомогательного поля.
		logger.Error("Не удалось обновить last_login", zap.Error(err))
	}
	user.LastLogin.SetValid(now)

	return s.issueTokens(ctx, user)
}

func (s *AuthService) registerFailedAttempt(ctx context.Context, email string) {
	key := loginAttemptsKey(email)
	attempts, err := s.cacheRepo.Incr(ctx, key)
	if err != nil {
		s.logger.Error("Не удалось увеличить счетчик попыток входа", zap.Error(err))
		return
	}
	if attempts == 1 {
		_, _ = s.cacheRepo.Expire(ctx, key, s.cfg.LockoutDuration)
	}
}

// Signup регистрирует нового пользователя с ролью техника.
func (s *AuthService) Signup(ctx context.Context, payload dto.SignupDTO) (*dto.AuthResponseDTO, error) {
	hash, err := utils.HashPassword(payload.Password)
	if err != nil {
		return nil, apperrors.NewInternalError("Не удалось обработать пароль", err)
	}

	user := &entities.User{
		Username:     payload.Username,
		Email:        payload.Email,
		PasswordHash: hash,
		Role:         constants.RoleTechnician,
		IsActive:     true,
	}

	created, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Зарегистрирован новый пользователь",
		zap.Uint64("userID", created.ID), zap.String("email", created.Email))

	return s.issueTokens(ctx, created)
}

func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.AuthResponseDTO, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrInvalidToken
	}

	stored, err := s.cacheRepo.Get(ctx, refreshSessionKey(claims.UserID))
	if err != nil || stored != refreshToken {
		s.logger.Warn("Refresh-токен не найден в активных сессиях", zap.Uint64("userID", claims.UserID))
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDeactivated
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, userID uint64) error {
	return s.cacheRepo.Del(ctx, refreshSessionKey(userID))
}

func (s *AuthService) GetUserByID(ctx context.Context, userID uint64) (*entities.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

func (s *AuthService) issueTokens(ctx context.Context, user *entities.User) (*dto.AuthResponseDTO, error) {
	accessToken, refreshToken, err := s.jwtService.GenerateTokens(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.NewInternalError("Не удалось выпустить токены", err)
	}

	// Сессия хранит действующий refresh-токен, старый при этом вытесняется.
	if err := s.cacheRepo.Set(ctx, refreshSessionKey(user.ID), refreshToken, s.jwtService.GetRefreshTokenTTL()); err != nil {
		return nil, apperrors.NewInternalError("Не удалось сохранить сессию", err)
	}

	return &dto.AuthResponseDTO{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         ToUserDTO(user),
	}, nil
}
