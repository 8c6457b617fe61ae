package services

import (
	"context"

	"go.uber.org/zap"

	"cmms-system/internal/dto"
	"cmms-system/internal/entities"
	"cmms-system/internal/repositories"
	apperrors "cmms-system/pkg/errors"
	"cmms-system/pkg/utils"
)

type UserServiceInterface interface {
	GetUsers(ctx context.Context, limit uint64, offset uint64) ([]dto.UserDTO, uint64, error)
	FindUser(ctx context.Context, id uint64) (*dto.UserDTO, error)
	CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*dto.UserDTO, error)
	UpdateUser(ctx context.Context, actorID uint64, id uint64, payload dto.UpdateUserDTO) (*dto.UserDTO, error)
	DeleteUser(ctx context.Context, actorID uint64, id uint64) error
	ToggleActive(ctx context.Context, actorID uint64, id uint64) (*dto.UserDTO, error)
}

type UserService struct {
	userRepo repositories.UserRepositoryInterface
	logger   *zap.Logger
}

func NewUserService(userRepo repositories.UserRepositoryInterface, logger *zap.Logger) UserServiceInterface {
	return &UserService{userRepo: userRepo, logger: logger}
}

func (s *UserService) GetUsers(ctx context.Context, limit uint64, offset uint64) ([]dto.UserDTO, uint64, error) {
	users, total, err := s.userRepo.GetUsers(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return ToUserDTOs(users), total, nil
}

func (s *UserService) FindUser(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := ToUserDTO(user)
	return &out, nil
}

func (s *UserService) CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*dto.UserDTO, error) {
	hash, err := utils.HashPassword(payload.Password)
	if err != nil {
		return nil, apperrors.NewInternalError("Не удалось обработать пароль", err)
	}

	user := &entities.User{
		Username:     payload.Username,
		Email:        payload.Email,
		PasswordHash: hash,
		Role:         payload.Role,
		IsActive:     true,
	}

	created, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Создан пользователь", zap.Uint64("userID", created.ID), zap.String("role", created.Role))

	out := ToUserDTO(created)
	return &out, nil
}

func (s *UserService) UpdateUser(ctx context.Context, actorID uint64, id uint64, payload dto.UpdateUserDTO) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Администратор не может деактивировать собственную учетную запись.
	if payload.IsActive != nil && !*payload.IsActive && actorID == id {
		return nil, apperrors.NewBadRequestError("Нельзя деактивировать собственную учётную запись")
	}

	if payload.Username != nil {
		user.Username = *payload.Username
	}
	if payload.Email != nil {
		user.Email = *payload.Email
	}
	if payload.Role != nil {
		user.Role = *payload.Role
	}
	if payload.IsActive != nil {
		user.IsActive = *payload.IsActive
	}
	if payload.Password != nil {
		hash, err := utils.HashPassword(*payload.Password)
		if err != nil {
			return nil, apperrors.NewInternalError("Не удалось обработать пароль", err)
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	out := ToUserDTO(user)
	return &out, nil
}

func (s *UserService) DeleteUser(ctx context.Context, actorID uint64, id uint64) error {
	if actorID == id {
		return apperrors.NewBadRequestError("Нельзя удалить собственную учётную запись")
	}
	return s.userRepo.DeleteUser(ctx, id)
}

func (s *UserService) ToggleActive(ctx context.Context, actorID uint64, id uint64) (*dto.UserDTO, error) {
	if actorID == id {
		return nil, apperrors.NewBadRequestError("Нельзя деактивировать собственную учётную запись")
	}

	user, err := s.userRepo.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.IsActive = !user.IsActive
	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Изменена активность пользователя",
		zap.Uint64("userID", user.ID), zap.Bool("is_active", user.IsActive))

	out := ToUserDTO(user)
	return &out, nil
}
