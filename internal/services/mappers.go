package services

import (
	"cmms-system/internal/dto"
	"cmms-system/internal/entities"
)

const dateTimeLayout = "2006-01-02 15:04:05"

func ToUserDTO(user *entities.User) dto.UserDTO {
	out := dto.UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		IsActive: user.IsActive,
	}
	if user.LastLogin.Valid {
		out.LastLogin = user.LastLogin.Time.Format(dateTimeLayout)
	}
	if user.CreatedAt != nil {
		out.CreatedAt = user.CreatedAt.Format(dateTimeLayout)
	}
	return out
}

func ToUserDTOs(users []entities.User) []dto.UserDTO {
	out := make([]dto.UserDTO, 0, len(users))
	for i := range users {
		out = append(out, ToUserDTO(&users[i]))
	}
	return out
}
