// Файл: internal/entities/user-entity.go
package entities

import (
	"cmms-system/pkg/types"

	"github.com/aarondl/null/v8"
)

type User struct {
	ID       uint64 `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	Email    string `json:"email" db:"email"`

	PasswordHash string `json:"-" db:"password_hash"`

	Role     string `json:"role" db:"role"`
	IsActive bool   `json:"is_active" db:"is_active"`

	LastLogin null.Time `json:"last_login" db:"last_login"`

	types.BaseEntity
}
