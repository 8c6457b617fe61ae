// Файл: seeders/admin_user_seeder.go
package seeders

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"cmms-system/pkg/constants"
	"cmms-system/pkg/utils"
)

func seedAdminUser(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Создание пользователя 'admin'...")

	email := "admin@cmms.local"
	var userID uint64
	err := db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID)
	if err == nil {
		log.Println("    - Администратор уже существует. Пропускаем.")
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("ошибка при проверке существования администратора: %w", err)
	}

	hash, err := utils.HashPassword("admin123")
	if err != nil {
		return fmt.Errorf("не удалось хешировать пароль администратора: %w", err)
	}

	_, err = db.Exec(ctx, `
		INSERT INTO users (username, email, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
	`, "admin", email, hash, constants.RoleAdmin)
	if err != nil {
		return fmt.Errorf("не удалось вставить администратора: %w", err)
	}

	log.Println("    - Администратор создан (admin@cmms.local / admin123). Смените пароль после первого входа.")
	return nil
}
