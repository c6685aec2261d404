package seeders

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

func seedUsers(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'users'...")

	for _, u := range usersData {
		var userID uint64
		err := db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", u.Email).Scan(&userID)
		if err == nil {
			log.Printf("    - Пользователь %s уже существует. Пропускаем.", u.Email)
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("ошибка при проверке существования пользователя %s: %w", u.Email, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("не удалось захешировать пароль для %s: %w", u.Email, err)
		}

		err = db.QueryRow(ctx,
			`INSERT INTO users (fio, email, password_hash, active) VALUES ($1, $2, $3, TRUE) RETURNING id`,
			u.Fio, u.Email, string(hash)).Scan(&userID)
		if err != nil {
			return fmt.Errorf("не удалось создать пользователя %s: %w", u.Email, err)
		}

		for _, roleCode := range u.Roles {
			var roleID uint64
			if err := db.QueryRow(ctx, "SELECT id FROM roles WHERE code = $1", roleCode).Scan(&roleID); err != nil {
				return fmt.Errorf("не найдена роль %q для пользователя %s: %w", roleCode, u.Email, err)
			}
			if _, err := db.Exec(ctx,
				`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
				userID, roleID); err != nil {
				return fmt.Errorf("не удалось привязать роль %q к пользователю %s: %w", roleCode, u.Email, err)
			}
		}
		log.Printf("    - Создан пользователь %s", u.Email)
	}
	return nil
}
