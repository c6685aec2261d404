package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"approval-system/internal/entities"
	apperrors "approval-system/pkg/errors"
)

const (
	userTable  = "users"
	userFields = "id, fio, email, password_hash, active, created_at, updated_at"
)

type UserRepositoryInterface interface {
	FindByID(ctx context.Context, id uint64) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	// GetRoleCodes возвращает коды ролей пользователя.
	GetRoleCodes(ctx context.Context, userID uint64) ([]string, error)
	// ListUsersWithRole - все активные участники роли (группы согласующих).
	ListUsersWithRole(ctx context.Context, roleCode string) ([]entities.User, error)
	// ListUserIDsWithRoleInTx - то же внутри транзакции перехода: проверка
	// полноты параллельного этапа должна видеть согласованный снимок.
	ListUserIDsWithRoleInTx(ctx context.Context, tx pgx.Tx, roleCode string) ([]uint64, error)
}

type userRepository struct {
	storage *pgxpool.Pool
}

func NewUserRepository(storage *pgxpool.Pool) UserRepositoryInterface {
	return &userRepository{storage: storage}
}

func scanUserRow(row pgx.Row) (*entities.User, error) {
	var user entities.User
	err := row.Scan(&user.ID, &user.Fio, &user.Email, &user.PasswordHash,
		&user.Active, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования users: %w", err)
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint64) (*entities.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, userFields, userTable)
	return scanUserRow(r.storage.QueryRow(ctx, query, id))
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE email = $1 AND active = TRUE`, userFields, userTable)
	return scanUserRow(r.storage.QueryRow(ctx, query, email))
}

func (r *userRepository) GetRoleCodes(ctx context.Context, userID uint64) ([]string, error) {
	query := `
		SELECT r.code
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.code`

	rows, err := r.storage.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки ролей пользователя %d: %w", userID, err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

func (r *userRepository) ListUsersWithRole(ctx context.Context, roleCode string) ([]entities.User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM users u
		JOIN user_roles ur ON ur.user_id = u.id
		JOIN roles r ON r.id = ur.role_id
		WHERE r.code = $1 AND u.active = TRUE
		ORDER BY u.id`, "u.id, u.fio, u.email, u.password_hash, u.active, u.created_at, u.updated_at")

	rows, err := r.storage.Query(ctx, query, roleCode)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки участников роли %s: %w", roleCode, err)
	}
	defer rows.Close()

	var users []entities.User
	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *userRepository) ListUserIDsWithRoleInTx(ctx context.Context, tx pgx.Tx, roleCode string) ([]uint64, error) {
	query := `
		SELECT u.id
		FROM users u
		JOIN user_roles ur ON ur.user_id = u.id
		JOIN roles r ON r.id = ur.role_id
		WHERE r.code = $1 AND u.active = TRUE
		ORDER BY u.id`

	rows, err := tx.Query(ctx, query, roleCode)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки участников роли %s: %w", roleCode, err)
	}
	defer rows.Close()

	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
