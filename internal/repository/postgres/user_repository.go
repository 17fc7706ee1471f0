package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/moon90/rms-admin/internal/domain"
	"github.com/moon90/rms-admin/internal/repository"
	"github.com/moon90/rms-admin/pkg/logger"
)

// UserRepository реализует репозиторий пользователей с использованием PostgreSQL
type UserRepository struct {
	db     *sqlx.DB
	logger logger.Logger
}

// NewUserRepository создает новый экземпляр UserRepository
func NewUserRepository(db *sqlx.DB, logger logger.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// Create создает нового пользователя
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (
			user_name, email, hashed_password, full_name, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		) RETURNING id
	`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		user.UserName,
		user.Email,
		user.HashedPassword,
		user.FullName,
		user.Status,
		user.CreatedDate,
		user.UpdatedAt,
	).Scan(&user.ID)

	if err != nil {
		r.logger.Error("Failed to create user", err, map[string]interface{}{
			"user_name": user.UserName,
		})
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID возвращает пользователя по ID
func (r *UserRepository) GetByID(ctx context.Context, id int) (*domain.User, error) {
	query := `
		SELECT id, user_name, email, hashed_password, full_name, status, last_login_at, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var user domain.User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Failed to get user by ID", err, map[string]interface{}{
			"id": id,
		})
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return &user, nil
}

// GetByUserName возвращает пользователя по имени учетной записи
func (r *UserRepository) GetByUserName(ctx context.Context, userName string) (*domain.User, error) {
	query := `
		SELECT id, user_name, email, hashed_password, full_name, status, last_login_at, created_at, updated_at
		FROM users
		WHERE LOWER(user_name) = LOWER($1)
	`

	var user domain.User
	err := r.db.GetContext(ctx, &user, query, userName)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Failed to get user by user name", err, map[string]interface{}{
			"user_name": userName,
		})
		return nil, fmt.Errorf("failed to get user by user name: %w", err)
	}

	return &user, nil
}

// Update обновляет данные пользователя
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET email = $1, full_name = $2, status = $3, updated_at = $4
		WHERE id = $5
	`

	user.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(
		ctx,
		query,
		user.Email,
		user.FullName,
		user.Status,
		user.UpdatedAt,
		user.ID,
	)

	if err != nil {
		r.logger.Error("Failed to update user", err, map[string]interface{}{
			"id": user.ID,
		})
		return fmt.Errorf("failed to update user: %w", err)
	}

	return checkAffected(result, "user")
}

// Delete удаляет пользователя по ID
func (r *UserRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete user", err, map[string]interface{}{
			"id": id,
		})
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return checkAffected(result, "user")
}

// SetStatus включает либо отключает пользователя
func (r *UserRepository) SetStatus(ctx context.Context, id int, status bool) error {
	query := `UPDATE users SET status = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		r.logger.Error("Failed to set user status", err, map[string]interface{}{
			"id":     id,
			"status": status,
		})
		return fmt.Errorf("failed to set user status: %w", err)
	}

	return checkAffected(result, "user")
}

// List возвращает список пользователей с фильтрацией
func (r *UserRepository) List(ctx context.Context, filter repository.UserFilter) ([]*domain.User, error) {
	whereClause, args := r.buildWhereClause(filter)
	orderClause := r.buildOrderClause(filter)
	limitOffset := fmt.Sprintf("LIMIT %d OFFSET %d", filter.Limit, filter.Offset)

	query := fmt.Sprintf(`
		SELECT id, user_name, email, hashed_password, full_name, status, last_login_at, created_at, updated_at
		FROM users
		%s
		%s
		%s
	`, whereClause, orderClause, limitOffset)

	users := []*domain.User{}
	err := r.db.SelectContext(ctx, &users, query, args...)
	if err != nil {
		r.logger.Error("Failed to list users", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

// Count возвращает количество пользователей с фильтрацией
func (r *UserRepository) Count(ctx context.Context, filter repository.UserFilter) (int, error) {
	whereClause, args := r.buildWhereClause(filter)

	query := fmt.Sprintf(`SELECT COUNT(*) FROM users %s`, whereClause)

	var count int
	err := r.db.GetContext(ctx, &count, query, args...)
	if err != nil {
		r.logger.Error("Failed to count users", err)
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return count, nil
}

// UpdateLastLogin обновляет время последнего входа пользователя
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id int) error {
	query := `UPDATE users SET last_login_at = NOW() WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to update last login", err, map[string]interface{}{
			"id": id,
		})
		return fmt.Errorf("failed to update last login: %w", err)
	}

	return nil
}

// GetRoles возвращает роли пользователя
func (r *UserRepository) GetRoles(ctx context.Context, userID int) ([]domain.Role, error) {
	query := `
		SELECT r.id, r.role_name, r.description, r.status, r.created_at, r.updated_at
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.role_name
	`

	roles := []domain.Role{}
	err := r.db.SelectContext(ctx, &roles, query, userID)
	if err != nil {
		r.logger.Error("Failed to get user roles", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, fmt.Errorf("failed to get user roles: %w", err)
	}

	return roles, nil
}

// AssignRoles пакетно назначает пользователю роли; уже назначенные
// пропускаются
func (r *UserRepository) AssignRoles(ctx context.Context, userID int, roleIDs []int) error {
	if len(roleIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO user_roles (user_id, role_id)
		SELECT $1, unnest($2::int[])
		ON CONFLICT (user_id, role_id) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query, userID, pq.Array(roleIDs))
	if err != nil {
		r.logger.Error("Failed to assign roles", err, map[string]interface{}{
			"user_id":  userID,
			"role_ids": roleIDs,
		})
		return fmt.Errorf("failed to assign roles: %w", err)
	}

	return nil
}

// UnassignRoles пакетно отзывает роли у пользователя
func (r *UserRepository) UnassignRoles(ctx context.Context, userID int, roleIDs []int) error {
	if len(roleIDs) == 0 {
		return nil
	}

	query := `DELETE FROM user_roles WHERE user_id = $1 AND role_id = ANY($2::int[])`

	_, err := r.db.ExecContext(ctx, query, userID, pq.Array(roleIDs))
	if err != nil {
		r.logger.Error("Failed to unassign roles", err, map[string]interface{}{
			"user_id":  userID,
			"role_ids": roleIDs,
		})
		return fmt.Errorf("failed to unassign roles: %w", err)
	}

	return nil
}

// GetPermissions возвращает разрешения пользователя через его роли;
// отключенные роли и разрешения не учитываются
func (r *UserRepository) GetPermissions(ctx context.Context, userID int) ([]domain.Permission, error) {
	query := `
		SELECT DISTINCT p.id, p.permission_name, p.code, p.category, p.status, p.created_at, p.updated_at
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		JOIN user_roles ur ON ur.role_id = rp.role_id
		JOIN roles r ON r.id = ur.role_id
		WHERE ur.user_id = $1 AND p.status = TRUE AND r.status = TRUE
		ORDER BY p.code
	`

	permissions := []domain.Permission{}
	err := r.db.SelectContext(ctx, &permissions, query, userID)
	if err != nil {
		r.logger.Error("Failed to get user permissions", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, fmt.Errorf("failed to get user permissions: %w", err)
	}

	return permissions, nil
}

// Вспомогательные функции для построения SQL-запросов

func (r *UserRepository) buildWhereClause(filter repository.UserFilter) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if filter.RoleID != nil {
		conditions = append(conditions, fmt.Sprintf("id IN (SELECT user_id FROM user_roles WHERE role_id = $%d)", argIndex))
		args = append(args, *filter.RoleID)
		argIndex++
	}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}

	if filter.Search != nil {
		conditions = append(conditions, fmt.Sprintf("(user_name ILIKE $%d OR full_name ILIKE $%d OR email ILIKE $%d)", argIndex, argIndex, argIndex))
		searchPattern := "%" + *filter.Search + "%"
		args = append(args, searchPattern)
		argIndex++
	}

	if len(conditions) > 0 {
		return "WHERE " + strings.Join(conditions, " AND "), args
	}
	return "", args
}

func (r *UserRepository) buildOrderClause(filter repository.UserFilter) string {
	// Колонки, по которым бэкенд умеет сортировать пользователей
	allowedFields := map[string]string{
		"userName":    "user_name",
		"email":       "email",
		"fullName":    "full_name",
		"status":      "status",
		"createdDate": "created_at",
	}

	return buildOrderClause(filter.OrderBy, filter.OrderDir, allowedFields, "created_at DESC")
}
