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

// RoleRepository реализует репозиторий ролей с использованием PostgreSQL
type RoleRepository struct {
	db     *sqlx.DB
	logger logger.Logger
}

// NewRoleRepository создает новый экземпляр RoleRepository
func NewRoleRepository(db *sqlx.DB, logger logger.Logger) *RoleRepository {
	return &RoleRepository{
		db:     db,
		logger: logger,
	}
}

// Create создает новую роль
func (r *RoleRepository) Create(ctx context.Context, role *domain.Role) error {
	query := `
		INSERT INTO roles (role_name, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		role.RoleName,
		role.Description,
		role.Status,
		role.CreatedDate,
		role.UpdatedAt,
	).Scan(&role.ID)

	if err != nil {
		r.logger.Error("Failed to create role", err, map[string]interface{}{
			"role_name": role.RoleName,
		})
		return fmt.Errorf("failed to create role: %w", err)
	}

	return nil
}

// GetByID возвращает роль по ID
func (r *RoleRepository) GetByID(ctx context.Context, id int) (*domain.Role, error) {
	query := `
		SELECT id, role_name, description, status, created_at, updated_at
		FROM roles
		WHERE id = $1
	`

	var role domain.Role
	err := r.db.GetContext(ctx, &role, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Failed to get role by ID", err, map[string]interface{}{
			"id": id,
		})
		return nil, fmt.Errorf("failed to get role by ID: %w", err)
	}

	return &role, nil
}

// GetByName возвращает роль по названию
func (r *RoleRepository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	query := `
		SELECT id, role_name, description, status, created_at, updated_at
		FROM roles
		WHERE LOWER(role_name) = LOWER($1)
	`

	var role domain.Role
	err := r.db.GetContext(ctx, &role, query, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Failed to get role by name", err, map[string]interface{}{
			"role_name": name,
		})
		return nil, fmt.Errorf("failed to get role by name: %w", err)
	}

	return &role, nil
}

// Update обновляет данные роли
func (r *RoleRepository) Update(ctx context.Context, role *domain.Role) error {
	query := `
		UPDATE roles
		SET role_name = $1, description = $2, status = $3, updated_at = $4
		WHERE id = $5
	`

	role.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(
		ctx,
		query,
		role.RoleName,
		role.Description,
		role.Status,
		role.UpdatedAt,
		role.ID,
	)

	if err != nil {
		r.logger.Error("Failed to update role", err, map[string]interface{}{
			"id": role.ID,
		})
		return fmt.Errorf("failed to update role: %w", err)
	}

	return checkAffected(result, "role")
}

// Delete удаляет роль по ID
func (r *RoleRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM roles WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete role", err, map[string]interface{}{
			"id": id,
		})
		return fmt.Errorf("failed to delete role: %w", err)
	}

	return checkAffected(result, "role")
}

// SetStatus включает либо отключает роль
func (r *RoleRepository) SetStatus(ctx context.Context, id int, status bool) error {
	query := `UPDATE roles SET status = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		r.logger.Error("Failed to set role status", err, map[string]interface{}{
			"id":     id,
			"status": status,
		})
		return fmt.Errorf("failed to set role status: %w", err)
	}

	return checkAffected(result, "role")
}

// List возвращает список ролей с фильтрацией
func (r *RoleRepository) List(ctx context.Context, filter repository.ListFilter) ([]*domain.Role, error) {
	whereClause, args := r.buildWhereClause(filter)
	orderClause := r.buildOrderClause(filter)
	limitOffset := fmt.Sprintf("LIMIT %d OFFSET %d", filter.Limit, filter.Offset)

	query := fmt.Sprintf(`
		SELECT id, role_name, description, status, created_at, updated_at
		FROM roles
		%s
		%s
		%s
	`, whereClause, orderClause, limitOffset)

	roles := []*domain.Role{}
	err := r.db.SelectContext(ctx, &roles, query, args...)
	if err != nil {
		r.logger.Error("Failed to list roles", err)
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	return roles, nil
}

// Count возвращает количество ролей с фильтрацией
func (r *RoleRepository) Count(ctx context.Context, filter repository.ListFilter) (int, error) {
	whereClause, args := r.buildWhereClause(filter)

	query := fmt.Sprintf(`SELECT COUNT(*) FROM roles %s`, whereClause)

	var count int
	err := r.db.GetContext(ctx, &count, query, args...)
	if err != nil {
		r.logger.Error("Failed to count roles", err)
		return 0, fmt.Errorf("failed to count roles: %w", err)
	}

	return count, nil
}

// CountUsers возвращает число пользователей, которым назначена роль
func (r *RoleRepository) CountUsers(ctx context.Context, roleID int) (int, error) {
	query := `SELECT COUNT(*) FROM user_roles WHERE role_id = $1`

	var count int
	err := r.db.GetContext(ctx, &count, query, roleID)
	if err != nil {
		r.logger.Error("Failed to count role users", err, map[string]interface{}{
			"role_id": roleID,
		})
		return 0, fmt.Errorf("failed to count role users: %w", err)
	}

	return count, nil
}

// GetPermissions возвращает разрешения роли
func (r *RoleRepository) GetPermissions(ctx context.Context, roleID int) ([]domain.Permission, error) {
	query := `
		SELECT p.id, p.permission_name, p.code, p.category, p.status, p.created_at, p.updated_at
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		WHERE rp.role_id = $1
		ORDER BY p.code
	`

	permissions := []domain.Permission{}
	err := r.db.SelectContext(ctx, &permissions, query, roleID)
	if err != nil {
		r.logger.Error("Failed to get role permissions", err, map[string]interface{}{
			"role_id": roleID,
		})
		return nil, fmt.Errorf("failed to get role permissions: %w", err)
	}

	return permissions, nil
}

// AssignPermissions пакетно назначает роли разрешения
func (r *RoleRepository) AssignPermissions(ctx context.Context, roleID int, permissionIDs []int) error {
	if len(permissionIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO role_permissions (role_id, permission_id)
		SELECT $1, unnest($2::int[])
		ON CONFLICT (role_id, permission_id) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query, roleID, pq.Array(permissionIDs))
	if err != nil {
		r.logger.Error("Failed to assign permissions", err, map[string]interface{}{
			"role_id":        roleID,
			"permission_ids": permissionIDs,
		})
		return fmt.Errorf("failed to assign permissions: %w", err)
	}

	return nil
}

// UnassignPermissions пакетно отзывает разрешения у роли
func (r *RoleRepository) UnassignPermissions(ctx context.Context, roleID int, permissionIDs []int) error {
	if len(permissionIDs) == 0 {
		return nil
	}

	query := `DELETE FROM role_permissions WHERE role_id = $1 AND permission_id = ANY($2::int[])`

	_, err := r.db.ExecContext(ctx, query, roleID, pq.Array(permissionIDs))
	if err != nil {
		r.logger.Error("Failed to unassign permissions", err, map[string]interface{}{
			"role_id":        roleID,
			"permission_ids": permissionIDs,
		})
		return fmt.Errorf("failed to unassign permissions: %w", err)
	}

	return nil
}

// Вспомогательные функции для построения SQL-запросов

func (r *RoleRepository) buildWhereClause(filter repository.ListFilter) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}

	if filter.Search != nil {
		conditions = append(conditions, fmt.Sprintf("(role_name ILIKE $%d OR description ILIKE $%d)", argIndex, argIndex))
		searchPattern := "%" + *filter.Search + "%"
		args = append(args, searchPattern)
		argIndex++
	}

	if len(conditions) > 0 {
		return "WHERE " + strings.Join(conditions, " AND "), args
	}
	return "", args
}

func (r *RoleRepository) buildOrderClause(filter repository.ListFilter) string {
	allowedFields := map[string]string{
		"roleName":    "role_name",
		"description": "description",
		"status":      "status",
		"createdDate": "created_at",
	}

	return buildOrderClause(filter.OrderBy, filter.OrderDir, allowedFields, "created_at DESC")
}
