package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/moon90/rms-admin/internal/domain"
	"github.com/moon90/rms-admin/internal/repository"
	"github.com/moon90/rms-admin/pkg/logger"
)

// PermissionRepository реализует репозиторий разрешений с использованием PostgreSQL
type PermissionRepository struct {
	db     *sqlx.DB
	logger logger.Logger
}

// NewPermissionRepository создает новый экземпляр PermissionRepository
func NewPermissionRepository(db *sqlx.DB, logger logger.Logger) *PermissionRepository {
	return &PermissionRepository{
		db:     db,
		logger: logger,
	}
}

// Create создает новое разрешение
func (r *PermissionRepository) Create(ctx context.Context, permission *domain.Permission) error {
	query := `
		INSERT INTO permissions (permission_name, code, category, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		permission.PermissionName,
		permission.Code,
		permission.Category,
		permission.Status,
		permission.CreatedDate,
		permission.UpdatedAt,
	).Scan(&permission.ID)

	if err != nil {
		r.logger.Error("Failed to create permission", err, map[string]interface{}{
			"code": permission.Code,
		})
		return fmt.Errorf("failed to create permission: %w", err)
	}

	return nil
}

// GetByID возвращает разрешение по ID
func (r *PermissionRepository) GetByID(ctx context.Context, id int) (*domain.Permission, error) {
	query := `
		SELECT id, permission_name, code, category, status, created_at, updated_at
		FROM permissions
		WHERE id = $1
	`

	var permission domain.Permission
	err := r.db.GetContext(ctx, &permission, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Failed to get permission by ID", err, map[string]interface{}{
			"id": id,
		})
		return nil, fmt.Errorf("failed to get permission by ID: %w", err)
	}

	return &permission, nil
}

// Update обновляет данные разрешения
func (r *PermissionRepository) Update(ctx context.Context, permission *domain.Permission) error {
	query := `
		UPDATE permissions
		SET permission_name = $1, code = $2, category = $3, status = $4, updated_at = $5
		WHERE id = $6
	`

	permission.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(
		ctx,
		query,
		permission.PermissionName,
		permission.Code,
		permission.Category,
		permission.Status,
		permission.UpdatedAt,
		permission.ID,
	)

	if err != nil {
		r.logger.Error("Failed to update permission", err, map[string]interface{}{
			"id": permission.ID,
		})
		return fmt.Errorf("failed to update permission: %w", err)
	}

	return checkAffected(result, "permission")
}

// Delete удаляет разрешение по ID
func (r *PermissionRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM permissions WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete permission", err, map[string]interface{}{
			"id": id,
		})
		return fmt.Errorf("failed to delete permission: %w", err)
	}

	return checkAffected(result, "permission")
}

// SetStatus включает либо отключает разрешение
func (r *PermissionRepository) SetStatus(ctx context.Context, id int, status bool) error {
	query := `UPDATE permissions SET status = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		r.logger.Error("Failed to set permission status", err, map[string]interface{}{
			"id":     id,
			"status": status,
		})
		return fmt.Errorf("failed to set permission status: %w", err)
	}

	return checkAffected(result, "permission")
}

// List возвращает список разрешений с фильтрацией
func (r *PermissionRepository) List(ctx context.Context, filter repository.ListFilter) ([]*domain.Permission, error) {
	whereClause, args := r.buildWhereClause(filter)
	orderClause := r.buildOrderClause(filter)
	limitOffset := fmt.Sprintf("LIMIT %d OFFSET %d", filter.Limit, filter.Offset)

	query := fmt.Sprintf(`
		SELECT id, permission_name, code, category, status, created_at, updated_at
		FROM permissions
		%s
		%s
		%s
	`, whereClause, orderClause, limitOffset)

	permissions := []*domain.Permission{}
	err := r.db.SelectContext(ctx, &permissions, query, args...)
	if err != nil {
		r.logger.Error("Failed to list permissions", err)
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}

	return permissions, nil
}

// Count возвращает количество разрешений с фильтрацией
func (r *PermissionRepository) Count(ctx context.Context, filter repository.ListFilter) (int, error) {
	whereClause, args := r.buildWhereClause(filter)

	query := fmt.Sprintf(`SELECT COUNT(*) FROM permissions %s`, whereClause)

	var count int
	err := r.db.GetContext(ctx, &count, query, args...)
	if err != nil {
		r.logger.Error("Failed to count permissions", err)
		return 0, fmt.Errorf("failed to count permissions: %w", err)
	}

	return count, nil
}

// Вспомогательные функции для построения SQL-запросов

func (r *PermissionRepository) buildWhereClause(filter repository.ListFilter) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}

	if filter.Search != nil {
		conditions = append(conditions, fmt.Sprintf("(permission_name ILIKE $%d OR code ILIKE $%d OR category ILIKE $%d)", argIndex, argIndex, argIndex))
		searchPattern := "%" + *filter.Search + "%"
		args = append(args, searchPattern)
		argIndex++
	}

	if len(conditions) > 0 {
		return "WHERE " + strings.Join(conditions, " AND "), args
	}
	return "", args
}

func (r *PermissionRepository) buildOrderClause(filter repository.ListFilter) string {
	allowedFields := map[string]string{
		"permissionName": "permission_name",
		"code":           "code",
		"category":       "category",
		"status":         "status",
		"createdDate":    "created_at",
	}

	return buildOrderClause(filter.OrderBy, filter.OrderDir, allowedFields, "code ASC")
}
