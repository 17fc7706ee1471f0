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

// UnitRepository реализует репозиторий единиц измерения с использованием PostgreSQL
type UnitRepository struct {
	db     *sqlx.DB
	logger logger.Logger
}

// NewUnitRepository создает новый экземпляр UnitRepository
func NewUnitRepository(db *sqlx.DB, logger logger.Logger) *UnitRepository {
	return &UnitRepository{
		db:     db,
		logger: logger,
	}
}

// Create создает новую единицу измерения
func (r *UnitRepository) Create(ctx context.Context, unit *domain.Unit) error {
	query := `
		INSERT INTO units (unit_name, abbreviation, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		unit.UnitName,
		unit.Abbreviation,
		unit.Status,
		unit.CreatedDate,
		unit.UpdatedAt,
	).Scan(&unit.ID)

	if err != nil {
		r.logger.Error("Failed to create unit", err, map[string]interface{}{
			"unit_name": unit.UnitName,
		})
		return fmt.Errorf("failed to create unit: %w", err)
	}

	return nil
}

// GetByID возвращает единицу измерения по ID
func (r *UnitRepository) GetByID(ctx context.Context, id int) (*domain.Unit, error) {
	query := `
		SELECT id, unit_name, abbreviation, status, created_at, updated_at
		FROM units
		WHERE id = $1
	`

	var unit domain.Unit
	err := r.db.GetContext(ctx, &unit, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Failed to get unit by ID", err, map[string]interface{}{
			"id": id,
		})
		return nil, fmt.Errorf("failed to get unit by ID: %w", err)
	}

	return &unit, nil
}

// Update обновляет данные единицы измерения
func (r *UnitRepository) Update(ctx context.Context, unit *domain.Unit) error {
	query := `
		UPDATE units
		SET unit_name = $1, abbreviation = $2, status = $3, updated_at = $4
		WHERE id = $5
	`

	unit.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(
		ctx,
		query,
		unit.UnitName,
		unit.Abbreviation,
		unit.Status,
		unit.UpdatedAt,
		unit.ID,
	)

	if err != nil {
		r.logger.Error("Failed to update unit", err, map[string]interface{}{
			"id": unit.ID,
		})
		return fmt.Errorf("failed to update unit: %w", err)
	}

	return checkAffected(result, "unit")
}

// Delete удаляет единицу измерения по ID
func (r *UnitRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM units WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete unit", err, map[string]interface{}{
			"id": id,
		})
		return fmt.Errorf("failed to delete unit: %w", err)
	}

	return checkAffected(result, "unit")
}

// SetStatus включает либо отключает единицу измерения
func (r *UnitRepository) SetStatus(ctx context.Context, id int, status bool) error {
	query := `UPDATE units SET status = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		r.logger.Error("Failed to set unit status", err, map[string]interface{}{
			"id":     id,
			"status": status,
		})
		return fmt.Errorf("failed to set unit status: %w", err)
	}

	return checkAffected(result, "unit")
}

// List возвращает список единиц измерения с фильтрацией
func (r *UnitRepository) List(ctx context.Context, filter repository.ListFilter) ([]*domain.Unit, error) {
	whereClause, args := r.buildWhereClause(filter)
	orderClause := r.buildOrderClause(filter)
	limitOffset := fmt.Sprintf("LIMIT %d OFFSET %d", filter.Limit, filter.Offset)

	query := fmt.Sprintf(`
		SELECT id, unit_name, abbreviation, status, created_at, updated_at
		FROM units
		%s
		%s
		%s
	`, whereClause, orderClause, limitOffset)

	units := []*domain.Unit{}
	err := r.db.SelectContext(ctx, &units, query, args...)
	if err != nil {
		r.logger.Error("Failed to list units", err)
		return nil, fmt.Errorf("failed to list units: %w", err)
	}

	return units, nil
}

// Count возвращает количество единиц измерения с фильтрацией
func (r *UnitRepository) Count(ctx context.Context, filter repository.ListFilter) (int, error) {
	whereClause, args := r.buildWhereClause(filter)

	query := fmt.Sprintf(`SELECT COUNT(*) FROM units %s`, whereClause)

	var count int
	err := r.db.GetContext(ctx, &count, query, args...)
	if err != nil {
		r.logger.Error("Failed to count units", err)
		return 0, fmt.Errorf("failed to count units: %w", err)
	}

	return count, nil
}

// CountReferences возвращает число ингредиентов и продуктов, ссылающихся
// на единицу измерения
func (r *UnitRepository) CountReferences(ctx context.Context, unitID int) (int, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM ingredients WHERE unit_id = $1) +
			(SELECT COUNT(*) FROM products WHERE unit_id = $1)
	`

	var count int
	err := r.db.GetContext(ctx, &count, query, unitID)
	if err != nil {
		r.logger.Error("Failed to count unit references", err, map[string]interface{}{
			"unit_id": unitID,
		})
		return 0, fmt.Errorf("failed to count unit references: %w", err)
	}

	return count, nil
}

// Вспомогательные функции для построения SQL-запросов

func (r *UnitRepository) buildWhereClause(filter repository.ListFilter) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}

	if filter.Search != nil {
		conditions = append(conditions, fmt.Sprintf("(unit_name ILIKE $%d OR abbreviation ILIKE $%d)", argIndex, argIndex))
		searchPattern := "%" + *filter.Search + "%"
		args = append(args, searchPattern)
		argIndex++
	}

	if len(conditions) > 0 {
		return "WHERE " + strings.Join(conditions, " AND "), args
	}
	return "", args
}

func (r *UnitRepository) buildOrderClause(filter repository.ListFilter) string {
	allowedFields := map[string]string{
		"unitName":     "unit_name",
		"abbreviation": "abbreviation",
		"status":       "status",
		"createdDate":  "created_at",
	}

	return buildOrderClause(filter.OrderBy, filter.OrderDir, allowedFields, "unit_name ASC")
}
