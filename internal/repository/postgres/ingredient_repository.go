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

// IngredientRepository реализует репозиторий ингредиентов с использованием PostgreSQL
type IngredientRepository struct {
	db     *sqlx.DB
	logger logger.Logger
}

// NewIngredientRepository создает новый экземпляр IngredientRepository
func NewIngredientRepository(db *sqlx.DB, logger logger.Logger) *IngredientRepository {
	return &IngredientRepository{
		db:     db,
		logger: logger,
	}
}

// Create создает новый ингредиент
func (r *IngredientRepository) Create(ctx context.Context, ingredient *domain.Ingredient) error {
	query := `
		INSERT INTO ingredients (name, unit_id, cost_per_unit, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		ingredient.Name,
		ingredient.UnitID,
		ingredient.CostPerUnit,
		ingredient.Status,
		ingredient.CreatedDate,
		ingredient.UpdatedAt,
	).Scan(&ingredient.ID)

	if err != nil {
		r.logger.Error("Failed to create ingredient", err, map[string]interface{}{
			"name": ingredient.Name,
		})
		return fmt.Errorf("failed to create ingredient: %w", err)
	}

	return nil
}

// GetByID возвращает ингредиент по ID вместе с названием единицы измерения
func (r *IngredientRepository) GetByID(ctx context.Context, id int) (*domain.Ingredient, error) {
	query := `
		SELECT i.id, i.name, i.unit_id, u.unit_name, i.cost_per_unit, i.status, i.created_at, i.updated_at
		FROM ingredients i
		JOIN units u ON u.id = i.unit_id
		WHERE i.id = $1
	`

	var ingredient domain.Ingredient
	err := r.db.GetContext(ctx, &ingredient, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Failed to get ingredient by ID", err, map[string]interface{}{
			"id": id,
		})
		return nil, fmt.Errorf("failed to get ingredient by ID: %w", err)
	}

	return &ingredient, nil
}

// Update обновляет данные ингредиента
func (r *IngredientRepository) Update(ctx context.Context, ingredient *domain.Ingredient) error {
	query := `
		UPDATE ingredients
		SET name = $1, unit_id = $2, cost_per_unit = $3, status = $4, updated_at = $5
		WHERE id = $6
	`

	ingredient.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(
		ctx,
		query,
		ingredient.Name,
		ingredient.UnitID,
		ingredient.CostPerUnit,
		ingredient.Status,
		ingredient.UpdatedAt,
		ingredient.ID,
	)

	if err != nil {
		r.logger.Error("Failed to update ingredient", err, map[string]interface{}{
			"id": ingredient.ID,
		})
		return fmt.Errorf("failed to update ingredient: %w", err)
	}

	return checkAffected(result, "ingredient")
}

// Delete удаляет ингредиент по ID
func (r *IngredientRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM ingredients WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete ingredient", err, map[string]interface{}{
			"id": id,
		})
		return fmt.Errorf("failed to delete ingredient: %w", err)
	}

	return checkAffected(result, "ingredient")
}

// SetStatus включает либо отключает ингредиент
func (r *IngredientRepository) SetStatus(ctx context.Context, id int, status bool) error {
	query := `UPDATE ingredients SET status = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		r.logger.Error("Failed to set ingredient status", err, map[string]interface{}{
			"id":     id,
			"status": status,
		})
		return fmt.Errorf("failed to set ingredient status: %w", err)
	}

	return checkAffected(result, "ingredient")
}

// List возвращает список ингредиентов с фильтрацией
func (r *IngredientRepository) List(ctx context.Context, filter repository.ListFilter) ([]*domain.Ingredient, error) {
	whereClause, args := r.buildWhereClause(filter)
	orderClause := r.buildOrderClause(filter)
	limitOffset := fmt.Sprintf("LIMIT %d OFFSET %d", filter.Limit, filter.Offset)

	query := fmt.Sprintf(`
		SELECT i.id, i.name, i.unit_id, u.unit_name, i.cost_per_unit, i.status, i.created_at, i.updated_at
		FROM ingredients i
		JOIN units u ON u.id = i.unit_id
		%s
		%s
		%s
	`, whereClause, orderClause, limitOffset)

	ingredients := []*domain.Ingredient{}
	err := r.db.SelectContext(ctx, &ingredients, query, args...)
	if err != nil {
		r.logger.Error("Failed to list ingredients", err)
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}

	return ingredients, nil
}

// Count возвращает количество ингредиентов с фильтрацией
func (r *IngredientRepository) Count(ctx context.Context, filter repository.ListFilter) (int, error) {
	whereClause, args := r.buildWhereClause(filter)

	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM ingredients i
		JOIN units u ON u.id = i.unit_id
		%s
	`, whereClause)

	var count int
	err := r.db.GetContext(ctx, &count, query, args...)
	if err != nil {
		r.logger.Error("Failed to count ingredients", err)
		return 0, fmt.Errorf("failed to count ingredients: %w", err)
	}

	return count, nil
}

// Вспомогательные функции для построения SQL-запросов

func (r *IngredientRepository) buildWhereClause(filter repository.ListFilter) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("i.status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}

	if filter.Search != nil {
		conditions = append(conditions, fmt.Sprintf("(i.name ILIKE $%d OR u.unit_name ILIKE $%d)", argIndex, argIndex))
		searchPattern := "%" + *filter.Search + "%"
		args = append(args, searchPattern)
		argIndex++
	}

	if len(conditions) > 0 {
		return "WHERE " + strings.Join(conditions, " AND "), args
	}
	return "", args
}

func (r *IngredientRepository) buildOrderClause(filter repository.ListFilter) string {
	allowedFields := map[string]string{
		"name":        "i.name",
		"unitName":    "u.unit_name",
		"costPerUnit": "i.cost_per_unit",
		"status":      "i.status",
		"createdDate": "i.created_at",
	}

	return buildOrderClause(filter.OrderBy, filter.OrderDir, allowedFields, "i.name ASC")
}
