package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/moon90/rms-admin/internal/domain"
	"github.com/moon90/rms-admin/internal/repository"
	"github.com/moon90/rms-admin/pkg/logger"
)

// ProductIngredientRepository реализует репозиторий строк состава с
// использованием PostgreSQL
type ProductIngredientRepository struct {
	db     *sqlx.DB
	logger logger.Logger
}

// NewProductIngredientRepository создает новый экземпляр ProductIngredientRepository
func NewProductIngredientRepository(db *sqlx.DB, logger logger.Logger) *ProductIngredientRepository {
	return &ProductIngredientRepository{
		db:     db,
		logger: logger,
	}
}

// Create создает новую строку состава
func (r *ProductIngredientRepository) Create(ctx context.Context, row *domain.ProductIngredient) error {
	query := `
		INSERT INTO product_ingredients (product_id, ingredient_id, quantity, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		row.ProductID,
		row.IngredientID,
		row.Quantity,
		row.CreatedDate,
	).Scan(&row.ID)

	if err != nil {
		r.logger.Error("Failed to create product ingredient", err, map[string]interface{}{
			"product_id":    row.ProductID,
			"ingredient_id": row.IngredientID,
		})
		return fmt.Errorf("failed to create product ingredient: %w", err)
	}

	return nil
}

// GetByID возвращает строку состава по ID вместе с названиями продукта
// и ингредиента
func (r *ProductIngredientRepository) GetByID(ctx context.Context, id int) (*domain.ProductIngredient, error) {
	query := `
		SELECT pi.id, pi.product_id, p.name AS product_name,
		       pi.ingredient_id, i.name AS ingredient_name, pi.quantity, pi.created_at
		FROM product_ingredients pi
		JOIN products p ON p.id = pi.product_id
		JOIN ingredients i ON i.id = pi.ingredient_id
		WHERE pi.id = $1
	`

	var row domain.ProductIngredient
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Failed to get product ingredient by ID", err, map[string]interface{}{
			"id": id,
		})
		return nil, fmt.Errorf("failed to get product ingredient by ID: %w", err)
	}

	return &row, nil
}

// Update обновляет строку состава
func (r *ProductIngredientRepository) Update(ctx context.Context, row *domain.ProductIngredient) error {
	query := `
		UPDATE product_ingredients
		SET ingredient_id = $1, quantity = $2
		WHERE id = $3
	`

	result, err := r.db.ExecContext(ctx, query, row.IngredientID, row.Quantity, row.ID)
	if err != nil {
		r.logger.Error("Failed to update product ingredient", err, map[string]interface{}{
			"id": row.ID,
		})
		return fmt.Errorf("failed to update product ingredient: %w", err)
	}

	return checkAffected(result, "product ingredient")
}

// Delete удаляет строку состава по ID
func (r *ProductIngredientRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM product_ingredients WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete product ingredient", err, map[string]interface{}{
			"id": id,
		})
		return fmt.Errorf("failed to delete product ingredient: %w", err)
	}

	return checkAffected(result, "product ingredient")
}

// List возвращает список строк состава с фильтрацией
func (r *ProductIngredientRepository) List(ctx context.Context, filter repository.ProductIngredientFilter) ([]*domain.ProductIngredient, error) {
	whereClause, args := r.buildWhereClause(filter)
	orderClause := r.buildOrderClause(filter)
	limitOffset := fmt.Sprintf("LIMIT %d OFFSET %d", filter.Limit, filter.Offset)

	query := fmt.Sprintf(`
		SELECT pi.id, pi.product_id, p.name AS product_name,
		       pi.ingredient_id, i.name AS ingredient_name, pi.quantity, pi.created_at
		FROM product_ingredients pi
		JOIN products p ON p.id = pi.product_id
		JOIN ingredients i ON i.id = pi.ingredient_id
		%s
		%s
		%s
	`, whereClause, orderClause, limitOffset)

	rows := []*domain.ProductIngredient{}
	err := r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		r.logger.Error("Failed to list product ingredients", err)
		return nil, fmt.Errorf("failed to list product ingredients: %w", err)
	}

	return rows, nil
}

// Count возвращает количество строк состава с фильтрацией
func (r *ProductIngredientRepository) Count(ctx context.Context, filter repository.ProductIngredientFilter) (int, error) {
	whereClause, args := r.buildWhereClause(filter)

	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM product_ingredients pi
		JOIN products p ON p.id = pi.product_id
		JOIN ingredients i ON i.id = pi.ingredient_id
		%s
	`, whereClause)

	var count int
	err := r.db.GetContext(ctx, &count, query, args...)
	if err != nil {
		r.logger.Error("Failed to count product ingredients", err)
		return 0, fmt.Errorf("failed to count product ingredients: %w", err)
	}

	return count, nil
}

// Вспомогательные функции для построения SQL-запросов

func (r *ProductIngredientRepository) buildWhereClause(filter repository.ProductIngredientFilter) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if filter.ProductID != nil {
		conditions = append(conditions, fmt.Sprintf("pi.product_id = $%d", argIndex))
		args = append(args, *filter.ProductID)
		argIndex++
	}

	if filter.Search != nil {
		conditions = append(conditions, fmt.Sprintf("(p.name ILIKE $%d OR i.name ILIKE $%d)", argIndex, argIndex))
		searchPattern := "%" + *filter.Search + "%"
		args = append(args, searchPattern)
		argIndex++
	}

	if len(conditions) > 0 {
		return "WHERE " + strings.Join(conditions, " AND "), args
	}
	return "", args
}

func (r *ProductIngredientRepository) buildOrderClause(filter repository.ProductIngredientFilter) string {
	allowedFields := map[string]string{
		"productName":    "p.name",
		"ingredientName": "i.name",
		"quantity":       "pi.quantity",
		"createdDate":    "pi.created_at",
	}

	return buildOrderClause(filter.OrderBy, filter.OrderDir, allowedFields, "p.name ASC, i.name ASC")
}
