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
	"github.com/moon90/rms-admin/pkg/database"
	"github.com/moon90/rms-admin/pkg/logger"
)

// ProductRepository реализует репозиторий складских позиций с использованием PostgreSQL
type ProductRepository struct {
	db     *sqlx.DB
	logger logger.Logger
}

// NewProductRepository создает новый экземпляр ProductRepository
func NewProductRepository(db *sqlx.DB, logger logger.Logger) *ProductRepository {
	return &ProductRepository{
		db:     db,
		logger: logger,
	}
}

// Create создает новую складскую позицию
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (name, category_name, price, quantity, reorder_level, unit_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		product.Name,
		product.CategoryName,
		product.Price,
		product.Quantity,
		product.ReorderLevel,
		product.UnitID,
		product.Status,
		product.CreatedDate,
		product.UpdatedAt,
	).Scan(&product.ID)

	if err != nil {
		r.logger.Error("Failed to create product", err, map[string]interface{}{
			"name": product.Name,
		})
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// GetByID возвращает складскую позицию по ID вместе с названием единицы измерения
func (r *ProductRepository) GetByID(ctx context.Context, id int) (*domain.Product, error) {
	query := `
		SELECT p.id, p.name, p.category_name, p.price, p.quantity, p.reorder_level,
		       p.unit_id, u.unit_name, p.status, p.created_at, p.updated_at
		FROM products p
		JOIN units u ON u.id = p.unit_id
		WHERE p.id = $1
	`

	var product domain.Product
	err := r.db.GetContext(ctx, &product, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Failed to get product by ID", err, map[string]interface{}{
			"id": id,
		})
		return nil, fmt.Errorf("failed to get product by ID: %w", err)
	}

	return &product, nil
}

// Update обновляет данные складской позиции; остаток меняется только
// складскими операциями и здесь не трогается
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $1, category_name = $2, price = $3, reorder_level = $4,
		    unit_id = $5, status = $6, updated_at = $7
		WHERE id = $8
	`

	product.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.Name,
		product.CategoryName,
		product.Price,
		product.ReorderLevel,
		product.UnitID,
		product.Status,
		product.UpdatedAt,
		product.ID,
	)

	if err != nil {
		r.logger.Error("Failed to update product", err, map[string]interface{}{
			"id": product.ID,
		})
		return fmt.Errorf("failed to update product: %w", err)
	}

	return checkAffected(result, "product")
}

// Delete удаляет складскую позицию по ID
func (r *ProductRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete product", err, map[string]interface{}{
			"id": id,
		})
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return checkAffected(result, "product")
}

// SetStatus включает либо отключает складскую позицию
func (r *ProductRepository) SetStatus(ctx context.Context, id int, status bool) error {
	query := `UPDATE products SET status = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		r.logger.Error("Failed to set product status", err, map[string]interface{}{
			"id":     id,
			"status": status,
		})
		return fmt.Errorf("failed to set product status: %w", err)
	}

	return checkAffected(result, "product")
}

// List возвращает список складских позиций с фильтрацией
func (r *ProductRepository) List(ctx context.Context, filter repository.ListFilter) ([]*domain.Product, error) {
	whereClause, args := r.buildWhereClause(filter)
	orderClause := r.buildOrderClause(filter)
	limitOffset := fmt.Sprintf("LIMIT %d OFFSET %d", filter.Limit, filter.Offset)

	query := fmt.Sprintf(`
		SELECT p.id, p.name, p.category_name, p.price, p.quantity, p.reorder_level,
		       p.unit_id, u.unit_name, p.status, p.created_at, p.updated_at
		FROM products p
		JOIN units u ON u.id = p.unit_id
		%s
		%s
		%s
	`, whereClause, orderClause, limitOffset)

	products := []*domain.Product{}
	err := r.db.SelectContext(ctx, &products, query, args...)
	if err != nil {
		r.logger.Error("Failed to list products", err)
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}

// Count возвращает количество складских позиций с фильтрацией
func (r *ProductRepository) Count(ctx context.Context, filter repository.ListFilter) (int, error) {
	whereClause, args := r.buildWhereClause(filter)

	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM products p
		JOIN units u ON u.id = p.unit_id
		%s
	`, whereClause)

	var count int
	err := r.db.GetContext(ctx, &count, query, args...)
	if err != nil {
		r.logger.Error("Failed to count products", err)
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	return count, nil
}

// GetIngredients возвращает состав продукта с названиями ингредиентов
func (r *ProductRepository) GetIngredients(ctx context.Context, productID int) ([]domain.ProductIngredient, error) {
	query := `
		SELECT pi.id, pi.product_id, pi.ingredient_id, i.name AS ingredient_name, pi.quantity, pi.created_at
		FROM product_ingredients pi
		JOIN ingredients i ON i.id = pi.ingredient_id
		WHERE pi.product_id = $1
		ORDER BY i.name ASC
	`

	rows := []domain.ProductIngredient{}
	err := r.db.SelectContext(ctx, &rows, query, productID)
	if err != nil {
		r.logger.Error("Failed to get product ingredients", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, fmt.Errorf("failed to get product ingredients: %w", err)
	}

	return rows, nil
}

// ReplaceIngredients целиком заменяет состав продукта в одной транзакции
func (r *ProductRepository) ReplaceIngredients(ctx context.Context, productID int, rows []domain.CompositionRow) error {
	err := database.ExecTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM product_ingredients WHERE product_id = $1`, productID); err != nil {
			return fmt.Errorf("failed to clear product ingredients: %w", err)
		}

		insertQuery := `
			INSERT INTO product_ingredients (product_id, ingredient_id, quantity, created_at)
			VALUES ($1, $2, $3, NOW())
		`
		for _, row := range rows {
			if _, err := tx.ExecContext(ctx, insertQuery, productID, row.IngredientID, row.Quantity); err != nil {
				return fmt.Errorf("failed to insert product ingredient: %w", err)
			}
		}

		return nil
	})

	if err != nil {
		r.logger.Error("Failed to replace product ingredients", err, map[string]interface{}{
			"product_id": productID,
			"rows":       len(rows),
		})
		return err
	}

	return nil
}

// LowStock возвращает активные позиции, у которых остаток не превышает
// порог дозаказа
func (r *ProductRepository) LowStock(ctx context.Context) ([]domain.LowStockItem, error) {
	query := `
		SELECT p.id, p.name, p.quantity, p.reorder_level, u.unit_name
		FROM products p
		JOIN units u ON u.id = p.unit_id
		WHERE p.quantity <= p.reorder_level AND p.status = TRUE
		ORDER BY p.quantity ASC
	`

	items := []domain.LowStockItem{}
	err := r.db.SelectContext(ctx, &items, query)
	if err != nil {
		r.logger.Error("Failed to get low stock products", err)
		return nil, fmt.Errorf("failed to get low stock products: %w", err)
	}

	return items, nil
}

// Вспомогательные функции для построения SQL-запросов

func (r *ProductRepository) buildWhereClause(filter repository.ListFilter) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}

	if filter.Search != nil {
		conditions = append(conditions, fmt.Sprintf("(p.name ILIKE $%d OR p.category_name ILIKE $%d)", argIndex, argIndex))
		searchPattern := "%" + *filter.Search + "%"
		args = append(args, searchPattern)
		argIndex++
	}

	if len(conditions) > 0 {
		return "WHERE " + strings.Join(conditions, " AND "), args
	}
	return "", args
}

func (r *ProductRepository) buildOrderClause(filter repository.ListFilter) string {
	allowedFields := map[string]string{
		"name":         "p.name",
		"categoryName": "p.category_name",
		"price":        "p.price",
		"quantity":     "p.quantity",
		"reorderLevel": "p.reorder_level",
		"status":       "p.status",
		"createdDate":  "p.created_at",
	}

	return buildOrderClause(filter.OrderBy, filter.OrderDir, allowedFields, "p.name ASC")
}
