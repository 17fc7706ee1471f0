package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/moon90/rms-admin/internal/domain"
	"github.com/moon90/rms-admin/internal/repository"
	"github.com/moon90/rms-admin/pkg/database"
	apperrors "github.com/moon90/rms-admin/pkg/errors"
	"github.com/moon90/rms-admin/pkg/logger"
)

// StockRepository реализует репозиторий складских операций с использованием PostgreSQL
type StockRepository struct {
	db     *sqlx.DB
	logger logger.Logger
}

// NewStockRepository создает новый экземпляр StockRepository
func NewStockRepository(db *sqlx.DB, logger logger.Logger) *StockRepository {
	return &StockRepository{
		db:     db,
		logger: logger,
	}
}

// stockDelta возвращает знаковое изменение остатка для операции.
// Приход увеличивает остаток, расход уменьшает, корректировка несет
// знак в самом количестве.
func stockDelta(t *domain.StockTransaction) float64 {
	switch t.Type {
	case domain.StockIn:
		return t.Quantity
	case domain.StockOut:
		return -t.Quantity
	default:
		return t.Quantity
	}
}

// Create создает складскую операцию и меняет остаток продукта в одной
// транзакции; возвращает продукт с обновленным остатком. Операция,
// уводящая остаток в минус, отклоняется
func (r *StockRepository) Create(ctx context.Context, t *domain.StockTransaction) (*domain.Product, error) {
	var product domain.Product

	err := database.ExecTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var current float64
		err := tx.QueryRowxContext(ctx, `SELECT quantity FROM products WHERE id = $1 FOR UPDATE`, t.ProductID).Scan(&current)
		if err != nil {
			if err == sql.ErrNoRows {
				return fmt.Errorf("product %d: %w", t.ProductID, apperrors.ErrNotFound)
			}
			return fmt.Errorf("failed to lock product: %w", err)
		}

		newQuantity := current + stockDelta(t)
		if newQuantity < 0 {
			return fmt.Errorf("stock for product %d would drop below zero: %w", t.ProductID, apperrors.ErrBusinessRule)
		}

		_, err = tx.ExecContext(ctx, `UPDATE products SET quantity = $1, updated_at = NOW() WHERE id = $2`, newQuantity, t.ProductID)
		if err != nil {
			return fmt.Errorf("failed to update product quantity: %w", err)
		}

		insertQuery := `
			INSERT INTO stock_transactions (product_id, type, quantity, note, created_by, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`
		err = tx.QueryRowxContext(
			ctx,
			insertQuery,
			t.ProductID,
			t.Type,
			t.Quantity,
			t.Note,
			t.CreatedBy,
			t.CreatedDate,
		).Scan(&t.ID)
		if err != nil {
			return fmt.Errorf("failed to create stock transaction: %w", err)
		}

		selectQuery := `
			SELECT p.id, p.name, p.category_name, p.price, p.quantity, p.reorder_level,
			       p.unit_id, u.unit_name, p.status, p.created_at, p.updated_at
			FROM products p
			JOIN units u ON u.id = p.unit_id
			WHERE p.id = $1
		`
		if err := tx.GetContext(ctx, &product, selectQuery, t.ProductID); err != nil {
			return fmt.Errorf("failed to reload product: %w", err)
		}

		return nil
	})

	if err != nil {
		r.logger.Error("Failed to create stock transaction", err, map[string]interface{}{
			"product_id": t.ProductID,
			"type":       string(t.Type),
		})
		return nil, err
	}

	return &product, nil
}

// GetByID возвращает складскую операцию по ID вместе с названием продукта
func (r *StockRepository) GetByID(ctx context.Context, id int) (*domain.StockTransaction, error) {
	query := `
		SELECT st.id, st.product_id, p.name AS product_name, st.type, st.quantity,
		       st.note, st.created_by, st.created_at
		FROM stock_transactions st
		JOIN products p ON p.id = st.product_id
		WHERE st.id = $1
	`

	var t domain.StockTransaction
	err := r.db.GetContext(ctx, &t, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Failed to get stock transaction by ID", err, map[string]interface{}{
			"id": id,
		})
		return nil, fmt.Errorf("failed to get stock transaction by ID: %w", err)
	}

	return &t, nil
}

// List возвращает список складских операций с фильтрацией
func (r *StockRepository) List(ctx context.Context, filter repository.StockFilter) ([]*domain.StockTransaction, error) {
	whereClause, args := r.buildWhereClause(filter)
	orderClause := r.buildOrderClause(filter)
	limitOffset := fmt.Sprintf("LIMIT %d OFFSET %d", filter.Limit, filter.Offset)

	query := fmt.Sprintf(`
		SELECT st.id, st.product_id, p.name AS product_name, st.type, st.quantity,
		       st.note, st.created_by, st.created_at
		FROM stock_transactions st
		JOIN products p ON p.id = st.product_id
		%s
		%s
		%s
	`, whereClause, orderClause, limitOffset)

	transactions := []*domain.StockTransaction{}
	err := r.db.SelectContext(ctx, &transactions, query, args...)
	if err != nil {
		r.logger.Error("Failed to list stock transactions", err)
		return nil, fmt.Errorf("failed to list stock transactions: %w", err)
	}

	return transactions, nil
}

// Count возвращает количество складских операций с фильтрацией
func (r *StockRepository) Count(ctx context.Context, filter repository.StockFilter) (int, error) {
	whereClause, args := r.buildWhereClause(filter)

	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM stock_transactions st
		JOIN products p ON p.id = st.product_id
		%s
	`, whereClause)

	var count int
	err := r.db.GetContext(ctx, &count, query, args...)
	if err != nil {
		r.logger.Error("Failed to count stock transactions", err)
		return 0, fmt.Errorf("failed to count stock transactions: %w", err)
	}

	return count, nil
}

// Вспомогательные функции для построения SQL-запросов

func (r *StockRepository) buildWhereClause(filter repository.StockFilter) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if filter.ProductID != nil {
		conditions = append(conditions, fmt.Sprintf("st.product_id = $%d", argIndex))
		args = append(args, *filter.ProductID)
		argIndex++
	}

	if filter.Type != nil {
		conditions = append(conditions, fmt.Sprintf("st.type = $%d", argIndex))
		args = append(args, string(*filter.Type))
		argIndex++
	}

	if filter.Search != nil {
		conditions = append(conditions, fmt.Sprintf("(p.name ILIKE $%d OR st.note ILIKE $%d)", argIndex, argIndex))
		searchPattern := "%" + *filter.Search + "%"
		args = append(args, searchPattern)
		argIndex++
	}

	if len(conditions) > 0 {
		return "WHERE " + strings.Join(conditions, " AND "), args
	}
	return "", args
}

func (r *StockRepository) buildOrderClause(filter repository.StockFilter) string {
	allowedFields := map[string]string{
		"productName": "p.name",
		"type":        "st.type",
		"quantity":    "st.quantity",
		"createdDate": "st.created_at",
	}

	return buildOrderClause(filter.OrderBy, filter.OrderDir, allowedFields, "st.created_at DESC")
}
