package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/moon90/rms-admin/internal/domain"
	apperrors "github.com/moon90/rms-admin/pkg/errors"
	"github.com/moon90/rms-admin/pkg/logger"
)

func TestStockRepositoryCreateAdjustsQuantity(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStockRepository(db, logger.NewNop())

	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT quantity FROM products WHERE id = \\$1 FOR UPDATE").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(10.0))
	mock.ExpectExec("UPDATE products SET quantity").
		WithArgs(15.0, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO stock_transactions").
		WithArgs(1, domain.StockIn, 5.0, "delivery", 7, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(100))
	mock.ExpectQuery("SELECT p.id, p.name").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "category_name", "price", "quantity", "reorder_level",
			"unit_id", "unit_name", "status", "created_at", "updated_at",
		}).AddRow(1, "Flour", "Baking", 2.5, 15.0, 20.0, 3, "Kilogram", true, now, now))
	mock.ExpectCommit()

	tx := &domain.StockTransaction{
		ProductID:   1,
		Type:        domain.StockIn,
		Quantity:    5,
		Note:        "delivery",
		CreatedBy:   7,
		CreatedDate: now,
	}
	product, err := repo.Create(context.Background(), tx)
	if err != nil {
		t.Fatalf("create stock transaction: %v", err)
	}
	if tx.ID != 100 {
		t.Fatalf("expected generated id 100, got %d", tx.ID)
	}
	if product.Quantity != 15 {
		t.Fatalf("expected updated quantity 15, got %v", product.Quantity)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStockRepositoryCreateRejectsNegativeStock(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStockRepository(db, logger.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT quantity FROM products WHERE id = \\$1 FOR UPDATE").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(3.0))
	mock.ExpectRollback()

	tx := &domain.StockTransaction{
		ProductID:   1,
		Type:        domain.StockOut,
		Quantity:    5,
		CreatedDate: time.Now(),
	}
	_, err := repo.Create(context.Background(), tx)
	if !errors.Is(err, apperrors.ErrBusinessRule) {
		t.Fatalf("draining stock below zero should violate the business rule, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStockRepositoryCreateMissingProduct(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStockRepository(db, logger.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT quantity FROM products WHERE id = \\$1 FOR UPDATE").
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"quantity"}))
	mock.ExpectRollback()

	tx := &domain.StockTransaction{
		ProductID:   99,
		Type:        domain.StockIn,
		Quantity:    5,
		CreatedDate: time.Now(),
	}
	_, err := repo.Create(context.Background(), tx)
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("missing product should map to ErrNotFound, got %v", err)
	}
}

func TestStockRepositoryAdjustmentCarriesSign(t *testing.T) {
	in := &domain.StockTransaction{Type: domain.StockIn, Quantity: 4}
	out := &domain.StockTransaction{Type: domain.StockOut, Quantity: 4}
	down := &domain.StockTransaction{Type: domain.StockAdjustment, Quantity: -2.5}
	up := &domain.StockTransaction{Type: domain.StockAdjustment, Quantity: 2.5}

	if stockDelta(in) != 4 {
		t.Fatalf("in should increase stock")
	}
	if stockDelta(out) != -4 {
		t.Fatalf("out should decrease stock")
	}
	if stockDelta(down) != -2.5 || stockDelta(up) != 2.5 {
		t.Fatalf("adjustment should carry its own sign")
	}
}
