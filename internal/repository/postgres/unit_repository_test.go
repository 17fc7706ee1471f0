package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/moon90/rms-admin/internal/domain"
	"github.com/moon90/rms-admin/internal/repository"
	apperrors "github.com/moon90/rms-admin/pkg/errors"
	"github.com/moon90/rms-admin/pkg/logger"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestUnitRepositoryCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUnitRepository(db, logger.NewNop())

	mock.ExpectQuery("INSERT INTO units").
		WithArgs("Kilogram", "kg", true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	unit := &domain.Unit{
		UnitName:     "Kilogram",
		Abbreviation: "kg",
		Status:       true,
		CreatedDate:  time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := repo.Create(context.Background(), unit); err != nil {
		t.Fatalf("create unit: %v", err)
	}
	if unit.ID != 5 {
		t.Fatalf("expected generated id 5, got %d", unit.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUnitRepositoryGetByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUnitRepository(db, logger.NewNop())

	mock.ExpectQuery("SELECT id, unit_name, abbreviation, status, created_at, updated_at").
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	unit, err := repo.GetByID(context.Background(), 99)
	if err != nil {
		t.Fatalf("missing row must not be an error: %v", err)
	}
	if unit != nil {
		t.Fatalf("expected nil unit for missing row, got %+v", unit)
	}
}

func TestUnitRepositoryUpdateNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUnitRepository(db, logger.NewNop())

	mock.ExpectExec("UPDATE units").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &domain.Unit{ID: 42, UnitName: "Liter"})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("zero affected rows should map to ErrNotFound, got %v", err)
	}
}

func TestUnitRepositoryCountAppliesFilters(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUnitRepository(db, logger.NewNop())

	status := true
	search := "kg"
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM units WHERE status = \$1 AND \(unit_name ILIKE \$2 OR abbreviation ILIKE \$2\)`).
		WithArgs(true, "%kg%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.Count(context.Background(), repository.ListFilter{
		Status: &status,
		Search: &search,
	})
	if err != nil {
		t.Fatalf("count units: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected count 3, got %d", count)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUnitRepositoryListOrderWhitelist(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUnitRepository(db, logger.NewNop())

	columns := []string{"id", "unit_name", "abbreviation", "status", "created_at", "updated_at"}
	now := time.Now()

	// Unknown sort column falls back to the default order
	orderBy := "hashedPassword"
	mock.ExpectQuery("FROM units\\s+ORDER BY unit_name ASC").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(1, "Kilogram", "kg", true, now, now))

	units, err := repo.List(context.Background(), repository.ListFilter{
		OrderBy: &orderBy,
		Limit:   10,
	})
	if err != nil {
		t.Fatalf("list units: %v", err)
	}
	if len(units) != 1 || units[0].UnitName != "Kilogram" {
		t.Fatalf("unexpected result: %+v", units)
	}

	// Whitelisted column with explicit direction is honored
	orderBy = "createdDate"
	orderDir := "desc"
	mock.ExpectQuery("FROM units\\s+ORDER BY created_at DESC").
		WillReturnRows(sqlmock.NewRows(columns))

	if _, err := repo.List(context.Background(), repository.ListFilter{
		OrderBy:  &orderBy,
		OrderDir: &orderDir,
		Limit:    10,
	}); err != nil {
		t.Fatalf("list units: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUnitRepositoryCountReferences(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUnitRepository(db, logger.NewNop())

	mock.ExpectQuery("SELECT").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.CountReferences(context.Background(), 7)
	if err != nil {
		t.Fatalf("count references: %v", err)
	}
	if count != 4 {
		t.Fatalf("expected 4 references, got %d", count)
	}
}
