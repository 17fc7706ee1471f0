package repository

import (
	"context"

	"github.com/moon90/rms-admin/internal/domain"
)

// UnitRepository определяет интерфейс для работы с единицами измерения
type UnitRepository interface {
	Create(ctx context.Context, unit *domain.Unit) error
	GetByID(ctx context.Context, id int) (*domain.Unit, error)
	Update(ctx context.Context, unit *domain.Unit) error
	Delete(ctx context.Context, id int) error
	SetStatus(ctx context.Context, id int, status bool) error
	List(ctx context.Context, filter ListFilter) ([]*domain.Unit, error)
	Count(ctx context.Context, filter ListFilter) (int, error)

	// CountReferences возвращает число ингредиентов и продуктов,
	// ссылающихся на единицу измерения; такие единицы удалять нельзя
	CountReferences(ctx context.Context, unitID int) (int, error)
}

// IngredientRepository определяет интерфейс для работы с ингредиентами
type IngredientRepository interface {
	Create(ctx context.Context, ingredient *domain.Ingredient) error
	GetByID(ctx context.Context, id int) (*domain.Ingredient, error)
	Update(ctx context.Context, ingredient *domain.Ingredient) error
	Delete(ctx context.Context, id int) error
	SetStatus(ctx context.Context, id int, status bool) error
	List(ctx context.Context, filter ListFilter) ([]*domain.Ingredient, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
}

// ProductRepository определяет интерфейс для работы со складскими позициями
// и их составами
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id int) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int) error
	SetStatus(ctx context.Context, id int, status bool) error
	List(ctx context.Context, filter ListFilter) ([]*domain.Product, error)
	Count(ctx context.Context, filter ListFilter) (int, error)

	// GetIngredients возвращает состав продукта
	GetIngredients(ctx context.Context, productID int) ([]domain.ProductIngredient, error)

	// ReplaceIngredients целиком заменяет состав продукта в одной транзакции
	ReplaceIngredients(ctx context.Context, productID int, rows []domain.CompositionRow) error

	// LowStock возвращает позиции, у которых остаток не превышает порог дозаказа
	LowStock(ctx context.Context) ([]domain.LowStockItem, error)
}

// ProductIngredientRepository определяет интерфейс списочного ресурса
// «состав блюд»: те же строки состава, но как самостоятельные записи
type ProductIngredientRepository interface {
	Create(ctx context.Context, row *domain.ProductIngredient) error
	GetByID(ctx context.Context, id int) (*domain.ProductIngredient, error)
	Update(ctx context.Context, row *domain.ProductIngredient) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, filter ProductIngredientFilter) ([]*domain.ProductIngredient, error)
	Count(ctx context.Context, filter ProductIngredientFilter) (int, error)
}

// ProductIngredientFilter содержит параметры фильтрации строк состава
type ProductIngredientFilter struct {
	ListFilter
	ProductID *int `json:"product_id,omitempty"`
}

// StockRepository определяет интерфейс для работы со складскими операциями
type StockRepository interface {
	// Create создает складскую операцию и меняет остаток продукта в одной
	// транзакции; возвращает продукт с обновленным остатком
	Create(ctx context.Context, t *domain.StockTransaction) (*domain.Product, error)

	// GetByID возвращает складскую операцию по ID
	GetByID(ctx context.Context, id int) (*domain.StockTransaction, error)

	// List возвращает список складских операций с фильтрацией
	List(ctx context.Context, filter StockFilter) ([]*domain.StockTransaction, error)

	// Count возвращает количество складских операций с фильтрацией
	Count(ctx context.Context, filter StockFilter) (int, error)
}

// StockFilter содержит параметры фильтрации складских операций
type StockFilter struct {
	ListFilter
	ProductID *int                         `json:"product_id,omitempty"`
	Type      *domain.StockTransactionType `json:"type,omitempty"`
}
