package domain

import (
	"time"
)

// StockTransactionType определяет тип складской операции
type StockTransactionType string

const (
	// StockIn - приход на склад
	StockIn StockTransactionType = "in"
	// StockOut - расход со склада
	StockOut StockTransactionType = "out"
	// StockAdjustment - ручная корректировка остатка
	StockAdjustment StockTransactionType = "adjustment"
)

// StockTransaction представляет одну складскую операцию; остаток продукта
// меняется в той же транзакции БД, в которой создается запись
type StockTransaction struct {
	ID          int                  `json:"transactionID" db:"id"`
	ProductID   int                  `json:"productID" db:"product_id"`
	ProductName string               `json:"productName,omitempty" db:"product_name"`
	Type        StockTransactionType `json:"type" db:"type"`
	Quantity    float64              `json:"quantity" db:"quantity"`
	Note        string               `json:"note" db:"note"`
	CreatedBy   int                  `json:"createdBy" db:"created_by"`
	CreatedDate time.Time            `json:"createdDate" db:"created_at"`
}

// StockTransactionCreateRequest представляет данные для создания складской операции
type StockTransactionCreateRequest struct {
	ProductID int                  `json:"productID" validate:"required,gt=0"`
	Type      StockTransactionType `json:"type" validate:"required,oneof=in out adjustment"`
	Quantity  float64              `json:"quantity" validate:"required"`
	Note      string               `json:"note" validate:"max=255"`
}

// LowStockItem - строка виджета «заканчивающиеся запасы»: позиции, у
// которых остаток не превышает порог дозаказа
type LowStockItem struct {
	ProductID    int     `json:"productID" db:"id"`
	Name         string  `json:"name" db:"name"`
	Quantity     float64 `json:"quantity" db:"quantity"`
	ReorderLevel float64 `json:"reorderLevel" db:"reorder_level"`
	UnitName     string  `json:"unitName,omitempty" db:"unit_name"`
}
