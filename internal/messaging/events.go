package messaging

import (
	"time"
)

// Типы событий
const (
	EventTypeStockIn         = "stock_in"
	EventTypeStockOut        = "stock_out"
	EventTypeStockAdjustment = "stock_adjustment"
	EventTypeLowStock        = "low_stock"
)

// StockEvent представляет событие складской операции
type StockEvent struct {
	TransactionID int       `json:"transaction_id"`
	ProductID     int       `json:"product_id"`
	ProductName   string    `json:"product_name"`
	Quantity      float64   `json:"quantity"`
	NewQuantity   float64   `json:"new_quantity"`
	ReorderLevel  float64   `json:"reorder_level"`
	CreatedBy     int       `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	Type          string    `json:"type"`
}

// LowStockEvent представляет событие «остаток упал до порога дозаказа»
type LowStockEvent struct {
	ProductID    int       `json:"product_id"`
	ProductName  string    `json:"product_name"`
	Quantity     float64   `json:"quantity"`
	ReorderLevel float64   `json:"reorder_level"`
	UnitName     string    `json:"unit_name,omitempty"`
	DetectedAt   time.Time `json:"detected_at"`
	Type         string    `json:"type"`
}
