package domain

import (
	"time"
)

// Product представляет складскую позицию (блюдо либо товар)
type Product struct {
	ID           int       `json:"productID" db:"id"`
	Name         string    `json:"name" db:"name"`
	CategoryName string    `json:"categoryName" db:"category_name"`
	Price        float64   `json:"price" db:"price"`
	Quantity     float64   `json:"quantity" db:"quantity"`
	ReorderLevel float64   `json:"reorderLevel" db:"reorder_level"`
	UnitID       int       `json:"unitID" db:"unit_id"`
	UnitName     string    `json:"unitName,omitempty" db:"unit_name"`
	Status       bool      `json:"status" db:"status"`
	CreatedDate  time.Time `json:"createdDate" db:"created_at"`
	UpdatedAt    time.Time `json:"-" db:"updated_at"`
}

// ProductCreateRequest представляет данные для создания складской позиции
type ProductCreateRequest struct {
	Name         string  `json:"name" validate:"required,min=1,max=100"`
	CategoryName string  `json:"categoryName" validate:"max=50"`
	Price        float64 `json:"price" validate:"gte=0"`
	Quantity     float64 `json:"quantity" validate:"gte=0"`
	ReorderLevel float64 `json:"reorderLevel" validate:"gte=0"`
	UnitID       int     `json:"unitID" validate:"required,gt=0"`
}

// ProductUpdateRequest представляет данные для обновления складской позиции
type ProductUpdateRequest struct {
	Name         *string  `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	CategoryName *string  `json:"categoryName,omitempty" validate:"omitempty,max=50"`
	Price        *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	ReorderLevel *float64 `json:"reorderLevel,omitempty" validate:"omitempty,gte=0"`
	UnitID       *int     `json:"unitID,omitempty" validate:"omitempty,gt=0"`
	Status       *bool    `json:"status,omitempty"`
}

// ProductIngredient представляет строку состава: сколько ингредиента
// уходит на единицу продукта
type ProductIngredient struct {
	ID             int       `json:"productIngredientID" db:"id"`
	ProductID      int       `json:"productID" db:"product_id"`
	ProductName    string    `json:"productName,omitempty" db:"product_name"`
	IngredientID   int       `json:"ingredientID" db:"ingredient_id"`
	IngredientName string    `json:"ingredientName,omitempty" db:"ingredient_name"`
	Quantity       float64   `json:"quantity" db:"quantity"`
	CreatedDate    time.Time `json:"createdDate" db:"created_at"`
}

// ProductIngredientCreateRequest представляет данные для создания строки состава
type ProductIngredientCreateRequest struct {
	ProductID    int     `json:"productID" validate:"required,gt=0"`
	IngredientID int     `json:"ingredientID" validate:"required,gt=0"`
	Quantity     float64 `json:"quantity" validate:"required,gt=0"`
}

// ProductIngredientUpdateRequest представляет данные для обновления строки состава
type ProductIngredientUpdateRequest struct {
	IngredientID *int     `json:"ingredientID,omitempty" validate:"omitempty,gt=0"`
	Quantity     *float64 `json:"quantity,omitempty" validate:"omitempty,gt=0"`
}

// CompositionRow - одна строка при полной замене состава продукта
type CompositionRow struct {
	IngredientID int     `json:"ingredientID" validate:"required,gt=0"`
	Quantity     float64 `json:"quantity" validate:"required,gt=0"`
}
