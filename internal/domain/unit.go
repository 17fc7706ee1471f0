package domain

import (
	"time"
)

// Unit представляет единицу измерения (кг, л, шт)
type Unit struct {
	ID           int       `json:"unitID" db:"id"`
	UnitName     string    `json:"unitName" db:"unit_name"`
	Abbreviation string    `json:"abbreviation" db:"abbreviation"`
	Status       bool      `json:"status" db:"status"`
	CreatedDate  time.Time `json:"createdDate" db:"created_at"`
	UpdatedAt    time.Time `json:"-" db:"updated_at"`
}

// UnitCreateRequest представляет данные для создания единицы измерения
type UnitCreateRequest struct {
	UnitName     string `json:"unitName" validate:"required,min=1,max=50"`
	Abbreviation string `json:"abbreviation" validate:"required,min=1,max=10"`
}

// UnitUpdateRequest представляет данные для обновления единицы измерения
type UnitUpdateRequest struct {
	UnitName     *string `json:"unitName,omitempty" validate:"omitempty,min=1,max=50"`
	Abbreviation *string `json:"abbreviation,omitempty" validate:"omitempty,min=1,max=10"`
	Status       *bool   `json:"status,omitempty"`
}

// Ingredient представляет ингредиент, из которого составляются блюда
type Ingredient struct {
	ID          int       `json:"ingredientID" db:"id"`
	Name        string    `json:"name" db:"name"`
	UnitID      int       `json:"unitID" db:"unit_id"`
	UnitName    string    `json:"unitName,omitempty" db:"unit_name"`
	CostPerUnit float64   `json:"costPerUnit" db:"cost_per_unit"`
	Status      bool      `json:"status" db:"status"`
	CreatedDate time.Time `json:"createdDate" db:"created_at"`
	UpdatedAt   time.Time `json:"-" db:"updated_at"`
}

// IngredientCreateRequest представляет данные для создания ингредиента
type IngredientCreateRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	UnitID      int     `json:"unitID" validate:"required,gt=0"`
	CostPerUnit float64 `json:"costPerUnit" validate:"gte=0"`
}

// IngredientUpdateRequest представляет данные для обновления ингредиента
type IngredientUpdateRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	UnitID      *int     `json:"unitID,omitempty" validate:"omitempty,gt=0"`
	CostPerUnit *float64 `json:"costPerUnit,omitempty" validate:"omitempty,gte=0"`
	Status      *bool    `json:"status,omitempty"`
}
