package domain

import (
	"time"
)

// Role представляет роль пользователя
type Role struct {
	ID          int       `json:"roleID" db:"id"`
	RoleName    string    `json:"roleName" db:"role_name"`
	Description string    `json:"description" db:"description"`
	Status      bool      `json:"status" db:"status"`
	CreatedDate time.Time `json:"createdDate" db:"created_at"`
	UpdatedAt   time.Time `json:"-" db:"updated_at"`
}

// RoleCreateRequest представляет данные для создания роли
type RoleCreateRequest struct {
	RoleName    string `json:"roleName" validate:"required,min=2,max=50"`
	Description string `json:"description" validate:"max=255"`
}

// RoleUpdateRequest представляет данные для обновления роли
type RoleUpdateRequest struct {
	RoleName    *string `json:"roleName,omitempty" validate:"omitempty,min=2,max=50"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=255"`
	Status      *bool   `json:"status,omitempty"`
}

// Permission представляет разрешение; Code - машинный код возможности,
// Category - пункт меню, к которому разрешение относится
type Permission struct {
	ID             int       `json:"permissionID" db:"id"`
	PermissionName string    `json:"permissionName" db:"permission_name"`
	Code           string    `json:"code" db:"code"`
	Category       string    `json:"category" db:"category"`
	Status         bool      `json:"status" db:"status"`
	CreatedDate    time.Time `json:"createdDate" db:"created_at"`
	UpdatedAt      time.Time `json:"-" db:"updated_at"`
}

// PermissionCreateRequest представляет данные для создания разрешения
type PermissionCreateRequest struct {
	PermissionName string `json:"permissionName" validate:"required,min=2,max=100"`
	Code           string `json:"code" validate:"required,min=2,max=100"`
	Category       string `json:"category" validate:"required,max=50"`
}

// PermissionUpdateRequest представляет данные для обновления разрешения
type PermissionUpdateRequest struct {
	PermissionName *string `json:"permissionName,omitempty" validate:"omitempty,min=2,max=100"`
	Code           *string `json:"code,omitempty" validate:"omitempty,min=2,max=100"`
	Category       *string `json:"category,omitempty" validate:"omitempty,max=50"`
	Status         *bool   `json:"status,omitempty"`
}

// Коды разрешений, используемые middleware и клиентом
const (
	PermUsersView        = "users.view"
	PermUsersManage      = "users.manage"
	PermRolesView        = "roles.view"
	PermRolesManage      = "roles.manage"
	PermUnitsView        = "units.view"
	PermUnitsManage      = "units.manage"
	PermIngredientsView  = "ingredients.view"
	PermIngredientsMng   = "ingredients.manage"
	PermInventoryView    = "inventory.view"
	PermInventoryManage  = "inventory.manage"
	PermStockView        = "stock.view"
	PermStockManage      = "stock.manage"
	PermDashboardView    = "dashboard.view"
	PermPermissionsView  = "permissions.view"
	PermPermissionsMng   = "permissions.manage"
)
