package repository

import (
	"context"

	"github.com/moon90/rms-admin/internal/domain"
)

// RoleRepository определяет интерфейс для работы с хранилищем ролей
type RoleRepository interface {
	// Create создает новую роль
	Create(ctx context.Context, role *domain.Role) error

	// GetByID возвращает роль по ID
	GetByID(ctx context.Context, id int) (*domain.Role, error)

	// GetByName возвращает роль по названию
	GetByName(ctx context.Context, name string) (*domain.Role, error)

	// Update обновляет данные роли
	Update(ctx context.Context, role *domain.Role) error

	// Delete удаляет роль по ID
	Delete(ctx context.Context, id int) error

	// SetStatus включает либо отключает роль
	SetStatus(ctx context.Context, id int, status bool) error

	// List возвращает список ролей с фильтрацией
	List(ctx context.Context, filter ListFilter) ([]*domain.Role, error)

	// Count возвращает количество ролей с фильтрацией
	Count(ctx context.Context, filter ListFilter) (int, error)

	// CountUsers возвращает число пользователей, которым назначена роль
	CountUsers(ctx context.Context, roleID int) (int, error)

	// GetPermissions возвращает разрешения роли
	GetPermissions(ctx context.Context, roleID int) ([]domain.Permission, error)

	// AssignPermissions пакетно назначает роли разрешения
	AssignPermissions(ctx context.Context, roleID int, permissionIDs []int) error

	// UnassignPermissions пакетно отзывает разрешения у роли
	UnassignPermissions(ctx context.Context, roleID int, permissionIDs []int) error
}

// PermissionRepository определяет интерфейс для работы с хранилищем разрешений
type PermissionRepository interface {
	// Create создает новое разрешение
	Create(ctx context.Context, permission *domain.Permission) error

	// GetByID возвращает разрешение по ID
	GetByID(ctx context.Context, id int) (*domain.Permission, error)

	// Update обновляет данные разрешения
	Update(ctx context.Context, permission *domain.Permission) error

	// Delete удаляет разрешение по ID
	Delete(ctx context.Context, id int) error

	// SetStatus включает либо отключает разрешение
	SetStatus(ctx context.Context, id int, status bool) error

	// List возвращает список разрешений с фильтрацией
	List(ctx context.Context, filter ListFilter) ([]*domain.Permission, error)

	// Count возвращает количество разрешений с фильтрацией
	Count(ctx context.Context, filter ListFilter) (int, error)
}
