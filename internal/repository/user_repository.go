package repository

import (
	"context"

	"github.com/moon90/rms-admin/internal/domain"
)

// UserRepository определяет интерфейс для работы с хранилищем пользователей
type UserRepository interface {
	// Create создает нового пользователя
	Create(ctx context.Context, user *domain.User) error

	// GetByID возвращает пользователя по ID
	GetByID(ctx context.Context, id int) (*domain.User, error)

	// GetByUserName возвращает пользователя по имени учетной записи
	GetByUserName(ctx context.Context, userName string) (*domain.User, error)

	// Update обновляет данные пользователя
	Update(ctx context.Context, user *domain.User) error

	// Delete удаляет пользователя по ID
	Delete(ctx context.Context, id int) error

	// SetStatus включает либо отключает пользователя
	SetStatus(ctx context.Context, id int, status bool) error

	// List возвращает список пользователей с фильтрацией
	List(ctx context.Context, filter UserFilter) ([]*domain.User, error)

	// Count возвращает количество пользователей с фильтрацией
	Count(ctx context.Context, filter UserFilter) (int, error)

	// UpdateLastLogin обновляет время последнего входа пользователя
	UpdateLastLogin(ctx context.Context, id int) error

	// GetRoles возвращает роли пользователя
	GetRoles(ctx context.Context, userID int) ([]domain.Role, error)

	// AssignRoles пакетно назначает пользователю роли
	AssignRoles(ctx context.Context, userID int, roleIDs []int) error

	// UnassignRoles пакетно отзывает роли у пользователя
	UnassignRoles(ctx context.Context, userID int, roleIDs []int) error

	// GetPermissions возвращает разрешения пользователя через его роли
	GetPermissions(ctx context.Context, userID int) ([]domain.Permission, error)
}

// UserFilter содержит параметры для фильтрации пользователей
type UserFilter struct {
	ListFilter
	RoleID *int `json:"role_id,omitempty"`
}
