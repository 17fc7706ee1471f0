package service

import (
	"context"
	"fmt"
	"time"

	"github.com/moon90/rms-admin/internal/domain"
	"github.com/moon90/rms-admin/internal/repository"
	"github.com/moon90/rms-admin/internal/repository/cache"
	apperrors "github.com/moon90/rms-admin/pkg/errors"
	"github.com/moon90/rms-admin/pkg/logger"
)

// RoleService представляет бизнес-логику для работы с ролями
type RoleService struct {
	repo      repository.RoleRepository
	cacheRepo *cache.RedisRepository
	logger    logger.Logger
}

// NewRoleService создает новый экземпляр RoleService
func NewRoleService(repo repository.RoleRepository, cacheRepo *cache.RedisRepository, logger logger.Logger) *RoleService {
	return &RoleService{
		repo:      repo,
		cacheRepo: cacheRepo,
		logger:    logger,
	}
}

// Create создает новую роль
func (s *RoleService) Create(ctx context.Context, req domain.RoleCreateRequest) (*domain.Role, error) {
	existing, err := s.repo.GetByName(ctx, req.RoleName)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Conflict("Role", "roleName", req.RoleName)
	}

	now := time.Now()
	role := &domain.Role{
		RoleName:    req.RoleName,
		Description: req.Description,
		Status:      true,
		CreatedDate: now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, role); err != nil {
		s.logger.Error("Failed to create role", err)
		return nil, err
	}

	return role, nil
}

// GetByID возвращает роль по ID
func (s *RoleService) GetByID(ctx context.Context, id int) (*domain.Role, error) {
	role, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, apperrors.NotFound("Role", id)
	}
	return role, nil
}

// Update обновляет данные роли
func (s *RoleService) Update(ctx context.Context, id int, req domain.RoleUpdateRequest) (*domain.Role, error) {
	role, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, apperrors.NotFound("Role", id)
	}

	if req.RoleName != nil {
		role.RoleName = *req.RoleName
	}
	if req.Description != nil {
		role.Description = *req.Description
	}
	if req.Status != nil {
		role.Status = *req.Status
	}

	if err := s.repo.Update(ctx, role); err != nil {
		s.logger.Error("Failed to update role", err, map[string]interface{}{
			"id": id,
		})
		return nil, err
	}

	s.invalidateAllPermissions(ctx)
	return role, nil
}

// Delete удаляет роль; роль, назначенная хотя бы одному пользователю,
// удалению не подлежит
func (s *RoleService) Delete(ctx context.Context, id int) error {
	users, err := s.repo.CountUsers(ctx, id)
	if err != nil {
		return err
	}
	if users > 0 {
		return apperrors.BusinessRule(fmt.Sprintf("Role is assigned to %d user(s) and cannot be deleted", users))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete role", err, map[string]interface{}{
			"id": id,
		})
		return err
	}

	s.invalidateAllPermissions(ctx)
	return nil
}

// SetStatus включает либо отключает роль
func (s *RoleService) SetStatus(ctx context.Context, id int, status bool) error {
	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		s.logger.Error("Failed to set role status", err, map[string]interface{}{
			"id":     id,
			"status": status,
		})
		return err
	}

	s.invalidateAllPermissions(ctx)
	return nil
}

// List возвращает страницу ролей с фильтрацией
func (s *RoleService) List(ctx context.Context, filter repository.ListFilter, page, pageSize int) (*domain.PagedResponse, error) {
	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize

	roles, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list roles", err)
		return nil, err
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to count roles", err)
		return nil, err
	}

	return domain.NewPagedResponse(roles, total, page, pageSize), nil
}

// GetPermissions возвращает разрешения роли
func (s *RoleService) GetPermissions(ctx context.Context, roleID int) ([]domain.Permission, error) {
	role, err := s.repo.GetByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, apperrors.NotFound("Role", roleID)
	}

	return s.repo.GetPermissions(ctx, roleID)
}

// AssignPermissions пакетно назначает роли разрешения; пустой список -
// успешная пустая операция
func (s *RoleService) AssignPermissions(ctx context.Context, roleID int, permissionIDs []int) error {
	if len(permissionIDs) == 0 {
		return nil
	}

	role, err := s.repo.GetByID(ctx, roleID)
	if err != nil {
		return err
	}
	if role == nil {
		return apperrors.NotFound("Role", roleID)
	}

	if err := s.repo.AssignPermissions(ctx, roleID, permissionIDs); err != nil {
		s.logger.Error("Failed to assign permissions", err, map[string]interface{}{
			"role_id":     roleID,
			"permissions": permissionIDs,
		})
		return err
	}

	s.invalidateAllPermissions(ctx)
	return nil
}

// UnassignPermissions пакетно отзывает разрешения у роли; пустой список -
// успешная пустая операция
func (s *RoleService) UnassignPermissions(ctx context.Context, roleID int, permissionIDs []int) error {
	if len(permissionIDs) == 0 {
		return nil
	}

	role, err := s.repo.GetByID(ctx, roleID)
	if err != nil {
		return err
	}
	if role == nil {
		return apperrors.NotFound("Role", roleID)
	}

	if err := s.repo.UnassignPermissions(ctx, roleID, permissionIDs); err != nil {
		s.logger.Error("Failed to unassign permissions", err, map[string]interface{}{
			"role_id":     roleID,
			"permissions": permissionIDs,
		})
		return err
	}

	s.invalidateAllPermissions(ctx)
	return nil
}

// invalidateAllPermissions сбрасывает кэш разрешений всех пользователей;
// изменение роли может затронуть любого из них
func (s *RoleService) invalidateAllPermissions(ctx context.Context) {
	if err := s.cacheRepo.InvalidateAllUserPermissions(ctx); err != nil {
		s.logger.Warn("Failed to invalidate permissions cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
