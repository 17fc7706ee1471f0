package service

import (
	"context"
	"time"

	"github.com/moon90/rms-admin/internal/domain"
	"github.com/moon90/rms-admin/internal/repository"
	"github.com/moon90/rms-admin/internal/repository/cache"
	apperrors "github.com/moon90/rms-admin/pkg/errors"
	"github.com/moon90/rms-admin/pkg/logger"
)

// PermissionService представляет бизнес-логику для работы с разрешениями
type PermissionService struct {
	repo      repository.PermissionRepository
	cacheRepo *cache.RedisRepository
	logger    logger.Logger
}

// NewPermissionService создает новый экземпляр PermissionService
func NewPermissionService(repo repository.PermissionRepository, cacheRepo *cache.RedisRepository, logger logger.Logger) *PermissionService {
	return &PermissionService{
		repo:      repo,
		cacheRepo: cacheRepo,
		logger:    logger,
	}
}

// Create создает новое разрешение
func (s *PermissionService) Create(ctx context.Context, req domain.PermissionCreateRequest) (*domain.Permission, error) {
	now := time.Now()
	permission := &domain.Permission{
		PermissionName: req.PermissionName,
		Code:           req.Code,
		Category:       req.Category,
		Status:         true,
		CreatedDate:    now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, permission); err != nil {
		s.logger.Error("Failed to create permission", err)
		return nil, err
	}

	return permission, nil
}

// GetByID возвращает разрешение по ID
func (s *PermissionService) GetByID(ctx context.Context, id int) (*domain.Permission, error) {
	permission, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if permission == nil {
		return nil, apperrors.NotFound("Permission", id)
	}
	return permission, nil
}

// Update обновляет данные разрешения
func (s *PermissionService) Update(ctx context.Context, id int, req domain.PermissionUpdateRequest) (*domain.Permission, error) {
	permission, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if permission == nil {
		return nil, apperrors.NotFound("Permission", id)
	}

	if req.PermissionName != nil {
		permission.PermissionName = *req.PermissionName
	}
	if req.Code != nil {
		permission.Code = *req.Code
	}
	if req.Category != nil {
		permission.Category = *req.Category
	}
	if req.Status != nil {
		permission.Status = *req.Status
	}

	if err := s.repo.Update(ctx, permission); err != nil {
		s.logger.Error("Failed to update permission", err, map[string]interface{}{
			"id": id,
		})
		return nil, err
	}

	s.invalidateAllPermissions(ctx)
	return permission, nil
}

// Delete удаляет разрешение
func (s *PermissionService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete permission", err, map[string]interface{}{
			"id": id,
		})
		return err
	}

	s.invalidateAllPermissions(ctx)
	return nil
}

// SetStatus включает либо отключает разрешение
func (s *PermissionService) SetStatus(ctx context.Context, id int, status bool) error {
	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		s.logger.Error("Failed to set permission status", err, map[string]interface{}{
			"id":     id,
			"status": status,
		})
		return err
	}

	s.invalidateAllPermissions(ctx)
	return nil
}

// List возвращает страницу разрешений с фильтрацией
func (s *PermissionService) List(ctx context.Context, filter repository.ListFilter, page, pageSize int) (*domain.PagedResponse, error) {
	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize

	permissions, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list permissions", err)
		return nil, err
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to count permissions", err)
		return nil, err
	}

	return domain.NewPagedResponse(permissions, total, page, pageSize), nil
}

func (s *PermissionService) invalidateAllPermissions(ctx context.Context) {
	if err := s.cacheRepo.InvalidateAllUserPermissions(ctx); err != nil {
		s.logger.Warn("Failed to invalidate permissions cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
