package service

import (
	"context"
	"fmt"
	"time"

	"github.com/moon90/rms-admin/internal/domain"
	"github.com/moon90/rms-admin/internal/repository"
	apperrors "github.com/moon90/rms-admin/pkg/errors"
	"github.com/moon90/rms-admin/pkg/logger"
)

// UnitService представляет бизнес-логику для работы с единицами измерения
type UnitService struct {
	repo   repository.UnitRepository
	logger logger.Logger
}

// NewUnitService создает новый экземпляр UnitService
func NewUnitService(repo repository.UnitRepository, logger logger.Logger) *UnitService {
	return &UnitService{
		repo:   repo,
		logger: logger,
	}
}

// Create создает новую единицу измерения
func (s *UnitService) Create(ctx context.Context, req domain.UnitCreateRequest) (*domain.Unit, error) {
	now := time.Now()
	unit := &domain.Unit{
		UnitName:     req.UnitName,
		Abbreviation: req.Abbreviation,
		Status:       true,
		CreatedDate:  now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, unit); err != nil {
		s.logger.Error("Failed to create unit", err)
		return nil, err
	}

	return unit, nil
}

// GetByID возвращает единицу измерения по ID
func (s *UnitService) GetByID(ctx context.Context, id int) (*domain.Unit, error) {
	unit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, apperrors.NotFound("Unit", id)
	}
	return unit, nil
}

// Update обновляет данные единицы измерения
func (s *UnitService) Update(ctx context.Context, id int, req domain.UnitUpdateRequest) (*domain.Unit, error) {
	unit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, apperrors.NotFound("Unit", id)
	}

	if req.UnitName != nil {
		unit.UnitName = *req.UnitName
	}
	if req.Abbreviation != nil {
		unit.Abbreviation = *req.Abbreviation
	}
	if req.Status != nil {
		unit.Status = *req.Status
	}

	if err := s.repo.Update(ctx, unit); err != nil {
		s.logger.Error("Failed to update unit", err, map[string]interface{}{
			"id": id,
		})
		return nil, err
	}

	return unit, nil
}

// Delete удаляет единицу измерения; единица, на которую ссылаются
// ингредиенты либо складские позиции, удалению не подлежит
func (s *UnitService) Delete(ctx context.Context, id int) error {
	refs, err := s.repo.CountReferences(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return apperrors.BusinessRule(fmt.Sprintf("Unit is referenced by %d item(s) and cannot be deleted", refs))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete unit", err, map[string]interface{}{
			"id": id,
		})
		return err
	}

	return nil
}

// SetStatus включает либо отключает единицу измерения
func (s *UnitService) SetStatus(ctx context.Context, id int, status bool) error {
	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		s.logger.Error("Failed to set unit status", err, map[string]interface{}{
			"id":     id,
			"status": status,
		})
		return err
	}
	return nil
}

// List возвращает страницу единиц измерения с фильтрацией
func (s *UnitService) List(ctx context.Context, filter repository.ListFilter, page, pageSize int) (*domain.PagedResponse, error) {
	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize

	units, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list units", err)
		return nil, err
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to count units", err)
		return nil, err
	}

	return domain.NewPagedResponse(units, total, page, pageSize), nil
}
