package service

import (
	"context"
	"time"

	"github.com/moon90/rms-admin/internal/domain"
	"github.com/moon90/rms-admin/internal/repository"
	apperrors "github.com/moon90/rms-admin/pkg/errors"
	"github.com/moon90/rms-admin/pkg/logger"
)

// IngredientService представляет бизнес-логику для работы с ингредиентами
type IngredientService struct {
	repo     repository.IngredientRepository
	unitRepo repository.UnitRepository
	logger   logger.Logger
}

// NewIngredientService создает новый экземпляр IngredientService
func NewIngredientService(repo repository.IngredientRepository, unitRepo repository.UnitRepository, logger logger.Logger) *IngredientService {
	return &IngredientService{
		repo:     repo,
		unitRepo: unitRepo,
		logger:   logger,
	}
}

// Create создает новый ингредиент; единица измерения должна существовать
func (s *IngredientService) Create(ctx context.Context, req domain.IngredientCreateRequest) (*domain.Ingredient, error) {
	unit, err := s.unitRepo.GetByID(ctx, req.UnitID)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, apperrors.NotFound("Unit", req.UnitID)
	}

	now := time.Now()
	ingredient := &domain.Ingredient{
		Name:        req.Name,
		UnitID:      req.UnitID,
		CostPerUnit: req.CostPerUnit,
		Status:      true,
		CreatedDate: now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, ingredient); err != nil {
		s.logger.Error("Failed to create ingredient", err)
		return nil, err
	}

	ingredient.UnitName = unit.UnitName
	return ingredient, nil
}

// GetByID возвращает ингредиент по ID
func (s *IngredientService) GetByID(ctx context.Context, id int) (*domain.Ingredient, error) {
	ingredient, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ingredient == nil {
		return nil, apperrors.NotFound("Ingredient", id)
	}
	return ingredient, nil
}

// Update обновляет данные ингредиента
func (s *IngredientService) Update(ctx context.Context, id int, req domain.IngredientUpdateRequest) (*domain.Ingredient, error) {
	ingredient, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ingredient == nil {
		return nil, apperrors.NotFound("Ingredient", id)
	}

	if req.Name != nil {
		ingredient.Name = *req.Name
	}
	if req.UnitID != nil {
		unit, err := s.unitRepo.GetByID(ctx, *req.UnitID)
		if err != nil {
			return nil, err
		}
		if unit == nil {
			return nil, apperrors.NotFound("Unit", *req.UnitID)
		}
		ingredient.UnitID = *req.UnitID
		ingredient.UnitName = unit.UnitName
	}
	if req.CostPerUnit != nil {
		ingredient.CostPerUnit = *req.CostPerUnit
	}
	if req.Status != nil {
		ingredient.Status = *req.Status
	}

	if err := s.repo.Update(ctx, ingredient); err != nil {
		s.logger.Error("Failed to update ingredient", err, map[string]interface{}{
			"id": id,
		})
		return nil, err
	}

	return ingredient, nil
}

// Delete удаляет ингредиент
func (s *IngredientService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete ingredient", err, map[string]interface{}{
			"id": id,
		})
		return err
	}
	return nil
}

// SetStatus включает либо отключает ингредиент
func (s *IngredientService) SetStatus(ctx context.Context, id int, status bool) error {
	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		s.logger.Error("Failed to set ingredient status", err, map[string]interface{}{
			"id":     id,
			"status": status,
		})
		return err
	}
	return nil
}

// List возвращает страницу ингредиентов с фильтрацией
func (s *IngredientService) List(ctx context.Context, filter repository.ListFilter, page, pageSize int) (*domain.PagedResponse, error) {
	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize

	ingredients, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list ingredients", err)
		return nil, err
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to count ingredients", err)
		return nil, err
	}

	return domain.NewPagedResponse(ingredients, total, page, pageSize), nil
}
