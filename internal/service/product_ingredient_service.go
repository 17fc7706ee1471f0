package service

import (
	"context"
	"time"

	"github.com/moon90/rms-admin/internal/domain"
	"github.com/moon90/rms-admin/internal/repository"
	apperrors "github.com/moon90/rms-admin/pkg/errors"
	"github.com/moon90/rms-admin/pkg/logger"
)

// ProductIngredientService представляет бизнес-логику списочного ресурса
// «состав блюд»
type ProductIngredientService struct {
	repo           repository.ProductIngredientRepository
	productRepo    repository.ProductRepository
	ingredientRepo repository.IngredientRepository
	logger         logger.Logger
}

// NewProductIngredientService создает новый экземпляр ProductIngredientService
func NewProductIngredientService(repo repository.ProductIngredientRepository,
	productRepo repository.ProductRepository, ingredientRepo repository.IngredientRepository,
	logger logger.Logger) *ProductIngredientService {
	return &ProductIngredientService{
		repo:           repo,
		productRepo:    productRepo,
		ingredientRepo: ingredientRepo,
		logger:         logger,
	}
}

// Create создает новую строку состава
func (s *ProductIngredientService) Create(ctx context.Context, req domain.ProductIngredientCreateRequest) (*domain.ProductIngredient, error) {
	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperrors.NotFound("Product", req.ProductID)
	}

	ingredient, err := s.ingredientRepo.GetByID(ctx, req.IngredientID)
	if err != nil {
		return nil, err
	}
	if ingredient == nil {
		return nil, apperrors.NotFound("Ingredient", req.IngredientID)
	}

	row := &domain.ProductIngredient{
		ProductID:    req.ProductID,
		IngredientID: req.IngredientID,
		Quantity:     req.Quantity,
		CreatedDate:  time.Now(),
	}

	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("Failed to create product ingredient", err)
		return nil, err
	}

	row.ProductName = product.Name
	row.IngredientName = ingredient.Name
	return row, nil
}

// GetByID возвращает строку состава по ID
func (s *ProductIngredientService) GetByID(ctx context.Context, id int) (*domain.ProductIngredient, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, apperrors.NotFound("Product ingredient", id)
	}
	return row, nil
}

// Update обновляет строку состава
func (s *ProductIngredientService) Update(ctx context.Context, id int, req domain.ProductIngredientUpdateRequest) (*domain.ProductIngredient, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, apperrors.NotFound("Product ingredient", id)
	}

	if req.IngredientID != nil {
		ingredient, err := s.ingredientRepo.GetByID(ctx, *req.IngredientID)
		if err != nil {
			return nil, err
		}
		if ingredient == nil {
			return nil, apperrors.NotFound("Ingredient", *req.IngredientID)
		}
		row.IngredientID = *req.IngredientID
		row.IngredientName = ingredient.Name
	}
	if req.Quantity != nil {
		row.Quantity = *req.Quantity
	}

	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("Failed to update product ingredient", err, map[string]interface{}{
			"id": id,
		})
		return nil, err
	}

	return row, nil
}

// Delete удаляет строку состава
func (s *ProductIngredientService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete product ingredient", err, map[string]interface{}{
			"id": id,
		})
		return err
	}
	return nil
}

// List возвращает страницу строк состава с фильтрацией
func (s *ProductIngredientService) List(ctx context.Context, filter repository.ProductIngredientFilter, page, pageSize int) (*domain.PagedResponse, error) {
	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list product ingredients", err)
		return nil, err
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to count product ingredients", err)
		return nil, err
	}

	return domain.NewPagedResponse(rows, total, page, pageSize), nil
}
