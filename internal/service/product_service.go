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

// ProductService представляет бизнес-логику для работы со складскими
// позициями и их составами
type ProductService struct {
	repo           repository.ProductRepository
	ingredientRepo repository.IngredientRepository
	unitRepo       repository.UnitRepository
	logger         logger.Logger
}

// NewProductService создает новый экземпляр ProductService
func NewProductService(repo repository.ProductRepository, ingredientRepo repository.IngredientRepository,
	unitRepo repository.UnitRepository, logger logger.Logger) *ProductService {
	return &ProductService{
		repo:           repo,
		ingredientRepo: ingredientRepo,
		unitRepo:       unitRepo,
		logger:         logger,
	}
}

// Create создает новую складскую позицию
func (s *ProductService) Create(ctx context.Context, req domain.ProductCreateRequest) (*domain.Product, error) {
	unit, err := s.unitRepo.GetByID(ctx, req.UnitID)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, apperrors.NotFound("Unit", req.UnitID)
	}

	now := time.Now()
	product := &domain.Product{
		Name:         req.Name,
		CategoryName: req.CategoryName,
		Price:        req.Price,
		Quantity:     req.Quantity,
		ReorderLevel: req.ReorderLevel,
		UnitID:       req.UnitID,
		Status:       true,
		CreatedDate:  now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		s.logger.Error("Failed to create product", err)
		return nil, err
	}

	product.UnitName = unit.UnitName
	return product, nil
}

// GetByID возвращает складскую позицию по ID
func (s *ProductService) GetByID(ctx context.Context, id int) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperrors.NotFound("Product", id)
	}
	return product, nil
}

// Update обновляет данные складской позиции
func (s *ProductService) Update(ctx context.Context, id int, req domain.ProductUpdateRequest) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperrors.NotFound("Product", id)
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.CategoryName != nil {
		product.CategoryName = *req.CategoryName
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.ReorderLevel != nil {
		product.ReorderLevel = *req.ReorderLevel
	}
	if req.UnitID != nil {
		unit, err := s.unitRepo.GetByID(ctx, *req.UnitID)
		if err != nil {
			return nil, err
		}
		if unit == nil {
			return nil, apperrors.NotFound("Unit", *req.UnitID)
		}
		product.UnitID = *req.UnitID
		product.UnitName = unit.UnitName
	}
	if req.Status != nil {
		product.Status = *req.Status
	}

	if err := s.repo.Update(ctx, product); err != nil {
		s.logger.Error("Failed to update product", err, map[string]interface{}{
			"id": id,
		})
		return nil, err
	}

	return product, nil
}

// Delete удаляет складскую позицию
func (s *ProductService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete product", err, map[string]interface{}{
			"id": id,
		})
		return err
	}
	return nil
}

// SetStatus включает либо отключает складскую позицию
func (s *ProductService) SetStatus(ctx context.Context, id int, status bool) error {
	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		s.logger.Error("Failed to set product status", err, map[string]interface{}{
			"id":     id,
			"status": status,
		})
		return err
	}
	return nil
}

// List возвращает страницу складских позиций с фильтрацией
func (s *ProductService) List(ctx context.Context, filter repository.ListFilter, page, pageSize int) (*domain.PagedResponse, error) {
	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize

	products, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list products", err)
		return nil, err
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to count products", err)
		return nil, err
	}

	return domain.NewPagedResponse(products, total, page, pageSize), nil
}

// GetIngredients возвращает состав продукта
func (s *ProductService) GetIngredients(ctx context.Context, productID int) ([]domain.ProductIngredient, error) {
	product, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperrors.NotFound("Product", productID)
	}

	return s.repo.GetIngredients(ctx, productID)
}

// ReplaceIngredients целиком заменяет состав продукта; повторяющиеся
// ингредиенты в запросе не допускаются
func (s *ProductService) ReplaceIngredients(ctx context.Context, productID int, rows []domain.CompositionRow) error {
	product, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return apperrors.NotFound("Product", productID)
	}

	seen := make(map[int]struct{}, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.IngredientID]; ok {
			return apperrors.BusinessRule(fmt.Sprintf("Ingredient %d appears more than once", row.IngredientID))
		}
		seen[row.IngredientID] = struct{}{}

		ingredient, err := s.ingredientRepo.GetByID(ctx, row.IngredientID)
		if err != nil {
			return err
		}
		if ingredient == nil {
			return apperrors.NotFound("Ingredient", row.IngredientID)
		}
	}

	if err := s.repo.ReplaceIngredients(ctx, productID, rows); err != nil {
		s.logger.Error("Failed to replace product ingredients", err, map[string]interface{}{
			"product_id": productID,
		})
		return err
	}

	return nil
}
