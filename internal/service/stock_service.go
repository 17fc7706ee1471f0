package service

import (
	"context"
	"time"

	"github.com/moon90/rms-admin/internal/domain"
	"github.com/moon90/rms-admin/internal/messaging"
	"github.com/moon90/rms-admin/internal/repository"
	"github.com/moon90/rms-admin/internal/repository/cache"
	apperrors "github.com/moon90/rms-admin/pkg/errors"
	"github.com/moon90/rms-admin/pkg/logger"
)

// StockEventPublisher определяет интерфейс публикации складских событий
type StockEventPublisher interface {
	PublishStockChanged(ctx context.Context, event *messaging.StockEvent) error
	PublishLowStock(ctx context.Context, event *messaging.LowStockEvent) error
}

// StockService представляет бизнес-логику складских операций
type StockService struct {
	repo        repository.StockRepository
	productRepo repository.ProductRepository
	cacheRepo   *cache.RedisRepository
	producer    StockEventPublisher
	logger      logger.Logger
}

// NewStockService создает новый экземпляр StockService
func NewStockService(repo repository.StockRepository, productRepo repository.ProductRepository,
	cacheRepo *cache.RedisRepository, producer StockEventPublisher, logger logger.Logger) *StockService {
	return &StockService{
		repo:        repo,
		productRepo: productRepo,
		cacheRepo:   cacheRepo,
		producer:    producer,
		logger:      logger,
	}
}

// Create создает складскую операцию. Остаток продукта меняется атомарно;
// после успешной записи публикуются события о движении запасов и, если
// остаток упал до порога дозаказа, о заканчивающихся запасах
func (s *StockService) Create(ctx context.Context, req domain.StockTransactionCreateRequest, createdBy int) (*domain.StockTransaction, error) {
	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperrors.NotFound("Product", req.ProductID)
	}

	if req.Quantity <= 0 && req.Type != domain.StockAdjustment {
		return nil, apperrors.BadRequest("Quantity must be positive")
	}

	transaction := &domain.StockTransaction{
		ProductID:   req.ProductID,
		Type:        req.Type,
		Quantity:    req.Quantity,
		Note:        req.Note,
		CreatedBy:   createdBy,
		CreatedDate: time.Now(),
	}

	updated, err := s.repo.Create(ctx, transaction)
	if err != nil {
		return nil, err
	}

	transaction.ProductName = updated.Name
	s.publishEvents(ctx, transaction, updated)

	if err := s.cacheRepo.InvalidateLowStock(ctx); err != nil {
		s.logger.Warn("Failed to invalidate low stock cache", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return transaction, nil
}

// GetByID возвращает складскую операцию по ID
func (s *StockService) GetByID(ctx context.Context, id int) (*domain.StockTransaction, error) {
	transaction, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if transaction == nil {
		return nil, apperrors.NotFound("Stock transaction", id)
	}
	return transaction, nil
}

// List возвращает страницу складских операций с фильтрацией
func (s *StockService) List(ctx context.Context, filter repository.StockFilter, page, pageSize int) (*domain.PagedResponse, error) {
	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize

	transactions, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list stock transactions", err)
		return nil, err
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to count stock transactions", err)
		return nil, err
	}

	return domain.NewPagedResponse(transactions, total, page, pageSize), nil
}

// LowStock возвращает позиции с остатком не выше порога дозаказа; сначала
// проверяется снимок в кэше, который обновляет планировщик
func (s *StockService) LowStock(ctx context.Context) ([]domain.LowStockItem, error) {
	if items, err := s.cacheRepo.GetLowStock(ctx); err == nil {
		return items, nil
	}

	items, err := s.productRepo.LowStock(ctx)
	if err != nil {
		s.logger.Error("Failed to load low stock products", err)
		return nil, err
	}

	if err := s.cacheRepo.CacheLowStock(ctx, items); err != nil {
		s.logger.Warn("Failed to cache low stock snapshot", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return items, nil
}

// publishEvents отправляет события в Kafka; сбой публикации не отменяет
// уже зафиксированную складскую операцию
func (s *StockService) publishEvents(ctx context.Context, t *domain.StockTransaction, product *domain.Product) {
	if s.producer == nil {
		return
	}

	eventType := messaging.EventTypeStockAdjustment
	switch t.Type {
	case domain.StockIn:
		eventType = messaging.EventTypeStockIn
	case domain.StockOut:
		eventType = messaging.EventTypeStockOut
	}

	stockEvent := &messaging.StockEvent{
		TransactionID: t.ID,
		ProductID:     product.ID,
		ProductName:   product.Name,
		Quantity:      t.Quantity,
		NewQuantity:   product.Quantity,
		ReorderLevel:  product.ReorderLevel,
		CreatedBy:     t.CreatedBy,
		CreatedAt:     t.CreatedDate,
		Type:          eventType,
	}

	if err := s.producer.PublishStockChanged(ctx, stockEvent); err != nil {
		s.logger.Error("Failed to publish stock event", err, map[string]interface{}{
			"transaction_id": t.ID,
		})
	}

	if product.Quantity <= product.ReorderLevel {
		lowStockEvent := &messaging.LowStockEvent{
			ProductID:    product.ID,
			ProductName:  product.Name,
			Quantity:     product.Quantity,
			ReorderLevel: product.ReorderLevel,
			UnitName:     product.UnitName,
			DetectedAt:   time.Now(),
			Type:         messaging.EventTypeLowStock,
		}

		if err := s.producer.PublishLowStock(ctx, lowStockEvent); err != nil {
			s.logger.Error("Failed to publish low stock event", err, map[string]interface{}{
				"product_id": product.ID,
			})
		}
	}
}
