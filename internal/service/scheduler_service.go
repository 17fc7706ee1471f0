package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/moon90/rms-admin/internal/messaging"
	"github.com/moon90/rms-admin/internal/repository"
	"github.com/moon90/rms-admin/internal/repository/cache"
	"github.com/moon90/rms-admin/pkg/config"
	"github.com/moon90/rms-admin/pkg/logger"
)

const lowStockScanLock = "scheduler:lowstock-scan"

// SchedulerService представляет сервис планировщика: периодически
// сканирует склад, обновляет снимок заканчивающихся запасов и публикует
// события о них
type SchedulerService struct {
	productRepo repository.ProductRepository
	cacheRepo   *cache.RedisRepository
	producer    StockEventPublisher
	cron        *cron.Cron
	logger      logger.Logger
	config      *config.SchedulerConfig
}

// NewSchedulerService создает новый экземпляр сервиса планировщика
func NewSchedulerService(
	productRepo repository.ProductRepository,
	cacheRepo *cache.RedisRepository,
	producer StockEventPublisher,
	config *config.SchedulerConfig,
	logger logger.Logger,
) *SchedulerService {
	// Создаем планировщик с поддержкой секунд
	cronScheduler := cron.New(cron.WithSeconds())

	return &SchedulerService{
		productRepo: productRepo,
		cacheRepo:   cacheRepo,
		producer:    producer,
		cron:        cronScheduler,
		logger:      logger,
		config:      config,
	}
}

// Start запускает планировщик
func (s *SchedulerService) Start(ctx context.Context) error {
	s.logger.Info("Starting scheduler service")

	if _, err := s.cron.AddFunc(s.config.LowStockScanCron, s.scanLowStock); err != nil {
		s.logger.Error("Failed to schedule low stock scan", err)
		return err
	}

	s.cron.Start()

	go func() {
		<-ctx.Done()
		s.logger.Info("Stopping scheduler service")
		s.cron.Stop()
	}()

	return nil
}

// scanLowStock сканирует склад и обновляет снимок заканчивающихся запасов.
// Блокировка в Redis не дает нескольким экземплярам планировщика
// выполнять сканирование одновременно
func (s *SchedulerService) scanLowStock() {
	ctx := context.Background()

	acquired, err := s.cacheRepo.AcquireLock(ctx, lowStockScanLock, 5*time.Minute)
	if err != nil {
		s.logger.Error("Failed to acquire low stock scan lock", err)
		return
	}
	if !acquired {
		s.logger.Debug("Low stock scan already running elsewhere, skipping")
		return
	}
	defer func() {
		if err := s.cacheRepo.ReleaseLock(ctx, lowStockScanLock); err != nil {
			s.logger.Warn("Failed to release low stock scan lock", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	s.logger.Info("Running low stock scan")

	items, err := s.productRepo.LowStock(ctx)
	if err != nil {
		s.logger.Error("Failed to scan low stock products", err)
		return
	}

	if err := s.cacheRepo.CacheLowStock(ctx, items); err != nil {
		s.logger.Error("Failed to cache low stock snapshot", err)
	}

	now := time.Now()
	for _, item := range items {
		event := &messaging.LowStockEvent{
			ProductID:    item.ProductID,
			ProductName:  item.Name,
			Quantity:     item.Quantity,
			ReorderLevel: item.ReorderLevel,
			UnitName:     item.UnitName,
			DetectedAt:   now,
			Type:         messaging.EventTypeLowStock,
		}

		if err := s.producer.PublishLowStock(ctx, event); err != nil {
			s.logger.Error("Failed to publish low stock event", err, map[string]interface{}{
				"product_id": item.ProductID,
			})
		}
	}

	s.logger.Info("Low stock scan finished", map[string]interface{}{
		"items": len(items),
	})
}
