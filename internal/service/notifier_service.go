package service

import (
	"context"
	"fmt"
	"time"

	"github.com/moon90/rms-admin/internal/messaging"
	"github.com/moon90/rms-admin/internal/repository/cache"
	"github.com/moon90/rms-admin/pkg/logger"
)

// alertSuppressionTTL задает окно, в течение которого повторные события
// по одному и тому же продукту не порождают новых оповещений
const alertSuppressionTTL = 1 * time.Hour

// NotifierService читает складские события из Kafka и превращает события
// о заканчивающихся запасах в оповещения администраторов
type NotifierService struct {
	consumer  *messaging.KafkaConsumer
	cacheRepo *cache.RedisRepository
	logger    logger.Logger
}

// NewNotifierService создает новый экземпляр сервиса оповещений
func NewNotifierService(consumer *messaging.KafkaConsumer, cacheRepo *cache.RedisRepository, logger logger.Logger) *NotifierService {
	return &NotifierService{
		consumer:  consumer,
		cacheRepo: cacheRepo,
		logger:    logger,
	}
}

// Start запускает чтение событий
func (s *NotifierService) Start(ctx context.Context) error {
	s.logger.Info("Starting notifier service")

	go s.consumeEvents(ctx)

	return nil
}

// Stop останавливает сервис оповещений
func (s *NotifierService) Stop() error {
	s.logger.Info("Stopping notifier service")
	return s.consumer.Close()
}

// consumeEvents читает и обрабатывает события из Kafka
func (s *NotifierService) consumeEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Event consumer stopped due to context cancellation")
			return
		default:
		}

		message, err := s.consumer.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Error("Failed to read message from Kafka", err)
			continue
		}

		if err := s.processLowStockEvent(ctx, message); err != nil {
			s.logger.Error("Failed to process low stock event", err, map[string]interface{}{
				"key": message.Key,
			})
		}
	}
}

// processLowStockEvent обрабатывает событие о заканчивающихся запасах.
// Повторные события по одному продукту в пределах окна подавляются
func (s *NotifierService) processLowStockEvent(ctx context.Context, message *messaging.Message) error {
	var event messaging.LowStockEvent
	if err := s.consumer.ParseMessage(message, &event); err != nil {
		return err
	}

	lockKey := fmt.Sprintf("lowstock-alert:%d", event.ProductID)
	acquired, err := s.cacheRepo.AcquireLock(ctx, lockKey, alertSuppressionTTL)
	if err != nil {
		return err
	}
	if !acquired {
		s.logger.Debug("Low stock alert suppressed", map[string]interface{}{
			"product_id": event.ProductID,
		})
		return nil
	}

	s.logger.Warn("Low stock alert", map[string]interface{}{
		"product_id":    event.ProductID,
		"product_name":  event.ProductName,
		"quantity":      event.Quantity,
		"reorder_level": event.ReorderLevel,
		"unit":          event.UnitName,
	})

	return nil
}
