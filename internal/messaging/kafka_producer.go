package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/moon90/rms-admin/pkg/logger"
)

// KafkaProducer реализует интерфейс продюсера для отправки сообщений в Kafka
type KafkaProducer struct {
	writer *kafka.Writer
	topics map[string]string
	logger logger.Logger
}

// wrapLogger адаптирует logger.Logger к интерфейсу kafka.Logger
type wrapLogger struct {
	log logger.Logger
}

func (w wrapLogger) Printf(format string, args ...interface{}) {
	w.log.Debug(fmt.Sprintf(format, args...))
}

// NewKafkaProducer создает новый экземпляр KafkaProducer
func NewKafkaProducer(brokers []string, topics map[string]string, logger logger.Logger) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  5,
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		Logger:       wrapLogger{log: logger},
	}

	return &KafkaProducer{
		writer: writer,
		topics: topics,
		logger: logger,
	}
}

// Close закрывает соединение с Kafka
func (p *KafkaProducer) Close() error {
	p.logger.Info("Closing Kafka producer")
	return p.writer.Close()
}

// PublishStockChanged публикует событие складской операции
func (p *KafkaProducer) PublishStockChanged(ctx context.Context, event *StockEvent) error {
	return p.publishEvent(ctx, p.topics["stock_changed"], strconv.Itoa(event.ProductID), event)
}

// PublishLowStock публикует событие о падении остатка до порога дозаказа
func (p *KafkaProducer) PublishLowStock(ctx context.Context, event *LowStockEvent) error {
	return p.publishEvent(ctx, p.topics["low_stock"], strconv.Itoa(event.ProductID), event)
}

// Вспомогательный метод для публикации событий

func (p *KafkaProducer) publishEvent(ctx context.Context, topic, key string, event interface{}) error {
	value, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal event", err, map[string]interface{}{
			"topic": topic,
			"key":   key,
		})
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	p.writer.Topic = topic

	start := time.Now()
	err = p.writer.WriteMessages(ctx,
		kafka.Message{
			Key:   []byte(key),
			Value: value,
			Time:  time.Now(),
		},
	)
	elapsed := time.Since(start)

	if err != nil {
		p.logger.Error("Failed to publish event", err, map[string]interface{}{
			"topic":   topic,
			"key":     key,
			"elapsed": elapsed.String(),
		})
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("Successfully published event", map[string]interface{}{
		"topic":   topic,
		"key":     key,
		"elapsed": elapsed.String(),
	})

	return nil
}
