package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/moon90/rms-admin/internal/app"
	"github.com/moon90/rms-admin/internal/messaging"
	"github.com/moon90/rms-admin/internal/service"
	"github.com/moon90/rms-admin/pkg/config"
	applogger "github.com/moon90/rms-admin/pkg/logger"
)

func main() {
	// Инициализируем контекст приложения
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Обновляем контекст приложения в конфигурации
	cfg.App.Context = ctx

	// Инициализируем логгер
	logger := applogger.NewLogger(cfg.App.LogLevel, cfg.App.Environment == "production")
	logger.Info("Starting notifier service")

	// Инициализируем основное приложение
	application, err := app.NewApplication(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize application", err)
	}
	defer application.Close()

	// Инициализируем консьюмер событий о заканчивающихся запасах
	consumer := messaging.NewKafkaConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topics.LowStock, cfg.Kafka.GroupID, logger)

	// Инициализируем сервис уведомлений
	notifierService := service.NewNotifierService(
		consumer,
		application.Repositories.CacheRepository,
		logger,
	)

	// Запускаем сервис уведомлений
	if err := notifierService.Start(ctx); err != nil {
		logger.Fatal("Failed to start notifier service", err)
	}

	// Создаем канал для перехвата сигналов остановки
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Блокируем основную горутину до получения сигнала остановки
	<-stop
	logger.Info("Shutting down notifier service")
	cancel()

	// Останавливаем сервис уведомлений
	if err := notifierService.Stop(); err != nil {
		logger.Error("Error stopping notifier service", err)
	}

	// Даем консьюмеру время завершить обработку
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	<-shutdownCtx.Done()
	logger.Info("Notifier service stopped")
}
