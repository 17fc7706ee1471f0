package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/moon90/rms-admin/internal/app"
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
	logger.Info("Starting scheduler service")

	// Инициализируем основное приложение
	application, err := app.NewApplication(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize application", err)
	}
	defer application.Close()

	// Инициализируем сервис планировщика
	schedulerService := service.NewSchedulerService(
		application.Repositories.ProductRepository,
		application.Repositories.CacheRepository,
		application.Messaging.Producer,
		&cfg.Scheduler,
		logger,
	)

	// Запускаем планировщик
	if err := schedulerService.Start(ctx); err != nil {
		logger.Fatal("Failed to start scheduler service", err)
	}

	// Создаем канал для перехвата сигналов остановки
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Блокируем основную горутину до получения сигнала остановки
	<-stop
	logger.Info("Shutting down scheduler service")
	cancel()

	// Даем планировщику время завершить текущий проход
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	<-shutdownCtx.Done()
	logger.Info("Scheduler service stopped")
}
