package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/moon90/rms-admin/internal/api"
	"github.com/moon90/rms-admin/internal/messaging"
	"github.com/moon90/rms-admin/internal/repository/cache"
	"github.com/moon90/rms-admin/internal/repository/postgres"
	"github.com/moon90/rms-admin/internal/service"
	"github.com/moon90/rms-admin/pkg/auth"
	redisClient "github.com/moon90/rms-admin/pkg/cache"
	"github.com/moon90/rms-admin/pkg/config"
	"github.com/moon90/rms-admin/pkg/database"
	"github.com/moon90/rms-admin/pkg/logger"
)

// Repositories содержит все репозитории для работы с хранилищами данных
type Repositories struct {
	UserRepository              *postgres.UserRepository
	RoleRepository              *postgres.RoleRepository
	PermissionRepository        *postgres.PermissionRepository
	UnitRepository              *postgres.UnitRepository
	IngredientRepository        *postgres.IngredientRepository
	ProductRepository           *postgres.ProductRepository
	ProductIngredientRepository *postgres.ProductIngredientRepository
	StockRepository             *postgres.StockRepository
	CacheRepository             *cache.RedisRepository
}

// Messaging содержит все клиенты для работы с сообщениями
type Messaging struct {
	Producer *messaging.KafkaProducer
}

// Application содержит все компоненты приложения
type Application struct {
	Config       *config.Config
	DB           *sqlx.DB
	Redis        *redisClient.Redis
	Logger       logger.Logger
	JWTManager   *auth.JWTManager
	Repositories *Repositories
	Services     *api.Services
	Messaging    *Messaging
}

// NewApplication создает новое приложение с инициализированными компонентами
func NewApplication(ctx context.Context, cfg *config.Config, log logger.Logger) (*Application, error) {
	// Инициализация базы данных PostgreSQL
	postgresDB, err := initPostgres(ctx, &cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}

	// Инициализация Redis
	redisCache, err := initRedis(ctx, &cfg.Redis, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}

	// Инициализация репозиториев
	repos := initRepositories(postgresDB, redisCache, log, cfg)

	// Инициализация Kafka
	msgClients := initMessaging(cfg, log)

	jwtManager := auth.NewJWTManager(&cfg.JWT)

	// Инициализация сервисов
	services := initServices(repos, msgClients, jwtManager, cfg, log)

	return &Application{
		Config:       cfg,
		DB:           postgresDB,
		Redis:        redisCache,
		Logger:       log,
		JWTManager:   jwtManager,
		Repositories: repos,
		Services:     services,
		Messaging:    msgClients,
	}, nil
}

// Close закрывает все соединения с внешними сервисами
func (app *Application) Close() {
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Error closing PostgreSQL connection", err)
		}
	}

	if app.Redis != nil {
		if err := app.Redis.Close(); err != nil {
			app.Logger.Error("Error closing Redis connection", err)
		}
	}

	if app.Messaging.Producer != nil {
		if err := app.Messaging.Producer.Close(); err != nil {
			app.Logger.Error("Error closing Kafka producer", err)
		}
	}
}

// Инициализация PostgreSQL
func initPostgres(ctx context.Context, cfg *config.DatabaseConfig, log logger.Logger) (*sqlx.DB, error) {
	postgres, err := database.NewPostgres(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return postgres.DB, nil
}

// Инициализация Redis
func initRedis(ctx context.Context, cfg *config.RedisConfig, log logger.Logger) (*redisClient.Redis, error) {
	redis, err := redisClient.NewRedis(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return redis, nil
}

// Инициализация репозиториев
func initRepositories(db *sqlx.DB, redis *redisClient.Redis, log logger.Logger, cfg *config.Config) *Repositories {
	cacheRepo := cache.NewRedisRepository(redis.Client, log, cfg.Redis.DefaultTTL)

	return &Repositories{
		UserRepository:              postgres.NewUserRepository(db, log),
		RoleRepository:              postgres.NewRoleRepository(db, log),
		PermissionRepository:        postgres.NewPermissionRepository(db, log),
		UnitRepository:              postgres.NewUnitRepository(db, log),
		IngredientRepository:        postgres.NewIngredientRepository(db, log),
		ProductRepository:           postgres.NewProductRepository(db, log),
		ProductIngredientRepository: postgres.NewProductIngredientRepository(db, log),
		StockRepository:             postgres.NewStockRepository(db, log),
		CacheRepository:             cacheRepo,
	}
}

// Инициализация Kafka
func initMessaging(cfg *config.Config, log logger.Logger) *Messaging {
	topics := map[string]string{
		"stock_changed": cfg.Kafka.Topics.StockChanged,
		"low_stock":     cfg.Kafka.Topics.LowStock,
	}

	producer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, topics, log)

	return &Messaging{
		Producer: producer,
	}
}

// Инициализация сервисов
func initServices(repos *Repositories, msg *Messaging, jwtManager *auth.JWTManager, cfg *config.Config, log logger.Logger) *api.Services {
	return &api.Services{
		UserService: service.NewUserService(repos.UserRepository, repos.RoleRepository,
			jwtManager, repos.CacheRepository, cfg.RBAC.DefaultRoleID, log),
		RoleService:       service.NewRoleService(repos.RoleRepository, repos.CacheRepository, log),
		PermissionService: service.NewPermissionService(repos.PermissionRepository, repos.CacheRepository, log),
		UnitService:       service.NewUnitService(repos.UnitRepository, log),
		IngredientService: service.NewIngredientService(repos.IngredientRepository, repos.UnitRepository, log),
		ProductService: service.NewProductService(repos.ProductRepository, repos.IngredientRepository,
			repos.UnitRepository, log),
		ProductIngredientService: service.NewProductIngredientService(repos.ProductIngredientRepository,
			repos.ProductRepository, repos.IngredientRepository, log),
		StockService: service.NewStockService(repos.StockRepository, repos.ProductRepository,
			repos.CacheRepository, msg.Producer, log),
	}
}
