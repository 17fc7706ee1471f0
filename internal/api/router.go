package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/moon90/rms-admin/internal/api/handlers"
	mw "github.com/moon90/rms-admin/internal/api/middleware"
	"github.com/moon90/rms-admin/internal/domain"
	"github.com/moon90/rms-admin/internal/service"
	"github.com/moon90/rms-admin/pkg/auth"
	"github.com/moon90/rms-admin/pkg/config"
	"github.com/moon90/rms-admin/pkg/logger"
)

// Server представляет HTTP сервер API
type Server struct {
	router     chi.Router
	httpServer *http.Server
	logger     logger.Logger
	config     *config.Config
	jwtManager *auth.JWTManager
	services   *Services
}

// Services содержит все сервисы для обработчиков API
type Services struct {
	UserService              *service.UserService
	RoleService              *service.RoleService
	PermissionService        *service.PermissionService
	UnitService              *service.UnitService
	IngredientService        *service.IngredientService
	ProductService           *service.ProductService
	ProductIngredientService *service.ProductIngredientService
	StockService             *service.StockService
}

// NewServer создает новый экземпляр сервера API
func NewServer(config *config.Config, logger logger.Logger, jwtManager *auth.JWTManager, services *Services) *Server {
	server := &Server{
		router:     chi.NewRouter(),
		logger:     logger,
		config:     config,
		jwtManager: jwtManager,
		services:   services,
	}

	server.setupRoutes()

	return server
}

// setupRoutes настраивает маршруты API
func (s *Server) setupRoutes() {
	authHandler := handlers.NewAuthHandler(s.services.UserService, s.logger)
	userHandler := handlers.NewUserHandler(s.services.UserService, s.logger)
	roleHandler := handlers.NewRoleHandler(s.services.RoleService, s.logger)
	permissionHandler := handlers.NewPermissionHandler(s.services.PermissionService, s.logger)
	unitHandler := handlers.NewUnitHandler(s.services.UnitService, s.logger)
	ingredientHandler := handlers.NewIngredientHandler(s.services.IngredientService, s.logger)
	productHandler := handlers.NewProductHandler(s.services.ProductService, s.logger)
	productIngredientHandler := handlers.NewProductIngredientHandler(s.services.ProductIngredientService, s.logger)
	stockHandler := handlers.NewStockHandler(s.services.StockService, s.logger)
	dashboardHandler := handlers.NewDashboardHandler(s.services.StockService, s.logger)

	authMiddleware := mw.NewAuthMiddleware(s.jwtManager, s.services.UserService, s.logger)
	loggingMiddleware := mw.NewLoggingMiddleware(s.logger)

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(loggingMiddleware.LogRequest)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(chimiddleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Базовый маршрут для проверки работоспособности API
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"OK"}`))
	})

	// Публичные маршруты (без аутентификации)
	s.router.Route("/Auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)
	})

	// Защищенные маршруты (требуют аутентификации)
	s.router.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Route("/Users", func(r chi.Router) {
			r.With(authMiddleware.RequirePermission(domain.PermUsersView)).Get("/", userHandler.List)
			r.With(authMiddleware.RequirePermission(domain.PermUsersView)).Get("/{id}", userHandler.Get)
			r.With(authMiddleware.RequirePermission(domain.PermUsersManage)).Post("/", userHandler.Create)
			r.With(authMiddleware.RequirePermission(domain.PermUsersManage)).Put("/{id}", userHandler.Update)
			r.With(authMiddleware.RequirePermission(domain.PermUsersManage)).Delete("/{id}", userHandler.Delete)
			r.With(authMiddleware.RequirePermission(domain.PermUsersManage)).Put("/{id}/status", userHandler.SetStatus)
			r.With(authMiddleware.RequirePermission(domain.PermUsersView)).Get("/{id}/roles", userHandler.GetRoles)
			r.With(authMiddleware.RequirePermission(domain.PermUsersManage)).Post("/{id}/assign-roles", userHandler.AssignRoles)
			r.With(authMiddleware.RequirePermission(domain.PermUsersManage)).Post("/{id}/unassign-roles", userHandler.UnassignRoles)
		})

		r.Route("/Roles", func(r chi.Router) {
			r.With(authMiddleware.RequirePermission(domain.PermRolesView)).Get("/", roleHandler.List)
			r.With(authMiddleware.RequirePermission(domain.PermRolesView)).Get("/{id}", roleHandler.Get)
			r.With(authMiddleware.RequirePermission(domain.PermRolesManage)).Post("/", roleHandler.Create)
			r.With(authMiddleware.RequirePermission(domain.PermRolesManage)).Put("/{id}", roleHandler.Update)
			r.With(authMiddleware.RequirePermission(domain.PermRolesManage)).Delete("/{id}", roleHandler.Delete)
			r.With(authMiddleware.RequirePermission(domain.PermRolesManage)).Put("/{id}/status", roleHandler.SetStatus)
			r.With(authMiddleware.RequirePermission(domain.PermRolesView)).Get("/{id}/permissions", roleHandler.GetPermissions)
			r.With(authMiddleware.RequirePermission(domain.PermRolesManage)).Post("/{id}/assign-permissions", roleHandler.AssignPermissions)
			r.With(authMiddleware.RequirePermission(domain.PermRolesManage)).Post("/{id}/unassign-permissions", roleHandler.UnassignPermissions)
		})

		r.Route("/Permissions", func(r chi.Router) {
			r.With(authMiddleware.RequirePermission(domain.PermPermissionsView)).Get("/", permissionHandler.List)
			r.With(authMiddleware.RequirePermission(domain.PermPermissionsView)).Get("/{id}", permissionHandler.Get)
			r.With(authMiddleware.RequirePermission(domain.PermPermissionsMng)).Post("/", permissionHandler.Create)
			r.With(authMiddleware.RequirePermission(domain.PermPermissionsMng)).Put("/{id}", permissionHandler.Update)
			r.With(authMiddleware.RequirePermission(domain.PermPermissionsMng)).Delete("/{id}", permissionHandler.Delete)
			r.With(authMiddleware.RequirePermission(domain.PermPermissionsMng)).Put("/{id}/status", permissionHandler.SetStatus)
		})

		r.Route("/Units", func(r chi.Router) {
			r.With(authMiddleware.RequirePermission(domain.PermUnitsView)).Get("/", unitHandler.List)
			r.With(authMiddleware.RequirePermission(domain.PermUnitsView)).Get("/{id}", unitHandler.Get)
			r.With(authMiddleware.RequirePermission(domain.PermUnitsManage)).Post("/", unitHandler.Create)
			r.With(authMiddleware.RequirePermission(domain.PermUnitsManage)).Put("/{id}", unitHandler.Update)
			r.With(authMiddleware.RequirePermission(domain.PermUnitsManage)).Delete("/{id}", unitHandler.Delete)
			r.With(authMiddleware.RequirePermission(domain.PermUnitsManage)).Put("/{id}/status", unitHandler.SetStatus)
		})

		r.Route("/Ingredients", func(r chi.Router) {
			r.With(authMiddleware.RequirePermission(domain.PermIngredientsView)).Get("/", ingredientHandler.List)
			r.With(authMiddleware.RequirePermission(domain.PermIngredientsView)).Get("/{id}", ingredientHandler.Get)
			r.With(authMiddleware.RequirePermission(domain.PermIngredientsMng)).Post("/", ingredientHandler.Create)
			r.With(authMiddleware.RequirePermission(domain.PermIngredientsMng)).Put("/{id}", ingredientHandler.Update)
			r.With(authMiddleware.RequirePermission(domain.PermIngredientsMng)).Delete("/{id}", ingredientHandler.Delete)
			r.With(authMiddleware.RequirePermission(domain.PermIngredientsMng)).Put("/{id}/status", ingredientHandler.SetStatus)
		})

		r.Route("/Inventory", func(r chi.Router) {
			r.With(authMiddleware.RequirePermission(domain.PermInventoryView)).Get("/", productHandler.List)
			r.With(authMiddleware.RequirePermission(domain.PermInventoryView)).Get("/{id}", productHandler.Get)
			r.With(authMiddleware.RequirePermission(domain.PermInventoryManage)).Post("/", productHandler.Create)
			r.With(authMiddleware.RequirePermission(domain.PermInventoryManage)).Put("/{id}", productHandler.Update)
			r.With(authMiddleware.RequirePermission(domain.PermInventoryManage)).Delete("/{id}", productHandler.Delete)
			r.With(authMiddleware.RequirePermission(domain.PermInventoryManage)).Put("/{id}/status", productHandler.SetStatus)
			r.With(authMiddleware.RequirePermission(domain.PermInventoryView)).Get("/{id}/ingredients", productHandler.GetIngredients)
			r.With(authMiddleware.RequirePermission(domain.PermInventoryManage)).Put("/{id}/ingredients", productHandler.ReplaceIngredients)
		})

		r.Route("/ProductIngredients", func(r chi.Router) {
			r.With(authMiddleware.RequirePermission(domain.PermInventoryView)).Get("/", productIngredientHandler.List)
			r.With(authMiddleware.RequirePermission(domain.PermInventoryView)).Get("/{id}", productIngredientHandler.Get)
			r.With(authMiddleware.RequirePermission(domain.PermInventoryManage)).Post("/", productIngredientHandler.Create)
			r.With(authMiddleware.RequirePermission(domain.PermInventoryManage)).Put("/{id}", productIngredientHandler.Update)
			r.With(authMiddleware.RequirePermission(domain.PermInventoryManage)).Delete("/{id}", productIngredientHandler.Delete)
		})

		r.Route("/StockTransactions", func(r chi.Router) {
			r.With(authMiddleware.RequirePermission(domain.PermStockView)).Get("/", stockHandler.List)
			r.With(authMiddleware.RequirePermission(domain.PermStockView)).Get("/{id}", stockHandler.Get)
			r.With(authMiddleware.RequirePermission(domain.PermStockManage)).Post("/", stockHandler.Create)
		})

		r.Route("/Dashboard", func(r chi.Router) {
			r.With(authMiddleware.RequirePermission(domain.PermDashboardView)).Get("/low-stock", dashboardHandler.LowStock)
		})
	})
}

// ServeHTTP реализует интерфейс http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start запускает HTTP сервер
func (s *Server) Start() error {
	s.logger.Info("Starting API server", map[string]interface{}{
		"port": s.config.HTTP.Port,
	})

	s.httpServer = &http.Server{
		Addr:         ":" + s.config.HTTP.Port,
		Handler:      s.router,
		ReadTimeout:  s.config.HTTP.ReadTimeout,
		WriteTimeout: s.config.HTTP.WriteTimeout,
	}

	return s.httpServer.ListenAndServe()
}

// Shutdown корректно останавливает HTTP сервер
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server")

	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}
