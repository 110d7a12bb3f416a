package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"voltkart/internal/config"
	custommiddleware "voltkart/internal/middleware"
	"voltkart/internal/repository"
	"voltkart/internal/service"
	"voltkart/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
	redis  *redis.Client
}

// repositories groups one backend's implementations of every store interface
type repositories struct {
	categories    repository.CategoryRepository
	products      repository.ProductRepository
	services      repository.ServiceRepository
	orders        repository.OrderRepository
	bookings      repository.BookingRepository
	users         repository.UserRepository
	refreshTokens repository.RefreshTokenRepository
}

func newRepositories(cfg *config.Config, db *sql.DB, logger *zap.Logger) repositories {
	if cfg.Store.Backend == "postgres" {
		return repositories{
			categories:    repository.NewCategoryRepository(db),
			products:      repository.NewProductRepository(db),
			services:      repository.NewServiceRepository(db),
			orders:        repository.NewOrderRepository(db),
			bookings:      repository.NewBookingRepository(db),
			users:         repository.NewUserRepository(db),
			refreshTokens: repository.NewRefreshTokenRepository(db),
		}
	}

	store := repository.NewMemoryStore()
	if cfg.Store.Seed {
		if err := store.Seed(context.Background()); err != nil {
			logger.Warn("Failed to seed memory store", zap.Error(err))
		}
	}

	return repositories{
		categories:    store.Categories(),
		products:      store.Products(),
		services:      store.Services(),
		orders:        store.Orders(),
		bookings:      store.Bookings(),
		users:         store.Users(),
		refreshTokens: store.RefreshTokens(),
	}
}

// NewServer wires the storage backend, services and HTTP surface together.
// db may be nil when the memory backend is selected.
func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB) *Server {
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.CORSOrigins, cfg.Server.Env != "production"))

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		router.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: 100,
			Window:            time.Minute,
			KeyPrefix:         "ratelimit",
		}, logger))
	}

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		health := map[string]string{"status": "ok", "backend": cfg.Store.Backend}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(health)
	})

	repos := newRepositories(cfg, db, logger)

	// Initialize services
	userService := service.NewUserService(repos.users, repos.refreshTokens, cfg.JWT.Secret)
	catalogService := service.NewCatalogService(repos.categories, repos.products, repos.services)
	orderService := service.NewOrderService(repos.orders)
	bookingService := service.NewBookingService(repos.bookings)

	// Initialize handlers
	userHandler := transport.NewUserHandler(userService, logger)
	catalogHandler := transport.NewCatalogHandler(catalogService, logger)
	orderHandler := transport.NewOrderHandler(orderService, logger)
	bookingHandler := transport.NewBookingHandler(bookingService, logger)

	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)
	adminMiddleware := custommiddleware.RequireAdmin(logger)

	// Register routes
	userHandler.RegisterRoutes(router, authMiddleware)
	catalogHandler.RegisterRoutes(router, authMiddleware, adminMiddleware)
	orderHandler.RegisterRoutes(router, authMiddleware, adminMiddleware)
	bookingHandler.RegisterRoutes(router, authMiddleware, adminMiddleware)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
