package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/harjunatn/fun-soccer/config"
	"github.com/harjunatn/fun-soccer/handlers"
	"github.com/harjunatn/fun-soccer/logger"
	"github.com/harjunatn/fun-soccer/middleware"
	"github.com/harjunatn/fun-soccer/routes"
	"github.com/harjunatn/fun-soccer/services"
	"github.com/harjunatn/fun-soccer/store"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if err := logger.Init(cfg.LogLevel, cfg.LogEncoding); err != nil {
		logger.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatalf("Failed to initialize %s store: %v", cfg.StoreBackend, err)
	}

	// Initialize services
	authService := services.NewAuthService(cfg.JWTSecret, cfg.AdminEmail, cfg.AdminPasswordHash)
	gameService := services.NewGameService(st)
	registrationService := services.NewRegistrationService(st)
	matchService := services.NewMatchService(st, cfg.StrictScores)

	// Initialize WebSocket hub
	hub := services.NewHub()
	go hub.Run(ctx)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	gameHandler := handlers.NewGameHandler(gameService, hub)
	registrationHandler := handlers.NewRegistrationHandler(registrationService, hub)
	matchHandler := handlers.NewMatchHandler(matchService, hub)

	// Setup Gin router
	router := gin.Default()
	router.Use(middleware.CORS(cfg.CORSOrigins))

	routes.SetupRoutes(router, authHandler, gameHandler, registrationHandler, matchHandler, authService, hub, st)

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.BindAddress, cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Server starting on %s (store: %s)", srv.Addr, cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	var st store.Store

	switch cfg.StoreBackend {
	case config.BackendPostgres, config.BackendMySQL:
		db, err := config.InitDB(cfg)
		if err != nil {
			return nil, err
		}
		sqlStore := store.NewSQLStore(db)
		if err := sqlStore.AutoMigrate(); err != nil {
			return nil, err
		}
		st = sqlStore
	case config.BackendRedis:
		st = store.NewRedisStore(config.InitRedis(cfg))
	case config.BackendMemory:
		logger.Warnf("Using in-memory store, data is lost on restart")
		st = store.NewMemoryStore()
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := st.Ping(pingCtx); err != nil {
		return nil, err
	}
	return st, nil
}
