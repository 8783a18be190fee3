package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ADCairex/dashboard-app/internal/handler"
	"github.com/ADCairex/dashboard-app/internal/repositories"
	"github.com/ADCairex/dashboard-app/internal/router"
	"github.com/ADCairex/dashboard-app/internal/service"
	"github.com/ADCairex/dashboard-app/internal/session"
	"github.com/ADCairex/dashboard-app/pkg/database"
	"github.com/ADCairex/dashboard-app/pkg/envconfig"
	"github.com/ADCairex/dashboard-app/pkg/flags"
	"github.com/ADCairex/dashboard-app/pkg/logger"
	"github.com/ADCairex/dashboard-app/pkg/shutdownsetup"
)

func main() {
	// Parse command-line flags
	flagConfig := flags.Parse()

	// Validate flag configuration
	if err := flagConfig.Validate(); err != nil {
		fmt.Printf("Configuration error: %v\n", err)
		return
	}

	envErr := envconfig.LoadEnvFile(".env")

	cfg, err := envconfig.Load()
	if err != nil {
		fmt.Printf("Configuration error: %v\n", err)
		return
	}

	appLogger := logger.New(cfg.LoggerConfig())

	if envErr != nil {
		appLogger.Warn("Failed to load .env file", "error", envErr)
	} else {
		appLogger.Debug(".env file loaded successfully")
	}

	appLogger.Info("Starting dashboard application",
		"environment", cfg.Log.Environment,
		"log_level", cfg.Log.Level)

	if cfg.Auth.AdminPassword == "" {
		appLogger.Warn("ADMIN_PASSWORD is not set; logins will be rejected until it is configured")
	}

	// Establish database connection
	db, err := database.NewConnection(cfg.DatabaseConfig(), appLogger)
	if err != nil {
		appLogger.Fatal("Failed to establish database connection", "error", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("Failed to close database connection", "error", err)
		}
	}()

	if err := db.HealthCheck(); err != nil {
		appLogger.Error("Database health check failed", "error", err)
	} else {
		appLogger.Info("Database health check passed")
	}

	if flagConfig.SkipMigrate {
		appLogger.Info("Skipping database migrations")
	} else if err := db.RunMigrations(cfg.Server.MigrationsDir); err != nil {
		appLogger.Fatal("Failed to run database migrations", "error", err)
	}

	// Initialize repositories with logger and database connection
	orderRepo := repositories.NewOrderRepository(appLogger, db)
	productRepo := repositories.NewProductRepository(appLogger, db)
	metricsRepo := repositories.NewMetricsRepository(appLogger, db)

	// Initialize services with logger
	sessions := session.NewStore(cfg.Auth.SessionTTL)
	orderService := service.NewOrderService(orderRepo, appLogger)
	productService := service.NewProductService(productRepo, appLogger)
	metricsService := service.NewMetricsService(metricsRepo, appLogger)
	authService := service.NewAuthService(cfg.Auth.AdminUser, cfg.Auth.AdminPassword, sessions, appLogger)

	// Initialize handlers with logger
	orderHandler := handler.NewOrderHandler(orderService, appLogger)
	productHandler := handler.NewProductHandler(productService, appLogger)
	metricsHandler := handler.NewMetricsHandler(metricsService, appLogger)
	authHandler := handler.NewAuthHandler(authService, appLogger)
	healthHandler := handler.NewHealthHandler(db, appLogger)

	mux := router.NewRouter(orderHandler, productHandler, metricsHandler, authHandler, healthHandler)

	httpHandler := appLogger.HTTPMiddleware(mux)

	initialPort := flagConfig.Port
	if initialPort == "" {
		initialPort = cfg.Server.Port
	}
	host := cfg.Server.Host

	port := initialPort

	server := &http.Server{
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		server.Addr = host + ":" + port

		go func() {
			appLogger.Info("Starting HTTP server",
				"host", host,
				"port", port,
				"address", server.Addr)

			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				appLogger.Error("Server error", "error", err)
				serverErrors <- err
			}
		}()

		select {
		case err := <-serverErrors:
			if strings.Contains(err.Error(), "address already in use") && i < maxRetries-1 {
				portNum := 8080 + i + 1
				port = fmt.Sprintf("%d", portNum)
				appLogger.Warn("Port already in use, trying alternative port",
					"current_port", server.Addr,
					"next_port", port)
				continue
			} else {
				appLogger.Error("Failed to start server after retries", "error", err)
				return
			}
		case <-time.After(200 * time.Millisecond):
			appLogger.Info("Server started successfully", "port", port)
		}

		break
	}

	select {
	case err := <-serverErrors:
		appLogger.Error("Could not start server", "error", err)
		return
	default:
		shutdownsetup.SetupGracefulShutdown(server, appLogger)
	}
}
