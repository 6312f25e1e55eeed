package main

import (
	"fmt"
	"os"

	"gestaofinanceira/internal/config"
	"gestaofinanceira/internal/database"
	"gestaofinanceira/internal/logger"
	"gestaofinanceira/internal/server"
	"gestaofinanceira/internal/validator"
)

// @title           Gestão Financeira API
// @version         1.0
// @description     Income and expense tracker with a Portuguese command interpreter.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbConfig, err := database.NewConfig(appConfig)
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	router := server.NewRouter(appConfig, server.NewServices(dbManager.DB(), appConfig))

	if appConfig.CommandAPIKey == "" {
		log.Warn("COMMAND_API_KEY is not set; the command webhook is disabled")
	}
	log.Infof("Starting server on port %s (database: %s)", appConfig.Port, dbConfig.Driver)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
