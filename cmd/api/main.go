package main

import (
	"fmt"
	"os"

	"granaia/internal/auth"
	"granaia/internal/config"
	"granaia/internal/database"
	"granaia/internal/handlers"
	"granaia/internal/logger"
	"granaia/internal/services"
	"granaia/internal/validator"

	"github.com/gin-gonic/gin"
)

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

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// Register domain validations on the binding engine
	validator.Register()

	// Create database manager
	dbManager, err := database.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	expenseService := services.NewExpenseService(db)
	incomeService := services.NewIncomeService(db)

	tokens := auth.NewTokenMaker(cfg.JWTSecret, cfg.JWTExpirationDur)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, tokens)
	userHandler := handlers.NewUserHandler(userService, cfg)
	expenseHandler := handlers.NewExpenseHandler(expenseService, cfg)
	incomeHandler := handlers.NewIncomeHandler(incomeService, cfg)

	router := handlers.NewRouter(cfg, tokens, userService, authHandler, userHandler, expenseHandler, incomeHandler)

	log.Infof("Starting Granaia backend server on port %s", cfg.Port)
	return router.Run(":" + cfg.Port)
}
