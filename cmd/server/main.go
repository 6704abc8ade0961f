package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rfortes/gym-studio/internal/api"
	"rfortes/gym-studio/internal/config"
	"rfortes/gym-studio/internal/jobs"
	"rfortes/gym-studio/internal/logger"
	"rfortes/gym-studio/internal/repository/mongo"
	"rfortes/gym-studio/internal/service"
	"rfortes/gym-studio/internal/storage"

	"github.com/gin-gonic/gin"
)

// @title Gym Studio API
// @version 1.0
// @description Management backend for a fitness studio: clients, training plans, contracts, nutrition, tracking and finances.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	appLog, err := logger.New(cfg.Logging.Mode)
	if err != nil {
		log.Fatalf("FATAL: Could not initialize logger: %v", err)
	}
	defer appLog.Sync()

	appLog.Info("starting gym studio server", "address", cfg.Server.Address)

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		appLog.Fatal("could not connect to MongoDB", "error", err)
	}
	defer func() {
		if err := mongo.DisconnectDB(dbClient); err != nil {
			appLog.Error("failed to disconnect MongoDB", "error", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	appLog.Info("database connection established", "database", cfg.Database.Name)

	// --- Ensure Indexes ---
	// Index creation runs in the background: the unique indexes back the
	// service-level uniqueness checks, so a failure here is logged loudly.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		if err := mongo.EnsureClientIndexes(ctx, appDB.Collection("clients")); err != nil {
			appLog.Error("index creation failed", "collection", "clients", "error", err)
		}
		if err := mongo.EnsureTrainingPlanIndexes(ctx, appDB.Collection("training_plans")); err != nil {
			appLog.Error("index creation failed", "collection", "training_plans", "error", err)
		}
		if err := mongo.EnsureContractIndexes(ctx, appDB.Collection("contracts")); err != nil {
			appLog.Error("index creation failed", "collection", "contracts", "error", err)
		}
		if err := mongo.EnsureNutritionIndexes(ctx, appDB.Collection("nutrition_plans")); err != nil {
			appLog.Error("index creation failed", "collection", "nutrition_plans", "error", err)
		}
		if err := mongo.EnsureTrackingIndexes(ctx, appDB.Collection("physical_tracking")); err != nil {
			appLog.Error("index creation failed", "collection", "physical_tracking", "error", err)
		}
		if err := mongo.EnsureFinancialIndexes(ctx, appDB.Collection("financial_records")); err != nil {
			appLog.Error("index creation failed", "collection", "financial_records", "error", err)
		}
		if err := mongo.EnsureStaffIndexes(ctx, appDB.Collection("staff")); err != nil {
			appLog.Error("index creation failed", "collection", "staff", "error", err)
		}
		appLog.Info("index creation process completed")
	}()

	// --- Initialize Storage ---
	fileStorage, err := storage.NewS3Storage(cfg.S3, appLog)
	if err != nil {
		appLog.Fatal("failed to initialize S3 storage", "error", err)
	}

	// --- Initialize Repositories ---
	clientRepo := mongo.NewMongoClientRepository(appDB)
	planRepo := mongo.NewMongoTrainingPlanRepository(appDB)
	contractRepo := mongo.NewMongoContractRepository(appDB)
	nutritionRepo := mongo.NewMongoNutritionRepository(appDB)
	trackingRepo := mongo.NewMongoTrackingRepository(appDB)
	financialRepo := mongo.NewMongoFinancialRepository(appDB)
	staffRepo := mongo.NewMongoStaffRepository(appDB)
	txRunner := mongo.NewTxRunner(dbClient)

	// --- Initialize Services ---
	authService := service.NewAuthService(staffRepo, cfg.JWT.Secret, cfg.JWT.Expiration, appLog)
	clientService := service.NewClientService(clientRepo, contractRepo, txRunner, appLog)
	planService := service.NewTrainingPlanService(planRepo, contractRepo, txRunner, appLog)
	contractService := service.NewContractService(contractRepo, clientRepo, planRepo, txRunner, appLog)
	nutritionService := service.NewNutritionPlanService(nutritionRepo, clientRepo, appLog)
	trackingService := service.NewTrackingService(trackingRepo, clientRepo, fileStorage, appLog)
	financeService := service.NewFinanceService(financialRepo, clientRepo, appLog)

	// --- Background Jobs ---
	sweeper := jobs.NewExpirySweeper(contractService, appLog)
	if err := sweeper.Start(); err != nil {
		appLog.Fatal("could not start expiry sweeper", "error", err)
	}
	defer sweeper.Stop()

	// --- HTTP Server ---
	if cfg.Logging.Mode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	handlers := api.NewHandlers(
		authService,
		clientService,
		planService,
		contractService,
		nutritionService,
		trackingService,
		financeService,
	)
	api.SetupRoutes(router, cfg.JWT.Secret, handlers)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal("HTTP server error", "error", err)
		}
	}()
	appLog.Info("server listening", "address", cfg.Server.Address)

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		appLog.Fatal("server forced to shutdown", "error", err)
	}

	appLog.Info("server exiting")
}
