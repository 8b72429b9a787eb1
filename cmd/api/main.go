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

	"github.com/ArowuTest/toolsau-entries-backend/api/routes"
	"github.com/ArowuTest/toolsau-entries-backend/internal/config"
	"github.com/ArowuTest/toolsau-entries-backend/internal/handlers"
	"github.com/ArowuTest/toolsau-entries-backend/internal/models"
	mongorepo "github.com/ArowuTest/toolsau-entries-backend/internal/repositories/mongodb"
	"github.com/ArowuTest/toolsau-entries-backend/internal/services"
	"github.com/ArowuTest/toolsau-entries-backend/pkg/logger"
	"github.com/ArowuTest/toolsau-entries-backend/pkg/mongodb"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	lg, err := logger.Init(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	if cfg.JWT.Secret == "" {
		lg.Fatal("JWT secret is not configured")
	}
	if !cfg.LogDev {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	client, err := mongodb.NewClient(ctx, cfg.MongoDB.URI)
	cancel()
	if err != nil {
		lg.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			lg.Error("Error disconnecting from MongoDB", zap.Error(err))
		}
	}()

	db := client.Database(cfg.MongoDB.Database)
	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	err = mongodb.EnsureIndexes(ctx, db)
	cancel()
	if err != nil {
		lg.Fatal("Failed to create indexes", zap.Error(err))
	}

	// Repositories
	userRepo := mongorepo.NewUserRepository(db)
	majorDrawRepo := mongorepo.NewMajorDrawRepository(db)
	miniDrawRepo := mongorepo.NewMiniDrawRepository(db)
	eventRepo := mongorepo.NewPaymentEventRepository(db)
	orderRepo := mongorepo.NewOrderRepository(db)
	referralRepo := mongorepo.NewReferralEventRepository(db)
	settingsRepo := mongorepo.NewSystemSettingsRepository(db, models.SystemSettings{
		RewardsEnabled:       cfg.Features.RewardsEnabled,
		RewardsPausedMessage: cfg.Features.RewardsPausedMessage,
	})
	uow := mongodb.NewUnitOfWork(client.Mongo())

	// Services
	settingsService := services.NewSystemSettingsService(settingsRepo)
	statsService := services.NewStatisticsService(userRepo, majorDrawRepo, miniDrawRepo, eventRepo, orderRepo, referralRepo)
	syncer := services.NewParticipationSynchronizer(majorDrawRepo, miniDrawRepo)
	adminUserService := services.NewAdminUserService(uow, userRepo, syncer, statsService, settingsService)
	benefitsService := services.NewBenefitsService(uow, userRepo, majorDrawRepo, miniDrawRepo, eventRepo, referralRepo, settingsService)
	miniDrawService := services.NewMiniDrawService(miniDrawRepo)

	router := routes.SetupRouter(cfg, routes.HandlerDependencies{
		AdminUserHandler:      handlers.NewAdminUserHandler(adminUserService),
		BenefitsHandler:       handlers.NewBenefitsHandler(benefitsService),
		MiniDrawHandler:       handlers.NewMiniDrawHandler(miniDrawService),
		SystemSettingsHandler: handlers.NewSystemSettingsHandler(settingsService),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		lg.Info("Server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	lg.Info("Shutting down server...")

	ctx, cancel = context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		lg.Error("Server forced to shutdown", zap.Error(err))
	}
	lg.Info("Server exiting")
}
