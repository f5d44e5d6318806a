package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/lingvoapp/lingvo-backend/internal/config"
	"github.com/lingvoapp/lingvo-backend/internal/infrastructure/database"
	httpServer "github.com/lingvoapp/lingvo-backend/internal/infrastructure/http"
	"github.com/lingvoapp/lingvo-backend/internal/infrastructure/provider/yookassa"
	"github.com/lingvoapp/lingvo-backend/internal/usecase"
	"github.com/lingvoapp/lingvo-backend/pkg/logger"
	"github.com/lingvoapp/lingvo-backend/pkg/messaging"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewZapLogger(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Development: cfg.Service.Environment != "production",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, zapLogger); err != nil {
			zapLogger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	// Run database migrations
	if err := database.Migrate(db, zapLogger); err != nil {
		zapLogger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize repositories
	repos := database.NewRepositories(db, zapLogger)

	// Initialize event publisher
	redisClient, err := messaging.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		zapLogger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			zapLogger.Error("Failed to close redis connection", zap.Error(err))
		}
	}()

	// Initialize payment provider
	paymentProvider := yookassa.NewClient(
		cfg.Service.YooKassa.ShopID,
		cfg.Service.YooKassa.SecretKey,
		cfg.Service.YooKassa.WebhookSecret,
		zapLogger,
	)
	if !paymentProvider.Configured() {
		zapLogger.Warn("Payment provider credentials missing, checkout disabled")
	}

	// Initialize use cases
	settingsCache := usecase.NewSettingsCache(usecase.SettingsCacheTTL, nil)
	pricingSvc := usecase.NewPricingService(repos.Pricing, settingsCache, zapLogger)
	entitlementSvc := usecase.NewEntitlementService(zapLogger)
	webhookProcessor := usecase.NewWebhookProcessor(repos.UnitOfWork, entitlementSvc, redisClient, zapLogger, nil)
	checkoutSvc := usecase.NewCheckoutService(
		paymentProvider,
		pricingSvc,
		repos.Payment,
		repos.User,
		repos.Progress,
		repos.Entitlement,
		cfg.Service.YooKassa.ReturnURL,
		zapLogger,
		nil,
	)
	paywallSvc := usecase.NewPaywallService(pricingSvc, repos.User, repos.Progress, repos.Entitlement, zapLogger, nil)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize HTTP server
	httpSrv := httpServer.NewServer(cfg, zapLogger, &httpServer.Services{
		Checkout:        checkoutSvc,
		Paywall:         paywallSvc,
		Webhooks:        webhookProcessor,
		PaymentProvider: paymentProvider,
	})

	go func() {
		if err := httpSrv.Start(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zapLogger.Info("Shutting down server...")

	if err := httpSrv.Shutdown(ctx); err != nil {
		zapLogger.Error("Failed to shutdown HTTP server", zap.Error(err))
	}

	zapLogger.Info("Server shut down successfully")
}
