// Package main provides the main entry point for the CoPromote warranty-sales platform
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/copromote/henry-help/app/handlers"
	"github.com/copromote/henry-help/app/middleware"
	"github.com/copromote/henry-help/app/router"
	"github.com/copromote/henry-help/app/services"
	businessflow "github.com/copromote/henry-help/business_flow"
	"github.com/copromote/henry-help/config"
	"github.com/copromote/henry-help/models"
	"github.com/copromote/henry-help/repository"
	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting CoPromote application...")

	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg.Logging)

	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	app.router.SetupRoutes()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers and flush pending autosaves
	for _, fn := range app.stopFuncs {
		fn()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// setupLogging routes the process log to stdout, a size-rotated file, or
// both, per LOG_OUTPUT.
func setupLogging(cfg config.LoggingConfig) {
	if cfg.Output != "file" && cfg.Output != "both" {
		return
	}

	rotated := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}

	if cfg.Output == "both" {
		log.SetOutput(io.MultiWriter(os.Stdout, rotated))
		return
	}
	log.SetOutput(rotated)
}

func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// migrateSchema keeps the schema in sync with the model set
func migrateSchema(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Seller{},
		&models.SellerSession{},
		&models.ProgramProfile{},
		&models.Campaign{},
		&models.Product{},
		&models.Bundle{},
		&models.BundleItem{},
		&models.Prospect{},
		&models.CallRecord{},
		&models.AuditLog{},
	)
}

// initializeCache initializes the Redis client and verifies connectivity
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisURL, cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings
// Redis to detect connectivity issues. The returned cancel function stops it.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// initializeVoiceService picks the provider client based on configuration
func initializeVoiceService(cfg *config.ProductionConfig) services.VoiceService {
	if cfg.Voice.BaseURL == "mock" {
		log.Println("Voice service running in mock mode")
		return services.NewMockVoiceService()
	}
	return services.NewVoiceService(cfg.Voice)
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := migrateSchema(db); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}
	if rc != nil {
		cancel := startCacheHealthMonitor(context.Background(), rc, cfg.Cache.HealthCheckInterval)
		stopFuncs = append(stopFuncs, cancel)
	}

	// Repositories
	sellerRepo := repository.NewSellerRepository(db)
	sessionRepo := repository.NewSellerSessionRepository(db)
	profileRepo := repository.NewProgramProfileRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	productRepo := repository.NewProductRepository(db)
	bundleRepo := repository.NewBundleRepository(db)
	prospectRepo := repository.NewProspectRepository(db)
	callRepo := repository.NewCallRecordRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// Services
	voiceService := initializeVoiceService(cfg)
	imageService := services.NewImageService(cfg.Image)
	stopFuncs = append(stopFuncs, imageService.Stop)

	tokenService, err := services.NewTokenService(
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		cfg.JWT.UseRSAKeys,
		cfg.JWT.PrivateKey,
		cfg.JWT.PublicKey,
		cfg.JWT.SecretKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}
	log.Printf("Token service initialized with issuer: %s, audience: %s", cfg.JWT.Issuer, cfg.JWT.Audience)

	// Flows
	authFlow := businessflow.NewAuthFlow(
		sellerRepo,
		sessionRepo,
		auditRepo,
		tokenService,
		db,
	)

	discoveryFlow := businessflow.NewDiscoveryFlow(
		profileRepo,
		sellerRepo,
		auditRepo,
		db,
	)

	campaignFlow := businessflow.NewCampaignFlow(
		campaignRepo,
		sellerRepo,
		profileRepo,
		auditRepo,
		db,
		rc,
	)
	stopFuncs = append(stopFuncs, campaignFlow.Shutdown)

	callFlow := businessflow.NewCallFlow(
		campaignRepo,
		prospectRepo,
		profileRepo,
		callRepo,
		sellerRepo,
		auditRepo,
		voiceService,
		db,
	)

	notificationService := services.NewNotificationService(services.NewLogEmailProvider())

	webhookFlow := businessflow.NewWebhookFlow(
		callRepo,
		sellerRepo,
		auditRepo,
		notificationService,
		db,
	)

	catalogFlow := businessflow.NewCatalogFlow(
		productRepo,
		sellerRepo,
		auditRepo,
		func(platform string) (services.CatalogService, error) {
			return services.NewCatalogService(platform, cfg.Catalog)
		},
	)

	bundleFlow := businessflow.NewBundleFlow(
		bundleRepo,
		productRepo,
		sellerRepo,
		auditRepo,
		imageService,
		db,
	)

	// Handlers
	h := router.Handlers{
		Auth:      handlers.NewAuthHandler(authFlow),
		Discovery: handlers.NewDiscoveryHandler(discoveryFlow),
		Campaign:  handlers.NewCampaignHandler(campaignFlow),
		Call:      handlers.NewCallHandler(callFlow),
		Webhook:   handlers.NewWebhookHandler(webhookFlow, cfg.Security.WebhookSigningSecret),
		Catalog:   handlers.NewCatalogHandler(catalogFlow),
		Bundle:    handlers.NewBundleHandler(bundleFlow),
	}

	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	appRouter := router.NewFiberRouter(cfg, h, authMiddleware)

	fiberRouter := appRouter.(*router.FiberRouter)
	application := &Application{
		router:    fiberRouter,
		config:    cfg,
		server:    fiberRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}
