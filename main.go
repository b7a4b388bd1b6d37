// Package main provides the main entry point for the Eduvia campus portal backend
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eduvia/eduvia-api/app/handlers"
	"github.com/eduvia/eduvia-api/app/middleware"
	"github.com/eduvia/eduvia-api/app/router"
	"github.com/eduvia/eduvia-api/app/services"
	businessflow "github.com/eduvia/eduvia-api/business_flow"
	"github.com/eduvia/eduvia-api/config"
	"github.com/eduvia/eduvia-api/repository"
	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
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
	log.Println("Starting Eduvia application...")

	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize application
	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Setup routes
	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers
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

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pooling configuration
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

// initializeCache initializes the Redis client and verifies connectivity
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	rc := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.Password,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisAddr, cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings Redis
// to detect connectivity issues. The returned cancel function stops the monitor.
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

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	// Initialize database
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}
	if rc != nil {
		cancel := startCacheHealthMonitor(context.Background(), rc, 30*time.Second)
		stopFuncs = append(stopFuncs, cancel)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)
	eventRepo := repository.NewEventRepository(db)
	lostFoundRepo := repository.NewLostFoundRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	chatRepo := repository.NewChatRepository(db)

	// Initialize token service
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

	// Initialize identity provider for OAuth sign-in
	identityProvider := services.NewIdentityProvider(cfg.OAuth.GoogleClientID, cfg.OAuth.VerifyTimeout)

	// Initialize assistant model client
	llmService, err := services.NewGeminiService(
		context.Background(),
		cfg.LLM.GeminiAPIKey,
		cfg.LLM.Model,
		cfg.LLM.SystemPrompt,
		cfg.LLM.MaxHistory,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize assistant client: %w", err)
	}

	// Initialize flows
	dispatchFlow := businessflow.NewDispatchFlow(userRepo, notificationRepo)

	authFlow := businessflow.NewAuthFlow(
		userRepo,
		identityProvider,
		tokenService,
		cfg.Admin.SuperAdminEmail,
		cfg.Admin.AdminEmails,
		cfg.JWT.AccessTokenTTL,
		db,
	)

	profileFlow := businessflow.NewProfileFlow(userRepo)

	noteFlow := businessflow.NewNoteFlow(
		noteRepo,
		userRepo,
		dispatchFlow,
		rc,
		cfg.Cache.RedisPrefix,
		cfg.Cache.CatalogTTL,
		db,
	)

	timetableFlow := businessflow.NewTimetableFlow(timetableRepo, dispatchFlow)
	eventFlow := businessflow.NewEventFlow(eventRepo, dispatchFlow)
	lostFoundFlow := businessflow.NewLostFoundFlow(lostFoundRepo, dispatchFlow)
	notificationFlow := businessflow.NewNotificationFlow(notificationRepo)
	chatFlow := businessflow.NewChatFlow(chatRepo, llmService, db)
	adminFlow := businessflow.NewAdminFlow(userRepo, noteRepo, eventRepo, lostFoundRepo, notificationRepo)

	// Initialize handlers
	routerHandlers := router.Handlers{
		Auth:         handlers.NewAuthHandler(authFlow),
		Profile:      handlers.NewProfileHandler(profileFlow),
		Note:         handlers.NewNoteHandler(noteFlow),
		Timetable:    handlers.NewTimetableHandler(timetableFlow),
		Event:        handlers.NewEventHandler(eventFlow),
		LostFound:    handlers.NewLostFoundHandler(lostFoundFlow),
		Notification: handlers.NewNotificationHandler(notificationFlow),
		Chat:         handlers.NewChatHandler(chatFlow),
		Admin:        handlers.NewAdminHandler(adminFlow),
	}

	// Initialize auth middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Initialize router
	appRouter := router.NewFiberRouter(routerHandlers, authMiddleware, router.Options{
		AllowedOrigins: cfg.Security.AllowedOrigins,
		EnableMetrics:  cfg.Metrics.Enabled,
		MetricsPath:    cfg.Metrics.Path,
	})

	fiberRouter := appRouter.(*router.FiberRouter)
	application := &Application{
		router:    fiberRouter,
		config:    cfg,
		server:    fiberRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}
