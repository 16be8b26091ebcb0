package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/application"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/cache"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/config"
	rentalEvents "github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/events"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/handler"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/auth"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/database"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/health"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/kafka"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/logger"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/middleware"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/repository"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/migrations"
)

const serviceName = "rental-service"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting "+serviceName,
		zap.String("port", cfg.Port),
		zap.String("env", cfg.AppEnv),
	)

	// Connect to database
	dbConfig := cfg.Postgres()
	db, err := database.Connect(dbConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.IsDevelopment() {
		if err := db.AutoMigrate(repository.AllModels()...); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(dbConfig.DatabaseURL(), migrations.FS, log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	jwtManager := auth.NewJWTManager(cfg.JWTConfig.Secret, cfg.JWTConfig.AccessTTL)

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Flat listing cache; the service runs uncached when Redis is down.
	var flatCache application.FlatCache = application.NoopFlatCache{}
	if cfg.CacheEnabled {
		redisClient := cache.NewClient(cfg.RedisConfig)
		defer func() { _ = redisClient.Close() }()

		pingCtx, pingCancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("redis unavailable, flat cache disabled", zap.Error(err))
		} else {
			flatCache = cache.NewRedisFlatCache(redisClient, cfg.RedisConfig.TTL, log.Named("cache"))
		}
		pingCancel()
	}

	// Initialize repositories
	userRepo := repository.NewGormUserRepository(db)
	towerRepo := repository.NewGormTowerRepository(db)
	amenityRepo := repository.NewGormAmenityRepository(db)
	flatRepo := repository.NewGormFlatRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)
	leaseRepo := repository.NewGormLeaseRepository(db)
	unitOfWork := repository.NewGormUnitOfWork(db)

	// Initialize application services
	bookingService := application.NewBookingService(
		unitOfWork,
		bookingRepo,
		flatRepo,
		leaseRepo,
		kafkaProducer,
		flatCache,
		log,
	)
	authService := application.NewAuthService(userRepo, jwtManager, log)
	towerService := application.NewTowerService(towerRepo, flatRepo, amenityRepo, log)
	flatService := application.NewFlatService(flatRepo, towerRepo, bookingRepo, flatCache, log)
	amenityService := application.NewAmenityService(amenityRepo, log)
	tenantService := application.NewTenantService(userRepo, leaseRepo, bookingRepo, flatRepo, log)
	reportService := application.NewReportService(towerRepo, flatRepo, bookingRepo, leaseRepo, log)

	// Start the lease-ended consumer in a goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	groupID := cfg.KafkaConfig.GroupPrefix + serviceName
	leaseConsumer := rentalEvents.NewLeaseEndedConsumer(
		cfg.KafkaConfig.Brokers,
		groupID,
		bookingService,
		log,
	)
	defer func() { _ = leaseConsumer.Close() }()

	go func() {
		log.Info("starting lease ended consumer")
		if err := leaseConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("lease ended consumer error", zap.Error(err))
		}
	}()

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(db, serviceName)
	healthHandler.RegisterRoutes(router)

	// Register routes
	handler.NewAuthHandler(authService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewCatalogHandler(towerService, flatService, amenityService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewBookingHandler(bookingService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewAdminHandler(bookingService, tenantService, reportService).RegisterRoutes(&router.RouterGroup, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down " + serviceName)

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info(serviceName + " stopped")
}
