package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appauth "github.com/bakehouse/backend/internal/application/auth"
	"github.com/bakehouse/backend/internal/application/masterdata"
	"github.com/bakehouse/backend/internal/application/posting"
	"github.com/bakehouse/backend/internal/application/report"
	"github.com/bakehouse/backend/internal/infrastructure/auth"
	"github.com/bakehouse/backend/internal/infrastructure/config"
	"github.com/bakehouse/backend/internal/infrastructure/logger"
	"github.com/bakehouse/backend/internal/infrastructure/persistence"
	"github.com/bakehouse/backend/internal/interfaces/http/handler"
	"github.com/bakehouse/backend/internal/interfaces/http/middleware"
	"github.com/bakehouse/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting bakehouse backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Token blacklist: Redis when reachable, otherwise in-memory
	var blacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, falling back to in-memory token blacklist", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		blacklist = redisBlacklist
		log.Info("Redis token blacklist connected")
	}

	// Auth infrastructure
	jwtService := auth.NewJWTService(cfg.JWT)
	tokenIssuer := auth.NewTokenIssuer(jwtService, blacklist)
	hasher := auth.NewBcryptHasher(0)

	// All services post through one transaction scope
	scope := persistence.NewGormTransactionScope(db.DB)

	// Application services
	authService := appauth.NewService(scope, tokenIssuer, hasher, log)
	branchService := masterdata.NewBranchService(scope, log)
	seriesService := masterdata.NewSeriesService(scope, log)
	catalogService := masterdata.NewCatalogService(scope, log)
	customerService := masterdata.NewCustomerService(scope, log)
	userService := masterdata.NewUserService(scope, hasher, log)
	sapService := masterdata.NewSapMirrorService(scope, log)
	transferService := posting.NewTransferService(scope, log)
	receivingService := posting.NewReceivingService(scope, log)
	salesService := posting.NewSalesService(scope, log)
	paymentService := posting.NewPaymentService(scope, log)
	adjustmentService := posting.NewAdjustmentService(scope, log)
	countService := posting.NewCountService(scope, log)
	pullOutService := posting.NewPullOutService(scope, log)
	reportService := report.NewService(scope, log)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// JWT guards everything under /api/v1 except login, refresh and health
	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = blacklist
	jwtConfig.Logger = log
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	systemHandler := handler.NewSystemHandler(db, version)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(systemHandler).
		Register(handler.NewAuthHandler(authService)).
		Register(handler.NewBranchHandler(branchService)).
		Register(handler.NewSeriesHandler(seriesService)).
		Register(handler.NewCatalogHandler(catalogService)).
		Register(handler.NewCustomerHandler(customerService)).
		Register(handler.NewUserHandler(userService)).
		Register(handler.NewSapHandler(sapService)).
		Register(handler.NewTransferHandler(transferService)).
		Register(handler.NewReceivingHandler(receivingService)).
		Register(handler.NewSalesHandler(salesService)).
		Register(handler.NewPaymentHandler(paymentService)).
		Register(handler.NewAdjustmentHandler(adjustmentService)).
		Register(handler.NewCountHandler(countService)).
		Register(handler.NewPullOutHandler(pullOutService)).
		Register(handler.NewReportHandler(reportService))
	r.Setup()

	// Liveness probe outside API versioning
	engine.GET("/health", systemHandler.Health)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited")
}
