package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	cartapp "github.com/outsiders/backend/internal/application/cart"
	cashierapp "github.com/outsiders/backend/internal/application/cashier"
	catalogapp "github.com/outsiders/backend/internal/application/catalog"
	identityapp "github.com/outsiders/backend/internal/application/identity"
	inventoryapp "github.com/outsiders/backend/internal/application/inventory"
	reportapp "github.com/outsiders/backend/internal/application/report"
	salesapp "github.com/outsiders/backend/internal/application/sales"
	"github.com/outsiders/backend/internal/domain/identity"
	"github.com/outsiders/backend/internal/domain/shared"
	"github.com/outsiders/backend/internal/infrastructure/auth"
	"github.com/outsiders/backend/internal/infrastructure/cache"
	"github.com/outsiders/backend/internal/infrastructure/config"
	"github.com/outsiders/backend/internal/infrastructure/logger"
	"github.com/outsiders/backend/internal/infrastructure/persistence"
	"github.com/outsiders/backend/internal/infrastructure/storage"
	"github.com/outsiders/backend/internal/infrastructure/telemetry"
	"github.com/outsiders/backend/internal/interfaces/http/handler"
	"github.com/outsiders/backend/internal/interfaces/http/middleware"
	"github.com/outsiders/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

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

	log.Info("Starting retail backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	// Route GORM's log output through zap
	db.DB.Logger = logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	log.Info("Database connected successfully")

	// Distributed tracing and metrics (optional)
	var meterProvider *telemetry.MeterProvider
	if cfg.Telemetry.Enabled {
		tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
			Enabled:           cfg.Telemetry.Enabled,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			SamplingRatio:     cfg.Telemetry.SamplingRatio,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize tracer provider", zap.Error(err))
		}
		defer func() {
			if err := tracerProvider.Shutdown(context.Background()); err != nil {
				log.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()

		if cfg.Telemetry.DBTraceEnabled {
			dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
				Enabled:          true,
				LogFullSQL:       cfg.Telemetry.DBLogFullSQL,
				SlowQueryThresh:  cfg.Telemetry.DBSlowQueryThresh,
				DBSystem:         "postgresql",
				WithoutVariables: !cfg.Telemetry.DBLogFullSQL,
			}, log)
			if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
				log.Warn("Failed to register database tracing", zap.Error(err))
			}
		}
		meterProvider, err = telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
			Enabled:           cfg.Telemetry.Enabled,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize meter provider", zap.Error(err))
		}
		defer func() {
			if err := meterProvider.Shutdown(context.Background()); err != nil {
				log.Error("Error shutting down meter provider", zap.Error(err))
			}
		}()

		log.Info("Telemetry enabled",
			zap.String("collector", cfg.Telemetry.CollectorEndpoint),
			zap.Float64("sampling_ratio", cfg.Telemetry.SamplingRatio),
		)
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	branchRepo := persistence.NewGormBranchRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	dropRepo := persistence.NewGormDropRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	stockRepo := persistence.NewGormStockRepository(db.DB)
	stockMovementRepo := persistence.NewGormStockMovementRepository(db.DB)
	registerRepo := persistence.NewGormCashRegisterRepository(db.DB)
	cashMovementRepo := persistence.NewGormCashMovementRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)

	// Transaction scopes for the multi-write operations
	inventoryScope := persistence.NewGormInventoryTransactionScope(db.DB)
	cashierScope := persistence.NewGormCashierTransactionScope(db.DB)
	salesScope := persistence.NewGormSalesTransactionScope(db.DB)

	// Idempotency store for checkout: Redis when available, otherwise a
	// per-process fallback
	var idempotencyStore shared.IdempotencyStore
	if cfg.Checkout.IdempotencyEnabled {
		redisStore, err := cache.NewRedisIdempotencyStore(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn("Redis unavailable, using in-memory idempotency store", zap.Error(err))
			idempotencyStore = cache.NewInMemoryIdempotencyStore()
		} else {
			idempotencyStore = redisStore
			log.Info("Redis idempotency store connected",
				zap.String("host", cfg.Redis.Host),
				zap.Int("port", cfg.Redis.Port),
			)
		}
	}

	// Object storage for product and drop images. Without credentials the
	// stub backend keeps the catalog usable, image uploads just fail.
	var objectStorage catalogapp.ObjectStorageService
	if cfg.Storage.AccessKey != "" && cfg.Storage.SecretKey != "" {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
		)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		objectStorage = s3Storage
		log.Info("Object storage connected", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		objectStorage = storage.NewStubObjectStorage()
		log.Warn("Object storage not configured, image uploads disabled")
	}

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, log)
	userService := identityapp.NewUserService(userRepo, branchRepo, log)
	branchService := identityapp.NewBranchService(branchRepo, log)
	productService := catalogapp.NewProductService(productRepo, dropRepo, objectStorage, cfg.Storage.PresignExpiration, log)
	dropService := catalogapp.NewDropService(dropRepo, productRepo, log)
	cartService := cartapp.NewService(cartRepo, productRepo, log)
	checkoutService := salesapp.NewCheckoutService(salesScope, idempotencyStore, cfg.Checkout.IdempotencyTTL, log)
	orderService := salesapp.NewOrderService(orderRepo, log)
	saleService := salesapp.NewSaleService(salesScope, saleRepo, idempotencyStore, cfg.Checkout.IdempotencyTTL, log)
	stockService := inventoryapp.NewStockService(inventoryScope, stockRepo, stockMovementRepo, cfg.Inventory.LowStockThreshold, log)
	registerService := cashierapp.NewRegisterService(cashierScope, registerRepo, cashMovementRepo, log)
	reportService := reportapp.NewService(saleRepo, log)

	// HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	branchHandler := handler.NewBranchHandler(branchService)
	productHandler := handler.NewProductHandler(productService)
	dropHandler := handler.NewDropHandler(dropService)
	storeHandler := handler.NewStoreHandler(productService, dropService)
	cartHandler := handler.NewCartHandler(cartService)
	orderHandler := handler.NewOrderHandler(checkoutService, orderService)
	stockHandler := handler.NewStockHandler(stockService)
	cashierHandler := handler.NewCashierHandler(registerService)
	saleHandler := handler.NewSaleHandler(saleService)
	reportHandler := handler.NewReportHandler(reportService)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

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

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
		engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			Enabled:       true,
		}))
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Authentication on all API routes except login, refresh and the
	// public storefront catalog
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/store/drops/live",
		},
		SkipPathPrefixes: []string{
			"/api/v1/store/products",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	adminOnly := middleware.RequireAdmin()
	staffOnly := middleware.RequireRole(string(identity.RoleAdmin), string(identity.RoleSeller))

	// Authentication and session. Login and refresh get their own stricter
	// limiter to slow down credential guessing.
	authRoutes := router.NewDomainGroup("auth", "/auth")
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authRoutes.POST("/login", middleware.AuthRateLimit(authLimiter), authHandler.Login)
		authRoutes.POST("/refresh", middleware.AuthRateLimit(authLimiter), authHandler.Refresh)
	} else {
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/refresh", authHandler.Refresh)
	}
	authRoutes.GET("/me", authHandler.Me)
	authRoutes.PUT("/password", authHandler.ChangePassword)

	// User administration
	userRoutes := router.NewDomainGroup("users", "/users")
	userRoutes.Use(adminOnly)
	userRoutes.POST("", userHandler.Create)
	userRoutes.GET("", userHandler.List)
	userRoutes.GET("/:id", userHandler.Get)
	userRoutes.PUT("/:id", userHandler.Update)
	userRoutes.POST("/:id/reset-password", userHandler.ResetPassword)
	userRoutes.POST("/:id/activate", userHandler.Activate)
	userRoutes.POST("/:id/deactivate", userHandler.Deactivate)

	// Branch administration
	branchRoutes := router.NewDomainGroup("branches", "/branches")
	branchRoutes.Use(adminOnly)
	branchRoutes.POST("", branchHandler.Create)
	branchRoutes.GET("", branchHandler.List)
	branchRoutes.GET("/:id", branchHandler.Get)
	branchRoutes.PUT("/:id", branchHandler.Update)
	branchRoutes.POST("/:id/activate", branchHandler.Activate)
	branchRoutes.POST("/:id/deactivate", branchHandler.Deactivate)

	// Catalog administration (products and drops)
	productRoutes := router.NewDomainGroup("products", "/products")
	productRoutes.Use(adminOnly)
	productRoutes.POST("", productHandler.Create)
	productRoutes.GET("", productHandler.List)
	productRoutes.GET("/:id", productHandler.Get)
	productRoutes.PUT("/:id", productHandler.Update)
	productRoutes.DELETE("/:id", productHandler.Delete)
	productRoutes.PUT("/:id/visibility", productHandler.SetVisibility)
	productRoutes.POST("/:id/variants", productHandler.AddVariant)
	productRoutes.POST("/:id/images/upload-url", productHandler.GenerateImageUploadURL)
	productRoutes.POST("/:id/images/confirm", productHandler.ConfirmImage)

	dropRoutes := router.NewDomainGroup("drops", "/drops")
	dropRoutes.Use(adminOnly)
	dropRoutes.POST("", dropHandler.Create)
	dropRoutes.GET("", dropHandler.List)
	dropRoutes.GET("/:id", dropHandler.Get)
	dropRoutes.PUT("/:id", dropHandler.Update)
	dropRoutes.DELETE("/:id", dropHandler.Delete)
	dropRoutes.POST("/:id/activate", dropHandler.Activate)
	dropRoutes.POST("/:id/deactivate", dropHandler.Deactivate)
	dropRoutes.POST("/:id/finish", dropHandler.Finish)

	// Storefront: public catalog plus the authenticated cart and checkout
	storeRoutes := router.NewDomainGroup("store", "/store")
	storeRoutes.GET("/products", storeHandler.ListProducts)
	storeRoutes.GET("/products/:id", storeHandler.GetProduct)
	storeRoutes.GET("/drops/live", storeHandler.ListLiveDrops)
	storeRoutes.GET("/cart", cartHandler.Get)
	storeRoutes.POST("/cart/items", cartHandler.AddItem)
	storeRoutes.PATCH("/cart/items/:itemId", cartHandler.UpdateItem)
	storeRoutes.DELETE("/cart/items/:itemId", cartHandler.RemoveItem)
	storeRoutes.PUT("/cart/discount", cartHandler.ApplyDiscount)
	storeRoutes.DELETE("/cart", cartHandler.Clear)
	storeRoutes.POST("/checkout", orderHandler.Checkout)
	storeRoutes.GET("/orders", orderHandler.ListMyOrders)
	storeRoutes.GET("/orders/:id", orderHandler.GetMyOrder)

	// Order back office
	orderRoutes := router.NewDomainGroup("orders", "/orders")
	orderRoutes.Use(adminOnly)
	orderRoutes.GET("", orderHandler.List)
	orderRoutes.GET("/:id", orderHandler.Get)
	orderRoutes.PUT("/:id/status", orderHandler.UpdateStatus)

	// Per-branch inventory. Branch-scoped reads are confined to the
	// seller's own branch; admins see everything.
	inventoryRoutes := router.NewDomainGroup("inventory", "/inventory")
	inventoryRoutes.Use(staffOnly)
	inventoryRoutes.GET("/branches/:branchId/stock",
		middleware.RequireBranchScope("branchId"), stockHandler.ListByBranch)
	inventoryRoutes.GET("/branches/:branchId/stock/low",
		middleware.RequireBranchScope("branchId"), stockHandler.ListLowStock)
	inventoryRoutes.GET("/branches/:branchId/movements",
		middleware.RequireBranchScope("branchId"), stockHandler.MovementsByBranch)
	inventoryRoutes.GET("/variants/:variantId/stock", stockHandler.ListByVariant)
	inventoryRoutes.GET("/variants/:variantId/branches/:branchId",
		middleware.RequireBranchScope("branchId"), stockHandler.GetEntry)
	inventoryRoutes.GET("/variants/:variantId/movements", stockHandler.MovementsByVariant)
	inventoryRoutes.POST("/stock/adjust", stockHandler.Adjust)
	inventoryRoutes.POST("/stock/set", stockHandler.SetAbsolute)
	inventoryRoutes.POST("/stock/transfer", adminOnly, stockHandler.Transfer)

	// POS: register sessions and sales
	posRoutes := router.NewDomainGroup("pos", "/pos")
	posRoutes.Use(staffOnly)
	posRoutes.POST("/registers/open", cashierHandler.Open)
	posRoutes.GET("/registers/current", cashierHandler.Current)
	posRoutes.POST("/registers/movements", cashierHandler.PostMovement)
	posRoutes.POST("/registers/close", cashierHandler.Close)
	posRoutes.GET("/registers/history", cashierHandler.History)
	posRoutes.GET("/registers/:id/summary", cashierHandler.Summary)
	posRoutes.GET("/registers/:id/sales", saleHandler.ListByRegister)
	posRoutes.POST("/sales", saleHandler.Finalize)
	posRoutes.GET("/sales", saleHandler.ListByBranch)
	posRoutes.GET("/sales/:id", saleHandler.Get)

	// Sales reporting
	reportRoutes := router.NewDomainGroup("reports", "/reports")
	reportRoutes.Use(adminOnly)
	reportRoutes.GET("/sales/summary", reportHandler.SalesSummary)
	reportRoutes.GET("/sales/daily", reportHandler.DailySummary)
	reportRoutes.GET("/sales/top-products", reportHandler.TopProducts)
	reportRoutes.GET("/sales/payment-breakdown", reportHandler.PaymentBreakdown)

	r.Register(authRoutes).
		Register(userRoutes).
		Register(branchRoutes).
		Register(productRoutes).
		Register(dropRoutes).
		Register(storeRoutes).
		Register(orderRoutes).
		Register(inventoryRoutes).
		Register(posRoutes).
		Register(reportRoutes)

	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports process and database health
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
