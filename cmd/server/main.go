package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/fiado/backend/internal/application/billing"
	financeapp "github.com/fiado/backend/internal/application/finance"
	identityapp "github.com/fiado/backend/internal/application/identity"
	orderingapp "github.com/fiado/backend/internal/application/ordering"
	"github.com/fiado/backend/internal/domain/billing"
	"github.com/fiado/backend/internal/infrastructure/auth"
	"github.com/fiado/backend/internal/infrastructure/config"
	"github.com/fiado/backend/internal/infrastructure/logger"
	"github.com/fiado/backend/internal/infrastructure/messaging"
	"github.com/fiado/backend/internal/infrastructure/payment"
	"github.com/fiado/backend/internal/infrastructure/persistence"
	"github.com/fiado/backend/internal/infrastructure/scheduler"
	"github.com/fiado/backend/internal/interfaces/http/handler"
	"github.com/fiado/backend/internal/interfaces/http/middleware"
	"github.com/fiado/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

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

	log.Info("Starting fiado backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection with zap-backed GORM logging
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	stockRepo := persistence.NewGormStockRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	// Interest calculation is shared by every read path and the reminder job
	calc := billing.NewInterestCalculator(decimal.NewFromFloat(cfg.Billing.DailyInterestRate))

	// Identity services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, log)

	// Ordering services
	clientService := orderingapp.NewClientService(clientRepo)
	productService := orderingapp.NewProductService(productRepo, stockRepo)
	stockService := orderingapp.NewStockService(stockRepo, productRepo)
	orderService := orderingapp.NewOrderService(orderRepo, clientRepo, productRepo, calc)

	// WhatsApp dispatch: Twilio when credentials are configured, otherwise
	// reminders are logged instead of sent
	var dispatcher billingapp.MessageDispatcher
	if cfg.WhatsApp.Enabled {
		dispatcher = messaging.NewTwilioDispatcher(cfg.WhatsApp)
		log.Info("WhatsApp dispatch enabled", zap.String("from", cfg.WhatsApp.FromNumber))
	} else {
		dispatcher = messaging.NewLogDispatcher(log)
		log.Info("WhatsApp dispatch disabled, reminders will be logged only")
	}

	// Pix payment gateway: optional, storefront orders work without it
	var gateway orderingapp.PaymentGateway
	if cfg.Asaas.Enabled {
		gateway = payment.NewAsaasClient(cfg.Asaas)
		log.Info("Asaas payment gateway enabled", zap.String("base_url", cfg.Asaas.BaseURL))
		if cfg.Asaas.WebhookToken == "" {
			log.Warn("asaas.webhook_token is empty: the payment webhook accepts unauthenticated events")
		}
	}

	storefrontService := orderingapp.NewStorefrontService(userRepo, clientRepo, productRepo, orderRepo, gateway, log)

	// Billing services
	reminderService := billingapp.NewReminderService(orderRepo, dispatcher, calc, log)
	collectionService := billingapp.NewCollectionService(orderRepo, calc, log)
	webhookService := billingapp.NewWebhookService(orderRepo, log)
	financeService := financeapp.NewFinanceService(orderRepo)

	// Background reminder job
	var reminderScheduler *scheduler.ReminderScheduler
	if cfg.Billing.RemindersEnabled {
		reminderScheduler = scheduler.NewReminderScheduler(reminderService, cfg.Billing.CheckInterval, log)
		if err := reminderScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start reminder scheduler", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := reminderScheduler.Stop(ctx); err != nil {
				log.Error("Error stopping reminder scheduler", zap.Error(err))
			}
		}()
		log.Info("Reminder scheduler started", zap.Duration("interval", cfg.Billing.CheckInterval))
	}

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	clientHandler := handler.NewClientHandler(clientService)
	productHandler := handler.NewProductHandler(productService)
	stockHandler := handler.NewStockHandler(stockService)
	orderHandler := handler.NewOrderHandler(orderService)
	collectionHandler := handler.NewCollectionHandler(collectionService, reminderScheduler)
	storefrontHandler := handler.NewStorefrontHandler(storefrontService)
	financeHandler := handler.NewFinanceHandler(financeService)
	webhookHandler := handler.NewWebhookHandler(webhookService, cfg.Asaas.WebhookToken, log)

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

	// Middleware stack, outermost first
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(1 << 20))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Payment provider webhook: called directly by Asaas, guarded by the
	// shared token inside the handler rather than by JWT
	engine.POST("/api/v1/payments/webhook/asaas", webhookHandler.HandleAsaasEvent)

	// Versioned API routes behind JWT, with the public surface skipped
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/auth/register",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
		},
		SkipPathPrefixes: []string{
			"/api/v1/store",
		},
		Logger: log,
	}))

	// Identity: registration and token issuance
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.Refresh)

	// Clients (tab holders)
	clientRoutes := router.NewDomainGroup("clients", "/clients")
	clientRoutes.POST("", clientHandler.Create)
	clientRoutes.GET("", clientHandler.List)
	clientRoutes.GET("/:id", clientHandler.GetByID)
	clientRoutes.PUT("/:id", clientHandler.Update)
	clientRoutes.DELETE("/:id", clientHandler.Delete)

	// Products and their stock positions
	productRoutes := router.NewDomainGroup("products", "/products")
	productRoutes.POST("", productHandler.Create)
	productRoutes.GET("", productHandler.List)
	productRoutes.GET("/:id", productHandler.GetByID)
	productRoutes.PUT("/:id", productHandler.Update)
	productRoutes.DELETE("/:id", productHandler.Delete)
	productRoutes.POST("/:id/stock/add", stockHandler.Add)
	productRoutes.POST("/:id/stock/remove", stockHandler.Remove)
	productRoutes.PUT("/:id/stock/minimum", stockHandler.SetMinimum)

	stockRoutes := router.NewDomainGroup("stock", "/stock")
	stockRoutes.GET("", stockHandler.List)

	// Orders on the tab
	orderRoutes := router.NewDomainGroup("orders", "/orders")
	orderRoutes.POST("", orderHandler.Create)
	orderRoutes.GET("", orderHandler.List)
	orderRoutes.GET("/:id", orderHandler.GetByID)

	// Collection screen: open balances, manual settlement, rescheduling
	collectionRoutes := router.NewDomainGroup("collections", "/collections")
	collectionRoutes.GET("", collectionHandler.ListOpenBalances)
	collectionRoutes.POST("/orders/:id/settle", collectionHandler.Settle)
	collectionRoutes.PUT("/orders/:id/schedule", collectionHandler.Reschedule)
	collectionRoutes.POST("/reminders/run", collectionHandler.RunReminders)
	collectionRoutes.GET("/reminders/status", collectionHandler.ReminderStatus)

	// Finance panel
	financeRoutes := router.NewDomainGroup("finance", "/finance")
	financeRoutes.GET("/summary", financeHandler.GetSummary)

	// Public storefront
	storeRoutes := router.NewDomainGroup("store", "/store")
	storeRoutes.GET("/products", storefrontHandler.ListProducts)
	storeRoutes.POST("/orders", storefrontHandler.PlaceOrder)

	r.Register(authRoutes).
		Register(clientRoutes).
		Register(productRoutes).
		Register(stockRoutes).
		Register(orderRoutes).
		Register(collectionRoutes).
		Register(financeRoutes).
		Register(storeRoutes)

	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
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

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
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
