// internal/router/router.go
package router

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/javajoker/vms-backend/internal/config"
	"github.com/javajoker/vms-backend/internal/handlers"
	"github.com/javajoker/vms-backend/internal/i18n"
	"github.com/javajoker/vms-backend/internal/metrics"
	"github.com/javajoker/vms-backend/internal/middleware"
	"github.com/javajoker/vms-backend/internal/services"
	"github.com/javajoker/vms-backend/internal/utils"
)

// Initialize builds the engine. The returned function releases background
// resources and is called on shutdown.
func Initialize(db *gorm.DB, cfg *config.Config) (*gin.Engine, func(), error) {
	if err := i18n.Initialize(); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize i18n: %w", err)
	}
	metrics.Register()

	// Initialize services
	cache := services.NewPerformanceCache(cfg)
	engine := services.NewPerformanceService(cfg)
	dispatcher := services.NewDispatcher(engine,
		services.CacheInvalidationListener(cache),
		services.MetricsListener(),
		services.LogListener(),
	)
	numbers := services.NewPONumberGenerator(cfg)

	authService := services.NewAuthService(db, cfg)
	vendorService := services.NewVendorService(db, cache)
	poService := services.NewPurchaseOrderService(db, cfg, dispatcher, numbers)
	reportService, err := services.NewReportService(cfg, vendorService)
	if err != nil {
		return nil, nil, err
	}

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	authHandler := handlers.NewAuthHandler(authService)
	vendorHandler := handlers.NewVendorHandler(vendorService, reportService)
	poHandler := handlers.NewPurchaseOrderHandler(poService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	generalLimiter := middleware.NewGeneralRateLimiter(cfg.RateLimit)
	authLimiter := middleware.NewAuthRateLimiter(cfg.RateLimit)
	cleanup := func() {
		generalLimiter.Stop()
		authLimiter.Stop()
	}

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(metrics.Middleware())
	r.Use(middleware.CORS())
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))
	r.Use(generalLimiter.Middleware())

	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth/api")
		auth.Use(authLimiter.Middleware())
		{
			auth.POST("/signin/", authHandler.SignIn)
			auth.POST("/refresh/", authHandler.Refresh)
		}

		api := v1.Group("/api")
		api.Use(middleware.AuthRequired())
		{
			vendors := api.Group("/vendors")
			{
				vendors.GET("/", vendorHandler.ListVendors)
				vendors.POST("/", vendorHandler.CreateVendor)
				vendors.GET("/:vendor_id", vendorHandler.GetVendor)
				vendors.PUT("/:vendor_id", vendorHandler.UpdateVendor)
				vendors.DELETE("/:vendor_id", vendorHandler.DeleteVendor)
				vendors.GET("/:vendor_id/performance", vendorHandler.GetPerformance)
				vendors.POST("/:vendor_id/performance/export", vendorHandler.ExportPerformance)
				vendors.GET("/:vendor_id/history", vendorHandler.GetHistory)
			}

			orders := api.Group("/purchase_orders")
			{
				orders.GET("/", poHandler.ListPurchaseOrders)
				orders.POST("/", poHandler.CreatePurchaseOrder)
				orders.GET("/:po_id", poHandler.GetPurchaseOrder)
				orders.PUT("/:po_id", poHandler.UpdatePurchaseOrder)
				orders.DELETE("/:po_id", poHandler.DeletePurchaseOrder)
				orders.POST("/:po_id/status", poHandler.UpdateStatus)
				orders.POST("/:po_id/rating", poHandler.UpdateRating)
				orders.POST("/:po_id/acknowledge", poHandler.Acknowledge)
			}
		}
	}

	return r, cleanup, nil
}
