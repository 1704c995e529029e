package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/api/handlers"
	"github.com/jafarshop/storefront/internal/api/middleware"
	"github.com/jafarshop/storefront/internal/config"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, svc *handlers.Services, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := router.Group("/v1")
	{
		v1.POST("/sessions", handlers.HandleCreateSession(svc, logger))
		v1.POST("/auth/code", handlers.HandleRequestCode(svc, logger))

		// Catalog is public
		v1.GET("/categories", handlers.HandleListCategories(svc, logger))
		v1.GET("/products", handlers.HandleListProducts(svc, logger))
		v1.GET("/products/:slug", handlers.HandleGetProduct(svc, logger))
		v1.POST("/products/:slug/resolve", handlers.HandleResolveVariety(svc, logger))
		v1.GET("/products/:slug/comments", handlers.HandleListComments(svc, logger))

		// Session routes (require X-Session-ID)
		sessionRoutes := v1.Group("")
		sessionRoutes.Use(middleware.SessionMiddleware(svc.Sessions, logger))
		{
			sessionRoutes.DELETE("/sessions", handlers.HandleDestroySession(svc, logger))
			sessionRoutes.POST("/auth/verify", handlers.HandleVerifyCode(svc, logger))
			sessionRoutes.GET("/me", handlers.HandleGetMe(svc, logger))
			sessionRoutes.PUT("/products/:slug/comments", handlers.HandleSubmitComment(svc, logger))

			sessionRoutes.GET("/cart", handlers.HandleGetCart(svc, logger))
			sessionRoutes.POST("/cart/items", handlers.HandleAddCartItem(svc, logger))
			sessionRoutes.PATCH("/cart/items/:id", handlers.HandleUpdateCartItem(svc, logger))
			sessionRoutes.DELETE("/cart/items/:id", handlers.HandleRemoveCartItem(svc, logger))

			sessionRoutes.POST("/address", handlers.HandleCreateAddress(svc, logger))
			sessionRoutes.DELETE("/address", handlers.HandleForgetAddress(svc, logger))

			sessionRoutes.GET("/checkout/info", handlers.HandleCheckoutInfo(svc, logger))
			sessionRoutes.POST("/checkout/quick-buy", handlers.HandleQuickBuy(svc, logger))
			sessionRoutes.POST("/checkout", handlers.HandleCheckout(svc, logger))
		}
	}

	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
