package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/relojeriasur/storefront/internal/api/handlers"
	"github.com/relojeriasur/storefront/internal/api/middleware"
	"github.com/relojeriasur/storefront/internal/backend"
	"github.com/relojeriasur/storefront/internal/config"
	"github.com/relojeriasur/storefront/internal/localstore"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, client *backend.Client, sessions localstore.Provider, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))
	router.Use(middleware.Session(sessions))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Storefront routes
	v1 := router.Group("/v1")
	{
		v1.GET("/me", handlers.HandleMe(cfg, client, logger))

		v1.POST("/auth/login", handlers.HandleLogin(cfg, client, logger))
		v1.POST("/auth/admin-login", handlers.HandleAdminLogin(cfg, client, logger))
		v1.POST("/auth/logout", handlers.HandleLogout(cfg, client, logger))
		v1.POST("/auth/register", handlers.HandleRegister(cfg, client, logger))
		v1.POST("/auth/forgot-password", handlers.HandleForgotPassword(cfg, client, logger))
		v1.POST("/auth/reset-password", handlers.HandleResetPassword(cfg, client, logger))

		v1.GET("/products", handlers.HandleListProducts(cfg, client, logger))
		v1.GET("/products/:id", handlers.HandleGetProduct(cfg, client, logger))
		v1.GET("/categories", handlers.HandleListCategories(cfg, client, logger))

		v1.GET("/cart", handlers.HandleGetCart(cfg, client, logger))
		v1.POST("/cart/items", handlers.HandleAddToCart(cfg, client, logger))
		v1.PUT("/cart/items/:id", handlers.HandleUpdateCartItem(cfg, client, logger))
		v1.DELETE("/cart/items/:id", handlers.HandleRemoveCartItem(cfg, client, logger))
		v1.POST("/cart/clear", handlers.HandleClearCart(cfg, client, logger))

		v1.POST("/shipping", handlers.HandleCalculateShipping(cfg, client, logger))
		v1.POST("/shipping/select", handlers.HandleSelectShipping(cfg, client, logger))

		v1.POST("/checkout/start", handlers.HandleCheckoutStart(cfg, client, logger))
		v1.POST("/checkout/from-cart", handlers.HandleCheckoutFromCart(cfg, client, logger))
		v1.GET("/checkout", handlers.HandleCheckoutState(cfg, client, logger))
		v1.POST("/checkout/contact", handlers.HandleCheckoutContact(cfg, client, logger))
		v1.POST("/checkout/shipping", handlers.HandleCheckoutShipping(cfg, client, logger))
		v1.POST("/checkout/confirm", handlers.HandleCheckoutConfirm(cfg, client, logger))
		v1.GET("/checkout/result", handlers.HandlePaymentReturn(logger))

		// Back-office routes (role gate is UI convenience; the backend
		// authorizes every call with the admin's token)
		adminRoutes := v1.Group("/admin")
		adminRoutes.Use(middleware.AdminOnly(client, logger))
		{
			adminRoutes.GET("/orders", handlers.HandleAdminListOrders(cfg, client, logger))
			adminRoutes.GET("/orders/:id", handlers.HandleAdminGetOrder(cfg, client, logger))
			adminRoutes.POST("/products", handlers.HandleAdminCreateProduct(cfg, client, logger))
			adminRoutes.PUT("/products/:id", handlers.HandleAdminUpdateProduct(cfg, client, logger))
			adminRoutes.DELETE("/products/:id", handlers.HandleAdminDeleteProduct(cfg, client, logger))
		}
	}

	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
