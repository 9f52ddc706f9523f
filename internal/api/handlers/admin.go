package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/relojeriasur/storefront/internal/backend"
	"github.com/relojeriasur/storefront/internal/config"
)

// The back-office handlers are thin passthroughs to the backend's admin
// endpoints, run with the logged-in admin's token. The route group is
// role-gated for UI purposes only; the backend authorizes every call.

// HandleAdminListOrders handles GET /admin/orders
func HandleAdminListOrders(cfg *config.Config, client *backend.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := newSession(c, cfg, client, logger)
		if !ok {
			return
		}

		orders, err := client.ListOrders(c.Request.Context(), s.identity.Actor())
		if err != nil {
			logger.Error("admin order list failed", zap.Error(err))
			writeBackendError(c, err, "no pudimos cargar los pedidos")
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

// HandleAdminGetOrder handles GET /admin/orders/:id
func HandleAdminGetOrder(cfg *config.Config, client *backend.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := newSession(c, cfg, client, logger)
		if !ok {
			return
		}

		order, err := client.GetOrder(c.Request.Context(), s.identity.Actor(), c.Param("id"))
		if err != nil {
			logger.Error("admin order load failed", zap.Error(err))
			writeBackendError(c, err, "no pudimos cargar el pedido")
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// HandleAdminCreateProduct handles POST /admin/products
func HandleAdminCreateProduct(cfg *config.Config, client *backend.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := newSession(c, cfg, client, logger)
		if !ok {
			return
		}

		var product map[string]any
		if err := c.ShouldBindJSON(&product); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}

		created, err := client.CreateProduct(c.Request.Context(), s.identity.Actor(), product)
		if err != nil {
			logger.Error("product create failed", zap.Error(err))
			writeBackendError(c, err, "no pudimos crear el producto")
			return
		}
		c.JSON(http.StatusOK, created)
	}
}

// HandleAdminUpdateProduct handles PUT /admin/products/:id
func HandleAdminUpdateProduct(cfg *config.Config, client *backend.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := newSession(c, cfg, client, logger)
		if !ok {
			return
		}

		var product map[string]any
		if err := c.ShouldBindJSON(&product); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}

		updated, err := client.UpdateProduct(c.Request.Context(), s.identity.Actor(), c.Param("id"), product)
		if err != nil {
			logger.Error("product update failed", zap.Error(err))
			writeBackendError(c, err, "no pudimos actualizar el producto")
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// HandleAdminDeleteProduct handles DELETE /admin/products/:id
func HandleAdminDeleteProduct(cfg *config.Config, client *backend.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := newSession(c, cfg, client, logger)
		if !ok {
			return
		}

		if err := client.DeleteProduct(c.Request.Context(), s.identity.Actor(), c.Param("id")); err != nil {
			logger.Error("product delete failed", zap.Error(err))
			writeBackendError(c, err, "no pudimos eliminar el producto")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Producto eliminado"})
	}
}
