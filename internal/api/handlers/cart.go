package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/relojeriasur/storefront/internal/backend"
	"github.com/relojeriasur/storefront/internal/checkout"
	"github.com/relojeriasur/storefront/internal/config"
	"github.com/relojeriasur/storefront/internal/domain"
	"github.com/relojeriasur/storefront/internal/normalize"
)

// AddToCartRequest uses the backend's field naming for quantity
type AddToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"cantidad"`
}

type UpdateItemRequest struct {
	Quantity int `json:"cantidad" binding:"required,min=1"`
}

// CartResponse is the cart plus the display summary. The summary total uses
// the same formula the submitted order uses, so the sidebar can never show
// a different number than the confirmation.
type CartResponse struct {
	Cart     domain.Cart `json:"cart"`
	Summary  CartSummary `json:"summary"`
	OpenCart bool        `json:"openCart,omitempty"`
}

type CartSummary struct {
	ShippingCost   float64 `json:"shippingCost"`
	CouponDiscount float64 `json:"couponDiscount"`
	Total          float64 `json:"total"`
	TotalLabel     string  `json:"totalLabel"`
}

func cartResponse(c *gin.Context, s *session, openCart bool) CartResponse {
	ctx := c.Request.Context()
	snapshot := s.cart.Cart()

	var shippingCost float64
	if option, ok := s.shipping.Selection(ctx); ok {
		shippingCost = option.Cost
	}
	discount := s.wizard.Draft(ctx).CouponDiscount
	total := checkout.Total(snapshot.Items, shippingCost, discount)

	return CartResponse{
		Cart:     snapshot,
		OpenCart: openCart,
		Summary: CartSummary{
			ShippingCost:   shippingCost,
			CouponDiscount: discount,
			Total:          total,
			TotalLabel:     normalize.PriceLabel(total),
		},
	}
}

// HandleGetCart handles GET /cart
func HandleGetCart(cfg *config.Config, client *backend.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := newSession(c, cfg, client, logger)
		if !ok {
			return
		}

		// Read path degrades gracefully: on failure the last known cart is
		// served with a warning flag instead of an error page.
		warn := false
		if err := s.cart.Fetch(c.Request.Context()); err != nil {
			logger.Warn("serving stale cart", zap.Error(err))
			warn = true
		}

		resp := cartResponse(c, s, false)
		if warn {
			c.JSON(http.StatusOK, gin.H{"cart": resp.Cart, "summary": resp.Summary, "warning": "no pudimos actualizar el carrito"})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// HandleAddToCart handles POST /cart/items
func HandleAddToCart(cfg *config.Config, client *backend.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := newSession(c, cfg, client, logger)
		if !ok {
			return
		}

		var req AddToCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}
		if req.Quantity < 1 {
			req.Quantity = 1
		}

		// The sidebar opens after a successful add
		opened := false
		s.cart.OnOpen(func() { opened = true })

		if err := s.cart.Add(c.Request.Context(), req.ProductID, req.Quantity); err != nil {
			logger.Error("add to cart failed", zap.Error(err))
			writeBackendError(c, err, "no pudimos agregar el producto")
			return
		}

		c.JSON(http.StatusOK, cartResponse(c, s, opened))
	}
}

// HandleUpdateCartItem handles PUT /cart/items/:id
func HandleUpdateCartItem(cfg *config.Config, client *backend.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := newSession(c, cfg, client, logger)
		if !ok {
			return
		}

		var req UpdateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}

		if err := s.cart.UpdateQuantity(c.Request.Context(), c.Param("id"), req.Quantity); err != nil {
			logger.Error("update cart item failed", zap.Error(err))
			writeBackendError(c, err, "no pudimos actualizar el carrito")
			return
		}

		c.JSON(http.StatusOK, cartResponse(c, s, false))
	}
}

// HandleRemoveCartItem handles DELETE /cart/items/:id
func HandleRemoveCartItem(cfg *config.Config, client *backend.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := newSession(c, cfg, client, logger)
		if !ok {
			return
		}

		if err := s.cart.Remove(c.Request.Context(), c.Param("id")); err != nil {
			logger.Error("remove cart item failed", zap.Error(err))
			writeBackendError(c, err, "no pudimos quitar el producto")
			return
		}

		c.JSON(http.StatusOK, cartResponse(c, s, false))
	}
}

// HandleClearCart handles POST /cart/clear
func HandleClearCart(cfg *config.Config, client *backend.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := newSession(c, cfg, client, logger)
		if !ok {
			return
		}

		if err := s.cart.Clear(c.Request.Context()); err != nil {
			logger.Error("clear cart failed", zap.Error(err))
			writeBackendError(c, err, "no pudimos vaciar el carrito")
			return
		}

		resp := cartResponse(c, s, false)
		c.JSON(http.StatusOK, gin.H{"cart": resp.Cart, "summary": resp.Summary, "message": "Carrito vaciado"})
	}
}
