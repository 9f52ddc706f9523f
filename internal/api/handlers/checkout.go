package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/relojeriasur/storefront/internal/backend"
	"github.com/relojeriasur/storefront/internal/checkout"
	"github.com/relojeriasur/storefront/internal/config"
	"github.com/relojeriasur/storefront/internal/domain"
	"github.com/relojeriasur/storefront/internal/normalize"
)

type ConfirmRequest struct {
	PaymentMethod domain.PaymentMethod `json:"paymentMethod" binding:"required"`
	Notes         string               `json:"notas"`
}

// HandleCheckoutStart handles POST /checkout/start
func HandleCheckoutStart(cfg *config.Config, client *backend.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := newSession(c, cfg, client, logger)
		if !ok {
			return
		}

		draft, err := s.wizard.Begin(c.Request.Context())
		if err != nil {
			logger.Error("failed to start checkout", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"draft": draft})
	}
}

// HandleCheckoutFromCart handles POST /checkout/from-cart: the sidebar's
// "finalizar compra" entry that snapshots the cart and jumps to step 2.
func HandleCheckoutFromCart(cfg *config.Config, client *backend.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := newSession(c, cfg, client, logger)
		if !ok {
			return
		}

		draft, err := s.wizard.BeginFromCart(c.Request.Context())
		if err != nil {
			var verr *checkout.ValidationError
			if errors.As(err, &verr) {
				writeValidationError(c, verr)
				return
			}
			logger.Error("failed to start checkout from cart", zap.Error(err))
			writeBackendError(c, err, "no pudimos iniciar la compra")
			return
		}
		c.JSON(http.StatusOK, gin.H{"draft": draft})
	}
}

// HandleCheckoutState handles GET /checkout: current draft plus summary
func HandleCheckoutState(cfg *config.Config, client *backend.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := newSession(c, cfg, client, logger)
		if !ok {
			return
		}

		summary := s.wizard.Summary(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{
			"draft": s.wizard.Draft(c.Request.Context()),
			"summary": gin.H{
				"items":          summary.Items,
				"shippingCost":   summary.ShippingCost,
				"couponDiscount": summary.CouponDiscount,
				"total":          summary.Total,
				"totalLabel":     normalize.PriceLabel(summary.Total),
			},
		})
	}
}

// HandleCheckoutContact handles POST /checkout/contact (step 1 → 2)
func HandleCheckoutContact(cfg *config.Config, client *backend.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := newSession(c, cfg, client, logger)
		if !ok {
			return
		}

		var form checkout.ContactForm
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}

		// The gate checks the live cart
		if err := s.cart.Fetch(c.Request.Context()); err != nil {
			logger.Warn("cart refresh before contact gate failed", zap.Error(err))
		}

		draft, err := s.wizard.SubmitContact(c.Request.Context(), form)
		if err != nil {
			writeWizardError(c, err, logger)
			return
		}
		c.JSON(http.StatusOK, gin.H{"draft": draft})
	}
}

// HandleCheckoutShipping handles POST /checkout/shipping (step 2 → 3)
func HandleCheckoutShipping(cfg *config.Config, client *backend.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := newSession(c, cfg, client, logger)
		if !ok {
			return
		}

		var form checkout.ShippingForm
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}

		draft, err := s.wizard.SubmitShipping(c.Request.Context(), form)
		if err != nil {
			writeWizardError(c, err, logger)
			return
		}
		c.JSON(http.StatusOK, gin.H{"draft": draft})
	}
}

// HandleCheckoutConfirm handles POST /checkout/confirm (terminal step)
func HandleCheckoutConfirm(cfg *config.Config, client *backend.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := newSession(c, cfg, client, logger)
		if !ok {
			return
		}

		var req ConfirmRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}

		// Confirm on the freshest cart we can get
		if err := s.cart.Fetch(c.Request.Context()); err != nil {
			logger.Warn("cart refresh before confirm failed", zap.Error(err))
		}

		outcome, err := s.wizard.Confirm(c.Request.Context(), req.PaymentMethod, req.Notes)
		if err != nil {
			writeWizardError(c, err, logger)
			return
		}

		if outcome.RedirectURL != "" {
			// Gateway payment: the UI leaves the app for the redirect URL
			c.JSON(http.StatusOK, gin.H{"redirectUrl": outcome.RedirectURL})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"order":      outcome.Order,
			"totalLabel": normalize.PriceLabel(outcome.Order.Total),
		})
	}
}

// HandlePaymentReturn handles GET /checkout/result: the gateway's
// redirect-back view, rendered read-only from the query string.
func HandlePaymentReturn(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ret := domain.PaymentReturn{
			Status:            c.Query("status"),
			PaymentID:         c.Query("payment_id"),
			ExternalReference: c.Query("external_reference"),
		}
		logger.Info("payment gateway return",
			zap.String("status", ret.Status),
			zap.String("external_reference", ret.ExternalReference),
		)
		c.JSON(http.StatusOK, ret)
	}
}

// writeWizardError translates wizard failures: validation gates report
// every violated field, wrong-step means the flow got out of order, and
// the rest are backend failures that keep the buyer on the step.
func writeWizardError(c *gin.Context, err error, logger *zap.Logger) {
	var verr *checkout.ValidationError
	if errors.As(err, &verr) {
		writeValidationError(c, verr)
		return
	}
	if errors.Is(err, checkout.ErrWrongStep) {
		c.JSON(http.StatusConflict, gin.H{"error": "checkout step out of order"})
		return
	}
	logger.Error("checkout operation failed", zap.Error(err))
	writeBackendError(c, err, "no pudimos completar la operación")
}
