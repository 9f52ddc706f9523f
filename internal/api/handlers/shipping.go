package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/relojeriasur/storefront/internal/backend"
	"github.com/relojeriasur/storefront/internal/config"
	"github.com/relojeriasur/storefront/internal/domain"
	"github.com/relojeriasur/storefront/internal/normalize"
	"github.com/relojeriasur/storefront/internal/shipping"
)

type CalculateShippingRequest struct {
	PostalCode string `json:"postalCode" binding:"required"`
}

type SelectShippingRequest struct {
	PostalCode string `json:"postalCode" binding:"required"`
	Name       string `json:"name" binding:"required"`
}

// ShippingOptionView decorates an option with its display cost label
type ShippingOptionView struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
	CostLabel   string  `json:"costLabel"`
}

func optionViews(options []domain.ShippingOption) []ShippingOptionView {
	views := make([]ShippingOptionView, 0, len(options))
	for _, opt := range options {
		views = append(views, ShippingOptionView{
			Name:        opt.Name,
			Description: opt.Description,
			Cost:        opt.Cost,
			CostLabel:   normalize.PriceLabel(opt.Cost),
		})
	}
	return views
}

// HandleCalculateShipping handles POST /shipping
func HandleCalculateShipping(cfg *config.Config, client *backend.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := newSession(c, cfg, client, logger)
		if !ok {
			return
		}

		var req CalculateShippingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}

		options, err := s.shipping.Calculate(c.Request.Context(), req.PostalCode)
		if err != nil {
			switch {
			case errors.Is(err, shipping.ErrInvalidPostalCode):
				c.JSON(http.StatusUnprocessableEntity, gin.H{
					"error":  "validation failed",
					"fields": gin.H{"postalCode": "el código postal debe tener 4 dígitos"},
				})
			case errors.Is(err, shipping.ErrNoOptions):
				c.JSON(http.StatusNotFound, gin.H{"error": "no hay opciones de envío para ese código postal"})
			default:
				logger.Error("shipping calculation failed", zap.Error(err))
				writeBackendError(c, err, "no pudimos calcular el envío")
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"options":  optionViews(options),
			"selected": options[0].Name,
		})
	}
}

// HandleSelectShipping handles POST /shipping/select. The new selection is
// reflected immediately in the returned cart summary.
func HandleSelectShipping(cfg *config.Config, client *backend.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := newSession(c, cfg, client, logger)
		if !ok {
			return
		}

		var req SelectShippingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}

		option, err := s.shipping.Select(c.Request.Context(), req.PostalCode, req.Name)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}

		if err := s.cart.Fetch(c.Request.Context()); err != nil {
			logger.Warn("cart refresh after shipping selection failed", zap.Error(err))
		}

		resp := cartResponse(c, s, false)
		c.JSON(http.StatusOK, gin.H{
			"selected": option.Name,
			"cost":     option.Cost,
			"summary":  resp.Summary,
		})
	}
}
