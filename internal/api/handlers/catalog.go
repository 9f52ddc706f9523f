package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/relojeriasur/storefront/internal/backend"
	"github.com/relojeriasur/storefront/internal/config"
	"github.com/relojeriasur/storefront/internal/normalize"
)

// ProductView is the catalog display shape: the raw record run through the
// normalizer for the fields the UI always needs, plus the record itself.
type ProductView struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"displayName"`
	Image       string         `json:"image"`
	Price       float64        `json:"price"`
	PriceLabel  string         `json:"priceLabel"`
	Raw         map[string]any `json:"raw"`
}

func productView(rec map[string]any, opts normalize.Options) ProductView {
	price := normalize.UnitPrice(rec)
	return ProductView{
		ID:          normalize.ItemID(rec),
		DisplayName: normalize.DisplayName(rec),
		Image:       normalize.ImageURL(rec, opts),
		Price:       price,
		PriceLabel:  normalize.PriceLabel(price),
		Raw:         rec,
	}
}

// HandleListProducts handles GET /products
func HandleListProducts(cfg *config.Config, client *backend.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := client.ListProducts(c.Request.Context())
		if err != nil {
			logger.Warn("product list failed", zap.Error(err))
			writeBackendError(c, err, "no pudimos cargar los productos")
			return
		}

		opts := assetOptions(cfg)
		views := make([]ProductView, 0, len(records))
		for _, rec := range records {
			views = append(views, productView(rec, opts))
		}
		c.JSON(http.StatusOK, gin.H{"products": views})
	}
}

// HandleGetProduct handles GET /products/:id
func HandleGetProduct(cfg *config.Config, client *backend.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := client.GetProduct(c.Request.Context(), c.Param("id"))
		if err != nil {
			logger.Warn("product load failed", zap.Error(err))
			writeBackendError(c, err, "no pudimos cargar el producto")
			return
		}
		c.JSON(http.StatusOK, productView(rec, assetOptions(cfg)))
	}
}

// HandleListCategories handles GET /categories
func HandleListCategories(cfg *config.Config, client *backend.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := client.ListCategories(c.Request.Context())
		if err != nil {
			logger.Warn("category list failed", zap.Error(err))
			writeBackendError(c, err, "no pudimos cargar las categorías")
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": records})
	}
}
