// Package handlers is the storefront HTTP surface: thin gin handlers that
// wire the session's stores and services together and translate their
// results to JSON. All real logic lives in the cart, checkout, shipping and
// identity packages.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/relojeriasur/storefront/internal/api/middleware"
	"github.com/relojeriasur/storefront/internal/backend"
	"github.com/relojeriasur/storefront/internal/cart"
	"github.com/relojeriasur/storefront/internal/checkout"
	"github.com/relojeriasur/storefront/internal/config"
	"github.com/relojeriasur/storefront/internal/identity"
	"github.com/relojeriasur/storefront/internal/localstore"
	"github.com/relojeriasur/storefront/internal/normalize"
	"github.com/relojeriasur/storefront/internal/shipping"
)

// session bundles the per-request services bound to the caller's session
type session struct {
	store    localstore.Store
	identity *identity.Provider
	cart     *cart.Store
	shipping *shipping.Resolver
	wizard   *checkout.Wizard
}

// newSession resolves the session store and constructs the service graph
// for this request. Services are cheap stateless wrappers over the store
// and the backend client.
func newSession(c *gin.Context, cfg *config.Config, client *backend.Client, logger *zap.Logger) (*session, bool) {
	store, ok := middleware.GetStore(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
		return nil, false
	}

	// An upstream gate may have resolved the identity already
	ids, resolved := middleware.GetIdentity(c)
	if !resolved {
		ids = identity.NewProvider(client, store, logger)
		ids.Resolve(c.Request.Context())
	}

	cartStore := cart.NewStore(client, ids, assetOptions(cfg), logger)
	resolver := shipping.NewResolver(client, store, logger)
	wizard := checkout.NewWizard(cartStore, resolver, ids, client, store, cfg.Payment.CurrencyID, logger)

	return &session{
		store:    store,
		identity: ids,
		cart:     cartStore,
		shipping: resolver,
		wizard:   wizard,
	}, true
}

func assetOptions(cfg *config.Config) normalize.Options {
	return normalize.Options{
		UploadBaseURL:    cfg.Assets.UploadBaseURL,
		PlaceholderImage: cfg.Assets.PlaceholderImage,
	}
}

// writeValidationError renders a gate failure with every violated field
func writeValidationError(c *gin.Context, verr *checkout.ValidationError) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":  "validation failed",
		"fields": verr.Fields,
	})
}

// writeBackendError maps a transport failure on a write path to a blocking
// user-visible error, preferring the backend-provided message.
func writeBackendError(c *gin.Context, err error, fallback string) {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = fallback
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": fallback})
}
