package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/relojeriasur/storefront/internal/identity"
)

const identityKey = "session_identity"

// AdminOnly hides the back-office surface from non-admin actors. This is a
// UI convenience: the backend enforces authorization on every admin call
// regardless of what this check decides. The resolved identity is stashed
// on the context so the handler does not decode the token a second time.
func AdminOnly(auth identity.AuthBackend, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := GetStore(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "no session"})
			return
		}
		ids := identity.NewProvider(auth, store, logger)
		if !ids.Resolve(c.Request.Context()).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
		c.Set(identityKey, ids)
		c.Next()
	}
}

// GetIdentity returns the identity provider resolved by AdminOnly, if any
func GetIdentity(c *gin.Context) (*identity.Provider, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	ids, ok := v.(*identity.Provider)
	return ids, ok
}
