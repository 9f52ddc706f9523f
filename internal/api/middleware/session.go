package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/relojeriasur/storefront/internal/localstore"
)

const (
	sessionCookie = "sf_session"
	storeKey      = "session_store"

	// sessionMaxAge matches the localstore session TTL
	sessionMaxAge = 30 * 24 * 60 * 60
)

// Session resolves the caller's session cookie, minting one on first visit,
// and attaches the session's localstore to the request context. The session
// id is what scopes guest ids, carts, drafts and tokens.
func Session(provider localstore.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(sessionCookie)
		if err != nil || id == "" {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, id, sessionMaxAge, "/", "", false, true)
		}
		c.Set(storeKey, provider.ForSession(id))
		c.Next()
	}
}

// GetStore returns the session store attached by Session
func GetStore(c *gin.Context) (localstore.Store, bool) {
	v, ok := c.Get(storeKey)
	if !ok {
		return nil, false
	}
	store, ok := v.(localstore.Store)
	return store, ok
}
