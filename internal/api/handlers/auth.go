package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/relojeriasur/storefront/internal/backend"
	"github.com/relojeriasur/storefront/internal/config"
	"github.com/relojeriasur/storefront/internal/identity"
)

type LoginForm struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterForm struct {
	Name     string `json:"nombre" binding:"required"`
	LastName string `json:"apellido" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ActorResponse is what GET /me renders
type ActorResponse struct {
	Kind    string `json:"kind"`
	GuestID string `json:"guestId,omitempty"`
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Role    string `json:"role,omitempty"`
}

// HandleMe handles GET /me
func HandleMe(cfg *config.Config, client *backend.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := newSession(c, cfg, client, logger)
		if !ok {
			return
		}
		actor := s.identity.Actor()
		c.JSON(http.StatusOK, ActorResponse{
			Kind:    string(actor.Kind),
			GuestID: actor.GuestID,
			Email:   actor.Email,
			Name:    actor.Name,
			Role:    actor.Role,
		})
	}
}

// HandleLogin handles POST /auth/login. Failures come back classified so
// the form can render per-field messages.
func HandleLogin(cfg *config.Config, client *backend.Client, logger *zap.Logger) gin.HandlerFunc {
	return loginHandler(cfg, client, logger, false)
}

// HandleAdminLogin handles POST /auth/admin-login
func HandleAdminLogin(cfg *config.Config, client *backend.Client, logger *zap.Logger) gin.HandlerFunc {
	return loginHandler(cfg, client, logger, true)
}

func loginHandler(cfg *config.Config, client *backend.Client, logger *zap.Logger, admin bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := newSession(c, cfg, client, logger)
		if !ok {
			return
		}

		var form LoginForm
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}

		var err error
		if admin {
			err = s.identity.AdminLogin(c.Request.Context(), form.Email, form.Password)
		} else {
			err = s.identity.Login(c.Request.Context(), form.Email, form.Password)
		}
		if err != nil {
			writeLoginError(c, err)
			return
		}

		actor := s.identity.Actor()
		c.JSON(http.StatusOK, ActorResponse{
			Kind:  string(actor.Kind),
			Email: actor.Email,
			Name:  actor.Name,
			Role:  actor.Role,
		})
	}
}

// HandleLogout handles POST /auth/logout. The guest id survives, so the
// session falls back to its guest cart.
func HandleLogout(cfg *config.Config, client *backend.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := newSession(c, cfg, client, logger)
		if !ok {
			return
		}
		s.identity.Logout(c.Request.Context())
		actor := s.identity.Actor()
		c.JSON(http.StatusOK, ActorResponse{Kind: string(actor.Kind), GuestID: actor.GuestID})
	}
}

// HandleRegister handles POST /auth/register
func HandleRegister(cfg *config.Config, client *backend.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := newSession(c, cfg, client, logger)
		if !ok {
			return
		}

		var form RegisterForm
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}

		msg, err := s.identity.Register(c.Request.Context(), backend.RegisterRequest{
			Name:     form.Name,
			LastName: form.LastName,
			Email:    form.Email,
			Password: form.Password,
		})
		if err != nil {
			writeBackendError(c, err, "no pudimos crear la cuenta")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": msg})
	}
}

// HandleForgotPassword handles POST /auth/forgot-password
func HandleForgotPassword(cfg *config.Config, client *backend.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := newSession(c, cfg, client, logger)
		if !ok {
			return
		}

		var form struct {
			Email string `json:"email" binding:"required"`
		}
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}

		msg, err := s.identity.ForgotPassword(c.Request.Context(), form.Email)
		if err != nil {
			writeBackendError(c, err, "no pudimos iniciar el reseteo")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": msg})
	}
}

// HandleResetPassword handles POST /auth/reset-password
func HandleResetPassword(cfg *config.Config, client *backend.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := newSession(c, cfg, client, logger)
		if !ok {
			return
		}

		var form struct {
			Token    string `json:"token" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}

		msg, err := s.identity.ResetPassword(c.Request.Context(), form.Token, form.Password)
		if err != nil {
			writeBackendError(c, err, "no pudimos cambiar la contraseña")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": msg})
	}
}

// writeLoginError maps classified login failures to statuses and exposes
// the failure code for per-field rendering.
func writeLoginError(c *gin.Context, err error) {
	var lerr *identity.LoginError
	if !errors.As(err, &lerr) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "server_error"})
		return
	}
	status := http.StatusBadGateway
	switch lerr.Code {
	case identity.CodeInvalidCredentials:
		status = http.StatusBadRequest
	case identity.CodeUserNotFound:
		status = http.StatusNotFound
	case identity.CodeWrongPassword:
		status = http.StatusUnauthorized
	}
	c.JSON(status, gin.H{"error": string(lerr.Code), "message": lerr.Message})
}
