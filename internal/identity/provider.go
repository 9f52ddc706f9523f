// Package identity resolves the current actor: an anonymous guest with a
// locally generated stable id, or an authenticated user derived from the
// backend-issued bearer token. The token is decoded locally and never
// verified; only its expiry is honored. Role claims gate UI rendering only,
// authorization stays with the backend.
package identity

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/relojeriasur/storefront/internal/backend"
	"github.com/relojeriasur/storefront/internal/domain"
	"github.com/relojeriasur/storefront/internal/localstore"
)

// AuthBackend is the slice of the commerce API the provider needs
type AuthBackend interface {
	Login(ctx context.Context, req backend.LoginRequest) (*backend.LoginResponse, error)
	AdminLogin(ctx context.Context, req backend.LoginRequest) (*backend.LoginResponse, error)
	Register(ctx context.Context, req backend.RegisterRequest) (*backend.MessageResponse, error)
	ForgotPassword(ctx context.Context, email string) (*backend.MessageResponse, error)
	ResetPassword(ctx context.Context, token, password string) (*backend.MessageResponse, error)
}

type Provider struct {
	backend AuthBackend
	store   localstore.Store
	logger  *zap.Logger
	now     func() time.Time

	mu    sync.Mutex
	actor domain.Actor
}

// NewProvider creates a new identity provider bound to one session store
func NewProvider(b AuthBackend, store localstore.Store, logger *zap.Logger) *Provider {
	return &Provider{
		backend: b,
		store:   store,
		logger:  logger,
		now:     time.Now,
	}
}

// Resolve determines the current actor from persisted session state. An
// absent, undecodable or expired token demotes to guest; the guest id is
// generated once and never cleared.
func (p *Provider) Resolve(ctx context.Context) domain.Actor {
	p.mu.Lock()
	defer p.mu.Unlock()

	var token string
	err := p.store.Get(ctx, localstore.KeyAuthToken, &token)
	if err == nil && token != "" {
		actor, decodeErr := p.decodeToken(token)
		if decodeErr == nil {
			if actor.TokenExpiry.After(p.now()) {
				p.actor = actor
				return actor
			}
			// Expired: discard and fall back to guest. No refresh exists.
			p.logger.Info("bearer token expired, demoting to guest")
		} else {
			p.logger.Warn("failed to decode bearer token", zap.Error(decodeErr))
		}
		if delErr := p.store.Delete(ctx, localstore.KeyAuthToken); delErr != nil {
			p.logger.Warn("failed to clear stale token", zap.Error(delErr))
		}
	}

	actor := domain.Actor{Kind: domain.ActorGuest, GuestID: p.guestID(ctx)}
	p.actor = actor
	return actor
}

// Actor returns the last resolved actor
func (p *Provider) Actor() domain.Actor {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.actor
}

// guestID loads the persisted guest id or mints and persists a fresh one
func (p *Provider) guestID(ctx context.Context) string {
	var id string
	if err := p.store.Get(ctx, localstore.KeyGuestCartID, &id); err == nil && id != "" {
		return id
	}
	id = uuid.NewString()
	if err := p.store.Set(ctx, localstore.KeyGuestCartID, id); err != nil {
		p.logger.Warn("failed to persist guest id", zap.Error(err))
	}
	return id
}

// decodeToken extracts the claims without signature verification. The
// backend is the only party that verifies tokens.
func (p *Provider) decodeToken(token string) (domain.Actor, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return domain.Actor{}, err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Actor{}, errors.New("unexpected claims type")
	}

	actor := domain.Actor{Kind: domain.ActorUser, Token: token}
	actor.UserID = claimString(claims, "sub", "nameid", "id")
	actor.Email = claimString(claims, "email")
	actor.Name = claimString(claims, "name", "unique_name")
	actor.Role = claimString(claims, "role")
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		actor.TokenExpiry = exp.Time
	}
	return actor, nil
}

func claimString(claims jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		if s, ok := claims[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// Login authenticates against the backend, stores the issued token and
// re-resolves the actor. Failures come back as a classified *LoginError.
func (p *Provider) Login(ctx context.Context, email, password string) error {
	return p.login(ctx, email, password, p.backend.Login)
}

// AdminLogin is the back-office variant of Login
func (p *Provider) AdminLogin(ctx context.Context, email, password string) error {
	return p.login(ctx, email, password, p.backend.AdminLogin)
}

func (p *Provider) login(ctx context.Context, email, password string, call func(context.Context, backend.LoginRequest) (*backend.LoginResponse, error)) error {
	resp, err := call(ctx, backend.LoginRequest{Email: email, Password: password})
	if err != nil {
		return classifyLoginError(err)
	}
	if resp.Token == "" {
		return &LoginError{Code: CodeServerError, Message: "login response missing token"}
	}
	if err := p.store.Set(ctx, localstore.KeyAuthToken, resp.Token); err != nil {
		return &LoginError{Code: CodeServerError, Message: "failed to persist session"}
	}
	p.Resolve(ctx)
	return nil
}

// Logout clears the token and reverts to guest. The guest id survives so
// the guest cart is still reachable.
func (p *Provider) Logout(ctx context.Context) {
	if err := p.store.Delete(ctx, localstore.KeyAuthToken); err != nil {
		p.logger.Warn("failed to clear token on logout", zap.Error(err))
	}
	p.Resolve(ctx)
}

// Register creates an account; the buyer still logs in afterwards
func (p *Provider) Register(ctx context.Context, req backend.RegisterRequest) (string, error) {
	resp, err := p.backend.Register(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// ForgotPassword starts a reset flow
func (p *Provider) ForgotPassword(ctx context.Context, email string) (string, error) {
	resp, err := p.backend.ForgotPassword(ctx, email)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// ResetPassword completes a reset flow
func (p *Provider) ResetPassword(ctx context.Context, token, password string) (string, error) {
	resp, err := p.backend.ResetPassword(ctx, token, password)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}
