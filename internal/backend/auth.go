package backend

import (
	"context"
	"net/http"
)

// LoginRequest is the credentials payload for client and admin login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer token. A 2xx response without a
// token is treated as a failed login by the identity layer.
type LoginResponse struct {
	Token string `json:"token"`
}

// RegisterRequest is the new-account payload
type RegisterRequest struct {
	Name     string `json:"nombre"`
	LastName string `json:"apellido"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// MessageResponse is the {message} body the auth endpoints answer with
type MessageResponse struct {
	Message string `json:"message"`
}

// Login authenticates a client account
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/Client/login", nil, "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AdminLogin authenticates a back-office account
func (c *Client) AdminLogin(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/Auth/AdminLogin", nil, "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates a client account
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.do(ctx, http.MethodPost, "/Client/register", nil, "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ForgotPassword starts a password reset
func (c *Client) ForgotPassword(ctx context.Context, email string) (*MessageResponse, error) {
	var resp MessageResponse
	body := map[string]string{"email": email}
	if err := c.do(ctx, http.MethodPost, "/Client/forgot-password", nil, "", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ResetPassword completes a password reset with the emailed token
func (c *Client) ResetPassword(ctx context.Context, token, password string) (*MessageResponse, error) {
	var resp MessageResponse
	body := map[string]string{"token": token, "password": password}
	if err := c.do(ctx, http.MethodPost, "/Client/reset-password", nil, "", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
