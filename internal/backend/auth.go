package backend

import (
	"context"
	"net/http"
)

// Login posts credentials to /auth/login
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthData, error) {
	return call[*AuthData](ctx, c, http.MethodPost, "/auth/login", nil, creds)
}

// Register posts a new account to /auth/register
func (c *Client) Register(ctx context.Context, reg Registration) (*AuthData, error) {
	return call[*AuthData](ctx, c, http.MethodPost, "/auth/register", nil, reg)
}

// RegisterAdmin posts a new administrator account to /auth/register-admin
func (c *Client) RegisterAdmin(ctx context.Context, reg Registration) (*AuthData, error) {
	return call[*AuthData](ctx, c, http.MethodPost, "/auth/register-admin", nil, reg)
}

// CurrentUser fetches the profile behind the session token
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	return call[*User](ctx, c, http.MethodGet, "/users/me", nil, nil)
}
