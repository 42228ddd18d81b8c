package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/ember-app/ember-go/internal/creds"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Login authenticates and persists the issued token pair.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var auth AuthResponse
	if err := c.do(ctx, http.MethodPost, LoginEndpoint, LoginRequest{Email: email, Password: password}, &auth); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	pair := creds.TokenPair{AccessToken: auth.AccessToken, RefreshToken: auth.RefreshToken}
	if err := c.creds.SaveTokens(ctx, pair); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return auth.User, nil
}

// Register creates an account and persists the issued token pair.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	var auth AuthResponse
	if err := c.do(ctx, http.MethodPost, RegisterEndpoint, req, &auth); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	pair := creds.TokenPair{AccessToken: auth.AccessToken, RefreshToken: auth.RefreshToken}
	if err := c.creds.SaveTokens(ctx, pair); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return auth.User, nil
}

// Logout tells the backend to revoke the session, then deletes the stored
// pair. Local credentials are cleared even when the revoke call fails.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, LogoutEndpoint, nil, nil); err != nil {
		log.Warn().Err(err).Msg("logout call failed, clearing local session anyway")
	}
	if err := c.creds.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Me fetches the authenticated user's profile and balances.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, MeEndpoint, nil, &user); err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	return &user, nil
}
