package creds

import (
	"context"
	"errors"
	"fmt"
)

const (
	accessTokenKey  = "session/access_token"
	refreshTokenKey = "session/refresh_token"
)

// Manager persists the session token pair in a Store. Lifecycle: the pair is
// created at login, rotated when a refresh succeeds, and deleted at logout or
// when a refresh fails.
type Manager struct {
	store Store
}

func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// SaveTokens stores both halves of the pair, overwriting any previous session.
func (m *Manager) SaveTokens(ctx context.Context, pair TokenPair) error {
	if err := m.store.Set(ctx, accessTokenKey, pair.AccessToken); err != nil {
		return fmt.Errorf("save access token: %w", err)
	}
	if err := m.store.Set(ctx, refreshTokenKey, pair.RefreshToken); err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

// Tokens returns the stored pair, or ErrNoCredentials when no session exists.
func (m *Manager) Tokens(ctx context.Context) (TokenPair, error) {
	access, err := m.store.Get(ctx, accessTokenKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return TokenPair{}, ErrNoCredentials
		}
		return TokenPair{}, fmt.Errorf("load access token: %w", err)
	}

	refresh, err := m.store.Get(ctx, refreshTokenKey)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return TokenPair{}, fmt.Errorf("load refresh token: %w", err)
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Clear deletes the stored pair. Clearing an empty store is a no-op.
func (m *Manager) Clear(ctx context.Context) error {
	if err := m.store.Delete(ctx, accessTokenKey); err != nil {
		return fmt.Errorf("delete access token: %w", err)
	}
	if err := m.store.Delete(ctx, refreshTokenKey); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}
