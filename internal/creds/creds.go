package creds

import (
	"context"
	"errors"
)

// TokenPair holds the session credential pair issued at login. Both tokens
// are opaque to the client.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ErrNotFound is returned by a Store when a key has no value.
var ErrNotFound = errors.New("creds: key not found")

// ErrNoCredentials is returned by Manager.Tokens when no session is stored.
var ErrNoCredentials = errors.New("creds: no stored credentials")

// Store is the secure key-value capability backing credential persistence.
// Implementations must be safe to call repeatedly and must persist values
// across process restarts (MemStore excepted, for tests).
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
