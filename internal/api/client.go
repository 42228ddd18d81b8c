package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ember-app/ember-go/internal/creds"
)

const defaultTimeout = 30 * time.Second

// Client is the REST client for the Ember backend. Requests carry the stored
// bearer token; a 401 triggers exactly one transparent token refresh followed
// by one retry of the original request. A 401 on the retried request is
// returned as-is.
type Client struct {
	baseURL string
	client  *http.Client
	headers map[string]string
	creds   *creds.Manager
}

func NewClient(baseURL string, manager *creds.Manager) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: defaultTimeout,
		},
		headers: map[string]string{
			ContentTypeHeader: ContentTypeJSON,
		},
		creds: manager,
	}
}

func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

func (c *Client) SetTimeout(timeout time.Duration) {
	c.client.Timeout = timeout
}

// do issues a request and decodes the JSON response into out (when out is
// non-nil). payload is marshaled as the JSON body when non-nil.
func (c *Client) do(ctx context.Context, method, endpoint string, payload, out any) error {
	body, err := c.request(ctx, method, endpoint, payload)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal %s response: %w", endpoint, err)
	}
	return nil
}

func (c *Client) request(ctx context.Context, method, endpoint string, payload any) ([]byte, error) {
	var encoded []byte
	if payload != nil {
		var err error
		encoded, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal %s request: %w", endpoint, err)
		}
	}

	body, status, err := c.send(ctx, method, endpoint, encoded, "")
	if err != nil {
		return nil, err
	}
	if status != http.StatusUnauthorized {
		return c.check(status, body)
	}

	// One transparent refresh-and-retry. A second 401 falls through.
	token, err := c.refreshTokens(ctx)
	if err != nil {
		return nil, err
	}

	body, status, err = c.send(ctx, method, endpoint, encoded, token)
	if err != nil {
		return nil, err
	}
	return c.check(status, body)
}

func (c *Client) send(ctx context.Context, method, endpoint string, encoded []byte, overrideToken string) ([]byte, int, error) {
	var reader io.Reader
	if encoded != nil {
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	token := overrideToken
	if token == "" {
		if pair, err := c.creds.Tokens(ctx); err == nil {
			token = pair.AccessToken
		}
	}
	if token != "" {
		req.Header.Set(AuthorizationHeader, "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response body: %w", err)
	}
	return body, resp.StatusCode, nil
}

func (c *Client) check(status int, body []byte) ([]byte, error) {
	if status < 200 || status >= 300 {
		return nil, newAPIError(status, body)
	}
	return body, nil
}

// refreshTokens exchanges the stored refresh token for a new pair and
// persists it. A failed refresh clears all stored credentials, forcing a
// re-login on the next guarded action.
func (c *Client) refreshTokens(ctx context.Context) (string, error) {
	pair, err := c.creds.Tokens(ctx)
	if err != nil {
		return "", err
	}

	encoded, err := json.Marshal(map[string]string{"refreshToken": pair.RefreshToken})
	if err != nil {
		return "", fmt.Errorf("marshal refresh request: %w", err)
	}

	body, status, err := c.send(ctx, http.MethodPost, RefreshEndpoint, encoded, pair.RefreshToken)
	if err != nil {
		return "", err
	}
	if status < 200 || status >= 300 {
		log.Warn().Int("status", status).Msg("token refresh rejected, clearing session")
		if clearErr := c.creds.Clear(ctx); clearErr != nil {
			log.Error().Err(clearErr).Msg("failed to clear credentials")
		}
		return "", newAPIError(status, body)
	}

	var auth AuthResponse
	if err := json.Unmarshal(body, &auth); err != nil {
		return "", fmt.Errorf("unmarshal refresh response: %w", err)
	}

	rotated := creds.TokenPair{AccessToken: auth.AccessToken, RefreshToken: auth.RefreshToken}
	if err := c.creds.SaveTokens(ctx, rotated); err != nil {
		return "", fmt.Errorf("store rotated tokens: %w", err)
	}

	log.Debug().Msg("access token rotated after 401")
	return auth.AccessToken, nil
}
