package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/osse101/Hearthmarket_Go/internal/domain"
	"github.com/osse101/Hearthmarket_Go/internal/logger"
)

// Identity is the verified caller behind a bearer token
type Identity struct {
	UserID string `json:"id"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
}

// Verifier turns a bearer token into a caller identity.
// Invalid or expired tokens yield domain.ErrUnauthenticated.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// SupabaseClient verifies access tokens against the Supabase auth API
type SupabaseClient struct {
	BaseURL string
	AnonKey string
	Client  *http.Client
}

// NewSupabaseClient creates a client for the project at baseURL
func NewSupabaseClient(baseURL, anonKey string) *SupabaseClient {
	return &SupabaseClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		AnonKey: anonKey,
		Client: &http.Client{
			Timeout: DefaultRequestTimeout,
		},
	}
}

// Verify calls GET /auth/v1/user with the caller's token
func (c *SupabaseClient) Verify(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: missing bearer token", domain.ErrUnauthenticated)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+UserEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", c.AnonKey)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	logger.FromContext(ctx).Debug(LogMsgVerifyCompleted, "status", resp.StatusCode, "duration", time.Since(start))

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: token rejected", domain.ErrUnauthenticated)
	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("auth server returned status %d", resp.StatusCode)
	}

	var identity Identity
	if err := json.NewDecoder(io.LimitReader(resp.Body, MaxResponseBytes)).Decode(&identity); err != nil {
		return nil, fmt.Errorf("failed to decode auth user: %w", err)
	}
	if identity.UserID == "" {
		return nil, fmt.Errorf("%w: token has no subject", domain.ErrUnauthenticated)
	}
	return &identity, nil
}
