// Package upstream is the HTTP client for the portfolio API that the
// gateway fronts: login, identity resolution and the biodata lookup.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/portiva/portiva/internal/identity"
	"github.com/portiva/portiva/internal/shared"
)

// Client talks to the upstream portfolio API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	resolves   singleflight.Group
}

// New constructs a Client. timeout bounds every upstream call; a call that
// does not finish in time is a failure, never left pending.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
}

// Login exchanges credentials for a bearer token. Every rejection collapses
// to shared.ErrInvalidCredentials; the upstream status is logged only.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body, err := json.Marshal(loginRequest{Username: username, Password: password})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		c.log().Warn("upstream login failed", slog.Any("error", err))
		return "", shared.ErrInvalidCredentials
	}
	defer drain(res.Body)

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		c.log().Info("upstream login rejected", slog.Int("status", res.StatusCode))
		return "", shared.ErrInvalidCredentials
	}

	var payload loginResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil || payload.AccessToken == "" {
		c.log().Warn("upstream login returned malformed body")
		return "", shared.ErrInvalidCredentials
	}
	return payload.AccessToken, nil
}

type meResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Resolve performs the "who am I" round-trip for token. Concurrent resolves
// for the same token are coalesced; the call is an idempotent read so every
// waiter can safely share one response. Any failure maps to
// identity.ErrResolveFailed: callers must not distinguish outage from an
// expired token.
func (c *Client) Resolve(ctx context.Context, token string) (*identity.Principal, error) {
	ch := c.resolves.DoChan(token, func() (any, error) {
		return c.fetchMe(context.WithoutCancel(ctx), token)
	})
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", identity.ErrResolveFailed, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		principal := *res.Val.(*identity.Principal)
		return &principal, nil
	}
}

func (c *Client) fetchMe(ctx context.Context, token string) (*identity.Principal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/me", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", identity.ErrResolveFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := c.httpClient.Do(req)
	if err != nil {
		c.log().Warn("identity resolution failed", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %w", identity.ErrResolveFailed, err)
	}
	defer drain(res.Body)

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		c.log().Info("identity resolution rejected", slog.Int("status", res.StatusCode))
		return nil, identity.ErrResolveFailed
	}

	var payload meResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		c.log().Warn("identity endpoint returned malformed body", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %w", identity.ErrResolveFailed, err)
	}
	return &identity.Principal{
		ID:       payload.ID,
		Username: payload.Username,
		Email:    payload.Email,
		Role:     identity.ParseRole(payload.Role),
	}, nil
}

// LookupProfile asks whether the principal owns a biodata profile.
// A definitive 404 returns shared.ErrProfileNotFound; any 2xx means the
// profile exists regardless of field completeness; everything else is a
// transient failure that must not be confused with "not found".
func (c *Client) LookupProfile(ctx context.Context, token string, _ *identity.Principal) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/biodata", nil)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrTransientLookup, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := c.httpClient.Do(req)
	if err != nil {
		c.log().Warn("profile lookup failed", slog.Any("error", err))
		return fmt.Errorf("%w: %w", shared.ErrTransientLookup, err)
	}
	defer drain(res.Body)

	switch {
	case res.StatusCode == http.StatusNotFound:
		return shared.ErrProfileNotFound
	case res.StatusCode >= 200 && res.StatusCode < 300:
		return nil
	default:
		c.log().Warn("profile lookup returned unexpected status", slog.Int("status", res.StatusCode))
		return fmt.Errorf("%w: status %d", shared.ErrTransientLookup, res.StatusCode)
	}
}

func (c *Client) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.Default()
}

func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 1<<16))
	_ = body.Close()
}
