package athena

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"

	"github.com/teemow/athena-mcp/internal/instrumentation"
	"github.com/teemow/athena-mcp/internal/logging"
)

const (
	// Scope is the fixed scope requested in every client-credentials exchange.
	Scope = "athena/service/Athenanet.MDP.*"

	// ExpiryMargin is subtracted from the provider's reported token lifetime.
	ExpiryMargin = 60 * time.Second

	// DefaultTokenLifetime is assumed when the token response has no expires_in.
	DefaultTokenLifetime = 3600 * time.Second

	// TokenExchangeTimeout bounds one exchange. The exchange outlives the
	// caller that started it, since other callers may be waiting on it.
	TokenExchangeTimeout = 30 * time.Second
)

// CachedToken is the bearer token currently held by a TokenCache.
type CachedToken struct {
	AccessToken string
	ExpiresAt   time.Time
}

// TokenCache holds a single bearer token and refreshes it through the
// client-credentials grant when it is absent or expired.
//
// Concurrent callers that find the token expired share one exchange.
type TokenCache struct {
	config     clientcredentials.Config
	httpClient *http.Client
	now        func() time.Time
	metrics    *instrumentation.Metrics
	logger     logging.Logger

	mu     sync.RWMutex
	cached *CachedToken
	group  singleflight.Group
}

// NewTokenCache creates an empty cache for the given credential.
func NewTokenCache(cred Credential, opts ...Option) *TokenCache {
	o := newOptions(cred, opts)
	return &TokenCache{
		config: clientcredentials.Config{
			ClientID:     cred.ClientID,
			ClientSecret: cred.ClientSecret,
			TokenURL:     cred.TokenURL(),
			Scopes:       []string{Scope},
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		httpClient: tokenHTTPClient(o.httpClient),
		now:        o.now,
		metrics:    o.metrics,
		logger:     o.logger,
	}
}

// Token returns a valid access token, performing an exchange only when the
// cached token is missing or its expiry instant has been reached.
func (c *TokenCache) Token(ctx context.Context) (string, error) {
	if token, ok := c.valid(); ok {
		return token, nil
	}

	ch := c.group.DoChan("token", func() (interface{}, error) {
		// Another caller may have refreshed while we waited.
		if token, ok := c.valid(); ok {
			return token, nil
		}
		exchangeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), TokenExchangeTimeout)
		defer cancel()
		return c.refresh(exchangeCtx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", &AuthError{Err: ctx.Err()}
	}
}

// Cached returns a copy of the current token, if any.
func (c *TokenCache) Cached() (CachedToken, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.cached == nil {
		return CachedToken{}, false
	}
	return *c.cached, true
}

// Valid reports whether a cached token exists and has not yet expired.
func (c *TokenCache) Valid() bool {
	_, ok := c.valid()
	return ok
}

func (c *TokenCache) valid() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.cached != nil && c.now().Before(c.cached.ExpiresAt) {
		return c.cached.AccessToken, true
	}
	return "", false
}

// refresh performs the client-credentials exchange and replaces the cached token.
func (c *TokenCache) refresh(ctx context.Context) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	token, err := c.config.Token(ctx)
	if err != nil {
		authErr := toAuthError(err)
		c.recordRefresh(ctx, instrumentation.OAuthResultFailure)
		c.logger.Error("athena token exchange failed",
			logging.Operation("athena.token"),
			logging.StatusCode(authErr.StatusCode),
			logging.Err(authErr))
		return "", authErr
	}

	lifetime := tokenLifetime(token, c.now)
	cached := &CachedToken{
		AccessToken: token.AccessToken,
		ExpiresAt:   c.now().Add(lifetime - ExpiryMargin),
	}

	c.mu.Lock()
	c.cached = cached
	c.mu.Unlock()

	c.recordRefresh(ctx, instrumentation.OAuthResultSuccess)
	c.logger.Debug("athena token refreshed",
		logging.Operation("athena.token"),
		"token", logging.SanitizeToken(cached.AccessToken),
		"expires_at", cached.ExpiresAt)

	return cached.AccessToken, nil
}

func (c *TokenCache) recordRefresh(ctx context.Context, result string) {
	if c.metrics != nil {
		c.metrics.RecordTokenRefresh(ctx, result)
	}
}

// toAuthError maps an oauth2 exchange failure onto an *AuthError carrying the
// upstream status code and body when a response was received.
func toAuthError(err error) *AuthError {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr
	}
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
		return &AuthError{
			StatusCode: retrieveErr.Response.StatusCode,
			Body:       string(retrieveErr.Body),
			Err:        err,
		}
	}
	return &AuthError{Err: err}
}

// tokenHTTPClient returns a copy of hc whose responses must be 200 OK.
func tokenHTTPClient(hc *http.Client) *http.Client {
	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	client := *hc
	client.Transport = tokenStatusTransport{base: base}
	return &client
}

// tokenStatusTransport turns any token response other than 200 OK into an
// *AuthError. x/oauth2 on its own accepts every 2xx status.
type tokenStatusTransport struct {
	base http.RoundTripper
}

func (t tokenStatusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil || resp.StatusCode == http.StatusOK {
		return resp, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	return nil, &AuthError{StatusCode: resp.StatusCode, Body: string(body)}
}

// tokenLifetime returns the lifetime reported by the provider.
// athenahealth sends expires_in either as a number or as a numeric string.
func tokenLifetime(token *oauth2.Token, now func() time.Time) time.Duration {
	switch v := token.Extra("expires_in").(type) {
	case float64:
		if v > 0 {
			return time.Duration(v) * time.Second
		}
	case string:
		if secs, err := strconv.ParseInt(v, 10, 64); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	if !token.Expiry.IsZero() {
		if d := token.Expiry.Sub(now()); d > 0 {
			return d
		}
	}
	return DefaultTokenLifetime
}
