package athena

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/teemow/athena-mcp/internal/instrumentation"
	"github.com/teemow/athena-mcp/internal/logging"
)

// APIVersion is the path segment placed between the base URL and the practice id.
const APIVersion = "v1"

// Client calls practice-scoped athenahealth endpoints with a bearer token
// obtained from its TokenCache.
type Client struct {
	cred       Credential
	httpClient *http.Client
	tokens     *TokenCache
	metrics    *instrumentation.Metrics
	logger     logging.Logger
}

// NewClient creates a client for the given credential. Unless WithTokenCache
// is given, a new TokenCache sharing the same options is created.
func NewClient(cred Credential, opts ...Option) *Client {
	o := newOptions(cred, opts)

	tokens := o.tokens
	if tokens == nil {
		// The cache scopes its own logger, so only the HTTP client is shared.
		tokenOpts := make([]Option, 0, len(opts)+1)
		tokenOpts = append(tokenOpts, opts...)
		tokenOpts = append(tokenOpts, WithHTTPClient(o.httpClient))
		tokens = NewTokenCache(cred, tokenOpts...)
	}

	return &Client{
		cred:       cred,
		httpClient: o.httpClient,
		tokens:     tokens,
		metrics:    o.metrics,
		logger:     o.logger,
	}
}

// Tokens returns the client's token cache.
func (c *Client) Tokens() *TokenCache {
	return c.tokens
}

// PracticeID returns the practice all requests are scoped to.
func (c *Client) PracticeID() string {
	return c.cred.PracticeID
}

// Request performs one authenticated call against endpoint (e.g. "/appointments")
// and returns the response body verbatim.
//
// body, when non-nil, is sent as JSON. query, when non-empty, is appended as
// the query string. 200 and 201 are treated as success, and an empty success
// body is returned as null; any other status is returned as an *APIError
// carrying the status and body. Token failures are
// returned as *AuthError and no resource call is made.
func (c *Client) Request(ctx context.Context, endpoint, method string, body any, query url.Values) (json.RawMessage, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	normalized := logging.NormalizeEndpoint(endpoint)
	ctx, span := instrumentation.StartAPISpan(ctx, method, normalized,
		instrumentation.NewSpanAttributeBuilder().
			WithPractice(c.cred.PracticeID).
			WithOperation(instrumentation.OperationForMethod(method)).
			Build()...)
	defer span.End()

	reqURL := c.cred.ResourceURL(endpoint)
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			instrumentation.SetSpanError(span, err)
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return nil, &APIError{Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(ctx, method, normalized, 0, start, err)
		instrumentation.SetSpanError(span, err)
		return nil, &APIError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.record(ctx, method, normalized, resp.StatusCode, start, err)
		instrumentation.SetSpanError(span, err)
		return nil, &APIError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
		c.record(ctx, method, normalized, resp.StatusCode, start, apiErr)
		instrumentation.SetSpanError(span, apiErr)
		return nil, apiErr
	}

	if len(bytes.TrimSpace(respBody)) == 0 {
		respBody = []byte("null")
	}
	if !json.Valid(respBody) {
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(respBody), Err: fmt.Errorf("response is not valid JSON")}
		c.record(ctx, method, normalized, resp.StatusCode, start, apiErr)
		instrumentation.SetSpanError(span, apiErr)
		return nil, apiErr
	}

	c.record(ctx, method, normalized, resp.StatusCode, start, nil)
	instrumentation.SetSpanSuccess(span)
	return json.RawMessage(respBody), nil
}

func (c *Client) record(ctx context.Context, method, endpoint string, statusCode int, start time.Time, err error) {
	duration := time.Since(start)
	if c.metrics != nil {
		c.metrics.RecordAPIRequest(ctx, method, endpoint, statusCode, duration)
	}

	attrs := []interface{}{
		logging.Method(method),
		logging.Endpoint(endpoint),
		logging.StatusCode(statusCode),
		"duration", duration,
	}
	if err != nil {
		c.logger.Warn("athena request failed", append(attrs, logging.Err(err))...)
		return
	}
	c.logger.Debug("athena request completed", attrs...)
}
