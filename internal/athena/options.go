package athena

import (
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/teemow/athena-mcp/internal/instrumentation"
	"github.com/teemow/athena-mcp/internal/logging"
)

// Option configures a Client or TokenCache.
type Option func(*options)

type options struct {
	httpClient *http.Client
	now        func() time.Time
	metrics    *instrumentation.Metrics
	logger     logging.Logger
	tokens     *TokenCache
}

// WithHTTPClient sets the HTTP client used for both the token exchange and
// resource calls. The client's transport is used as-is.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.httpClient = hc
	}
}

// WithClock overrides the time source used for token expiry.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithMetrics records upstream requests and token exchanges.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithLogger sets the logger. Defaults to slog.Default(). Every line is
// written with the credential's practice id.
func WithLogger(l logging.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithTokenCache makes a Client share an existing TokenCache.
func WithTokenCache(tc *TokenCache) Option {
	return func(o *options) {
		o.tokens = tc
	}
}

func newOptions(cred Credential, opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   cred.HTTPTimeout,
		}
	}
	if o.now == nil {
		o.now = time.Now
	}
	if o.logger == nil {
		o.logger = logging.DefaultLogger()
	}
	o.logger = o.logger.With(logging.PracticeID(cred.PracticeID))
	return o
}
