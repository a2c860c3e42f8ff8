package wrapi

import (
	"net/http"
	"time"

	"github.com/LerianStudio/lib-commons/commons/log"
	cn "github.com/LerianStudio/lib-wrapi-go/constant"
	"github.com/LerianStudio/lib-wrapi-go/request"
	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets the Doer requests are delegated to. Defaults to an *http.Client
// with the configured timeout.
func WithHTTPClient(doer request.Doer) Option {
	return func(c *Client) {
		c.doer = doer
	}
}

// WithLogger sets the logger. Defaults to the lib-commons zap logger.
func WithLogger(l log.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithTimeout sets the timeout of the default HTTP client. It has no effect with WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.config.HTTPTimeout = d
	}
}

// WithDefaultHeader adds a header sent with every request that does not set it
func WithDefaultHeader(key, value string) Option {
	return func(c *Client) {
		if c.config.DefaultHeaders == nil {
			c.config.DefaultHeaders = make(http.Header)
		}

		c.config.DefaultHeaders.Add(key, value)
	}
}

// WithDefaultHeaders sets several default headers at once
func WithDefaultHeaders(headers map[string]string) Option {
	return func(c *Client) {
		if c.config.DefaultHeaders == nil {
			c.config.DefaultHeaders = make(http.Header)
		}

		for k, v := range headers {
			c.config.DefaultHeaders.Set(k, v)
		}
	}
}

// WithRequestID sends an X-Request-Id header with every request. The ID is taken
// from the request context (see ContextWithRequestID) or generated.
func WithRequestID() Option {
	return func(c *Client) {
		c.requestID = true
	}
}

// WithRateLimit limits outgoing requests to rps per second with the given burst
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		c.config.RateLimit = rps
		c.config.RateBurst = burst
	}
}

// WithRetry retries idempotent requests on connection errors, 429 and 5xx responses.
// maxAttempts counts the first attempt.
func WithRetry(maxAttempts uint, initialInterval time.Duration) Option {
	return func(c *Client) {
		c.config.RetryMaxAttempts = maxAttempts

		if initialInterval > 0 {
			c.config.RetryInitialInterval = initialInterval
		}
	}
}

// WithCache caches successful GET responses for ttl, or cn.DefaultCacheTTL when ttl is zero
func WithCache(ttl time.Duration) Option {
	return func(c *Client) {
		c.config.CacheTTL = ttl
		if ttl == 0 {
			c.config.CacheTTL = cn.DefaultCacheTTL
		}
	}
}

// WithMetrics registers request counters and latency histograms on reg
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *Client) {
		c.registry = reg
	}
}

// WithTracing wraps the transport of the HTTP client with OpenTelemetry instrumentation
func WithTracing() Option {
	return func(c *Client) {
		c.tracing = true
	}
}
