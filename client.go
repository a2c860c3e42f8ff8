// Package wrapi is a helper library for wrapping HTTP APIs.
//
// API calls are declared with the request package and sent with any
// request.Doer. Client is a Doer that decorates the caller's client with
// default headers, request IDs, rate limiting, retries, a GET response cache,
// metrics and tracing.
package wrapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/LerianStudio/lib-commons/commons/log"
	"github.com/LerianStudio/lib-commons/commons/zap"
	cn "github.com/LerianStudio/lib-wrapi-go/constant"
	libErr "github.com/LerianStudio/lib-wrapi-go/error"
	"github.com/LerianStudio/lib-wrapi-go/internal/cache"
	"github.com/LerianStudio/lib-wrapi-go/internal/config"
	"github.com/LerianStudio/lib-wrapi-go/internal/metrics"
	"github.com/LerianStudio/lib-wrapi-go/model"
	"github.com/LerianStudio/lib-wrapi-go/pkg"
	"github.com/LerianStudio/lib-wrapi-go/request"
	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

// Client is a request.Doer wrapping the caller's HTTP client
type Client struct {
	config    *config.ClientConfig
	doer      request.Doer
	cache     *cache.Manager
	limiter   *rate.Limiter
	metrics   *metrics.Recorder
	logger    log.Logger
	requestID bool
	tracing   bool
	registry  prometheus.Registerer
}

var _ request.Doer = (*Client)(nil)

// New creates a client sending requests relative to baseURL
func New(baseURL string, opts ...Option) (*Client, error) {
	cfg := config.NewDefaultConfig()
	cfg.BaseURL = baseURL

	return newClient(&cfg, opts)
}

// NewFromConfig creates a client from a serializable configuration, e.g. LoadFromEnv().
// Options are applied on top of the configuration.
func NewFromConfig(cfg model.Config, opts ...Option) (*Client, error) {
	probeCfg := config.NewDefaultConfig()
	probe := &Client{config: &probeCfg}

	for _, opt := range opts {
		opt(probe)
	}

	l := probe.logger
	if l == nil {
		l = zap.InitializeLogger()
	}

	clientCfg, err := config.FromModel(cfg, l)
	if err != nil {
		return nil, pkg.ValidateBusinessError(fmt.Errorf("%w: %w", cn.ErrInvalidConfig, err), "Config", err.Error())
	}

	return newClient(clientCfg, append([]Option{WithLogger(l)}, opts...))
}

func newClient(cfg *config.ClientConfig, opts []Option) (*Client, error) {
	c := &Client{config: cfg}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = zap.InitializeLogger()
	}

	if err := cfg.Validate(); err != nil {
		c.logger.Errorf("Invalid wrapi configuration: %s", err.Error())
		return nil, pkg.ValidateBusinessError(fmt.Errorf("%w: %w", cn.ErrInvalidConfig, err), "Config", err.Error())
	}

	if c.doer == nil {
		c.doer = &http.Client{Timeout: cfg.HTTPTimeout}
	}

	if c.tracing {
		c.doer = traced(c.doer)
	}

	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}

	if c.registry != nil {
		recorder, err := metrics.New(c.registry)
		if err != nil {
			c.logger.Errorf("Failed to register wrapi metrics: %s", err.Error())
			return nil, err
		}

		c.metrics = recorder
	}

	if cfg.CacheTTL > 0 {
		cacheManager, err := cache.New(cfg.CacheTTL, c.logger)
		if err != nil {
			c.logger.Errorf("Failed to initialize response cache: %s", err.Error())
			return nil, err
		}

		c.cache = cacheManager
	}

	return c, nil
}

// traced instruments an *http.Client transport. The caller's client is copied, not modified.
// Other Doer implementations are returned unchanged.
func traced(doer request.Doer) request.Doer {
	hc, ok := doer.(*http.Client)
	if !ok {
		return doer
	}

	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	instrumented := *hc
	instrumented.Transport = otelhttp.NewTransport(base)

	return &instrumented
}

// BaseURL returns the URL requests sent through Call are relative to
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// GetLogger returns the logger used by the client
func (c *Client) GetLogger() log.Logger {
	return c.logger
}

// Close releases the response cache
func (c *Client) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
}

// Do implements request.Doer. req is not modified.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	req = c.prepare(req)

	var key string

	if c.cache != nil && req.Method == http.MethodGet {
		if k, ok := cache.Key(req); ok {
			key = k

			if entry, found := c.cache.Get(key); found {
				return entry.Response(req), nil
			}
		}
	}

	start := time.Now()

	resp, err := c.send(ctx, req)

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}

	c.metrics.Observe(req.Method, status, time.Since(start))

	if err != nil {
		return nil, err
	}

	if key != "" && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return c.store(key, resp)
	}

	return resp, nil
}

func (c *Client) prepare(req *http.Request) *http.Request {
	out := req.Clone(req.Context())

	for k, vs := range c.config.DefaultHeaders {
		if out.Header.Get(k) != "" {
			continue
		}

		for _, v := range vs {
			out.Header.Add(k, v)
		}
	}

	if c.requestID && out.Header.Get(cn.RequestIDHeader) == "" {
		id, ok := RequestIDFromContext(req.Context())
		if !ok {
			id = uuid.NewString()
		}

		out.Header.Set(cn.RequestIDHeader, id)
	}

	return out
}

func (c *Client) store(key string, resp *http.Response) (*http.Response, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	c.cache.Store(key, cache.Entry{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       body,
	})

	resp.Body = io.NopCloser(bytes.NewReader(body))

	return resp, nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}

	return c.limiter.Wait(ctx)
}

// send executes req once, or with retries for idempotent methods when retries are enabled
func (c *Client) send(ctx context.Context, req *http.Request) (*http.Response, error) {
	if !c.config.RetryEnabled() || !pkg.ContainsMethod(cn.IdempotentMethods, req.Method) {
		if err := c.wait(ctx); err != nil {
			return nil, err
		}

		resp, err := c.doer.Do(req)
		if err != nil {
			c.logger.Warnf("Request %s %s failed - error: %s", req.Method, req.URL.Redacted(), err.Error())
		}

		return resp, err
	}

	maxAttempts := c.config.RetryMaxAttempts
	attempt := uint(0)

	operation := func() (*http.Response, error) {
		attempt++

		r, err := rewind(req, attempt)
		if err != nil {
			return nil, backoff.Permanent(err)
		}

		if err := c.wait(ctx); err != nil {
			return nil, backoff.Permanent(err)
		}

		resp, err := c.doer.Do(r)
		if err != nil {
			if !libErr.IsConnectionError(err) {
				return nil, backoff.Permanent(err)
			}

			return nil, err
		}

		if retryableStatus(resp.StatusCode) && attempt < maxAttempts {
			drain(resp)
			return nil, &libErr.ResponseError{StatusCode: resp.StatusCode, Header: resp.Header}
		}

		return resp, nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.config.RetryInitialInterval

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(maxAttempts),
		backoff.WithNotify(func(err error, next time.Duration) {
			c.logger.Warnf("Request %s %s retry %d/%d in %s - error: %s",
				req.Method, req.URL.Redacted(), attempt, maxAttempts, next, err.Error())
		}),
	)
}

// rewind returns the request to send for the given attempt, with a fresh body after the first
func rewind(req *http.Request, attempt uint) (*http.Request, error) {
	if attempt == 1 || req.Body == nil || req.Body == http.NoBody {
		return req, nil
	}

	if req.GetBody == nil {
		return nil, errors.New("request body cannot be replayed for retry")
	}

	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}

	r := req.Clone(req.Context())
	r.Body = body

	return r, nil
}

func retryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
