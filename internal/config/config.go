package config

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/LerianStudio/lib-commons/commons/log"
	cn "github.com/LerianStudio/lib-wrapi-go/constant"
	"github.com/LerianStudio/lib-wrapi-go/model"
)

// ClientConfig holds the resolved configuration of a wrapi client
type ClientConfig struct {
	BaseURL        string
	DefaultHeaders http.Header

	// HTTP configuration
	HTTPTimeout time.Duration

	// Retry configuration. RetryMaxAttempts counts the first attempt; 0 or 1 disables retries.
	RetryMaxAttempts     uint
	RetryInitialInterval time.Duration

	// Cache configuration. A zero TTL disables the GET response cache.
	CacheTTL time.Duration

	// Rate limiting. A zero rate disables the limiter.
	RateLimit float64
	RateBurst int
}

// NewDefaultConfig creates a new config with sensible defaults
func NewDefaultConfig() ClientConfig {
	return ClientConfig{
		DefaultHeaders:       make(http.Header),
		HTTPTimeout:          cn.DefaultHTTPTimeout,
		RetryInitialInterval: cn.DefaultRetryInitialInterval,
		RateBurst:            cn.DefaultRateLimitBurst,
	}
}

// Validate checks if the configuration is valid
func (c *ClientConfig) Validate() error {
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil {
			return fmt.Errorf("base URL is invalid: %w", err)
		}

		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.New("base URL must be an absolute http or https URL")
		}
	}

	if c.HTTPTimeout < 0 {
		return errors.New("http timeout must not be negative")
	}

	if c.CacheTTL < 0 {
		return errors.New("cache TTL must not be negative")
	}

	if c.RateLimit < 0 {
		return errors.New("rate limit must not be negative")
	}

	if c.RateLimit > 0 && c.RateBurst < 1 {
		return errors.New("rate burst must be at least 1 when a rate limit is set")
	}

	return nil
}

// RetryEnabled reports whether failed idempotent requests are retried
func (c *ClientConfig) RetryEnabled() bool {
	return c.RetryMaxAttempts > 1
}

// FromModel converts a model.Config to a ClientConfig
func FromModel(cfg model.Config, logger log.Logger) (*ClientConfig, error) {
	config := NewDefaultConfig()
	config.BaseURL = cfg.BaseURL

	if cfg.TimeoutSeconds > 0 {
		config.HTTPTimeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	if cfg.RetryMaxAttempts > 0 {
		config.RetryMaxAttempts = uint(cfg.RetryMaxAttempts)
	}

	if cfg.CacheTTLSeconds > 0 {
		config.CacheTTL = time.Duration(cfg.CacheTTLSeconds) * time.Second
	}

	if cfg.RateLimitRPS > 0 {
		config.RateLimit = float64(cfg.RateLimitRPS)
	}

	for k, v := range cfg.DefaultHeaders {
		config.DefaultHeaders.Set(k, v)
	}

	if err := config.Validate(); err != nil {
		logger.Errorf("Invalid wrapi configuration: %s", err.Error())
		return nil, err
	}

	return &config, nil
}
