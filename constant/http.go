package constant

import (
	"net/http"
	"time"
)

// HeaderConstants defines HTTP header names used in requests
const (
	HeaderAccept      = "Accept"
	HeaderContentType = "Content-Type"
	// RequestIDHeader carries the per-request correlation ID
	RequestIDHeader = "X-Request-Id"
	// CacheStatusHeader is set to CacheHit on responses served from the cache
	CacheStatusHeader = "X-Wrapi-Cache"
	CacheHit          = "HIT"
)

// Content types
const (
	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"
)

// TimeConstants defines timeout and interval values
const (
	// DefaultHTTPTimeout is the timeout of the http.Client built when the caller supplies none
	DefaultHTTPTimeout = 30 * time.Second
	// DefaultRetryInitialInterval is the first backoff interval between attempts
	DefaultRetryInitialInterval = 200 * time.Millisecond
	// DefaultRateLimitBurst is used when a rate limit is configured from the environment
	DefaultRateLimitBurst = 1
)

// IdempotentMethods are the methods retried on transient failures
var IdempotentMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodOptions,
	http.MethodPut,
	http.MethodDelete,
}
