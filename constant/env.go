package constant

// Environment variable names
const (
	// EnvBaseURL is the base URL every request endpoint is joined to
	EnvBaseURL = "WRAPI_BASE_URL"

	// EnvTimeoutSeconds is the HTTP client timeout in seconds
	EnvTimeoutSeconds = "WRAPI_TIMEOUT_SECONDS"

	// EnvRetryMaxAttempts is the total number of attempts for idempotent requests
	EnvRetryMaxAttempts = "WRAPI_RETRY_MAX_ATTEMPTS"

	// EnvCacheTTLSeconds enables the GET response cache when greater than zero
	EnvCacheTTLSeconds = "WRAPI_CACHE_TTL_SECONDS"

	// EnvRateLimitRPS enables client side rate limiting when greater than zero
	EnvRateLimitRPS = "WRAPI_RATE_LIMIT_RPS"

	// Default headers (comma-separated list of key=value pairs)
	EnvDefaultHeaders = "WRAPI_DEFAULT_HEADERS"
)
