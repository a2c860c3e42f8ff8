package model

// Config is the serializable client configuration, usually loaded from the environment.
type Config struct {
	BaseURL          string            `json:"baseUrl"`
	TimeoutSeconds   int               `json:"timeoutSeconds,omitempty"`
	RetryMaxAttempts int               `json:"retryMaxAttempts,omitempty"`
	CacheTTLSeconds  int               `json:"cacheTtlSeconds,omitempty"`
	RateLimitRPS     int               `json:"rateLimitRps,omitempty"`
	DefaultHeaders   map[string]string `json:"defaultHeaders,omitempty"`
}
