package constant

import "time"

// Cache configuration constants
const (
	// DefaultCacheTTL defines the time-to-live for cached GET responses
	DefaultCacheTTL = 5 * time.Minute
	// CacheNumCounters is the number of keys to track frequency (10M)
	CacheNumCounters = 1e7
	// CacheMaxCost is the maximum cost of cache in body bytes (64MB)
	CacheMaxCost = 64 << 20
	// CacheBufferItems is the number of keys per Get buffer
	CacheBufferItems = 64
	// CacheTtlTickerDurationInSec is the duration of the TTL ticker
	CacheTtlTickerDurationInSec = 60
)
