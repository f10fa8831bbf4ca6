package shared

import "time"

// Server Configuration
const (
	DefaultConfigPath      = "config/settings.yaml"
	DefaultListenAddr      = ":8080"
	DefaultBodyLimit       = "1M"
	DefaultShutdownTimeout = 30 * time.Second
)

// Header Configuration
const (
	APIKeyHeader    = "x-api-key"
	RequestIDHeader = "X-Request-Id"
	MaxRequestIDLen = 64
	RequestIDPrefix = "req_"
)

// Cache Configuration
const (
	DefaultCacheTTL     = 10 * time.Minute
	CacheRequestTimeout = 250 * time.Millisecond
)

// Rate Limit Configuration
const (
	RateLimitStoreExpiry = 3 * time.Minute
)

// ProbabilityPrecision is the number of decimals kept on returned probabilities
const ProbabilityPrecision = 6
