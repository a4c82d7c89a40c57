package fetcher

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// FeedConfig holds the configuration for talking to the AccessTrade
// offer API.
//
// Security settings:
//   - Token: API credential, sent as an Authorization header
//   - MaxBodySize: Prevents memory exhaustion from oversized responses
//   - Timeout: Prevents resource starvation from slow servers
//
// Throughput settings:
//   - RateLimit / RateBurst: Client-side cap on upstream request rate
type FeedConfig struct {
	// BaseURL is the root of the AccessTrade API, without a trailing slash.
	// Default: https://api.accesstrade.vn
	BaseURL string

	// Token is the AccessTrade access token. Required; there is no default.
	Token string

	// Domain restricts the feed to offers for one publisher domain.
	// Sent as the "domain" query parameter when non-empty.
	Domain string

	// Timeout is the maximum duration for a single HTTP request.
	// Default: 30s
	Timeout time.Duration

	// RateLimit is the maximum number of upstream requests per second.
	// Default: 2
	RateLimit float64

	// RateBurst is the burst size allowed by the rate limiter.
	// Default: 1
	RateBurst int

	// MaxBodySize is the maximum HTTP response body size in bytes.
	// Responses exceeding this limit are rejected while reading.
	// Default: 20971520 (20MB)
	MaxBodySize int64
}

// DefaultConfig returns the default feed configuration. The token is
// intentionally left empty; it must come from the environment.
func DefaultConfig() FeedConfig {
	return FeedConfig{
		BaseURL:     "https://api.accesstrade.vn",
		Timeout:     30 * time.Second,
		RateLimit:   2,
		RateBurst:   1,
		MaxBodySize: 20 * 1024 * 1024, // 20MB
	}
}

// Validate checks if the configuration values are valid and safe.
func (c *FeedConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL must not be empty")
	}

	if c.Token == "" {
		return fmt.Errorf("access token must not be empty")
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}

	if c.RateLimit <= 0 {
		return fmt.Errorf("rate limit must be positive, got %v", c.RateLimit)
	}

	if c.RateBurst < 1 {
		return fmt.Errorf("rate burst must be at least 1, got %d", c.RateBurst)
	}

	minBodySize := int64(1024)              // 1KB
	maxBodySize := int64(100 * 1024 * 1024) // 100MB
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}

	return nil
}

// LoadConfigFromEnv loads the feed configuration from environment
// variables. Unset variables fall back to defaults; the token has no
// default and must be present.
//
// Environment variables:
//   - ACCESSTRADE_API_URL: base URL (default: https://api.accesstrade.vn)
//   - ACCESSTRADE_ACCESS_TOKEN: API credential (required)
//   - ACCESSTRADE_DOMAIN: publisher domain filter (default: unset)
//   - OFFER_FETCH_TIMEOUT: duration string, e.g. "30s" (default: 30s)
//   - OFFER_FETCH_RATE_LIMIT: requests per second (default: 2)
//   - OFFER_FETCH_MAX_BODY_SIZE: integer in bytes (default: 20971520)
func LoadConfigFromEnv() (FeedConfig, error) {
	cfg := DefaultConfig()

	if val := os.Getenv("ACCESSTRADE_API_URL"); val != "" {
		cfg.BaseURL = val
	}

	cfg.Token = os.Getenv("ACCESSTRADE_ACCESS_TOKEN")
	cfg.Domain = os.Getenv("ACCESSTRADE_DOMAIN")

	if val := os.Getenv("OFFER_FETCH_TIMEOUT"); val != "" {
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid OFFER_FETCH_TIMEOUT: %v (expected format: '30s', '1m')", err)
		}
		cfg.Timeout = parsed
	}

	if val := os.Getenv("OFFER_FETCH_RATE_LIMIT"); val != "" {
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid OFFER_FETCH_RATE_LIMIT: %v", err)
		}
		cfg.RateLimit = parsed
	}

	if val := os.Getenv("OFFER_FETCH_MAX_BODY_SIZE"); val != "" {
		parsed, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid OFFER_FETCH_MAX_BODY_SIZE: %v", err)
		}
		cfg.MaxBodySize = parsed
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
