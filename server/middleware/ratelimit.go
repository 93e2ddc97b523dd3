package middleware

import (
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/userservice/errors"
	"github.com/kbukum/userservice/resilience"
	"github.com/kbukum/userservice/server/respond"
)

const sweepInterval = time.Minute

// RateLimitConfig throttles requests per client address.
type RateLimitConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// RequestsPerSecond is the sustained rate each client may use.
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	// Burst is how many requests a quiet client may send at once.
	Burst int `yaml:"burst" mapstructure:"burst"`
}

// ApplyDefaults fills zero values.
func (c *RateLimitConfig) ApplyDefaults() {
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = 5
	}
	if c.Burst <= 0 {
		c.Burst = 10
	}
}

// Validate checks the configuration.
func (c *RateLimitConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.RequestsPerSecond <= 0 || c.Burst <= 0 {
		return fmt.Errorf("rate_limit: requests_per_second and burst must be positive")
	}
	return nil
}

// KeyFunc extracts the rate-limit key from a request.
type KeyFunc func(c *gin.Context) string

// IPBasedKey keys requests by the client address.
func IPBasedKey(c *gin.Context) string { return c.ClientIP() }

// RateLimit rejects requests with 429 once the key's bucket is empty. A
// disabled config yields a pass-through handler.
func RateLimit(cfg RateLimitConfig, key KeyFunc) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	cfg.ApplyDefaults()
	if key == nil {
		key = IPBasedKey
	}

	limiter := resilience.NewKeyedLimiter(cfg.RequestsPerSecond, cfg.Burst)
	retryAfter := strconv.Itoa(int(math.Ceil(1 / cfg.RequestsPerSecond)))

	var mu sync.Mutex
	lastSweep := time.Now()

	return func(c *gin.Context) {
		mu.Lock()
		if time.Since(lastSweep) > sweepInterval {
			lastSweep = time.Now()
			mu.Unlock()
			limiter.Sweep()
		} else {
			mu.Unlock()
		}

		if !limiter.Allow(key(c)) {
			c.Header("Retry-After", retryAfter)
			respond.Error(c, apperrors.RateLimited())
			return
		}
		c.Next()
	}
}
