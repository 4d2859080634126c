package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

// DefaultRateLimitConfig returns the limits applied when none are configured.
// Sized for a single clinic front desk plus its booking clients.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 50,
		BurstSize:         100,
	}
}

// bucket is a token bucket refilled continuously at rate tokens per second.
type bucket struct {
	tokens     float64
	capacity   float64
	rate       float64
	lastRefill time.Time
	mu         sync.Mutex
}

func newBucket(rate float64, burst int) *bucket {
	return &bucket{
		tokens:     float64(burst),
		capacity:   float64(burst),
		rate:       rate,
		lastRefill: time.Now(),
	}
}

// take refills for the elapsed time and consumes one token if available.
func (b *bucket) take() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.tokens += now.Sub(b.lastRefill).Seconds() * b.rate
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.lastRefill = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// retryAfter estimates whole seconds until the next token, at least 1.
func (b *bucket) retryAfter() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.rate <= 0 {
		return 1
	}
	return int((1-b.tokens)/b.rate) + 1
}

// tenantBuckets keys one bucket per tenant-and-address pair so a busy clinic
// cannot starve the others sharing the deployment.
type tenantBuckets struct {
	buckets map[string]*bucket
	mu      sync.RWMutex
	config  RateLimitConfig
}

func newTenantBuckets(cfg RateLimitConfig) *tenantBuckets {
	return &tenantBuckets{
		buckets: make(map[string]*bucket),
		config:  cfg,
	}
}

func (s *tenantBuckets) bucketFor(key string) *bucket {
	s.mu.RLock()
	b, ok := s.buckets[key]
	s.mu.RUnlock()
	if ok {
		return b
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.buckets[key]; ok {
		return b
	}
	b = newBucket(s.config.RequestsPerSecond, s.config.BurstSize)
	s.buckets[key] = b
	return b
}

// limitKey derives the bucket key: resolved tenant first, then the JWT
// tenant claim, always combined with the caller's address.
func limitKey(c echo.Context) string {
	ip := c.RealIP()
	if tenant, ok := c.Get("tenant_id").(string); ok && tenant != "" {
		return tenant + ":" + ip
	}
	if tenant, ok := c.Get("jwt_tenant_id").(string); ok && tenant != "" {
		return tenant + ":" + ip
	}
	return ip
}

// RateLimit returns a per-tenant rate limiting middleware.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	store := newTenantBuckets(cfg)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			b := store.bucketFor(limitKey(c))

			limit := strconv.FormatFloat(cfg.RequestsPerSecond, 'f', 0, 64)
			if !b.take() {
				c.Response().Header().Set("Retry-After", strconv.Itoa(b.retryAfter()))
				c.Response().Header().Set("X-RateLimit-Limit", limit)
				c.Response().Header().Set("X-RateLimit-Remaining", "0")
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}

			c.Response().Header().Set("X-RateLimit-Limit", limit)
			return next(c)
		}
	}
}
