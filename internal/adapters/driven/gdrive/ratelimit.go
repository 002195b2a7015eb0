package gdrive

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// API identifies a Google API for rate limiting purposes.
type API string

const (
	// APIDrive is the Drive v3 API (listing and PDF downloads).
	APIDrive API = "drive"
	// APIDocs is the Docs v1 API.
	APIDocs API = "docs"
	// APISheets is the Sheets v4 API.
	APISheets API = "sheets"
)

// RateLimitConfig holds rate limiting configuration for an API.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
}

// DefaultRateLimits stays below the per-user read quotas of each API.
var DefaultRateLimits = map[API]RateLimitConfig{
	APIDrive:  {RequestsPerSecond: 8.0, BurstSize: 10}, // Google allows 10/sec/user
	APIDocs:   {RequestsPerSecond: 4.0, BurstSize: 8},  // 300 reads/min/user
	APISheets: {RequestsPerSecond: 1.0, BurstSize: 4},  // 60 reads/min/user
}

// DefaultBackoff is used when a 429 carries no Retry-After.
const DefaultBackoff = 60 * time.Second

// RateLimiter paces requests to one Google API.
// It uses a token bucket with an extra backoff window after 429 responses.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
	api     API
	now     func() time.Time
}

// NewRateLimiter creates a rate limiter for the given API.
func NewRateLimiter(api API) *RateLimiter {
	cfg, ok := DefaultRateLimits[api]
	if !ok {
		cfg = RateLimitConfig{RequestsPerSecond: 5.0, BurstSize: 10}
	}
	l := NewRateLimiterWithConfig(cfg)
	l.api = api
	return l
}

func driveLimiter(l *RateLimiter) *RateLimiter {
	if l == nil {
		return NewRateLimiter(APIDrive)
	}
	return l
}

// NewRateLimiterWithConfig creates a rate limiter with custom configuration.
func NewRateLimiterWithConfig(cfg RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
		now:     time.Now,
	}
}

// API returns the API the limiter paces.
func (r *RateLimiter) API() API {
	return r.api
}

// Wait blocks until a request can be made without exceeding the rate limit.
// It also respects any backoff window set by Backoff.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if r == nil {
		return nil
	}

	r.mu.Lock()
	retryAt := r.retryAt
	now := r.now()
	r.mu.Unlock()

	if now.Before(retryAt) {
		t := time.NewTimer(retryAt.Sub(now))
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}

	return r.limiter.Wait(ctx)
}

// Backoff blocks further requests for d. A non-positive d uses DefaultBackoff.
// A shorter window never replaces a longer one already in force.
func (r *RateLimiter) Backoff(d time.Duration) {
	if r == nil {
		return
	}
	if d <= 0 {
		d = DefaultBackoff
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if at := r.now().Add(d); at.After(r.retryAt) {
		r.retryAt = at
	}
}

// Allow reports whether a request can be made immediately.
func (r *RateLimiter) Allow() bool {
	r.mu.Lock()
	retryAt := r.retryAt
	now := r.now()
	r.mu.Unlock()

	if now.Before(retryAt) {
		return false
	}

	return r.limiter.Allow()
}
