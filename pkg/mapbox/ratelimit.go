package mapbox

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// Service names for rate limiting
	ServiceSearchBox  = "searchbox"
	ServiceGeocoding  = "geocoding"
	ServiceDirections = "directions"
	ServiceIsochrone  = "isochrone"
)

// RateLimiter manages rate limiting for the Mapbox API services
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
}

var (
	// globalRateLimiter is the singleton rate limiter instance
	globalRateLimiter *RateLimiter

	// rateLimiterOnce ensures we only create the rate limiter once
	rateLimiterOnce sync.Once
)

// GetRateLimiter returns the global rate limiter instance
func GetRateLimiter() *RateLimiter {
	rateLimiterOnce.Do(func() {
		// Default Mapbox rate limits are per-minute buckets; stay well
		// under them so bursts of tool calls never trip HTTP 429.
		limiters := make(map[string]*rate.Limiter)

		// Search Box: 10 requests per second covers a full suggest +
		// ten-candidate retrieve fan-out within a session.
		limiters[ServiceSearchBox] = rate.NewLimiter(rate.Every(100*time.Millisecond), 10)

		// Geocoding: 600 requests per minute allowed, keep to 5/s.
		limiters[ServiceGeocoding] = rate.NewLimiter(rate.Every(200*time.Millisecond), 5)

		// Directions: 300 requests per minute allowed.
		limiters[ServiceDirections] = rate.NewLimiter(rate.Every(250*time.Millisecond), 2)

		// Isochrone: 300 requests per minute allowed.
		limiters[ServiceIsochrone] = rate.NewLimiter(rate.Every(250*time.Millisecond), 2)

		globalRateLimiter = &RateLimiter{
			limiters: limiters,
		}
	})

	return globalRateLimiter
}

// Wait blocks until the rate limit for the specified service allows an event
// or the context is canceled.
func (rl *RateLimiter) Wait(ctx context.Context, service string) error {
	rl.mu.RLock()
	limiter, exists := rl.limiters[service]
	rl.mu.RUnlock()

	if !exists {
		return fmt.Errorf("no rate limiter defined for service: %s", service)
	}

	// Wait for rate limiter or context cancellation
	err := limiter.Wait(ctx)
	if err != nil {
		slog.Debug("rate limiter wait error", "service", service, "error", err)
		return err
	}

	return nil
}

// WaitForService is a convenience function to wait for a service's rate limit
// using the global rate limiter
func WaitForService(ctx context.Context, service string) error {
	return GetRateLimiter().Wait(ctx, service)
}
