package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RateLimitRepository provides low-level atomic operations for fixed-window
// request counters. Implementations must be safe for concurrent use; the
// counter increments before the admit decision, so a rejected request still
// counts toward its window.
type RateLimitRepository interface {
	// IncrementWindow increments the user's counter for the current window,
	// resetting it when the window has elapsed, and ensures the entry
	// expires after ttl. Returns the updated count and the window start.
	IncrementWindow(ctx context.Context, userID uuid.UUID, window time.Duration, ttl time.Duration) (count int, windowStart time.Time, err error)
}

// RateLimiterService decides per-user admission for metered endpoints.
// Implementations MUST be safe for concurrent use.
type RateLimiterService interface {
	// Allow consumes one request unit for the user and reports whether it is
	// permitted.
	// remaining: requests left in the current window after this one (>=0)
	// limit: configured max requests per window
	// reset: time when the current window resets
	Allow(ctx context.Context, userID uuid.UUID) (allowed bool, remaining int, limit int, reset time.Time, err error)
}
