package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type rateWindow struct {
	count int
	start time.Time
}

// RateLimitMemoryRepository keeps fixed-window counters in process-local
// memory. Correct for a single instance only; horizontally scaled
// deployments should use the Redis repository so all instances observe one
// window. A janitor sweeps windows that have expired so the map stays
// bounded by recently active users.
type RateLimitMemoryRepository struct {
	mu      sync.Mutex
	windows map[uuid.UUID]*rateWindow
	now     func() time.Time
	stop    chan struct{}
}

func NewRateLimitMemoryRepository(sweepInterval time.Duration) *RateLimitMemoryRepository {
	repo := &RateLimitMemoryRepository{
		windows: make(map[uuid.UUID]*rateWindow),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	if sweepInterval > 0 {
		go repo.janitor(sweepInterval)
	}
	return repo
}

// IncrementWindow applies the fixed-window algorithm: reset to 1 when the
// window has elapsed, otherwise increment. The increment is unconditional,
// so over-limit requests still consume the window.
func (r *RateLimitMemoryRepository) IncrementWindow(_ context.Context, userID uuid.UUID, window time.Duration, _ time.Duration) (int, time.Time, error) {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.windows[userID]
	if !ok || now.Sub(w.start) > window {
		w = &rateWindow{count: 1, start: now}
		r.windows[userID] = w
		return w.count, w.start, nil
	}
	w.count++
	return w.count, w.start, nil
}

// Sweep drops every window whose entry is older than maxAge. Exposed for
// tests; the janitor calls it on its interval.
func (r *RateLimitMemoryRepository) Sweep(maxAge time.Duration) int {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, w := range r.windows {
		if now.Sub(w.start) > maxAge {
			delete(r.windows, id)
			removed++
		}
	}
	return removed
}

func (r *RateLimitMemoryRepository) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.Sweep(interval)
		case <-r.stop:
			return
		}
	}
}

// Close stops the janitor goroutine.
func (r *RateLimitMemoryRepository) Close() {
	select {
	case <-r.stop:
	default:
		close(r.stop)
	}
}
