package services

import (
	"context"
	"time"

	"github.com/archstack/fieldreport/internal/core/ports"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RateLimiterService implements fixed-window admission control over a
// counter repository. The counter increments before the admit decision, so
// rejected requests are not free against the window.
type RateLimiterService struct {
	repo        ports.RateLimitRepository
	maxRequests int
	window      time.Duration
	logger      *logrus.Logger
}

// RateLimiterConfig groups configuration parameters for the rate limiter.
type RateLimiterConfig struct {
	MaxRequests int
	Window      time.Duration
}

func NewRateLimiterService(repo ports.RateLimitRepository, cfg *RateLimiterConfig, logger *logrus.Logger) *RateLimiterService {
	// Apply defaults
	mr := 30
	w := time.Minute
	if cfg != nil {
		if cfg.MaxRequests > 0 {
			mr = cfg.MaxRequests
		}
		if cfg.Window > 0 {
			w = cfg.Window
		}
	}
	return &RateLimiterService{repo: repo, maxRequests: mr, window: w, logger: logger}
}

func (s *RateLimiterService) Allow(ctx context.Context, userID uuid.UUID) (bool, int, int, time.Time, error) {
	ttl := s.window * 2 // retain overlap window
	count, windowStart, err := s.repo.IncrementWindow(ctx, userID, s.window, ttl)
	reset := windowStart.Add(s.window)
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"user_id": userID}).WithError(err).Error("rate limiter: failed to increment window")
		}
		// fail open
		return true, s.maxRequests, s.maxRequests, reset, err
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"user_id": userID, "count": count, "limit": s.maxRequests}).Debug("rate limiter window state")
	}
	if count > s.maxRequests {
		return false, 0, s.maxRequests, reset, nil
	}
	return true, s.maxRequests - count, s.maxRequests, reset, nil
}
