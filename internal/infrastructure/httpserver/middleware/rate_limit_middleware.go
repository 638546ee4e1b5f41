package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/archstack/fieldreport/internal/core/ports"
	"github.com/archstack/fieldreport/internal/infrastructure/httpserver/helpers"
)

type RateLimitMiddleware struct {
	rateLimiter      ports.RateLimiterService
	logger           *logrus.Logger
	rateLimitedTotal *prometheus.CounterVec
}

func NewRateLimitMiddleware(rateLimiter ports.RateLimiterService, logger *logrus.Logger, rateLimitedTotal *prometheus.CounterVec) *RateLimitMiddleware {
	return &RateLimitMiddleware{rateLimiter: rateLimiter, logger: logger, rateLimitedTotal: rateLimitedTotal}
}

// Handler is the second gate stage. It runs after RequireJWT, so the user id
// is always present; a 429 here means the credit ledger is never touched for
// this request. A rejected request still consumed a slot in its window.
func (r *RateLimitMiddleware) Handler() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, err := helpers.GetUserIDFromContext(c)
			if err != nil {
				return err
			}

			allowed, remaining, limit, reset, rlErr := r.rateLimiter.Allow(c.Request().Context(), userID)
			c.Response().Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
			c.Response().Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
			c.Response().Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", reset.Unix()))

			if rlErr != nil {
				if r.logger != nil {
					r.logger.WithError(rlErr).WithField("user_id", userID).Warn("rate limiter error; allowing request (fail-open)")
				}
				return next(c)
			}

			if !allowed {
				if r.rateLimitedTotal != nil {
					r.rateLimitedTotal.WithLabelValues(c.Path()).Inc()
				}
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
