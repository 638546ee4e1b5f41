package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/archstack/fieldreport/internal/core/ports"
)

// MiddlewareCollection holds all middleware instances
type MiddlewareCollection struct {
	JWT       *JWTMiddleware
	Admin     *AdminMiddleware
	RateLimit *RateLimitMiddleware
	Credits   *CreditMiddleware
	Logging   *LoggingMiddleware
	Metrics   *MetricsMiddleware
}

// NewMiddlewareCollection creates a new collection of all middleware
func NewMiddlewareCollection(
	authService ports.AuthService,
	rateLimiterService ports.RateLimiterService,
	creditService ports.CreditService,
	logger *logrus.Logger,
	requestsTotal *prometheus.CounterVec,
	requestDuration *prometheus.HistogramVec,
	rateLimitedTotal *prometheus.CounterVec,
	creditDebitsTotal *prometheus.CounterVec,
) *MiddlewareCollection {
	return &MiddlewareCollection{
		JWT:       NewJWTMiddleware(authService, logger),
		Admin:     NewAdminMiddleware(),
		RateLimit: NewRateLimitMiddleware(rateLimiterService, logger, rateLimitedTotal),
		Credits:   NewCreditMiddleware(creditService, logger, creditDebitsTotal),
		Logging:   NewLoggingMiddleware(logger),
		Metrics:   NewMetricsMiddleware(requestsTotal, requestDuration),
	}
}
