package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/archstack/fieldreport/internal/core/domain/credit"
	"github.com/archstack/fieldreport/internal/core/ports"
	"github.com/archstack/fieldreport/internal/infrastructure/httpserver/helpers"
)

type CreditMiddleware struct {
	credits           ports.CreditService
	logger            *logrus.Logger
	creditDebitsTotal *prometheus.CounterVec
}

func NewCreditMiddleware(credits ports.CreditService, logger *logrus.Logger, creditDebitsTotal *prometheus.CounterVec) *CreditMiddleware {
	return &CreditMiddleware{credits: credits, logger: logger, creditDebitsTotal: creditDebitsTotal}
}

// RequireCredits is the third and final gate stage. It debits cost credits
// up front; the handler only runs after the debit succeeded, and a failure
// inside the handler does not refund the debit.
func (m *CreditMiddleware) RequireCredits(cost int) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, err := helpers.GetUserIDFromContext(c)
			if err != nil {
				return err
			}

			remaining, err := m.credits.Debit(c.Request().Context(), userID, cost)
			if err != nil {
				var insufficient *credit.InsufficientCreditsError
				switch {
				case errors.As(err, &insufficient):
					if m.creditDebitsTotal != nil {
						m.creditDebitsTotal.WithLabelValues(c.Path(), "denied").Inc()
					}
					return echo.NewHTTPError(http.StatusPaymentRequired, map[string]interface{}{
						"message":   "insufficient credits",
						"available": insufficient.Available,
						"required":  insufficient.Required,
					})
				case errors.Is(err, credit.ErrAccountNotFound):
					return echo.NewHTTPError(http.StatusNotFound, "credit account not found")
				default:
					if m.logger != nil {
						m.logger.WithError(err).WithField("user_id", userID).Error("credit debit failed")
					}
					return echo.NewHTTPError(http.StatusServiceUnavailable, "credit ledger unavailable")
				}
			}

			if m.creditDebitsTotal != nil {
				m.creditDebitsTotal.WithLabelValues(c.Path(), "debited").Inc()
			}
			helpers.SetCreditsRemaining(c, remaining)
			c.Response().Header().Set("X-Credits-Remaining", fmt.Sprintf("%d", remaining))

			return next(c)
		}
	}
}
