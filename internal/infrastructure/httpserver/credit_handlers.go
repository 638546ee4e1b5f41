package httpserver

import (
	"errors"
	"net/http"

	"github.com/archstack/fieldreport/internal/core/domain/credit"
	"github.com/archstack/fieldreport/internal/infrastructure/httpserver/helpers"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// getCreditBalance returns the caller's quota record
func (s *Server) getCreditBalance(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	account, err := s.creditSvc.Balance(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, credit.ErrAccountNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "credit account not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load credit account")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user_id":       account.UserID,
		"credits_total": account.CreditsTotal,
		"credits_used":  account.CreditsUsed,
		"available":     account.Available(),
	})
}

// listCreditUsage returns the caller's charged-operation history
func (s *Server) listCreditUsage(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	limit, offset := parseListParams(c)
	entries, err := s.creditSvc.ListUsage(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load usage log")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"usage": entries, "count": len(entries), "limit": limit, "offset": offset})
}

// grantCredits tops up a user's quota (admin only)
func (s *Server) grantCredits(c echo.Context) error {
	var req struct {
		UserID uuid.UUID `json:"user_id"`
		Amount int       `json:"amount"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.UserID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}
	if req.Amount <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "amount must be positive")
	}

	if err := s.creditSvc.Grant(c.Request().Context(), req.UserID, req.Amount); err != nil {
		if errors.Is(err, credit.ErrAccountNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "credit account not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to grant credits")
	}

	account, err := s.creditSvc.Balance(c.Request().Context(), req.UserID)
	if err != nil {
		return c.JSON(http.StatusOK, map[string]string{"message": "credits granted"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":       "credits granted",
		"user_id":       account.UserID,
		"credits_total": account.CreditsTotal,
		"available":     account.Available(),
	})
}
