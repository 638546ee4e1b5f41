package httpserver_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/archstack/fieldreport/internal/core/domain/auth"
	"github.com/archstack/fieldreport/internal/core/domain/credit"
	"github.com/archstack/fieldreport/internal/core/domain/user"
	"github.com/archstack/fieldreport/internal/infrastructure/httpserver/helpers"
	"github.com/archstack/fieldreport/internal/infrastructure/httpserver/middleware"
	tmocks "github.com/archstack/fieldreport/test/mocks"
)

func okHandler(c echo.Context) error { return c.NoContent(http.StatusOK) }

func newGateContext(t *testing.T, token string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/ai/reports", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func validAuthMock(userID uuid.UUID) *tmocks.AuthServiceMock {
	return &tmocks.AuthServiceMock{
		ValidateTokenFn: func(ctx context.Context, token string) (*auth.Claims, error) {
			return &auth.Claims{UserID: userID, Email: "jane@example.com", Role: user.RoleUser}, nil
		},
	}
}

// gateChain composes the three stages the way the metered routes do.
func gateChain(authSvc *tmocks.AuthServiceMock, limiter *tmocks.RateLimiterServiceMock, credits *tmocks.CreditServiceMock, cost int, handler echo.HandlerFunc) echo.HandlerFunc {
	logger := logrus.New()
	jwtMW := middleware.NewJWTMiddleware(authSvc, logger)
	rlMW := middleware.NewRateLimitMiddleware(limiter, logger, nil)
	creditMW := middleware.NewCreditMiddleware(credits, logger, nil)
	return jwtMW.RequireJWT()(rlMW.Handler()(creditMW.RequireCredits(cost)(handler)))
}

func TestGate_MissingTokenTouchesNothing(t *testing.T) {
	limiter := &tmocks.RateLimiterServiceMock{}
	credits := &tmocks.CreditServiceMock{}
	h := gateChain(&tmocks.AuthServiceMock{}, limiter, credits, 2, okHandler)

	c, _ := newGateContext(t, "")
	err := h(c)
	require.Error(t, err)
	htErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, htErr.Code)
	require.Equal(t, 0, limiter.Calls)
	require.Equal(t, 0, credits.DebitCalls)
}

func TestGate_InvalidTokenTouchesNothing(t *testing.T) {
	authSvc := &tmocks.AuthServiceMock{
		ValidateTokenFn: func(ctx context.Context, token string) (*auth.Claims, error) {
			return nil, fmt.Errorf("expired")
		},
	}
	limiter := &tmocks.RateLimiterServiceMock{}
	credits := &tmocks.CreditServiceMock{}
	h := gateChain(authSvc, limiter, credits, 2, okHandler)

	c, _ := newGateContext(t, "expired-token")
	err := h(c)
	require.Error(t, err)
	htErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, htErr.Code)
	require.Equal(t, 0, limiter.Calls)
	require.Equal(t, 0, credits.DebitCalls)
}

func TestGate_RateLimitedNeverDebits(t *testing.T) {
	userID := uuid.New()
	reset := time.Now().Add(30 * time.Second)
	limiter := &tmocks.RateLimiterServiceMock{
		AllowFn: func(ctx context.Context, id uuid.UUID) (bool, int, int, time.Time, error) {
			return false, 0, 30, reset, nil
		},
	}
	credits := &tmocks.CreditServiceMock{}
	h := gateChain(validAuthMock(userID), limiter, credits, 2, okHandler)

	c, rec := newGateContext(t, "good-token")
	err := h(c)
	require.Error(t, err)
	htErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusTooManyRequests, htErr.Code)
	require.Equal(t, 0, credits.DebitCalls)
	require.Equal(t, "30", rec.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	require.Equal(t, fmt.Sprintf("%d", reset.Unix()), rec.Header().Get("X-RateLimit-Reset"))
}

func TestGate_LimiterErrorFailsOpen(t *testing.T) {
	userID := uuid.New()
	limiter := &tmocks.RateLimiterServiceMock{
		AllowFn: func(ctx context.Context, id uuid.UUID) (bool, int, int, time.Time, error) {
			return true, 30, 30, time.Now(), fmt.Errorf("redis down")
		},
	}
	credits := &tmocks.CreditServiceMock{
		DebitFn: func(ctx context.Context, id uuid.UUID, amount int) (int, error) { return 8, nil },
	}
	h := gateChain(validAuthMock(userID), limiter, credits, 2, okHandler)

	c, _ := newGateContext(t, "good-token")
	require.NoError(t, h(c))
	require.Equal(t, 1, credits.DebitCalls)
}

func TestGate_InsufficientCreditsReturns402WithShortfall(t *testing.T) {
	userID := uuid.New()
	credits := &tmocks.CreditServiceMock{
		DebitFn: func(ctx context.Context, id uuid.UUID, amount int) (int, error) {
			return 0, &credit.InsufficientCreditsError{Available: 1, Required: 2}
		},
	}
	h := gateChain(validAuthMock(userID), &tmocks.RateLimiterServiceMock{}, credits, 2, okHandler)

	c, _ := newGateContext(t, "good-token")
	err := h(c)
	require.Error(t, err)
	htErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusPaymentRequired, htErr.Code)

	payload, ok := htErr.Message.(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, 1, payload["available"])
	require.Equal(t, 2, payload["required"])
}

func TestGate_MissingAccountReturns404(t *testing.T) {
	userID := uuid.New()
	credits := &tmocks.CreditServiceMock{
		DebitFn: func(ctx context.Context, id uuid.UUID, amount int) (int, error) {
			return 0, credit.ErrAccountNotFound
		},
	}
	h := gateChain(validAuthMock(userID), &tmocks.RateLimiterServiceMock{}, credits, 2, okHandler)

	c, _ := newGateContext(t, "good-token")
	err := h(c)
	require.Error(t, err)
	htErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusNotFound, htErr.Code)
}

func TestGate_LedgerErrorReturns503(t *testing.T) {
	userID := uuid.New()
	credits := &tmocks.CreditServiceMock{
		DebitFn: func(ctx context.Context, id uuid.UUID, amount int) (int, error) {
			return 0, fmt.Errorf("connection refused")
		},
	}
	h := gateChain(validAuthMock(userID), &tmocks.RateLimiterServiceMock{}, credits, 2, okHandler)

	c, _ := newGateContext(t, "good-token")
	err := h(c)
	require.Error(t, err)
	htErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusServiceUnavailable, htErr.Code)
}

func TestGate_SuccessSetsRemainingHeaderAndContext(t *testing.T) {
	userID := uuid.New()
	credits := &tmocks.CreditServiceMock{
		DebitFn: func(ctx context.Context, id uuid.UUID, amount int) (int, error) {
			require.Equal(t, userID, id)
			require.Equal(t, 2, amount)
			return 8, nil
		},
	}
	var seenRemaining int
	handler := func(c echo.Context) error {
		remaining, ok := helpers.GetCreditsRemainingRaw(c)
		require.True(t, ok)
		seenRemaining = remaining
		return c.NoContent(http.StatusOK)
	}
	h := gateChain(validAuthMock(userID), &tmocks.RateLimiterServiceMock{}, credits, 2, handler)

	c, rec := newGateContext(t, "good-token")
	require.NoError(t, h(c))
	require.Equal(t, 8, seenRemaining)
	require.Equal(t, "8", rec.Header().Get("X-Credits-Remaining"))
	require.Equal(t, "30", rec.Header().Get("X-RateLimit-Limit"))
}

// A handler failure after the debit does not give the credits back.
func TestGate_NoRefundOnDownstreamFailure(t *testing.T) {
	userID := uuid.New()
	grantCalled := false
	credits := &tmocks.CreditServiceMock{
		DebitFn: func(ctx context.Context, id uuid.UUID, amount int) (int, error) { return 8, nil },
		GrantFn: func(ctx context.Context, id uuid.UUID, amount int) error { grantCalled = true; return nil },
	}
	failing := func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusBadGateway, "upstream AI failure")
	}
	h := gateChain(validAuthMock(userID), &tmocks.RateLimiterServiceMock{}, credits, 2, failing)

	c, _ := newGateContext(t, "good-token")
	err := h(c)
	require.Error(t, err)
	require.Equal(t, 1, credits.DebitCalls)
	require.False(t, grantCalled)
}

// Each request through the gate is charged, including identical repeats.
func TestGate_RepeatedRequestsDebitEachTime(t *testing.T) {
	userID := uuid.New()
	balance := 10
	credits := &tmocks.CreditServiceMock{
		DebitFn: func(ctx context.Context, id uuid.UUID, amount int) (int, error) {
			balance -= amount
			return balance, nil
		},
	}
	h := gateChain(validAuthMock(userID), &tmocks.RateLimiterServiceMock{}, credits, 2, okHandler)

	c1, _ := newGateContext(t, "good-token")
	require.NoError(t, h(c1))
	c2, _ := newGateContext(t, "good-token")
	require.NoError(t, h(c2))

	require.Equal(t, 2, credits.DebitCalls)
	require.Equal(t, 6, balance)
}

func TestAdminMiddleware_RejectsNonAdmin(t *testing.T) {
	e := echo.New()
	m := middleware.NewAdminMiddleware()
	h := m.RequireAdmin()(okHandler)

	req := httptest.NewRequest(http.MethodPost, "/credits/grant", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	helpers.SetUserID(c, uuid.New())
	helpers.SetUserRole(c, user.RoleUser)

	err := h(c)
	require.Error(t, err)
	htErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusForbidden, htErr.Code)
}

func TestAdminMiddleware_AllowsAdmin(t *testing.T) {
	e := echo.New()
	m := middleware.NewAdminMiddleware()
	h := m.RequireAdmin()(okHandler)

	req := httptest.NewRequest(http.MethodPost, "/credits/grant", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	helpers.SetUserID(c, uuid.New())
	helpers.SetUserRole(c, user.RoleAdmin)

	require.NoError(t, h(c))
}
