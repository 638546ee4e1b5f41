package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/archstack/fieldreport/internal/core/domain/auth"
	"github.com/archstack/fieldreport/internal/core/domain/credit"
	"github.com/archstack/fieldreport/internal/core/domain/report"
	"github.com/archstack/fieldreport/internal/core/domain/user"
	fr_http "github.com/archstack/fieldreport/internal/infrastructure/httpserver"
	"github.com/archstack/fieldreport/test/mocks"
)

type gateFixture struct {
	server   *httptest.Server
	auth     *mocks.AuthServiceMock
	limiter  *mocks.RateLimiterServiceMock
	credits  *mocks.CreditServiceMock
	reports  *mocks.ReportServiceMock
	usageOps []credit.Operation
	userID   uuid.UUID
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()
	f := &gateFixture{
		auth:    &mocks.AuthServiceMock{},
		limiter: &mocks.RateLimiterServiceMock{},
		credits: &mocks.CreditServiceMock{},
		reports: &mocks.ReportServiceMock{},
		userID:  uuid.New(),
	}
	f.auth.ValidateTokenFn = func(ctx context.Context, token string) (*auth.Claims, error) {
		if token != "good-token" {
			return nil, fmt.Errorf("invalid token")
		}
		return &auth.Claims{UserID: f.userID, Email: "jane@example.com", Role: user.RoleUser}, nil
	}
	f.credits.DebitFn = func(ctx context.Context, id uuid.UUID, amount int) (int, error) { return 8, nil }
	f.credits.RecordUsageFn = func(ctx context.Context, id uuid.UUID, op credit.Operation, cost int) error {
		f.usageOps = append(f.usageOps, op)
		return nil
	}
	f.reports.GenerateReportFn = func(ctx context.Context, ownerID uuid.UUID, req *report.GenerateRequest) (*report.Result, error) {
		return &report.Result{HTML: "<html>report</html>"}, nil
	}

	deps := fr_http.ServerDeps{
		AuthService:        f.auth,
		CreditService:      f.credits,
		ReportService:      f.reports,
		RateLimiterService: f.limiter,
		EmailService:       &mocks.EmailServiceMock{},
	}
	costs := fr_http.CreditCosts{Transcription: 1, Report: 2, Refine: 1, Template: 1}
	srv := fr_http.NewServer(&fr_http.ServerConfig{Host: "127.0.0.1", Port: "0", ReadTimeout: time.Second, WriteTimeout: time.Second, IdleTimeout: time.Second}, costs, logrus.New(), deps)

	f.server = httptest.NewServer(srv.Echo())
	t.Cleanup(f.server.Close)
	return f
}

func (f *gateFixture) post(t *testing.T, path, token string, body interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, f.server.URL+path, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestGenerateReportEndpoint_FullGateSuccess(t *testing.T) {
	f := newGateFixture(t)

	resp := f.post(t, "/api/v1/ai/reports", "good-token", map[string]string{"transcript": "we walked the site"})
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "8", resp.Header.Get("X-Credits-Remaining"))
	require.Equal(t, 1, f.limiter.Calls)
	require.Equal(t, 1, f.credits.DebitCalls)
	require.Equal(t, []credit.Operation{credit.OpReportGeneration}, f.usageOps)

	var body report.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "<html>report</html>", body.HTML)
}

func TestGenerateReportEndpoint_NoTokenIs401(t *testing.T) {
	f := newGateFixture(t)

	resp := f.post(t, "/api/v1/ai/reports", "", map[string]string{"transcript": "notes"})
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, 0, f.limiter.Calls)
	require.Equal(t, 0, f.credits.DebitCalls)
}

func TestGenerateReportEndpoint_RateLimited429(t *testing.T) {
	f := newGateFixture(t)
	f.limiter.AllowFn = func(ctx context.Context, id uuid.UUID) (bool, int, int, time.Time, error) {
		return false, 0, 30, time.Now().Add(time.Minute), nil
	}

	resp := f.post(t, "/api/v1/ai/reports", "good-token", map[string]string{"transcript": "notes"})
	defer resp.Body.Close()

	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	require.Equal(t, "0", resp.Header.Get("X-RateLimit-Remaining"))
	require.Equal(t, 0, f.credits.DebitCalls)
}

func TestGenerateReportEndpoint_InsufficientCredits402Body(t *testing.T) {
	f := newGateFixture(t)
	f.credits.DebitFn = func(ctx context.Context, id uuid.UUID, amount int) (int, error) {
		return 0, &credit.InsufficientCreditsError{Available: 1, Required: 2}
	}

	resp := f.post(t, "/api/v1/ai/reports", "good-token", map[string]string{"transcript": "notes"})
	defer resp.Body.Close()

	require.Equal(t, http.StatusPaymentRequired, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body struct {
		Message struct {
			Message   string `json:"message"`
			Available int    `json:"available"`
			Required  int    `json:"required"`
		} `json:"message"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	require.Equal(t, 1, body.Message.Available)
	require.Equal(t, 2, body.Message.Required)
	require.Empty(t, f.usageOps)
}

func TestGenerateReportEndpoint_DownstreamFailureKeepsDebit(t *testing.T) {
	f := newGateFixture(t)
	f.reports.GenerateReportFn = func(ctx context.Context, ownerID uuid.UUID, req *report.GenerateRequest) (*report.Result, error) {
		return nil, fmt.Errorf("upstream AI unavailable")
	}

	resp := f.post(t, "/api/v1/ai/reports", "good-token", map[string]string{"transcript": "notes"})
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	require.Equal(t, 1, f.credits.DebitCalls)
	// The failed operation is not logged as usage.
	require.Empty(t, f.usageOps)
}

func TestCreditBalanceEndpoint(t *testing.T) {
	f := newGateFixture(t)
	f.credits.BalanceFn = func(ctx context.Context, id uuid.UUID) (*credit.Account, error) {
		return &credit.Account{UserID: id, CreditsTotal: 10, CreditsUsed: 3}, nil
	}

	req, err := http.NewRequest(http.MethodGet, f.server.URL+"/api/v1/credits", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer good-token")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, float64(10), body["credits_total"])
	require.Equal(t, float64(3), body["credits_used"])
	require.Equal(t, float64(7), body["available"])
}

func TestGrantEndpoint_RequiresAdmin(t *testing.T) {
	f := newGateFixture(t)

	resp := f.post(t, "/api/v1/credits/grant", "good-token", map[string]interface{}{"user_id": uuid.New(), "amount": 5})
	defer resp.Body.Close()

	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestGrantEndpoint_AdminGrant(t *testing.T) {
	f := newGateFixture(t)
	f.auth.ValidateTokenFn = func(ctx context.Context, token string) (*auth.Claims, error) {
		return &auth.Claims{UserID: f.userID, Email: "admin@example.com", Role: user.RoleAdmin}, nil
	}
	granted := 0
	f.credits.GrantFn = func(ctx context.Context, id uuid.UUID, amount int) error { granted = amount; return nil }
	f.credits.BalanceFn = func(ctx context.Context, id uuid.UUID) (*credit.Account, error) {
		return &credit.Account{UserID: id, CreditsTotal: 15, CreditsUsed: 0}, nil
	}

	resp := f.post(t, "/api/v1/credits/grant", "good-token", map[string]interface{}{"user_id": uuid.New(), "amount": 5})
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 5, granted)
}
