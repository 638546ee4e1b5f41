package mocks

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/archstack/fieldreport/internal/core/domain/auth"
	"github.com/archstack/fieldreport/internal/core/domain/call"
	"github.com/archstack/fieldreport/internal/core/domain/credit"
	"github.com/archstack/fieldreport/internal/core/domain/project"
	"github.com/archstack/fieldreport/internal/core/domain/report"
	"github.com/archstack/fieldreport/internal/core/domain/template"
	"github.com/archstack/fieldreport/internal/core/domain/user"
	"github.com/archstack/fieldreport/internal/core/ports"
	"github.com/google/uuid"
)

// TokenRepositoryMock is a lightweight mock for TokenRepository
type TokenRepositoryMock struct {
	StoreRefreshTokenFn  func(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	GetRefreshTokenFn    func(ctx context.Context, token string) (*ports.RefreshToken, error)
	DeleteRefreshTokenFn func(ctx context.Context, token string) error
}

func (m *TokenRepositoryMock) StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	if m.StoreRefreshTokenFn != nil {
		return m.StoreRefreshTokenFn(ctx, userID, token, expiresAt)
	}
	return nil
}
func (m *TokenRepositoryMock) GetRefreshToken(ctx context.Context, token string) (*ports.RefreshToken, error) {
	if m.GetRefreshTokenFn != nil {
		return m.GetRefreshTokenFn(ctx, token)
	}
	return nil, fmt.Errorf("not found")
}
func (m *TokenRepositoryMock) DeleteRefreshToken(ctx context.Context, token string) error {
	if m.DeleteRefreshTokenFn != nil {
		return m.DeleteRefreshTokenFn(ctx, token)
	}
	return nil
}

// UserRepositoryMock is a lightweight mock for UserRepository
type UserRepositoryMock struct {
	CreateFn     func(ctx context.Context, u *user.User) error
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmailFn func(ctx context.Context, email string) (*user.User, error)
	UpdateFn     func(ctx context.Context, u *user.User) error
	DeleteFn     func(ctx context.Context, id uuid.UUID) error
}

func (m *UserRepositoryMock) Create(ctx context.Context, u *user.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	return nil
}
func (m *UserRepositoryMock) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, fmt.Errorf("user not found")
}
func (m *UserRepositoryMock) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, fmt.Errorf("user not found")
}
func (m *UserRepositoryMock) Update(ctx context.Context, u *user.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, u)
	}
	return nil
}
func (m *UserRepositoryMock) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

// AuthServiceMock is a lightweight mock for AuthService
type AuthServiceMock struct {
	SignupFn         func(ctx context.Context, req *user.SignupRequest) (*user.User, error)
	LoginFn          func(ctx context.Context, req *auth.LoginRequest) (*auth.AuthTokens, error)
	RefreshTokenFn   func(ctx context.Context, refreshToken string) (*auth.AuthTokens, error)
	ValidateTokenFn  func(ctx context.Context, token string) (*auth.Claims, error)
	GenerateTokensFn func(ctx context.Context, u *user.User) (*auth.AuthTokens, error)
}

func (m *AuthServiceMock) Signup(ctx context.Context, req *user.SignupRequest) (*user.User, error) {
	if m.SignupFn != nil {
		return m.SignupFn(ctx, req)
	}
	return nil, fmt.Errorf("not implemented")
}
func (m *AuthServiceMock) Login(ctx context.Context, req *auth.LoginRequest) (*auth.AuthTokens, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, req)
	}
	return nil, fmt.Errorf("not implemented")
}
func (m *AuthServiceMock) RefreshToken(ctx context.Context, refreshToken string) (*auth.AuthTokens, error) {
	if m.RefreshTokenFn != nil {
		return m.RefreshTokenFn(ctx, refreshToken)
	}
	return nil, fmt.Errorf("not implemented")
}
func (m *AuthServiceMock) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, token)
	}
	return nil, fmt.Errorf("invalid token")
}
func (m *AuthServiceMock) GenerateTokens(ctx context.Context, u *user.User) (*auth.AuthTokens, error) {
	if m.GenerateTokensFn != nil {
		return m.GenerateTokensFn(ctx, u)
	}
	return nil, fmt.Errorf("not implemented")
}

// RateLimiterServiceMock is a lightweight mock for RateLimiterService
type RateLimiterServiceMock struct {
	AllowFn func(ctx context.Context, userID uuid.UUID) (bool, int, int, time.Time, error)
	Calls   int
}

func (m *RateLimiterServiceMock) Allow(ctx context.Context, userID uuid.UUID) (bool, int, int, time.Time, error) {
	m.Calls++
	if m.AllowFn != nil {
		return m.AllowFn(ctx, userID)
	}
	return true, 29, 30, time.Now().Add(time.Minute), nil
}

// RateLimitRepositoryMock is a lightweight mock for RateLimitRepository
type RateLimitRepositoryMock struct {
	IncrementWindowFn func(ctx context.Context, userID uuid.UUID, window, ttl time.Duration) (int, time.Time, error)
}

func (m *RateLimitRepositoryMock) IncrementWindow(ctx context.Context, userID uuid.UUID, window, ttl time.Duration) (int, time.Time, error) {
	if m.IncrementWindowFn != nil {
		return m.IncrementWindowFn(ctx, userID, window, ttl)
	}
	return 1, time.Now(), nil
}

// CreditServiceMock is a lightweight mock for CreditService
type CreditServiceMock struct {
	ProvisionAccountFn func(ctx context.Context, userID uuid.UUID) error
	BalanceFn          func(ctx context.Context, userID uuid.UUID) (*credit.Account, error)
	DebitFn            func(ctx context.Context, userID uuid.UUID, amount int) (int, error)
	GrantFn            func(ctx context.Context, userID uuid.UUID, amount int) error
	RecordUsageFn      func(ctx context.Context, userID uuid.UUID, op credit.Operation, cost int) error
	ListUsageFn        func(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*credit.UsageEntry, error)
	DebitCalls         int
}

func (m *CreditServiceMock) ProvisionAccount(ctx context.Context, userID uuid.UUID) error {
	if m.ProvisionAccountFn != nil {
		return m.ProvisionAccountFn(ctx, userID)
	}
	return nil
}
func (m *CreditServiceMock) Balance(ctx context.Context, userID uuid.UUID) (*credit.Account, error) {
	if m.BalanceFn != nil {
		return m.BalanceFn(ctx, userID)
	}
	return nil, credit.ErrAccountNotFound
}
func (m *CreditServiceMock) Debit(ctx context.Context, userID uuid.UUID, amount int) (int, error) {
	m.DebitCalls++
	if m.DebitFn != nil {
		return m.DebitFn(ctx, userID, amount)
	}
	return 0, credit.ErrAccountNotFound
}
func (m *CreditServiceMock) Grant(ctx context.Context, userID uuid.UUID, amount int) error {
	if m.GrantFn != nil {
		return m.GrantFn(ctx, userID, amount)
	}
	return nil
}
func (m *CreditServiceMock) RecordUsage(ctx context.Context, userID uuid.UUID, op credit.Operation, cost int) error {
	if m.RecordUsageFn != nil {
		return m.RecordUsageFn(ctx, userID, op, cost)
	}
	return nil
}
func (m *CreditServiceMock) ListUsage(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*credit.UsageEntry, error) {
	if m.ListUsageFn != nil {
		return m.ListUsageFn(ctx, userID, limit, offset)
	}
	return nil, nil
}

// CreditLedgerMock is an in-memory CreditLedger whose Debit is a
// mutex-guarded conditional write, mirroring the SQL implementation's
// atomicity so concurrent-debit behavior can be tested without a database.
type CreditLedgerMock struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*credit.Account
}

func NewCreditLedgerMock() *CreditLedgerMock {
	return &CreditLedgerMock{accounts: make(map[uuid.UUID]*credit.Account)}
}

func (m *CreditLedgerMock) CreateAccount(ctx context.Context, userID uuid.UUID, creditsTotal int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[userID]; ok {
		return fmt.Errorf("account already exists")
	}
	now := time.Now()
	m.accounts[userID] = &credit.Account{UserID: userID, CreditsTotal: creditsTotal, CreatedAt: now, UpdatedAt: now}
	return nil
}

func (m *CreditLedgerMock) Get(ctx context.Context, userID uuid.UUID) (*credit.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[userID]
	if !ok {
		return nil, credit.ErrAccountNotFound
	}
	copied := *account
	return &copied, nil
}

func (m *CreditLedgerMock) Debit(ctx context.Context, userID uuid.UUID, amount int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[userID]
	if !ok {
		return 0, credit.ErrAccountNotFound
	}
	if account.Available() < amount {
		return 0, &credit.InsufficientCreditsError{Available: account.Available(), Required: amount}
	}
	account.CreditsUsed += amount
	account.UpdatedAt = time.Now()
	return account.Available(), nil
}

func (m *CreditLedgerMock) Grant(ctx context.Context, userID uuid.UUID, amount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[userID]
	if !ok {
		return credit.ErrAccountNotFound
	}
	account.CreditsTotal += amount
	account.UpdatedAt = time.Now()
	return nil
}

// UsageRepositoryMock is a lightweight mock for UsageRepository
type UsageRepositoryMock struct {
	mu      sync.Mutex
	Entries []*credit.UsageEntry

	AppendFn     func(ctx context.Context, entry *credit.UsageEntry) error
	ListByUserFn func(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*credit.UsageEntry, error)
}

func (m *UsageRepositoryMock) Append(ctx context.Context, entry *credit.UsageEntry) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, entry)
	return nil
}
func (m *UsageRepositoryMock) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*credit.UsageEntry, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID, limit, offset)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*credit.UsageEntry
	for _, e := range m.Entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

// ProjectRepositoryMock is a lightweight mock for ProjectRepository
type ProjectRepositoryMock struct {
	CreateFn      func(ctx context.Context, p *project.Project) error
	GetByIDFn     func(ctx context.Context, id uuid.UUID) (*project.Project, error)
	ListByOwnerFn func(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*project.Project, error)
	UpdateFn      func(ctx context.Context, p *project.Project) error
	DeleteFn      func(ctx context.Context, id uuid.UUID) error
}

func (m *ProjectRepositoryMock) Create(ctx context.Context, p *project.Project) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}
func (m *ProjectRepositoryMock) GetByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, fmt.Errorf("project not found")
}
func (m *ProjectRepositoryMock) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*project.Project, error) {
	if m.ListByOwnerFn != nil {
		return m.ListByOwnerFn(ctx, ownerID, limit, offset)
	}
	return nil, nil
}
func (m *ProjectRepositoryMock) Update(ctx context.Context, p *project.Project) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, p)
	}
	return nil
}
func (m *ProjectRepositoryMock) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

// CallRepositoryMock is a lightweight mock for CallRepository
type CallRepositoryMock struct {
	CreateFn        func(ctx context.Context, c *call.Call) error
	GetByIDFn       func(ctx context.Context, id uuid.UUID) (*call.Call, error)
	ListByProjectFn func(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]*call.Call, error)
	ListByOwnerFn   func(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*call.Call, error)
	UpdateFn        func(ctx context.Context, c *call.Call) error
	DeleteFn        func(ctx context.Context, id uuid.UUID) error
}

func (m *CallRepositoryMock) Create(ctx context.Context, c *call.Call) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, c)
	}
	return nil
}
func (m *CallRepositoryMock) GetByID(ctx context.Context, id uuid.UUID) (*call.Call, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, fmt.Errorf("call not found")
}
func (m *CallRepositoryMock) ListByProject(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]*call.Call, error) {
	if m.ListByProjectFn != nil {
		return m.ListByProjectFn(ctx, projectID, limit, offset)
	}
	return nil, nil
}
func (m *CallRepositoryMock) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*call.Call, error) {
	if m.ListByOwnerFn != nil {
		return m.ListByOwnerFn(ctx, ownerID, limit, offset)
	}
	return nil, nil
}
func (m *CallRepositoryMock) Update(ctx context.Context, c *call.Call) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, c)
	}
	return nil
}
func (m *CallRepositoryMock) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

// TemplateRepositoryMock is a lightweight mock for TemplateRepository
type TemplateRepositoryMock struct {
	CreateFn      func(ctx context.Context, t *template.Template) error
	GetByIDFn     func(ctx context.Context, id uuid.UUID) (*template.Template, error)
	ListByOwnerFn func(ctx context.Context, ownerID uuid.UUID) ([]*template.Template, error)
	UpdateFn      func(ctx context.Context, t *template.Template) error
	DeleteFn      func(ctx context.Context, id uuid.UUID) error
}

func (m *TemplateRepositoryMock) Create(ctx context.Context, t *template.Template) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, t)
	}
	return nil
}
func (m *TemplateRepositoryMock) GetByID(ctx context.Context, id uuid.UUID) (*template.Template, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, fmt.Errorf("template not found")
}
func (m *TemplateRepositoryMock) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*template.Template, error) {
	if m.ListByOwnerFn != nil {
		return m.ListByOwnerFn(ctx, ownerID)
	}
	return nil, nil
}
func (m *TemplateRepositoryMock) Update(ctx context.Context, t *template.Template) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, t)
	}
	return nil
}
func (m *TemplateRepositoryMock) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

// AIClientMock is a lightweight mock for AIClient
type AIClientMock struct {
	TranscribeFn func(ctx context.Context, filename string, audio io.Reader) (string, error)
	CompleteFn   func(ctx context.Context, system, prompt string) (string, error)
}

func (m *AIClientMock) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	if m.TranscribeFn != nil {
		return m.TranscribeFn(ctx, filename, audio)
	}
	return "", fmt.Errorf("not implemented")
}
func (m *AIClientMock) Complete(ctx context.Context, system, prompt string) (string, error) {
	if m.CompleteFn != nil {
		return m.CompleteFn(ctx, system, prompt)
	}
	return "", fmt.Errorf("not implemented")
}

// EmailServiceMock is a lightweight mock for EmailService
type EmailServiceMock struct {
	SendReportFn func(to, subject, reportHTML string) error
	Sent         []string
}

func (m *EmailServiceMock) SendReport(to, subject, reportHTML string) error {
	m.Sent = append(m.Sent, to)
	if m.SendReportFn != nil {
		return m.SendReportFn(to, subject, reportHTML)
	}
	return nil
}

// ReportServiceMock is a lightweight mock for ReportService
type ReportServiceMock struct {
	TranscribeFn       func(ctx context.Context, ownerID uuid.UUID, callID *uuid.UUID, filename string, audio io.Reader) (*report.Transcription, error)
	GenerateReportFn   func(ctx context.Context, ownerID uuid.UUID, req *report.GenerateRequest) (*report.Result, error)
	RefineReportFn     func(ctx context.Context, ownerID uuid.UUID, req *report.RefineRequest) (*report.Result, error)
	GenerateTemplateFn func(ctx context.Context, ownerID uuid.UUID, req *report.GenerateTemplateRequest) (*template.Template, error)
}

func (m *ReportServiceMock) Transcribe(ctx context.Context, ownerID uuid.UUID, callID *uuid.UUID, filename string, audio io.Reader) (*report.Transcription, error) {
	if m.TranscribeFn != nil {
		return m.TranscribeFn(ctx, ownerID, callID, filename, audio)
	}
	return nil, fmt.Errorf("not implemented")
}
func (m *ReportServiceMock) GenerateReport(ctx context.Context, ownerID uuid.UUID, req *report.GenerateRequest) (*report.Result, error) {
	if m.GenerateReportFn != nil {
		return m.GenerateReportFn(ctx, ownerID, req)
	}
	return nil, fmt.Errorf("not implemented")
}
func (m *ReportServiceMock) RefineReport(ctx context.Context, ownerID uuid.UUID, req *report.RefineRequest) (*report.Result, error) {
	if m.RefineReportFn != nil {
		return m.RefineReportFn(ctx, ownerID, req)
	}
	return nil, fmt.Errorf("not implemented")
}
func (m *ReportServiceMock) GenerateTemplate(ctx context.Context, ownerID uuid.UUID, req *report.GenerateTemplateRequest) (*template.Template, error) {
	if m.GenerateTemplateFn != nil {
		return m.GenerateTemplateFn(ctx, ownerID, req)
	}
	return nil, fmt.Errorf("not implemented")
}
