package ports

import (
	"context"
	"time"

	"github.com/archstack/fieldreport/internal/core/domain/auth"
	"github.com/archstack/fieldreport/internal/core/domain/user"
	"github.com/google/uuid"
)

// AuthService issues and verifies bearer tokens. ValidateToken is the
// identity-verification stage of the access gate: it re-verifies on every
// call and never caches results.
type AuthService interface {
	Signup(ctx context.Context, req *user.SignupRequest) (*user.User, error)
	Login(ctx context.Context, req *auth.LoginRequest) (*auth.AuthTokens, error)
	RefreshToken(ctx context.Context, refreshToken string) (*auth.AuthTokens, error)
	ValidateToken(ctx context.Context, token string) (*auth.Claims, error)
	GenerateTokens(ctx context.Context, u *user.User) (*auth.AuthTokens, error)
}

// TokenRepository stores refresh tokens keyed by token hash.
type TokenRepository interface {
	StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, token string) (*RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) error
}

// RefreshToken represents a stored refresh token
type RefreshToken struct {
	UserID    uuid.UUID `json:"user_id"`
	TokenHash string    `json:"token_hash"`
	ExpiresAt time.Time `json:"expires_at"`
}
