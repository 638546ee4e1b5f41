package repositories

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/archstack/fieldreport/internal/core/ports"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const refreshTokenPrefix = "fieldreport:refresh"

// TokenRedisRepository stores refresh tokens in Redis, keyed by token hash
// so raw tokens never appear in the store. TTL matches token expiry.
type TokenRedisRepository struct {
	client redis.Cmdable
	logger *logrus.Logger
}

func NewTokenRedisRepository(client redis.Cmdable, logger *logrus.Logger) ports.TokenRepository {
	return &TokenRedisRepository{client: client, logger: logger}
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", sum)
}

func (r *TokenRedisRepository) key(tokenHash string) string {
	return fmt.Sprintf("%s:%s", refreshTokenPrefix, tokenHash)
}

func (r *TokenRedisRepository) StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return fmt.Errorf("refresh token already expired")
	}

	stored := &ports.RefreshToken{
		UserID:    userID,
		TokenHash: hashToken(token),
		ExpiresAt: expiresAt,
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to marshal refresh token: %w", err)
	}

	if err := r.client.Set(ctx, r.key(stored.TokenHash), data, ttl).Err(); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": userID}).WithError(err).Error("redis: failed to store refresh token")
		}
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

func (r *TokenRedisRepository) GetRefreshToken(ctx context.Context, token string) (*ports.RefreshToken, error) {
	data, err := r.client.Get(ctx, r.key(hashToken(token))).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("refresh token not found or expired")
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	var stored ports.RefreshToken
	if err := json.Unmarshal([]byte(data), &stored); err != nil {
		return nil, fmt.Errorf("failed to unmarshal refresh token: %w", err)
	}
	return &stored, nil
}

func (r *TokenRedisRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, r.key(hashToken(token))).Err(); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}
