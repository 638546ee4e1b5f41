package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/archstack/fieldreport/internal/application/services"
	"github.com/archstack/fieldreport/test/mocks"
)

func TestRateLimiterService_AllowsUnderLimit(t *testing.T) {
	start := time.Now()
	repo := &mocks.RateLimitRepositoryMock{
		IncrementWindowFn: func(ctx context.Context, userID uuid.UUID, window, ttl time.Duration) (int, time.Time, error) {
			return 5, start, nil
		},
	}
	svc := services.NewRateLimiterService(repo, &services.RateLimiterConfig{MaxRequests: 30, Window: time.Minute}, logrus.New())

	allowed, remaining, limit, reset, err := svc.Allow(context.Background(), uuid.New())
	require.NoError(t, err)
	require.True(t, allowed)
	require.Equal(t, 25, remaining)
	require.Equal(t, 30, limit)
	require.Equal(t, start.Add(time.Minute), reset)
}

func TestRateLimiterService_RejectsOverLimit(t *testing.T) {
	repo := &mocks.RateLimitRepositoryMock{
		IncrementWindowFn: func(ctx context.Context, userID uuid.UUID, window, ttl time.Duration) (int, time.Time, error) {
			return 31, time.Now(), nil
		},
	}
	svc := services.NewRateLimiterService(repo, &services.RateLimiterConfig{MaxRequests: 30, Window: time.Minute}, logrus.New())

	allowed, remaining, _, _, err := svc.Allow(context.Background(), uuid.New())
	require.NoError(t, err)
	require.False(t, allowed)
	require.Equal(t, 0, remaining)
}

func TestRateLimiterService_ExactLimitStillAllowed(t *testing.T) {
	repo := &mocks.RateLimitRepositoryMock{
		IncrementWindowFn: func(ctx context.Context, userID uuid.UUID, window, ttl time.Duration) (int, time.Time, error) {
			return 30, time.Now(), nil
		},
	}
	svc := services.NewRateLimiterService(repo, &services.RateLimiterConfig{MaxRequests: 30, Window: time.Minute}, logrus.New())

	allowed, remaining, _, _, err := svc.Allow(context.Background(), uuid.New())
	require.NoError(t, err)
	require.True(t, allowed)
	require.Equal(t, 0, remaining)
}

func TestRateLimiterService_FailsOpenOnBackendError(t *testing.T) {
	repo := &mocks.RateLimitRepositoryMock{
		IncrementWindowFn: func(ctx context.Context, userID uuid.UUID, window, ttl time.Duration) (int, time.Time, error) {
			return 0, time.Time{}, fmt.Errorf("backend down")
		},
	}
	svc := services.NewRateLimiterService(repo, &services.RateLimiterConfig{MaxRequests: 30, Window: time.Minute}, logrus.New())

	allowed, _, _, _, err := svc.Allow(context.Background(), uuid.New())
	require.Error(t, err)
	require.True(t, allowed)
}

func TestRateLimiterService_DefaultsApplied(t *testing.T) {
	repo := &mocks.RateLimitRepositoryMock{
		IncrementWindowFn: func(ctx context.Context, userID uuid.UUID, window, ttl time.Duration) (int, time.Time, error) {
			require.Equal(t, time.Minute, window)
			require.Equal(t, 2*time.Minute, ttl)
			return 1, time.Now(), nil
		},
	}
	svc := services.NewRateLimiterService(repo, nil, logrus.New())

	allowed, remaining, limit, _, err := svc.Allow(context.Background(), uuid.New())
	require.NoError(t, err)
	require.True(t, allowed)
	require.Equal(t, 30, limit)
	require.Equal(t, 29, remaining)
}
