package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRateLimitMemoryRepository_CountsWithinWindow(t *testing.T) {
	repo := NewRateLimitMemoryRepository(0)
	defer repo.Close()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	userID := uuid.New()
	for i := 1; i <= 30; i++ {
		count, start, err := repo.IncrementWindow(context.Background(), userID, time.Minute, 2*time.Minute)
		require.NoError(t, err)
		require.Equal(t, i, count)
		require.Equal(t, now, start)
	}

	count, _, err := repo.IncrementWindow(context.Background(), userID, time.Minute, 2*time.Minute)
	require.NoError(t, err)
	require.Equal(t, 31, count)
}

func TestRateLimitMemoryRepository_ResetsAfterWindowElapses(t *testing.T) {
	repo := NewRateLimitMemoryRepository(0)
	defer repo.Close()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	current := base
	repo.now = func() time.Time { return current }

	userID := uuid.New()
	for i := 0; i < 30; i++ {
		_, _, err := repo.IncrementWindow(context.Background(), userID, time.Minute, 2*time.Minute)
		require.NoError(t, err)
	}

	// Exactly at the boundary the window has not elapsed yet.
	current = base.Add(time.Minute)
	count, start, err := repo.IncrementWindow(context.Background(), userID, time.Minute, 2*time.Minute)
	require.NoError(t, err)
	require.Equal(t, 31, count)
	require.Equal(t, base, start)

	// One instant past the boundary a fresh window begins.
	current = base.Add(time.Minute + time.Millisecond)
	count, start, err = repo.IncrementWindow(context.Background(), userID, time.Minute, 2*time.Minute)
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.Equal(t, current, start)
}

func TestRateLimitMemoryRepository_WindowsArePerUser(t *testing.T) {
	repo := NewRateLimitMemoryRepository(0)
	defer repo.Close()

	a, b := uuid.New(), uuid.New()
	for i := 0; i < 5; i++ {
		_, _, err := repo.IncrementWindow(context.Background(), a, time.Minute, 2*time.Minute)
		require.NoError(t, err)
	}
	count, _, err := repo.IncrementWindow(context.Background(), b, time.Minute, 2*time.Minute)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestRateLimitMemoryRepository_SweepEvictsStaleWindows(t *testing.T) {
	repo := NewRateLimitMemoryRepository(0)
	defer repo.Close()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	current := base
	repo.now = func() time.Time { return current }

	stale, fresh := uuid.New(), uuid.New()
	_, _, err := repo.IncrementWindow(context.Background(), stale, time.Minute, 2*time.Minute)
	require.NoError(t, err)

	current = base.Add(90 * time.Second)
	_, _, err = repo.IncrementWindow(context.Background(), fresh, time.Minute, 2*time.Minute)
	require.NoError(t, err)

	removed := repo.Sweep(time.Minute)
	require.Equal(t, 1, removed)

	// The swept user starts over; the fresh one keeps counting.
	count, _, err := repo.IncrementWindow(context.Background(), stale, time.Minute, 2*time.Minute)
	require.NoError(t, err)
	require.Equal(t, 1, count)
	count, _, err = repo.IncrementWindow(context.Background(), fresh, time.Minute, 2*time.Minute)
	require.NoError(t, err)
	require.Equal(t, 2, count)
}
