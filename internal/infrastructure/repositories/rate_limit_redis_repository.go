package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// RateLimitRedisRepository keeps fixed-window counters in Redis so that
// every server instance shares one window per user.
type RateLimitRedisRepository struct {
	r         redis.Cmdable
	keyPrefix string
}

func NewRateLimitRedisRepository(r redis.Cmdable, keyPrefix string) *RateLimitRedisRepository {
	if keyPrefix == "" {
		keyPrefix = "ratelimit:user"
	}
	return &RateLimitRedisRepository{r: r, keyPrefix: keyPrefix}
}

// IncrementWindow increments the per-user counter for the current fixed
// window. The key embeds the window start, so a new window starts at a
// fresh counter and stale keys age out via TTL.
func (repo *RateLimitRedisRepository) IncrementWindow(ctx context.Context, userID uuid.UUID, window time.Duration, ttl time.Duration) (int, time.Time, error) {
	windowStart := time.Now().Truncate(window)
	key := fmt.Sprintf("%s:%s:%d", repo.keyPrefix, userID.String(), windowStart.Unix())
	pipe := repo.r.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, windowStart, err
	}
	return int(incr.Val()), windowStart, nil
}
