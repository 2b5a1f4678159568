package redis

import (
	"AidDesk/internal/core/ports"
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const attemptKeyPrefix = "aiddesk:selfservice:"

var _ ports.AttemptLimiter = (*AttemptLimiter)(nil) // Ensure compliance

// AttemptLimiter is a fixed-window counter shared by every instance.
// The first attempt in a window creates the key and sets its TTL.
type AttemptLimiter struct {
	client goredis.Cmdable
	limit  int64
	window time.Duration
}

func NewAttemptLimiter(client goredis.Cmdable, limit int, window time.Duration) *AttemptLimiter {
	return &AttemptLimiter{client: client, limit: int64(limit), window: window}
}

func (l *AttemptLimiter) Allow(ctx context.Context, key string) (bool, error) {
	var incr *goredis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		incr = pipe.Incr(ctx, attemptKeyPrefix+key)
		pipe.ExpireNX(ctx, attemptKeyPrefix+key, l.window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("count attempt: %w", err)
	}
	return incr.Val() <= l.limit, nil
}
