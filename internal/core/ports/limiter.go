package ports

import "context"

// AttemptLimiter throttles anonymous self-service attempts per client key.
type AttemptLimiter interface {
	// Allow records one attempt for key and reports whether it is within the limit.
	Allow(ctx context.Context, key string) (bool, error)
}
