package pipeline

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/dgallion1/finsight/internal/llm"
)

// RetryBudget is the number of retries allowed after the first attempt
// of a retryable model-service call. Exactly one retry, then the
// failure surfaces.
const RetryBudget = 1

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *llm.RetryableError
	return errors.As(err, &retryErr)
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int63n(int64(base) / 2))
	return base + jitter
}

// withRetry runs fn up to 1+RetryBudget times, backing off between
// attempts on retryable failures only.
func withRetry[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	var result T
	var err error
	for attempt := 0; ; attempt++ {
		result, err = fn()
		if err == nil || !IsRetryable(err) || attempt >= RetryBudget {
			return result, err
		}
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return result, err
		}
	}
}
