package mysql

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	apperrors "phonestore/internal/errors"
)

var baseBackoff = 50 * time.Millisecond

// RetryOnDeadlock runs fn until it succeeds, fails with anything other than a
// deadlock or lock wait timeout, or maxAttempts is reached. Exhausting the
// attempts is reported as a DEADLOCK conflict.
func RetryOnDeadlock(ctx context.Context, maxAttempts int, logger *zap.Logger, fn func() error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	backoff := baseBackoff

	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsDeadlock(err) {
			return err
		}
		if attempt >= maxAttempts {
			logger.Error("deadlock retries exhausted", zap.Int("attempts", attempt), zap.Error(err))
			return apperrors.NewConflictError("DEADLOCK", "resource is busy, try again")
		}

		logger.Warn("deadlock detected, retrying", zap.Int("attempt", attempt), zap.Int("maxAttempts", maxAttempts))
		// ±20% jitter
		wait := time.Duration(float64(backoff) * (0.8 + rand.Float64()*0.4))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		backoff *= 2
	}
}
