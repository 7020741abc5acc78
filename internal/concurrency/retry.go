package concurrency

import (
	"context"
	"time"

	"github.com/osse101/Hearthmarket_Go/internal/domain"
	"github.com/osse101/Hearthmarket_Go/internal/logger"
)

// RetryPolicy bounds how often a conflicting transaction is re-run.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryPolicy matches the TX_MAX_ATTEMPTS / TX_RETRY_BASE_DELAY defaults
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts: 3,
	BaseDelay:   25 * time.Millisecond,
	MaxDelay:    time.Second,
}

// Delay returns the backoff before the given retry (1-based), doubling each time.
func (p RetryPolicy) Delay(retry int) time.Duration {
	if p.BaseDelay <= 0 || retry < 1 {
		return 0
	}
	d := p.BaseDelay << (retry - 1)
	if d <= 0 || (p.MaxDelay > 0 && d > p.MaxDelay) {
		return p.MaxDelay
	}
	return d
}

// RetryOnConflict runs fn until it returns something other than a transaction
// conflict, or the policy runs out of attempts. fn must start a fresh
// transaction on every call. The last error is returned unchanged.
func RetryOnConflict(ctx context.Context, policy RetryPolicy, operation string, fn func(ctx context.Context) error) error {
	attempts := max(policy.MaxAttempts, 1)

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn(ctx)
		if !domain.IsConflict(err) {
			return err
		}
		if attempt == attempts {
			break
		}

		logger.FromContext(ctx).Debug("Transaction conflict, retrying",
			logger.AttrKeyOperation, operation,
			"attempt", attempt,
			"max_attempts", attempts)

		if sleepErr := sleepWithContext(ctx, policy.Delay(attempt)); sleepErr != nil {
			return err
		}
	}

	logger.FromContext(ctx).Warn("Transaction conflict persisted after retries",
		logger.AttrKeyOperation, operation,
		"attempts", attempts)
	return err
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
