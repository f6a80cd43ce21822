// Package retry implements a bounded, fixed-delay retry policy.
//
// The policy knows nothing about which failures are worth retrying; callers
// supply a classifier alongside the operation. This keeps the loop testable
// with fake operations and lets the storage layer decide what "transient"
// means for its driver.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	goretry "github.com/sethvargo/go-retry"
)

const (
	// DefaultMaxAttempts is the total number of tries, including the first
	DefaultMaxAttempts = 5
	// DefaultDelay is the fixed wait between attempts
	DefaultDelay = 100 * time.Millisecond
)

// ErrExhausted is returned when every attempt failed with a transient error
var ErrExhausted = errors.New("retry budget exhausted")

// Classifier reports whether err is transient and worth another attempt
type Classifier func(err error) bool

// Operation is a single attempt of the retried work
type Operation func(ctx context.Context) error

// Policy describes how many times to try and how long to wait in between
type Policy struct {
	MaxAttempts int
	Delay       time.Duration

	// OnRetry, if set, is called before each wait with the number of the
	// attempt that just failed.
	OnRetry func(attempt int, err error)
}

// DefaultPolicy returns 5 attempts with a fixed 100ms delay
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		Delay:       DefaultDelay,
	}
}

// backoff builds the go-retry backoff for this policy
func (p Policy) backoff() goretry.Backoff {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := p.Delay
	if delay <= 0 {
		// go-retry rejects non-positive durations
		delay = time.Nanosecond
	}
	return goretry.WithMaxRetries(uint64(attempts-1), goretry.NewConstant(delay))
}

// Do runs op until it succeeds, fails with a non-transient error, or the
// attempt budget is spent. Exhaustion wraps both ErrExhausted and the last
// error. A cancelled ctx stops the wait and returns ctx.Err().
func (p Policy) Do(ctx context.Context, isTransient Classifier, op Operation) error {
	attempt := 0
	err := goretry.Do(ctx, p.backoff(), func(ctx context.Context) error {
		attempt++
		err := op(ctx)
		if err == nil {
			return nil
		}
		if isTransient == nil || !isTransient(err) {
			return err
		}
		if p.OnRetry != nil && attempt < p.maxAttempts() {
			p.OnRetry(attempt, err)
		}
		return goretry.RetryableError(err)
	})
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		return fmt.Errorf("%w: %w", ctxErr, err)
	}
	if isTransient != nil && isTransient(err) && ctx.Err() == nil {
		return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, attempt, err)
	}
	return err
}

func (p Policy) maxAttempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}
