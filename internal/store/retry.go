package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// maxRetryDelay caps a single wait however the policy is configured.
const maxRetryDelay = 30 * time.Second

// RetryPolicy bounds how often a write is re-attempted while the database is locked.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
	// Timer drives the waits between attempts; nil uses a real timer.
	// Tests swap in a timer that fires immediately.
	Timer backoff.Timer
	// Retryable decides whether an error is transient. Defaults to IsBusy.
	Retryable func(error) bool
}

// DefaultRetryPolicy allows five attempts starting at 100ms and doubling.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 5,
		BaseDelay:   100 * time.Millisecond,
		Multiplier:  2,
	}
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// backOff builds the jitter-free exponential schedule for one Do call.
func (p RetryPolicy) backOff() *backoff.ExponentialBackOff {
	multiplier := p.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.BaseDelay
	b.Multiplier = multiplier
	b.RandomizationFactor = 0
	b.MaxInterval = maxRetryDelay
	// attempts are bounded by WithMaxRetries instead
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// Delay returns the pause taken after the given failed attempt (1-based).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	b := p.backOff()
	d := b.NextBackOff()
	for i := 1; i < attempt; i++ {
		d = b.NextBackOff()
	}
	return d
}

// Do runs fn until it succeeds, fails with a non-retryable error, or the
// attempts are used up.
func (p RetryPolicy) Do(ctx context.Context, fn func(attempt int) error) error {
	attempts := p.attempts()
	retryable := p.Retryable
	if retryable == nil {
		retryable = IsBusy
	}

	attempt := 0
	transient := false
	op := func() error {
		attempt++
		err := fn(attempt)
		transient = err != nil && retryable(err)
		if err != nil && !transient {
			return backoff.Permanent(err)
		}
		return err
	}

	b := backoff.WithContext(backoff.WithMaxRetries(p.backOff(), uint64(attempts-1)), ctx)
	err := backoff.RetryNotifyWithTimer(op, b, nil, p.Timer)
	if err == nil || !transient {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, attempt, err)
}

// IsBusy reports whether err is SQLite lock contention.
func IsBusy(err error) bool {
	if err == nil {
		return false
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code() & 0xff
		return code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED
	}

	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}
