package service

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// RetryPolicy runs an outbound call with a per-attempt timeout, retrying only the
// errors Retryable accepts.
type RetryPolicy struct {
	MaxAttempts int
	Timeout     time.Duration
	Backoff     func(attempt int) time.Duration
	Retryable   func(err error) bool
}

// LinearBackoff waits attempt*step before the next attempt.
func LinearBackoff(step time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return time.Duration(attempt) * step
	}
}

// IsTransient reports whether err came from the transport rather than from the provider.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var graphErr *GraphError
	if errors.As(err, &graphErr) {
		return false
	}
	if errors.Is(err, ErrValidation) || errors.Is(err, context.Canceled) {
		return false
	}
	return true
}

func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = p.attempt(ctx, fn)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return err
		}
		if attempt == attempts || p.Retryable == nil || !p.Retryable(err) {
			return err
		}

		wait := time.Duration(0)
		if p.Backoff != nil {
			wait = p.Backoff(attempt)
		}
		slog.Warn("retrying facebook request", "attempt", attempt, "wait", wait, "error", err)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
	return err
}

func (p RetryPolicy) attempt(ctx context.Context, fn func(ctx context.Context) error) error {
	if p.Timeout <= 0 {
		return fn(ctx)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()
	return fn(attemptCtx)
}
