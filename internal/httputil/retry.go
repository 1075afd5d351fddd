// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP helpers shared by providers: status
// mapping into typed errors and a retry policy for repeated provider calls.
package httputil

import (
	"context"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"

	"github.com/pdiddy/websearch/internal/apperr"
)

// minRetryDelay keeps the backoff base positive.
const minRetryDelay = time.Millisecond

// Backoff returns the wait before retry number attempt (0-based):
// base * 2^attempt.
func Backoff(base time.Duration, attempt int) time.Duration {
	if base < minRetryDelay {
		base = minRetryDelay
	}
	return base << attempt
}

// NewRetryPolicy builds a policy allowing up to attempts calls in total with
// exponential backoff starting at base. Credential failures are returned
// immediately without another attempt.
func NewRetryPolicy[R any](attempts int, base time.Duration) retrypolicy.RetryPolicy[R] {
	if attempts < 1 {
		attempts = 1
	}
	if base < minRetryDelay {
		base = minRetryDelay
	}
	return retrypolicy.NewBuilder[R]().
		WithBackoff(base, Backoff(base, attempts)).
		WithMaxRetries(attempts - 1).
		HandleIf(func(_ R, err error) bool {
			return err != nil && !apperr.IsAuthFailure(err)
		}).
		Build()
}

// Retry runs fn under NewRetryPolicy and returns the result of the last
// attempt. onAttempt, when non-nil, is told about every failed attempt.
func Retry[R any](ctx context.Context, attempts int, base time.Duration, fn func(ctx context.Context) (R, error), onAttempt func(attempt int, err error)) (R, error) {
	var (
		last    R
		lastErr error
		attempt int
	)
	_, err := failsafe.With(NewRetryPolicy[R](attempts, base)).WithContext(ctx).Get(func() (R, error) {
		last, lastErr = fn(ctx)
		if lastErr != nil && onAttempt != nil {
			onAttempt(attempt, lastErr)
		}
		attempt++
		return last, lastErr
	})
	if err != nil && lastErr == nil {
		// Cancelled before or between attempts.
		lastErr = err
	}
	return last, lastErr
}
