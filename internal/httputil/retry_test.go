// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/websearch/internal/apperr"
)

func TestBackoff(t *testing.T) {
	base := 100 * time.Millisecond
	assert.Equal(t, 100*time.Millisecond, Backoff(base, 0))
	assert.Equal(t, 200*time.Millisecond, Backoff(base, 1))
	assert.Equal(t, 400*time.Millisecond, Backoff(base, 2))
	assert.Equal(t, time.Millisecond, Backoff(0, 0))
}

func TestRetry_ImmediateSuccess(t *testing.T) {
	calls := 0
	got, err := Retry(context.Background(), 3, time.Millisecond, func(context.Context) (string, error) {
		calls++
		return "ok", nil
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 1, calls)
}

func TestRetry_RetriesThenSucceeds(t *testing.T) {
	calls := 0
	var seen []int
	got, err := Retry(context.Background(), 3, time.Millisecond, func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, apperr.New(apperr.KindRateLimit, "quota")
		}
		return 7, nil
	}, func(attempt int, _ error) { seen = append(seen, attempt) })
	require.NoError(t, err)
	assert.Equal(t, 7, got)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{0, 1}, seen)
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), 3, time.Millisecond, func(context.Context) (int, error) {
		calls++
		return 0, apperr.New(apperr.KindProvider, "status 502 attempt %d", calls)
	}, nil)
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, apperr.KindProvider, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "attempt 3")
}

func TestRetry_AuthFailureNotRetried(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), 5, time.Millisecond, func(context.Context) (int, error) {
		calls++
		return 0, apperr.New(apperr.KindInvalidAPIKey, "status 401")
	}, nil)
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, apperr.IsAuthFailure(err))
}

func TestRetry_SingleAttempt(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), 0, time.Millisecond, func(context.Context) (int, error) {
		calls++
		return 0, errors.New("boom")
	}, nil)
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
