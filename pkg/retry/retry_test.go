package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/tavola/backoffice/pkg/errors"
	"github.com/tavola/backoffice/pkg/logger"
)

func testConfig(maxAttempts int, retryable ...error) *RetryConfig {
	return &RetryConfig{
		MaxAttempts:     maxAttempts,
		BackoffStrategy: &ConstantBackoff{Interval: time.Millisecond},
		Logger:          logger.Nop(),
		RetryableErrors: retryable,
	}
}

func TestRetry_SucceedsFirstAttempt(t *testing.T) {
	calls := 0

	err := Retry(context.Background(), func() error {
		calls++
		return nil
	}, testConfig(3))

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calls != 1 {
		t.Fatalf("fn called %d times, want 1", calls)
	}
}

func TestRetry_RecoversAfterTransientFailures(t *testing.T) {
	calls := 0

	err := Retry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return apperrors.NewTemporaryError("flaky")
		}
		return nil
	}, testConfig(5, apperrors.ErrTemporaryFailure))

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calls != 3 {
		t.Fatalf("fn called %d times, want 3", calls)
	}
}

func TestRetry_GivesUpOnNonRetryableError(t *testing.T) {
	calls := 0
	permanent := apperrors.NewNotFoundError("gone")

	err := Retry(context.Background(), func() error {
		calls++
		return permanent
	}, testConfig(5, apperrors.ErrTemporaryFailure))

	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("error = %v, want not found", err)
	}

	if calls != 1 {
		t.Fatalf("fn called %d times, want 1", calls)
	}
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	calls := 0

	err := Retry(context.Background(), func() error {
		calls++
		return apperrors.NewTemporaryError("flaky")
	}, testConfig(3, apperrors.ErrTemporaryFailure))

	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}

	if calls != 3 {
		t.Fatalf("fn called %d times, want 3", calls)
	}
}

func TestRetry_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	err := Retry(ctx, func() error {
		calls++
		cancel()
		return apperrors.NewTemporaryError("flaky")
	}, testConfig(5, apperrors.ErrTemporaryFailure))

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}

	if calls != 1 {
		t.Fatalf("fn called %d times, want 1", calls)
	}
}
