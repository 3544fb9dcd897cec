package circuitbreaker

import (
	"testing"
	"time"
)

func newTestBreaker() *CircuitBreaker {
	return New(Config{
		FailureThreshold: 3,
		ResetTimeout:     20 * time.Millisecond,
		HalfOpenMaxCalls: 1,
	})
}

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	cb := newTestBreaker()

	for i := 0; i < 3; i++ {
		if !cb.Allow() {
			t.Fatalf("call %d rejected while closed", i)
		}
		cb.Failure()
	}

	if cb.State() != StateOpen {
		t.Fatalf("state = %s, want open", cb.State())
	}

	if cb.Allow() {
		t.Fatal("open breaker must reject requests")
	}
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := newTestBreaker()

	cb.Failure()
	cb.Failure()
	cb.Success()
	cb.Failure()
	cb.Failure()

	if cb.State() != StateClosed {
		t.Fatalf("state = %s, want closed", cb.State())
	}
}

func TestBreaker_HalfOpenProbe(t *testing.T) {
	cb := newTestBreaker()

	for i := 0; i < 3; i++ {
		cb.Failure()
	}

	time.Sleep(25 * time.Millisecond)

	if !cb.Allow() {
		t.Fatal("breaker must allow a probe after the reset timeout")
	}

	if cb.State() != StateHalfOpen {
		t.Fatalf("state = %s, want half-open", cb.State())
	}

	// Only one probe allowed
	if cb.Allow() {
		t.Fatal("second call during half-open must be rejected")
	}

	cb.Success()

	if cb.State() != StateClosed {
		t.Fatalf("state after successful probe = %s, want closed", cb.State())
	}
}

func TestBreaker_FailedProbeReopens(t *testing.T) {
	cb := newTestBreaker()

	for i := 0; i < 3; i++ {
		cb.Failure()
	}

	time.Sleep(25 * time.Millisecond)
	cb.Allow()
	cb.Failure()

	if cb.State() != StateOpen {
		t.Fatalf("state after failed probe = %s, want open", cb.State())
	}
}
