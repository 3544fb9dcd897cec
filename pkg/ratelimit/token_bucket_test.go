package ratelimit

import (
	"testing"
	"time"
)

func TestTokenBucket_StartsFull(t *testing.T) {
	tb := NewTokenBucket(3, 1)

	for i := 0; i < 3; i++ {
		if !tb.Allow() {
			t.Fatalf("request %d rejected with a full bucket", i)
		}
	}

	if tb.Allow() {
		t.Fatal("request allowed with an empty bucket")
	}
}

func TestTokenBucket_Refills(t *testing.T) {
	tb := NewTokenBucket(1, 100) // 100 tokens/sec

	if !tb.Allow() {
		t.Fatal("first request rejected")
	}

	if tb.Allow() {
		t.Fatal("bucket should be empty")
	}

	time.Sleep(20 * time.Millisecond)

	if !tb.Allow() {
		t.Fatal("bucket should have refilled")
	}
}

func TestIPRateLimiter_TracksIPsIndependently(t *testing.T) {
	limiter := NewIPRateLimiter(1, 0.001)
	defer limiter.Stop()

	if !limiter.Allow("10.0.0.1") {
		t.Fatal("first request from first IP rejected")
	}

	if limiter.Allow("10.0.0.1") {
		t.Fatal("second request from same IP allowed")
	}

	if !limiter.Allow("10.0.0.2") {
		t.Fatal("first request from second IP rejected")
	}
}
