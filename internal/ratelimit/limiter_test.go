package ratelimit

import (
	"context"
	"testing"
	"time"

	"stopwatch/internal/core"
)

var _ core.Pacer = (*RateLimiter)(nil)

func TestNewRateLimiter_ZeroRate(t *testing.T) {
	rl := NewRateLimiter(0)

	start := time.Now()
	for i := 0; i < 100; i++ {
		if err := rl.Wait(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 10*time.Millisecond {
		t.Errorf("zero rate should not block, took %v", elapsed)
	}
}

func TestRateLimiter_FirstWaitIsImmediate(t *testing.T) {
	rl := NewRateLimiter(1)

	start := time.Now()
	if err := rl.Wait(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("first wait took too long: %v", elapsed)
	}
}

func TestRateLimiter_ContextCancelled(t *testing.T) {
	rl := NewRateLimiter(1)
	_ = rl.Wait(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := rl.Wait(ctx); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestRateLimiter_SpacesTrials(t *testing.T) {
	rl := NewRateLimiter(10)
	ctx := context.Background()
	start := time.Now()

	// No burst: 6 trials at 10/s need 5 gaps of 100ms.
	for i := 0; i < 6; i++ {
		if err := rl.Wait(ctx); err != nil {
			t.Fatalf("wait failed: %v", err)
		}
	}

	if elapsed := time.Since(start); elapsed < 400*time.Millisecond {
		t.Errorf("pacing doesn't appear to be working, elapsed: %v", elapsed)
	}
}

func TestRateLimiter_Rate(t *testing.T) {
	if r := NewRateLimiter(0.5).Rate(); r != 0.5 {
		t.Errorf("expected rate 0.5, got %v", r)
	}
	if r := NewRateLimiter(0).Rate(); r != 0 {
		t.Errorf("expected rate 0, got %v", r)
	}
}

func TestRateLimiter_ConcurrentWait(t *testing.T) {
	rl := NewRateLimiter(1000)
	ctx := context.Background()

	done := make(chan struct{}, 5)
	for i := 0; i < 5; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 5; j++ {
				if err := rl.Wait(ctx); err != nil {
					return
				}
			}
		}()
	}
	for i := 0; i < 5; i++ {
		<-done
	}
}
