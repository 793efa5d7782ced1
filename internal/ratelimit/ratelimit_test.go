package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestAllowBurst(t *testing.T) {
	tests := []struct {
		name     string
		rps      float64
		burst    int
		calls    int
		wantPass int
	}{
		{name: "burst allows initial requests", rps: 1, burst: 3, calls: 3, wantPass: 3},
		{name: "exceeding burst blocks", rps: 1, burst: 2, calls: 5, wantPass: 2},
		{name: "single token", rps: 1, burst: 1, calls: 1, wantPass: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := New(tt.rps, tt.burst)

			passed := 0
			for i := 0; i < tt.calls; i++ {
				if rl.Allow("client") {
					passed++
				}
			}
			if passed != tt.wantPass {
				t.Errorf("Allow() passed %d, want %d", passed, tt.wantPass)
			}
		})
	}
}

func TestIndependentKeys(t *testing.T) {
	rl := New(1, 1)

	rl.Allow("10.0.0.1")
	if rl.Allow("10.0.0.1") {
		t.Error("first key should be exhausted")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("second key should be independent and allowed")
	}
}

func TestWaitPacesRequests(t *testing.T) {
	rl := New(10, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	start := time.Now()
	if err := rl.Wait(ctx, "client"); err != nil {
		t.Errorf("first Wait() failed: %v", err)
	}
	if time.Since(start) > 50*time.Millisecond {
		t.Error("first Wait() should be immediate")
	}

	// The second call pays for the first, roughly one token interval.
	start = time.Now()
	if err := rl.Wait(ctx, "client"); err != nil {
		t.Errorf("second Wait() failed: %v", err)
	}
	elapsed := time.Since(start)
	if elapsed < 80*time.Millisecond || elapsed > 200*time.Millisecond {
		t.Errorf("second Wait() took %v, want ~100ms", elapsed)
	}
}

func TestWaitContextCanceled(t *testing.T) {
	rl := New(0.1, 1)
	rl.Allow("client")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := rl.Wait(ctx, "client"); err == nil {
		t.Error("Wait() should fail when context is canceled")
	}
}
