package avatar

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRateLimiter_UnlimitedProviderNeverWaits(t *testing.T) {
	limiter := NewRateLimiter(map[ProviderID]int{ProviderDUIX: 1})

	start := time.Now()
	for i := 0; i < 50; i++ {
		if err := limiter.Admit(context.Background(), ProviderMock); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("unlimited provider waited %v", elapsed)
	}

	if got := limiter.Occupancy()[ProviderMock]; got != 0 {
		t.Errorf("unlimited provider tracked %d admissions, want 0", got)
	}
}

func TestRateLimiter_WaitsUntilOldestLeavesWindow(t *testing.T) {
	limiter := NewRateLimiter(map[ProviderID]int{ProviderDUIX: 2})
	limiter.window = 200 * time.Millisecond

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := limiter.Admit(ctx, ProviderDUIX); err != nil {
			t.Fatalf("admit %d: %v", i, err)
		}
	}

	// The window is full: the third admission must wait until the oldest
	// entry leaves it.
	start := time.Now()
	if err := limiter.Admit(ctx, ProviderDUIX); err != nil {
		t.Fatalf("third admit: %v", err)
	}
	elapsed := time.Since(start)

	if elapsed < 100*time.Millisecond {
		t.Errorf("third admission waited only %v, expected close to the window", elapsed)
	}
}

func TestRateLimiter_CancelledWhileWaiting(t *testing.T) {
	limiter := NewRateLimiter(map[ProviderID]int{ProviderDUIX: 1})

	if err := limiter.Admit(context.Background(), ProviderDUIX); err != nil {
		t.Fatalf("first admit: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := limiter.Admit(ctx, ProviderDUIX)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("cancellation took %v", elapsed)
	}

	// The cancelled caller must not occupy the window.
	if got := limiter.Occupancy()[ProviderDUIX]; got != 1 {
		t.Errorf("occupancy = %d, want 1", got)
	}
}

func TestRateLimiter_OccupancyPrunesExpired(t *testing.T) {
	limiter := NewRateLimiter(map[ProviderID]int{ProviderAkool: 10})
	limiter.window = 50 * time.Millisecond

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := limiter.Admit(ctx, ProviderAkool); err != nil {
			t.Fatalf("admit %d: %v", i, err)
		}
	}

	if got := limiter.Occupancy()[ProviderAkool]; got != 3 {
		t.Fatalf("occupancy = %d, want 3", got)
	}

	time.Sleep(80 * time.Millisecond)

	if got := limiter.Occupancy()[ProviderAkool]; got != 0 {
		t.Errorf("occupancy after window = %d, want 0", got)
	}
}
