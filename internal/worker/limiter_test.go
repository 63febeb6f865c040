package worker

import (
	"context"
	"testing"
	"time"
)

func TestHostLimiter_New(t *testing.T) {
	if l := NewHostLimiter(10, 5); l.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", l.defaultBurst)
	}
	if l := NewHostLimiter(10, -1); l.defaultBurst != 1 {
		t.Errorf("expected default burst 1 for negative input, got %d", l.defaultBurst)
	}
}

func TestHostLimiter_Wait(t *testing.T) {
	limiter := NewHostLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "https://nominatim.openstreetmap.org/search"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, "https://en.wikipedia.org/w/api.php"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestHostLimiter_PerHostIsolation(t *testing.T) {
	limiter := NewHostLimiter(1, 1)

	if !limiter.Allow("https://nominatim.openstreetmap.org/search") {
		t.Error("first request should be allowed")
	}
	if limiter.Allow("https://nominatim.openstreetmap.org/search") {
		t.Error("second request within the same second should be denied")
	}
	// A different host has its own budget.
	if !limiter.Allow("https://en.wikipedia.org/w/api.php") {
		t.Error("other host should be allowed")
	}
}

func TestHostLimiter_SetHostRate(t *testing.T) {
	limiter := NewHostLimiter(10, 10)
	limiter.SetHostRate("nominatim.openstreetmap.org", 0.1, 1)

	if !limiter.Allow("https://nominatim.openstreetmap.org/search") {
		t.Error("burst request should pass")
	}
	if limiter.Allow("https://nominatim.openstreetmap.org/search") {
		t.Error("expected the overridden slow rate to deny the second request")
	}
	if !limiter.Allow("https://www.googleapis.com/books/v1/volumes") {
		t.Error("default-rate host should still be allowed")
	}
}

func TestHostLimiter_WaitWithDelay(t *testing.T) {
	limiter := NewHostLimiter(100, 1)
	ctx := context.Background()

	start := time.Now()
	if err := limiter.WaitWithDelay(ctx, "https://example.com", 50*time.Millisecond); err != nil {
		t.Fatalf("WaitWithDelay failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("expected delay >= 50ms, got %v", elapsed)
	}
}

func TestHostLimiter_WaitCancelled(t *testing.T) {
	limiter := NewHostLimiter(0.01, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// Exhaust the burst, then the next wait must fail on the deadline.
	_ = limiter.Wait(ctx, "https://example.com")
	if err := limiter.Wait(ctx, "https://example.com"); err == nil {
		t.Error("expected context deadline error")
	}
}
