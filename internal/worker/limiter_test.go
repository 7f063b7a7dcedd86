package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_AllowWithinBurst(t *testing.T) {
	limiter := NewLimiter(1.0, 3)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("openai") {
			t.Errorf("call %d within burst should be allowed", i)
		}
	}
	if limiter.Allow("openai") {
		t.Error("call beyond burst should be denied")
	}
}

func TestLimiter_PerAnalyzerIsolation(t *testing.T) {
	limiter := NewLimiter(1.0, 1)

	if !limiter.Allow("openai") {
		t.Error("first openai call should be allowed")
	}
	if limiter.Allow("openai") {
		t.Error("second openai call should be denied")
	}
	// A different analyzer has its own bucket
	if !limiter.Allow("gemini") {
		t.Error("first gemini call should be allowed")
	}
}

func TestLimiter_WaitRespectsContext(t *testing.T) {
	limiter := NewLimiter(0.1, 1) // 1 token per 10s after the burst

	if err := limiter.Wait(context.Background(), "openai"); err != nil {
		t.Fatalf("first wait should clear immediately: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, "openai"); err == nil {
		t.Error("expected context deadline error while throttled")
	}
}

func TestLimiter_SetAnalyzerRate(t *testing.T) {
	limiter := NewLimiter(1.0, 1)
	limiter.SetAnalyzerRate("ollama", 100.0, 10)

	allowed := 0
	for i := 0; i < 10; i++ {
		if limiter.Allow("ollama") {
			allowed++
		}
	}
	if allowed != 10 {
		t.Errorf("expected 10 allowed calls with custom burst, got %d", allowed)
	}
}
