package retry

import (
	"testing"
	"time"
)

func TestFixedAttemptsGivesUpAtMax(t *testing.T) {
	f := FixedAttempts{MaxAttempts: 3}
	for i := 0; i < 3; i++ {
		delay, ok := f.NextDelay(i, 0)
		if !ok {
			t.Fatalf("attempt %d: ok = false, want true", i)
		}
		if delay != 0 {
			t.Fatalf("attempt %d: delay = %v, want 0", i, delay)
		}
	}
	if _, ok := f.NextDelay(3, 0); ok {
		t.Fatal("attempt 3 should give up at MaxAttempts=3")
	}
}

func TestBackoffLinearDelayFormula(t *testing.T) {
	b := Backoff{BaseDelay: 100 * time.Millisecond, Linear: true}
	for attempt, want := range map[int]time.Duration{
		0: 100 * time.Millisecond,
		1: 200 * time.Millisecond,
		2: 300 * time.Millisecond,
	} {
		got, ok := b.NextDelay(attempt, 0)
		if !ok {
			t.Fatalf("attempt %d: ok = false", attempt)
		}
		if got != want {
			t.Errorf("attempt %d: delay = %v, want %v", attempt, got, want)
		}
	}
}

func TestBackoffExponentialDelayFormula(t *testing.T) {
	b := Backoff{BaseDelay: 100 * time.Millisecond, Linear: false}
	// (base/2) * (2^(n+1) - 1)
	for attempt, want := range map[int]time.Duration{
		0: 50 * time.Millisecond,  // 50 * (2-1)
		1: 150 * time.Millisecond, // 50 * (4-1)
		2: 350 * time.Millisecond, // 50 * (8-1)
	} {
		got, ok := b.NextDelay(attempt, 0)
		if !ok {
			t.Fatalf("attempt %d: ok = false", attempt)
		}
		if got != want {
			t.Errorf("attempt %d: delay = %v, want %v", attempt, got, want)
		}
	}
}

func TestBackoffCapsAtMaxDelay(t *testing.T) {
	b := Backoff{BaseDelay: 100 * time.Millisecond, Linear: true, MaxDelay: 250 * time.Millisecond}
	got, ok := b.NextDelay(5, 0) // uncapped would be 600ms
	if !ok {
		t.Fatal("ok = false")
	}
	if got != 250*time.Millisecond {
		t.Fatalf("delay = %v, want capped 250ms", got)
	}
}

func TestBackoffGivesUpPastTimeout(t *testing.T) {
	b := Backoff{BaseDelay: 100 * time.Millisecond, Timeout: 1 * time.Second}
	if _, ok := b.NextDelay(0, 2*time.Second); ok {
		t.Fatal("NextDelay past Timeout should give up")
	}
}

func TestBackoffCapsDelayToRemainingTimeout(t *testing.T) {
	b := Backoff{BaseDelay: 1 * time.Second, Linear: true, Timeout: 1500 * time.Millisecond}
	got, ok := b.NextDelay(0, 1*time.Second) // linear delay would be 1s, but only 500ms remain
	if !ok {
		t.Fatal("ok = false")
	}
	if got != 500*time.Millisecond {
		t.Fatalf("delay = %v, want remaining 500ms", got)
	}
}
