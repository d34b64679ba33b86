package clock

import (
	"testing"
	"time"
)

func TestMonotonicNeverRepeats(t *testing.T) {
	fixed := time.UnixMilli(1_700_000_000_000)
	c := &Monotonic{now: func() time.Time { return fixed }}

	prev := c.Now()
	for i := 0; i < 100; i++ {
		got := c.Now()
		if got <= prev {
			t.Fatalf("reading %d: got %d, want > %d", i, got, prev)
		}
		prev = got
	}
}

func TestMonotonicFollowsWallClock(t *testing.T) {
	current := time.UnixMilli(1000)
	c := &Monotonic{now: func() time.Time { return current }}

	if got := c.Now(); got != 1000 {
		t.Fatalf("expected 1000, got %d", got)
	}

	current = time.UnixMilli(5000)
	if got := c.Now(); got != 5000 {
		t.Fatalf("expected 5000, got %d", got)
	}

	// Wall clock stepping back must not be visible
	current = time.UnixMilli(10)
	if got := c.Now(); got != 5001 {
		t.Fatalf("expected 5001, got %d", got)
	}
}

func TestManual(t *testing.T) {
	c := NewManual(100)
	if got := c.Now(); got != 100 {
		t.Errorf("expected 100, got %d", got)
	}
	if got := c.Now(); got != 101 {
		t.Errorf("expected 101, got %d", got)
	}

	c.Set(500)
	c.Step = 10
	if got := c.Now(); got != 500 {
		t.Errorf("expected 500, got %d", got)
	}
	if got := c.Now(); got != 510 {
		t.Errorf("expected 510, got %d", got)
	}
}
