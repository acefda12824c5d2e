package cadence

import (
	"testing"
	"time"
)

func TestDefaultUntilEnoughSamples(t *testing.T) {
	c := New(Config{})
	now := time.Unix(1000, 0)

	if got := c.Observe(now); got != DefaultInterval {
		t.Fatalf("first observation: got %v", got)
	}
	// two gaps recorded, still below MinSamples
	c.Observe(now.Add(time.Second))
	if got := c.Observe(now.Add(2 * time.Second)); got != DefaultInterval {
		t.Fatalf("below min samples: got %v", got)
	}
}

func TestAdaptsToHalfMeanGap(t *testing.T) {
	c := New(Config{})
	now := time.Unix(1000, 0)

	// four arrivals a second apart give three 1s gaps
	for i := 0; i < 4; i++ {
		c.Observe(now.Add(time.Duration(i) * time.Second))
	}
	if got := c.Interval(); got != 500*time.Millisecond {
		t.Fatalf("half mean: got %v", got)
	}
}

func TestClampsToBounds(t *testing.T) {
	c := New(Config{})
	now := time.Unix(1000, 0)

	// 100ms gaps advise 50ms raw, clamped up to the floor
	for i := 0; i < 5; i++ {
		c.Observe(now.Add(time.Duration(i) * 100 * time.Millisecond))
	}
	if got := c.Interval(); got != DefaultMinInterval {
		t.Fatalf("floor clamp: got %v", got)
	}

	c.Reset()
	// 30s gaps advise 15s raw, clamped down to the ceiling
	for i := 0; i < 5; i++ {
		c.Observe(now.Add(time.Duration(i) * 30 * time.Second))
	}
	if got := c.Interval(); got != DefaultMaxInterval {
		t.Fatalf("ceiling clamp: got %v", got)
	}
}

func TestIgnoresIdleGaps(t *testing.T) {
	c := New(Config{})
	now := time.Unix(1000, 0)

	c.Observe(now)
	c.Observe(now.Add(time.Second))
	c.Observe(now.Add(2 * time.Second))
	// a long idle stretch must not poison the window
	c.Observe(now.Add(2*time.Second + 5*time.Minute))
	if got := c.Interval(); got != DefaultInterval {
		t.Fatalf("idle gap sampled: got %v", got)
	}
	// the next regular gap completes the sample set
	c.Observe(now.Add(3*time.Second + 5*time.Minute))
	if got := c.Interval(); got != 500*time.Millisecond {
		t.Fatalf("after idle: got %v", got)
	}
}

func TestWindowSlides(t *testing.T) {
	c := New(Config{Window: 4})
	now := time.Unix(1000, 0)

	ts := now
	// fill the window with 2s gaps, then overwrite it with 1s gaps
	for i := 0; i < 5; i++ {
		ts = ts.Add(2 * time.Second)
		c.Observe(ts)
	}
	for i := 0; i < 4; i++ {
		ts = ts.Add(time.Second)
		c.Observe(ts)
	}
	if got := c.Interval(); got != 500*time.Millisecond {
		t.Fatalf("slid window: got %v", got)
	}
}
