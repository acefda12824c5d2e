package fingerprint

import (
	"fmt"
	"testing"
	"time"
)

func TestSeenSuppressesWithinTTL(t *testing.T) {
	c := New(Config{TTL: 10 * time.Second, MaxEntries: 100})
	now := time.Unix(1000, 0)

	if c.Seen("a|b", now) {
		t.Fatal("first sighting must be unseen")
	}
	if !c.Seen("a|b", now.Add(time.Second)) {
		t.Fatal("second sighting within TTL must be seen")
	}
	if !c.Seen("a|b", now.Add(9*time.Second)) {
		t.Fatal("sighting just inside TTL must be seen")
	}
}

func TestSeenSlidesWindowOnHit(t *testing.T) {
	c := New(Config{TTL: 10 * time.Second, MaxEntries: 100})
	now := time.Unix(1000, 0)

	// a render resighted every 9s keeps suppressing past the original TTL
	c.Seen("a|b", now)
	for i := 1; i <= 3; i++ {
		if !c.Seen("a|b", now.Add(time.Duration(9*i)*time.Second)) {
			t.Fatalf("sighting %d must still be suppressed", i)
		}
	}
}

func TestSeenExpiresAfterTTL(t *testing.T) {
	c := New(Config{TTL: 10 * time.Second, MaxEntries: 100})
	now := time.Unix(1000, 0)

	c.Seen("a|b", now)
	if c.Seen("a|b", now.Add(10*time.Second)) {
		t.Fatal("sighting at TTL boundary must be unseen again")
	}
	// the refreshed entry suppresses from its new timestamp
	if !c.Seen("a|b", now.Add(11*time.Second)) {
		t.Fatal("refreshed entry must suppress")
	}
}

func TestEvictOldestPastBound(t *testing.T) {
	c := New(Config{TTL: time.Hour, MaxEntries: 3})
	now := time.Unix(1000, 0)

	for i := 0; i < 4; i++ {
		c.Seen(fmt.Sprintf("k%d", i), now.Add(time.Duration(i)*time.Second))
	}
	if got := c.Len(now.Add(4 * time.Second)); got != 3 {
		t.Fatalf("len: got %d want 3", got)
	}
	// k0 was evicted, so it reads as unseen despite the long TTL
	if c.Seen("k0", now.Add(5*time.Second)) {
		t.Fatal("evicted key must be unseen")
	}
	// k3 is still live
	if !c.Seen("k3", now.Add(5*time.Second)) {
		t.Fatal("live key must be seen")
	}
}

func TestLenExpiresLazily(t *testing.T) {
	c := New(Config{TTL: 5 * time.Second, MaxEntries: 100})
	now := time.Unix(1000, 0)

	c.Seen("a", now)
	c.Seen("b", now.Add(3*time.Second))
	if got := c.Len(now.Add(6 * time.Second)); got != 1 {
		t.Fatalf("len after partial expiry: got %d want 1", got)
	}
}

func TestReset(t *testing.T) {
	c := New(Config{TTL: time.Hour, MaxEntries: 10})
	now := time.Unix(1000, 0)

	c.Seen("a", now)
	c.Reset()
	if c.Seen("a", now.Add(time.Second)) {
		t.Fatal("reset cache must forget keys")
	}
}
