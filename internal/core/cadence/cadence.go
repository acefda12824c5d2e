// Package cadence adapts the scan interval to how fast events actually
// arrive. It keeps a small ring of inter-arrival gaps and advises half the
// mean gap, clamped to a sane range
package cadence

import "time"

// Defaults applied by New for zero Config fields
const (
	DefaultMinInterval = 200 * time.Millisecond
	DefaultMaxInterval = 2 * time.Second
	DefaultInterval    = 500 * time.Millisecond
	DefaultOutlierGap  = time.Minute
	DefaultMinSamples  = 3
	DefaultWindow      = 10
)

// Config tunes a Controller
type Config struct {
	// MinInterval and MaxInterval clamp the advised interval
	MinInterval time.Duration
	MaxInterval time.Duration
	// Default is advised until MinSamples gaps have been observed
	Default time.Duration
	// OutlierGap discards idle-period gaps from the sample window
	OutlierGap time.Duration
	// MinSamples is how many gaps are needed before adapting
	MinSamples int
	// Window is the ring size
	Window int
}

// Controller tracks event inter-arrival gaps and advises a scan interval.
// It is confined to a single session goroutine
type Controller struct {
	cfg Config

	gaps []time.Duration
	next int
	n    int

	last time.Time
}

// New creates a Controller, filling zero fields of cfg with the defaults
func New(cfg Config) *Controller {
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = DefaultMinInterval
	}
	if cfg.MaxInterval <= 0 {
		cfg.MaxInterval = DefaultMaxInterval
	}
	if cfg.Default <= 0 {
		cfg.Default = DefaultInterval
	}
	if cfg.OutlierGap <= 0 {
		cfg.OutlierGap = DefaultOutlierGap
	}
	if cfg.MinSamples <= 0 {
		cfg.MinSamples = DefaultMinSamples
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	return &Controller{cfg: cfg, gaps: make([]time.Duration, cfg.Window)}
}

// Observe records an event arrival at now and returns the advised interval.
// Gaps at or beyond OutlierGap are idle periods and are not sampled
func (c *Controller) Observe(now time.Time) time.Duration {
	if !c.last.IsZero() {
		gap := now.Sub(c.last)
		if gap > 0 && gap < c.cfg.OutlierGap {
			c.gaps[c.next] = gap
			c.next = (c.next + 1) % c.cfg.Window
			if c.n < c.cfg.Window {
				c.n++
			}
		}
	}
	c.last = now
	return c.Interval()
}

// Interval returns the current advice without recording anything
func (c *Controller) Interval() time.Duration {
	if c.n < c.cfg.MinSamples {
		return c.cfg.Default
	}
	var sum time.Duration
	for i := 0; i < c.n; i++ {
		sum += c.gaps[i]
	}
	iv := sum / time.Duration(c.n) / 2
	if iv < c.cfg.MinInterval {
		return c.cfg.MinInterval
	}
	if iv > c.cfg.MaxInterval {
		return c.cfg.MaxInterval
	}
	return iv
}

// Reset clears the sample window and the last arrival mark
func (c *Controller) Reset() {
	c.n, c.next = 0, 0
	c.last = time.Time{}
}
