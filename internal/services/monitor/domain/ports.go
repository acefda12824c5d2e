package domain

import (
	"context"
	"time"
)

// SourcePort supplies batches of raw blocks, one batch per scan tick.
// Returning an empty batch is normal; io.EOF from a finite source ends the
// session cleanly
type SourcePort interface {
	Fetch(ctx context.Context) ([]RawBlock, error)
}

// EmitterPort receives ordered events. Implementations must be fast; the
// session dispatches from a separate goroutine so a slow consumer delays
// delivery, never the scan tick
type EmitterPort interface {
	Emit(ctx context.Context, ev Event) error
}

// StatsRecorderPort is the slice of the stats module the monitor needs
type StatsRecorderPort interface {
	RecordChat(user, content string, at time.Time)
	RecordGift(user, gift string, count int64, at time.Time)
	RecordRealtime(info, user string, at time.Time)
	RecordViewerCount(value int64, at time.Time)
	RecordLikeCount(value int64, at time.Time)
}

// SessionPort is the external port of the monitor module
type SessionPort interface {
	// Run scans until ctx is cancelled or the source is exhausted
	Run(ctx context.Context) error

	// SetSelfNickname replaces the streamer's own nickname at runtime
	SetSelfNickname(name string)
	// SetAltNicknames replaces the alt-account nickname set at runtime
	SetAltNicknames(names []string)

	// Diagnostics returns a copy of the drop-diagnostics ring, oldest first
	Diagnostics() []Diagnostic
}

// Ports are dependencies injected into the monitor module
type Ports struct {
	Source  SourcePort        // required
	Emitter EmitterPort       // required
	Stats   StatsRecorderPort // optional
}
