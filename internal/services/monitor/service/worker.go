package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"danmukit/internal/services/monitor/domain"
)

// Run satisfies domain.SessionPort. It scans on an adaptive tick until ctx
// is cancelled or the source reports io.EOF. Events already extracted when
// the session stops are still delivered
func (s *Session) Run(ctx context.Context) error {
	events := make(chan domain.Event, s.cfg.EmitBuffer)

	// the consumer gets a detached context so draining survives cancellation
	emitCtx := context.WithoutCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for ev := range events {
			if err := s.emitter.Emit(emitCtx, ev); err != nil && s.log != nil {
				s.log.Warn().Err(err).Str("kind", string(ev.Kind)).Msg("emit failed")
			}
		}
	}()
	defer wg.Wait()
	defer close(events)

	timer := time.NewTimer(s.cfg.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		blocks, err := s.source.Fetch(ctx)
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return err
		case err != nil:
			if s.log != nil {
				s.log.Warn().Err(err).Msg("source fetch failed")
			}
		}

		now := s.now()
		for _, b := range blocks {
			for _, ev := range s.ProcessBlock(b, now) {
				select {
				case events <- ev:
				default:
					// a stalled consumer must not stall the scan
					if s.log != nil {
						s.log.Warn().Str("kind", string(ev.Kind)).Msg("emit queue full, event dropped")
					}
				}
			}
		}

		next := s.cfg.Interval
		if !s.cfg.FixedInterval {
			next = s.cad.Interval()
		}
		timer.Reset(next)
	}
}
