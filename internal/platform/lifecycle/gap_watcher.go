package lifecycle

import (
	"context"
	"time"
)

// GapWatcher detects suspension by comparing wall-clock and monotonic
// progress between two samples. It only sees a gap where the monotonic
// clock pauses during suspend, as CLOCK_MONOTONIC does on Linux; elsewhere
// the logind and signal sources carry sleep and wake.
type GapWatcher struct {
	Interval  time.Duration
	Threshold time.Duration
}

func NewGapWatcher() GapWatcher {
	return GapWatcher{Interval: 5 * time.Second, Threshold: 10 * time.Second}
}

func (GapWatcher) Name() string { return "wall-clock-gap" }

func (w GapWatcher) Run(ctx context.Context, out chan<- Event) error {
	interval := w.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	threshold := w.Threshold
	if threshold <= 0 {
		threshold = 2 * interval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if SuspendedFor(last, now) >= threshold {
				send(ctx, out, Event{Kind: KindWake, Source: w.Name(), At: now.UTC()})
			}
			last = now
		}
	}
}

// SuspendedFor reports how far the wall clock moved beyond the monotonic
// clock between prev and next. Backward wall-clock jumps count as well.
// Values without a monotonic reading yield zero.
func SuspendedFor(prev, next time.Time) time.Duration {
	wall := next.Round(0).Sub(prev.Round(0))
	monotonic := next.Sub(prev)
	gap := wall - monotonic
	if gap < 0 {
		gap = -gap
	}
	return gap
}
