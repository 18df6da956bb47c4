// Package lifecycle turns host environment signals (sleep, wake, focus
// changes) into a single event stream for the timer to consume.
package lifecycle

import (
	"context"
	"errors"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"
)

// ErrUnsupported indicates a source is not available on this system.
var ErrUnsupported = errors.New("lifecycle source unsupported")

// Kind identifies a host lifecycle transition.
type Kind string

const (
	KindSleep      Kind = "sleep"
	KindWake       Kind = "wake"
	KindForeground Kind = "foreground"
	KindBackground Kind = "background"
)

// Event is a lifecycle notification from one source.
type Event struct {
	Kind   Kind
	Source string
	At     time.Time
}

// Source produces events until ctx is cancelled.
type Source interface {
	Name() string
	Run(ctx context.Context, out chan<- Event) error
}

// Merge runs every source and fans their events into one channel, which is
// closed once ctx is done and all sources have returned.
func Merge(ctx context.Context, logger hclog.Logger, sources ...Source) <-chan Event {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	out := make(chan Event, 8)
	var wg sync.WaitGroup
	for _, source := range sources {
		wg.Add(1)
		go func(source Source) {
			defer wg.Done()
			err := source.Run(ctx, out)
			switch {
			case err == nil:
			case errors.Is(err, ErrUnsupported):
				logger.Debug("lifecycle source unavailable", "source", source.Name())
			default:
				logger.Warn("lifecycle source stopped", "source", source.Name(), "error", err)
			}
		}(source)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

func send(ctx context.Context, out chan<- Event, event Event) {
	select {
	case out <- event:
	case <-ctx.Done():
	}
}
