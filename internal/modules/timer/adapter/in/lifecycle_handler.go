package in

import (
	"context"

	"github.com/hashicorp/go-hclog"

	timerin "dpwrk/internal/modules/timer/port/in"
	"dpwrk/internal/platform/lifecycle"
)

// LifecycleHandler routes host lifecycle events to the timer.
type LifecycleHandler struct {
	lifecycle timerin.Lifecycle
	logger    hclog.Logger
}

func NewLifecycleHandler(lc timerin.Lifecycle, logger hclog.Logger) LifecycleHandler {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return LifecycleHandler{lifecycle: lc, logger: logger}
}

func (h LifecycleHandler) Handle(ctx context.Context, event lifecycle.Event) {
	h.logger.Debug("lifecycle event", "kind", event.Kind, "source", event.Source)
	switch event.Kind {
	case lifecycle.KindSleep:
		h.lifecycle.OnSystemSleep(ctx)
	case lifecycle.KindWake:
		h.lifecycle.OnSystemWake(ctx)
	case lifecycle.KindForeground:
		h.lifecycle.OnForeground(ctx)
	case lifecycle.KindBackground:
		h.lifecycle.OnBackground(ctx)
	default:
		h.logger.Warn("unknown lifecycle event", "kind", event.Kind)
	}
}

// Run consumes events until the channel closes or ctx is done.
func (h LifecycleHandler) Run(ctx context.Context, events <-chan lifecycle.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			h.Handle(ctx, event)
		}
	}
}
