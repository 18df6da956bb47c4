//go:build !windows

package lifecycle

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// SignalSource maps job-control and user signals onto lifecycle events:
// SIGCONT is a return to the foreground, SIGUSR1 a manual wake and SIGUSR2 a
// manual sleep.
type SignalSource struct{}

func (SignalSource) Name() string { return "signals" }

func (s SignalSource) Run(ctx context.Context, out chan<- Event) error {
	signals := make(chan os.Signal, 4)
	signal.Notify(signals, syscall.SIGCONT, syscall.SIGUSR1, syscall.SIGUSR2)
	defer signal.Stop(signals)

	for {
		select {
		case <-ctx.Done():
			return nil
		case sig := <-signals:
			kind, ok := KindForSignal(sig)
			if !ok {
				continue
			}
			send(ctx, out, Event{Kind: kind, Source: s.Name(), At: time.Now().UTC()})
		}
	}
}

func KindForSignal(sig os.Signal) (Kind, bool) {
	switch sig {
	case syscall.SIGCONT:
		return KindForeground, true
	case syscall.SIGUSR1:
		return KindWake, true
	case syscall.SIGUSR2:
		return KindSleep, true
	default:
		return "", false
	}
}
