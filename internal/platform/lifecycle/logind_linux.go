package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	logindInterface = "org.freedesktop.login1.Manager"
	prepareForSleep = "PrepareForSleep"
)

// LogindSource listens for systemd-logind PrepareForSleep signals on the
// system bus. The signal carries true before suspend and false after resume.
type LogindSource struct{}

func (LogindSource) Name() string { return "logind" }

func (s LogindSource) Run(ctx context.Context, out chan<- Event) error {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return fmt.Errorf("%w: connect system bus: %v", ErrUnsupported, err)
	}
	defer conn.Close()

	if err := conn.AddMatchSignal(
		dbus.WithMatchInterface(logindInterface),
		dbus.WithMatchMember(prepareForSleep),
	); err != nil {
		return fmt.Errorf("match %s: %w", prepareForSleep, err)
	}
	signals := make(chan *dbus.Signal, 4)
	conn.Signal(signals)
	defer conn.RemoveSignal(signals)

	for {
		select {
		case <-ctx.Done():
			return nil
		case sig, ok := <-signals:
			if !ok {
				return nil
			}
			kind, matched := kindForLogind(sig)
			if !matched {
				continue
			}
			send(ctx, out, Event{Kind: kind, Source: s.Name(), At: time.Now().UTC()})
		}
	}
}

func kindForLogind(sig *dbus.Signal) (Kind, bool) {
	if sig == nil || sig.Name != logindInterface+"."+prepareForSleep || len(sig.Body) == 0 {
		return "", false
	}
	sleeping, ok := sig.Body[0].(bool)
	if !ok {
		return "", false
	}
	if sleeping {
		return KindSleep, true
	}
	return KindWake, true
}
