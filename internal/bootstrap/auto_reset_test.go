package bootstrap

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"

	timeroutadapter "dpwrk/internal/modules/timer/adapter/out"
	"dpwrk/internal/modules/timer/domain"
	timerdto "dpwrk/internal/modules/timer/dto"
	"dpwrk/internal/platform/config"
)

type recordingResetter struct {
	mu    sync.Mutex
	reset []string
	done  chan struct{}
}

func (r *recordingResetter) ResetCompleted(_ context.Context, sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reset = append(r.reset, sessionID)
	close(r.done)
	return true
}

func TestAutoResetFiresAfterCompletion(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	target := &recordingResetter{done: make(chan struct{})}
	events := make(chan timerdto.Event, 4)
	go autoReset(ctx, target, events, 10*time.Millisecond, hclog.NewNullLogger())

	events <- timerdto.Event{Type: "state_changed"}
	events <- timerdto.Event{Type: "completed", Session: &timerdto.SessionOutput{ID: "s-1", Completed: true}}

	select {
	case <-target.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("auto reset never fired")
	}
	target.mu.Lock()
	defer target.mu.Unlock()
	if len(target.reset) != 1 || target.reset[0] != "s-1" {
		t.Fatalf("expected reset of s-1, got %v", target.reset)
	}
}

func TestAutoResetStopsWithContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	target := &recordingResetter{done: make(chan struct{})}
	events := make(chan timerdto.Event, 1)
	finished := make(chan struct{})
	go func() {
		autoReset(ctx, target, events, time.Hour, hclog.NewNullLogger())
		close(finished)
	}()

	events <- timerdto.Event{Type: "completed", Session: &timerdto.SessionOutput{ID: "s-1"}}
	cancel()
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatalf("auto reset loop did not stop")
	}
	target.mu.Lock()
	defer target.mu.Unlock()
	if len(target.reset) != 0 {
		t.Fatalf("cancelled reset should not fire")
	}
}

func TestDaemonResetsSessionThatExpiredWhileDown(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cfg, err := config.New(t.TempDir(), "error")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	cfg.AutoResetDelay = 20 * time.Millisecond

	app, err := New(ctx, cfg, nil, io.Discard)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer func() { _ = app.Close() }()
	if _, err := app.PrefsCLI.SetNotifications(ctx, false); err != nil {
		t.Fatalf("disable notifications: %v", err)
	}
	states := timeroutadapter.NewSQLiteStateStore(app.store, nil)
	if err := states.Save(ctx, domain.PersistedState{
		SessionID:        "expired-1",
		StartInstant:     time.Now().UTC().Add(-time.Hour),
		OriginalDuration: 25 * time.Minute,
		IsActive:         true,
	}); err != nil {
		t.Fatalf("save state: %v", err)
	}

	if err := startDaemon(ctx, app); err != nil {
		t.Fatalf("start daemon: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		state, err := app.timer.Status(ctx)
		if err != nil {
			t.Fatalf("status: %v", err)
		}
		if state.Phase == "idle" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expired session was never reset, phase=%s", state.Phase)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if _, ok := states.Load(ctx); ok {
		t.Fatalf("reset should clear the persisted session")
	}
}
