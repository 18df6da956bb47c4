package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"dpwrk/internal/modules/timer/domain"
	timerdto "dpwrk/internal/modules/timer/dto"
	timerout "dpwrk/internal/modules/timer/port/out"
	"dpwrk/internal/modules/timer/service"
	"dpwrk/internal/modules/timer/usecase"
	apperrors "dpwrk/internal/platform/errors"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type memoryStore struct {
	mu      sync.Mutex
	state   domain.PersistedState
	present bool
}

func (s *memoryStore) Save(_ context.Context, state domain.PersistedState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state, s.present = state, true
	return nil
}

func (s *memoryStore) Load(context.Context) (domain.PersistedState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.present
}

func (s *memoryStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state, s.present = domain.PersistedState{}, false
	return nil
}

type fakePrefs struct {
	defaults timerout.SessionDefaults
	err      error
	goals    []string
}

func (p *fakePrefs) Defaults(context.Context) (timerout.SessionDefaults, error) {
	return p.defaults, p.err
}

func (p *fakePrefs) RememberGoal(_ context.Context, goal string) error {
	p.goals = append(p.goals, goal)
	return nil
}

type seqID struct {
	mu sync.Mutex
	n  int
}

func (s *seqID) New() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return "id-" + string(rune('0'+s.n))
}

var base = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func newInteractor(t *testing.T, clk *fakeClock, store *memoryStore, prefs *fakePrefs) *usecase.Interactor {
	t.Helper()
	engine := service.NewEngine(clk, store, nil, nil, nil, service.Options{TickInterval: time.Hour})
	t.Cleanup(engine.Close)
	var port timerout.PreferencesPort
	if prefs != nil {
		port = prefs
	}
	return usecase.NewInteractor(engine, port, &seqID{}, nil)
}

func TestStartUsesPreferenceDefaults(t *testing.T) {
	t.Parallel()
	prefs := &fakePrefs{defaults: timerout.SessionDefaults{
		Duration:        45 * time.Minute,
		BlockedApps:     []string{"Slack"},
		BlockedWebsites: []string{"news.com"},
	}}
	uc := newInteractor(t, &fakeClock{now: base}, &memoryStore{}, prefs)

	out, err := uc.Start(context.Background(), timerdto.StartInput{Goal: "  draft chapter  "})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if out.Duration != 45*time.Minute || out.Remaining != 45*time.Minute {
		t.Fatalf("expected preference duration, got %+v", out)
	}
	if out.Goal != "draft chapter" || out.Phase != "running" || out.SessionID != "id-1" {
		t.Fatalf("unexpected output: %+v", out)
	}
	if len(prefs.goals) != 1 || prefs.goals[0] != "draft chapter" {
		t.Fatalf("expected goal remembered, got %v", prefs.goals)
	}
}

func TestStartRejectsOutOfRangeDuration(t *testing.T) {
	t.Parallel()
	uc := newInteractor(t, &fakeClock{now: base}, &memoryStore{}, nil)

	for _, d := range []time.Duration{4 * time.Minute, 181 * time.Minute} {
		if _, err := uc.Start(context.Background(), timerdto.StartInput{Duration: d}); !errors.Is(err, apperrors.ErrInvalidDuration) {
			t.Fatalf("expected ErrInvalidDuration for %s, got %v", d, err)
		}
	}
	status, _ := uc.Status(context.Background())
	if status.Phase != "idle" {
		t.Fatalf("rejected start should leave engine idle, got %s", status.Phase)
	}
}

func TestStartFallsBackWhenPreferencesFail(t *testing.T) {
	t.Parallel()
	prefs := &fakePrefs{err: errors.New("corrupt")}
	uc := newInteractor(t, &fakeClock{now: base}, &memoryStore{}, prefs)

	out, err := uc.Start(context.Background(), timerdto.StartInput{})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if out.Duration != domain.DefaultDuration {
		t.Fatalf("expected default duration, got %s", out.Duration)
	}
}

func TestRestoreAcrossInteractors(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: base}
	store := &memoryStore{}
	first := newInteractor(t, clk, store, nil)
	if _, err := first.Start(context.Background(), timerdto.StartInput{Goal: "read", Duration: 30 * time.Minute}); err != nil {
		t.Fatalf("start: %v", err)
	}

	clk.Advance(12 * time.Minute)
	second := newInteractor(t, clk, store, nil)
	out, err := second.Restore(context.Background())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if out.Phase != "running" || out.Remaining != 18*time.Minute || out.Goal != "read" || out.SessionID != "id-1" {
		t.Fatalf("unexpected restored state: %+v", out)
	}
}

func TestPausedSessionRestoresIdle(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: base}
	store := &memoryStore{}
	first := newInteractor(t, clk, store, nil)
	ctx := context.Background()
	if _, err := first.Start(ctx, timerdto.StartInput{Duration: 30 * time.Minute}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := first.Pause(ctx); err != nil {
		t.Fatalf("pause: %v", err)
	}

	second := newInteractor(t, clk, store, nil)
	out, _ := second.Restore(ctx)
	if out.Phase != "idle" {
		t.Fatalf("expected idle restore of paused session, got %s", out.Phase)
	}
}

func TestLifecycleHooksResync(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: base}
	store := &memoryStore{}
	uc := newInteractor(t, clk, store, nil)
	ctx := context.Background()
	if _, err := uc.Start(ctx, timerdto.StartInput{Duration: 30 * time.Minute}); err != nil {
		t.Fatalf("start: %v", err)
	}

	uc.OnSystemSleep(ctx)
	clk.Advance(20 * time.Minute)
	uc.OnSystemWake(ctx)
	out, _ := uc.Status(ctx)
	if out.Remaining != 10*time.Minute {
		t.Fatalf("expected 10m after wake, got %s", out.Remaining)
	}

	uc.OnBackground(ctx)
	clk.Advance(15 * time.Minute)
	uc.OnForeground(ctx)
	out, _ = uc.Status(ctx)
	if !out.IsComplete {
		t.Fatalf("expected completion after foreground, got %+v", out)
	}
	if !uc.ResetCompleted(ctx, out.SessionID) {
		t.Fatalf("expected reset of completed session")
	}
}

func TestSubscribeMapsSessionRecords(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: base}
	uc := newInteractor(t, clk, &memoryStore{}, nil)
	events, cancel := uc.Subscribe(8)
	defer cancel()
	ctx := context.Background()

	if _, err := uc.Start(ctx, timerdto.StartInput{Goal: "plan", Duration: 5 * time.Minute}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := uc.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}

	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.Type != string(domain.EventStopped) {
				if ev.Session != nil {
					t.Fatalf("state events should not carry a session")
				}
				continue
			}
			if ev.Session == nil || ev.Session.Goal != "plan" || ev.Session.Completed {
				t.Fatalf("unexpected stopped session: %+v", ev.Session)
			}
			if ev.State.Phase != "idle" {
				t.Fatalf("expected idle state on stop, got %s", ev.State.Phase)
			}
			return
		case <-timeout:
			t.Fatalf("stopped event not received")
		}
	}
}
