package service

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"dpwrk/internal/modules/timer/domain"
	timerout "dpwrk/internal/modules/timer/port/out"
	"dpwrk/internal/platform/clock"
	apperrors "dpwrk/internal/platform/errors"
)

const (
	DefaultNotificationTitle = "Session Complete"
	DefaultNotificationBody  = "Great job! Your session is complete."
)

type Options struct {
	TickInterval      time.Duration
	NotificationTitle string
	NotificationBody  string
}

func (o Options) withDefaults() Options {
	if o.TickInterval <= 0 {
		o.TickInterval = time.Second
	}
	if o.NotificationTitle == "" {
		o.NotificationTitle = DefaultNotificationTitle
	}
	if o.NotificationBody == "" {
		o.NotificationBody = DefaultNotificationBody
	}
	return o
}

// StartParams describes a new session. Duration must already be validated.
type StartParams struct {
	ID              string
	Goal            string
	Duration        time.Duration
	BlockedApps     []string
	BlockedWebsites []string
}

// Engine owns the countdown. Remaining time is always derived from the wall
// clock and the start anchor, so ticks that never fire while the host is
// suspended cost nothing but latency.
type Engine struct {
	clock     clock.Clock
	store     timerout.StateStore
	scheduler timerout.Scheduler
	feedback  timerout.Feedback
	logger    hclog.Logger
	options   Options

	mu               sync.Mutex
	phase            domain.Phase
	session          domain.Session
	finalized        domain.Session
	startInstant     time.Time
	originalDuration time.Duration
	remaining        time.Duration
	progress         float64
	isActive         bool
	isComplete       bool

	tickStop chan struct{}
	tickGen  uint64

	subscribers map[int]chan domain.Event
	nextSub     int
	closed      bool
}

func NewEngine(clk clock.Clock, store timerout.StateStore, scheduler timerout.Scheduler, feedback timerout.Feedback, logger hclog.Logger, options Options) *Engine {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if scheduler == nil {
		scheduler = noopScheduler{}
	}
	if feedback == nil {
		feedback = noopFeedback{}
	}
	return &Engine{
		clock:       clk,
		store:       store,
		scheduler:   scheduler,
		feedback:    feedback,
		logger:      logger,
		options:     options.withDefaults(),
		phase:       domain.PhaseIdle,
		progress:    1,
		subscribers: map[int]chan domain.Event{},
	}
}

// Start replaces whatever session is in flight with a fresh one anchored at
// the current wall-clock instant.
func (e *Engine) Start(ctx context.Context, params StartParams) domain.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	e.haltTickerLocked()
	e.scheduler.CancelAll(ctx)

	e.session = domain.NewSession(params.ID, params.Goal, params.Duration, now, params.BlockedApps, params.BlockedWebsites)
	e.finalized = domain.Session{}
	e.startInstant = now
	e.originalDuration = params.Duration
	e.remaining = params.Duration
	e.progress = domain.Progress(params.Duration, params.Duration)
	e.isActive = true
	e.isComplete = false
	e.phase = domain.PhaseRunning

	e.persistLocked(ctx)
	e.scheduleLocked(ctx, now.Add(params.Duration))
	e.startTickerLocked()
	e.logger.Info("session started", "session_id", e.session.ID, "duration", params.Duration)

	snapshot := e.snapshotLocked()
	e.emitLocked(domain.Event{Type: domain.EventStateChanged, Snapshot: snapshot, At: now})
	return snapshot
}

// Pause freezes the remaining time. The pending notification is withdrawn
// until Resume.
func (e *Engine) Pause(ctx context.Context) (domain.Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != domain.PhaseRunning {
		return e.snapshotLocked(), apperrors.ErrNotRunning
	}
	now := e.clock.Now()
	e.recomputeLocked(now)
	if e.remaining <= 0 {
		e.completeLocked(ctx, now)
		return e.snapshotLocked(), nil
	}

	e.haltTickerLocked()
	e.scheduler.CancelAll(ctx)
	e.isActive = false
	e.phase = domain.PhasePaused
	e.persistLocked(ctx)
	e.logger.Info("session paused", "session_id", e.session.ID, "remaining", e.remaining)

	snapshot := e.snapshotLocked()
	e.emitLocked(domain.Event{Type: domain.EventStateChanged, Snapshot: snapshot, At: now})
	return snapshot, nil
}

// Resume rebases the anchor so that the frozen remaining time continues
// counting down from now.
func (e *Engine) Resume(ctx context.Context) (domain.Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != domain.PhasePaused {
		return e.snapshotLocked(), apperrors.ErrNotPaused
	}
	now := e.clock.Now()
	e.startInstant = now.Add(-(e.originalDuration - e.remaining))
	e.isActive = true
	e.phase = domain.PhaseRunning

	e.persistLocked(ctx)
	e.scheduleLocked(ctx, now.Add(e.remaining))
	e.startTickerLocked()
	e.logger.Info("session resumed", "session_id", e.session.ID, "remaining", e.remaining)

	snapshot := e.snapshotLocked()
	e.emitLocked(domain.Event{Type: domain.EventStateChanged, Snapshot: snapshot, At: now})
	return snapshot, nil
}

// Stop aborts any session and returns to Idle. Persisted state is cleared so
// a later Restore comes up idle.
func (e *Engine) Stop(ctx context.Context) domain.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stopLocked(ctx)
}

// ResetCompleted stops the engine only while it still shows the given
// completed session.
func (e *Engine) ResetCompleted(ctx context.Context, sessionID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.isComplete || e.finalized.ID != sessionID {
		return false
	}
	e.stopLocked(ctx)
	return true
}

// Tick recomputes remaining time from the wall clock. It is a no-op unless a
// session is running.
func (e *Engine) Tick(ctx context.Context) domain.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickLocked(ctx, e.clock.Now())
	return e.snapshotLocked()
}

// Resync forces an immediate recomputation, used after wake or foreground.
func (e *Engine) Resync(ctx context.Context) domain.Snapshot {
	return e.Tick(ctx)
}

// Checkpoint persists the current state without recomputing it.
func (e *Engine) Checkpoint(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase == domain.PhaseRunning || e.phase == domain.PhasePaused {
		e.persistLocked(ctx)
	}
}

// Restore reconciles the engine with persisted state. reconstruct supplies
// the session fields that are not part of the persisted record.
func (e *Engine) Restore(ctx context.Context, reconstruct func(domain.PersistedState) StartParams) domain.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	state, ok := e.store.Load(ctx)
	if !ok || !state.Usable() {
		e.logger.Debug("no active timer state to restore")
		return e.snapshotLocked()
	}

	params := StartParams{ID: state.SessionID, Goal: state.Goal}
	if reconstruct != nil {
		params = reconstruct(state)
	}
	if params.ID == "" {
		params.ID = state.SessionID
	}

	e.haltTickerLocked()
	e.scheduler.CancelAll(ctx)
	e.session = domain.NewSession(params.ID, state.Goal, state.OriginalDuration, state.StartInstant, params.BlockedApps, params.BlockedWebsites)
	e.finalized = domain.Session{}
	e.startInstant = state.StartInstant
	e.originalDuration = state.OriginalDuration
	e.isActive = true
	e.isComplete = false
	e.phase = domain.PhaseRunning
	e.recomputeLocked(now)

	if now.Sub(state.StartInstant) >= state.OriginalDuration {
		e.logger.Info("restored session already expired", "session_id", e.session.ID)
		e.completeLocked(ctx, now)
		e.scheduleLocked(ctx, now)
		return e.snapshotLocked()
	}

	e.scheduleLocked(ctx, state.StartInstant.Add(state.OriginalDuration))
	e.startTickerLocked()
	e.logger.Info("session restored", "session_id", e.session.ID, "remaining", e.remaining)

	snapshot := e.snapshotLocked()
	e.emitLocked(domain.Event{Type: domain.EventStateChanged, Snapshot: snapshot, At: now})
	return snapshot
}

func (e *Engine) Snapshot() domain.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Subscribe registers a listener. A slow listener loses its oldest event
// rather than blocking the engine.
func (e *Engine) Subscribe(buffer int) (<-chan domain.Event, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan domain.Event, buffer)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		close(ch)
		return ch, func() {}
	}
	subID := e.nextSub
	e.nextSub++
	e.subscribers[subID] = ch

	return ch, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if existing, ok := e.subscribers[subID]; ok {
			delete(e.subscribers, subID)
			close(existing)
		}
	}
}

// Close halts the ticker and closes every subscription. Persisted state is
// left alone.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.haltTickerLocked()
	for subID, ch := range e.subscribers {
		delete(e.subscribers, subID)
		close(ch)
	}
}

func (e *Engine) stopLocked(ctx context.Context) domain.Snapshot {
	now := e.clock.Now()
	e.haltTickerLocked()
	e.scheduler.CancelAll(ctx)
	if err := e.store.Clear(ctx); err != nil {
		e.logger.Warn("clear timer state failed", "error", err)
	}

	var aborted domain.Session
	if !e.session.IsZero() && !e.isComplete {
		aborted = domain.Finalize(e.session, now, false)
		e.logger.Info("session stopped", "session_id", aborted.ID)
	}

	e.session = domain.Session{}
	e.finalized = domain.Session{}
	e.isActive = false
	e.isComplete = false
	e.remaining = e.originalDuration
	e.progress = 1
	e.phase = domain.PhaseIdle

	snapshot := e.snapshotLocked()
	if aborted.IsZero() {
		e.emitLocked(domain.Event{Type: domain.EventStateChanged, Snapshot: snapshot, At: now})
	} else {
		e.emitLocked(domain.Event{Type: domain.EventStopped, Snapshot: snapshot, Session: aborted, At: now})
	}
	return snapshot
}

func (e *Engine) tickLocked(ctx context.Context, now time.Time) {
	if e.phase != domain.PhaseRunning {
		return
	}
	e.recomputeLocked(now)
	e.persistLocked(ctx)
	if e.remaining <= 0 {
		e.completeLocked(ctx, now)
		return
	}
	e.emitLocked(domain.Event{Type: domain.EventStateChanged, Snapshot: e.snapshotLocked(), At: now})
}

func (e *Engine) recomputeLocked(now time.Time) {
	e.remaining = domain.RemainingAt(e.startInstant, e.originalDuration, now)
	e.progress = domain.Progress(e.remaining, e.originalDuration)
	if now.Before(e.startInstant) {
		e.progress = 1
	}
}

// completeLocked runs at most once per session. It does not clear persisted
// state and does not post a notification of its own.
func (e *Engine) completeLocked(ctx context.Context, now time.Time) {
	if e.isComplete {
		return
	}
	e.haltTickerLocked()
	e.isComplete = true
	e.isActive = false
	e.remaining = 0
	e.progress = 0
	e.phase = domain.PhaseCompleted
	e.finalized = domain.Finalize(e.session, now, true)
	e.logger.Info("session completed", "session_id", e.finalized.ID, "goal", e.finalized.Goal)

	e.feedback.SessionCompleted(ctx, e.finalized)
	e.emitLocked(domain.Event{Type: domain.EventCompleted, Snapshot: e.snapshotLocked(), Session: e.finalized, At: now})
}

func (e *Engine) persistLocked(ctx context.Context) {
	state := domain.PersistedState{
		SessionID:        e.session.ID,
		StartInstant:     e.startInstant,
		OriginalDuration: e.originalDuration,
		IsActive:         e.isActive,
		Goal:             e.session.Goal,
	}
	if err := e.store.Save(ctx, state); err != nil {
		e.logger.Warn("persist timer state failed", "error", err)
	}
}

func (e *Engine) scheduleLocked(ctx context.Context, at time.Time) {
	if _, err := e.scheduler.ScheduleOneShot(ctx, at, e.options.NotificationTitle, e.options.NotificationBody); err != nil {
		e.logger.Warn("schedule completion notification failed", "error", err)
	}
}

func (e *Engine) snapshotLocked() domain.Snapshot {
	session := e.session
	if e.isComplete {
		session = e.finalized
	}
	return domain.Snapshot{
		Phase:        e.phase,
		Session:      session,
		Duration:     e.originalDuration,
		Remaining:    e.remaining,
		Progress:     e.progress,
		IsActive:     e.isActive,
		IsComplete:   e.isComplete,
		StartInstant: e.startInstant,
	}
}

func (e *Engine) emitLocked(event domain.Event) {
	for _, ch := range e.subscribers {
		select {
		case ch <- event:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- event:
		default:
		}
	}
}

func (e *Engine) startTickerLocked() {
	e.haltTickerLocked()
	if e.closed {
		return
	}
	stop := make(chan struct{})
	e.tickStop = stop
	go e.runTicker(e.tickGen, stop)
}

func (e *Engine) haltTickerLocked() {
	if e.tickStop != nil {
		close(e.tickStop)
		e.tickStop = nil
	}
	e.tickGen++
}

func (e *Engine) runTicker(gen uint64, stop <-chan struct{}) {
	ticker := time.NewTicker(e.options.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			e.mu.Lock()
			if gen == e.tickGen {
				e.tickLocked(context.Background(), e.clock.Now())
			}
			e.mu.Unlock()
		}
	}
}

type noopScheduler struct{}

func (noopScheduler) ScheduleOneShot(context.Context, time.Time, string, string) (string, error) {
	return "", nil
}

func (noopScheduler) CancelAll(context.Context) {}

type noopFeedback struct{}

func (noopFeedback) SessionCompleted(context.Context, domain.Session) {}
