package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	"dpwrk/internal/modules/timer/domain"
	timerdto "dpwrk/internal/modules/timer/dto"
	timerout "dpwrk/internal/modules/timer/port/out"
	"dpwrk/internal/modules/timer/service"
	apperrors "dpwrk/internal/platform/errors"
	"dpwrk/internal/platform/id"
)

// Interactor drives the in-process engine. It serves both the control
// surface and the lifecycle surface.
type Interactor struct {
	engine *service.Engine
	prefs  timerout.PreferencesPort
	ids    id.Generator
	logger hclog.Logger
}

func NewInteractor(engine *service.Engine, prefs timerout.PreferencesPort, ids id.Generator, logger hclog.Logger) *Interactor {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Interactor{engine: engine, prefs: prefs, ids: ids, logger: logger}
}

func (i *Interactor) Start(ctx context.Context, input timerdto.StartInput) (timerdto.StateOutput, error) {
	defaults := i.defaults(ctx)
	duration := input.Duration
	if duration == 0 {
		duration = defaults.Duration
	}
	if err := domain.ValidateDuration(duration); err != nil {
		return timerdto.StateOutput{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidDuration, err)
	}

	goal := strings.TrimSpace(input.Goal)
	if i.prefs != nil {
		if err := i.prefs.RememberGoal(ctx, goal); err != nil {
			i.logger.Warn("remember goal failed", "error", err)
		}
	}

	snapshot := i.engine.Start(ctx, service.StartParams{
		ID:              i.ids.New(),
		Goal:            goal,
		Duration:        duration,
		BlockedApps:     defaults.BlockedApps,
		BlockedWebsites: defaults.BlockedWebsites,
	})
	return toStateOutput(snapshot), nil
}

func (i *Interactor) Pause(ctx context.Context) (timerdto.StateOutput, error) {
	snapshot, err := i.engine.Pause(ctx)
	if err != nil {
		return timerdto.StateOutput{}, err
	}
	return toStateOutput(snapshot), nil
}

func (i *Interactor) Resume(ctx context.Context) (timerdto.StateOutput, error) {
	snapshot, err := i.engine.Resume(ctx)
	if err != nil {
		return timerdto.StateOutput{}, err
	}
	return toStateOutput(snapshot), nil
}

func (i *Interactor) Stop(ctx context.Context) (timerdto.StateOutput, error) {
	return toStateOutput(i.engine.Stop(ctx)), nil
}

func (i *Interactor) Status(_ context.Context) (timerdto.StateOutput, error) {
	return toStateOutput(i.engine.Snapshot()), nil
}

func (i *Interactor) Restore(ctx context.Context) (timerdto.StateOutput, error) {
	defaults := i.defaults(ctx)
	snapshot := i.engine.Restore(ctx, func(state domain.PersistedState) service.StartParams {
		sessionID := state.SessionID
		if sessionID == "" {
			sessionID = i.ids.New()
		}
		return service.StartParams{
			ID:              sessionID,
			Goal:            state.Goal,
			BlockedApps:     defaults.BlockedApps,
			BlockedWebsites: defaults.BlockedWebsites,
		}
	})
	return toStateOutput(snapshot), nil
}

func (i *Interactor) OnSystemSleep(ctx context.Context) {
	i.logger.Debug("system sleep")
	i.engine.Checkpoint(ctx)
}

func (i *Interactor) OnSystemWake(ctx context.Context) {
	i.logger.Debug("system wake")
	i.engine.Resync(ctx)
}

func (i *Interactor) OnForeground(ctx context.Context) {
	i.logger.Debug("foreground")
	i.engine.Resync(ctx)
}

func (i *Interactor) OnBackground(ctx context.Context) {
	i.logger.Debug("background")
	i.engine.Checkpoint(ctx)
}

func (i *Interactor) ResetCompleted(ctx context.Context, sessionID string) bool {
	return i.engine.ResetCompleted(ctx, sessionID)
}

// Subscribe relays engine events as DTOs. The returned channel closes when
// the subscription is cancelled or the engine shuts down.
func (i *Interactor) Subscribe(buffer int) (<-chan timerdto.Event, func()) {
	source, cancel := i.engine.Subscribe(buffer)
	out := make(chan timerdto.Event, cap(source))
	go func() {
		defer close(out)
		for event := range source {
			mapped := timerdto.Event{Type: string(event.Type), State: toStateOutput(event.Snapshot), At: event.At}
			if !event.Session.IsZero() && (event.Type == domain.EventCompleted || event.Type == domain.EventStopped) {
				session := toSessionOutput(event.Session)
				mapped.Session = &session
			}
			relay(out, mapped)
		}
	}()
	return out, cancel
}

func relay(out chan timerdto.Event, event timerdto.Event) {
	select {
	case out <- event:
		return
	default:
	}
	select {
	case <-out:
	default:
	}
	select {
	case out <- event:
	default:
	}
}

func (i *Interactor) defaults(ctx context.Context) timerout.SessionDefaults {
	fallback := timerout.SessionDefaults{Duration: domain.DefaultDuration, NotificationsEnabled: true, SoundEnabled: true}
	if i.prefs == nil {
		return fallback
	}
	defaults, err := i.prefs.Defaults(ctx)
	if err != nil {
		i.logger.Warn("load preferences failed", "error", err)
		return fallback
	}
	if defaults.Duration == 0 {
		defaults.Duration = domain.DefaultDuration
	}
	return defaults
}

func toStateOutput(snapshot domain.Snapshot) timerdto.StateOutput {
	return timerdto.StateOutput{
		Phase:      string(snapshot.Phase),
		SessionID:  snapshot.Session.ID,
		Goal:       snapshot.Session.Goal,
		Duration:   snapshot.Duration,
		Remaining:  snapshot.Remaining,
		Progress:   snapshot.Progress,
		IsActive:   snapshot.IsActive,
		IsComplete: snapshot.IsComplete,
		StartedAt:  snapshot.Session.StartTime,
	}
}

func toSessionOutput(session domain.Session) timerdto.SessionOutput {
	return timerdto.SessionOutput{
		ID:              session.ID,
		Goal:            session.Goal,
		Duration:        session.Duration,
		StartTime:       session.StartTime,
		EndTime:         session.EndTime,
		BlockedApps:     session.BlockedApps,
		BlockedWebsites: session.BlockedWebsites,
		Completed:       session.Completed,
	}
}
