package out

import (
	"context"
	"time"

	"dpwrk/internal/modules/timer/domain"
	"dpwrk/internal/modules/timer/dto"
	timerin "dpwrk/internal/modules/timer/port/in"
)

// StateStore keeps the in-flight timer across process restarts. Load reports
// false for absent, partial or undecodable state.
type StateStore interface {
	Save(ctx context.Context, state domain.PersistedState) error
	Load(ctx context.Context) (domain.PersistedState, bool)
	Clear(ctx context.Context) error
}

// Scheduler delivers a notification once at a wall-clock instant. CancelAll
// is idempotent.
type Scheduler interface {
	ScheduleOneShot(ctx context.Context, at time.Time, title, body string) (string, error)
	CancelAll(ctx context.Context)
}

// Feedback is the user-visible completion cue (bell, haptic equivalent).
type Feedback interface {
	SessionCompleted(ctx context.Context, session domain.Session)
}

type SessionDefaults struct {
	Duration             time.Duration
	BlockedApps          []string
	BlockedWebsites      []string
	NotificationsEnabled bool
	SoundEnabled         bool
}

// PreferencesPort is the slice of user preferences the timer reads and writes.
type PreferencesPort interface {
	Defaults(ctx context.Context) (SessionDefaults, error)
	RememberGoal(ctx context.Context, goal string) error
}

type IPCServer interface {
	Serve(ctx context.Context, socketPath string, handler timerin.Usecase) error
}

type IPCClient interface {
	Start(ctx context.Context, socketPath string, input dto.StartInput) (dto.StateOutput, error)
	Pause(ctx context.Context, socketPath string) (dto.StateOutput, error)
	Resume(ctx context.Context, socketPath string) (dto.StateOutput, error)
	Stop(ctx context.Context, socketPath string) (dto.StateOutput, error)
	Status(ctx context.Context, socketPath string) (dto.StateOutput, error)
}

// Notifier posts a user-visible notification immediately.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}
