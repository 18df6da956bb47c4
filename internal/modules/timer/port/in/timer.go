package in

import (
	"context"

	"dpwrk/internal/modules/timer/dto"
)

// Usecase is the control surface offered to UIs and remote clients.
type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) (dto.StateOutput, error)
	Pause(ctx context.Context) (dto.StateOutput, error)
	Resume(ctx context.Context) (dto.StateOutput, error)
	Stop(ctx context.Context) (dto.StateOutput, error)
	Status(ctx context.Context) (dto.StateOutput, error)
}

// Lifecycle receives host lifecycle inputs and exposes the event stream.
// It is only available in the process that owns the engine.
type Lifecycle interface {
	Restore(ctx context.Context) (dto.StateOutput, error)
	OnSystemSleep(ctx context.Context)
	OnSystemWake(ctx context.Context)
	OnForeground(ctx context.Context)
	OnBackground(ctx context.Context)
	ResetCompleted(ctx context.Context, sessionID string) bool
	Subscribe(buffer int) (<-chan dto.Event, func())
}
