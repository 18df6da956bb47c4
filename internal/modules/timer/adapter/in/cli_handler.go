package in

import (
	"context"
	"time"

	timerdto "dpwrk/internal/modules/timer/dto"
	timerin "dpwrk/internal/modules/timer/port/in"
)

type CLIHandler struct {
	usecase timerin.Usecase
}

func NewCLIHandler(usecase timerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// Start treats zero minutes as the preferred default duration.
func (h CLIHandler) Start(ctx context.Context, goal string, minutes int) (timerdto.StateOutput, error) {
	return h.usecase.Start(ctx, timerdto.StartInput{Goal: goal, Duration: time.Duration(minutes) * time.Minute})
}

func (h CLIHandler) Pause(ctx context.Context) (timerdto.StateOutput, error) {
	return h.usecase.Pause(ctx)
}

func (h CLIHandler) Resume(ctx context.Context) (timerdto.StateOutput, error) {
	return h.usecase.Resume(ctx)
}

func (h CLIHandler) Stop(ctx context.Context) (timerdto.StateOutput, error) {
	return h.usecase.Stop(ctx)
}

func (h CLIHandler) Status(ctx context.Context) (timerdto.StateOutput, error) {
	return h.usecase.Status(ctx)
}
