package usecase

import (
	"context"

	timerdto "dpwrk/internal/modules/timer/dto"
	timerout "dpwrk/internal/modules/timer/port/out"
)

// RemoteInteractor forwards control calls to the daemon that owns the engine.
type RemoteInteractor struct {
	client     timerout.IPCClient
	socketPath string
}

func NewRemoteInteractor(client timerout.IPCClient, socketPath string) *RemoteInteractor {
	return &RemoteInteractor{client: client, socketPath: socketPath}
}

func (r *RemoteInteractor) Start(ctx context.Context, input timerdto.StartInput) (timerdto.StateOutput, error) {
	return r.client.Start(ctx, r.socketPath, input)
}

func (r *RemoteInteractor) Pause(ctx context.Context) (timerdto.StateOutput, error) {
	return r.client.Pause(ctx, r.socketPath)
}

func (r *RemoteInteractor) Resume(ctx context.Context) (timerdto.StateOutput, error) {
	return r.client.Resume(ctx, r.socketPath)
}

func (r *RemoteInteractor) Stop(ctx context.Context) (timerdto.StateOutput, error) {
	return r.client.Stop(ctx, r.socketPath)
}

func (r *RemoteInteractor) Status(ctx context.Context) (timerdto.StateOutput, error) {
	return r.client.Status(ctx, r.socketPath)
}
