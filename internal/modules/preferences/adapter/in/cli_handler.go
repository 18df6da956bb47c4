package in

import (
	"context"
	"time"

	prefsdto "dpwrk/internal/modules/preferences/dto"
	prefsin "dpwrk/internal/modules/preferences/port/in"
)

type CLIHandler struct {
	usecase prefsin.Usecase
}

func NewCLIHandler(usecase prefsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Show(ctx context.Context) (prefsdto.PreferencesOutput, error) {
	return h.usecase.Get(ctx)
}

func (h CLIHandler) SetDefaultMinutes(ctx context.Context, minutes int) (prefsdto.PreferencesOutput, error) {
	return h.usecase.SetDefaultDuration(ctx, time.Duration(minutes)*time.Minute)
}

func (h CLIHandler) SetNotifications(ctx context.Context, enabled bool) (prefsdto.PreferencesOutput, error) {
	return h.usecase.SetNotificationsEnabled(ctx, enabled)
}

func (h CLIHandler) SetSound(ctx context.Context, enabled bool) (prefsdto.PreferencesOutput, error) {
	return h.usecase.SetSoundEnabled(ctx, enabled)
}

func (h CLIHandler) SetBlockedApps(ctx context.Context, apps []string) (prefsdto.PreferencesOutput, error) {
	return h.usecase.SetBlockedApps(ctx, apps)
}

func (h CLIHandler) SetBlockedWebsites(ctx context.Context, websites []string) (prefsdto.PreferencesOutput, error) {
	return h.usecase.SetBlockedWebsites(ctx, websites)
}
