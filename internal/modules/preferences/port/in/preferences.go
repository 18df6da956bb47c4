package in

import (
	"context"
	"time"

	"dpwrk/internal/modules/preferences/dto"
)

type Usecase interface {
	Get(ctx context.Context) (dto.PreferencesOutput, error)
	SetDefaultDuration(ctx context.Context, duration time.Duration) (dto.PreferencesOutput, error)
	SetLastGoal(ctx context.Context, goal string) (dto.PreferencesOutput, error)
	SetNotificationsEnabled(ctx context.Context, enabled bool) (dto.PreferencesOutput, error)
	SetSoundEnabled(ctx context.Context, enabled bool) (dto.PreferencesOutput, error)
	SetBlockedApps(ctx context.Context, apps []string) (dto.PreferencesOutput, error)
	SetBlockedWebsites(ctx context.Context, websites []string) (dto.PreferencesOutput, error)
}
