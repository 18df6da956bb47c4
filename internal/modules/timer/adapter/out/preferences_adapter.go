package out

import (
	"context"

	prefsin "dpwrk/internal/modules/preferences/port/in"
	timerout "dpwrk/internal/modules/timer/port/out"
)

type PreferencesAdapter struct {
	prefs prefsin.Usecase
}

func NewPreferencesAdapter(prefs prefsin.Usecase) timerout.PreferencesPort {
	return &PreferencesAdapter{prefs: prefs}
}

func (a *PreferencesAdapter) Defaults(ctx context.Context) (timerout.SessionDefaults, error) {
	current, err := a.prefs.Get(ctx)
	if err != nil {
		return timerout.SessionDefaults{}, err
	}
	return timerout.SessionDefaults{
		Duration:             current.DefaultDuration,
		BlockedApps:          current.DefaultBlockedApps,
		BlockedWebsites:      current.DefaultBlockedWebsites,
		NotificationsEnabled: current.NotificationsEnabled,
		SoundEnabled:         current.SoundEnabled,
	}, nil
}

func (a *PreferencesAdapter) RememberGoal(ctx context.Context, goal string) error {
	_, err := a.prefs.SetLastGoal(ctx, goal)
	return err
}
