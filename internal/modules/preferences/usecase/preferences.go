package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dpwrk/internal/modules/preferences/domain"
	prefsdto "dpwrk/internal/modules/preferences/dto"
	prefsin "dpwrk/internal/modules/preferences/port/in"
	"dpwrk/internal/modules/preferences/service"
	apperrors "dpwrk/internal/platform/errors"
)

type Interactor struct {
	svc *service.PreferencesService
}

func NewInteractor(svc *service.PreferencesService) prefsin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Get(ctx context.Context) (prefsdto.PreferencesOutput, error) {
	return toOutput(i.svc.Current(ctx)), nil
}

func (i *Interactor) SetDefaultDuration(ctx context.Context, duration time.Duration) (prefsdto.PreferencesOutput, error) {
	if err := domain.ValidateDuration(duration); err != nil {
		return prefsdto.PreferencesOutput{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidDuration, err)
	}
	return toOutput(i.svc.Update(ctx, func(p *domain.Preferences) {
		p.DefaultDuration = duration
	})), nil
}

func (i *Interactor) SetLastGoal(ctx context.Context, goal string) (prefsdto.PreferencesOutput, error) {
	goal = strings.TrimSpace(goal)
	return toOutput(i.svc.Update(ctx, func(p *domain.Preferences) {
		p.LastGoal = goal
	})), nil
}

func (i *Interactor) SetNotificationsEnabled(ctx context.Context, enabled bool) (prefsdto.PreferencesOutput, error) {
	return toOutput(i.svc.Update(ctx, func(p *domain.Preferences) {
		p.NotificationsEnabled = enabled
	})), nil
}

func (i *Interactor) SetSoundEnabled(ctx context.Context, enabled bool) (prefsdto.PreferencesOutput, error) {
	return toOutput(i.svc.Update(ctx, func(p *domain.Preferences) {
		p.SoundEnabled = enabled
	})), nil
}

func (i *Interactor) SetBlockedApps(ctx context.Context, apps []string) (prefsdto.PreferencesOutput, error) {
	apps = domain.NormalizeList(apps)
	return toOutput(i.svc.Update(ctx, func(p *domain.Preferences) {
		p.DefaultBlockedApps = apps
	})), nil
}

func (i *Interactor) SetBlockedWebsites(ctx context.Context, websites []string) (prefsdto.PreferencesOutput, error) {
	websites = domain.NormalizeWebsites(websites)
	return toOutput(i.svc.Update(ctx, func(p *domain.Preferences) {
		p.DefaultBlockedWebsites = websites
	})), nil
}

func toOutput(prefs domain.Preferences) prefsdto.PreferencesOutput {
	return prefsdto.PreferencesOutput{
		DefaultDuration:        prefs.DefaultDuration,
		DefaultBlockedApps:     prefs.DefaultBlockedApps,
		DefaultBlockedWebsites: prefs.DefaultBlockedWebsites,
		NotificationsEnabled:   prefs.NotificationsEnabled,
		SoundEnabled:           prefs.SoundEnabled,
		LastGoal:               prefs.LastGoal,
	}
}
