package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	prefsout "dpwrk/internal/modules/preferences/adapter/out"
	"dpwrk/internal/modules/preferences/domain"
	"dpwrk/internal/modules/preferences/service"
)

func TestServicesSharingOneFileSeeEachOthersUpdates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "preferences.yaml")
	daemonSide := service.NewPreferencesService(ctx, prefsout.NewYAMLStore(path), nil)
	cliSide := service.NewPreferencesService(ctx, prefsout.NewYAMLStore(path), nil)

	cliSide.Update(ctx, func(p *domain.Preferences) {
		p.NotificationsEnabled = false
		p.DefaultDuration = 50 * time.Minute
	})

	seen := daemonSide.Current(ctx)
	if seen.NotificationsEnabled || seen.DefaultDuration != 50*time.Minute {
		t.Fatalf("daemon side kept a stale copy: %+v", seen)
	}

	daemonSide.Update(ctx, func(p *domain.Preferences) {
		p.LastGoal = "review notes"
	})

	stored, err := prefsout.NewYAMLStore(path).Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if stored.NotificationsEnabled || stored.DefaultDuration != 50*time.Minute || stored.LastGoal != "review notes" {
		t.Fatalf("daemon update reverted the other change: %+v", stored)
	}
}

func TestCurrentStartsFromDefaultsWithoutFile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := service.NewPreferencesService(ctx, prefsout.NewYAMLStore(filepath.Join(t.TempDir(), "missing.yaml")), nil)

	got := svc.Current(ctx)
	if got.DefaultDuration != domain.DefaultDuration || !got.NotificationsEnabled || !got.SoundEnabled {
		t.Fatalf("expected defaults, got %+v", got)
	}
}
