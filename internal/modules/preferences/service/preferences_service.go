package service

import (
	"context"
	"sync"

	"github.com/hashicorp/go-hclog"

	"dpwrk/internal/modules/preferences/domain"
	prefsout "dpwrk/internal/modules/preferences/port/out"
)

// PreferencesService writes every mutation through to the store. The store
// is shared with other processes, so reads and updates start from the stored
// copy; the cached copy only answers while the store is unreadable or the
// last save failed. Save failures are logged, never returned.
type PreferencesService struct {
	store  prefsout.Store
	logger hclog.Logger

	mu      sync.Mutex
	current domain.Preferences
	unsaved bool
}

func NewPreferencesService(ctx context.Context, store prefsout.Store, logger hclog.Logger) *PreferencesService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	current, err := store.Load(ctx)
	if err != nil {
		logger.Warn("load preferences failed, using defaults", "error", err)
	}
	return &PreferencesService{store: store, logger: logger, current: current.Clone()}
}

func (s *PreferencesService) Current(ctx context.Context) domain.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked(ctx)
	return s.current.Clone()
}

func (s *PreferencesService) Update(ctx context.Context, mutate func(*domain.Preferences)) domain.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked(ctx)
	next := s.current.Clone()
	mutate(&next)
	s.current = next
	s.unsaved = false
	if err := s.store.Save(ctx, next); err != nil {
		s.unsaved = true
		s.logger.Warn("save preferences failed", "error", err)
	}
	return next.Clone()
}

func (s *PreferencesService) refreshLocked(ctx context.Context) {
	if s.unsaved {
		return
	}
	stored, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Debug("reload preferences failed, keeping cached copy", "error", err)
		return
	}
	s.current = stored.Clone()
}
