package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"dpwrk/internal/modules/preferences/domain"
	prefsout "dpwrk/internal/modules/preferences/port/out"
)

type yamlPreferences struct {
	DefaultDurationMinutes int      `yaml:"default_duration_minutes"`
	DefaultBlockedApps     []string `yaml:"default_blocked_apps"`
	DefaultBlockedWebsites []string `yaml:"default_blocked_websites"`
	NotificationsEnabled   *bool    `yaml:"notifications_enabled"`
	SoundEnabled           *bool    `yaml:"sound_enabled"`
	LastGoal               string   `yaml:"last_goal"`
}

type YAMLStore struct {
	path string
	mu   sync.Mutex
}

func NewYAMLStore(path string) prefsout.Store {
	return &YAMLStore{path: path}
}

// Load returns defaults when the file is missing. An unreadable or
// undecodable file also yields defaults, with the error.
func (s *YAMLStore) Load(context.Context) (domain.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefs := domain.Default()

	rawData, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs, nil
		}
		return prefs, fmt.Errorf("read preferences file: %w", err)
	}

	var fileData yamlPreferences
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return prefs, fmt.Errorf("parse preferences yaml: %w", err)
	}
	applyYAMLPreferences(&prefs, fileData)
	return prefs, nil
}

func (s *YAMLStore) Save(_ context.Context, prefs domain.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create preferences directory: %w", err)
	}

	notifications := prefs.NotificationsEnabled
	sound := prefs.SoundEnabled
	fileData := yamlPreferences{
		DefaultDurationMinutes: int(prefs.DefaultDuration / time.Minute),
		DefaultBlockedApps:     prefs.DefaultBlockedApps,
		DefaultBlockedWebsites: prefs.DefaultBlockedWebsites,
		NotificationsEnabled:   &notifications,
		SoundEnabled:           &sound,
		LastGoal:               prefs.LastGoal,
	}
	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal preferences yaml: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, serialized, 0o644); err != nil {
		return fmt.Errorf("write preferences file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace preferences file: %w", err)
	}
	return nil
}

func applyYAMLPreferences(prefs *domain.Preferences, fileData yamlPreferences) {
	if duration := time.Duration(fileData.DefaultDurationMinutes) * time.Minute; domain.ValidateDuration(duration) == nil {
		prefs.DefaultDuration = duration
	}
	prefs.DefaultBlockedApps = domain.NormalizeList(fileData.DefaultBlockedApps)
	prefs.DefaultBlockedWebsites = domain.NormalizeWebsites(fileData.DefaultBlockedWebsites)
	if fileData.NotificationsEnabled != nil {
		prefs.NotificationsEnabled = *fileData.NotificationsEnabled
	}
	if fileData.SoundEnabled != nil {
		prefs.SoundEnabled = *fileData.SoundEnabled
	}
	prefs.LastGoal = fileData.LastGoal
}
