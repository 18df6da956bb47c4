package dto

import "time"

type PreferencesOutput struct {
	DefaultDuration        time.Duration
	DefaultBlockedApps     []string
	DefaultBlockedWebsites []string
	NotificationsEnabled   bool
	SoundEnabled           bool
	LastGoal               string
}
