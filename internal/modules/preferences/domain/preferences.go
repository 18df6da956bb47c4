package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	MinDuration     = 5 * time.Minute
	MaxDuration     = 180 * time.Minute
	DefaultDuration = 25 * time.Minute
)

// Preferences are the user's session defaults.
type Preferences struct {
	DefaultDuration        time.Duration
	DefaultBlockedApps     []string
	DefaultBlockedWebsites []string
	NotificationsEnabled   bool
	SoundEnabled           bool
	LastGoal               string
}

func Default() Preferences {
	return Preferences{
		DefaultDuration:      DefaultDuration,
		NotificationsEnabled: true,
		SoundEnabled:         true,
	}
}

// Clone returns a copy that shares no slices with p.
func (p Preferences) Clone() Preferences {
	out := p
	out.DefaultBlockedApps = append([]string(nil), p.DefaultBlockedApps...)
	out.DefaultBlockedWebsites = append([]string(nil), p.DefaultBlockedWebsites...)
	return out
}

func ValidateDuration(d time.Duration) error {
	if d < MinDuration || d > MaxDuration {
		return fmt.Errorf("duration %s outside %s..%s", d, MinDuration, MaxDuration)
	}
	return nil
}

// NormalizeList trims entries and drops blanks and duplicates, keeping the
// first occurrence.
func NormalizeList(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// NormalizeWebsite reduces a URL to its host-and-path form.
func NormalizeWebsite(raw string) string {
	site := strings.TrimSpace(raw)
	lower := strings.ToLower(site)
	for _, prefix := range []string{"https://", "http://"} {
		if strings.HasPrefix(lower, prefix) {
			site = site[len(prefix):]
			lower = lower[len(prefix):]
			break
		}
	}
	if strings.HasPrefix(lower, "www.") {
		site = site[len("www."):]
	}
	return strings.TrimRight(site, "/")
}

func NormalizeWebsites(values []string) []string {
	sites := make([]string, 0, len(values))
	for _, value := range values {
		sites = append(sites, NormalizeWebsite(value))
	}
	return NormalizeList(sites)
}
