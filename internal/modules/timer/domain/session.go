package domain

import (
	"fmt"
	"time"
)

const (
	MinDuration     = 5 * time.Minute
	MaxDuration     = 180 * time.Minute
	DefaultDuration = 25 * time.Minute
)

// Session is an immutable record of one focus session. Values returned by
// NewSession and Finalize never share slices with their inputs.
type Session struct {
	ID              string
	Goal            string
	Duration        time.Duration
	StartTime       time.Time
	EndTime         time.Time
	Reflection      string
	BlockedApps     []string
	BlockedWebsites []string
	Completed       bool
}

func NewSession(id, goal string, duration time.Duration, startTime time.Time, blockedApps, blockedWebsites []string) Session {
	return Session{
		ID:              id,
		Goal:            goal,
		Duration:        duration,
		StartTime:       startTime,
		BlockedApps:     copyStrings(blockedApps),
		BlockedWebsites: copyStrings(blockedWebsites),
	}
}

// Finalize builds the ended form of a session.
func Finalize(session Session, endTime time.Time, completed bool) Session {
	return Session{
		ID:              session.ID,
		Goal:            session.Goal,
		Duration:        session.Duration,
		StartTime:       session.StartTime,
		EndTime:         endTime,
		Reflection:      session.Reflection,
		BlockedApps:     copyStrings(session.BlockedApps),
		BlockedWebsites: copyStrings(session.BlockedWebsites),
		Completed:       completed,
	}
}

func (s Session) IsZero() bool {
	return s.ID == "" && s.StartTime.IsZero()
}

func ValidateDuration(d time.Duration) error {
	if d < MinDuration || d > MaxDuration {
		return fmt.Errorf("duration %s outside %s..%s", d, MinDuration, MaxDuration)
	}
	return nil
}

// FormatClock renders a duration as HH:MM:SS, truncating sub-second parts.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

func copyStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
