package domain

import "time"

type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseRunning   Phase = "running"
	PhasePaused    Phase = "paused"
	PhaseCompleted Phase = "completed"
)

// Snapshot is the observable timer state published to collaborators.
type Snapshot struct {
	Phase        Phase
	Session      Session
	Duration     time.Duration
	Remaining    time.Duration
	Progress     float64
	IsActive     bool
	IsComplete   bool
	StartInstant time.Time
}

// PersistedState is the decomposed timer state kept across process restarts.
type PersistedState struct {
	SessionID        string
	StartInstant     time.Time
	OriginalDuration time.Duration
	IsActive         bool
	Goal             string
}

// Usable reports whether the state can drive a restore.
func (p PersistedState) Usable() bool {
	return p.IsActive && !p.StartInstant.IsZero() && p.OriginalDuration > 0
}

// RemainingAt derives the time left from the anchor and the wall clock. A
// clock that moved behind the anchor counts as no time elapsed.
func RemainingAt(startInstant time.Time, duration time.Duration, now time.Time) time.Duration {
	elapsed := now.Sub(startInstant)
	if elapsed < 0 {
		elapsed = 0
	}
	remaining := duration - elapsed
	if remaining < 0 {
		return 0
	}
	if remaining > duration {
		return duration
	}
	return remaining
}

// Progress is the remaining fraction, clamped to [0,1].
func Progress(remaining, duration time.Duration) float64 {
	if duration <= 0 {
		return 0
	}
	progress := float64(remaining) / float64(duration)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}
