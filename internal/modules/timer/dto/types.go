package dto

import "time"

type StartInput struct {
	Goal     string
	Duration time.Duration
}

type SessionOutput struct {
	ID              string
	Goal            string
	Duration        time.Duration
	StartTime       time.Time
	EndTime         time.Time
	BlockedApps     []string
	BlockedWebsites []string
	Completed       bool
}

type StateOutput struct {
	Phase      string
	SessionID  string
	Goal       string
	Duration   time.Duration
	Remaining  time.Duration
	Progress   float64
	IsActive   bool
	IsComplete bool
	StartedAt  time.Time
}

type Event struct {
	Type    string
	State   StateOutput
	Session *SessionOutput
	At      time.Time
}
