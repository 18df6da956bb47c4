package apperrors

import "errors"

var (
	ErrInvalidDuration = errors.New("duration must be between 5 and 180 minutes")
	ErrNotRunning      = errors.New("timer is not running")
	ErrNotPaused       = errors.New("timer is not paused")
	ErrDaemonRunning   = errors.New("daemon already running")
)
