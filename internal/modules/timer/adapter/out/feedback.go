package out

import (
	"context"
	"io"

	"github.com/hashicorp/go-hclog"

	"dpwrk/internal/modules/timer/domain"
	timerout "dpwrk/internal/modules/timer/port/out"
)

const bell = "\a"

// TerminalFeedback rings the terminal bell on completion when sound is
// enabled.
type TerminalFeedback struct {
	out    io.Writer
	prefs  timerout.PreferencesPort
	logger hclog.Logger
}

func NewTerminalFeedback(out io.Writer, prefs timerout.PreferencesPort, logger hclog.Logger) timerout.Feedback {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &TerminalFeedback{out: out, prefs: prefs, logger: logger}
}

func (f *TerminalFeedback) SessionCompleted(ctx context.Context, session domain.Session) {
	f.logger.Info("focus session complete", "session_id", session.ID, "goal", session.Goal, "duration", session.Duration)
	if f.out == nil || !f.soundEnabled(ctx) {
		return
	}
	if _, err := io.WriteString(f.out, bell); err != nil {
		f.logger.Debug("ring bell failed", "error", err)
	}
}

func (f *TerminalFeedback) soundEnabled(ctx context.Context) bool {
	if f.prefs == nil {
		return true
	}
	defaults, err := f.prefs.Defaults(ctx)
	if err != nil {
		return true
	}
	return defaults.SoundEnabled
}
