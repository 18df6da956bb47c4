package bootstrap

import (
	"context"
	"time"

	"github.com/hashicorp/go-hclog"

	timerdto "dpwrk/internal/modules/timer/dto"
)

type resetter interface {
	ResetCompleted(ctx context.Context, sessionID string) bool
}

// autoReset returns a completed session to idle after delay. A session
// started in the meantime is left alone because the reset is keyed by id.
func autoReset(ctx context.Context, target resetter, events <-chan timerdto.Event, delay time.Duration, logger hclog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if event.Type != "completed" || event.Session == nil {
				continue
			}
			sessionID := event.Session.ID
			timer := time.NewTimer(delay)
			go func() {
				defer timer.Stop()
				select {
				case <-ctx.Done():
				case <-timer.C:
					if target.ResetCompleted(ctx, sessionID) {
						logger.Info("completed session reset", "session_id", sessionID)
					}
				}
			}()
		}
	}
}
