package out

import (
	"context"
	"errors"

	"github.com/hashicorp/go-hclog"

	timerout "dpwrk/internal/modules/timer/port/out"
)

var ErrNotificationsUnsupported = errors.New("desktop notifications are not supported on this platform")

// DesktopNotifier logs every notification and forwards it to the platform
// notification service when one exists.
type DesktopNotifier struct {
	platform timerout.Notifier
	logger   hclog.Logger
}

func NewDesktopNotifier(appName string, logger hclog.Logger) timerout.Notifier {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &DesktopNotifier{platform: newPlatformNotifier(appName), logger: logger}
}

func (n *DesktopNotifier) Notify(ctx context.Context, title, body string) error {
	n.logger.Info("notification", "title", title, "body", body)
	if n.platform == nil {
		return ErrNotificationsUnsupported
	}
	return n.platform.Notify(ctx, title, body)
}
