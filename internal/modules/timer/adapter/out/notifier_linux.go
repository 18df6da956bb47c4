//go:build linux

package out

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"

	timerout "dpwrk/internal/modules/timer/port/out"
)

const (
	notificationsDest   = "org.freedesktop.Notifications"
	notificationsPath   = "/org/freedesktop/Notifications"
	notificationsMethod = "org.freedesktop.Notifications.Notify"
)

type dbusNotifier struct {
	appName string
}

func newPlatformNotifier(appName string) timerout.Notifier {
	return &dbusNotifier{appName: appName}
}

func (n *dbusNotifier) Notify(ctx context.Context, title, body string) error {
	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("connect session bus: %w", err)
	}
	obj := conn.Object(notificationsDest, dbus.ObjectPath(notificationsPath))
	call := obj.CallWithContext(ctx, notificationsMethod, 0,
		n.appName, uint32(0), "", title, body, []string{}, map[string]dbus.Variant{}, int32(-1))
	if call.Err != nil {
		return fmt.Errorf("notify: %w", call.Err)
	}
	return nil
}
