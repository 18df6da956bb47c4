//go:build !linux && !darwin

package out

import timerout "dpwrk/internal/modules/timer/port/out"

func newPlatformNotifier(string) timerout.Notifier {
	return nil
}
