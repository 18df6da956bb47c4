//go:build darwin

package out

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	timerout "dpwrk/internal/modules/timer/port/out"
)

type osascriptNotifier struct {
	appName string
}

func newPlatformNotifier(appName string) timerout.Notifier {
	return &osascriptNotifier{appName: appName}
}

func (n *osascriptNotifier) Notify(ctx context.Context, title, body string) error {
	script := fmt.Sprintf("display notification %s with title %s subtitle %s", appleScriptString(body), appleScriptString(title), appleScriptString(n.appName))
	if output, err := exec.CommandContext(ctx, "osascript", "-e", script).CombinedOutput(); err != nil {
		return fmt.Errorf("osascript: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func appleScriptString(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `"`, `\"`)
	return `"` + value + `"`
}
