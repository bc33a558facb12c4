//go:build !linux && !darwin && !windows

package platform

import "github.com/example/chatshot/internal/logger"

// Notify logs the event instead of showing it; this platform has no
// notification service chatshot can reach.
func Notify(title, body string, opts Options) error {
	logger.WithField("app", opts.appName()).Debugf("notification %q: %s", title, body)
	return nil
}
