// Package platform delivers desktop notifications through the host's
// notification service.
package platform

import "time"

// DefaultAppName identifies chatshot to notification daemons.
const DefaultAppName = "chatshot"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// AppName overrides DefaultAppName.
	AppName string
	// IconPath, when non-empty, points to an image file shown with the
	// notification where supported.
	IconPath string
	// Timeout is how long the notification stays visible. Zero lets the
	// platform decide.
	Timeout time.Duration
}

func (o Options) appName() string {
	if o.AppName == "" {
		return DefaultAppName
	}
	return o.AppName
}
