//go:build linux

package platform

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	notifyDest = "org.freedesktop.Notifications"
	notifyPath = "/org/freedesktop/Notifications"
)

// Notify sends a desktop notification using the freedesktop.org
// notification interface on the session bus.
func Notify(title, body string, opts Options) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("connect session bus: %w", err)
	}
	defer conn.Close()

	timeout := int32(-1)
	if opts.Timeout > 0 {
		timeout = int32(opts.Timeout.Milliseconds())
	}
	hints := map[string]dbus.Variant{}
	if opts.IconPath != "" {
		hints["image-path"] = dbus.MakeVariant(opts.IconPath)
	}
	obj := conn.Object(notifyDest, notifyPath)
	call := obj.Call(notifyDest+".Notify", 0,
		opts.appName(), uint32(0), opts.IconPath, title, body, []string{}, hints, timeout)
	return call.Err
}
