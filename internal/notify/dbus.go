//go:build linux

package notify

import (
	"strings"

	"github.com/godbus/dbus/v5"
)

const (
	busName        = "org.freedesktop.Notifications"
	busPath        = "/org/freedesktop/Notifications"
	methodNotify   = busName + ".Notify"
	methodCloseOne = busName + ".CloseNotification"

	appName      = "Reel"
	desktopEntry = "reel"
)

// caller is the part of dbus.BusObject the notifier needs.
type caller interface {
	Call(method string, flags dbus.Flags, args ...any) *dbus.Call
}

type dbusNotifier struct {
	obj caller
}

// New connects to the session bus. Without one it returns a notifier that
// sends nothing.
func New() (Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nopNotifier{}, nil //nolint:nilerr // no session bus, nothing to notify
	}
	return &dbusNotifier{obj: conn.Object(busName, busPath)}, nil
}

// Notify(app_name, replaces_id, app_icon, summary, body, actions, hints, expire_timeout) -> id
func (n *dbusNotifier) Notify(notif Notification) (uint32, error) {
	call := n.obj.Call(methodNotify, 0,
		appName,
		notif.ReplacesID,
		notif.Icon,
		notif.Title,
		notif.Body,
		[]string{},
		hints(notif),
		notif.Timeout,
	)
	if call.Err != nil {
		return 0, call.Err
	}
	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (n *dbusNotifier) Close(id uint32) error {
	return n.obj.Call(methodCloseOne, 0, id).Err
}

// hints adds image-path for artwork files: some servers only load app_icon
// from the icon theme.
func hints(notif Notification) map[string]dbus.Variant {
	h := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(notif.Urgency)),
		"desktop-entry": dbus.MakeVariant(desktopEntry),
	}
	if strings.HasPrefix(notif.Icon, "/") {
		h["image-path"] = dbus.MakeVariant("file://" + notif.Icon)
	}
	return h
}
