// Package notify announces what the timeline is showing as desktop
// notifications over D-Bus.
package notify

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Urgency is the freedesktop notification urgency level.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// Notification contains data for a desktop notification.
type Notification struct {
	Title      string  // Summary text (required)
	Body       string  // Body text (optional, supports basic markup)
	Icon       string  // Path to image file or icon name (optional)
	Timeout    int32   // ms, -1 = server default, 0 = never expire
	ReplacesID uint32  // 0 = new notification, >0 = replace existing
	Urgency    Urgency // Low, Normal, Critical
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify sends a notification and returns its ID.
	// Returns 0 and nil error if notifications are disabled or unavailable.
	Notify(n Notification) (uint32, error)
	// Close closes a notification by ID.
	Close(id uint32) error
}

type nopNotifier struct{}

func (nopNotifier) Notify(Notification) (uint32, error) { return 0, nil }
func (nopNotifier) Close(uint32) error                  { return nil }

const showingTimeout = 4000 // ms

// Announcer keeps one "now showing" notification on screen and replaces it
// as the cursor moves between clips. Not safe for concurrent use.
type Announcer struct {
	n    Notifier
	log  *logrus.Entry
	last uint32
}

// NewAnnouncer wraps n. A nil n announces nothing.
func NewAnnouncer(n Notifier, log *logrus.Entry) *Announcer {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Announcer{n: n, log: log.WithField("component", "notify")}
}

// Showing announces that the clip named name, from source, is on screen at
// cursor position at.
func (a *Announcer) Showing(name, source string, at time.Duration) {
	a.send(Notification{
		Title:   name,
		Body:    fmt.Sprintf("at %s", at.Truncate(100*time.Millisecond)),
		Icon:    FindArtworkPath(source),
		Timeout: showingTimeout,
		Urgency: UrgencyLow,
	})
}

// Failed replaces the current notification with an error that stays until
// dismissed.
func (a *Announcer) Failed(text string) {
	a.send(Notification{
		Title:   "reel",
		Body:    text,
		Timeout: 0,
		Urgency: UrgencyCritical,
	})
}

// Close removes the current notification.
func (a *Announcer) Close() {
	if a.n == nil || a.last == 0 {
		return
	}
	if err := a.n.Close(a.last); err != nil {
		a.log.WithError(err).Debug("close notification")
	}
	a.last = 0
}

func (a *Announcer) send(n Notification) {
	if a.n == nil {
		return
	}
	n.ReplacesID = a.last
	id, err := a.n.Notify(n)
	if err != nil {
		a.log.WithError(err).Debug("send notification")
		return
	}
	a.last = id
}
