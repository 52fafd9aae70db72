package pollform

import "github.com/sirupsen/logrus"

type Color string

const (
	ColorGreen Color = "green"
	ColorRed   Color = "red"
)

type Icon string

const (
	IconCheck       Icon = "check"
	IconExclamation Icon = "exclamation-mark"
	IconSkull       Icon = "skull"
)

// Notification is one toast shown to the person filling in the form.
type Notification struct {
	Message string
	Color   Color
	Icon    Icon
}

// Notifier displays notifications. The form never renders anything itself.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// LogNotifier writes notifications to a logrus logger, red ones at warning level.
func LogNotifier(logger logrus.FieldLogger) Notifier {
	return NotifierFunc(func(n Notification) {
		entry := logger.WithFields(logrus.Fields{"color": n.Color, "icon": n.Icon})
		if n.Color == ColorRed {
			entry.Warn(n.Message)
			return
		}
		entry.Info(n.Message)
	})
}
