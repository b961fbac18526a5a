// Package notify delivers user-facing notifications. The gateway never
// renders UI; services hand a (severity, message) pair to a Notifier and
// the HTTP layer independently carries the same message in the error
// response body.
package notify

import "log/slog"

// Severity classifies a notification.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notifier consumes user-facing notifications.
type Notifier interface {
	Notify(severity Severity, message string)
}

// SlogNotifier records notifications as structured log lines. It is the
// default sink when no external notification channel is configured.
type SlogNotifier struct {
	log *slog.Logger
}

// NewSlogNotifier constructs a SlogNotifier writing to log.
func NewSlogNotifier(log *slog.Logger) *SlogNotifier {
	return &SlogNotifier{log: log}
}

// Notify writes one log line per notification.
func (n *SlogNotifier) Notify(severity Severity, message string) {
	switch severity {
	case SeverityError:
		n.log.Error("notification", "severity", severity, "message", message)
	default:
		n.log.Info("notification", "severity", severity, "message", message)
	}
}
