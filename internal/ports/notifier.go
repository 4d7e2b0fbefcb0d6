package ports

import "fmt"

// Severity classifies a user-facing notification.
type Severity int

const (
	// SeverityInfo is for routine progress messages.
	SeverityInfo Severity = iota
	// SeverityWarning is for degraded but recoverable situations.
	SeverityWarning
	// SeverityError is for failures the user should act on.
	SeverityError
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Notification is a single user-facing message emitted by the engine.
type Notification struct {
	Severity Severity
	Message  string
}

// Infof builds an info notification.
func Infof(format string, args ...any) Notification {
	return Notification{Severity: SeverityInfo, Message: fmt.Sprintf(format, args...)}
}

// Warnf builds a warning notification.
func Warnf(format string, args ...any) Notification {
	return Notification{Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)}
}

// Errorf builds an error notification.
func Errorf(format string, args ...any) Notification {
	return Notification{Severity: SeverityError, Message: fmt.Sprintf(format, args...)}
}

// Notifier receives user-facing notifications and inventory-change events.
// Implementations are owned by the presentation layer and must be safe for
// concurrent use; download workers call them off the interactive path.
type Notifier interface {
	// Notify delivers a notification for display.
	Notify(n Notification)

	// InventoryChanged signals that the installed-artifact directory changed
	// and any visible listing should be refreshed.
	InventoryChanged()
}

// NopNotifier discards all notifications. Useful as a default and in tests.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify(Notification) {}

// InventoryChanged implements Notifier.
func (NopNotifier) InventoryChanged() {}
