// Package schederr defines the scheduler's error taxonomy (§7). Every
// kind is plain data, never an exception carrying side effects: on any
// of them the core guarantees no partial writes occurred.
package schederr

import "fmt"

// ConfigError signals invalid scheduling input: missing divisions,
// inconsistent set configuration, a playoff bracket too large for the
// field, a fixed window with end <= start, a tied finalize attempt,
// and so on. Callers surface the message unchanged.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return e.Message }

// NewConfigError builds a ConfigError, accepting printf-style args.
func NewConfigError(format string, args ...interface{}) *ConfigError {
	return &ConfigError{Message: fmt.Sprintf(format, args...)}
}

// InfeasibleError signals that the placement engine could not fit
// every abstract match inside a fixed event window. ApproximateMatchesNeeded
// is the count of abstract matches still unplaced when placement gave up.
type InfeasibleError struct {
	ApproximateMatchesNeeded int
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("schedule infeasible: %d additional match slots are needed within the event window", e.ApproximateMatchesNeeded)
}

// WindowExceededNotification is the payload carried by WindowExceededError
// for the host-notification collaborator (§6).
type WindowExceededNotification struct {
	EventID     string
	EventName   string
	EventEndISO string
	HostID      string
	MatchID     int
}

// WindowExceededError signals that finalize's auto-reschedule pass
// could not re-place a match within a fixed event window.
type WindowExceededError struct {
	Notification WindowExceededNotification
}

func (e *WindowExceededError) Error() string {
	return fmt.Sprintf("match %d could not be rescheduled before event %q ends at %s",
		e.Notification.MatchID, e.Notification.EventName, e.Notification.EventEndISO)
}

// ConcurrencyError signals that a schedule-mutating operation was
// invoked without an active per-event lock (§7, §C7). This is a
// programmer error: the caller must acquire the lock and retry.
type ConcurrencyError struct {
	EventID string
}

func (e *ConcurrencyError) Error() string {
	return fmt.Sprintf("event %s: no active advisory lock held for this operation", e.EventID)
}
