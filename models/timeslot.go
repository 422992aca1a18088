package models

import "time"

// TimeSlot is a weekly-recurring template. It is expanded by the
// placement engine (C4) into concrete WeeklyInterval values.
//
// DayOfWeek uses a Monday-based 0..6 encoding (0 = Monday, 6 = Sunday).
// DaysOfWeek, when non-empty, overrides DayOfWeek for multi-day
// templates. An absent field binding (both ScheduledFieldID and
// ScheduledFieldIDs empty) means "any field qualifying for the match's
// division".
type TimeSlot struct {
	ID         string
	DayOfWeek  int
	DaysOfWeek []int

	StartDate *time.Time
	EndDate   *time.Time
	Repeating bool

	StartTimeMinutes int
	EndTimeMinutes   int

	ScheduledFieldID  *string
	ScheduledFieldIDs []string

	DivisionID *string // optional restriction to a single division
}

// Days returns the concrete set of weekdays this template occupies,
// using DaysOfWeek when present and falling back to the single
// DayOfWeek otherwise.
func (t TimeSlot) Days() []int {
	if len(t.DaysOfWeek) > 0 {
		return t.DaysOfWeek
	}
	return []int{t.DayOfWeek}
}

// FieldIDs returns the concrete set of fields this template is bound
// to, or nil when the template floats (binds to any qualifying field
// at placement time).
func (t TimeSlot) FieldIDs() []string {
	if len(t.ScheduledFieldIDs) > 0 {
		return t.ScheduledFieldIDs
	}
	if t.ScheduledFieldID != nil {
		return []string{*t.ScheduledFieldID}
	}
	return nil
}

// AppliesToDivision reports whether this template may host a match in
// divisionID, honoring an optional division restriction.
func (t TimeSlot) AppliesToDivision(divisionID string) bool {
	return t.DivisionID == nil || *t.DivisionID == divisionID
}

// WeeklyInterval is a concrete (field, startInstant, endInstant) slice
// of time derived from a TimeSlot template. Field is nil for a
// floating interval not yet bound to a specific field.
type WeeklyInterval struct {
	ID        string
	FieldID   *string
	Start     time.Time
	End       time.Time
	SourceID  string // TimeSlot.ID this interval was expanded from
}

// Duration returns the wall-clock span of the interval.
func (w WeeklyInterval) Duration() time.Duration {
	return w.End.Sub(w.Start)
}
