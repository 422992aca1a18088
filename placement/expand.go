// Package placement implements C4: the slot placement engine. It
// expands weekly time-slot templates into concrete intervals and then
// greedily, deterministically places abstract matches onto them,
// honoring field capacity and inter-match rest constraints.
package placement

import (
	"fmt"
	"time"

	"github.com/fieldhouse-sports/scheduler-core/models"
)

// maxHorizonWeeks bounds how far past event start a no-fixed-end event's
// template continuation is synthesized, per the §9 design note.
const maxHorizonWeeks = 52

// Expand enumerates every concrete weekly interval each template
// produces within [max(eventStart, template.startDate),
// min(horizonEnd, template.endDate)]. A template bound to specific
// fields emits one interval per field per occurrence; an unbound
// ("floating") template emits one interval per field in fields per
// occurrence too — any of those fields may host the match, which this
// flattening represents directly rather than as a separate unbound
// pool, since a floating slot's capacity is exactly "every qualifying
// field is free right now".
func Expand(templates []models.TimeSlot, fields []models.PlayingField, eventStart, eventEnd time.Time, noFixedEndDateTime bool) []models.WeeklyInterval {
	horizonEnd := eventEnd
	if noFixedEndDateTime {
		horizonEnd = eventStart.AddDate(0, 0, 7*maxHorizonWeeks)
	}

	allFieldIDs := make([]string, len(fields))
	for i, f := range fields {
		allFieldIDs[i] = f.ID
	}

	var out []models.WeeklyInterval
	for _, tmpl := range templates {
		lo := eventStart
		if tmpl.StartDate != nil && tmpl.StartDate.After(lo) {
			lo = *tmpl.StartDate
		}
		hi := horizonEnd
		if tmpl.EndDate != nil && tmpl.EndDate.Before(hi) {
			hi = *tmpl.EndDate
		}

		fieldIDs := tmpl.FieldIDs()
		if len(fieldIDs) == 0 {
			fieldIDs = allFieldIDs
		}

		out = append(out, expandTemplate(tmpl, fieldIDs, lo, hi)...)
	}
	return out
}

// ExtendHorizon generates the continuation intervals for a single
// qualifying template's next occurrence(s) past its prior horizon, for
// the noFixedEndDateTime auto-extension in step 3 of the placement
// algorithm. It re-derives occurrences in [after, after+7*weeks] days.
func ExtendHorizon(tmpl models.TimeSlot, fieldIDs []string, after time.Time, weeks int) []models.WeeklyInterval {
	return expandTemplate(tmpl, fieldIDs, after, after.AddDate(0, 0, 7*weeks))
}

func expandTemplate(tmpl models.TimeSlot, fieldIDs []string, lo, hi time.Time) []models.WeeklyInterval {
	if hi.Before(lo) {
		return nil
	}
	duration := time.Duration(tmpl.EndTimeMinutes-tmpl.StartTimeMinutes) * time.Minute
	if duration <= 0 {
		return nil
	}

	var out []models.WeeklyInterval
	occurrence := 0
	for _, day := range tmpl.Days() {
		goWeekday := time.Weekday((day + 1) % 7)

		d := time.Date(lo.Year(), lo.Month(), lo.Day(), 0, 0, 0, 0, lo.Location())
		for d.Weekday() != goWeekday {
			d = d.AddDate(0, 0, 1)
		}

		for {
			start := d.Add(time.Duration(tmpl.StartTimeMinutes) * time.Minute)
			if start.After(hi) {
				break
			}
			end := start.Add(duration)
			if !start.Before(lo) && !end.After(hi) {
				for _, fieldID := range fieldIDs {
					fieldID := fieldID
					occurrence++
					out = append(out, models.WeeklyInterval{
						ID:       fmt.Sprintf("%s-%d", tmpl.ID, occurrence),
						FieldID:  &fieldID,
						Start:    start,
						End:      end,
						SourceID: tmpl.ID,
					})
				}
			}
			if !tmpl.Repeating {
				break
			}
			d = d.AddDate(0, 0, 7)
		}
	}
	return out
}
