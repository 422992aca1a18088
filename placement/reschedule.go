package placement

import (
	"fmt"
	"sort"
	"time"

	"github.com/fieldhouse-sports/scheduler-core/models"
)

// NotPlaceableError signals that Reschedule could not find room for a
// specific already-numbered match inside a fixed event window. Unlike
// Place's schederr.InfeasibleError (which counts matches still
// unplaced during initial generation), this names the one match
// finalize's auto-reschedule pass gave up on, so the caller can build
// the §4.6 ScheduleWindowExceeded notification.
type NotPlaceableError struct {
	MatchID int
}

func (e *NotPlaceableError) Error() string {
	return fmt.Sprintf("match %d could not be re-placed within the event window", e.MatchID)
}

// occupy removes the sub-range [start, end) from fieldID's free
// intervals, splitting around it. Used to mark an already-scheduled
// (and not being rescheduled) match's slot as unavailable before
// Reschedule fills in the matches that are moving.
func (fs *freeSlots) occupy(fieldID string, start, end time.Time) {
	list := fs.byField[fieldID]
	for i, iv := range list {
		if !start.Before(iv.Start) && !end.After(iv.End) {
			list = append(list[:i], list[i+1:]...)
			fs.byField[fieldID] = list
			fs.insert(models.WeeklyInterval{ID: iv.ID + "-occ-pre", FieldID: iv.FieldID, Start: iv.Start, End: start, SourceID: iv.SourceID})
			fs.insert(models.WeeklyInterval{ID: iv.ID + "-occ-post", FieldID: iv.FieldID, Start: end, End: iv.End, SourceID: iv.SourceID})
			return
		}
	}
}

// Reschedule implements §4.6 step 5's auto-reschedule pass: it rebuilds
// the free-interval state from event's templates, marks every match in
// existing that isn't in staleIDs as occupying its currently assigned
// slot, then re-places the stale matches (in matchId order) into the
// earliest remaining qualifying interval — exactly like Place, but
// starting from a partially-occupied calendar instead of an empty one.
// It returns the full, updated match set (kept matches unchanged,
// rescheduled ones re-timed) and the event's effective end.
func Reschedule(event *models.Event, existing []models.Match, staleIDs map[int]bool) ([]models.Match, time.Time, error) {
	templatesByID := make(map[string]models.TimeSlot, len(event.TimeSlots))
	for _, t := range event.TimeSlots {
		templatesByID[t.ID] = t
	}
	fieldNumberOf := make(map[string]int, len(event.Fields))
	for _, f := range event.Fields {
		fieldNumberOf[f.ID] = f.FieldNumber
	}

	effectiveEnd := event.EndDate
	slots := newFreeSlots(Expand(event.TimeSlots, event.Fields, event.StartDate, event.EndDate, event.NoFixedEndDateTime))

	teamLatestEnd := make(map[string]time.Time)
	byID := make(map[int]models.Match, len(existing))
	var stale []models.Match

	track := func(ref models.TeamRef, end time.Time) {
		if !ref.IsConcrete() {
			return
		}
		if last, ok := teamLatestEnd[ref.TeamID]; !ok || end.After(last) {
			teamLatestEnd[ref.TeamID] = end
		}
	}

	for _, m := range existing {
		byID[m.ID] = m
		if staleIDs[m.ID] {
			stale = append(stale, m)
			continue
		}
		if m.FieldID != nil {
			slots.occupy(*m.FieldID, m.Start, m.End)
		}
		if m.End.After(effectiveEnd) {
			effectiveEnd = m.End
		}
		track(m.Team1, m.End)
		track(m.Team2, m.End)
	}

	sort.SliceStable(stale, func(i, j int) bool { return stale[i].ID < stale[j].ID })

	duration := event.EffectiveDuration()
	rest := time.Duration(event.RestTimeMinutes) * time.Minute

	for _, m := range stale {
		fields := event.FieldsSupporting(m.DivisionID)
		allowed := make(map[string]bool, len(fields))
		for _, f := range fields {
			allowed[f.ID] = true
		}

		floor := restFloor(m.Team1, m.Team2, teamLatestEnd, rest)

		c, ok := slots.findCandidate(allowed, templatesByID, m.DivisionID, floor, duration, nil, fieldNumberOf)
		if !ok && event.NoFixedEndDateTime {
			if extended, newEnd := extendForDivision(event, fields, effectiveEnd, slots); extended {
				effectiveEnd = newEnd
				c, ok = slots.findCandidate(allowed, templatesByID, m.DivisionID, floor, duration, nil, fieldNumberOf)
			}
		}
		if !ok {
			return nil, effectiveEnd, &NotPlaceableError{MatchID: m.ID}
		}

		start := c.start
		end := start.Add(duration)
		slots.consume(c, start, end, duration)
		if end.After(effectiveEnd) {
			effectiveEnd = end
		}

		fieldID := c.fieldID
		m.FieldID = &fieldID
		m.Start = start
		m.End = end
		byID[m.ID] = m

		track(m.Team1, end)
		track(m.Team2, end)
	}

	out := make([]models.Match, 0, len(existing))
	for _, m := range existing {
		out = append(out, byID[m.ID])
	}
	return out, effectiveEnd, nil
}
