package placement

import (
	"sort"
	"time"

	"github.com/fieldhouse-sports/scheduler-core/models"
	"github.com/fieldhouse-sports/scheduler-core/schederr"
)

// freeSlots tracks, per field, the sorted list of remaining free
// intervals that candidate matches may be placed into.
type freeSlots struct {
	byField map[string][]models.WeeklyInterval
}

func newFreeSlots(intervals []models.WeeklyInterval) *freeSlots {
	fs := &freeSlots{byField: map[string][]models.WeeklyInterval{}}
	for _, iv := range intervals {
		fs.insert(iv)
	}
	return fs
}

func (fs *freeSlots) insert(iv models.WeeklyInterval) {
	if iv.FieldID == nil || iv.Duration() <= 0 {
		return
	}
	list := fs.byField[*iv.FieldID]
	i := sort.Search(len(list), func(i int) bool { return !list[i].Start.Before(iv.Start) })
	list = append(list, models.WeeklyInterval{})
	copy(list[i+1:], list[i:])
	list[i] = iv
	fs.byField[*iv.FieldID] = list
}

type candidate struct {
	fieldID     string
	fieldNumber int
	interval    models.WeeklyInterval
	index       int
	start       time.Time // max(interval.Start, floor): the actual match start this candidate offers
}

// findCandidate scans every field in allowedFieldIDs for the interval
// offering the earliest usable start at or after floor — an interval
// that began before floor still qualifies provided it has duration
// remaining from floor onward — long enough to hold duration, whose
// originating template (if any) permits divisionID. Ties break by
// field number ascending then interval id ascending, except that a
// candidate on preferredFieldID wins any tie at the very earliest
// start instant found (§4.4e field-preference hint).
func (fs *freeSlots) findCandidate(allowedFieldIDs map[string]bool, templatesByID map[string]models.TimeSlot, divisionID string, floor time.Time, duration time.Duration, preferredFieldID *string, fieldNumberOf map[string]int) (candidate, bool) {
	var best candidate
	found := false

	for fieldID, list := range fs.byField {
		if !allowedFieldIDs[fieldID] {
			continue
		}
		for i, iv := range list {
			start := iv.Start
			if floor.After(start) {
				start = floor
			}
			if iv.End.Before(start.Add(duration)) {
				continue
			}
			if tmpl, ok := templatesByID[iv.SourceID]; ok && !tmpl.AppliesToDivision(divisionID) {
				continue
			}
			c := candidate{fieldID: fieldID, fieldNumber: fieldNumberOf[fieldID], interval: iv, index: i, start: start}
			if !found || better(c, best, preferredFieldID) {
				best, found = c, true
			}
		}
	}
	return best, found
}

func better(a, b candidate, preferredFieldID *string) bool {
	if !a.start.Equal(b.start) {
		return a.start.Before(b.start)
	}
	if preferredFieldID != nil {
		aPref := a.fieldID == *preferredFieldID
		bPref := b.fieldID == *preferredFieldID
		if aPref != bPref {
			return aPref
		}
	}
	if a.fieldNumber != b.fieldNumber {
		return a.fieldNumber < b.fieldNumber
	}
	return a.interval.ID < b.interval.ID
}

// consume removes the chosen interval and reinserts the leftover
// fragments around [matchStart, matchEnd) that are themselves at
// least duration long; shorter fragments are discarded.
func (fs *freeSlots) consume(c candidate, matchStart, matchEnd time.Time, duration time.Duration) {
	list := fs.byField[c.fieldID]
	orig := list[c.index]
	list = append(list[:c.index], list[c.index+1:]...)
	fs.byField[c.fieldID] = list

	before := models.WeeklyInterval{ID: orig.ID + "-pre", FieldID: orig.FieldID, Start: orig.Start, End: matchStart, SourceID: orig.SourceID}
	after := models.WeeklyInterval{ID: orig.ID + "-post", FieldID: orig.FieldID, Start: matchEnd, End: orig.End, SourceID: orig.SourceID}
	if before.Duration() >= duration {
		fs.insert(before)
	}
	if after.Duration() >= duration {
		fs.insert(after)
	}
}

func sortForPlacement(matches []models.AbstractMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Round != b.Round {
			return a.Round < b.Round
		}
		if a.LosersBracket != b.LosersBracket {
			return !a.LosersBracket
		}
		return a.OrderInRound < b.OrderInRound
	})
}

// Place runs the greedy, deterministic, backtracking-free placement
// algorithm of §4.4: it expands event's templates, walks the abstract
// matches in placement order, and assigns each the earliest qualifying
// field/interval that respects rest and division constraints. It
// returns the concrete matches (matchId 1..len(A), in placement
// order) and the event's effective end — extended past the
// configured end only when NoFixedEndDateTime allowed it.
func Place(event *models.Event, abstractMatches []models.AbstractMatch) ([]models.Match, time.Time, error) {
	ordered := append([]models.AbstractMatch(nil), abstractMatches...)
	sortForPlacement(ordered)

	duration := event.EffectiveDuration()
	rest := time.Duration(event.RestTimeMinutes) * time.Minute

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
	refereeCount := make(map[string]int)

	matchIDByProvisional := make(map[int]int, len(ordered))
	for i, m := range ordered {
		matchIDByProvisional[m.ProvisionalID] = i + 1
	}

	result := make([]models.Match, len(ordered))

	for i := range ordered {
		am := ordered[i]
		matchID := i + 1

		fields := event.FieldsSupporting(am.DivisionID)
		if len(fields) == 0 {
			return nil, effectiveEnd, schederr.NewConfigError("no fields are available for division %q", am.DivisionID)
		}
		allowed := make(map[string]bool, len(fields))
		for _, f := range fields {
			allowed[f.ID] = true
		}

		floor := restFloor(am.Team1, am.Team2, teamLatestEnd, rest)

		c, ok := slots.findCandidate(allowed, templatesByID, am.DivisionID, floor, duration, am.PreferredFieldID, fieldNumberOf)
		if !ok {
			if !event.NoFixedEndDateTime {
				return nil, effectiveEnd, &schederr.InfeasibleError{ApproximateMatchesNeeded: len(ordered) - i}
			}
			extended, newEnd := extendForDivision(event, fields, effectiveEnd, slots)
			if !extended {
				return nil, effectiveEnd, &schederr.InfeasibleError{ApproximateMatchesNeeded: len(ordered) - i}
			}
			effectiveEnd = newEnd
			c, ok = slots.findCandidate(allowed, templatesByID, am.DivisionID, floor, duration, am.PreferredFieldID, fieldNumberOf)
			if !ok {
				return nil, effectiveEnd, &schederr.InfeasibleError{ApproximateMatchesNeeded: len(ordered) - i}
			}
		}

		start := c.start
		end := start.Add(duration)
		slots.consume(c, start, end, duration)
		if end.After(effectiveEnd) {
			effectiveEnd = end
		}

		fieldID := c.fieldID
		m := models.Match{
			ID:            matchID,
			DivisionID:    am.DivisionID,
			Team1:         am.Team1,
			Team2:         am.Team2,
			FieldID:       &fieldID,
			Start:         start,
			End:           end,
			LosersBracket: am.LosersBracket,
			Locked:        am.Locked,
		}
		if am.WinnerNextMatchID != nil {
			id := matchIDByProvisional[*am.WinnerNextMatchID]
			m.WinnerNextMatchID = &id
		}
		if am.LoserNextMatchID != nil {
			id := matchIDByProvisional[*am.LoserNextMatchID]
			m.LoserNextMatchID = &id
		}
		if am.PreviousLeftID != nil {
			id := matchIDByProvisional[*am.PreviousLeftID]
			m.PreviousLeftID = &id
		}
		if am.PreviousRightID != nil {
			id := matchIDByProvisional[*am.PreviousRightID]
			m.PreviousRightID = &id
		}

		if am.Team1.IsConcrete() {
			teamLatestEnd[am.Team1.TeamID] = end
		}
		if am.Team2.IsConcrete() {
			teamLatestEnd[am.Team2.TeamID] = end
		}

		if event.DoTeamsRef && m.RefereeUserID == nil && m.TeamRefereeID == nil {
			if refID, ok := pickTeamReferee(event, am.DivisionID, am.Team1, am.Team2, start, end, teamLatestEnd, refereeCount); ok {
				m.TeamRefereeID = &refID
				refereeCount[refID]++
			}
		}

		result[i] = m
	}

	return result, effectiveEnd, nil
}

// restFloor computes the earliest instant either concrete team may
// start its next match: the later of the two teams' latest-placed
// match end, plus restTimeMinutes. Teams not yet concrete (feeder
// slots) impose no floor.
func restFloor(t1, t2 models.TeamRef, teamLatestEnd map[string]time.Time, rest time.Duration) time.Time {
	var floor time.Time
	consider := func(ref models.TeamRef) {
		if !ref.IsConcrete() {
			return
		}
		if last, ok := teamLatestEnd[ref.TeamID]; ok {
			candidate := last.Add(rest)
			if candidate.After(floor) {
				floor = candidate
			}
		}
	}
	consider(t1)
	consider(t2)
	return floor
}

// extendForDivision synthesizes one more weekly occurrence, for every
// template qualifying for the given fields, past the current
// effective end. It reports whether any interval was added.
func extendForDivision(event *models.Event, fields []models.PlayingField, after time.Time, slots *freeSlots) (bool, time.Time) {
	fieldIDSet := make(map[string]bool, len(fields))
	allFieldIDs := make([]string, 0, len(fields))
	for _, f := range fields {
		fieldIDSet[f.ID] = true
		allFieldIDs = append(allFieldIDs, f.ID)
	}

	added := false
	newEnd := after
	for _, tmpl := range event.TimeSlots {
		tmplFieldIDs := tmpl.FieldIDs()
		if len(tmplFieldIDs) == 0 {
			tmplFieldIDs = allFieldIDs
		}
		var matching []string
		for _, fid := range tmplFieldIDs {
			if fieldIDSet[fid] {
				matching = append(matching, fid)
			}
		}
		if len(matching) == 0 {
			continue
		}
		for _, iv := range ExtendHorizon(tmpl, matching, after, 1) {
			slots.insert(iv)
			added = true
			if iv.End.After(newEnd) {
				newEnd = iv.End
			}
		}
	}
	return added, newEnd
}

// pickTeamReferee implements §4.4 step 4: the team in the division not
// playing during [start, end) with the fewest prior referee
// assignments, ties broken by seed ascending. A team whose
// most-recently-placed match ends after this match's start is
// treated as still on the field and is skipped too.
func pickTeamReferee(event *models.Event, divisionID string, t1, t2 models.TeamRef, start, end time.Time, teamLatestEnd map[string]time.Time, refereeCount map[string]int) (string, bool) {
	playing := map[string]bool{}
	if t1.IsConcrete() {
		playing[t1.TeamID] = true
	}
	if t2.IsConcrete() {
		playing[t2.TeamID] = true
	}

	candidates := event.TeamsInDivision(divisionID)
	best := -1
	var bestTeam models.Team
	for _, team := range candidates {
		if playing[team.ID] {
			continue
		}
		if last, ok := teamLatestEnd[team.ID]; ok && last.After(start) {
			continue
		}
		count := refereeCount[team.ID]
		if best == -1 || count < best || (count == best && team.Seed < bestTeam.Seed) {
			best = count
			bestTeam = team
		}
	}
	if best == -1 {
		return "", false
	}
	return bestTeam.ID, true
}
