package services

import (
	"time"

	"github.com/fieldhouse-sports/scheduler-core/models"
	"github.com/fieldhouse-sports/scheduler-core/placement"
	"github.com/fieldhouse-sports/scheduler-core/schederr"
)

// MatchUpdateInput carries the §4.6 allow-list of fields
// applyMatchUpdates may change on a match. A nil field is left
// untouched; an explicit empty slice on Team1Points/Team2Points/
// SetResults is a deliberate reset to "no sets played yet".
type MatchUpdateInput struct {
	Team1         *models.TeamRef
	Team2         *models.TeamRef
	RefereeUserID *string
	TeamRefereeID *string
	FieldID       *string
	Start         *time.Time
	End           *time.Time

	Team1Points *[]int
	Team2Points *[]int
	SetResults  *[]int

	WinnerNextMatchID *int
	LoserNextMatchID  *int
	PreviousLeftID    *int
	PreviousRightID   *int

	Locked           *bool
	RefereeCheckedIn *bool
}

// ApplyMatchUpdates implements §4.6's applyMatchUpdates: it returns a
// new models.Match with the requested fields merged in, after
// rejecting a locked match (unless the caller is host/admin) and
// validating score-array shape. match is never mutated in place.
func ApplyMatchUpdates(match models.Match, updates MatchUpdateInput, isHostOrAdmin bool) (models.Match, error) {
	if match.Locked && !isHostOrAdmin {
		return models.Match{}, schederr.NewConfigError("match %d is locked", match.ID)
	}

	if updates.Team1Points != nil || updates.Team2Points != nil || updates.SetResults != nil {
		if updates.Team1Points == nil || updates.Team2Points == nil || updates.SetResults == nil {
			return models.Match{}, schederr.NewConfigError(
				"match %d: team1Points, team2Points and setResults must be updated together", match.ID)
		}
		n := len(*updates.SetResults)
		if len(*updates.Team1Points) != n || len(*updates.Team2Points) != n {
			return models.Match{}, schederr.NewConfigError(
				"match %d: team1Points, team2Points and setResults must have equal length", match.ID)
		}
		for _, r := range *updates.SetResults {
			if r != 0 && r != 1 && r != 2 {
				return models.Match{}, schederr.NewConfigError(
					"match %d: setResults entries must be 0, 1 or 2, got %d", match.ID, r)
			}
		}
	}

	out := match
	if updates.Team1 != nil {
		out.Team1 = *updates.Team1
	}
	if updates.Team2 != nil {
		out.Team2 = *updates.Team2
	}
	if updates.RefereeUserID != nil {
		out.RefereeUserID = updates.RefereeUserID
	}
	if updates.TeamRefereeID != nil {
		out.TeamRefereeID = updates.TeamRefereeID
	}
	if updates.FieldID != nil {
		out.FieldID = updates.FieldID
	}
	if updates.Start != nil {
		out.Start = *updates.Start
	}
	if updates.End != nil {
		out.End = *updates.End
	}
	if updates.Team1Points != nil {
		out.Team1Points = *updates.Team1Points
	}
	if updates.Team2Points != nil {
		out.Team2Points = *updates.Team2Points
	}
	if updates.SetResults != nil {
		out.SetResults = *updates.SetResults
	}
	if updates.WinnerNextMatchID != nil {
		out.WinnerNextMatchID = updates.WinnerNextMatchID
	}
	if updates.LoserNextMatchID != nil {
		out.LoserNextMatchID = updates.LoserNextMatchID
	}
	if updates.PreviousLeftID != nil {
		out.PreviousLeftID = updates.PreviousLeftID
	}
	if updates.PreviousRightID != nil {
		out.PreviousRightID = updates.PreviousRightID
	}
	if updates.Locked != nil {
		out.Locked = *updates.Locked
	}
	if updates.RefereeCheckedIn != nil {
		out.RefereeCheckedIn = *updates.RefereeCheckedIn
	}
	return out, nil
}

// FinalizeMatch implements §4.6's finalizeMatch five steps against
// event.Matches (which must already include matchID): compute the
// winner, update team records, advance the winner/loser into their
// wired next match, then auto-reschedule every unfinalized match
// whose window has already passed. It returns the event's full,
// updated match set. event.Teams is updated in place with win/loss
// deltas; event.Matches is left untouched (the caller decides when to
// adopt the returned slice).
func FinalizeMatch(event *models.Event, matchID int, currentTime time.Time) ([]models.Match, error) {
	matches := append([]models.Match(nil), event.Matches...)
	byID := make(map[int]*models.Match, len(matches))
	for i := range matches {
		byID[matches[i].ID] = &matches[i]
	}

	target, ok := byID[matchID]
	if !ok {
		return nil, schederr.NewConfigError("match %d not found on event %q", matchID, event.ID)
	}
	if target.Finalized {
		return matches, nil
	}
	if !target.AllSetsPlayed() {
		return nil, schederr.NewConfigError("match %d cannot be finalized: not every set has a result", matchID)
	}

	winner, loser, err := determineWinner(event, *target)
	if err != nil {
		return nil, err
	}

	applyRecord(event, winner, true)
	applyRecord(event, loser, false)
	advance(byID, *target, winner, loser)
	target.Finalized = true

	staleIDs := collectStale(matches, currentTime)
	if len(staleIDs) == 0 {
		return matches, nil
	}

	rescheduled, _, err := placement.Reschedule(event, matches, staleIDs)
	if err != nil {
		if npe, ok := err.(*placement.NotPlaceableError); ok {
			if !event.NoFixedEndDateTime {
				return nil, &schederr.WindowExceededError{Notification: schederr.WindowExceededNotification{
					EventID:     event.ID,
					EventName:   event.Name,
					EventEndISO: event.EndDate.UTC().Format("2006-01-02T15:04:05.000Z"),
					HostID:      event.HostID,
					MatchID:     npe.MatchID,
				}}
			}
		}
		return nil, err
	}
	return rescheduled, nil
}

// determineWinner decides the match outcome: by summed set tally when
// the event uses sets, otherwise by summed points. A genuine tie in
// either is rejected — finalize never guesses a winner.
func determineWinner(event *models.Event, match models.Match) (winner, loser models.TeamRef, err error) {
	if event.UsesSets {
		team1Sets, team2Sets := match.SetScoreTally()
		switch {
		case team1Sets > team2Sets:
			return match.Team1, match.Team2, nil
		case team2Sets > team1Sets:
			return match.Team2, match.Team1, nil
		default:
			return models.TeamRef{}, models.TeamRef{}, schederr.NewConfigError("set cannot end in a tie for match %d", match.ID)
		}
	}

	sum := func(xs []int) int {
		total := 0
		for _, x := range xs {
			total += x
		}
		return total
	}
	team1Total, team2Total := sum(match.Team1Points), sum(match.Team2Points)
	switch {
	case team1Total > team2Total:
		return match.Team1, match.Team2, nil
	case team2Total > team1Total:
		return match.Team2, match.Team1, nil
	default:
		return models.TeamRef{}, models.TeamRef{}, schederr.NewConfigError("set cannot end in a tie for match %d", match.ID)
	}
}

func applyRecord(event *models.Event, ref models.TeamRef, won bool) {
	if !ref.IsConcrete() {
		return
	}
	team, ok := event.TeamByID(ref.TeamID)
	if !ok {
		return
	}
	if won {
		team.Wins++
	} else {
		team.Losses++
	}
}

// advance places winner/loser into the matches their finalized match
// is wired to (§4.6 step 3-4), determining the slot from
// previousLeftId/previousRightId and falling back to "first empty
// slot" for links the bracket builder did not pre-wire. When a
// match's winner and loser paths both lead to the same next match
// (the double-elimination bracket reset) the winner takes Team1 and
// the loser Team2, and the reset is only unlocked if the loser-bracket
// entrant — the finalized match's Team2 — won, mirroring
// brackets.BuildDoubleElimination's wiring.
func advance(byID map[int]*models.Match, finalized models.Match, winner, loser models.TeamRef) {
	sameTarget := finalized.WinnerNextMatchID != nil && finalized.LoserNextMatchID != nil &&
		*finalized.WinnerNextMatchID == *finalized.LoserNextMatchID

	if finalized.WinnerNextMatchID != nil {
		placeInSlot(byID[*finalized.WinnerNextMatchID], finalized.ID, winner)
	}
	if finalized.LoserNextMatchID != nil {
		target := byID[*finalized.LoserNextMatchID]
		if sameTarget && target != nil {
			target.Team1, target.Team2 = winner, loser
		} else {
			placeInSlot(target, finalized.ID, loser)
		}
		if sameTarget && target != nil && winner.IsConcrete() && finalized.Team2.IsConcrete() && winner.TeamID == finalized.Team2.TeamID {
			target.Locked = false
		}
	}
}

func placeInSlot(target *models.Match, sourceMatchID int, ref models.TeamRef) {
	if target == nil {
		return
	}
	if target.PreviousLeftID != nil && *target.PreviousLeftID == sourceMatchID {
		target.Team1 = ref
		return
	}
	if target.PreviousRightID != nil && *target.PreviousRightID == sourceMatchID {
		target.Team2 = ref
		return
	}
	if !target.Team1.IsConcrete() {
		target.Team1 = ref
		return
	}
	target.Team2 = ref
}

// collectStale finds every match whose scheduled end has passed with
// no set result entered yet — the §4.6 step 5 auto-reschedule pool. A
// match with some but not all sets recorded stays where it is.
func collectStale(matches []models.Match, currentTime time.Time) map[int]bool {
	stale := make(map[int]bool)
	for _, m := range matches {
		if !m.End.After(currentTime) && !m.AllSetsPlayed() && m.IsUnplayed() {
			stale[m.ID] = true
		}
	}
	return stale
}
