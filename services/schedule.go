package services

import (
	"sort"
	"strings"
	"time"

	"github.com/fieldhouse-sports/scheduler-core/brackets"
	"github.com/fieldhouse-sports/scheduler-core/models"
	"github.com/fieldhouse-sports/scheduler-core/placement"
	"github.com/fieldhouse-sports/scheduler-core/roundrobin"
	"github.com/fieldhouse-sports/scheduler-core/schederr"
)

// GenerateSchedule runs §4.5 steps 1-4 of scheduleEvent in-process,
// with no side effects: validate, generate each division's abstract
// matches (round robin and/or bracket, by event.Kind), concatenate,
// place. It never touches the Store — persistence is the caller's
// job, done inside the locked transaction that wraps this call.
func GenerateSchedule(event *models.Event) ([]models.Match, time.Time, error) {
	if errs := models.ValidateEventForScheduling(event); len(errs) > 0 {
		return nil, event.EndDate, schederr.NewConfigError("%s", strings.Join(errs, "; "))
	}

	var all []models.AbstractMatch
	idOffset := 0

	for _, division := range event.Divisions {
		teams := event.TeamsInDivision(division.ID)
		divisionMatches, err := generateDivisionMatches(event, division.ID, teams)
		if err != nil {
			return nil, event.EndDate, err
		}
		offsetProvisionalIDs(divisionMatches, idOffset)
		idOffset += len(divisionMatches)
		all = append(all, divisionMatches...)

		if event.SingleDivision {
			break
		}
	}

	return placement.Place(event, all)
}

// generateDivisionMatches produces one division's abstract matches per
// §4.5 step 2: a league runs round robin and, if includePlayoffs, also
// appends a single-elimination bracket seeded from the top
// playoffTeamCount teams by current standing; a tournament runs a
// single- or double-elimination bracket directly over the division's
// seeded teams.
func generateDivisionMatches(event *models.Event, divisionID string, teams []models.Team) ([]models.AbstractMatch, error) {
	switch event.Kind {
	case models.EventKindLeague:
		regular, err := roundrobin.Generate(teams, divisionID, event.GamesPerOpponent)
		if err != nil {
			return nil, err
		}
		assignSequentialProvisionalIDs(regular)

		if !event.IncludePlayoffs || event.PlayoffTeamCount <= 0 {
			return regular, nil
		}

		qualifiers := topByStanding(teams, event.PlayoffTeamCount)
		playoffs, err := brackets.BuildSingleElimination(qualifiers, divisionID)
		if err != nil {
			return nil, err
		}
		roundOffset := maxRound(regular)
		shiftRounds(playoffs, roundOffset)
		offsetProvisionalIDs(playoffs, len(regular))
		return append(regular, playoffs...), nil

	case models.EventKindTournament:
		if event.DoubleElimination {
			return brackets.BuildDoubleElimination(teams, divisionID)
		}
		return brackets.BuildSingleElimination(teams, divisionID)

	default:
		// CASUAL and TEMPLATE events schedule as a round robin at
		// gamesPerOpponent (defaulting to 1 via validation's own
		// league-only floor check not applying here).
		games := event.GamesPerOpponent
		if games < 1 {
			games = 1
		}
		matches, err := roundrobin.Generate(teams, divisionID, games)
		if err != nil {
			return nil, err
		}
		assignSequentialProvisionalIDs(matches)
		return matches, nil
	}
}

// topByStanding returns the top n teams by (wins desc, losses asc,
// seed asc), re-seeded 1..n in that order so the bracket builder's
// seed-driven snake pairing reflects current standing rather than the
// division's original registration seed. This is a simplification:
// the original regular-season-not-yet-played case (round 1 referencing
// "top K of regular season" as an opaque placeholder resolved at
// finalize time) is not modeled; standings are taken as they exist at
// scheduling time.
func topByStanding(teams []models.Team, n int) []models.Team {
	ranked := append([]models.Team(nil), teams...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Wins != ranked[j].Wins {
			return ranked[i].Wins > ranked[j].Wins
		}
		if ranked[i].Losses != ranked[j].Losses {
			return ranked[i].Losses < ranked[j].Losses
		}
		return ranked[i].Seed < ranked[j].Seed
	})
	if n > len(ranked) {
		n = len(ranked)
	}
	out := make([]models.Team, n)
	for i := 0; i < n; i++ {
		out[i] = ranked[i]
		out[i].Seed = i + 1
	}
	return out
}

func maxRound(matches []models.AbstractMatch) int {
	max := 0
	for _, m := range matches {
		if m.Round > max {
			max = m.Round
		}
	}
	return max
}

func shiftRounds(matches []models.AbstractMatch, offset int) {
	for i := range matches {
		matches[i].Round += offset
	}
}

// assignSequentialProvisionalIDs gives round robin's output (which
// carries no forward references and so never needed provisional ids
// of its own) unique ids anyway, so that concatenating several
// divisions' output never produces two matches sharing a
// ProvisionalID of 0.
func assignSequentialProvisionalIDs(matches []models.AbstractMatch) {
	for i := range matches {
		matches[i].ProvisionalID = i + 1
	}
}

// offsetProvisionalIDs shifts every match's ProvisionalID and forward/
// backward link fields by offset, so that concatenating independently
// generated per-division (or regular-season/playoff) batches never
// collides two matches onto the same provisional id.
func offsetProvisionalIDs(matches []models.AbstractMatch, offset int) {
	if offset == 0 {
		return
	}
	for i := range matches {
		matches[i].ProvisionalID += offset
		matches[i].WinnerNextMatchID = shiftPtr(matches[i].WinnerNextMatchID, offset)
		matches[i].LoserNextMatchID = shiftPtr(matches[i].LoserNextMatchID, offset)
		matches[i].PreviousLeftID = shiftPtr(matches[i].PreviousLeftID, offset)
		matches[i].PreviousRightID = shiftPtr(matches[i].PreviousRightID, offset)
	}
}

func shiftPtr(p *int, offset int) *int {
	if p == nil {
		return nil
	}
	v := *p + offset
	return &v
}
