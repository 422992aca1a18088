package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fieldhouse-sports/scheduler-core/models"
	"github.com/fieldhouse-sports/scheduler-core/schederr"
	"github.com/fieldhouse-sports/scheduler-core/services"
)

func intPtrS(v int) *int { return &v }

func TestApplyMatchUpdates_RejectsLockedMatchWithoutHostOrAdmin(t *testing.T) {
	m := models.Match{ID: 1, Locked: true}
	_, err := services.ApplyMatchUpdates(m, services.MatchUpdateInput{}, false)
	require.Error(t, err)
	var cfgErr *schederr.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestApplyMatchUpdates_AllowsHostToUpdateLockedMatch(t *testing.T) {
	m := models.Match{ID: 1, Locked: true}
	refID := "ref-1"
	updated, err := services.ApplyMatchUpdates(m, services.MatchUpdateInput{RefereeUserID: &refID}, true)
	require.NoError(t, err)
	require.Equal(t, "ref-1", *updated.RefereeUserID)
	require.True(t, updated.Locked)
}

func TestApplyMatchUpdates_RejectsMismatchedScoreArrayLengths(t *testing.T) {
	m := models.Match{ID: 1}
	t1 := []int{1}
	t2 := []int{1, 2}
	sr := []int{1, 2}
	_, err := services.ApplyMatchUpdates(m, services.MatchUpdateInput{Team1Points: &t1, Team2Points: &t2, SetResults: &sr}, false)
	require.Error(t, err)
}

func TestApplyMatchUpdates_RejectsInvalidSetResultValue(t *testing.T) {
	m := models.Match{ID: 1}
	t1 := []int{1}
	t2 := []int{0}
	sr := []int{3}
	_, err := services.ApplyMatchUpdates(m, services.MatchUpdateInput{Team1Points: &t1, Team2Points: &t2, SetResults: &sr}, false)
	require.Error(t, err)
}

func TestApplyMatchUpdates_MergesProvidedFieldsOnly(t *testing.T) {
	m := models.Match{ID: 1, DivisionID: "open", Team1: models.ConcreteTeam("A"), Team2: models.ConcreteTeam("B")}
	fieldID := "f2"
	updated, err := services.ApplyMatchUpdates(m, services.MatchUpdateInput{FieldID: &fieldID}, false)
	require.NoError(t, err)
	require.Equal(t, "f2", *updated.FieldID)
	require.Equal(t, "A", updated.Team1.TeamID)
	require.Equal(t, "open", updated.DivisionID)
}

func baseFinalizeEvent() *models.Event {
	return &models.Event{
		ID:                   "evt-1",
		Name:                 "Finalize Test",
		HostID:               "host-1",
		StartDate:            mondayS(),
		EndDate:              mondayS().AddDate(0, 0, 60),
		MatchDurationMinutes: 60,
		UsesSets:             true,
		SetDurationMinutes:   15,
		SetsPerMatch:         3,
		Fields:               wideOpenFields(),
		TimeSlots:            wideOpenTimeSlots(),
		Divisions:            []models.Division{{ID: "open", Name: "Open"}},
		Teams: []models.Team{
			{ID: "A", DivisionID: "open"},
			{ID: "B", DivisionID: "open"},
		},
	}
}

func TestFinalizeMatch_RejectsWhenSetsIncomplete(t *testing.T) {
	event := baseFinalizeEvent()
	event.Matches = []models.Match{{
		ID: 1, DivisionID: "open", Team1: models.ConcreteTeam("A"), Team2: models.ConcreteTeam("B"),
		Start: mondayS(), End: mondayS().Add(45 * time.Minute), SetResults: []int{1, 0},
	}}

	_, err := services.FinalizeMatch(event, 1, mondayS().Add(2*time.Hour))
	require.Error(t, err)
}

func TestFinalizeMatch_UsesSetTallyAndUpdatesTeamRecords(t *testing.T) {
	event := baseFinalizeEvent()
	event.Matches = []models.Match{{
		ID: 1, DivisionID: "open", Team1: models.ConcreteTeam("A"), Team2: models.ConcreteTeam("B"),
		Start: mondayS(), End: mondayS().Add(45 * time.Minute), SetResults: []int{1, 1, 2},
	}}

	matches, err := services.FinalizeMatch(event, 1, mondayS().Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	teamA, _ := event.TeamByID("A")
	teamB, _ := event.TeamByID("B")
	require.Equal(t, 1, teamA.Wins)
	require.Equal(t, 0, teamA.Losses)
	require.Equal(t, 0, teamB.Wins)
	require.Equal(t, 1, teamB.Losses)
}

func TestFinalizeMatch_RejectsTrueTie(t *testing.T) {
	event := baseFinalizeEvent()
	event.SetsPerMatch = 2
	event.Matches = []models.Match{{
		ID: 1, DivisionID: "open", Team1: models.ConcreteTeam("A"), Team2: models.ConcreteTeam("B"),
		Start: mondayS(), End: mondayS().Add(30 * time.Minute), SetResults: []int{1, 2},
	}}

	_, err := services.FinalizeMatch(event, 1, mondayS().Add(2*time.Hour))
	require.Error(t, err)
	var cfgErr *schederr.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestFinalizeMatch_AdvancesWinnerIntoWiredNextMatch(t *testing.T) {
	event := baseFinalizeEvent()
	event.Matches = []models.Match{
		{
			ID: 1, DivisionID: "open", Team1: models.ConcreteTeam("A"), Team2: models.ConcreteTeam("B"),
			Start: mondayS(), End: mondayS().Add(45 * time.Minute), SetResults: []int{1, 1},
			WinnerNextMatchID: intPtrS(2),
		},
		{
			ID: 2, DivisionID: "open", Team1: models.NoTeam(), Team2: models.ConcreteTeam("C"),
			Start: mondayS().Add(2 * time.Hour), End: mondayS().Add(165 * time.Minute),
			PreviousLeftID: intPtrS(1),
		},
	}
	event.Teams = append(event.Teams, models.Team{ID: "C", DivisionID: "open"})

	matches, err := services.FinalizeMatch(event, 1, mondayS().Add(3*time.Hour))
	require.NoError(t, err)

	byID := map[int]models.Match{}
	for _, m := range matches {
		byID[m.ID] = m
	}
	require.Equal(t, "A", byID[2].Team1.TeamID)
	require.Equal(t, "C", byID[2].Team2.TeamID)
}

func TestFinalizeMatch_UnlocksBracketResetOnlyWhenLoserBracketEntrantWins(t *testing.T) {
	build := func(team2Wins bool) *models.Event {
		event := baseFinalizeEvent()
		setResults := []int{1, 1}
		if team2Wins {
			setResults = []int{2, 2}
		}
		event.Matches = []models.Match{
			{
				ID: 1, DivisionID: "open", Team1: models.ConcreteTeam("A"), Team2: models.ConcreteTeam("B"),
				Start: mondayS(), End: mondayS().Add(45 * time.Minute), SetResults: setResults,
				WinnerNextMatchID: intPtrS(2), LoserNextMatchID: intPtrS(2),
			},
			{
				ID: 2, DivisionID: "open", Team1: models.NoTeam(), Team2: models.NoTeam(),
				Start: mondayS().Add(2 * time.Hour), End: mondayS().Add(165 * time.Minute),
				Locked: true,
			},
		}
		return event
	}

	winnerKept := build(false)
	matches, err := services.FinalizeMatch(winnerKept, 1, mondayS().Add(3*time.Hour))
	require.NoError(t, err)
	byID := map[int]models.Match{}
	for _, m := range matches {
		byID[m.ID] = m
	}
	require.True(t, byID[2].Locked, "reset stays locked when the winners-bracket entrant (Team1) wins")

	loserBracketUpset := build(true)
	matches, err = services.FinalizeMatch(loserBracketUpset, 1, mondayS().Add(3*time.Hour))
	require.NoError(t, err)
	byID = map[int]models.Match{}
	for _, m := range matches {
		byID[m.ID] = m
	}
	require.False(t, byID[2].Locked, "reset unlocks when the losers-bracket entrant (Team2) wins")
}

func TestFinalizeMatch_IsIdempotent(t *testing.T) {
	event := baseFinalizeEvent()
	event.Matches = []models.Match{{
		ID: 1, DivisionID: "open", Team1: models.ConcreteTeam("A"), Team2: models.ConcreteTeam("B"),
		Start: mondayS(), End: mondayS().Add(45 * time.Minute), SetResults: []int{1, 1, 2},
	}}

	first, err := services.FinalizeMatch(event, 1, mondayS().Add(2*time.Hour))
	require.NoError(t, err)
	event.Matches = first

	second, err := services.FinalizeMatch(event, 1, mondayS().Add(2*time.Hour))
	require.NoError(t, err)
	require.Equal(t, first, second)

	teamA, _ := event.TeamByID("A")
	teamB, _ := event.TeamByID("B")
	require.Equal(t, 1, teamA.Wins)
	require.Equal(t, 0, teamA.Losses)
	require.Equal(t, 0, teamB.Wins)
	require.Equal(t, 1, teamB.Losses)
}

func TestFinalizeMatch_AutoReschedulesPastDueUnplayedMatches(t *testing.T) {
	event := baseFinalizeEvent()
	event.Teams = append(event.Teams, models.Team{ID: "C", DivisionID: "open"}, models.Team{ID: "D", DivisionID: "open"})

	fieldOne := "f1"
	past := mondayS().Add(-48 * time.Hour)
	event.Matches = []models.Match{
		{
			ID: 1, DivisionID: "open", Team1: models.ConcreteTeam("A"), Team2: models.ConcreteTeam("B"),
			FieldID: &fieldOne, Start: past, End: past.Add(45 * time.Minute), SetResults: []int{1, 1},
		},
		{
			ID: 2, DivisionID: "open", Team1: models.ConcreteTeam("C"), Team2: models.ConcreteTeam("D"),
			FieldID: &fieldOne, Start: past.Add(time.Hour), End: past.Add(105 * time.Minute),
			SetResults: []int{0, 0},
		},
	}

	matches, err := services.FinalizeMatch(event, 1, mondayS())
	require.NoError(t, err)

	var rescheduled models.Match
	for _, m := range matches {
		if m.ID == 2 {
			rescheduled = m
		}
	}
	require.True(t, rescheduled.Start.After(past.Add(2*time.Hour)))
}
