package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fieldhouse-sports/scheduler-core/models"
	"github.com/fieldhouse-sports/scheduler-core/services"
)

func mondayS() time.Time {
	return time.Date(2026, time.August, 3, 0, 0, 0, 0, time.UTC)
}

func wideOpenFields() []models.PlayingField {
	return []models.PlayingField{{ID: "f1", FieldNumber: 1}, {ID: "f2", FieldNumber: 2}}
}

func wideOpenTimeSlots() []models.TimeSlot {
	return []models.TimeSlot{
		{ID: "ts1", DayOfWeek: 0, Repeating: true, StartTimeMinutes: 0, EndTimeMinutes: 24 * 60},
	}
}

func teamsFor(divisionID string, n int) []models.Team {
	out := make([]models.Team, n)
	for i := range out {
		out[i] = models.Team{ID: divisionID + "-team-" + string(rune('A'+i)), DivisionID: divisionID, Seed: i + 1}
	}
	return out
}

func TestGenerateSchedule_LeagueRoundRobinOnly(t *testing.T) {
	event := &models.Event{
		ID:                   "evt-league",
		Kind:                 models.EventKindLeague,
		SingleDivision:       true,
		StartDate:            mondayS(),
		EndDate:              mondayS().AddDate(0, 0, 60),
		MatchDurationMinutes: 60,
		GamesPerOpponent:     1,
		Fields:               wideOpenFields(),
		TimeSlots:            wideOpenTimeSlots(),
		Divisions:            []models.Division{{ID: "open", Name: "Open"}},
		Teams:                teamsFor("open", 4),
	}

	matches, _, err := services.GenerateSchedule(event)
	require.NoError(t, err)
	require.Len(t, matches, 6) // 4 choose 2

	seen := map[int]bool{}
	for _, m := range matches {
		require.False(t, seen[m.ID])
		seen[m.ID] = true
	}
}

func TestGenerateSchedule_LeagueWithPlayoffsAppendsBracketAfterRegularSeason(t *testing.T) {
	event := &models.Event{
		ID:                   "evt-league-playoffs",
		Kind:                 models.EventKindLeague,
		SingleDivision:       true,
		StartDate:            mondayS(),
		EndDate:              mondayS().AddDate(0, 0, 60),
		MatchDurationMinutes: 60,
		GamesPerOpponent:     1,
		IncludePlayoffs:      true,
		PlayoffTeamCount:     4,
		Fields:               wideOpenFields(),
		TimeSlots:            wideOpenTimeSlots(),
		Divisions:            []models.Division{{ID: "open", Name: "Open"}},
		Teams:                teamsFor("open", 4),
	}

	matches, _, err := services.GenerateSchedule(event)
	require.NoError(t, err)
	require.Len(t, matches, 6+3) // 6 regular season + 3 single-elim bracket matches

	var maxRegularEnd, minPlayoffStart time.Time
	for i, m := range matches {
		if i < 6 {
			if m.End.After(maxRegularEnd) {
				maxRegularEnd = m.End
			}
		} else if minPlayoffStart.IsZero() || m.Start.Before(minPlayoffStart) {
			minPlayoffStart = m.Start
		}
	}
	require.False(t, minPlayoffStart.Before(maxRegularEnd))
}

func TestGenerateSchedule_TournamentSingleElimination(t *testing.T) {
	event := &models.Event{
		ID:                   "evt-tourney",
		Kind:                 models.EventKindTournament,
		SingleDivision:       true,
		StartDate:            mondayS(),
		EndDate:              mondayS().AddDate(0, 0, 60),
		MatchDurationMinutes: 60,
		Fields:               wideOpenFields(),
		TimeSlots:            wideOpenTimeSlots(),
		Divisions:            []models.Division{{ID: "open", Name: "Open"}},
		Teams:                teamsFor("open", 4),
	}

	matches, _, err := services.GenerateSchedule(event)
	require.NoError(t, err)
	require.Len(t, matches, 3)
}

func TestGenerateSchedule_TournamentDoubleEliminationHasLockedResetMatch(t *testing.T) {
	event := &models.Event{
		ID:                   "evt-tourney-de",
		Kind:                 models.EventKindTournament,
		DoubleElimination:    true,
		SingleDivision:       true,
		StartDate:            mondayS(),
		EndDate:              mondayS().AddDate(0, 0, 60),
		MatchDurationMinutes: 60,
		Fields:               wideOpenFields(),
		TimeSlots:            wideOpenTimeSlots(),
		Divisions:            []models.Division{{ID: "open", Name: "Open"}},
		Teams:                teamsFor("open", 4),
	}

	matches, _, err := services.GenerateSchedule(event)
	require.NoError(t, err)

	foundLocked := false
	for _, m := range matches {
		if m.Locked {
			foundLocked = true
		}
	}
	require.True(t, foundLocked)
}

func TestGenerateSchedule_MultiDivisionKeepsBracketLinksWithinTheirOwnDivision(t *testing.T) {
	event := &models.Event{
		ID:                   "evt-multi",
		Kind:                 models.EventKindTournament,
		SingleDivision:       false,
		StartDate:            mondayS(),
		EndDate:              mondayS().AddDate(0, 0, 60),
		MatchDurationMinutes: 60,
		Fields:               wideOpenFields(),
		TimeSlots:            wideOpenTimeSlots(),
		Divisions: []models.Division{
			{ID: "d1", Name: "Division 1"},
			{ID: "d2", Name: "Division 2"},
		},
		Teams: append(teamsFor("d1", 4), teamsFor("d2", 4)...),
	}

	matches, _, err := services.GenerateSchedule(event)
	require.NoError(t, err)
	require.Len(t, matches, 6) // 3 bracket matches per division

	byID := make(map[int]models.Match, len(matches))
	for _, m := range matches {
		byID[m.ID] = m
	}
	for _, m := range matches {
		if m.WinnerNextMatchID != nil {
			target, ok := byID[*m.WinnerNextMatchID]
			require.True(t, ok)
			require.Equal(t, m.DivisionID, target.DivisionID)
		}
	}
}

func TestGenerateSchedule_ConfigErrorWhenEventHasNoDivisions(t *testing.T) {
	event := &models.Event{
		ID:                   "evt-bad",
		Kind:                 models.EventKindLeague,
		SingleDivision:       true,
		StartDate:            mondayS(),
		EndDate:              mondayS().AddDate(0, 0, 60),
		MatchDurationMinutes: 60,
		GamesPerOpponent:     1,
		Fields:               wideOpenFields(),
		TimeSlots:            wideOpenTimeSlots(),
		Teams:                teamsFor("open", 4),
	}

	_, _, err := services.GenerateSchedule(event)
	require.Error(t, err)
}
