package placement_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fieldhouse-sports/scheduler-core/models"
	"github.com/fieldhouse-sports/scheduler-core/placement"
	"github.com/fieldhouse-sports/scheduler-core/schederr"
)

// A Monday in the test fixtures' local reference week.
func monday() time.Time {
	return time.Date(2026, time.August, 3, 0, 0, 0, 0, time.UTC)
}

func baseEvent() *models.Event {
	return &models.Event{
		ID:                   "evt-1",
		SingleDivision:       true,
		StartDate:            monday(),
		EndDate:              monday().AddDate(0, 0, 42),
		MatchDurationMinutes: 60,
		RestTimeMinutes:      30,
		Fields: []models.PlayingField{
			{ID: "f1", FieldNumber: 1},
			{ID: "f2", FieldNumber: 2},
		},
		TimeSlots: []models.TimeSlot{
			{
				ID:               "ts1",
				DayOfWeek:        0, // Monday
				Repeating:        true,
				StartTimeMinutes: 18 * 60,
				EndTimeMinutes:   22 * 60,
			},
		},
		Teams: []models.Team{
			{ID: "A", Seed: 1, DivisionID: "open"},
			{ID: "B", Seed: 2, DivisionID: "open"},
			{ID: "C", Seed: 3, DivisionID: "open"},
			{ID: "D", Seed: 4, DivisionID: "open"},
		},
	}
}

func abstractMatch(provID int, t1, t2 string, round, order int) models.AbstractMatch {
	return models.AbstractMatch{
		ProvisionalID: provID,
		DivisionID:    "open",
		Team1:         models.ConcreteTeam(t1),
		Team2:         models.ConcreteTeam(t2),
		Round:         round,
		OrderInRound:  order,
	}
}

func TestPlace_AssignsDistinctFieldsWithinARound(t *testing.T) {
	event := baseEvent()
	matches := []models.AbstractMatch{
		abstractMatch(1, "A", "B", 1, 0),
		abstractMatch(2, "C", "D", 1, 1),
	}

	placed, _, err := placement.Place(event, matches)
	require.NoError(t, err)
	require.Len(t, placed, 2)

	require.NotNil(t, placed[0].FieldID)
	require.NotNil(t, placed[1].FieldID)
	require.NotEqual(t, *placed[0].FieldID, *placed[1].FieldID)
	require.True(t, placed[0].Start.Equal(placed[1].Start))
}

func TestPlace_EnforcesRestBetweenATeamsConsecutiveMatches(t *testing.T) {
	event := baseEvent()
	matches := []models.AbstractMatch{
		abstractMatch(1, "A", "B", 1, 0),
		abstractMatch(2, "A", "C", 2, 0),
	}

	placed, _, err := placement.Place(event, matches)
	require.NoError(t, err)
	require.Len(t, placed, 2)

	rest := time.Duration(event.RestTimeMinutes) * time.Minute
	require.False(t, placed[1].Start.Before(placed[0].End.Add(rest)))
}

func TestPlace_AssignsSequentialMatchIDsInPlacementOrder(t *testing.T) {
	event := baseEvent()
	matches := []models.AbstractMatch{
		abstractMatch(7, "A", "B", 2, 0),
		abstractMatch(3, "C", "D", 1, 0),
	}

	placed, _, err := placement.Place(event, matches)
	require.NoError(t, err)
	require.Len(t, placed, 2)
	require.Equal(t, 1, placed[0].ID)
	require.Equal(t, 2, placed[1].ID)
	require.Equal(t, "C", placed[0].Team1.TeamID)
}

func TestPlace_RemapsProvisionalLinksToFinalMatchIDs(t *testing.T) {
	event := baseEvent()
	round1 := abstractMatch(10, "A", "B", 1, 0)
	round1.WinnerNextMatchID = intPtr(20)
	final := abstractMatch(20, "C", "D", 2, 0)
	final.PreviousLeftID = intPtr(10)

	placed, _, err := placement.Place(event, []models.AbstractMatch{round1, final})
	require.NoError(t, err)
	require.Len(t, placed, 2)

	require.NotNil(t, placed[0].WinnerNextMatchID)
	require.Equal(t, placed[1].ID, *placed[0].WinnerNextMatchID)
	require.NotNil(t, placed[1].PreviousLeftID)
	require.Equal(t, placed[0].ID, *placed[1].PreviousLeftID)
}

func TestPlace_InfeasibleFixedWindowReturnsInfeasibleError(t *testing.T) {
	event := baseEvent()
	event.EndDate = event.StartDate.Add(4 * time.Hour) // ends Monday 04:00, before the 18:00 slot opens: no interval fits

	var matches []models.AbstractMatch
	for i := 1; i <= 10; i++ {
		matches = append(matches, abstractMatch(i, "A", "B", i, 0))
	}

	_, _, err := placement.Place(event, matches)
	require.Error(t, err)
	var infeasible *schederr.InfeasibleError
	require.ErrorAs(t, err, &infeasible)
}

func TestPlace_NoFixedEndExtendsHorizonRatherThanFailing(t *testing.T) {
	event := baseEvent()
	event.NoFixedEndDateTime = true
	event.EndDate = event.StartDate.AddDate(0, 0, 7) // nominal, but horizon auto-extends

	var matches []models.AbstractMatch
	for i := 1; i <= 6; i++ {
		matches = append(matches, abstractMatch(i, "A", "B", i, 0))
	}

	placed, effectiveEnd, err := placement.Place(event, matches)
	require.NoError(t, err)
	require.Len(t, placed, 6)
	require.True(t, effectiveEnd.After(event.StartDate.AddDate(0, 0, 7)))
}

func TestPlace_AssignsTeamRefereeWhenConfigured(t *testing.T) {
	event := baseEvent()
	event.DoTeamsRef = true
	matches := []models.AbstractMatch{
		abstractMatch(1, "A", "B", 1, 0),
	}

	placed, _, err := placement.Place(event, matches)
	require.NoError(t, err)
	require.Len(t, placed, 1)
	require.NotNil(t, placed[0].TeamRefereeID)
	require.NotEqual(t, "A", *placed[0].TeamRefereeID)
	require.NotEqual(t, "B", *placed[0].TeamRefereeID)
}

func TestPlace_PreferredFieldWinsTiesAtTheEarliestStart(t *testing.T) {
	event := baseEvent()
	m := abstractMatch(1, "A", "B", 1, 0)
	preferred := "f2"
	m.PreferredFieldID = &preferred

	placed, _, err := placement.Place(event, []models.AbstractMatch{m})
	require.NoError(t, err)
	require.Len(t, placed, 1)
	require.Equal(t, "f2", *placed[0].FieldID)
}

func intPtr(v int) *int { return &v }
