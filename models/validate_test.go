package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fieldhouse-sports/scheduler-core/models"
)

func baseEvent() *models.Event {
	start := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 30)
	return &models.Event{
		ID:                   "evt-1",
		Kind:                 models.EventKindLeague,
		StartDate:            start,
		EndDate:              end,
		MatchDurationMinutes: 60,
		GamesPerOpponent:     1,
		Divisions:            []models.Division{{ID: "open", Name: "Open"}},
		Fields:               []models.PlayingField{{ID: "f1", DivisionIDs: []string{"open"}}},
		Teams: []models.Team{
			{ID: "t1", DivisionID: "open"},
			{ID: "t2", DivisionID: "open"},
		},
	}
}

func TestValidateEventForScheduling_Valid(t *testing.T) {
	errs := models.ValidateEventForScheduling(baseEvent())
	require.Empty(t, errs)
}

func TestValidateEventForScheduling_MissingFieldForDivision(t *testing.T) {
	e := baseEvent()
	e.Divisions = append(e.Divisions, models.Division{ID: "advanced", Name: "Advanced"})
	errs := models.ValidateEventForScheduling(e)
	require.NotEmpty(t, errs)
	require.Contains(t, errs[0], "no fields are available")
	found := false
	for _, msg := range errs {
		if msg == `no fields are available for division "Advanced" (advanced)` {
			found = true
		}
	}
	require.True(t, found)
}

func TestValidateEventForScheduling_StartAfterEnd(t *testing.T) {
	e := baseEvent()
	e.StartDate, e.EndDate = e.EndDate, e.StartDate
	errs := models.ValidateEventForScheduling(e)
	require.Contains(t, errs, "event start must be before end when noFixedEndDateTime is false")
}

func TestValidateEventForScheduling_NoFixedEndSkipsDateCheck(t *testing.T) {
	e := baseEvent()
	e.NoFixedEndDateTime = true
	e.StartDate, e.EndDate = e.EndDate, e.StartDate
	errs := models.ValidateEventForScheduling(e)
	for _, msg := range errs {
		require.NotContains(t, msg, "start must be before end")
	}
}

func TestValidateEventForScheduling_InconsistentSetConfig(t *testing.T) {
	e := baseEvent()
	e.UsesSets = true
	e.SetsPerMatch = 0
	errs := models.ValidateEventForScheduling(e)
	require.Contains(t, errs, "setsPerMatch must be at least 1 when usesSets is true")
}

func TestValidateEventForScheduling_PlayoffTooLarge(t *testing.T) {
	e := baseEvent()
	e.SingleDivision = true
	e.IncludePlayoffs = true
	e.PlayoffTeamCount = 5
	errs := models.ValidateEventForScheduling(e)
	require.NotEmpty(t, errs)
}

func TestFieldSupportsDivision_EmptyMeansAll(t *testing.T) {
	f := models.PlayingField{ID: "f1"}
	require.True(t, f.SupportsDivision("anything"))
}

func TestTeamsInDivision_SingleDivisionIgnoresTags(t *testing.T) {
	e := baseEvent()
	e.SingleDivision = true
	e.Teams = append(e.Teams, models.Team{ID: "t3", DivisionID: "other"})
	require.Len(t, e.TeamsInDivision("open"), 3)
}
