package serializer_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fieldhouse-sports/scheduler-core/models"
	"github.com/fieldhouse-sports/scheduler-core/serializer"
)

func TestMatch_NullsForUnsetReferences(t *testing.T) {
	m := models.Match{
		ID:         5,
		DivisionID: "open",
		Team1:      models.ConcreteTeam("A"),
		Team2:      models.NoTeam(),
		Start:      time.Date(2026, 8, 3, 18, 0, 0, 0, time.UTC),
		End:        time.Date(2026, 8, 3, 19, 0, 0, 0, time.UTC),
	}

	dto := serializer.Match(m)
	require.Equal(t, 5, dto.MatchID)
	require.NotNil(t, dto.Team1ID)
	require.Equal(t, "A", *dto.Team1ID)
	require.Nil(t, dto.Team2ID)
	require.Nil(t, dto.RefereeID)
	require.Nil(t, dto.WinnerNextMatchID)
	require.Equal(t, "2026-08-03T18:00:00.000Z", dto.Start)
	require.Equal(t, []int{}, dto.Team1Points)
}

func TestMatch_LinkFieldsSerializeAsStrings(t *testing.T) {
	winnerID, loserID := 7, 9
	m := models.Match{
		ID:                3,
		Team1:             models.ConcreteTeam("A"),
		Team2:             models.ConcreteTeam("B"),
		WinnerNextMatchID: &winnerID,
		LoserNextMatchID:  &loserID,
	}

	dto := serializer.Match(m)
	require.NotNil(t, dto.WinnerNextMatchID)
	require.Equal(t, "7", *dto.WinnerNextMatchID)
	require.NotNil(t, dto.LoserNextMatchID)
	require.Equal(t, "9", *dto.LoserNextMatchID)
}

func TestMatch_RoundTripsThroughJSON(t *testing.T) {
	m := models.Match{
		ID:    1,
		Team1: models.ConcreteTeam("A"),
		Team2: models.ConcreteTeam("B"),
		Start: time.Date(2026, 8, 3, 18, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 8, 3, 19, 0, 0, 0, time.UTC),
	}

	raw, err := json.Marshal(serializer.Match(m))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, "A", decoded["team1Id"])
	require.Nil(t, decoded["refereeId"])
	require.Equal(t, float64(1), decoded["matchId"])
}

func TestEvent_DerivedFieldsPopulated(t *testing.T) {
	e := &models.Event{
		ID:        "evt-1",
		Name:      "Summer League",
		StartDate: time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC),
		Matches:   make([]models.Match, 4),
	}

	effectiveEnd := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	dto := serializer.Event(e, effectiveEnd)

	require.Equal(t, 4, dto.ScheduledMatchCount)
	require.Equal(t, "2026-09-10T00:00:00.000Z", dto.EffectiveEnd)
	require.Equal(t, []string{}, dto.DivisionIDs)
}
