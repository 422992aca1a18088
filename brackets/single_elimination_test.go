package brackets_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fieldhouse-sports/scheduler-core/brackets"
	"github.com/fieldhouse-sports/scheduler-core/models"
)

func seededTeams(n int) []models.Team {
	out := make([]models.Team, n)
	for i := range out {
		out[i] = models.Team{ID: string(rune('A' + i)), Seed: i + 1, DivisionID: "open"}
	}
	return out
}

func TestBuildSingleElimination_MatchCountIsNMinusOne(t *testing.T) {
	for n := 2; n <= 17; n++ {
		ms, err := brackets.BuildSingleElimination(seededTeams(n), "open")
		require.NoErrorf(t, err, "n=%d", n)
		require.Lenf(t, ms, n-1, "n=%d", n)
	}
}

func TestBuildSingleElimination_TopSeedsGetByesWhenNotPowerOfTwo(t *testing.T) {
	ms, err := brackets.BuildSingleElimination(seededTeams(5), "open")
	require.NoError(t, err)

	// 5 teams -> bracket size 8, 3 byes. Seeds 1-3 should never appear
	// in a round-1 match (they advance unopposed).
	for _, m := range ms {
		if m.Round != 1 {
			continue
		}
		require.NotEqual(t, "A", m.Team1.TeamID)
		require.NotEqual(t, "A", m.Team2.TeamID)
		require.NotEqual(t, "B", m.Team1.TeamID)
		require.NotEqual(t, "B", m.Team2.TeamID)
		require.NotEqual(t, "C", m.Team1.TeamID)
		require.NotEqual(t, "C", m.Team2.TeamID)
	}
}

func TestBuildSingleElimination_ProvisionalIDsUniqueAndLinked(t *testing.T) {
	ms, err := brackets.BuildSingleElimination(seededTeams(8), "open")
	require.NoError(t, err)
	require.Len(t, ms, 7)

	seen := map[int]bool{}
	for _, m := range ms {
		require.False(t, seen[m.ProvisionalID])
		seen[m.ProvisionalID] = true
	}

	byID := map[int]models.AbstractMatch{}
	for _, m := range ms {
		byID[m.ProvisionalID] = m
	}
	var final models.AbstractMatch
	for _, m := range ms {
		if m.WinnerNextMatchID == nil {
			final = m
		}
	}
	require.NotZero(t, final.ProvisionalID)
	require.True(t, final.PreviousLeftID != nil && final.PreviousRightID != nil)
}

func TestBuildSingleElimination_TooFewTeamsFails(t *testing.T) {
	_, err := brackets.BuildSingleElimination(seededTeams(1), "open")
	require.Error(t, err)
}
