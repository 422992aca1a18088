package roundrobin_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fieldhouse-sports/scheduler-core/models"
	"github.com/fieldhouse-sports/scheduler-core/roundrobin"
)

func teams(n int) []models.Team {
	out := make([]models.Team, n)
	for i := range out {
		out[i] = models.Team{ID: string(rune('A' + i)), DivisionID: "open"}
	}
	return out
}

func TestGenerate_CompletenessEvenTeams(t *testing.T) {
	ms, err := roundrobin.Generate(teams(8), "open", 1)
	require.NoError(t, err)
	require.Len(t, ms, 28) // 8*7/2

	counts := map[[2]string]int{}
	for _, m := range ms {
		key := [2]string{m.Team1.TeamID, m.Team2.TeamID}
		counts[key]++
		require.NotEqual(t, m.Team1.TeamID, m.Team2.TeamID)
	}

	seen := map[string]bool{}
	for _, m := range ms {
		seen[m.Team1.TeamID] = true
		seen[m.Team2.TeamID] = true
	}
	require.Len(t, seen, 8)
}

func TestGenerate_CompletenessOddTeams(t *testing.T) {
	ms, err := roundrobin.Generate(teams(7), "open", 1)
	require.NoError(t, err)
	require.Len(t, ms, 21) // 7*6/2
}

func TestGenerate_EachUnorderedPairPlaysExactlyGamesPerOpponent(t *testing.T) {
	const g = 2
	ms, err := roundrobin.Generate(teams(5), "open", g)
	require.NoError(t, err)
	require.Len(t, ms, g*5*4/2)

	// Every unordered pair appears exactly g times total.
	unordered := map[string]int{}
	for _, m := range ms {
		a, b := m.Team1.TeamID, m.Team2.TeamID
		if a > b {
			a, b = b, a
		}
		unordered[a+"|"+b]++
	}
	for pair, count := range unordered {
		require.Equalf(t, g, count, "pair %s", pair)
	}
}

func TestGenerate_NoTeamPlaysTwiceInARound(t *testing.T) {
	ms, err := roundrobin.Generate(teams(8), "open", 1)
	require.NoError(t, err)

	byRound := map[int]map[string]bool{}
	for _, m := range ms {
		if byRound[m.Round] == nil {
			byRound[m.Round] = map[string]bool{}
		}
		require.False(t, byRound[m.Round][m.Team1.TeamID])
		require.False(t, byRound[m.Round][m.Team2.TeamID])
		byRound[m.Round][m.Team1.TeamID] = true
		byRound[m.Round][m.Team2.TeamID] = true
	}
}

func TestGenerate_TooFewTeamsFails(t *testing.T) {
	_, err := roundrobin.Generate(teams(1), "open", 1)
	require.Error(t, err)
}

func TestGenerate_DivisionTagged(t *testing.T) {
	ms, err := roundrobin.Generate(teams(4), "advanced", 1)
	require.NoError(t, err)
	for _, m := range ms {
		require.Equal(t, "advanced", m.DivisionID)
	}
}
