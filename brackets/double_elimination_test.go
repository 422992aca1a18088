package brackets_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fieldhouse-sports/scheduler-core/brackets"
	"github.com/fieldhouse-sports/scheduler-core/models"
)

func TestBuildDoubleElimination_MatchCountWithinS6Bounds(t *testing.T) {
	// §8 S6: for every n in 3..32, double-elim matches in [n-1, 2n-1].
	for n := 3; n <= 32; n++ {
		ms, err := brackets.BuildDoubleElimination(seededTeams(n), "open")
		require.NoErrorf(t, err, "n=%d", n)
		require.GreaterOrEqualf(t, len(ms), n-1, "n=%d", n)
		require.LessOrEqualf(t, len(ms), 2*n-1, "n=%d", n)
	}
}

func TestBuildDoubleElimination_TwoTeamsHasNoGrandFinal(t *testing.T) {
	ms, err := brackets.BuildDoubleElimination(seededTeams(2), "open")
	require.NoError(t, err)
	require.Len(t, ms, 1)
}

func TestBuildDoubleElimination_AlwaysCreatesLockedResetSlot(t *testing.T) {
	ms, err := brackets.BuildDoubleElimination(seededTeams(8), "open")
	require.NoError(t, err)

	var lockedCount int
	for _, m := range ms {
		if m.Locked {
			lockedCount++
		}
	}
	require.Equal(t, 1, lockedCount)
}

func TestBuildDoubleElimination_OddRoundOneLoserReachesLosersFinal(t *testing.T) {
	// 3 teams: WB round 1 produces exactly one loser (the other seed
	// byes). That lone loser must still pass through to the losers
	// bracket final against the winners-bracket final's loser, rather
	// than being dropped.
	ms, err := brackets.BuildDoubleElimination(seededTeams(3), "open")
	require.NoError(t, err)

	var losersBracketMatches int
	for _, m := range ms {
		if m.LosersBracket && !m.Locked {
			losersBracketMatches++
		}
	}
	require.Equal(t, 1, losersBracketMatches)
}

func TestBuildDoubleElimination_GrandFinalNotLosersBracket(t *testing.T) {
	ms, err := brackets.BuildDoubleElimination(seededTeams(4), "open")
	require.NoError(t, err)

	var grandFinal models.AbstractMatch
	for _, m := range ms {
		if !m.Locked && m.WinnerNextMatchID != nil && m.LoserNextMatchID != nil {
			grandFinal = m
		}
	}
	require.NotZero(t, grandFinal.ProvisionalID)
	require.False(t, grandFinal.LosersBracket)
}

func TestBuildDoubleElimination_ProvisionalIDsUnique(t *testing.T) {
	ms, err := brackets.BuildDoubleElimination(seededTeams(9), "open")
	require.NoError(t, err)

	seen := map[int]bool{}
	for _, m := range ms {
		require.False(t, seen[m.ProvisionalID])
		seen[m.ProvisionalID] = true
	}
}
