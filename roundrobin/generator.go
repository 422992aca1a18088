// Package roundrobin implements C2: the round-robin pairing generator.
// It produces abstract matches only — no times or fields are assigned
// here; that is the placement engine's job (package placement).
package roundrobin

import (
	"github.com/fieldhouse-sports/scheduler-core/models"
	"github.com/fieldhouse-sports/scheduler-core/schederr"
)

const byeIndex = -1

// Generate runs the circle method over teams for a single division,
// producing gamesPerOpponent matches between every pair of distinct
// teams (each unordered pair meets gamesPerOpponent times in all, so a
// pass yields n(n-1)/2 matches). Matches are returned with Round/OrderInRound set so
// callers can interleave them deterministically with bracket rounds
// (§4.4 "Ordering").
//
// teams must already be in the caller's desired pairing order (the
// teacher's bracket generators sort by seed before calling in; the
// circle method itself is seed-agnostic and only cares about
// position).
func Generate(teams []models.Team, divisionID string, gamesPerOpponent int) ([]models.AbstractMatch, error) {
	n := len(teams)
	if n < 2 {
		return nil, schederr.NewConfigError("round robin requires at least 2 teams in division %q, found %d", divisionID, n)
	}
	if gamesPerOpponent < 1 {
		return nil, schederr.NewConfigError("gamesPerOpponent must be at least 1, got %d", gamesPerOpponent)
	}

	ids := make([]string, n)
	for i, t := range teams {
		ids[i] = t.ID
	}

	m := n
	hasBye := n%2 != 0
	if hasBye {
		m = n + 1
	}

	indices := make([]int, m)
	for i := range indices {
		if i < n {
			indices[i] = i
		} else {
			indices[i] = byeIndex
		}
	}

	roundsPerBlock := m - 1
	matches := make([]models.AbstractMatch, 0, gamesPerOpponent*n*(n-1)/2)

	for block := 0; block < gamesPerOpponent; block++ {
		swapHomeAway := block%2 == 1
		working := append([]int(nil), indices...)

		for round := 0; round < roundsPerBlock; round++ {
			order := 0
			for i := 0; i < m/2; i++ {
				home := working[i]
				away := working[m-1-i]
				if home == byeIndex || away == byeIndex {
					continue
				}
				team1, team2 := ids[home], ids[away]
				if swapHomeAway {
					team1, team2 = team2, team1
				}
				matches = append(matches, models.AbstractMatch{
					DivisionID:   divisionID,
					Team1:        models.ConcreteTeam(team1),
					Team2:        models.ConcreteTeam(team2),
					Round:        block*roundsPerBlock + round + 1,
					OrderInRound: order,
				})
				order++
			}
			working = rotate(working)
		}
	}

	return matches, nil
}

// rotate keeps position 0 fixed and rotates every other position by
// one, the standard circle-method step.
func rotate(indices []int) []int {
	n := len(indices)
	if n <= 2 {
		return indices
	}
	out := make([]int, n)
	out[0] = indices[0]
	out[1] = indices[n-1]
	copy(out[2:], indices[1:n-1])
	return out
}
