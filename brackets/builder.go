// Package brackets implements C3: the bracket builder. It produces
// abstract matches only (see models.AbstractMatch) — no times or
// fields are assigned here; that is the placement engine's job
// (package placement).
//
// Seeding follows the snake pairing described in §4.3: slot k (0-based)
// pairs seed k+1 against seed (2^ceil(log2 n) - k). A seed whose
// opponent index exceeds the team count receives a bye and advances
// unopposed; no match object is ever created for that slot.
package brackets

import (
	"math"
	"sort"

	"github.com/fieldhouse-sports/scheduler-core/models"
	"github.com/fieldhouse-sports/scheduler-core/schederr"
)

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func sortedBySeed(teams []models.Team) []models.Team {
	out := append([]models.Team(nil), teams...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Seed < out[j].Seed })
	return out
}

func intPtr(v int) *int { return &v }

// bracketBuilder accumulates AbstractMatches and resolves feeder
// linkage by provisional id as rounds are constructed. One builder is
// used for an entire bracket (winners + losers + finals) so that
// cross-bracket wiring (a winners-bracket loser dropping into the
// losers bracket) can mutate an already-appended match in place.
type bracketBuilder struct {
	divisionID string
	nextID     int
	matches    []models.AbstractMatch
	index      map[int]int // provisional id -> index in matches
}

func newBracketBuilder(divisionID string) *bracketBuilder {
	return &bracketBuilder{divisionID: divisionID, index: map[int]int{}}
}

func (b *bracketBuilder) addMatch(team1, team2 models.TeamRef, round, orderInRound int, losersBracket bool) int {
	b.nextID++
	id := b.nextID
	b.matches = append(b.matches, models.AbstractMatch{
		ProvisionalID: id,
		DivisionID:    b.divisionID,
		Team1:         team1,
		Team2:         team2,
		Round:         round,
		OrderInRound:  orderInRound,
		LosersBracket: losersBracket,
	})
	b.index[id] = len(b.matches) - 1
	return id
}

// wireWinner records that sourceID's winner fills targetID's left/right
// slot, i.e. sets sourceID.WinnerNextMatchID and targetID's back-link
// plus feeder placeholder.
func (b *bracketBuilder) wireWinner(sourceID, targetID int, slot models.RefSlot) {
	b.matches[b.index[sourceID]].WinnerNextMatchID = intPtr(targetID)
	b.placeFeeder(sourceID, targetID, slot)
}

// wireLoser records that sourceID's loser fills targetID's left/right
// slot (the double-elimination drop-in from winners to losers bracket).
func (b *bracketBuilder) wireLoser(sourceID, targetID int, slot models.RefSlot) {
	b.matches[b.index[sourceID]].LoserNextMatchID = intPtr(targetID)
	b.placeFeeder(sourceID, targetID, slot)
}

func (b *bracketBuilder) placeFeeder(sourceID, targetID int, slot models.RefSlot) {
	ref := models.FeederRef(sourceID, slot)
	ti := b.index[targetID]
	if slot == models.SlotLeft {
		b.matches[ti].Team1 = ref
		b.matches[ti].PreviousLeftID = intPtr(sourceID)
	} else {
		b.matches[ti].Team2 = ref
		b.matches[ti].PreviousRightID = intPtr(sourceID)
	}
}

// buildWinnersBracket runs the snake-seeded single-elimination shape
// and returns the match provisional ids grouped by round (round 1
// first), excluding byes, so callers building a losers bracket know
// exactly which matches can feed a loser into round-1 drop-in slots.
func (b *bracketBuilder) buildWinnersBracket(teams []models.Team) ([][]int, error) {
	n := len(teams)
	if n < 2 {
		return nil, schederr.NewConfigError("bracket requires at least 2 teams in division %q, found %d", b.divisionID, n)
	}
	sorted := sortedBySeed(teams)

	numRounds := int(math.Ceil(math.Log2(float64(n))))
	size := nextPowerOfTwo(n)

	roundIDs := make([][]int, 0, numRounds)

	refs := make([]models.TeamRef, size/2)
	round1IDs := make([]int, 0, size/2)
	for pairIdx := 0; pairIdx < size/2; pairIdx++ {
		seedA := pairIdx + 1
		seedB := size - pairIdx
		if seedB > n {
			refs[pairIdx] = models.ConcreteTeam(sorted[seedA-1].ID)
			continue
		}
		id := b.addMatch(models.ConcreteTeam(sorted[seedA-1].ID), models.ConcreteTeam(sorted[seedB-1].ID), 1, pairIdx, false)
		refs[pairIdx] = models.FeederRef(id, models.SlotLeft)
		round1IDs = append(round1IDs, id)
	}
	roundIDs = append(roundIDs, round1IDs)

	round := 2
	for len(refs) > 1 {
		nextRefs := make([]models.TeamRef, len(refs)/2)
		roundThisIDs := make([]int, 0, len(refs)/2)
		for i := 0; i < len(refs)/2; i++ {
			left, right := refs[2*i], refs[2*i+1]
			id := b.addMatch(left, right, round, i, false)
			if left.Kind == models.RefFeeder {
				b.wireWinner(left.FeederMatchID, id, models.SlotLeft)
			}
			if right.Kind == models.RefFeeder {
				b.wireWinner(right.FeederMatchID, id, models.SlotRight)
			}
			nextRefs[i] = models.FeederRef(id, models.SlotLeft)
			roundThisIDs = append(roundThisIDs, id)
		}
		roundIDs = append(roundIDs, roundThisIDs)
		refs = nextRefs
		round++
	}

	return roundIDs, nil
}
