package brackets

import (
	"github.com/fieldhouse-sports/scheduler-core/models"
	"github.com/fieldhouse-sports/scheduler-core/schederr"
)

// BuildDoubleElimination produces winners-bracket, losers-bracket,
// grand-final, and bracket-reset abstract matches for a division.
// matchId assignment (1..M) happens later, in the placement engine;
// the ids used here are only provisional, scoped to this call.
func BuildDoubleElimination(teams []models.Team, divisionID string) ([]models.AbstractMatch, error) {
	b := newBracketBuilder(divisionID)

	wbRoundIDs, err := b.buildWinnersBracket(teams)
	if err != nil {
		return nil, err
	}

	lastWBRound := wbRoundIDs[len(wbRoundIDs)-1]
	if len(lastWBRound) != 1 {
		return nil, schederr.NewConfigError("winners bracket final is malformed for division %q", divisionID)
	}
	wbFinal := lastWBRound[0]

	lbFinalists := b.buildLosersBracket(wbRoundIDs)
	if len(lbFinalists) == 0 {
		// Only 2 teams in the division: there is no losers bracket to
		// speak of, the single winners-bracket match decides it all.
		return b.matches, nil
	}
	if len(lbFinalists) != 1 {
		return nil, schederr.NewConfigError("losers bracket final is malformed for division %q", divisionID)
	}
	lbFinal := lbFinalists[0]

	// The grand final's round follows both bracket finals, so placement
	// never puts it ahead of (or alongside) the losers-bracket final.
	grandRound := b.matches[b.index[wbFinal]].Round + 1
	if afterLB := b.matches[b.index[lbFinal.matchID]].Round + 1; afterLB > grandRound {
		grandRound = afterLB
	}
	grandFinalID := b.addMatch(models.NoTeam(), models.NoTeam(), grandRound, 0, false)
	b.wireWinner(wbFinal, grandFinalID, models.SlotLeft)
	b.wireFeed(lbFinal, grandFinalID, models.SlotRight)

	// The reset slot is always created, locked: if the loser-bracket
	// entrant wins the grand final, finalize (C6) unlocks this match
	// for the decider. Both participants are the grand final's winner
	// and loser again, so both links hang off the grand final itself
	// rather than off the original bracket finals.
	resetID := b.addMatch(models.NoTeam(), models.NoTeam(), grandRound+1, 0, true)
	b.matches[b.index[resetID]].Locked = true
	b.wireWinner(grandFinalID, resetID, models.SlotLeft)
	b.wireLoser(grandFinalID, resetID, models.SlotRight)

	return b.matches, nil
}

// lbFeed names a pending losers-bracket entrant: either the winner of
// a previous losers-bracket match, or the loser of a winners-bracket
// match dropping in directly.
type lbFeed struct {
	matchID   int
	fromLoser bool
}

func (b *bracketBuilder) wireFeed(f lbFeed, targetID int, slot models.RefSlot) {
	if f.fromLoser {
		b.wireLoser(f.matchID, targetID, slot)
	} else {
		b.wireWinner(f.matchID, targetID, slot)
	}
}

func dropInFeeds(matchIDs []int) []lbFeed {
	out := make([]lbFeed, len(matchIDs))
	for i, id := range matchIDs {
		out[i] = lbFeed{matchID: id, fromLoser: true}
	}
	return out
}

// buildLosersBracket runs the standard drop-in/consolidation pattern:
// round 1 pairs winners-bracket round-1 losers against each other;
// every subsequent winners-bracket round's losers drop in against the
// losers bracket's surviving winners one-for-one, and any surplus on
// either side (an odd loser, an odd survivor) passes straight through
// untouched to the next stage rather than being dropped. It returns
// the single losers-bracket finalist feed, or nil if the bracket is
// too small to have one (n <= 2: a single winners-bracket round, whose
// one loser has no one to meet in a losers bracket).
func (b *bracketBuilder) buildLosersBracket(wbRoundIDs [][]int) []lbFeed {
	if len(wbRoundIDs) < 2 || len(wbRoundIDs[0]) == 0 {
		return nil
	}

	lbRound := 2
	advancing, lbRound := pairOff(b, dropInFeeds(wbRoundIDs[0]), lbRound)

	for wbRoundIdx := 1; wbRoundIdx < len(wbRoundIDs); wbRoundIdx++ {
		losers := dropInFeeds(wbRoundIDs[wbRoundIdx])
		if len(advancing) == 0 && len(losers) == 0 {
			continue
		}

		paired := len(advancing)
		if len(losers) < paired {
			paired = len(losers)
		}

		dropIn := make([]lbFeed, 0, len(advancing)+len(losers))
		order := 0
		for i := 0; i < paired; i++ {
			id := b.addMatch(models.NoTeam(), models.NoTeam(), lbRound, order, true)
			b.wireFeed(advancing[i], id, models.SlotLeft)
			b.wireFeed(losers[i], id, models.SlotRight)
			dropIn = append(dropIn, lbFeed{matchID: id})
			order++
		}
		for i := paired; i < len(losers); i++ {
			dropIn = append(dropIn, losers[i])
		}
		for i := paired; i < len(advancing); i++ {
			dropIn = append(dropIn, advancing[i])
		}
		lbRound++

		advancing, lbRound = pairOff(b, dropIn, lbRound)
	}

	return advancing
}

// pairOff consolidates a set of pending losers-bracket feeds two at a
// time until at most one remains, creating one round per pairing pass
// and leaving a lone odd feed to pass through untouched.
func pairOff(b *bracketBuilder, feeds []lbFeed, round int) ([]lbFeed, int) {
	if len(feeds) <= 1 {
		return feeds, round
	}

	out := make([]lbFeed, 0, (len(feeds)+1)/2)
	order := 0
	i := 0
	for ; i+1 < len(feeds); i += 2 {
		id := b.addMatch(models.NoTeam(), models.NoTeam(), round, order, true)
		b.wireFeed(feeds[i], id, models.SlotLeft)
		b.wireFeed(feeds[i+1], id, models.SlotRight)
		out = append(out, lbFeed{matchID: id})
		order++
	}
	if i < len(feeds) {
		out = append(out, feeds[i])
	}
	return out, round + 1
}
