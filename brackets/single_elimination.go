package brackets

import "github.com/fieldhouse-sports/scheduler-core/models"

// BuildSingleElimination produces the winner-bracket abstract matches
// for a division of n teams: ⌈log2 n⌉ rounds, byes given to the top
// seeds per the snake pairing in §4.3, ending in a single final match.
func BuildSingleElimination(teams []models.Team, divisionID string) ([]models.AbstractMatch, error) {
	b := newBracketBuilder(divisionID)
	if _, err := b.buildWinnersBracket(teams); err != nil {
		return nil, err
	}
	return b.matches, nil
}
