package models

import "time"

// Match is the scheduler's concrete unit of play. ID is the 1-based
// matchId unique within its event; it is also the identifier other
// matches reference via TeamRef.Feeder and via the forward/back links
// below.
type Match struct {
	ID         int
	DivisionID string

	Team1 TeamRef
	Team2 TeamRef

	RefereeUserID *string
	TeamRefereeID *string

	FieldID *string
	Start   time.Time
	End     time.Time

	Team1Points []int
	Team2Points []int
	SetResults  []int // 0 = not played, 1 = team1 won the set, 2 = team2 won the set

	LosersBracket bool

	WinnerNextMatchID *int
	LoserNextMatchID  *int
	PreviousLeftID    *int
	PreviousRightID   *int

	Locked           bool
	RefereeCheckedIn bool

	// Finalized marks a match whose result has already been applied to
	// team records and bracket links by finalizeMatch — a second
	// finalize call on the same match is a no-op (§8 property 8).
	Finalized bool
}

// AllSetsPlayed reports whether every entry of SetResults is non-zero.
func (m *Match) AllSetsPlayed() bool {
	if len(m.SetResults) == 0 {
		return false
	}
	for _, r := range m.SetResults {
		if r == 0 {
			return false
		}
	}
	return true
}

// IsUnplayed reports whether every entry of SetResults is still zero
// (the "in progress" vs "unplayed" distinction design note §9: a match
// with partial scores is in progress and is not eligible for
// auto-reschedule).
func (m *Match) IsUnplayed() bool {
	for _, r := range m.SetResults {
		if r != 0 {
			return false
		}
	}
	return true
}

// SetScoreTally returns how many sets each team won.
func (m *Match) SetScoreTally() (team1Sets, team2Sets int) {
	for _, r := range m.SetResults {
		switch r {
		case 1:
			team1Sets++
		case 2:
			team2Sets++
		}
	}
	return
}

// Overlaps reports whether this match's [Start, End) interval overlaps
// another's.
func (m *Match) Overlaps(other *Match) bool {
	return m.Start.Before(other.End) && other.Start.Before(m.End)
}

// HasConcreteTeam reports whether team1 or team2 already names the
// given concrete team id.
func (m *Match) HasConcreteTeam(teamID string) bool {
	return (m.Team1.IsConcrete() && m.Team1.TeamID == teamID) ||
		(m.Team2.IsConcrete() && m.Team2.TeamID == teamID)
}
