package models

// AbstractMatch is a pairing plus division and ordering rank with no
// time or field assigned yet — the shared output shape of C2 (round
// robin) and C3 (bracket builder), and the input shape C4 (placement)
// consumes.
type AbstractMatch struct {
	// ProvisionalID correlates WinnerNextMatchID/LoserNextMatchID/
	// PreviousLeftID/PreviousRightID to sibling AbstractMatches within
	// the same generator call (round robin or bracket build). It is
	// NOT the final matchId: placement (C4) assigns matchId 1..M in
	// its own deterministic order and remaps every provisional
	// reference to the corresponding final id before matches are
	// persisted.
	ProvisionalID int

	DivisionID string

	Team1 TeamRef
	Team2 TeamRef

	// Round and OrderInRound drive the deterministic placement
	// ordering of §4.4: bracket round ascending, winner before loser
	// bracket, round-robin rounds interleaved with bracket rounds,
	// ties broken by OrderInRound (itself assigned in a stable,
	// deterministic traversal by the generator that produced this
	// match).
	Round        int
	OrderInRound int

	LosersBracket bool

	WinnerNextMatchID *int
	LoserNextMatchID  *int
	PreviousLeftID    *int
	PreviousRightID   *int

	// Locked marks slots (e.g. the double-elimination bracket reset)
	// that exist structurally but cannot be played until finalize
	// unlocks them.
	Locked bool

	// IsBye marks a round-1 bracket slot where a seed advances
	// unopposed; no Match is ever materialized for it.
	IsBye bool

	// PreferredFieldID carries a placement hint (§4.4e): a bracket
	// match whose feeders were played on a given field prefers that
	// field again. Nil when there is no preference.
	PreferredFieldID *string
}
