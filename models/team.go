package models

// Team is a scheduling participant. Seed 0 means unseeded.
type Team struct {
	ID         string
	Seed       int
	CaptainID  string
	DivisionID string
	Name       string
	Wins       int
	Losses     int

	// MatchIDs is the ordered list of matchId values (Match.ID) this
	// team participates in, rebuilt by Orchestrator.CommitSchedule from
	// the committed match set; match updates and finalize leave it as is.
	MatchIDs []int
}
