// Package serializer implements C8: projecting internal models.Match
// and models.Event values onto the bit-stable wire shape described in
// §6. All conversions are pure and one-directional (core → wire);
// hydrating a caller's richer response from these DTOs is a caller
// concern, not this package's.
package serializer

import (
	"strconv"
	"time"

	"github.com/fieldhouse-sports/scheduler-core/models"
)

// isoMillis matches §6's "ISO-8601 UTC with milliseconds" requirement
// with a literal Z suffix.
const isoMillis = "2006-01-02T15:04:05.000Z"

// MatchDTO is the public wire shape for a Match (§6).
type MatchDTO struct {
	MatchID int `json:"matchId"`

	Team1ID *string `json:"team1Id"`
	Team2ID *string `json:"team2Id"`

	RefereeID     *string `json:"refereeId"`
	TeamRefereeID *string `json:"teamRefereeId"`

	FieldID *string `json:"fieldId"`
	Start   string  `json:"start"`
	End     string  `json:"end"`

	Team1Points []int `json:"team1Points"`
	Team2Points []int `json:"team2Points"`
	SetResults  []int `json:"setResults"`

	LosersBracket bool `json:"losersBracket"`

	WinnerNextMatchID *string `json:"winnerNextMatchId"`
	LoserNextMatchID  *string `json:"loserNextMatchId"`
	PreviousLeftID    *string `json:"previousLeftId"`
	PreviousRightID   *string `json:"previousRightId"`

	Division *string `json:"division"`

	Locked           bool `json:"locked"`
	RefereeCheckedIn bool `json:"refereeCheckedIn"`
}

// Match projects a single models.Match onto its wire shape.
func Match(m models.Match) MatchDTO {
	return MatchDTO{
		MatchID:           m.ID,
		Team1ID:           teamRefID(m.Team1),
		Team2ID:           teamRefID(m.Team2),
		RefereeID:         m.RefereeUserID,
		TeamRefereeID:     m.TeamRefereeID,
		FieldID:           m.FieldID,
		Start:             formatISO(m.Start),
		End:               formatISO(m.End),
		Team1Points:       emptyIfNil(m.Team1Points),
		Team2Points:       emptyIfNil(m.Team2Points),
		SetResults:        emptyIfNil(m.SetResults),
		LosersBracket:     m.LosersBracket,
		WinnerNextMatchID: intPtrToStringPtr(m.WinnerNextMatchID),
		LoserNextMatchID:  intPtrToStringPtr(m.LoserNextMatchID),
		PreviousLeftID:    intPtrToStringPtr(m.PreviousLeftID),
		PreviousRightID:   intPtrToStringPtr(m.PreviousRightID),
		Division:          stringOrNil(m.DivisionID),
		Locked:            m.Locked,
		RefereeCheckedIn:  m.RefereeCheckedIn,
	}
}

// Matches projects a slice of models.Match in place, preserving order.
func Matches(ms []models.Match) []MatchDTO {
	out := make([]MatchDTO, len(ms))
	for i, m := range ms {
		out[i] = Match(m)
	}
	return out
}

// EventDTO is the public wire shape for an Event (§6): every input
// field the scheduler accepted, plus the two derived fields
// `scheduledMatchCount` and `effectiveEnd`.
type EventDTO struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	StartDate          string `json:"startDate"`
	EndDate            string `json:"endDate"`
	NoFixedEndDateTime bool   `json:"noFixedEndDateTime"`
	Kind               string `json:"kind"`
	SingleDivision     bool   `json:"singleDivision"`
	TeamSignup         bool   `json:"teamSignup"`

	MaxParticipants int `json:"maxParticipants"`
	TeamSizeLimit   int `json:"teamSizeLimit"`

	MatchDurationMinutes int  `json:"matchDurationMinutes"`
	SetDurationMinutes   int  `json:"setDurationMinutes"`
	SetsPerMatch         int  `json:"setsPerMatch"`
	UsesSets             bool `json:"usesSets"`
	RestTimeMinutes      int  `json:"restTimeMinutes"`

	IncludePlayoffs              bool  `json:"includePlayoffs"`
	PlayoffTeamCount             int   `json:"playoffTeamCount"`
	DoubleElimination            bool  `json:"doubleElimination"`
	WinnerSetCount               int   `json:"winnerSetCount"`
	LoserSetCount                int   `json:"loserSetCount"`
	WinnerBracketPointsToVictory []int `json:"winnerBracketPointsToVictory"`
	LoserBracketPointsToVictory  []int `json:"loserBracketPointsToVictory"`
	PointsToVictory              []int `json:"pointsToVictory"`

	GamesPerOpponent int  `json:"gamesPerOpponent"`
	DoTeamsRef       bool `json:"doTeamsRef"`

	DivisionIDs        []string `json:"divisionIds"`
	FieldIDs           []string `json:"fieldIds"`
	TimeSlotIDs        []string `json:"timeSlotIds"`
	TeamIDs            []string `json:"teamIds"`
	ParticipantUserIDs []string `json:"participantUserIds"`
	FreeAgentIDs       []string `json:"freeAgentIds"`
	WaitListIDs        []string `json:"waitListIds"`
	RefereeIDs         []string `json:"refereeIds"`

	HostID         string `json:"hostId"`
	OrganizationID string `json:"organizationId"`

	ScheduledMatchCount int    `json:"scheduledMatchCount"`
	EffectiveEnd        string `json:"effectiveEnd"`
}

// Event projects a models.Event plus the placement engine's effective
// end onto its wire shape. effectiveEnd is passed explicitly rather
// than read off the event because it is a placement-time derivation,
// not a stored field.
func Event(e *models.Event, effectiveEnd time.Time) EventDTO {
	return EventDTO{
		ID:                 e.ID,
		Name:                e.Name,
		StartDate:           formatISO(e.StartDate),
		EndDate:             formatISO(e.EndDate),
		NoFixedEndDateTime:  e.NoFixedEndDateTime,
		Kind:                string(e.Kind),
		SingleDivision:      e.SingleDivision,
		TeamSignup:          e.TeamSignup,
		MaxParticipants:     e.MaxParticipants,
		TeamSizeLimit:       e.TeamSizeLimit,
		MatchDurationMinutes: e.MatchDurationMinutes,
		SetDurationMinutes:  e.SetDurationMinutes,
		SetsPerMatch:        e.SetsPerMatch,
		UsesSets:            e.UsesSets,
		RestTimeMinutes:     e.RestTimeMinutes,
		IncludePlayoffs:     e.IncludePlayoffs,
		PlayoffTeamCount:    e.PlayoffTeamCount,
		DoubleElimination:   e.DoubleElimination,
		WinnerSetCount:      e.WinnerSetCount,
		LoserSetCount:       e.LoserSetCount,
		WinnerBracketPointsToVictory: emptyIfNil(e.WinnerBracketPointsToVictory),
		LoserBracketPointsToVictory:  emptyIfNil(e.LoserBracketPointsToVictory),
		PointsToVictory:              emptyIfNil(e.PointsToVictory),
		GamesPerOpponent:    e.GamesPerOpponent,
		DoTeamsRef:          e.DoTeamsRef,
		DivisionIDs:         emptyStringsIfNil(e.DivisionIDs),
		FieldIDs:            emptyStringsIfNil(e.FieldIDs),
		TimeSlotIDs:         emptyStringsIfNil(e.TimeSlotIDs),
		TeamIDs:             emptyStringsIfNil(e.TeamIDs),
		ParticipantUserIDs:  emptyStringsIfNil(e.ParticipantUserIDs),
		FreeAgentIDs:        emptyStringsIfNil(e.FreeAgentIDs),
		WaitListIDs:         emptyStringsIfNil(e.WaitListIDs),
		RefereeIDs:          emptyStringsIfNil(e.RefereeIDs),
		HostID:              e.HostID,
		OrganizationID:      e.OrganizationID,
		ScheduledMatchCount: len(e.Matches),
		EffectiveEnd:        formatISO(effectiveEnd),
	}
}

func teamRefID(ref models.TeamRef) *string {
	if !ref.IsConcrete() {
		return nil
	}
	id := ref.TeamID
	return &id
}

func intPtrToStringPtr(id *int) *string {
	if id == nil {
		return nil
	}
	s := strconv.Itoa(*id)
	return &s
}

func stringOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func emptyIfNil(xs []int) []int {
	if xs == nil {
		return []int{}
	}
	return xs
}

func emptyStringsIfNil(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}

func formatISO(t time.Time) string {
	return t.UTC().Format(isoMillis)
}
