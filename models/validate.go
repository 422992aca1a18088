package models

import "fmt"

// ValidateEventForScheduling returns every human-readable error found
// in event's configuration (§4.1). An empty slice means the event is
// usable as a scheduling input. This never mutates event.
func ValidateEventForScheduling(event *Event) []string {
	var errs []string

	if len(event.Divisions) == 0 {
		errs = append(errs, "event has no divisions")
	}

	for _, d := range event.Divisions {
		if len(event.FieldsSupporting(d.ID)) == 0 {
			errs = append(errs, fmt.Sprintf("no fields are available for division %q (%s)", d.Name, d.ID))
		}
	}

	if !event.NoFixedEndDateTime && !event.StartDate.Before(event.EndDate) {
		errs = append(errs, "event start must be before end when noFixedEndDateTime is false")
	}

	if event.UsesSets {
		if event.SetsPerMatch < 1 {
			errs = append(errs, "setsPerMatch must be at least 1 when usesSets is true")
		}
		if event.SetDurationMinutes*event.SetsPerMatch <= 0 {
			errs = append(errs, "setDurationMinutes * setsPerMatch must be positive")
		}
	} else if event.MatchDurationMinutes <= 0 {
		errs = append(errs, "matchDurationMinutes must be positive for non-set matches")
	}

	if event.IncludePlayoffs && event.PlayoffTeamCount > 0 {
		for _, d := range event.Divisions {
			teams := event.TeamsInDivision(d.ID)
			if event.PlayoffTeamCount > len(teams) {
				errs = append(errs, fmt.Sprintf("playoffTeamCount (%d) exceeds participating teams (%d) in division %q", event.PlayoffTeamCount, len(teams), d.Name))
			}
			if event.SingleDivision {
				break
			}
		}
	}

	if event.GamesPerOpponent < 1 && event.Kind == EventKindLeague {
		errs = append(errs, "gamesPerOpponent must be at least 1 for a league")
	}

	return errs
}
