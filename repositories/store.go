// Package repositories implements the relational half of C6's Store
// collaborator: a Postgres-backed services.Store built the way the
// teacher repo builds its own repositories (a thin postgresXxxRepository
// wrapping *sql.DB/SQLExecutor, table-per-relation, checkAffectedRows
// for not-found detection), generalized from per-entity repositories to
// the single wide Store interface §6 names. Loading an event's
// relations fans out across divisions/fields/time-slots/teams/matches
// concurrently with golang.org/x/sync/errgroup.
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"github.com/fieldhouse-sports/scheduler-core/models"
)

// SQLExecutor is satisfied by both *sql.DB and *sql.Tx, mirroring the
// teacher's repository pattern of accepting either a bare connection or
// an in-flight transaction.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

var ErrEventNotFound = errors.New("event not found")

// PostgresStore implements services.Store against the scheduler's own
// schema (events, divisions, fields, time_slots, teams, matches).
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// LoadEventWithRelations hydrates event's scalar row, then its five
// relation sets in parallel. Each fetch only needs read access, so
// they all run against the same *sql.Tx concurrently rather than
// serially the way a single repository's sequential joins would.
func (s *PostgresStore) LoadEventWithRelations(ctx context.Context, tx *sql.Tx, eventID string) (*models.Event, error) {
	event, err := s.loadEventScalar(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		divisions, err := s.loadDivisions(gctx, tx, eventID)
		if err != nil {
			return fmt.Errorf("load divisions: %w", err)
		}
		event.Divisions = divisions
		return nil
	})
	g.Go(func() error {
		fields, err := s.loadFields(gctx, tx, eventID)
		if err != nil {
			return fmt.Errorf("load fields: %w", err)
		}
		event.Fields = fields
		return nil
	})
	g.Go(func() error {
		slots, err := s.loadTimeSlots(gctx, tx, eventID)
		if err != nil {
			return fmt.Errorf("load time slots: %w", err)
		}
		event.TimeSlots = slots
		return nil
	})
	g.Go(func() error {
		teams, err := s.loadTeams(gctx, tx, eventID)
		if err != nil {
			return fmt.Errorf("load teams: %w", err)
		}
		event.Teams = teams
		return nil
	})
	g.Go(func() error {
		matches, err := s.loadMatches(gctx, tx, eventID)
		if err != nil {
			return fmt.Errorf("load matches: %w", err)
		}
		event.Matches = matches
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *PostgresStore) loadEventScalar(ctx context.Context, tx *sql.Tx, eventID string) (*models.Event, error) {
	const query = `
		SELECT
			id, name, start_date, end_date, no_fixed_end_date_time, kind,
			single_division, team_signup, max_participants, team_size_limit,
			match_duration_minutes, set_duration_minutes, sets_per_match, uses_sets,
			rest_time_minutes, include_playoffs, playoff_team_count, double_elimination,
			winner_set_count, loser_set_count,
			winner_bracket_points_to_victory, loser_bracket_points_to_victory, points_to_victory,
			games_per_opponent, do_teams_ref, host_id, organization_id
		FROM events WHERE id = $1`

	e := &models.Event{}
	err := tx.QueryRowContext(ctx, query, eventID).Scan(
		&e.ID, &e.Name, &e.StartDate, &e.EndDate, &e.NoFixedEndDateTime, &e.Kind,
		&e.SingleDivision, &e.TeamSignup, &e.MaxParticipants, &e.TeamSizeLimit,
		&e.MatchDurationMinutes, &e.SetDurationMinutes, &e.SetsPerMatch, &e.UsesSets,
		&e.RestTimeMinutes, &e.IncludePlayoffs, &e.PlayoffTeamCount, &e.DoubleElimination,
		&e.WinnerSetCount, &e.LoserSetCount,
		pq.Array(&e.WinnerBracketPointsToVictory), pq.Array(&e.LoserBracketPointsToVictory), pq.Array(&e.PointsToVictory),
		&e.GamesPerOpponent, &e.DoTeamsRef, &e.HostID, &e.OrganizationID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return e, nil
}

func (s *PostgresStore) loadDivisions(ctx context.Context, tx *sql.Tx, eventID string) ([]models.Division, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id, name FROM divisions WHERE event_id = $1 ORDER BY id`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Division, 0)
	for rows.Next() {
		var d models.Division
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *PostgresStore) loadFields(ctx context.Context, tx *sql.Tx, eventID string) ([]models.PlayingField, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, field_number, name, division_ids FROM fields WHERE event_id = $1 ORDER BY field_number`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.PlayingField, 0)
	for rows.Next() {
		var f models.PlayingField
		if err := rows.Scan(&f.ID, &f.FieldNumber, &f.Name, pq.Array(&f.DivisionIDs)); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *PostgresStore) loadTimeSlots(ctx context.Context, tx *sql.Tx, eventID string) ([]models.TimeSlot, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, day_of_week, days_of_week, start_date, end_date, repeating,
			start_time_minutes, end_time_minutes, scheduled_field_id, scheduled_field_ids, division_id
		FROM time_slots WHERE event_id = $1 ORDER BY id`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.TimeSlot, 0)
	for rows.Next() {
		var t models.TimeSlot
		if err := rows.Scan(
			&t.ID, &t.DayOfWeek, pq.Array(&t.DaysOfWeek), &t.StartDate, &t.EndDate, &t.Repeating,
			&t.StartTimeMinutes, &t.EndTimeMinutes, &t.ScheduledFieldID, pq.Array(&t.ScheduledFieldIDs), &t.DivisionID,
		); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *PostgresStore) loadTeams(ctx context.Context, tx *sql.Tx, eventID string) ([]models.Team, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, seed, captain_id, division_id, name, wins, losses, match_ids
		FROM teams WHERE event_id = $1 ORDER BY id`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Team, 0)
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(&t.ID, &t.Seed, &t.CaptainID, &t.DivisionID, &t.Name, &t.Wins, &t.Losses, pq.Array(&t.MatchIDs)); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *PostgresStore) loadMatches(ctx context.Context, tx *sql.Tx, eventID string) ([]models.Match, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, division_id,
			team1_kind, team1_id, team1_feeder_match_id, team1_feeder_slot,
			team2_kind, team2_id, team2_feeder_match_id, team2_feeder_slot,
			referee_user_id, team_referee_id, field_id, start_time, end_time,
			team1_points, team2_points, set_results, losers_bracket,
			winner_next_match_id, loser_next_match_id, previous_left_id, previous_right_id,
			locked, referee_checked_in, finalized
		FROM matches WHERE event_id = $1 ORDER BY id`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Match, 0)
	for rows.Next() {
		var m models.Match
		var t1Kind, t2Kind int
		var t1ID, t2ID sql.NullString
		var t1FeederMatch, t2FeederMatch sql.NullInt64
		var t1Slot, t2Slot int
		if err := rows.Scan(
			&m.ID, &m.DivisionID,
			&t1Kind, &t1ID, &t1FeederMatch, &t1Slot,
			&t2Kind, &t2ID, &t2FeederMatch, &t2Slot,
			&m.RefereeUserID, &m.TeamRefereeID, &m.FieldID, &m.Start, &m.End,
			pq.Array(&m.Team1Points), pq.Array(&m.Team2Points), pq.Array(&m.SetResults), &m.LosersBracket,
			&m.WinnerNextMatchID, &m.LoserNextMatchID, &m.PreviousLeftID, &m.PreviousRightID,
			&m.Locked, &m.RefereeCheckedIn, &m.Finalized,
		); err != nil {
			return nil, err
		}
		m.Team1 = decodeTeamRef(t1Kind, t1ID, t1FeederMatch, t1Slot)
		m.Team2 = decodeTeamRef(t2Kind, t2ID, t2FeederMatch, t2Slot)
		out = append(out, m)
	}
	return out, rows.Err()
}

func decodeTeamRef(kind int, teamID sql.NullString, feederMatch sql.NullInt64, slot int) models.TeamRef {
	switch models.RefKind(kind) {
	case models.RefConcreteTeam:
		return models.ConcreteTeam(teamID.String)
	case models.RefFeeder:
		return models.FeederRef(int(feederMatch.Int64), models.RefSlot(slot))
	default:
		return models.NoTeam()
	}
}

func encodeTeamRef(ref models.TeamRef) (kind int, teamID *string, feederMatch *int, slot int) {
	switch ref.Kind {
	case models.RefConcreteTeam:
		id := ref.TeamID
		return int(models.RefConcreteTeam), &id, nil, int(models.SlotNone)
	case models.RefFeeder:
		m := ref.FeederMatchID
		return int(models.RefFeeder), nil, &m, int(ref.FeederSlot)
	default:
		return int(models.RefEmpty), nil, nil, int(models.SlotNone)
	}
}

// SaveMatches upserts every match in matches, keyed by (event_id, id).
func (s *PostgresStore) SaveMatches(ctx context.Context, tx *sql.Tx, eventID string, matches []models.Match) error {
	const query = `
		INSERT INTO matches (
			event_id, id, division_id,
			team1_kind, team1_id, team1_feeder_match_id, team1_feeder_slot,
			team2_kind, team2_id, team2_feeder_match_id, team2_feeder_slot,
			referee_user_id, team_referee_id, field_id, start_time, end_time,
			team1_points, team2_points, set_results, losers_bracket,
			winner_next_match_id, loser_next_match_id, previous_left_id, previous_right_id,
			locked, referee_checked_in, finalized
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27)
		ON CONFLICT (event_id, id) DO UPDATE SET
			division_id = EXCLUDED.division_id,
			team1_kind = EXCLUDED.team1_kind, team1_id = EXCLUDED.team1_id,
			team1_feeder_match_id = EXCLUDED.team1_feeder_match_id, team1_feeder_slot = EXCLUDED.team1_feeder_slot,
			team2_kind = EXCLUDED.team2_kind, team2_id = EXCLUDED.team2_id,
			team2_feeder_match_id = EXCLUDED.team2_feeder_match_id, team2_feeder_slot = EXCLUDED.team2_feeder_slot,
			referee_user_id = EXCLUDED.referee_user_id, team_referee_id = EXCLUDED.team_referee_id,
			field_id = EXCLUDED.field_id, start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time,
			team1_points = EXCLUDED.team1_points, team2_points = EXCLUDED.team2_points, set_results = EXCLUDED.set_results,
			losers_bracket = EXCLUDED.losers_bracket,
			winner_next_match_id = EXCLUDED.winner_next_match_id, loser_next_match_id = EXCLUDED.loser_next_match_id,
			previous_left_id = EXCLUDED.previous_left_id, previous_right_id = EXCLUDED.previous_right_id,
			locked = EXCLUDED.locked, referee_checked_in = EXCLUDED.referee_checked_in,
			finalized = EXCLUDED.finalized`

	for _, m := range matches {
		t1Kind, t1ID, t1Feeder, t1Slot := encodeTeamRef(m.Team1)
		t2Kind, t2ID, t2Feeder, t2Slot := encodeTeamRef(m.Team2)
		_, err := tx.ExecContext(ctx, query,
			eventID, m.ID, m.DivisionID,
			t1Kind, t1ID, t1Feeder, t1Slot,
			t2Kind, t2ID, t2Feeder, t2Slot,
			m.RefereeUserID, m.TeamRefereeID, m.FieldID, m.Start, m.End,
			pq.Array(m.Team1Points), pq.Array(m.Team2Points), pq.Array(m.SetResults), m.LosersBracket,
			m.WinnerNextMatchID, m.LoserNextMatchID, m.PreviousLeftID, m.PreviousRightID,
			m.Locked, m.RefereeCheckedIn, m.Finalized,
		)
		if err != nil {
			return fmt.Errorf("save match %d: %w", m.ID, err)
		}
	}
	return nil
}

// SaveTeamRecords persists each team's win/loss tally and match list.
func (s *PostgresStore) SaveTeamRecords(ctx context.Context, tx *sql.Tx, teams []models.Team) error {
	const query = `UPDATE teams SET wins = $1, losses = $2, match_ids = $3 WHERE id = $4`
	for _, t := range teams {
		result, err := tx.ExecContext(ctx, query, t.Wins, t.Losses, pq.Array(t.MatchIDs), t.ID)
		if err != nil {
			return fmt.Errorf("save team record %q: %w", t.ID, err)
		}
		if err := checkAffectedRows(result, fmt.Errorf("team %q: %w", t.ID, ErrEventNotFound)); err != nil {
			return err
		}
	}
	return nil
}

// SaveEventSchedule persists the fields loadEventWithRelations's
// scalar row may have changed as a side effect of scheduling — today
// that is only end_date, updated when NoFixedEndDateTime extended it.
func (s *PostgresStore) SaveEventSchedule(ctx context.Context, tx *sql.Tx, event *models.Event) error {
	result, err := tx.ExecContext(ctx, `UPDATE events SET end_date = $1 WHERE id = $2`, event.EndDate, event.ID)
	if err != nil {
		return fmt.Errorf("save event schedule: %w", err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

// DeleteMatchesByEvent clears eventID's existing matches ahead of a
// CommitSchedule write — schedule generation replaces the match set
// wholesale rather than diffing it.
func (s *PostgresStore) DeleteMatchesByEvent(ctx context.Context, tx *sql.Tx, eventID string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM matches WHERE event_id = $1`, eventID)
	if err != nil {
		return fmt.Errorf("delete matches for event %q: %w", eventID, err)
	}
	return nil
}

var ErrTeamNotFound = errors.New("team not found")
var ErrFieldNotFound = errors.New("field not found")

// SetTeamLogoURL persists a team's uploaded logo location. It runs
// outside the per-event advisory lock: a logo is platform metadata,
// not scheduling state, so it is not part of the services.Store
// interface C5/C6 depend on.
func (s *PostgresStore) SetTeamLogoURL(ctx context.Context, teamID, url string) error {
	result, err := s.db.ExecContext(ctx, `UPDATE teams SET logo_url = $1 WHERE id = $2`, url, teamID)
	if err != nil {
		return fmt.Errorf("set team logo url: %w", err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

// SetFieldLogoURL persists a field's uploaded logo location.
func (s *PostgresStore) SetFieldLogoURL(ctx context.Context, fieldID, url string) error {
	result, err := s.db.ExecContext(ctx, `UPDATE fields SET logo_url = $1 WHERE id = $2`, url, fieldID)
	if err != nil {
		return fmt.Errorf("set field logo url: %w", err)
	}
	return checkAffectedRows(result, ErrFieldNotFound)
}
