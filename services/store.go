package services

import (
	"context"
	"database/sql"

	"github.com/fieldhouse-sports/scheduler-core/models"
	"github.com/fieldhouse-sports/scheduler-core/schederr"
)

// Store is the persistence collaborator named in §6. The orchestrator
// and match-update services never touch a database directly; every
// read and write they need is one of these calls, issued against a
// transaction the caller (not this package) opened and will commit or
// roll back.
type Store interface {
	// LoadEventWithRelations hydrates event with its divisions,
	// fields, time-slot templates, teams, and existing matches.
	LoadEventWithRelations(ctx context.Context, tx *sql.Tx, eventID string) (*models.Event, error)

	SaveMatches(ctx context.Context, tx *sql.Tx, eventID string, matches []models.Match) error
	SaveTeamRecords(ctx context.Context, tx *sql.Tx, teams []models.Team) error
	SaveEventSchedule(ctx context.Context, tx *sql.Tx, event *models.Event) error
	DeleteMatchesByEvent(ctx context.Context, tx *sql.Tx, eventID string) error
}

// Notifier is the host-notification collaborator named in §6.
// NotifyHostOfAutoRescheduleFailure fires exactly once per
// ScheduleWindowExceeded and must never itself fail the caller's
// operation: implementations should log and swallow their own errors,
// and callers must not let a notifier error unwind a transaction that
// otherwise finished committing.
type Notifier interface {
	NotifyHostOfAutoRescheduleFailure(ctx context.Context, notification schederr.WindowExceededNotification) error
}
