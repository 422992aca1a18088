package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fieldhouse-sports/scheduler-core/lock"
	"github.com/fieldhouse-sports/scheduler-core/metrics"
	"github.com/fieldhouse-sports/scheduler-core/models"
	"github.com/fieldhouse-sports/scheduler-core/schederr"
)

// MatchService implements C6's transactional wrapper around
// ApplyMatchUpdates/FinalizeMatch: load, apply the pure operation,
// persist, commit. Its withTransaction helper is the teacher's
// matchService.withTransaction pattern (BeginTx, deferred
// rollback-or-commit keyed off the closure's returned error), adapted
// from the teacher's raw *sql.Tx/repositories.SQLExecutor plumbing to
// this package's per-event advisory lock and zap logging.
type MatchService struct {
	db       *sql.DB
	store    Store
	notifier Notifier
	logger   *zap.Logger
}

func NewMatchService(db *sql.DB, store Store, notifier Notifier, logger *zap.Logger) *MatchService {
	return &MatchService{db: db, store: store, notifier: notifier, logger: logger}
}

// withTransaction opens a transaction scoped for advisory locking,
// runs fn, and commits or rolls back depending on whether fn errored.
func (s *MatchService) withTransaction(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	ctx = lock.WithTxScope(ctx)

	opErr := fn(ctx, tx)
	if opErr != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("rollback failed", zap.Error(rbErr), zap.NamedError("cause", opErr))
		}
		return opErr
	}
	if cErr := tx.Commit(); cErr != nil {
		return fmt.Errorf("commit transaction: %w", cErr)
	}
	return nil
}

// UpdateMatch loads eventID's matches, applies updates to matchID, and
// persists the full match set inside a locked transaction.
func (s *MatchService) UpdateMatch(ctx context.Context, eventID string, matchID int, updates MatchUpdateInput, isHostOrAdmin bool) (*models.Match, error) {
	var updated models.Match

	err := s.withTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		acquired, err := lock.AcquireEventLock(ctx, tx, eventID, s.logger)
		if err != nil {
			return err
		}
		if !acquired {
			return &schederr.ConcurrencyError{EventID: eventID}
		}

		event, err := s.store.LoadEventWithRelations(ctx, tx, eventID)
		if err != nil {
			return fmt.Errorf("load event %q: %w", eventID, err)
		}

		idx := -1
		for i, m := range event.Matches {
			if m.ID == matchID {
				idx = i
				break
			}
		}
		if idx == -1 {
			return schederr.NewConfigError("match %d not found on event %q", matchID, eventID)
		}

		updated, err = ApplyMatchUpdates(event.Matches[idx], updates, isHostOrAdmin)
		if err != nil {
			return err
		}
		event.Matches[idx] = updated
		return s.store.SaveMatches(ctx, tx, eventID, event.Matches)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// FinalizeMatch loads eventID, finalizes matchID, and persists the
// resulting match set and team records inside a locked transaction.
// On ScheduleWindowExceeded, it notifies the host after the
// transaction has rolled back — the notifier's own error is logged but
// never replaces the returned error, matching §6's "must not throw into the scheduler's return
// path".
func (s *MatchService) FinalizeMatch(ctx context.Context, eventID string, matchID int, currentTime time.Time) (*models.Event, error) {
	var event *models.Event

	err := s.withTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		acquired, err := lock.AcquireEventLock(ctx, tx, eventID, s.logger)
		if err != nil {
			return err
		}
		if !acquired {
			return &schederr.ConcurrencyError{EventID: eventID}
		}

		event, err = s.store.LoadEventWithRelations(ctx, tx, eventID)
		if err != nil {
			return fmt.Errorf("load event %q: %w", eventID, err)
		}

		matches, err := FinalizeMatch(event, matchID, currentTime)
		if err != nil {
			return err
		}
		event.Matches = matches

		if err := s.store.SaveMatches(ctx, tx, eventID, event.Matches); err != nil {
			return err
		}
		return s.store.SaveTeamRecords(ctx, tx, event.Teams)
	})

	if err != nil {
		if windowErr, ok := err.(*schederr.WindowExceededError); ok {
			metrics.RecordPlacementFailure("window_exceeded")
			metrics.RecordAutoReschedule("window_exceeded")
			if notifyErr := s.notifier.NotifyHostOfAutoRescheduleFailure(ctx, windowErr.Notification); notifyErr != nil {
				s.logger.Error("host notification failed",
					zap.String("event_id", eventID), zap.Error(notifyErr))
			}
		}
		metrics.RecordFinalizeMatch("error")
		s.logger.Warn("finalizeMatch failed",
			zap.String("event_id", eventID), zap.Int("match_id", matchID), zap.Error(err))
		return nil, err
	}

	metrics.RecordFinalizeMatch("ok")
	s.logger.Info("finalizeMatch committed",
		zap.String("event_id", eventID), zap.Int("match_id", matchID))
	return event, nil
}
