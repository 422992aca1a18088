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

// Orchestrator implements C5: scheduleEvent, split into a preview
// (ScheduleEvent) and a commit (CommitSchedule) per the supplemented
// preview-before-commit flow. It follows the teacher's
// tournament_service.go transaction idiom — BeginTx, a per-event
// advisory lock acquired inside that transaction, then commit or
// rollback — adapted from its log/slog calls to zap.
type Orchestrator struct {
	db       *sql.DB
	store    Store
	previews *PreviewStore
	logger   *zap.Logger
}

func NewOrchestrator(db *sql.DB, store Store, previews *PreviewStore, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{db: db, store: store, previews: previews, logger: logger}
}

// ScheduleEvent loads eventId, generates its full match set, and
// caches the result as a preview without persisting anything. The
// transaction it opens exists only to hold the per-event advisory
// lock for the duration of generation, preventing two concurrent
// previews from reading the same stale relations; it is always
// committed (never leaves writes behind) unless generation itself
// fails.
func (o *Orchestrator) ScheduleEvent(ctx context.Context, eventID string) (SchedulePreview, error) {
	tx, err := o.db.BeginTx(ctx, nil)
	if err != nil {
		return SchedulePreview{}, fmt.Errorf("begin scheduleEvent transaction: %w", err)
	}
	ctx = lock.WithTxScope(ctx)

	var preview SchedulePreview
	opErr := func() error {
		acquired, err := lock.AcquireEventLock(ctx, tx, eventID, o.logger)
		if err != nil {
			return err
		}
		if !acquired {
			return &schederr.ConcurrencyError{EventID: eventID}
		}

		event, err := o.store.LoadEventWithRelations(ctx, tx, eventID)
		if err != nil {
			return fmt.Errorf("load event %q: %w", eventID, err)
		}

		genStart := time.Now()
		matches, effectiveEnd, err := GenerateSchedule(event)
		if err != nil {
			metrics.RecordScheduleGeneration(string(event.Kind), "error", time.Since(genStart))
			if _, ok := err.(*schederr.InfeasibleError); ok {
				metrics.RecordPlacementFailure("infeasible")
			}
			return err
		}
		metrics.RecordScheduleGeneration(string(event.Kind), "ok", time.Since(genStart))

		preview, err = o.previews.Save(ctx, SchedulePreview{
			EventID:      eventID,
			Event:        event,
			Matches:      matches,
			EffectiveEnd: effectiveEnd,
		})
		return err
	}()

	if opErr != nil {
		_ = tx.Rollback()
		o.logger.Warn("scheduleEvent failed",
			zap.String("event_id", eventID), zap.Error(opErr))
		return SchedulePreview{}, opErr
	}
	if err := tx.Commit(); err != nil {
		return SchedulePreview{}, fmt.Errorf("commit scheduleEvent transaction: %w", err)
	}

	o.logger.Info("scheduleEvent produced a preview",
		zap.String("event_id", eventID),
		zap.String("preview_token", preview.Token),
		zap.Int("match_count", len(preview.Matches)))
	return preview, nil
}

// CommitSchedule persists a previously generated preview by its token:
// it re-acquires the event's advisory lock, replaces the event's
// matches, and updates the event's effective end and team match
// assignments, all inside one transaction. A missing or expired token
// surfaces as a ConfigError — the caller must call ScheduleEvent again.
func (o *Orchestrator) CommitSchedule(ctx context.Context, token string) (*models.Event, []models.Match, error) {
	preview, ok, err := o.previews.Get(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, schederr.NewConfigError("schedule preview %q was not found or has expired", token)
	}

	tx, err := o.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin commitSchedule transaction: %w", err)
	}
	ctx = lock.WithTxScope(ctx)

	event := preview.Event
	opErr := func() error {
		acquired, err := lock.AcquireEventLock(ctx, tx, preview.EventID, o.logger)
		if err != nil {
			return err
		}
		if !acquired {
			return &schederr.ConcurrencyError{EventID: preview.EventID}
		}

		if err := o.store.DeleteMatchesByEvent(ctx, tx, preview.EventID); err != nil {
			return err
		}
		if err := o.store.SaveMatches(ctx, tx, preview.EventID, preview.Matches); err != nil {
			return err
		}

		if event.NoFixedEndDateTime && preview.EffectiveEnd.After(event.EndDate) {
			event.EndDate = preview.EffectiveEnd
		}
		event.Matches = preview.Matches
		if err := o.store.SaveEventSchedule(ctx, tx, event); err != nil {
			return err
		}

		event.Teams = withMatchAssignments(event.Teams, preview.Matches)
		return o.store.SaveTeamRecords(ctx, tx, event.Teams)
	}()

	if opErr != nil {
		_ = tx.Rollback()
		o.logger.Warn("commitSchedule failed",
			zap.String("event_id", preview.EventID), zap.String("preview_token", token), zap.Error(opErr))
		return nil, nil, opErr
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit commitSchedule transaction: %w", err)
	}

	if err := o.previews.Delete(ctx, token); err != nil {
		o.logger.Warn("failed to evict committed preview", zap.String("preview_token", token), zap.Error(err))
	}

	o.logger.Info("commitSchedule persisted a schedule",
		zap.String("event_id", preview.EventID), zap.Int("match_count", len(preview.Matches)))
	return event, preview.Matches, nil
}

// withMatchAssignments returns teams with MatchIDs rebuilt from
// matches, preserving every other field.
func withMatchAssignments(teams []models.Team, matches []models.Match) []models.Team {
	ids := make(map[string][]int, len(teams))
	for _, m := range matches {
		if m.Team1.IsConcrete() {
			ids[m.Team1.TeamID] = append(ids[m.Team1.TeamID], m.ID)
		}
		if m.Team2.IsConcrete() {
			ids[m.Team2.TeamID] = append(ids[m.Team2.TeamID], m.ID)
		}
	}

	out := make([]models.Team, len(teams))
	for i, t := range teams {
		t.MatchIDs = ids[t.ID]
		out[i] = t
	}
	return out
}
