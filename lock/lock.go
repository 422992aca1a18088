// Package lock implements C7: a per-event Postgres advisory lock
// scoped to the outer persistence transaction that must wrap every
// schedule-mutating operation (§4.7). The lock is released
// automatically when that transaction commits or rolls back;
// nothing in this package ever unlocks it explicitly.
package lock

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"time"

	"go.uber.org/zap"

	"github.com/fieldhouse-sports/scheduler-core/metrics"
	"github.com/fieldhouse-sports/scheduler-core/schederr"
)

// KeyFor derives the deterministic int64 advisory-lock key for an
// eventId (§4.7: "uniquely keyed by eventId"). pg_try_advisory_xact_lock
// takes a signed bigint; a 64-bit FNV-1a hash truncated to int64
// gives a stable, effectively collision-free key per event without a
// lock-id registry to maintain.
func KeyFor(eventID string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(eventID))
	return int64(h.Sum64())
}

type ctxKey struct{}

// held tracks which lock keys have been acquired within one
// transaction's lifetime, so a nested AcquireEventLock call for the
// same eventId is the no-op §4.7 requires rather than a second round
// trip to Postgres (pg_try_advisory_xact_lock itself isn't
// reentrant-aware the way a Go mutex is).
type held struct {
	keys map[int64]bool
}

// WithTxScope returns a context that remembers, for its lifetime,
// which event locks have been acquired. Callers open it once per
// outer transaction, alongside the *sql.Tx itself.
func WithTxScope(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, &held{keys: map[int64]bool{}})
}

func heldFrom(ctx context.Context) (*held, bool) {
	h, ok := ctx.Value(ctxKey{}).(*held)
	return h, ok
}

// AcquireEventLock acquires the transaction-scoped advisory lock for
// eventId, returning whether it is held. A nested call for the same
// eventId within the same WithTxScope context returns true without
// re-querying.
func AcquireEventLock(ctx context.Context, tx *sql.Tx, eventID string, logger *zap.Logger) (bool, error) {
	key := KeyFor(eventID)

	h, scoped := heldFrom(ctx)
	if scoped && h.keys[key] {
		return true, nil
	}

	start := time.Now()
	var acquired bool
	err := tx.QueryRowContext(ctx, "SELECT pg_try_advisory_xact_lock($1)", key).Scan(&acquired)
	if err != nil {
		if logger != nil {
			logger.Error("advisory lock query failed",
				zap.String("event_id", eventID), zap.Int64("lock_key", key), zap.Error(err))
		}
		return false, fmt.Errorf("acquire advisory lock for event %q: %w", eventID, err)
	}
	metrics.RecordAdvisoryLockWait(acquired, time.Since(start))

	if logger != nil {
		logger.Info("event advisory lock attempt",
			zap.String("event_id", eventID), zap.Int64("lock_key", key), zap.Bool("acquired", acquired))
	}

	if acquired && scoped {
		h.keys[key] = true
	}
	return acquired, nil
}

// RequireEventLock fails fast with schederr.ConcurrencyError if
// eventID's lock was never successfully acquired in this context. The
// services do not call it: Orchestrator and MatchService check
// AcquireEventLock's result themselves and return the same error.
func RequireEventLock(ctx context.Context, eventID string) error {
	h, ok := heldFrom(ctx)
	if !ok || !h.keys[KeyFor(eventID)] {
		return &schederr.ConcurrencyError{EventID: eventID}
	}
	return nil
}
