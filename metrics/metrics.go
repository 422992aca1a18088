// Package metrics exposes the scheduler's own operational counters and
// histograms over github.com/prometheus/client_golang, grounded on
// replay-api's pkg/infra/metrics/prometheus.go (promauto-registered
// vars plus small Record* wrapper functions and a promhttp.Handler for
// the metrics endpoint) and riskibarqy/fantasy-league's DB-operation
// histogram convention — scoped down from that file's whole-platform
// metric set to a handful: schedule generations, placement failures,
// advisory-lock wait time, finalize outcomes, and auto-reschedule
// outcomes.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ScheduleGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduler_schedule_generations_total",
			Help: "Total scheduleEvent invocations, by outcome",
		},
		[]string{"kind", "outcome"},
	)

	ScheduleGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scheduler_schedule_generation_seconds",
			Help:    "Wall-clock time to generate+place one event's schedule",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"kind"},
	)

	PlacementFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduler_placement_failures_total",
			Help: "Total placement failures, by reason (infeasible, window_exceeded)",
		},
		[]string{"reason"},
	)

	AdvisoryLockWaitDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scheduler_advisory_lock_wait_seconds",
			Help:    "Time spent attempting to acquire an event's advisory lock",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"outcome"},
	)

	FinalizeMatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduler_finalize_matches_total",
			Help: "Total finalizeMatch invocations, by outcome",
		},
		[]string{"outcome"},
	)

	AutoReschedulesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduler_auto_reschedules_total",
			Help: "Total finalizeMatch auto-reschedule passes, by outcome",
		},
		[]string{"outcome"},
	)
)

// RecordScheduleGeneration records one scheduleEvent call's outcome and
// duration.
func RecordScheduleGeneration(kind, outcome string, duration time.Duration) {
	ScheduleGenerationsTotal.WithLabelValues(kind, outcome).Inc()
	ScheduleGenerationDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordPlacementFailure records a placement failure by reason
// ("infeasible" for schederr.InfeasibleError, "window_exceeded" for
// schederr.WindowExceededError).
func RecordPlacementFailure(reason string) {
	PlacementFailuresTotal.WithLabelValues(reason).Inc()
}

// RecordAdvisoryLockWait records the time spent attempting to acquire
// an event's advisory lock and whether it succeeded.
func RecordAdvisoryLockWait(acquired bool, duration time.Duration) {
	outcome := "acquired"
	if !acquired {
		outcome = "contended"
	}
	AdvisoryLockWaitDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordFinalizeMatch records one finalizeMatch call's outcome.
func RecordFinalizeMatch(outcome string) {
	FinalizeMatchesTotal.WithLabelValues(outcome).Inc()
}

// RecordAutoReschedule records the outcome of finalizeMatch's
// auto-reschedule pass ("ok" or "window_exceeded").
func RecordAutoReschedule(outcome string) {
	AutoReschedulesTotal.WithLabelValues(outcome).Inc()
}

// Handler exposes the registered metrics for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}
