// Package api wires the scheduler's HTTP surface: the C5/C6 schedule
// endpoints, team/field logo uploads, the host notification websocket,
// Prometheus metrics, and the hand-maintained swagger UI.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/fieldhouse-sports/scheduler-core/docs"
	"github.com/fieldhouse-sports/scheduler-core/handlers"
	"github.com/fieldhouse-sports/scheduler-core/metrics"
	"github.com/fieldhouse-sports/scheduler-core/middleware"
)

// SetupRoutes mounts every handler this repo actually implements.
// Mutating scheduler operations (schedule generation/commit, match
// finalize, logo upload) require an authenticated caller; reading a
// schedule back is not yet a route this repo exposes (the spec names
// no read endpoint beyond what CommitSchedule itself returns).
func SetupRoutes(
	router *chi.Mux,
	scheduleHandler *handlers.ScheduleHandler,
	logoHandler *handlers.LogoHandler,
	notifyHandler *handlers.NotifyHandler,
	devTokenHandler *handlers.DevTokenHandler,
	debug bool,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Route("/events/{eventID}", func(r chi.Router) {
		r.Use(middleware.Authenticate)
		r.Post("/schedule", scheduleHandler.GenerateSchedule)

		r.Route("/matches/{matchID}", func(mr chi.Router) {
			mr.Patch("/", scheduleHandler.UpdateMatch)
			mr.Post("/finalize", scheduleHandler.FinalizeMatch)
		})
	})

	router.With(middleware.Authenticate).Post("/schedules/commit", scheduleHandler.CommitSchedule)

	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate)
		r.Post("/teams/{teamID}/logo", logoHandler.UploadTeamLogo)
		r.Post("/fields/{fieldID}/logo", logoHandler.UploadFieldLogo)
	})

	router.With(middleware.Authenticate).Get("/ws/hosts/{hostID}", notifyHandler.ServeWs)

	router.Get("/metrics", metrics.Handler().ServeHTTP)

	router.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))
	router.Get("/docs/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(docs.SwaggerJSON))
	})

	// Debug-only: mints a bearer token for local/staging use when no
	// external identity provider is in front of this service. Never
	// mounted when debug is false.
	if debug {
		router.Post("/dev/token", devTokenHandler.IssueToken)
	}
}
