// Package docs holds the scheduler's hand-maintained OpenAPI document,
// served by routes.SetupRoutes alongside swaggo/http-swagger's UI.
package docs

// SwaggerJSON is the scheduler's OpenAPI 2.0 document. It documents the
// thin HTTP surface over C5/C6 (schedule generation, commit, match
// update/finalize); it is maintained by hand rather than generated by
// swag, since the handlers below them carry the business logic this
// repo exists to implement.
const SwaggerJSON = `{
  "swagger": "2.0",
  "info": {
    "title": "Fieldhouse Scheduler Core API",
    "version": "1.0"
  },
  "paths": {
    "/events/{eventID}/schedule": {
      "post": {
        "summary": "Generate a schedule preview for an event",
        "responses": {"200": {"description": "schedule preview"}}
      }
    },
    "/schedules/commit": {
      "post": {
        "summary": "Commit a previously generated schedule preview",
        "responses": {"200": {"description": "committed event and matches"}}
      }
    },
    "/events/{eventID}/matches/{matchID}": {
      "patch": {
        "summary": "Apply manual edits to a match",
        "responses": {"200": {"description": "updated match"}}
      }
    },
    "/events/{eventID}/matches/{matchID}/finalize": {
      "post": {
        "summary": "Finalize a match's result",
        "responses": {"200": {"description": "updated event"}}
      }
    }
  }
}`
