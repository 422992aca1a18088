package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/fieldhouse-sports/scheduler-core/middleware"
	"github.com/fieldhouse-sports/scheduler-core/models"
	"github.com/fieldhouse-sports/scheduler-core/services"
	"github.com/fieldhouse-sports/scheduler-core/workerpool"
)

// ScheduleHandler exposes C5/C6's orchestrator and match service over
// HTTP, the way the teacher's TournamentHandler wraps TournamentService.
// GenerateSchedule, CommitSchedule and FinalizeMatch are routed through
// pool so that a burst of them across many events is bounded by §5's
// "ambient scheduler with parallel worker execution" rather than
// opening one goroutine and one Postgres transaction per request;
// UpdateMatch calls the match service directly.
type ScheduleHandler struct {
	orchestrator *services.Orchestrator
	matches      *services.MatchService
	pool         *workerpool.Pool
	logger       *zap.Logger
}

func NewScheduleHandler(orchestrator *services.Orchestrator, matches *services.MatchService, pool *workerpool.Pool, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{orchestrator: orchestrator, matches: matches, pool: pool, logger: logger}
}

// GenerateSchedule handles POST /events/{eventID}/schedule: it runs
// scheduleEvent and returns the generated preview for the caller to
// review before committing it.
func (h *ScheduleHandler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	eventID := getURLParam(r, "eventID")

	var preview services.SchedulePreview
	err := h.pool.SubmitSync(r.Context(), "scheduleEvent:"+eventID, func(ctx context.Context) error {
		var err error
		preview, err = h.orchestrator.ScheduleEvent(ctx, eventID)
		return err
	})
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"preview": preview}, nil); err != nil {
		serverErrorResponse(w, h.logger, err)
	}
}

type commitScheduleInput struct {
	Token string `json:"token" validate:"required"`
}

// CommitSchedule handles POST /schedules/commit: it persists a
// previously generated preview by token.
func (h *ScheduleHandler) CommitSchedule(w http.ResponseWriter, r *http.Request) {
	var input commitScheduleInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	var event *models.Event
	var matches []models.Match
	err := h.pool.SubmitSync(r.Context(), "commitSchedule:"+input.Token, func(ctx context.Context) error {
		var err error
		event, matches, err = h.orchestrator.CommitSchedule(ctx, input.Token)
		return err
	})
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"event": event, "matches": matches}, nil); err != nil {
		serverErrorResponse(w, h.logger, err)
	}
}

// matchUpdateRequest is the wire shape of a PATCH
// /events/{eventID}/matches/{matchID} body, mapped onto
// services.MatchUpdateInput field by field so the HTTP layer never
// exposes the domain struct directly.
type matchUpdateRequest struct {
	Team1         *teamRefDTO `json:"team1,omitempty"`
	Team2         *teamRefDTO `json:"team2,omitempty"`
	RefereeUserID *string     `json:"refereeUserId,omitempty"`
	TeamRefereeID *string     `json:"teamRefereeId,omitempty"`
	FieldID       *string     `json:"fieldId,omitempty"`
	Start         *time.Time  `json:"start,omitempty"`
	End           *time.Time  `json:"end,omitempty"`

	Team1Points *[]int `json:"team1Points,omitempty"`
	Team2Points *[]int `json:"team2Points,omitempty"`
	SetResults  *[]int `json:"setResults,omitempty"`

	WinnerNextMatchID *int `json:"winnerNextMatchId,omitempty"`
	LoserNextMatchID  *int `json:"loserNextMatchId,omitempty"`
	PreviousLeftID    *int `json:"previousLeftId,omitempty"`
	PreviousRightID   *int `json:"previousRightId,omitempty"`

	Locked           *bool `json:"locked,omitempty"`
	RefereeCheckedIn *bool `json:"refereeCheckedIn,omitempty"`
}

type teamRefDTO struct {
	Kind          models.RefKind `json:"kind"`
	TeamID        string         `json:"teamId,omitempty"`
	FeederMatchID int            `json:"feederMatchId,omitempty"`
	FeederSlot    models.RefSlot `json:"feederSlot,omitempty"`
}

func (dto *teamRefDTO) toModel() *models.TeamRef {
	if dto == nil {
		return nil
	}
	ref := models.TeamRef{Kind: dto.Kind, TeamID: dto.TeamID, FeederMatchID: dto.FeederMatchID, FeederSlot: dto.FeederSlot}
	return &ref
}

func (req matchUpdateRequest) toServiceInput() services.MatchUpdateInput {
	return services.MatchUpdateInput{
		Team1:             req.Team1.toModel(),
		Team2:             req.Team2.toModel(),
		RefereeUserID:     req.RefereeUserID,
		TeamRefereeID:     req.TeamRefereeID,
		FieldID:           req.FieldID,
		Start:             req.Start,
		End:               req.End,
		Team1Points:       req.Team1Points,
		Team2Points:       req.Team2Points,
		SetResults:        req.SetResults,
		WinnerNextMatchID: req.WinnerNextMatchID,
		LoserNextMatchID:  req.LoserNextMatchID,
		PreviousLeftID:    req.PreviousLeftID,
		PreviousRightID:   req.PreviousRightID,
		Locked:            req.Locked,
		RefereeCheckedIn:  req.RefereeCheckedIn,
	}
}

// UpdateMatch handles PATCH /events/{eventID}/matches/{matchID}.
// Whether the caller may edit a locked match is decided by
// middleware.IsHostOrAdmin (§4.6 "unless caller is host or admin").
func (h *ScheduleHandler) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	eventID := getURLParam(r, "eventID")
	matchID, err := getIntURLParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var req matchUpdateRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}

	match, err := h.matches.UpdateMatch(r.Context(), eventID, matchID, req.toServiceInput(), middleware.IsHostOrAdmin(r.Context()))
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, h.logger, err)
	}
}

// FinalizeMatch handles POST /events/{eventID}/matches/{matchID}/finalize.
func (h *ScheduleHandler) FinalizeMatch(w http.ResponseWriter, r *http.Request) {
	eventID := getURLParam(r, "eventID")
	matchID, err := getIntURLParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var event *models.Event
	err = h.pool.SubmitSync(r.Context(), "finalizeMatch:"+eventID, func(ctx context.Context) error {
		var err error
		event, err = h.matches.FinalizeMatch(ctx, eventID, matchID, time.Now())
		return err
	})
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"event": event}, nil); err != nil {
		serverErrorResponse(w, h.logger, err)
	}
}
