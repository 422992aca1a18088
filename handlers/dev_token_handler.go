package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/fieldhouse-sports/scheduler-core/utils"
)

// DevTokenHandler issues bearer tokens for local/staging use, the way
// an operator running this service in front of an as-yet-unwired
// external identity provider still needs a way to obtain a caller
// identity middleware.Authenticate will accept. routes.SetupRoutes
// only mounts it when cfg.Debug is set — it must never be reachable
// in production, since it hands out a token for any role the caller
// asks for.
type DevTokenHandler struct {
	logger *zap.Logger
}

func NewDevTokenHandler(logger *zap.Logger) *DevTokenHandler {
	return &DevTokenHandler{logger: logger}
}

type devTokenRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// IssueToken handles POST /dev/token (debug builds only).
func (h *DevTokenHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req devTokenRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}
	if req.UserID == "" || req.Role == "" {
		badRequestResponse(w, errors.New("userId and role are both required"))
		return
	}

	token, err := utils.GenerateJWT(req.UserID, req.Role)
	if err != nil {
		serverErrorResponse(w, h.logger, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"token": token}, nil); err != nil {
		serverErrorResponse(w, h.logger, err)
	}
}
