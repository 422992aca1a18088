package handlers

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/fieldhouse-sports/scheduler-core/repositories"
	"github.com/fieldhouse-sports/scheduler-core/storage"
)

const maxLogoBytes = 5 << 20 // 5MB

// LogoHandler uploads team/field logos to the configured FileUploader
// and records the resulting public URL, the way the teacher's
// TeamHandler.UploadTeamLogo wires its own cloudflareR2Uploader.
type LogoHandler struct {
	uploader storage.FileUploader
	store    *repositories.PostgresStore
	logger   *zap.Logger
}

func NewLogoHandler(uploader storage.FileUploader, store *repositories.PostgresStore, logger *zap.Logger) *LogoHandler {
	return &LogoHandler{uploader: uploader, store: store, logger: logger}
}

// UploadTeamLogo handles POST /teams/{teamID}/logo (multipart form,
// field name "logo").
func (h *LogoHandler) UploadTeamLogo(w http.ResponseWriter, r *http.Request) {
	teamID := getURLParam(r, "teamID")
	h.upload(w, r, "teams/"+teamID, func(ctx context.Context, url string) error {
		return h.store.SetTeamLogoURL(ctx, teamID, url)
	})
}

// UploadFieldLogo handles POST /fields/{fieldID}/logo.
func (h *LogoHandler) UploadFieldLogo(w http.ResponseWriter, r *http.Request) {
	fieldID := getURLParam(r, "fieldID")
	h.upload(w, r, "fields/"+fieldID, func(ctx context.Context, url string) error {
		return h.store.SetFieldLogoURL(ctx, fieldID, url)
	})
}

func (h *LogoHandler) upload(w http.ResponseWriter, r *http.Request, key string, persist func(ctx context.Context, url string) error) {
	if err := r.ParseMultipartForm(maxLogoBytes); err != nil {
		badRequestResponse(w, fmt.Errorf("invalid multipart form: %w", err))
		return
	}

	file, header, err := r.FormFile("logo")
	if err != nil {
		badRequestResponse(w, fmt.Errorf("missing \"logo\" file field: %w", err))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	result, err := h.uploader.Upload(r.Context(), key, contentType, file)
	if err != nil {
		serverErrorResponse(w, h.logger, err)
		return
	}

	if err := persist(r.Context(), result.Location); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"url": result.Location}, nil); err != nil {
		serverErrorResponse(w, h.logger, err)
	}
}
