package http

import (
	"log/slog"
	"net/http"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/service"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/httputil"
)

// MediaHandler exposes the merged media library.
type MediaHandler struct {
	service *service.MediaService
	logger  *slog.Logger
}

// NewMediaHandler creates a new media HTTP handler.
func NewMediaHandler(svc *service.MediaService, logger *slog.Logger) *MediaHandler {
	return &MediaHandler{service: svc, logger: logger}
}

// DeleteMediaRequest names the asset to remove. Older clients send public_id.
type DeleteMediaRequest struct {
	AssetID  string `json:"assetId"`
	PublicID string `json:"public_id"`
}

// ListMedia handles GET /api/media
func (h *MediaHandler) ListMedia(w http.ResponseWriter, r *http.Request) {
	assets, err := h.service.ListAssets(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, assets)
}

// DeleteMedia handles DELETE /api/media
func (h *MediaHandler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	var req DeleteMediaRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	id := req.AssetID
	if id == "" {
		id = req.PublicID
	}
	if err := h.service.DeleteAsset(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Media deleted")
}
