package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/domain"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/service"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/httputil"
)

// BannerHandler handles HTTP requests for storefront banners.
type BannerHandler struct {
	service        *service.BannerService
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewBannerHandler creates a new banner HTTP handler.
func NewBannerHandler(svc *service.BannerService, maxUploadBytes int64, logger *slog.Logger) *BannerHandler {
	return &BannerHandler{
		service:        svc,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// ListBanners handles GET /api/banners
func (h *BannerHandler) ListBanners(w http.ResponseWriter, r *http.Request) {
	banners, err := h.service.ListActiveBanners(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, banners)
}

// CreateBanner handles POST /api/banners (multipart fields type, link, image).
func (h *BannerHandler) CreateBanner(w http.ResponseWriter, r *http.Request) {
	form, attachments, err := parseMultipart(w, r, h.maxUploadBytes)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	image, err := singleAttachment(attachments, "image")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	banner, err := h.service.CreateBanner(r.Context(), service.CreateBannerInput{
		Type:  domain.BannerType(form.Get("type")),
		Link:  form.Get("link"),
		Image: image,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, banner)
}

// DeleteBanner handles DELETE /api/banners/{id}
func (h *BannerHandler) DeleteBanner(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteBanner(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Banner deleted")
}
