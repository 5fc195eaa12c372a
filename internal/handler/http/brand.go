package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/service"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/httputil"
)

// BrandHandler handles HTTP requests for brand endpoints.
type BrandHandler struct {
	service *service.BrandService
	logger  *slog.Logger
}

// NewBrandHandler creates a new brand HTTP handler.
func NewBrandHandler(svc *service.BrandService, logger *slog.Logger) *BrandHandler {
	return &BrandHandler{service: svc, logger: logger}
}

// BrandRequest is the JSON body of brand create and update.
type BrandRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// ListBrands handles GET /api/brands
func (h *BrandHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.service.ListBrands(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, brands)
}

// CreateBrand handles POST /api/brands
func (h *BrandHandler) CreateBrand(w http.ResponseWriter, r *http.Request) {
	var req BrandRequest
	if err := decodeValid(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	b, err := h.service.CreateBrand(r.Context(), req.Name)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, b)
}

// UpdateBrand handles PUT /api/brands/{id}
func (h *BrandHandler) UpdateBrand(w http.ResponseWriter, r *http.Request) {
	var req BrandRequest
	if err := decodeValid(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	b, err := h.service.UpdateBrand(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, b)
}

// DeleteBrand handles DELETE /api/brands/{id}
func (h *BrandHandler) DeleteBrand(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteBrand(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Brand deleted")
}
