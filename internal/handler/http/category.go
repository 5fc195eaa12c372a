package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/domain"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/service"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/httputil"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/validator"
)

// CategoryHandler handles HTTP requests for category endpoints.
type CategoryHandler struct {
	service *service.CategoryService
	logger  *slog.Logger
}

// NewCategoryHandler creates a new category HTTP handler.
func NewCategoryHandler(svc *service.CategoryService, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{service: svc, logger: logger}
}

// CategoryRequest is the JSON body of category create and update.
type CategoryRequest struct {
	Name   string        `json:"name" validate:"required,max=200"`
	Parent *string       `json:"parent"`
	Image  *domain.Image `json:"image"`
}

func (req *CategoryRequest) input() service.CategoryInput {
	return service.CategoryInput{Name: req.Name, Parent: req.Parent, Image: req.Image}
}

// ListCategories handles GET /api/categories
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, categories)
}

// CreateCategory handles POST /api/categories
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := decodeValid(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	c, err := h.service.CreateCategory(r.Context(), req.input())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, c)
}

// UpdateCategory handles PUT /api/categories/{id}
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := decodeValid(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	c, err := h.service.UpdateCategory(r.Context(), chi.URLParam(r, "id"), req.input())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

// DeleteCategory handles DELETE /api/categories/{id}
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Category deleted")
}

// decodeValid decodes the JSON body into v and runs its validate tags.
func decodeValid(r *http.Request, v any) error {
	if err := httputil.DecodeJSON(r, v); err != nil {
		return err
	}
	return validator.Validate(v)
}
