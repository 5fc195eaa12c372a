package http

import (
	"log/slog"
	"net/http"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/repository"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/service"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/httputil"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/middleware"
)

// SystemHandler exposes the destructive maintenance endpoints.
type SystemHandler struct {
	service *service.SystemService
	logger  *slog.Logger
}

// NewSystemHandler creates a new system HTTP handler.
func NewSystemHandler(svc *service.SystemService, logger *slog.Logger) *SystemHandler {
	return &SystemHandler{service: svc, logger: logger}
}

// FactoryResetRequest re-confirms the caller's password.
type FactoryResetRequest struct {
	Password string `json:"password" validate:"required"`
}

// FactoryResetResponse reports how many rows were removed.
type FactoryResetResponse struct {
	Message string                 `json:"message"`
	Deleted repository.ResetCounts `json:"deleted"`
}

// FactoryReset handles POST /api/system/factory-reset
func (h *SystemHandler) FactoryReset(w http.ResponseWriter, r *http.Request) {
	var req FactoryResetRequest
	if err := decodeValid(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	counts, err := h.service.FactoryReset(r.Context(), middleware.UserIDFromContext(r.Context()), req.Password)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FactoryResetResponse{
		Message: "Store data has been reset",
		Deleted: counts,
	})
}

// Seed handles POST /api/seed. The router only mounts it outside production.
func (h *SystemHandler) Seed(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Seed(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, result)
}
