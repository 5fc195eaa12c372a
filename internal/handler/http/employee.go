package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/domain"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/service"
	apperrors "github.com/awaisahmed1123/hadeedcart-backend/pkg/errors"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/httputil"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/middleware"
)

// EmployeeHandler handles sign-in and employee management.
type EmployeeHandler struct {
	service *service.EmployeeService
	logger  *slog.Logger
}

// NewEmployeeHandler creates a new employee HTTP handler.
func NewEmployeeHandler(svc *service.EmployeeService, logger *slog.Logger) *EmployeeHandler {
	return &EmployeeHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// LoginRequest is the JSON body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the signed token and the signed-in employee.
type LoginResponse struct {
	Token    string           `json:"token"`
	Employee *domain.Employee `json:"employee"`
}

// CreateEmployeeRequest is the JSON body of POST /api/employees.
type CreateEmployeeRequest struct {
	Name        string   `json:"name" validate:"required"`
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password" validate:"required,min=6"`
	Permissions []string `json:"permissions" validate:"required,min=1"`
	Role        string   `json:"role" validate:"omitempty,oneof=Admin Employee"`
}

// UpdateProfileRequest is the JSON body of PUT /api/employees/profile.
type UpdateProfileRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest is the JSON body of PUT /api/employees/change-password.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// --- Handlers ---

// Login handles POST /api/auth/login
func (h *EmployeeHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeValid(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	token, e, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, LoginResponse{Token: token, Employee: e})
}

// ListEmployees handles GET /api/employees
func (h *EmployeeHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.service.ListEmployees(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, employees)
}

// CreateEmployee handles POST /api/employees
func (h *EmployeeHandler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := decodeValid(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	perms := make([]domain.Permission, len(req.Permissions))
	for i, p := range req.Permissions {
		perms[i] = domain.Permission(p)
	}
	e, err := h.service.CreateEmployee(r.Context(), service.CreateEmployeeInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Permissions: perms,
		Role:        domain.Role(req.Role),
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, e)
}

// UpdateProfile handles PUT /api/employees/profile for the signed-in employee.
func (h *EmployeeHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := decodeValid(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	e, err := h.service.UpdateProfile(r.Context(), middleware.UserIDFromContext(r.Context()), service.UpdateProfileInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, e)
}

// ChangePassword handles PUT /api/employees/change-password
func (h *EmployeeHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := decodeValid(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	err := h.service.ChangePassword(r.Context(), middleware.UserIDFromContext(r.Context()), req.OldPassword, req.NewPassword)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Password changed")
}

// SetEmployeeStatus handles PUT /api/employees/{id}/status
func (h *EmployeeHandler) SetEmployeeStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if err := decodeValid(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	id := chi.URLParam(r, "id")
	if id == middleware.UserIDFromContext(r.Context()) && req.Status == string(domain.EmployeeStatusSuspended) {
		httputil.WriteError(w, r, apperrors.InvalidInput("you cannot suspend yourself"), h.logger)
		return
	}

	e, err := h.service.SetStatus(r.Context(), id, domain.EmployeeStatus(req.Status))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, e)
}

// DeleteEmployee handles DELETE /api/employees/{id}
func (h *EmployeeHandler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == middleware.UserIDFromContext(r.Context()) {
		httputil.WriteError(w, r, apperrors.InvalidInput("you cannot delete yourself"), h.logger)
		return
	}
	if err := h.service.DeleteEmployee(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Employee deleted")
}
