package http

import (
	"log/slog"
	"net/http"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/service"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/httputil"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/pagination"
)

// CustomerHandler handles storefront sign-up and the admin customer list.
type CustomerHandler struct {
	service *service.CustomerService
	logger  *slog.Logger
}

// NewCustomerHandler creates a new customer HTTP handler.
func NewCustomerHandler(svc *service.CustomerService, logger *slog.Logger) *CustomerHandler {
	return &CustomerHandler{service: svc, logger: logger}
}

// RegisterRequest is the JSON body of POST /api/users/register.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// Register handles POST /api/users/register
func (h *CustomerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeValid(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	c, err := h.service.Register(r.Context(), service.RegisterCustomerInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, c)
}

// ListCustomers handles GET /api/users
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListCustomers(r.Context(), pagination.FromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}
