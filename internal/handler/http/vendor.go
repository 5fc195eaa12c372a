package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/domain"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/service"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/httputil"
)

// VendorHandler handles HTTP requests for vendor endpoints.
type VendorHandler struct {
	service *service.VendorService
	logger  *slog.Logger
}

// NewVendorHandler creates a new vendor HTTP handler.
func NewVendorHandler(svc *service.VendorService, logger *slog.Logger) *VendorHandler {
	return &VendorHandler{service: svc, logger: logger}
}

// CreateVendorRequest is the JSON body of POST /api/vendors.
type CreateVendorRequest struct {
	Name            string `json:"name" validate:"required"`
	ShopName        string `json:"shopName" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"required"`
	Address         string `json:"address" validate:"required"`
	CNIC            string `json:"cnic"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
}

// StatusRequest is the JSON body of the status endpoints.
type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ListVendors handles GET /api/vendors
func (h *VendorHandler) ListVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.service.ListVendors(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, vendors)
}

// CreateVendor handles POST /api/vendors
func (h *VendorHandler) CreateVendor(w http.ResponseWriter, r *http.Request) {
	var req CreateVendorRequest
	if err := decodeValid(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	v, err := h.service.CreateVendor(r.Context(), service.CreateVendorInput{
		Name:     req.Name,
		ShopName: req.ShopName,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		CNIC:     req.CNIC,
		Password: req.Password,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, v)
}

// UpdateVendorStatus handles PUT /api/vendors/{id}/status
func (h *VendorHandler) UpdateVendorStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if err := decodeValid(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	v, err := h.service.UpdateVendorStatus(r.Context(), chi.URLParam(r, "id"), domain.VendorStatus(req.Status))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

// DeleteVendor handles DELETE /api/vendors/{id}
func (h *VendorHandler) DeleteVendor(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteVendor(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Vendor deleted")
}
