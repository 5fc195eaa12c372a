package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/domain"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/repository"
	"github.com/awaisahmed1123/hadeedcart-backend/internal/service"
	apperrors "github.com/awaisahmed1123/hadeedcart-backend/pkg/errors"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/httputil"
	"github.com/awaisahmed1123/hadeedcart-backend/pkg/pagination"
)

// ProductHandler handles HTTP requests for product endpoints.
type ProductHandler struct {
	service        *service.ProductService
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.ProductService, maxUploadBytes int64, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service:        svc,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// ListProducts handles GET /api/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.ProductFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Vendor:   q.Get("vendor"),
		Status:   q.Get("status"),
		Params:   pagination.FromRequest(r),
	}
	if filter.Status != "" && !domain.IsValidProductStatus(domain.ProductStatus(filter.Status)) {
		httputil.WriteError(w, r, apperrors.Validation("status", "must be one of: Published Draft"), h.logger)
		return
	}
	if v := q.Get("inStock"); v != "" {
		inStock, err := strconv.ParseBool(v)
		if err != nil {
			httputil.WriteError(w, r, apperrors.Validation("inStock", "must be true or false"), h.logger)
			return
		}
		filter.InStock = &inStock
	}

	result, err := h.service.ListProducts(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

// GetProduct handles GET /api/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, detail)
}

// CreateProduct handles POST /api/products (multipart/form-data).
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	form, attachments, err := parseMultipart(w, r, h.maxUploadBytes)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	in, err := service.DecodeProductForm(form)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), in, attachments)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, product)
}

// UpdateProduct handles PUT /api/products/{id} (multipart/form-data).
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	form, attachments, err := parseMultipart(w, r, h.maxUploadBytes)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	in, err := service.DecodeProductForm(form)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), chi.URLParam(r, "id"), in, attachments)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, product)
}

// QuickEditProduct handles PATCH /api/products/quick-edit/{id}
func (h *ProductHandler) QuickEditProduct(w http.ResponseWriter, r *http.Request) {
	form, attachments, err := parseMultipart(w, r, h.maxUploadBytes)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	in, err := service.DecodeQuickEditForm(form)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	image, err := singleAttachment(attachments, service.FieldQuickEditImage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	product, err := h.service.QuickEdit(r.Context(), chi.URLParam(r, "id"), in, image)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /api/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Product deleted")
}

// ExportProducts handles GET /api/products/export/csv
func (h *ProductHandler) ExportProducts(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.service.ExportCSV(r.Context(), &buf); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	filename := fmt.Sprintf("products-%s.csv", time.Now().UTC().Format(time.DateOnly))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// ImportProducts handles POST /api/products/import (multipart field "file").
func (h *ProductHandler) ImportProducts(w http.ResponseWriter, r *http.Request) {
	_, attachments, err := parseMultipart(w, r, h.maxUploadBytes)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	file, err := singleAttachment(attachments, "file")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if file == nil {
		httputil.WriteError(w, r, apperrors.Validation("file", "is required"), h.logger)
		return
	}

	report, err := h.service.ImportCSV(r.Context(), bytes.NewReader(file.Data))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}
