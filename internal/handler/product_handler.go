package handler

import (
	"errors"
	"net/http"

	"weblarek/internal/model"
	"weblarek/internal/service"

	"github.com/rs/zerolog"
)

// ProductHandler handles catalogue HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// GetAll handles GET /api/weblarek/product/ and returns {total, items}.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.service.GetAll(r.Context())
	if err != nil {
		writeDomainError(w, err, "failed to retrieve products", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, catalog)
}

// GetByID handles GET /api/weblarek/product/{id}.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("id")

	product, err := h.service.GetByID(r.Context(), productID)
	if errors.Is(err, model.ErrProductNotFound) {
		writeError(w, http.StatusNotFound, model.ErrCodeNotFound, "product not found", h.logger)
		return
	}
	if err != nil {
		writeDomainError(w, err, "failed to retrieve product", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}
