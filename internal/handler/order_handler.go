package handler

import (
	"encoding/json"
	"net/http"

	"weblarek/internal/model"
	"weblarek/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxOrderBody bounds the size of an order request body.
const maxOrderBody = 1 << 20

// OrderHandler handles order HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /api/weblarek/order and answers {id, total}.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var order model.Order
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxOrderBody)).Decode(&order); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	result, err := h.service.PlaceOrder(r.Context(), order)
	if err != nil {
		writeDomainError(w, err, "failed to create order", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// GetByID handles GET /api/weblarek/order/{id}.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid order ID format", h.logger)
		return
	}

	order, err := h.service.GetByID(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, err, "failed to retrieve order", h.logger)
		return
	}

	if order == nil {
		writeError(w, http.StatusNotFound, model.ErrCodeNotFound, "order not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}
