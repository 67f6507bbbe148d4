package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eshaffer321/storefront/internal/api/dto"
	"github.com/eshaffer321/storefront/internal/orders"
)

// OrdersHandler handles order history requests.
type OrdersHandler struct {
	*Base
	history *orders.History
}

// NewOrdersHandler creates a new orders handler.
func NewOrdersHandler(history *orders.History, logger *slog.Logger) *OrdersHandler {
	return &OrdersHandler{
		Base:    NewBase(logger),
		history: history,
	}
}

// List handles GET /api/v1/orders - returns a page of the order history,
// newest first.
func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	params := dto.DefaultOrderListParams()
	params.Limit = ParseIntParam(r, "limit", params.Limit)
	params.Offset = ParseIntParam(r, "offset", params.Offset)
	if err := dto.Validate(params); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError(err.Error()))
		return
	}

	all := h.history.List(r.Context())
	response := dto.OrderListResponse{
		Orders:     make([]dto.OrderResponse, 0, params.Limit),
		TotalCount: len(all),
		Limit:      params.Limit,
		Offset:     params.Offset,
	}

	// History is stored oldest first.
	for i := len(all) - 1 - params.Offset; i >= 0 && len(response.Orders) < params.Limit; i-- {
		response.Orders = append(response.Orders, dto.NewOrderResponse(all[i]))
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// Get handles GET /api/v1/orders/{id} - returns a single order by ID.
func (h *OrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("order ID is required"))
		return
	}

	order, err := h.history.Get(r.Context(), orderID)
	if errors.Is(err, orders.ErrNotFound) {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("order"))
		return
	}
	if err != nil {
		h.logger.Error("loading order failed", "order_id", orderID, "error", err)
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	h.WriteJSON(w, http.StatusOK, dto.NewOrderResponse(*order))
}
