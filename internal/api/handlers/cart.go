package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eshaffer321/storefront/internal/api/dto"
	"github.com/eshaffer321/storefront/internal/cart"
	"github.com/eshaffer321/storefront/internal/domain/pricing"
)

// CartHandler exposes the Cart Store.
type CartHandler struct {
	*Base
	carts *cart.Store
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(carts *cart.Store, logger *slog.Logger) *CartHandler {
	return &CartHandler{Base: NewBase(logger), carts: carts}
}

// Get handles GET /api/v1/cart - items, badge count and cart-page totals.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	items := h.carts.GetCart(r.Context())
	totals, err := pricing.ComputeCartSummary(cart.ToLines(items))
	if err != nil {
		h.logger.Error("pricing cart failed", "error", err)
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.CartResponse{
		Items:  dto.NewItemResponses(items),
		Count:  cart.CountItems(items),
		Totals: dto.NewTotalsResponse(totals, ""),
	})
}

// AddItem handles POST /api/v1/cart/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req dto.AddItemRequest
	if !h.Bind(w, r, &req) {
		return
	}

	item, err := h.carts.AddItem(r.Context(), cart.Candidate{
		Title: req.Title,
		Price: req.Price,
		Image: req.Image,
		Size:  req.Size,
		Color: req.Color,
	})
	if err != nil {
		h.writeCartError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, dto.NewItemResponse(item))
}

// UpdateQuantity handles PATCH /api/v1/cart/items/{key}.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateQuantityRequest
	if !h.Bind(w, r, &req) {
		return
	}

	item, err := h.carts.UpdateQuantityByKey(r.Context(), chi.URLParam(r, "key"), *req.Quantity)
	if err != nil {
		h.writeCartError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.NewItemResponse(item))
}

// RemoveItem handles DELETE /api/v1/cart/items/{key}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.carts.RemoveItemByKey(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		h.writeCartError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.NewItemResponse(item))
}

// Clear handles DELETE /api/v1/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if !h.carts.Clear(r.Context()) {
		h.writeCartError(w, cart.ErrNotSaved)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Totals handles GET /api/v1/cart/totals?shipping= using the checkout
// shipping schedule. An empty method means standard.
func (h *CartHandler) Totals(w http.ResponseWriter, r *http.Request) {
	method := pricing.Standard
	if raw := r.URL.Query().Get("shipping"); raw != "" {
		m, ok := pricing.ParseMethod(raw)
		if !ok {
			h.WriteError(w, http.StatusBadRequest, dto.ValidationError("unknown shipping method "+raw))
			return
		}
		method = m
	}

	totals, err := pricing.Compute(h.carts.Lines(r.Context()), method)
	if err != nil {
		h.logger.Error("pricing cart failed", "error", err)
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.NewTotalsResponse(totals, method))
}

func (h *CartHandler) writeCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrItemNotFound), errors.Is(err, cart.ErrIndexOutOfRange):
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("cart item"))
	case errors.Is(err, pricing.ErrInvalidPrice):
		h.WriteError(w, http.StatusBadRequest, dto.FieldError("price", err.Error()))
	case errors.Is(err, cart.ErrInvalidItem):
		h.WriteError(w, http.StatusBadRequest, dto.FieldError("title", err.Error()))
	case errors.Is(err, cart.ErrNotSaved):
		h.WriteError(w, http.StatusUnprocessableEntity, dto.UnprocessableError(err.Error()))
	default:
		h.logger.Error("cart operation failed", "error", err)
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
	}
}
