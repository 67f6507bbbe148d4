package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/eshaffer321/storefront/internal/api/dto"
	"github.com/eshaffer321/storefront/internal/cart"
)

// HealthHandler reports liveness and, when a cart store is wired, the
// header badge count so a page shell can restore it on load.
type HealthHandler struct {
	carts   *cart.Store
	started time.Time
}

// NewHealthHandler creates a health handler. carts may be nil.
func NewHealthHandler(carts *cart.Store) *HealthHandler {
	return &HealthHandler{carts: carts, started: time.Now()}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := dto.NewHealthResponse(time.Since(h.started))
	if h.carts != nil {
		n := h.carts.Count(r.Context())
		response.CartCount = &n
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}
