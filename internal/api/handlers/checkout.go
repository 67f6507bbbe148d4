package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/eshaffer321/storefront/internal/api/dto"
	"github.com/eshaffer321/storefront/internal/checkout"
)

// CheckoutHandler validates checkout forms. Payment itself never goes
// through the bridge; the hosted SDK widgets talk to their providers.
type CheckoutHandler struct {
	*Base
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{Base: NewBase(logger)}
}

// Validate handles POST /api/v1/checkout/validate. An invalid form is a 422
// carrying the first failing field and its message.
func (h *CheckoutHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var form checkout.Form
	if !h.DecodeJSON(w, r, &form) {
		return
	}

	err := checkout.ValidateForm(form)
	if err == nil {
		h.WriteJSON(w, http.StatusOK, dto.ValidateResponse{Valid: true})
		return
	}

	var verr *checkout.ValidationError
	if !errors.As(err, &verr) {
		h.logger.Error("form validation failed unexpectedly", "error", err)
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	h.WriteJSON(w, http.StatusUnprocessableEntity, dto.ValidateResponse{
		Valid:   false,
		Field:   verr.Field,
		Message: verr.Message,
	})
}
