package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/eshaffer321/storefront/internal/api/dto"
	"github.com/eshaffer321/storefront/internal/domain/pricing"
)

// PricingHandler serves the shipping estimator and promo code checks.
type PricingHandler struct {
	*Base
}

// NewPricingHandler creates a new pricing handler.
func NewPricingHandler(logger *slog.Logger) *PricingHandler {
	return &PricingHandler{Base: NewBase(logger)}
}

// Estimate handles GET /api/v1/shipping/estimate?country=&total=&method=.
// Without method every method is quoted.
func (h *PricingHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	country := q.Get("country")
	if country == "" {
		h.WriteError(w, http.StatusBadRequest, dto.FieldError("country", "country is required"))
		return
	}

	total := decimal.Zero
	if raw := q.Get("total"); raw != "" {
		d, err := pricing.ParsePrice(raw)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, dto.FieldError("total", err.Error()))
			return
		}
		total = d
	}

	var quotes []pricing.Quote
	if raw := q.Get("method"); raw != "" {
		m, ok := pricing.ParseMethod(raw)
		if !ok {
			h.WriteError(w, http.StatusBadRequest, dto.FieldError("method", "unknown shipping method "+raw))
			return
		}
		quote, ok := pricing.Estimate(country, m, total)
		if ok {
			quotes = []pricing.Quote{quote}
		}
	} else {
		quotes, _ = pricing.EstimateAll(country, total)
	}
	if len(quotes) == 0 {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("country "+country))
		return
	}

	resp := dto.EstimateResponse{
		Country:       quotes[0].Country,
		CountryName:   quotes[0].CountryName,
		International: quotes[0].International,
		Quotes:        make([]dto.QuoteResponse, 0, len(quotes)),
	}
	for _, quote := range quotes {
		resp.Quotes = append(resp.Quotes, dto.NewQuoteResponse(quote))
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// Promo handles GET /api/v1/promo/{code}. Unknown codes are a 200 with
// valid=false; the code is never applied to totals.
func (h *PricingHandler) Promo(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	promo, ok := pricing.LookupPromo(code)
	if !ok {
		h.WriteJSON(w, http.StatusOK, dto.PromoResponse{Code: code, Valid: false})
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.PromoResponse{Code: promo.Code, Valid: true, Percent: promo.Percent})
}
