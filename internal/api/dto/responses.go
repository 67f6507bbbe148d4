package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/storefront/internal/cart"
	"github.com/eshaffer321/storefront/internal/domain/pricing"
	"github.com/eshaffer321/storefront/internal/orders"
)

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Uptime    string `json:"uptime"`
	CartCount *int   `json:"cartCount,omitempty"`
}

// NewHealthResponse stamps the current time and the server uptime.
func NewHealthResponse(uptime time.Duration) HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    uptime.Truncate(time.Second).String(),
	}
}

// ItemResponse is a cart line. Money fields are fixed two-decimal strings.
type ItemResponse struct {
	Key       string `json:"key"`
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Price     string `json:"price"`
	Image     string `json:"image,omitempty"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	LineTotal string `json:"line_total"`
}

// TotalsResponse is a totals breakdown.
type TotalsResponse struct {
	ShippingMethod string `json:"shipping_method,omitempty"`
	Subtotal       string `json:"subtotal"`
	Shipping       string `json:"shipping"`
	Tax            string `json:"tax"`
	Total          string `json:"total"`
}

// CartResponse is returned by GET /api/v1/cart.
type CartResponse struct {
	Items  []ItemResponse `json:"items"`
	Count  int            `json:"count"`
	Totals TotalsResponse `json:"totals"`
}

// QuoteResponse is one shipping estimate line.
type QuoteResponse struct {
	Method    string `json:"method"`
	Name      string `json:"name"`
	Cost      string `json:"cost"`
	Label     string `json:"label"`
	Delivery  string `json:"delivery"`
	Available bool   `json:"available"`
}

// EstimateResponse is returned by GET /api/v1/shipping/estimate.
type EstimateResponse struct {
	Country       string          `json:"country"`
	CountryName   string          `json:"country_name"`
	International bool            `json:"international"`
	Quotes        []QuoteResponse `json:"quotes"`
}

// PromoResponse is returned by GET /api/v1/promo/{code}.
type PromoResponse struct {
	Code    string `json:"code"`
	Valid   bool   `json:"valid"`
	Percent int    `json:"percent,omitempty"`
}

// ValidateResponse is returned by POST /api/v1/checkout/validate.
type ValidateResponse struct {
	Valid   bool   `json:"valid"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message,omitempty"`
}

// OrderResponse represents an order in API responses.
type OrderResponse struct {
	OrderID        string         `json:"order_id"`
	Date           string         `json:"date"`
	Email          string         `json:"email"`
	Name           string         `json:"name"`
	PaymentMethod  string         `json:"payment_method"`
	TransactionID  string         `json:"transaction_id"`
	ShippingMethod string         `json:"shipping_method"`
	Totals         TotalsResponse `json:"totals"`
	ItemCount      int            `json:"item_count"`
	Items          []ItemResponse `json:"items,omitempty"`
}

// OrderListResponse is returned when listing orders.
type OrderListResponse struct {
	Orders     []OrderResponse `json:"orders"`
	TotalCount int             `json:"total_count"`
	Limit      int             `json:"limit"`
	Offset     int             `json:"offset"`
}

// NewItemResponse converts a cart line. A line with an unparseable price
// reports a zero line total.
func NewItemResponse(it cart.Item) ItemResponse {
	line := "0.00"
	if p, err := pricing.ParsePrice(it.Price); err == nil {
		line = pricing.Fixed(p.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return ItemResponse{
		Key:       it.Key,
		ID:        it.ID,
		Title:     it.Title,
		Price:     it.Price,
		Image:     it.Image,
		Quantity:  it.Quantity,
		Size:      it.Size,
		Color:     it.Color,
		LineTotal: line,
	}
}

// NewItemResponses converts a cart, never returning nil.
func NewItemResponses(items []cart.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, NewItemResponse(it))
	}
	return out
}

// NewTotalsResponse renders totals with two decimals.
func NewTotalsResponse(t pricing.Totals, method pricing.Method) TotalsResponse {
	sub, ship, tax, total := t.Strings()
	return TotalsResponse{
		ShippingMethod: string(method),
		Subtotal:       sub,
		Shipping:       ship,
		Tax:            tax,
		Total:          total,
	}
}

// NewQuoteResponse converts an estimator quote.
func NewQuoteResponse(q pricing.Quote) QuoteResponse {
	return QuoteResponse{
		Method:    string(q.Method),
		Name:      q.MethodName,
		Cost:      pricing.Fixed(q.Cost),
		Label:     q.CostLabel(),
		Delivery:  q.Delivery,
		Available: q.Available,
	}
}

// NewOrderResponse converts a stored order.
func NewOrderResponse(o orders.Order) OrderResponse {
	return OrderResponse{
		OrderID:        o.OrderID,
		Date:           o.Date.UTC().Format(time.RFC3339),
		Email:          o.Customer.Email,
		Name:           o.Customer.FirstName + " " + o.Customer.LastName,
		PaymentMethod:  o.Payment.Method.DisplayName(),
		TransactionID:  o.Payment.TransactionID,
		ShippingMethod: string(o.Shipping.Method),
		Totals: TotalsResponse{
			ShippingMethod: string(o.Shipping.Method),
			Subtotal:       pricing.Fixed(o.Payment.Subtotal),
			Shipping:       pricing.Fixed(o.Payment.Shipping),
			Tax:            pricing.Fixed(o.Payment.Tax),
			Total:          pricing.Fixed(o.Payment.Amount),
		},
		ItemCount: o.ItemCount(),
		Items:     NewItemResponses(o.Items),
	}
}
