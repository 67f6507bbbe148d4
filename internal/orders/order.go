// Package orders holds the Order record created when a payment succeeds and
// the append-only Order History it is written to.
package orders

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/storefront/internal/cart"
	"github.com/eshaffer321/storefront/internal/domain/pricing"
)

// PaymentMethod identifies the path an order was paid through.
type PaymentMethod string

const (
	PaymentCard   PaymentMethod = "stripe"
	PaymentWallet PaymentMethod = "paypal"
)

// DisplayName is the label shown in the confirmation summary.
func (m PaymentMethod) DisplayName() string {
	switch m {
	case PaymentWallet:
		return "PayPal"
	case PaymentCard:
		return "Credit Card"
	}
	return string(m)
}

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCard || m == PaymentWallet
}

// Order is immutable once created.
type Order struct {
	OrderID  string      `json:"orderId"`
	Customer Customer    `json:"customer"`
	Shipping Shipping    `json:"shipping"`
	Payment  Payment     `json:"payment"`
	Items    []cart.Item `json:"items"`
	Date     time.Time   `json:"date"`
}

// Customer is the contact part of the checkout form.
type Customer struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

// Shipping is the delivery part of the checkout form.
type Shipping struct {
	Address   string         `json:"address"`
	Apartment string         `json:"apartment"`
	City      string         `json:"city"`
	State     string         `json:"state"`
	ZipCode   string         `json:"zipCode"`
	Country   string         `json:"country"`
	Method    pricing.Method `json:"method"`
}

// Payment records the outcome reported by the payment provider.
type Payment struct {
	Method        PaymentMethod   `json:"method"`
	TransactionID string          `json:"transactionId"`
	Amount        decimal.Decimal `json:"amount"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Shipping      decimal.Decimal `json:"shipping"`
	Tax           decimal.Decimal `json:"tax"`

	// Details is the raw provider payload, if any (the wallet capture response).
	Details json.RawMessage `json:"details,omitempty"`
}

// NewOrderID returns "NS-" followed by t in unix milliseconds.
func NewOrderID(t time.Time) string {
	return fmt.Sprintf("NS-%d", t.UnixMilli())
}

// Total is the amount charged.
func (o *Order) Total() decimal.Decimal {
	return o.Payment.Amount
}

// ItemCount sums the item quantities.
func (o *Order) ItemCount() int {
	return cart.CountItems(o.Items)
}
