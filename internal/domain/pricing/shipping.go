package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Method is a shipping speed.
type Method string

const (
	Standard  Method = "standard"
	Express   Method = "express"
	Overnight Method = "overnight"
)

// Methods lists every shipping method in display order.
var Methods = []Method{Standard, Express, Overnight}

// ParseMethod returns the method named by s and whether it is known.
func ParseMethod(s string) (Method, bool) {
	m := Method(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case Standard, Express, Overnight:
		return m, true
	}
	return Standard, false
}

// DisplayName is the capitalized method name.
func (m Method) DisplayName() string {
	switch m {
	case Express:
		return "Express"
	case Overnight:
		return "Overnight"
	}
	return "Standard"
}

// Schedule is a flat fee per shipping method.
type Schedule map[Method]decimal.Decimal

// Cost returns the fee for m. Unknown or empty methods cost the standard fee.
func (s Schedule) Cost(m Method) decimal.Decimal {
	if fee, ok := s[m]; ok {
		return fee
	}
	return s[Standard]
}

// CheckoutSchedule is the fee schedule charged at checkout.
var CheckoutSchedule = Schedule{
	Standard:  decimal.NewFromInt(10),
	Express:   decimal.NewFromInt(25),
	Overnight: decimal.NewFromInt(45),
}

// CartSummaryThreshold is the subtotal above which the cart page shows free shipping.
var CartSummaryThreshold = decimal.NewFromInt(100)

// CartSummaryShipping is the cart page rule: free above the threshold, otherwise 10.
// It is a preview only; checkout always charges CheckoutSchedule.
func CartSummaryShipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(CartSummaryThreshold) {
		return decimal.Zero
	}
	return decimal.NewFromInt(10)
}
