package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TaxRate is the flat sales tax applied to every order.
var TaxRate = decimal.RequireFromString("0.10")

// Line is the part of a cart item that pricing needs.
type Line struct {
	Price    string
	Quantity int
}

// Totals is the derived money summary for a cart. It is never stored.
type Totals struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Subtotal sums price × quantity over lines. The first unparseable price aborts the sum.
func Subtotal(lines []Line) (decimal.Decimal, error) {
	sum := decimal.Zero
	for i, l := range lines {
		price, err := ParsePrice(l.Price)
		if err != nil {
			return decimal.Zero, fmt.Errorf("line %d: %w", i, err)
		}
		if l.Quantity < 1 {
			return decimal.Zero, fmt.Errorf("line %d: quantity %d is below 1", i, l.Quantity)
		}
		sum = sum.Add(price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return Round2(sum), nil
}

// Tax returns round2(subtotal × TaxRate).
func Tax(subtotal decimal.Decimal) decimal.Decimal {
	return Round2(subtotal.Mul(TaxRate))
}

// ComputeWith derives totals for a subtotal and shipping charge.
func ComputeWith(subtotal, shipping decimal.Decimal) Totals {
	subtotal = Round2(subtotal)
	shipping = Round2(shipping)
	tax := Tax(subtotal)
	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}

// Compute prices lines and applies the checkout shipping schedule for method.
func Compute(lines []Line, method Method) (Totals, error) {
	subtotal, err := Subtotal(lines)
	if err != nil {
		return Totals{}, err
	}
	return ComputeWith(subtotal, CheckoutSchedule.Cost(method)), nil
}

// ComputeCartSummary prices lines with the cart-page shipping rule.
func ComputeCartSummary(lines []Line) (Totals, error) {
	subtotal, err := Subtotal(lines)
	if err != nil {
		return Totals{}, err
	}
	return ComputeWith(subtotal, CartSummaryShipping(subtotal)), nil
}

// Strings renders the four figures with two decimals.
func (t Totals) Strings() (subtotal, shipping, tax, total string) {
	return Fixed(t.Subtotal), Fixed(t.Shipping), Fixed(t.Tax), Fixed(t.Total)
}

// Equal compares all four figures to the cent.
func (t Totals) Equal(o Totals) bool {
	return t.Subtotal.Equal(o.Subtotal) && t.Shipping.Equal(o.Shipping) &&
		t.Tax.Equal(o.Tax) && t.Total.Equal(o.Total)
}
