// Package pricing computes cart totals.
//
// All amounts are shopspring decimals and every derived figure is rounded to
// cents before it is shown or sent to a payment provider:
//
//	subtotal = Σ price_i × quantity_i
//	tax      = round2(subtotal × 0.10)
//	total    = subtotal + shipping + tax
//
// Prices arrive as display strings ("$1,299.00"). A string that is not a
// plain non-negative amount is rejected with ErrInvalidPrice instead of being
// allowed to poison the sum.
package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidPrice is returned when a price string is not a non-negative amount.
var ErrInvalidPrice = errors.New("invalid price")

var hundred = decimal.NewFromInt(100)

// ParsePrice parses a display price. A single leading "$" and all thousands
// separators are removed before parsing.
func ParsePrice(s string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimPrefix(raw, "$")
	raw = strings.ReplaceAll(raw, ",", "")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %q is negative", ErrInvalidPrice, s)
	}
	return d, nil
}

// MustParsePrice is ParsePrice for literals known to be valid.
func MustParsePrice(s string) decimal.Decimal {
	d, err := ParsePrice(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Round2 rounds half away from zero to cents.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Fixed renders d with exactly two decimal places ("54.00").
func Fixed(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatPrice renders d as a display price with thousands separators ("$1,299.00").
func FormatPrice(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "$" + b.String() + "." + frac
}

// Cents converts d to an integer number of cents after rounding.
func Cents(d decimal.Decimal) int64 {
	return Round2(d).Mul(hundred).IntPart()
}
