package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrBreakdownMismatch means an amount breakdown does not add up to its total.
var ErrBreakdownMismatch = errors.New("amount breakdown does not match total")

// BreakdownCheck is the result of comparing a breakdown with its total.
type BreakdownCheck struct {
	// Valid is true when item total + shipping + tax equals total to the cent
	Valid bool

	Sum        decimal.Decimal
	Total      decimal.Decimal
	Difference decimal.Decimal

	// Reason explains a mismatch (empty if valid)
	Reason string
}

// CheckBreakdown verifies that the parts sent to a payment provider add up
// to the total it will charge. There is no tolerance: both sides are cents.
func CheckBreakdown(itemTotal, shipping, tax, total decimal.Decimal) *BreakdownCheck {
	sum := Round2(itemTotal).Add(Round2(shipping)).Add(Round2(tax))
	total = Round2(total)
	diff := sum.Sub(total)

	if diff.IsZero() {
		return &BreakdownCheck{Valid: true, Sum: sum, Total: total, Difference: diff}
	}

	var reason string
	if diff.IsNegative() {
		reason = fmt.Sprintf("breakdown ($%s) is $%s short of total ($%s)", Fixed(sum), Fixed(diff.Neg()), Fixed(total))
	} else {
		reason = fmt.Sprintf("breakdown ($%s) exceeds total ($%s) by $%s", Fixed(sum), Fixed(total), Fixed(diff))
	}
	return &BreakdownCheck{Sum: sum, Total: total, Difference: diff, Reason: reason}
}

// Err returns nil for a valid check and ErrBreakdownMismatch otherwise.
func (c *BreakdownCheck) Err() error {
	if c.Valid {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrBreakdownMismatch, c.Reason)
}

// CheckTotals verifies that t is internally consistent.
func CheckTotals(t Totals) error {
	return CheckBreakdown(t.Subtotal, t.Shipping, t.Tax, t.Total).Err()
}
