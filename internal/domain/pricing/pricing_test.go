package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "$20.00", want: "20"},
		{in: "$1,299.99", want: "1299.99"},
		{in: "$12,345,678.50", want: "12345678.5"},
		{in: " 45 ", want: "45"},
		{in: "0", want: "0"},
		{in: "", wantErr: true},
		{in: "$", wantErr: true},
		{in: "free", wantErr: true},
		{in: "$NaN", wantErr: true},
		{in: "$-5.00", wantErr: true},
		{in: "$$5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePrice(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPrice)
				return
			}
			require.NoError(t, err)
			assert.True(t, d(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$0.00", FormatPrice(decimal.Zero))
	assert.Equal(t, "$20.00", FormatPrice(d("20")))
	assert.Equal(t, "$999.50", FormatPrice(d("999.5")))
	assert.Equal(t, "$1,299.99", FormatPrice(d("1299.99")))
	assert.Equal(t, "$1,234,567.00", FormatPrice(d("1234567")))
	assert.Equal(t, "-$1,000.00", FormatPrice(d("-1000")))
}

func TestCompute_SingleItemStandard(t *testing.T) {
	totals, err := Compute([]Line{{Price: "$20.00", Quantity: 2}}, Standard)
	require.NoError(t, err)

	subtotal, shipping, tax, total := totals.Strings()
	assert.Equal(t, "40.00", subtotal)
	assert.Equal(t, "10.00", shipping)
	assert.Equal(t, "4.00", tax)
	assert.Equal(t, "54.00", total)
}

func TestCompute_ShippingMethods(t *testing.T) {
	lines := []Line{{Price: "$1,000.00", Quantity: 1}, {Price: "$19.99", Quantity: 3}}

	tests := []struct {
		method Method
		want   string
	}{
		{Standard, "1175.97"},  // 1059.97 + 10 + 106.00
		{Express, "1190.97"},   // + 25
		{Overnight, "1210.97"}, // + 45
		{Method(""), "1175.97"},
		{Method("drone"), "1175.97"},
	}

	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			totals, err := Compute(lines, tt.method)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Fixed(totals.Total))
			assert.NoError(t, CheckTotals(totals))
		})
	}
}

func TestCompute_RejectsBadPrice(t *testing.T) {
	_, err := Compute([]Line{{Price: "$10.00", Quantity: 1}, {Price: "call us", Quantity: 1}}, Standard)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPrice)
	assert.Contains(t, err.Error(), "line 1")
}

func TestCompute_EmptyCart(t *testing.T) {
	totals, err := Compute(nil, Standard)
	require.NoError(t, err)
	assert.Equal(t, "0.00", Fixed(totals.Subtotal))
	assert.Equal(t, "10.00", Fixed(totals.Total))
}

func TestTotalsIdentity(t *testing.T) {
	// total = subtotal + shipping + tax and tax = round2(subtotal × 0.10)
	for _, s := range []string{"0", "0.01", "0.05", "0.15", "19.95", "33.33", "99.99", "100", "1234.56"} {
		for _, m := range Methods {
			totals := ComputeWith(d(s), CheckoutSchedule.Cost(m))
			assert.True(t, totals.Tax.Equal(d(s).Mul(d("0.1")).Round(2)), "tax for %s", s)
			assert.True(t, totals.Total.Equal(totals.Subtotal.Add(totals.Shipping).Add(totals.Tax)))
		}
	}
}

func TestTax_RoundsHalfAwayFromZero(t *testing.T) {
	assert.Equal(t, "0.01", Fixed(Tax(d("0.05"))))
	assert.Equal(t, "0.02", Fixed(Tax(d("0.15"))))
	assert.Equal(t, "3.33", Fixed(Tax(d("33.33"))))
}

func TestCartSummaryShipping(t *testing.T) {
	assert.Equal(t, "10.00", Fixed(CartSummaryShipping(d("100"))))
	assert.Equal(t, "0.00", Fixed(CartSummaryShipping(d("100.01"))))

	totals, err := ComputeCartSummary([]Line{{Price: "$60", Quantity: 2}})
	require.NoError(t, err)
	assert.Equal(t, "132.00", Fixed(totals.Total))
}

func TestEstimate(t *testing.T) {
	tests := []struct {
		name      string
		country   string
		method    Method
		total     string
		cost      string
		label     string
		delivery  string
		available bool
	}{
		{"domestic standard", "us", Standard, "50", "5.99", "$5.99", "5-7 business days", true},
		{"domestic standard free", "US", Standard, "100", "0", "FREE", "5-7 business days", true},
		{"international standard", "ca", Standard, "20", "15.99", "$15.99", "7-14 business days", true},
		{"international standard free", "jp", Standard, "150", "0", "FREE", "7-14 business days", true},
		{"express never free", "us", Express, "500", "19.99", "$19.99", "2-3 business days", true},
		{"international express", "de", Express, "10", "35.99", "$35.99", "5-7 business days", true},
		{"domestic overnight", "us", Overnight, "10", "39.99", "$39.99", "1 business day", true},
		{"international overnight", "do", Overnight, "10", "59.99", "$59.99", "Not available", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, ok := Estimate(tt.country, tt.method, d(tt.total))
			require.True(t, ok)
			assert.True(t, d(tt.cost).Equal(q.Cost), "cost %s", q.Cost)
			assert.Equal(t, tt.label, q.CostLabel())
			assert.Equal(t, tt.delivery, q.Delivery)
			assert.Equal(t, tt.available, q.Available)
		})
	}

	_, ok := Estimate("zz", Standard, d("10"))
	assert.False(t, ok)

	q, _ := Estimate("do", Standard, d("1"))
	assert.Equal(t, "Dominican Republic", q.CountryName)
	assert.True(t, q.International)
}

func TestEstimateAll(t *testing.T) {
	quotes, ok := EstimateAll("uk", d("120"))
	require.True(t, ok)
	require.Len(t, quotes, 3)
	assert.Equal(t, Standard, quotes[0].Method)
	assert.True(t, quotes[0].Free)
	assert.Equal(t, "Overnight", quotes[2].MethodName)
}

func TestLookupPromo(t *testing.T) {
	p, ok := LookupPromo(" save20 ")
	require.True(t, ok)
	assert.Equal(t, Promo{Code: "SAVE20", Percent: 20}, p)

	_, ok = LookupPromo("FREESTUFF")
	assert.False(t, ok)
}

func TestCheckBreakdown(t *testing.T) {
	ok := CheckBreakdown(d("40"), d("10"), d("4"), d("54"))
	assert.True(t, ok.Valid)
	assert.NoError(t, ok.Err())

	short := CheckBreakdown(d("40"), d("10"), d("4"), d("54.01"))
	assert.False(t, short.Valid)
	assert.Contains(t, short.Reason, "short")
	assert.ErrorIs(t, short.Err(), ErrBreakdownMismatch)

	over := CheckBreakdown(d("40"), d("25"), d("4"), d("54"))
	assert.Contains(t, over.Reason, "exceeds")
	assert.True(t, d("15").Equal(over.Difference))
}

func TestParseMethod(t *testing.T) {
	m, ok := ParseMethod(" Express ")
	assert.True(t, ok)
	assert.Equal(t, Express, m)

	m, ok = ParseMethod("")
	assert.False(t, ok)
	assert.Equal(t, Standard, m)
}
