package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// EstimatorFreeThreshold is the order total at which standard shipping is free
// in the shipping estimator.
var EstimatorFreeThreshold = decimal.NewFromInt(100)

// Rate is an estimator fee pair.
type Rate struct {
	Domestic      decimal.Decimal
	International decimal.Decimal
}

// EstimatorSchedule is the shipping calculator's fee table. It is a separate
// policy from CheckoutSchedule and never feeds checkout totals.
var EstimatorSchedule = map[Method]Rate{
	Standard:  {Domestic: decimal.RequireFromString("5.99"), International: decimal.RequireFromString("15.99")},
	Express:   {Domestic: decimal.RequireFromString("19.99"), International: decimal.RequireFromString("35.99")},
	Overnight: {Domestic: decimal.RequireFromString("39.99"), International: decimal.RequireFromString("59.99")},
}

var deliveryWindows = map[Method][2]string{
	Standard:  {"5-7 business days", "7-14 business days"},
	Express:   {"2-3 business days", "5-7 business days"},
	Overnight: {"1 business day", ""},
}

// CountryNames maps estimator country codes to display names.
var CountryNames = map[string]string{
	"us": "United States",
	"ca": "Canada",
	"mx": "Mexico",
	"uk": "United Kingdom",
	"de": "Germany",
	"fr": "France",
	"es": "Spain",
	"it": "Italy",
	"au": "Australia",
	"jp": "Japan",
	"do": "Dominican Republic",
}

// HomeCountry is the only domestic destination.
const HomeCountry = "us"

// Quote is one estimator result.
type Quote struct {
	Method        Method
	MethodName    string
	Country       string
	CountryName   string
	International bool
	Cost          decimal.Decimal
	Free          bool
	Delivery      string
	Available     bool
}

// CostLabel renders the cost the way the estimator shows it ("FREE" or "$5.99").
func (q Quote) CostLabel() string {
	if q.Free {
		return "FREE"
	}
	return "$" + Fixed(q.Cost)
}

// Estimate quotes one method for a destination country and order total.
// ok is false when the country code is not recognised.
func Estimate(country string, method Method, orderTotal decimal.Decimal) (Quote, bool) {
	code := strings.ToLower(strings.TrimSpace(country))
	name, ok := CountryNames[code]
	if !ok {
		return Quote{}, false
	}
	if _, known := EstimatorSchedule[method]; !known {
		method = Standard
	}

	intl := code != HomeCountry
	rate := EstimatorSchedule[method]
	q := Quote{
		Method:        method,
		MethodName:    method.DisplayName(),
		Country:       code,
		CountryName:   name,
		International: intl,
		Cost:          rate.Domestic,
		Available:     true,
	}
	windows := deliveryWindows[method]
	q.Delivery = windows[0]
	if intl {
		q.Cost = rate.International
		q.Delivery = windows[1]
	}
	if q.Delivery == "" {
		q.Delivery = "Not available"
		q.Available = false
	}
	if method == Standard && orderTotal.GreaterThanOrEqual(EstimatorFreeThreshold) {
		q.Cost = decimal.Zero
	}
	q.Free = q.Cost.IsZero()
	return q, true
}

// EstimateAll quotes every method for a destination.
func EstimateAll(country string, orderTotal decimal.Decimal) ([]Quote, bool) {
	quotes := make([]Quote, 0, len(Methods))
	for _, m := range Methods {
		q, ok := Estimate(country, m, orderTotal)
		if !ok {
			return nil, false
		}
		quotes = append(quotes, q)
	}
	return quotes, true
}
