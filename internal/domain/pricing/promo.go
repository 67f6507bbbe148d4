package pricing

import "strings"

// Promo is a recognised promotional code.
type Promo struct {
	Code    string
	Percent int
}

var promos = map[string]int{
	"WELCOME10": 10,
	"SAVE20":    20,
	"VIP30":     30,
}

// LookupPromo validates a code, case-insensitively. Promos are only
// acknowledged; no discount is applied to Totals.
func LookupPromo(code string) (Promo, bool) {
	c := strings.ToUpper(strings.TrimSpace(code))
	pct, ok := promos[c]
	if !ok {
		return Promo{}, false
	}
	return Promo{Code: c, Percent: pct}, true
}
