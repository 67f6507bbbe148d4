package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/eshaffer321/storefront/internal/cart"
	"github.com/eshaffer321/storefront/internal/checkout"
	"github.com/eshaffer321/storefront/internal/domain/pricing"
	"github.com/eshaffer321/storefront/internal/orders"
)

// PrintHeader prints the application header
func PrintHeader(w io.Writer, brand, action string) {
	fmt.Fprintf(w, "%s: %s\n", strings.ToLower(brand), action)
}

// PrintCart prints the cart lines with their positions and keys.
func PrintCart(w io.Writer, items []cart.Item) {
	if len(items) == 0 {
		fmt.Fprintln(w, checkout.MsgEmptyCart)
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTITLE\tSIZE\tCOLOR\tPRICE\tQTY\tKEY")
	for i, it := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%s\n", i, it.Title, it.Size, it.Color, it.Price, it.Quantity, it.Key)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "Items in cart: %d\n", cart.CountItems(items))
}

// PrintTotals prints a totals breakdown.
func PrintTotals(w io.Writer, t pricing.Totals, label string) {
	sub, ship, tax, total := t.Strings()
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintf(w, "Subtotal: $%s\n", sub)
	if label != "" {
		fmt.Fprintf(w, "Shipping (%s): $%s\n", label, ship)
	} else {
		fmt.Fprintf(w, "Shipping: $%s\n", ship)
	}
	fmt.Fprintf(w, "Tax (10%%): $%s\n", tax)
	fmt.Fprintf(w, "Total: $%s\n", total)
}

// PrintQuotes prints shipping estimator results.
func PrintQuotes(w io.Writer, quotes []pricing.Quote) {
	if len(quotes) == 0 {
		return
	}
	fmt.Fprintf(w, "Shipping to %s\n", quotes[0].CountryName)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, q := range quotes {
		cost := q.CostLabel()
		if !q.Available {
			cost = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", q.MethodName, cost, q.Delivery)
	}
	_ = tw.Flush()
}

// PrintOrders prints the order history, newest first.
func PrintOrders(w io.Writer, list []orders.Order) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No orders yet.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ORDER\tDATE\tPAYMENT\tTRANSACTION\tITEMS\tTOTAL")
	for i := len(list) - 1; i >= 0; i-- {
		o := list[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t$%s\n",
			o.OrderID,
			o.Date.Local().Format("2006-01-02 15:04"),
			o.Payment.Method.DisplayName(),
			o.Payment.TransactionID,
			o.ItemCount(),
			pricing.Fixed(o.Payment.Amount))
	}
	_ = tw.Flush()
}
