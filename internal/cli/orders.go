package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/eshaffer321/storefront/internal/domain/pricing"
)

func ordersListCmd(r *runner) *cobra.Command {
	var orderID string
	cmd := &cobra.Command{
		Use:   "orders:list",
		Short: "Show the order history",
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, app *App, out io.Writer, _ []string) error {
			if orderID == "" {
				PrintOrders(out, app.History.List(ctx))
				return nil
			}

			o, err := app.History.Get(ctx, orderID)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Order %s (%s)\n", o.OrderID, o.Payment.Method.DisplayName())
			fmt.Fprintf(out, "Ship to: %s %s, %s, %s\n", o.Customer.FirstName, o.Customer.LastName, o.Shipping.Address, o.Shipping.City)
			PrintCart(out, o.Items)
			PrintTotals(out, pricing.Totals{
				Subtotal: o.Payment.Subtotal,
				Shipping: o.Payment.Shipping,
				Tax:      o.Payment.Tax,
				Total:    o.Payment.Amount,
			}, o.Shipping.Method.DisplayName())
			return nil
		}),
	}
	cmd.Flags().StringVar(&orderID, "id", "", "Show a single order")
	return cmd
}
