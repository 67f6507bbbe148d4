package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/eshaffer321/storefront/internal/domain/pricing"
)

func shippingEstimateCmd(r *runner) *cobra.Command {
	var flags EstimateFlags
	cmd := &cobra.Command{
		Use:   "shipping:estimate",
		Short: "Quote shipping to a country",
		Long:  "Quote shipping to a country. Without --total the current cart subtotal is used.",
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, app *App, out io.Writer, _ []string) error {
			total, err := estimateTotal(ctx, app, flags.Total)
			if err != nil {
				return err
			}

			if flags.Method == "" {
				quotes, ok := pricing.EstimateAll(flags.Country, total)
				if !ok {
					return fmt.Errorf("unknown country %q", flags.Country)
				}
				PrintQuotes(out, quotes)
				return nil
			}

			method, ok := pricing.ParseMethod(flags.Method)
			if !ok {
				return fmt.Errorf("unknown shipping method %q", flags.Method)
			}
			quote, ok := pricing.Estimate(flags.Country, method, total)
			if !ok {
				return fmt.Errorf("unknown country %q", flags.Country)
			}
			PrintQuotes(out, []pricing.Quote{quote})
			return nil
		}),
	}
	cmd.Flags().StringVar(&flags.Country, "country", "", "Destination country code (us, ca, uk, ...)")
	cmd.Flags().StringVar(&flags.Total, "total", "", "Order total used for the free-shipping threshold")
	cmd.Flags().StringVar(&flags.Method, "method", "", "Quote a single method")
	_ = cmd.MarkFlagRequired("country")
	return cmd
}

func estimateTotal(ctx context.Context, app *App, raw string) (decimal.Decimal, error) {
	if raw != "" {
		total, err := pricing.ParsePrice(raw)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid --total: %w", err)
		}
		return total, nil
	}
	return pricing.Subtotal(app.Carts.Lines(ctx))
}

func promoCheckCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "promo:check <code>",
		Short: "Check whether a promo code is recognised",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			promo, ok := pricing.LookupPromo(args[0])
			if !ok {
				return fmt.Errorf("invalid promo code %q", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Promo code %s applied! (%d%% off)\n", promo.Code, promo.Percent)
			return nil
		},
	}
}
