package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/eshaffer321/storefront/internal/checkout"
	"github.com/eshaffer321/storefront/internal/orders"
	"github.com/eshaffer321/storefront/internal/payment"
)

// confirmationGrace is how long past the confirm delay a command waits for
// the confirmation to be shown.
const confirmationGrace = 5 * time.Second

func checkoutCardCmd(r *runner) *cobra.Command {
	var flags CheckoutFlags
	cmd := &cobra.Command{
		Use:   "checkout:card",
		Short: "Pay for the cart with a card",
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, app *App, out io.Writer, _ []string) error {
			form, err := flags.LoadForm()
			if err != nil {
				return err
			}
			form.PaymentMethod = string(orders.PaymentCard)

			sdk := NewCardProvider(flags.Card)
			co, presenter, cfg := newCheckout(app, out, sdk, nil)
			defer closeCheckout(app, co)

			PrintHeader(out, cfg.BrandName, "card checkout")
			if err := prepare(ctx, co, form, out); err != nil {
				return err
			}

			if _, err := co.PlaceOrder(ctx); err != nil {
				return err
			}
			return waitForConfirmation(ctx, presenter, cfg.ConfirmDelay)
		}),
	}
	addCheckoutFlags(cmd, &flags)
	cmd.Flags().StringVar(&flags.Card, "card", payment.SandboxCardSuccess, "Card number entered in the card field")
	return cmd
}

func checkoutWalletCmd(r *runner) *cobra.Command {
	var flags CheckoutFlags
	cmd := &cobra.Command{
		Use:   "checkout:wallet",
		Short: "Pay for the cart with the PayPal button",
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, app *App, out io.Writer, _ []string) error {
			form, err := flags.LoadForm()
			if err != nil {
				return err
			}
			form.PaymentMethod = string(orders.PaymentWallet)

			sdk := NewWalletProvider(flags)
			co, presenter, cfg := newCheckout(app, out, nil, sdk)
			defer closeCheckout(app, co)

			PrintHeader(out, cfg.BrandName, "PayPal checkout")
			if err := prepare(ctx, co, form, out); err != nil {
				return err
			}

			decision := payment.Approve
			if flags.Cancel {
				decision = payment.Cancel
			}
			if err := sdk.Click(ctx, decision); err != nil {
				return fmt.Errorf("wallet payment: %w", err)
			}
			if flags.Cancel {
				return nil
			}
			return waitForConfirmation(ctx, presenter, cfg.ConfirmDelay)
		}),
	}
	addCheckoutFlags(cmd, &flags)
	cmd.Flags().BoolVar(&flags.Cancel, "cancel", false, "Cancel in the PayPal popup")
	cmd.Flags().BoolVar(&flags.Fail, "fail", false, "Make the capture fail")
	cmd.Flags().StringVar(&flags.CaptureID, "capture-id", "", "Fix the capture id")
	cmd.MarkFlagsMutuallyExclusive("cancel", "fail")
	return cmd
}

func addCheckoutFlags(cmd *cobra.Command, flags *CheckoutFlags) {
	cmd.Flags().StringVar(&flags.FormPath, "form", "", "YAML file with the checkout form")
	cmd.Flags().StringVar(&flags.Shipping, "shipping", "", "Override the form's shipping method")
	_ = cmd.MarkFlagRequired("form")
}

func newCheckout(app *App, out io.Writer, card payment.CardSDK, wallet payment.WalletSDK) (*checkout.Checkout, *ConsolePresenter, checkout.Config) {
	cfg := checkout.ConfigFrom(app.Config)
	cfg.PublishableKey = publishableKey(app.Config)

	presenter := NewConsolePresenter(out)
	co := checkout.New(checkout.Deps{
		Carts:     app.Carts,
		History:   app.History,
		CardSDK:   card,
		WalletSDK: wallet,
		Presenter: presenter,
		Scheduler: checkout.ClockScheduler{},
		Logger:    app.Logger.With("system", "checkout"),
		Config:    cfg,
	})
	return co, presenter, cfg
}

// prepare loads the summary, prints it and applies the form.
func prepare(ctx context.Context, co *checkout.Checkout, form checkout.Form, out io.Writer) error {
	if _, err := co.LoadSummary(ctx); err != nil {
		return err
	}
	if err := co.UpdateForm(ctx, form); err != nil {
		return err
	}
	totals, err := co.Totals(ctx)
	if err != nil {
		return err
	}
	PrintTotals(out, totals, form.Shipping().DisplayName())
	return nil
}

func waitForConfirmation(ctx context.Context, p *ConsolePresenter, delay time.Duration) error {
	select {
	case <-p.Navigated():
		return nil
	case <-time.After(delay + confirmationGrace):
		return fmt.Errorf("timed out waiting for order confirmation")
	case <-ctx.Done():
		return ctx.Err()
	}
}

func closeCheckout(app *App, co *checkout.Checkout) {
	if err := co.Close(); err != nil {
		app.Logger.Warn("checkout close failed", "error", err)
	}
}
