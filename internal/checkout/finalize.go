package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/eshaffer321/storefront/internal/cart"
	"github.com/eshaffer321/storefront/internal/domain/pricing"
	"github.com/eshaffer321/storefront/internal/orders"
)

// PaymentResult is what a payment adapter hands to the Finalizer.
type PaymentResult struct {
	Method        orders.PaymentMethod
	TransactionID string
	Details       json.RawMessage
}

// Finalizer turns a successful payment into an Order.
//
// Finalize is not idempotent: each call appends a new order. Adapters call it
// at most once per successful payment.
type Finalizer struct {
	carts     *cart.Store
	history   *orders.History
	presenter Presenter
	scheduler Scheduler
	logger    *slog.Logger

	confirmDelay time.Duration
	homePath     string
	brandName    string
	now          func() time.Time
}

// NewFinalizer creates a Finalizer.
func NewFinalizer(carts *cart.Store, history *orders.History, presenter Presenter, scheduler Scheduler, cfg Config, logger *slog.Logger) *Finalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Finalizer{
		carts:        carts,
		history:      history,
		presenter:    presenter,
		scheduler:    scheduler,
		logger:       logger,
		confirmDelay: cfg.ConfirmDelay,
		homePath:     cfg.HomePath,
		brandName:    cfg.BrandName,
		now:          time.Now,
	}
}

// Quote prices the current cart for form's shipping method. An empty cart is
// ErrEmptyCart and an unpriceable line is a pricing error; both mean no
// payment should be started.
func (f *Finalizer) Quote(ctx context.Context, form Form) (pricing.Totals, error) {
	items := f.carts.GetCart(ctx)
	if len(items) == 0 {
		return pricing.Totals{}, ErrEmptyCart
	}
	totals, err := pricing.Compute(cart.ToLines(items), form.Shipping())
	if err != nil {
		return pricing.Totals{}, fmt.Errorf("price order: %w", err)
	}
	return totals, nil
}

// Finalize records the order, clears the cart, zeroes the cart count and
// schedules the confirmation and the navigation away from checkout.
func (f *Finalizer) Finalize(ctx context.Context, form Form, result PaymentResult) (*orders.Order, error) {
	items := f.carts.GetCart(ctx)
	totals, err := pricing.Compute(cart.ToLines(items), form.Shipping())
	if err != nil {
		return nil, fmt.Errorf("price order: %w", err)
	}

	now := f.now()
	order := orders.Order{
		OrderID:  orders.NewOrderID(now),
		Customer: form.Customer(),
		Shipping: form.ShippingInfo(),
		Payment: orders.Payment{
			Method:        result.Method,
			TransactionID: result.TransactionID,
			Amount:        totals.Total,
			Subtotal:      totals.Subtotal,
			Shipping:      totals.Shipping,
			Tax:           totals.Tax,
			Details:       result.Details,
		},
		Items: items,
		Date:  now.UTC(),
	}

	// The payment has already gone through; a history write failure must not
	// leave the shopper on the checkout page with a full cart.
	if err := f.history.Append(ctx, order); err != nil {
		f.logger.Error("could not save order to history", "order_id", order.OrderID, "error", err)
	}
	if !f.carts.Clear(ctx) {
		f.logger.Error("could not clear cart after order", "order_id", order.OrderID)
	}
	f.presenter.SetCartCount(f.carts.Count(ctx))

	f.logger.Info("order completed",
		"order_id", order.OrderID,
		"method", string(result.Method),
		"transaction_id", result.TransactionID,
		"total", pricing.Fixed(totals.Total),
		"items", len(items))

	conf := Confirmation{
		OrderID:     order.OrderID,
		PaymentName: result.Method.DisplayName(),
		Total:       pricing.Fixed(order.Payment.Amount),
		Email:       order.Customer.Email,
		BrandName:   f.brandName,
	}
	f.scheduler.AfterFunc(f.confirmDelay, func() {
		f.presenter.ShowConfirmation(conf)
		f.presenter.Navigate(f.homePath)
	})

	return &order, nil
}
