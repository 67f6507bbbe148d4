package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/eshaffer321/storefront/internal/cart"
	"github.com/eshaffer321/storefront/internal/domain/pricing"
	"github.com/eshaffer321/storefront/internal/orders"
	"github.com/eshaffer321/storefront/internal/payment"
)

// WalletState is the wallet payment state machine:
//
//	Idle -> ButtonRendered -> CreatingOrder -> AwaitingApproval -> Capturing -> Completed
//	any failure -> Failed -> (retry delay) -> ButtonRendered
//	cancel -> ButtonRendered
//	empty cart -> EmptyCart, missing SDK -> Unavailable
type WalletState int

const (
	WalletIdle WalletState = iota
	WalletButtonRendered
	WalletCreatingOrder
	WalletAwaitingApproval
	WalletCapturing
	WalletCompleted
	WalletFailed
	WalletEmptyCart
	WalletUnavailable
)

func (s WalletState) String() string {
	switch s {
	case WalletIdle:
		return "idle"
	case WalletButtonRendered:
		return "button rendered"
	case WalletCreatingOrder:
		return "creating order"
	case WalletAwaitingApproval:
		return "awaiting approval"
	case WalletCapturing:
		return "capturing"
	case WalletCompleted:
		return "completed"
	case WalletFailed:
		return "failed"
	case WalletEmptyCart:
		return "empty cart"
	case WalletUnavailable:
		return "unavailable"
	}
	return fmt.Sprintf("WalletState(%d)", int(s))
}

// Wallet path messages.
const (
	MsgWalletFormIncomplete = "Please fill in all required shipping information"
	MsgWalletFailed         = "PayPal payment failed. Please try again."
	MsgWalletCancelled      = "Payment cancelled. You can try again when ready."
	MsgWalletUnavailable    = "PayPal SDK failed to load"
)

// WalletAdapter runs the wallet payment path.
//
// Every render gets a new generation. Callbacks from an older generation are
// refused, so a button that was replaced (total changed, retry) can never
// create, capture or finalize an order.
type WalletAdapter struct {
	mu         sync.Mutex
	state      WalletState
	generation int
	buttons    payment.Buttons
	retry      Timer
	order      *orders.Order

	session   *Session
	carts     *cart.Store
	finalizer *Finalizer
	presenter Presenter
	scheduler Scheduler
	logger    *slog.Logger
	cfg       Config

	// form returns the current checkout form.
	form func() Form
}

// NewWalletAdapter creates a wallet adapter in the Idle state.
func NewWalletAdapter(session *Session, carts *cart.Store, finalizer *Finalizer, presenter Presenter, scheduler Scheduler, cfg Config, form func() Form, logger *slog.Logger) *WalletAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WalletAdapter{
		session:   session,
		carts:     carts,
		finalizer: finalizer,
		presenter: presenter,
		scheduler: scheduler,
		logger:    logger,
		cfg:       cfg.withDefaults(),
		form:      form,
	}
}

func (a *WalletAdapter) State() WalletState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Order returns the order created by a completed wallet payment.
func (a *WalletAdapter) Order() *orders.Order {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.order
}

// Render shows the wallet button for the current cart, replacing any
// previous button. With an empty cart an empty-cart notice is shown instead
// and ErrEmptyCart is returned.
func (a *WalletAdapter) Render(ctx context.Context) error {
	a.mu.Lock()
	if a.state == WalletCompleted {
		a.mu.Unlock()
		return fmt.Errorf("%w: wallet payment already completed", ErrInvalidTransition)
	}
	if a.state == WalletCapturing {
		a.mu.Unlock()
		return ErrBusy
	}
	a.discardLocked()

	items := a.carts.GetCart(ctx)
	if len(items) == 0 {
		a.state = WalletEmptyCart
		a.mu.Unlock()
		a.presenter.ShowWallet(WalletViewEmptyCart, pricing.Totals{})
		return ErrEmptyCart
	}

	sdk, err := a.session.Wallet()
	if err != nil {
		a.state = WalletUnavailable
		a.mu.Unlock()
		a.logger.Error("wallet SDK not available", "error", err)
		a.presenter.ShowWallet(WalletViewUnavailable, pricing.Totals{})
		a.presenter.Notify(NoticeWarning, MsgWalletUnavailable)
		return err
	}

	totals, err := pricing.Compute(cart.ToLines(items), a.form().Shipping())
	if err != nil {
		a.mu.Unlock()
		return fmt.Errorf("price cart: %w", err)
	}

	a.generation++
	gen := a.generation
	buttons := sdk.Buttons(a.buttonsConfig(gen))
	a.buttons = buttons
	a.mu.Unlock()

	if err := buttons.Render(ctx, a.cfg.WalletSelector); err != nil {
		a.onError(gen, fmt.Errorf("render wallet button: %w", err))
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.generation {
		return nil
	}
	a.state = WalletButtonRendered
	a.logger.Debug("wallet button rendered", "total", pricing.Fixed(totals.Total), "generation", gen)
	a.presenter.ShowWallet(WalletViewButton, totals)
	return nil
}

// Invalidate re-renders a shown button because the total changed. It does
// nothing when no button is shown and refuses while a capture is running.
func (a *WalletAdapter) Invalidate(ctx context.Context) error {
	a.mu.Lock()
	state := a.state
	a.mu.Unlock()

	switch state {
	case WalletIdle, WalletCompleted:
		return nil
	case WalletCapturing:
		return ErrBusy
	}
	a.logger.Info("total changed, re-rendering wallet button", "state", state.String())
	err := a.Render(ctx)
	if errors.Is(err, ErrEmptyCart) {
		return nil
	}
	return err
}

// Reset removes any button and returns to Idle. Used when another payment
// method is selected.
func (a *WalletAdapter) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state == WalletCompleted || a.state == WalletCapturing {
		return
	}
	a.discardLocked()
	a.generation++
	a.state = WalletIdle
	a.presenter.ShowWallet(WalletViewHidden, pricing.Totals{})
}

// discardLocked stops a pending retry and closes the current button.
func (a *WalletAdapter) discardLocked() {
	if a.retry != nil {
		a.retry.Stop()
		a.retry = nil
	}
	if a.buttons != nil {
		if err := a.buttons.Close(); err != nil {
			a.logger.Debug("closing wallet button", "error", err)
		}
		a.buttons = nil
	}
}

func (a *WalletAdapter) buttonsConfig(gen int) payment.ButtonsConfig {
	return payment.ButtonsConfig{
		CreateOrder: func(ctx context.Context, _ payment.CreateOrderData, actions payment.OrderActions) (string, error) {
			return a.createOrder(ctx, gen, actions)
		},
		OnApprove: func(ctx context.Context, data payment.ApproveData, actions payment.OrderActions) error {
			return a.approve(ctx, gen, data, actions)
		},
		OnError: func(err error) {
			a.onError(gen, err)
		},
		OnCancel: func(data payment.CancelData) {
			a.onCancel(gen, data)
		},
	}
}

// transition moves from one of the allowed states to next for generation gen.
func (a *WalletAdapter) transition(gen int, next WalletState, from ...WalletState) error {
	if gen != a.generation {
		return ErrStaleButton
	}
	for _, s := range from {
		if a.state == s {
			a.state = next
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.state, next)
}

func (a *WalletAdapter) createOrder(ctx context.Context, gen int, actions payment.OrderActions) (string, error) {
	a.mu.Lock()
	if err := a.transition(gen, WalletCreatingOrder, WalletButtonRendered); err != nil {
		a.mu.Unlock()
		return "", err
	}

	form := a.form()
	if err := ValidateForm(form); err != nil {
		a.mu.Unlock()
		a.presenter.Notify(NoticeError, MsgWalletFormIncomplete)
		return "", fmt.Errorf("form validation failed: %w", err)
	}

	// Recompute from the cart now; the cart may have changed since render.
	req, totals, err := a.buildOrderRequest(ctx, form)
	a.mu.Unlock()
	if err != nil {
		return "", err
	}

	a.logger.Info("creating wallet order",
		"subtotal", pricing.Fixed(totals.Subtotal),
		"shipping", pricing.Fixed(totals.Shipping),
		"tax", pricing.Fixed(totals.Tax),
		"total", pricing.Fixed(totals.Total))

	orderID, err := actions.Create(ctx, req)
	if err != nil {
		return "", fmt.Errorf("create wallet order: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.transition(gen, WalletAwaitingApproval, WalletCreatingOrder); err != nil {
		return "", err
	}
	return orderID, nil
}

func (a *WalletAdapter) approve(ctx context.Context, gen int, data payment.ApproveData, actions payment.OrderActions) error {
	a.mu.Lock()
	if err := a.transition(gen, WalletCapturing, WalletAwaitingApproval); err != nil {
		a.mu.Unlock()
		return err
	}
	a.mu.Unlock()

	a.presenter.ShowWallet(WalletViewProcessing, pricing.Totals{})
	a.logger.Info("wallet payment approved, capturing", "order_id", data.OrderID)

	details, err := actions.Capture(ctx, data.OrderID)
	if err != nil {
		a.restore(gen, WalletAwaitingApproval)
		return fmt.Errorf("capture wallet order: %w", err)
	}
	if details == nil || details.Status != payment.CaptureStatusCompleted {
		a.restore(gen, WalletAwaitingApproval)
		status := ""
		if details != nil {
			status = details.Status
		}
		return fmt.Errorf("capture wallet order: status %q", status)
	}

	order, err := a.finalizer.Finalize(ctx, a.form(), PaymentResult{
		Method:        orders.PaymentWallet,
		TransactionID: details.ID,
		Details:       details.JSON(),
	})

	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = WalletCompleted
	a.order = order
	if err != nil {
		// Money was captured; never re-arm the button for this payment.
		a.logger.Error("finalizing wallet order failed", "capture_id", details.ID, "error", err)
		a.presenter.Notify(NoticeError, err.Error())
	}
	return nil
}

// restore puts a failed capture back so onError can move it to Failed.
func (a *WalletAdapter) restore(gen int, s WalletState) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if gen == a.generation {
		a.state = s
	}
}

func (a *WalletAdapter) onError(gen int, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.generation || a.state == WalletCompleted {
		a.logger.Debug("ignoring wallet error from replaced button", "error", err)
		return
	}

	a.logger.Error("wallet payment failed", "error", err)
	a.state = WalletFailed
	if a.buttons != nil {
		_ = a.buttons.Close()
		a.buttons = nil
	}
	a.presenter.ShowWallet(WalletViewFailed, pricing.Totals{})
	a.presenter.Notify(NoticeError, MsgWalletFailed)

	a.retry = a.scheduler.AfterFunc(a.cfg.RetryDelay, func() {
		a.mu.Lock()
		current := gen == a.generation && a.state == WalletFailed
		a.mu.Unlock()
		if !current {
			return
		}
		if err := a.Render(context.Background()); err != nil {
			a.logger.Warn("wallet re-render failed", "error", err)
		}
	})
}

func (a *WalletAdapter) onCancel(gen int, data payment.CancelData) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.transition(gen, WalletButtonRendered, WalletCreatingOrder, WalletAwaitingApproval); err != nil {
		a.logger.Debug("ignoring wallet cancel", "error", err)
		return
	}
	a.logger.Info("wallet payment cancelled", "order_id", data.OrderID)
	a.presenter.Notify(NoticeInfo, MsgWalletCancelled)
}

// buildOrderRequest must be called with mu held.
func (a *WalletAdapter) buildOrderRequest(ctx context.Context, form Form) (payment.OrderRequest, pricing.Totals, error) {
	items := a.carts.GetCart(ctx)
	if len(items) == 0 {
		return payment.OrderRequest{}, pricing.Totals{}, ErrEmptyCart
	}
	totals, err := pricing.Compute(cart.ToLines(items), form.Shipping())
	if err != nil {
		return payment.OrderRequest{}, pricing.Totals{}, fmt.Errorf("price cart: %w", err)
	}
	if err := pricing.CheckTotals(totals); err != nil {
		return payment.OrderRequest{}, pricing.Totals{}, err
	}

	money := func(v string) payment.Money {
		return payment.Money{CurrencyCode: a.cfg.Currency, Value: v}
	}

	lines := make([]payment.LineItem, 0, len(items))
	for _, it := range items {
		price, err := pricing.ParsePrice(it.Price)
		if err != nil {
			return payment.OrderRequest{}, pricing.Totals{}, err
		}
		name := it.Title
		if name == "" {
			name = "Product"
		}
		lines = append(lines, payment.LineItem{
			Name:        name,
			Description: fmt.Sprintf("Size: %s, Color: %s", orDefault(it.Size, cart.DefaultSize), orDefault(it.Color, cart.DefaultColor)),
			UnitAmount:  money(pricing.Fixed(price)),
			Quantity:    strconv.Itoa(it.Quantity),
			Category:    payment.CategoryPhysicalGoods,
		})
	}

	req := payment.OrderRequest{
		Intent: payment.IntentCapture,
		PurchaseUnits: []payment.PurchaseUnit{{
			Description: a.cfg.Description,
			Amount: payment.Amount{
				Money: money(pricing.Fixed(totals.Total)),
				Breakdown: payment.Breakdown{
					ItemTotal: money(pricing.Fixed(totals.Subtotal)),
					Shipping:  money(pricing.Fixed(totals.Shipping)),
					TaxTotal:  money(pricing.Fixed(totals.Tax)),
				},
			},
			Items:    lines,
			Shipping: form.WalletShipping(),
		}},
		ApplicationContext: payment.ApplicationContext{
			BrandName:          a.cfg.BrandName,
			ShippingPreference: payment.ShippingSetProvided,
		},
	}
	return req, totals, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
