package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/eshaffer321/storefront/internal/cart"
	"github.com/eshaffer321/storefront/internal/domain/pricing"
	"github.com/eshaffer321/storefront/internal/orders"
	"github.com/eshaffer321/storefront/internal/payment"
)

// Checkout page messages.
const (
	MsgEmptyCart       = "Your cart is empty!"
	MsgUseWalletButton = "Please click the PayPal button above to complete your payment"
)

// Deps are the collaborators a Checkout needs.
type Deps struct {
	Carts     *cart.Store
	History   *orders.History
	CardSDK   payment.CardSDK
	WalletSDK payment.WalletSDK
	Presenter Presenter
	Scheduler Scheduler
	Logger    *slog.Logger
	Config    Config
}

// Summary is the read-only view of the cart shown on the checkout page.
type Summary struct {
	Items  []cart.Item
	Count  int
	Totals pricing.Totals
}

// Checkout is the checkout orchestrator. It reads the cart, holds the form
// snapshot and the payment selection, and delegates payment to the adapters.
// It never mutates the cart except through finalization.
type Checkout struct {
	mu   sync.Mutex
	form Form

	carts     *cart.Store
	session   *Session
	card      *CardAdapter
	wallet    *WalletAdapter
	finalizer *Finalizer
	presenter Presenter
	logger    *slog.Logger
}

// New wires a Checkout and its session and adapters.
func New(deps Deps) *Checkout {
	cfg := deps.Config.withDefaults()
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	scheduler := deps.Scheduler
	if scheduler == nil {
		scheduler = ClockScheduler{}
	}

	c := &Checkout{
		carts:     deps.Carts,
		presenter: deps.Presenter,
		logger:    logger,
	}
	c.session = NewSession(deps.CardSDK, deps.WalletSDK, cfg.PublishableKey, cfg.CardSelector)
	c.finalizer = NewFinalizer(deps.Carts, deps.History, deps.Presenter, scheduler, cfg, logger.With("system", "orders"))
	c.card = NewCardAdapter(c.session, c.finalizer, deps.Presenter, logger.With("system", "card"))
	c.wallet = NewWalletAdapter(c.session, deps.Carts, c.finalizer, deps.Presenter, scheduler, cfg, c.Form, logger.With("system", "wallet"))
	return c
}

func (c *Checkout) Session() *Session      { return c.session }
func (c *Checkout) Card() *CardAdapter     { return c.card }
func (c *Checkout) Wallet() *WalletAdapter { return c.wallet }
func (c *Checkout) Finalizer() *Finalizer  { return c.finalizer }

// Form returns the current form snapshot.
func (c *Checkout) Form() Form {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// LoadSummary returns the items, count and totals for the checkout page.
// An empty cart blocks checkout with ErrEmptyCart.
func (c *Checkout) LoadSummary(ctx context.Context) (Summary, error) {
	items := c.carts.GetCart(ctx)
	c.presenter.SetCartCount(cart.CountItems(items))
	if len(items) == 0 {
		c.presenter.Notify(NoticeError, MsgEmptyCart)
		return Summary{Items: items}, ErrEmptyCart
	}

	totals, err := pricing.Compute(cart.ToLines(items), c.Form().Shipping())
	if err != nil {
		return Summary{}, err
	}
	return Summary{Items: items, Count: cart.CountItems(items), Totals: totals}, nil
}

// Totals recomputes the totals from the cart and the selected shipping method.
func (c *Checkout) Totals(ctx context.Context) (pricing.Totals, error) {
	return pricing.Compute(c.carts.Lines(ctx), c.Form().Shipping())
}

// UpdateForm replaces the form snapshot, applying a changed shipping or
// payment selection as SelectShipping and SelectPayment would.
func (c *Checkout) UpdateForm(ctx context.Context, f Form) error {
	c.mu.Lock()
	prev := c.form
	c.form = f
	c.mu.Unlock()

	if prev.Payment() != f.Payment() && f.PaymentMethod != "" {
		return c.applyPayment(ctx, f.Payment())
	}
	if prev.Shipping() != f.Shipping() && f.Payment() == orders.PaymentWallet {
		return c.wallet.Invalidate(ctx)
	}
	return nil
}

// SelectShipping records the shipping method. A shown wallet button is
// re-rendered because its amount is fixed at render time.
func (c *Checkout) SelectShipping(ctx context.Context, method string) error {
	m, ok := pricing.ParseMethod(method)
	if !ok {
		c.presenter.Notify(NoticeError, MsgSelectShipping)
		return &ValidationError{Field: "ShippingMethod", Message: MsgSelectShipping}
	}

	c.mu.Lock()
	changed := c.form.Shipping() != m || c.form.ShippingMethod == ""
	c.form.ShippingMethod = string(m)
	wallet := c.form.Payment() == orders.PaymentWallet
	c.mu.Unlock()

	if changed && wallet {
		return c.wallet.Invalidate(ctx)
	}
	return nil
}

// SelectPayment records the payment method and prepares its widget.
func (c *Checkout) SelectPayment(ctx context.Context, method string) error {
	m := orders.PaymentMethod(strings.TrimSpace(method))
	if !m.Valid() {
		c.presenter.Notify(NoticeError, MsgSelectPayment)
		return &ValidationError{Field: "PaymentMethod", Message: MsgSelectPayment}
	}

	c.mu.Lock()
	c.form.PaymentMethod = string(m)
	c.mu.Unlock()

	return c.applyPayment(ctx, m)
}

func (c *Checkout) applyPayment(ctx context.Context, m orders.PaymentMethod) error {
	switch m {
	case orders.PaymentWallet:
		err := c.wallet.Render(ctx)
		if errors.Is(err, ErrEmptyCart) {
			return nil
		}
		return err
	case orders.PaymentCard:
		c.wallet.Reset()
		if err := c.session.Mount(); err != nil {
			c.logger.Error("card SDK not available", "error", err)
			c.presenter.Notify(NoticeError, MsgCardUnavailable)
			return err
		}
	}
	return nil
}

// PlaceOrder submits the checkout. The card path pays immediately; the
// wallet path is driven by the wallet button and returns ErrUseWalletButton.
func (c *Checkout) PlaceOrder(ctx context.Context) (*orders.Order, error) {
	if len(c.carts.GetCart(ctx)) == 0 {
		c.presenter.Notify(NoticeError, MsgEmptyCart)
		return nil, ErrEmptyCart
	}

	form := c.Form()
	if form.Payment() == orders.PaymentWallet {
		if err := ValidateForm(form); err != nil {
			c.card.notifyValidation(err)
			return nil, err
		}
		c.presenter.Notify(NoticeInfo, MsgUseWalletButton)
		return nil, ErrUseWalletButton
	}
	return c.card.Submit(ctx, form)
}

// Close releases the wallet button and tears the session down.
func (c *Checkout) Close() error {
	c.wallet.Reset()
	if c.session.State() == SessionTornDown {
		return nil
	}
	if err := c.session.Teardown(); err != nil {
		return fmt.Errorf("teardown session: %w", err)
	}
	return nil
}
