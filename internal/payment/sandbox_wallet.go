package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/eshaffer321/storefront/internal/domain/pricing"
)

// Shopper decisions the sandbox wallet can simulate.
type Decision int

const (
	Approve Decision = iota
	Cancel
)

// SandboxWallet is an in-process WalletSDK. Click simulates the shopper
// pressing the most recently rendered button.
type SandboxWallet struct {
	mu      sync.Mutex
	buttons []*sandboxButtons
	orders  map[string]OrderRequest
	renders int

	// NextCaptureID fixes the id of the next capture; empty means random.
	NextCaptureID string

	// CaptureErr makes Capture fail.
	CaptureErr error

	// Payer is reported on captures.
	Payer Payer
}

var _ WalletSDK = (*SandboxWallet)(nil)

// NewSandboxWallet creates a sandbox wallet SDK.
func NewSandboxWallet() *SandboxWallet {
	return &SandboxWallet{
		orders: map[string]OrderRequest{},
		Payer:  Payer{PayerID: "SANDBOXPAYER", Email: "buyer@example.com", Name: PayerName{GivenName: "Sandbox", Surname: "Buyer"}},
	}
}

func (w *SandboxWallet) Buttons(cfg ButtonsConfig) Buttons {
	b := &sandboxButtons{wallet: w, cfg: cfg}
	w.mu.Lock()
	w.buttons = append(w.buttons, b)
	w.mu.Unlock()
	return b
}

// Renders is how many times any button was rendered.
func (w *SandboxWallet) Renders() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.renders
}

// Order returns the request stored for a created order.
func (w *SandboxWallet) Order(id string) (OrderRequest, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	req, ok := w.orders[id]
	return req, ok
}

// Click drives the active button through create, then approve or cancel.
// Callback failures are routed to OnError and returned.
func (w *SandboxWallet) Click(ctx context.Context, decision Decision) error {
	b := w.active()
	if b == nil {
		return errors.New("no wallet button is rendered")
	}
	actions := sandboxActions{wallet: w}

	orderID, err := b.cfg.CreateOrder(ctx, CreateOrderData{PaymentSource: "paypal"}, actions)
	if err != nil {
		b.fail(err)
		return err
	}

	if decision == Cancel {
		if b.cfg.OnCancel != nil {
			b.cfg.OnCancel(CancelData{OrderID: orderID})
		}
		return nil
	}

	if err := b.cfg.OnApprove(ctx, ApproveData{OrderID: orderID, PayerID: w.Payer.PayerID}, actions); err != nil {
		b.fail(err)
		return err
	}
	return nil
}

func (w *SandboxWallet) active() *sandboxButtons {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := len(w.buttons) - 1; i >= 0; i-- {
		if b := w.buttons[i]; b.rendered && !b.closed {
			return b
		}
	}
	return nil
}

type sandboxButtons struct {
	wallet   *SandboxWallet
	cfg      ButtonsConfig
	rendered bool
	closed   bool
}

func (b *sandboxButtons) Render(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if selector == "" {
		return errors.New("render target is required")
	}
	if b.cfg.CreateOrder == nil || b.cfg.OnApprove == nil {
		return errors.New("createOrder and onApprove are required")
	}
	b.wallet.mu.Lock()
	defer b.wallet.mu.Unlock()
	if b.closed {
		return errors.New("buttons were closed")
	}
	b.rendered = true
	b.wallet.renders++
	return nil
}

func (b *sandboxButtons) Close() error {
	b.wallet.mu.Lock()
	defer b.wallet.mu.Unlock()
	b.closed = true
	return nil
}

func (b *sandboxButtons) fail(err error) {
	if b.cfg.OnError != nil {
		b.cfg.OnError(err)
	}
}

type sandboxActions struct {
	wallet *SandboxWallet
}

func (a sandboxActions) Create(ctx context.Context, req OrderRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := validateOrderRequest(req); err != nil {
		return "", err
	}

	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:17])
	a.wallet.mu.Lock()
	a.wallet.orders[id] = req
	a.wallet.mu.Unlock()
	return id, nil
}

func (a sandboxActions) Capture(ctx context.Context, orderID string) (*CaptureDetails, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.wallet.mu.Lock()
	defer a.wallet.mu.Unlock()

	if a.wallet.CaptureErr != nil {
		return nil, a.wallet.CaptureErr
	}
	req, ok := a.wallet.orders[orderID]
	if !ok {
		return nil, &SDKError{Code: "RESOURCE_NOT_FOUND", Message: fmt.Sprintf("order %s does not exist", orderID)}
	}

	id := a.wallet.NextCaptureID
	a.wallet.NextCaptureID = ""
	if id == "" {
		id = strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:17])
	}
	return &CaptureDetails{
		ID:            id,
		Status:        CaptureStatusCompleted,
		Payer:         a.wallet.Payer,
		PurchaseUnits: req.PurchaseUnits,
	}, nil
}

// validateOrderRequest applies the provider's amount rules: the breakdown must
// add up to the amount and item lines must add up to the item total.
func validateOrderRequest(req OrderRequest) error {
	if len(req.PurchaseUnits) == 0 {
		return &SDKError{Code: "INVALID_REQUEST", Message: "purchase_units is required"}
	}
	for _, pu := range req.PurchaseUnits {
		amount, err := decimal.NewFromString(pu.Amount.Value)
		if err != nil {
			return &SDKError{Code: "INVALID_PARAMETER_VALUE", Message: "amount.value is not a number"}
		}
		bd := pu.Amount.Breakdown
		itemTotal, err1 := decimal.NewFromString(bd.ItemTotal.Value)
		shipping, err2 := decimal.NewFromString(bd.Shipping.Value)
		tax, err3 := decimal.NewFromString(bd.TaxTotal.Value)
		if err := errors.Join(err1, err2, err3); err != nil {
			return &SDKError{Code: "INVALID_PARAMETER_VALUE", Message: "breakdown values must be numbers"}
		}
		if check := pricing.CheckBreakdown(itemTotal, shipping, tax, amount); !check.Valid {
			return &SDKError{Code: "AMOUNT_MISMATCH", Message: check.Reason}
		}

		lines := decimal.Zero
		for _, it := range pu.Items {
			unit, err := decimal.NewFromString(it.UnitAmount.Value)
			if err != nil {
				return &SDKError{Code: "INVALID_PARAMETER_VALUE", Message: "unit_amount is not a number"}
			}
			qty, err := decimal.NewFromString(it.Quantity)
			if err != nil {
				return &SDKError{Code: "INVALID_PARAMETER_VALUE", Message: "quantity is not a number"}
			}
			lines = lines.Add(unit.Mul(qty))
		}
		if len(pu.Items) > 0 && !lines.Equal(itemTotal) {
			return &SDKError{Code: "ITEM_TOTAL_MISMATCH", Message: "item lines do not add up to item_total"}
		}
	}
	return nil
}
