package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/storefront/internal/cart"
	"github.com/eshaffer321/storefront/internal/domain/pricing"
	"github.com/eshaffer321/storefront/internal/orders"
	"github.com/eshaffer321/storefront/internal/payment"
)

// walletReady puts two units of a $20 item in the cart and shows the wallet button.
func walletReady(t *testing.T) *harness {
	t.Helper()
	h := newHarness(t)
	h.add(t, "A", "$20.00", 2)
	require.NoError(t, h.checkout.UpdateForm(context.Background(), validForm("paypal")))
	require.Equal(t, WalletButtonRendered, h.checkout.Wallet().State())
	return h
}

func TestWallet_CaptureFinalizesOrder(t *testing.T) {
	h := walletReady(t)
	ctx := context.Background()
	h.wallet.NextCaptureID = "PAY123"

	require.NoError(t, h.wallet.Click(ctx, payment.Approve))

	w := h.checkout.Wallet()
	assert.Equal(t, WalletCompleted, w.State())
	order := w.Order()
	require.NotNil(t, order)
	assert.Equal(t, "PAY123", order.Payment.TransactionID)
	assert.Equal(t, orders.PaymentWallet, order.Payment.Method)
	assert.Equal(t, "54.00", pricing.Fixed(order.Payment.Amount))
	assert.Contains(t, string(order.Payment.Details), `"PAY123"`)

	assert.Empty(t, h.carts.GetCart(ctx))
	history := h.history.List(ctx)
	require.Len(t, history, 1)
	assert.Equal(t, order.OrderID, history[0].OrderID)
	assert.Equal(t, 0, h.presenter.CartCount())
	assert.Contains(t, h.presenter.WalletViews(), WalletViewProcessing)

	h.scheduler.Fire()
	confs := h.presenter.Confirmations()
	require.Len(t, confs, 1)
	assert.Equal(t, "PayPal", confs[0].PaymentName)

	// a completed payment cannot be rendered again
	assert.ErrorIs(t, w.Render(ctx), ErrInvalidTransition)
}

func TestWallet_OrderRequestMatchesCart(t *testing.T) {
	h := walletReady(t)
	ctx := context.Background()

	actions := &payment.MockOrderActions{}
	var captured payment.OrderRequest
	actions.On("Create", ctx, mockAnyRequest(&captured)).Return("ORDER-1", nil)

	w := h.checkout.Wallet()
	id, err := w.createOrder(ctx, w.generation, actions)
	require.NoError(t, err)
	assert.Equal(t, "ORDER-1", id)
	assert.Equal(t, WalletAwaitingApproval, w.State())

	require.Len(t, captured.PurchaseUnits, 1)
	pu := captured.PurchaseUnits[0]
	assert.Equal(t, payment.IntentCapture, captured.Intent)
	assert.Equal(t, "54.00", pu.Amount.Value)
	assert.Equal(t, "USD", pu.Amount.CurrencyCode)
	assert.Equal(t, "40.00", pu.Amount.Breakdown.ItemTotal.Value)
	assert.Equal(t, "10.00", pu.Amount.Breakdown.Shipping.Value)
	assert.Equal(t, "4.00", pu.Amount.Breakdown.TaxTotal.Value)
	require.Len(t, pu.Items, 1)
	assert.Equal(t, "A", pu.Items[0].Name)
	assert.Equal(t, "2", pu.Items[0].Quantity)
	assert.Equal(t, "20.00", pu.Items[0].UnitAmount.Value)
	assert.Equal(t, "Size: M, Color: Black", pu.Items[0].Description)
	assert.Equal(t, "NIGHTFALL STAR", captured.ApplicationContext.BrandName)
	require.NotNil(t, pu.Shipping)
	assert.Equal(t, "Ada Lovelace", pu.Shipping.Name.FullName)
	actions.AssertExpectations(t)
}

func TestWallet_IncompleteFormFailsAndRetries(t *testing.T) {
	h := walletReady(t)
	ctx := context.Background()

	form := validForm("paypal")
	form.Email = ""
	require.NoError(t, h.checkout.UpdateForm(ctx, form))

	err := h.wallet.Click(ctx, payment.Approve)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFormInvalid)

	w := h.checkout.Wallet()
	assert.Equal(t, WalletFailed, w.State())
	assert.Contains(t, h.presenter.Notices(), Notice{Level: NoticeError, Message: MsgWalletFormIncomplete})
	assert.Equal(t, Notice{Level: NoticeError, Message: MsgWalletFailed}, h.presenter.LastNotice())
	assert.Empty(t, h.history.List(ctx))
	assert.Len(t, h.carts.GetCart(ctx), 1)

	// button comes back after the retry delay
	assert.Equal(t, []time.Duration{3 * time.Second}, h.scheduler.Pending())
	renders := h.wallet.Renders()
	h.scheduler.Fire()
	assert.Equal(t, WalletButtonRendered, w.State())
	assert.Equal(t, renders+1, h.wallet.Renders())
}

func TestWallet_CaptureFailure(t *testing.T) {
	h := walletReady(t)
	ctx := context.Background()
	h.wallet.CaptureErr = &payment.SDKError{Code: "INSTRUMENT_DECLINED", Message: "instrument declined"}

	err := h.wallet.Click(ctx, payment.Approve)
	require.Error(t, err)

	assert.Equal(t, WalletFailed, h.checkout.Wallet().State())
	assert.Nil(t, h.checkout.Wallet().Order())
	assert.Len(t, h.carts.GetCart(ctx), 1)
	assert.Empty(t, h.history.List(ctx))
	assert.Equal(t, []time.Duration{3 * time.Second}, h.scheduler.Pending())
}

func TestWallet_CancelReturnsToButton(t *testing.T) {
	h := walletReady(t)
	ctx := context.Background()

	require.NoError(t, h.wallet.Click(ctx, payment.Cancel))
	assert.Equal(t, WalletButtonRendered, h.checkout.Wallet().State())
	assert.Equal(t, Notice{Level: NoticeInfo, Message: MsgWalletCancelled}, h.presenter.LastNotice())
	assert.Empty(t, h.scheduler.Pending())

	// the same button still works
	require.NoError(t, h.wallet.Click(ctx, payment.Approve))
	assert.Equal(t, WalletCompleted, h.checkout.Wallet().State())
	assert.Len(t, h.history.List(ctx), 1)
}

func TestWallet_ShippingChangeRerenders(t *testing.T) {
	h := walletReady(t)
	ctx := context.Background()
	w := h.checkout.Wallet()
	oldGen := w.generation
	renders := h.wallet.Renders()

	require.NoError(t, h.checkout.SelectShipping(ctx, "express"))
	assert.Equal(t, renders+1, h.wallet.Renders())
	assert.Equal(t, WalletButtonRendered, w.State())

	// callbacks from the replaced button are refused
	actions := &payment.MockOrderActions{}
	_, err := w.createOrder(ctx, oldGen, actions)
	assert.ErrorIs(t, err, ErrStaleButton)
	assert.ErrorIs(t, w.approve(ctx, oldGen, payment.ApproveData{OrderID: "X"}, actions), ErrStaleButton)
	actions.AssertNotCalled(t, "Create")
	actions.AssertNotCalled(t, "Capture")

	// the new button charges the express amount: 40 + 25 + 4
	h.wallet.NextCaptureID = "PAY-EXPRESS"
	require.NoError(t, h.wallet.Click(ctx, payment.Approve))
	assert.Equal(t, "69.00", pricing.Fixed(w.Order().Payment.Amount))
}

func TestWallet_SameShippingDoesNotRerender(t *testing.T) {
	h := walletReady(t)
	renders := h.wallet.Renders()

	require.NoError(t, h.checkout.SelectShipping(context.Background(), "standard"))
	assert.Equal(t, renders, h.wallet.Renders())
}

func TestWallet_InvalidateWhileCapturing(t *testing.T) {
	h := walletReady(t)
	w := h.checkout.Wallet()

	w.mu.Lock()
	w.state = WalletCapturing
	w.mu.Unlock()

	assert.ErrorIs(t, w.Invalidate(context.Background()), ErrBusy)
	assert.ErrorIs(t, w.Render(context.Background()), ErrBusy)
}

func TestWallet_EmptyCart(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.checkout.SelectPayment(ctx, "paypal"))
	assert.Equal(t, WalletEmptyCart, h.checkout.Wallet().State())
	views := h.presenter.WalletViews()
	require.NotEmpty(t, views)
	assert.Equal(t, WalletViewEmptyCart, views[len(views)-1])
	assert.Equal(t, 0, h.wallet.Renders())
}

func TestWallet_SDKUnavailable(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.add(t, "A", "$20.00", 1)

	deps := h.deps()
	deps.WalletSDK = nil
	c := New(deps)

	err := c.SelectPayment(ctx, "paypal")
	assert.ErrorIs(t, err, ErrSDKUnavailable)
	assert.Equal(t, WalletUnavailable, c.Wallet().State())
	assert.Equal(t, Notice{Level: NoticeWarning, Message: MsgWalletUnavailable}, h.presenter.LastNotice())
}

func TestWallet_SwitchingToCardStopsRetry(t *testing.T) {
	h := walletReady(t)
	ctx := context.Background()
	h.wallet.CaptureErr = errors.New("capture timeout")

	require.Error(t, h.wallet.Click(ctx, payment.Approve))
	require.Len(t, h.scheduler.Pending(), 1)

	require.NoError(t, h.checkout.SelectPayment(ctx, "stripe"))
	assert.Equal(t, WalletIdle, h.checkout.Wallet().State())
	assert.Empty(t, h.scheduler.Pending())
	views := h.presenter.WalletViews()
	assert.Equal(t, WalletViewHidden, views[len(views)-1])
}

func TestWallet_PlaceOrderPointsAtButton(t *testing.T) {
	h := walletReady(t)

	order, err := h.checkout.PlaceOrder(context.Background())
	assert.Nil(t, order)
	assert.ErrorIs(t, err, ErrUseWalletButton)
	assert.Equal(t, Notice{Level: NoticeInfo, Message: MsgUseWalletButton}, h.presenter.LastNotice())
}

func TestWalletState_String(t *testing.T) {
	assert.Equal(t, "awaiting approval", WalletAwaitingApproval.String())
	assert.Equal(t, "WalletState(42)", WalletState(42).String())
}

func TestWallet_OrderRequestFollowsCartChangesAfterRender(t *testing.T) {
	h := walletReady(t)
	ctx := context.Background()

	// the button was rendered for $40.00 of goods; the cart grows afterwards
	_, err := h.carts.AddItem(ctx, cart.Candidate{Title: "B", Price: "$10.00"})
	require.NoError(t, err)

	actions := &payment.MockOrderActions{}
	var captured payment.OrderRequest
	actions.On("Create", ctx, mockAnyRequest(&captured)).Return("ORDER-2", nil)

	w := h.checkout.Wallet()
	_, err = w.createOrder(ctx, w.generation, actions)
	require.NoError(t, err)

	require.Len(t, captured.PurchaseUnits, 1)
	amount := captured.PurchaseUnits[0].Amount
	assert.Equal(t, "50.00", amount.Breakdown.ItemTotal.Value)
	assert.Equal(t, "5.00", amount.Breakdown.TaxTotal.Value)
	assert.Equal(t, "10.00", amount.Breakdown.Shipping.Value)
	assert.Equal(t, "65.00", amount.Value)
	assert.Len(t, captured.PurchaseUnits[0].Items, 2)

	check := pricing.CheckBreakdown(
		decimal.RequireFromString(amount.Breakdown.ItemTotal.Value),
		decimal.RequireFromString(amount.Breakdown.Shipping.Value),
		decimal.RequireFromString(amount.Breakdown.TaxTotal.Value),
		decimal.RequireFromString(amount.Value),
	)
	assert.True(t, check.Valid, check.Reason)
}
