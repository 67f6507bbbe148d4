package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/storefront/internal/cart"
	"github.com/eshaffer321/storefront/internal/domain/pricing"
	"github.com/eshaffer321/storefront/internal/infrastructure/logging"
	"github.com/eshaffer321/storefront/internal/infrastructure/storage"
	"github.com/eshaffer321/storefront/internal/orders"
)

func newTestFinalizer(carts *cart.Store, history *orders.History, p Presenter, s Scheduler) *Finalizer {
	f := NewFinalizer(carts, history, p, s, Config{}.withDefaults(), logging.Discard())
	f.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return f
}

func TestFinalize_BuildsOrderFromFormAndCart(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.add(t, "A", "$20.00", 2)
	h.add(t, "B", "5", 1)

	f := newTestFinalizer(h.carts, h.history, h.presenter, h.scheduler)
	form := validForm("paypal")
	form.ShippingMethod = "overnight"

	order, err := f.Finalize(ctx, form, PaymentResult{
		Method:        orders.PaymentWallet,
		TransactionID: "PAY123",
		Details:       json.RawMessage(`{"id":"PAY123"}`),
	})
	require.NoError(t, err)

	assert.Equal(t, "NS-1700000000000", order.OrderID)
	assert.Equal(t, "ada@example.com", order.Customer.Email)
	assert.Equal(t, "Ada", order.Customer.FirstName)
	assert.Equal(t, pricing.Overnight, order.Shipping.Method)
	assert.Equal(t, "62701", order.Shipping.ZipCode)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, "45.00", pricing.Fixed(order.Payment.Subtotal))
	assert.Equal(t, "45.00", pricing.Fixed(order.Payment.Shipping))
	assert.Equal(t, "4.50", pricing.Fixed(order.Payment.Tax))
	assert.Equal(t, "94.50", pricing.Fixed(order.Payment.Amount))
	assert.JSONEq(t, `{"id":"PAY123"}`, string(order.Payment.Details))

	stored, err := h.history.Get(ctx, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "PAY123", stored.Payment.TransactionID)
	assert.Empty(t, h.carts.GetCart(ctx))
}

func TestFinalize_NotIdempotent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.add(t, "A", "$20.00", 1)

	f := NewFinalizer(h.carts, h.history, h.presenter, h.scheduler, Config{}.withDefaults(), logging.Discard())
	result := PaymentResult{Method: orders.PaymentCard, TransactionID: "pm_1"}

	_, err := f.Finalize(ctx, validForm("stripe"), result)
	require.NoError(t, err)
	_, err = f.Finalize(ctx, validForm("stripe"), result)
	require.NoError(t, err)

	assert.Len(t, h.history.List(ctx), 2)
	assert.Len(t, h.scheduler.Pending(), 2)
}

func TestFinalize_HistoryFailureStillClearsCart(t *testing.T) {
	ctx := context.Background()
	cartKV := storage.NewMemory(0)
	historyKV := storage.NewMockStore()
	historyKV.SetErr = storage.ErrQuotaExceeded

	carts := cart.NewStore(cartKV, logging.Discard())
	history := orders.NewHistory(historyKV, logging.Discard())
	_, err := carts.AddItem(ctx, cart.Candidate{Title: "A", Price: "$20.00"})
	require.NoError(t, err)

	p := NewRecorder()
	s := &ManualScheduler{}
	f := newTestFinalizer(carts, history, p, s)

	order, err := f.Finalize(ctx, validForm("stripe"), PaymentResult{Method: orders.PaymentCard, TransactionID: "pm_1"})
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Empty(t, carts.GetCart(ctx))
	assert.Empty(t, history.List(ctx))
	assert.Equal(t, 0, p.CartCount())
	assert.Equal(t, 1, s.Fire())
	assert.Len(t, p.Confirmations(), 1)
}

func TestConfirmation_Text(t *testing.T) {
	text := Confirmation{
		OrderID:     "NS-1",
		PaymentName: "PayPal",
		Total:       "54.00",
		Email:       "ada@example.com",
		BrandName:   "NIGHTFALL STAR",
	}.Text()

	assert.Contains(t, text, "Order Placed Successfully!")
	assert.Contains(t, text, "Order ID: NS-1")
	assert.Contains(t, text, "Payment: PayPal")
	assert.Contains(t, text, "Total: $54.00")
	assert.Contains(t, text, "ada@example.com")
	assert.Contains(t, text, "Thank you for shopping with NIGHTFALL STAR!")
}

func TestManualScheduler(t *testing.T) {
	s := &ManualScheduler{}
	var ran []string

	s.AfterFunc(time.Second, func() { ran = append(ran, "a") })
	stopped := s.AfterFunc(2*time.Second, func() { ran = append(ran, "b") })
	s.AfterFunc(3*time.Second, func() {
		ran = append(ran, "c")
		s.AfterFunc(time.Second, func() { ran = append(ran, "d") })
	})

	assert.True(t, stopped.Stop())
	assert.False(t, stopped.Stop())
	assert.Equal(t, []time.Duration{time.Second, 3 * time.Second}, s.Pending())

	assert.Equal(t, 2, s.Fire())
	assert.Equal(t, []string{"a", "c"}, ran)

	// calls scheduled while firing wait for the next Fire
	assert.Equal(t, 1, s.Fire())
	assert.Equal(t, []string{"a", "c", "d"}, ran)
	assert.Equal(t, 0, s.Fire())
}

func TestClockScheduler(t *testing.T) {
	done := make(chan struct{})
	ClockScheduler{}.AfterFunc(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal(errors.New("scheduled call did not run"))
	}
}
