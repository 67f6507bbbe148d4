package checkout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/storefront/internal/domain/pricing"
	"github.com/eshaffer321/storefront/internal/infrastructure/config"
	"github.com/eshaffer321/storefront/internal/payment"
)

func TestLoadSummary_EmptyCartBlocksCheckout(t *testing.T) {
	h := newHarness(t)

	summary, err := h.checkout.LoadSummary(context.Background())
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, summary.Items)
	assert.Equal(t, 0, h.presenter.CartCount())
	assert.Equal(t, Notice{Level: NoticeError, Message: MsgEmptyCart}, h.presenter.LastNotice())

	_, err = h.checkout.PlaceOrder(context.Background())
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, 0, h.card.Calls())
}

func TestLoadSummary_Totals(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.add(t, "A", "$20.00", 2)

	summary, err := h.checkout.LoadSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Count)
	assert.Equal(t, 2, h.presenter.CartCount())
	assert.Equal(t, "40.00", pricing.Fixed(summary.Totals.Subtotal))
	assert.Equal(t, "10.00", pricing.Fixed(summary.Totals.Shipping))
	assert.Equal(t, "4.00", pricing.Fixed(summary.Totals.Tax))
	assert.Equal(t, "54.00", pricing.Fixed(summary.Totals.Total))
}

func TestTotals_FollowShippingSelection(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.add(t, "A", "$20.00", 2)

	tests := []struct {
		method string
		total  string
	}{
		{"standard", "54.00"},
		{"express", "69.00"},
		{"overnight", "89.00"},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			require.NoError(t, h.checkout.SelectShipping(ctx, tt.method))
			totals, err := h.checkout.Totals(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.total, pricing.Fixed(totals.Total))
		})
	}
}

func TestSelectShipping_Unknown(t *testing.T) {
	h := newHarness(t)

	err := h.checkout.SelectShipping(context.Background(), "teleport")
	assert.ErrorIs(t, err, ErrFormInvalid)
	assert.Equal(t, Notice{Level: NoticeError, Message: MsgSelectShipping}, h.presenter.LastNotice())
}

func TestSelectPayment_Unknown(t *testing.T) {
	h := newHarness(t)

	err := h.checkout.SelectPayment(context.Background(), "cash")
	assert.ErrorIs(t, err, ErrFormInvalid)
	assert.Equal(t, Notice{Level: NoticeError, Message: MsgSelectPayment}, h.presenter.LastNotice())
}

func TestSelectPayment_CardMountsWidget(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.checkout.SelectPayment(context.Background(), "stripe"))
	assert.Equal(t, SessionMounted, h.checkout.Session().State())
	assert.True(t, h.card.Mounted(DefaultCardSelector))
	assert.Equal(t, "stripe", h.checkout.Form().PaymentMethod)
}

func TestCheckout_Close(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.checkout.SelectPayment(ctx, "stripe"))

	require.NoError(t, h.checkout.Close())
	assert.Equal(t, SessionTornDown, h.checkout.Session().State())
	assert.False(t, h.card.Mounted(DefaultCardSelector))

	// closing twice is harmless
	assert.NoError(t, h.checkout.Close())
}

func TestConfigFrom(t *testing.T) {
	cfg := &config.Config{}
	cfg.Payments.Card.PublishableKey = "pk_live_x"
	cfg.Payments.Wallet.RetryDelay = 0
	cfg.Checkout.BrandName = "ACME"

	c := ConfigFrom(cfg).withDefaults()
	assert.Equal(t, "pk_live_x", c.PublishableKey)
	assert.Equal(t, "ACME", c.BrandName)
	assert.Equal(t, "ACME - Fashion Purchase", c.Description)
	assert.Equal(t, "USD", c.Currency)
	assert.Equal(t, DefaultWalletSelector, c.WalletSelector)
	assert.Positive(t, c.RetryDelay)
}

func TestSession_Lifecycle(t *testing.T) {
	sdk := payment.NewSandboxCard()
	s := NewSession(sdk, nil, "pk_test_1", "")
	assert.Equal(t, SessionInitialized, s.State())

	require.NoError(t, s.Mount())
	require.NoError(t, s.Mount())
	assert.Equal(t, SessionMounted, s.State())
	assert.True(t, sdk.Mounted(DefaultCardSelector))

	_, err := s.Wallet()
	assert.ErrorIs(t, err, ErrSDKUnavailable)

	require.NoError(t, s.Teardown())
	assert.Equal(t, SessionTornDown, s.State())
	assert.False(t, sdk.Mounted(DefaultCardSelector))

	assert.ErrorIs(t, s.Teardown(), ErrInvalidTransition)
	assert.ErrorIs(t, s.Mount(), ErrInvalidTransition)
	_, _, err = s.Card()
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSession_BadPublishableKey(t *testing.T) {
	s := NewSession(payment.NewSandboxCard(), nil, "sk_secret", "")

	err := s.Mount()
	assert.ErrorIs(t, err, ErrSDKUnavailable)
	assert.Equal(t, SessionInitialized, s.State())
}
