package payment

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mountedCard(t *testing.T, sdk *SandboxCard) (CardClient, CardElement) {
	t.Helper()
	client, err := sdk.NewClient("pk_test_sandbox")
	require.NoError(t, err)
	el, err := client.Elements().Create("card", ElementOptions{HidePostalCode: true})
	require.NoError(t, err)
	require.NoError(t, el.Mount("#card-element"))
	return client, el
}

func TestSandboxCard_Tokenize(t *testing.T) {
	ctx := context.Background()
	sdk := NewSandboxCard()
	client, el := mountedCard(t, sdk)

	billing := BillingDetails{Name: "Ada Lovelace", Email: "ada@example.com"}
	res, err := client.CreatePaymentMethod(ctx, "card", el, billing)
	require.NoError(t, err)
	require.Nil(t, res.Error)
	require.NotNil(t, res.PaymentMethod)
	assert.Regexp(t, `^pm_[0-9a-f]{24}$`, res.PaymentMethod.ID)
	assert.Equal(t, billing, res.PaymentMethod.BillingDetails)
	assert.Equal(t, 1, sdk.Calls())
	assert.True(t, sdk.Mounted("#card-element"))
}

func TestSandboxCard_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("declined", func(t *testing.T) {
		sdk := NewSandboxCard()
		sdk.EnterCard("4000 0000 0000 0002")
		client, el := mountedCard(t, sdk)

		res, err := client.CreatePaymentMethod(ctx, "card", el, BillingDetails{})
		require.NoError(t, err)
		require.NotNil(t, res.Error)
		assert.Nil(t, res.PaymentMethod)
		assert.Equal(t, "Your card was declined.", res.Error.Message)
	})

	t.Run("incomplete", func(t *testing.T) {
		sdk := NewSandboxCard()
		sdk.EnterCard("")
		client, el := mountedCard(t, sdk)

		res, err := client.CreatePaymentMethod(ctx, "card", el, BillingDetails{})
		require.NoError(t, err)
		assert.Equal(t, "incomplete_number", res.Error.Code)
	})

	t.Run("unmounted", func(t *testing.T) {
		sdk := NewSandboxCard()
		client, el := mountedCard(t, sdk)
		require.NoError(t, el.Unmount())

		res, err := client.CreatePaymentMethod(ctx, "card", el, BillingDetails{})
		require.NoError(t, err)
		assert.Equal(t, "element_not_mounted", res.Error.Code)
		assert.False(t, sdk.Mounted("#card-element"))
	})

	t.Run("unavailable", func(t *testing.T) {
		sdk := NewSandboxCard()
		sdk.Unavailable = true
		_, err := sdk.NewClient("pk_test_sandbox")
		assert.Error(t, err)
	})

	t.Run("bad key", func(t *testing.T) {
		_, err := NewSandboxCard().NewClient("sk_live_oops")
		assert.Error(t, err)
	})
}

func validRequest() OrderRequest {
	usd := func(v string) Money { return Money{CurrencyCode: "USD", Value: v} }
	return OrderRequest{
		Intent: IntentCapture,
		PurchaseUnits: []PurchaseUnit{{
			Description: "test",
			Amount: Amount{
				Money:     usd("54.00"),
				Breakdown: Breakdown{ItemTotal: usd("40.00"), Shipping: usd("10.00"), TaxTotal: usd("4.00")},
			},
			Items: []LineItem{{Name: "A", UnitAmount: usd("20.00"), Quantity: "2", Category: CategoryPhysicalGoods}},
		}},
	}
}

func TestSandboxWallet_ApproveAndCapture(t *testing.T) {
	ctx := context.Background()
	w := NewSandboxWallet()
	w.NextCaptureID = "PAY123"

	var captured *CaptureDetails
	var createdID string
	buttons := w.Buttons(ButtonsConfig{
		CreateOrder: func(ctx context.Context, _ CreateOrderData, actions OrderActions) (string, error) {
			id, err := actions.Create(ctx, validRequest())
			createdID = id
			return id, err
		},
		OnApprove: func(ctx context.Context, data ApproveData, actions OrderActions) error {
			details, err := actions.Capture(ctx, data.OrderID)
			captured = details
			return err
		},
		OnError: func(err error) { t.Fatalf("unexpected error: %v", err) },
	})
	require.NoError(t, buttons.Render(ctx, "#paypal-button-container"))
	assert.Equal(t, 1, w.Renders())

	require.NoError(t, w.Click(ctx, Approve))
	require.NotNil(t, captured)
	assert.Equal(t, "PAY123", captured.ID)
	assert.Equal(t, CaptureStatusCompleted, captured.Status)

	req, ok := w.Order(createdID)
	require.True(t, ok)
	assert.Equal(t, "54.00", req.PurchaseUnits[0].Amount.Value)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(captured.JSON(), &payload))
	assert.Equal(t, "PAY123", payload["id"])
}

func TestSandboxWallet_RejectsMismatchedBreakdown(t *testing.T) {
	req := validRequest()
	req.PurchaseUnits[0].Amount.Value = "60.00"

	_, err := sandboxActions{wallet: NewSandboxWallet()}.Create(context.Background(), req)
	var sdkErr *SDKError
	require.ErrorAs(t, err, &sdkErr)
	assert.Equal(t, "AMOUNT_MISMATCH", sdkErr.Code)
}

func TestSandboxWallet_CreateOrderErrorGoesToOnError(t *testing.T) {
	ctx := context.Background()
	w := NewSandboxWallet()
	boom := errors.New("Form validation failed")

	var got error
	b := w.Buttons(ButtonsConfig{
		CreateOrder: func(context.Context, CreateOrderData, OrderActions) (string, error) { return "", boom },
		OnApprove:   func(context.Context, ApproveData, OrderActions) error { t.Fatal("must not approve"); return nil },
		OnError:     func(err error) { got = err },
	})
	require.NoError(t, b.Render(ctx, "#paypal"))

	assert.ErrorIs(t, w.Click(ctx, Approve), boom)
	assert.ErrorIs(t, got, boom)
}

func TestSandboxWallet_Cancel(t *testing.T) {
	ctx := context.Background()
	w := NewSandboxWallet()

	cancelled := false
	b := w.Buttons(ButtonsConfig{
		CreateOrder: func(ctx context.Context, _ CreateOrderData, a OrderActions) (string, error) {
			return a.Create(ctx, validRequest())
		},
		OnApprove: func(context.Context, ApproveData, OrderActions) error { t.Fatal("must not approve"); return nil },
		OnCancel:  func(CancelData) { cancelled = true },
	})
	require.NoError(t, b.Render(ctx, "#paypal"))
	require.NoError(t, w.Click(ctx, Cancel))
	assert.True(t, cancelled)
}

func TestSandboxWallet_ClosedButtonsAreInactive(t *testing.T) {
	ctx := context.Background()
	w := NewSandboxWallet()
	b := w.Buttons(ButtonsConfig{
		CreateOrder: func(context.Context, CreateOrderData, OrderActions) (string, error) { return "", nil },
		OnApprove:   func(context.Context, ApproveData, OrderActions) error { return nil },
	})
	require.NoError(t, b.Render(ctx, "#paypal"))
	require.NoError(t, b.Close())

	assert.Error(t, w.Click(ctx, Approve))
	assert.Error(t, b.Render(ctx, "#paypal"))
}
