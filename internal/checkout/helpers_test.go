package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/storefront/internal/cart"
	"github.com/eshaffer321/storefront/internal/infrastructure/logging"
	"github.com/eshaffer321/storefront/internal/infrastructure/storage"
	"github.com/eshaffer321/storefront/internal/orders"
	"github.com/eshaffer321/storefront/internal/payment"
)

type harness struct {
	kv        *storage.MockStore
	carts     *cart.Store
	history   *orders.History
	card      *payment.SandboxCard
	wallet    *payment.SandboxWallet
	presenter *Recorder
	scheduler *ManualScheduler
	checkout  *Checkout
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		kv:        storage.NewMockStore(),
		card:      payment.NewSandboxCard(),
		wallet:    payment.NewSandboxWallet(),
		presenter: NewRecorder(),
		scheduler: &ManualScheduler{},
	}
	h.carts = cart.NewStore(h.kv, logging.Discard())
	h.history = orders.NewHistory(h.kv, logging.Discard())
	h.checkout = New(h.deps())
	return h
}

func (h *harness) deps() Deps {
	return Deps{
		Carts:     h.carts,
		History:   h.history,
		CardSDK:   h.card,
		WalletSDK: h.wallet,
		Presenter: h.presenter,
		Scheduler: h.scheduler,
		Logger:    logging.Discard(),
		Config: Config{
			PublishableKey: "pk_test_sandbox",
			ConfirmDelay:   time.Second,
			RetryDelay:     3 * time.Second,
		},
	}
}

func (h *harness) add(t *testing.T, title, price string, times int) {
	t.Helper()
	for i := 0; i < times; i++ {
		_, err := h.carts.AddItem(context.Background(), cart.Candidate{Title: title, Price: price})
		require.NoError(t, err)
	}
}

func validForm(paymentMethod string) Form {
	return Form{
		Email:          "ada@example.com",
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Address:        "1 Analytical Way",
		Apartment:      "Suite 2",
		City:           "Springfield",
		State:          "IL",
		ZipCode:        "62701",
		Country:        "us",
		Phone:          "555-0100",
		ShippingMethod: "standard",
		PaymentMethod:  paymentMethod,
	}
}

// mockAnyRequest matches any order request and copies it into dst.
func mockAnyRequest(dst *payment.OrderRequest) interface{} {
	return mock.MatchedBy(func(req payment.OrderRequest) bool {
		*dst = req
		return true
	})
}
