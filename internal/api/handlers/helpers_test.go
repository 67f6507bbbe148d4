package handlers_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/storefront/internal/cart"
	"github.com/eshaffer321/storefront/internal/domain/pricing"
	"github.com/eshaffer321/storefront/internal/infrastructure/logging"
	"github.com/eshaffer321/storefront/internal/infrastructure/storage"
	"github.com/eshaffer321/storefront/internal/orders"
)

func newCartStore(t *testing.T) (*cart.Store, *storage.MockStore) {
	t.Helper()
	kv := storage.NewMockStore()
	return cart.NewStore(kv, logging.Discard()), kv
}

func addOrder(t *testing.T, h *orders.History, id, txn string, at time.Time) {
	t.Helper()
	err := h.Append(context.Background(), orders.Order{
		OrderID:  id,
		Customer: orders.Customer{Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace"},
		Shipping: orders.Shipping{City: "Springfield", Method: pricing.Standard},
		Payment: orders.Payment{
			Method:        orders.PaymentWallet,
			TransactionID: txn,
			Amount:        decimal.RequireFromString("54"),
			Subtotal:      decimal.RequireFromString("40"),
			Shipping:      decimal.RequireFromString("10"),
			Tax:           decimal.RequireFromString("4"),
		},
		Items: []cart.Item{{Key: "k1", Title: "A", Price: "$20.00", Quantity: 2, Size: "M", Color: "Black"}},
		Date:  at,
	})
	require.NoError(t, err)
}

// Helper to set chi URL param in context
func setChiURLParam(ctx context.Context, key, value string) context.Context {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return context.WithValue(ctx, chi.RouteCtxKey, rctx)
}
