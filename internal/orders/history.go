package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/eshaffer321/storefront/internal/infrastructure/storage"
)

// StorageKey is where the order history blob lives.
const StorageKey = "orders"

// ErrNotFound is returned by Get for an unknown order id.
var ErrNotFound = errors.New("order not found")

// History is the append-only list of placed orders.
type History struct {
	kv     storage.Store
	logger *slog.Logger
	mu     sync.Mutex
}

// NewHistory creates an Order History over kv.
func NewHistory(kv storage.Store, logger *slog.Logger) *History {
	if logger == nil {
		logger = slog.Default()
	}
	return &History{kv: kv, logger: logger}
}

// List returns all orders, oldest first. A missing or corrupt blob is empty,
// and so is a history that could not be read.
func (h *History) List(ctx context.Context) []Order {
	h.mu.Lock()
	defer h.mu.Unlock()
	list, err := h.load(ctx)
	if err != nil {
		h.logger.Warn("error reading order history", "error", err)
		return []Order{}
	}
	return list
}

// Get returns one order by id.
func (h *History) Get(ctx context.Context, orderID string) (*Order, error) {
	h.mu.Lock()
	list, err := h.load(ctx)
	h.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("read order history: %w", err)
	}
	for _, o := range list {
		if o.OrderID == orderID {
			o := o
			return &o, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, orderID)
}

// Append adds order to the end of the history. Appending the same order twice
// stores it twice. Nothing is written when the existing history cannot be
// read, so a storage outage never truncates it.
func (h *History) Append(ctx context.Context, order Order) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	list, err := h.load(ctx)
	if err != nil {
		return fmt.Errorf("read order history: %w", err)
	}
	list = append(list, order)
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode order history: %w", err)
	}
	if err := h.kv.Set(ctx, StorageKey, raw); err != nil {
		return fmt.Errorf("save order history: %w", err)
	}
	h.logger.Info("order recorded", "order_id", order.OrderID, "history_size", len(list))
	return nil
}

// load must be called with mu held. Only a missing key or an undecodable
// blob read as empty; storage errors are returned.
func (h *History) load(ctx context.Context) ([]Order, error) {
	raw, err := h.kv.Get(ctx, StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return []Order{}, nil
	}
	if err != nil {
		return nil, err
	}

	var list []Order
	if err := json.Unmarshal(raw, &list); err != nil {
		h.logger.Warn("order history is corrupt, treating as empty", "error", err)
		return []Order{}, nil
	}
	if list == nil {
		return []Order{}, nil
	}
	return list, nil
}
