// Package cart implements the Cart Store: the canonical, persisted list of
// line items a shopper has selected.
//
// The cart is stored as one JSON array under the "cart" key. Reading never
// fails: a missing key is an empty cart, and a blob that does not decode is
// logged, removed, and treated as empty. Writes report success as a bool.
//
// Items are addressed either by position (the order the shopper sees) or by
// their stable Key. Positions shift after removals; keys do not.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eshaffer321/storefront/internal/domain/pricing"
	"github.com/eshaffer321/storefront/internal/infrastructure/storage"
)

// StorageKey is where the cart blob lives.
const StorageKey = "cart"

// Defaults applied to items added without a size or color.
const (
	DefaultSize  = "M"
	DefaultColor = "Black"
)

var (
	// ErrItemNotFound is returned when no item has the requested key.
	ErrItemNotFound = errors.New("cart item not found")

	// ErrIndexOutOfRange is returned for a position outside the cart.
	ErrIndexOutOfRange = errors.New("cart index out of range")

	// ErrNotSaved is returned by mutations whose write was refused by storage.
	ErrNotSaved = errors.New("cart could not be saved")

	// ErrInvalidItem is returned when a candidate cannot become a cart line.
	ErrInvalidItem = errors.New("invalid cart item")
)

// Item is one line in the cart.
type Item struct {
	// ID is the creation time in unix milliseconds. Not unique.
	ID int64 `json:"id"`

	// Key is a stable opaque handle for the line.
	Key string `json:"key"`

	// Title identifies the product; adding the same title again bumps quantity.
	Title    string `json:"title"`
	Price    string `json:"price"`
	Image    string `json:"image"`
	Quantity int    `json:"quantity"`
	Size     string `json:"size"`
	Color    string `json:"color"`
}

// Candidate is a product being added to the cart.
type Candidate struct {
	Title string
	Price string
	Image string
	Size  string
	Color string
}

// Store is the Cart Store.
type Store struct {
	kv     storage.Store
	logger *slog.Logger

	// mu serializes read-modify-write within this process. Separate processes
	// sharing a backend remain last-writer-wins.
	mu sync.Mutex

	now    func() time.Time
	newKey func() string
}

// NewStore creates a Cart Store over kv.
func NewStore(kv storage.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		kv:     kv,
		logger: logger,
		now:    time.Now,
		newKey: func() string { return uuid.NewString() },
	}
}

// GetCart returns the current items in insertion order. It never fails.
func (s *Store) GetCart(ctx context.Context) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// SaveCart replaces the persisted cart. It reports false if storage refused the write.
func (s *Store) SaveCart(ctx context.Context, items []Item) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, items)
}

// AddItem adds one unit of c. An existing line with the same title (exact,
// case-sensitive) gets its quantity incremented; otherwise a new line is
// appended with quantity 1.
func (s *Store) AddItem(ctx context.Context, c Candidate) (Item, error) {
	if strings.TrimSpace(c.Title) == "" {
		return Item{}, fmt.Errorf("%w: title is required", ErrInvalidItem)
	}
	if _, err := pricing.ParsePrice(c.Price); err != nil {
		return Item{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.read(ctx)
	if err != nil {
		return Item{}, err
	}
	for i := range items {
		if items[i].Title == c.Title {
			items[i].Quantity++
			if !s.save(ctx, items) {
				return Item{}, ErrNotSaved
			}
			s.logger.Info("cart quantity increased", "title", c.Title, "quantity", items[i].Quantity)
			return items[i], nil
		}
	}

	item := Item{
		ID:       s.now().UnixMilli(),
		Key:      s.newKey(),
		Title:    c.Title,
		Price:    c.Price,
		Image:    c.Image,
		Quantity: 1,
		Size:     orDefault(c.Size, DefaultSize),
		Color:    orDefault(c.Color, DefaultColor),
	}
	items = append(items, item)
	if !s.save(ctx, items) {
		return Item{}, ErrNotSaved
	}
	s.logger.Info("cart item added", "title", item.Title, "key", item.Key)
	return item, nil
}

// UpdateQuantity sets the quantity of the line at index. Values below 1 are clamped to 1.
func (s *Store) UpdateQuantity(ctx context.Context, index, quantity int) (Item, error) {
	return s.mutateAt(ctx, func(items []Item) (int, error) {
		if index < 0 || index >= len(items) {
			return -1, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(items))
		}
		return index, nil
	}, quantity)
}

// UpdateQuantityByKey sets the quantity of the line with key. Values below 1 are clamped to 1.
func (s *Store) UpdateQuantityByKey(ctx context.Context, key string, quantity int) (Item, error) {
	return s.mutateAt(ctx, func(items []Item) (int, error) {
		return indexOf(items, key)
	}, quantity)
}

// RemoveItem removes the line at index. Callers must re-read the cart before
// using another index.
func (s *Store) RemoveItem(ctx context.Context, index int) (Item, error) {
	return s.removeAt(ctx, func(items []Item) (int, error) {
		if index < 0 || index >= len(items) {
			return -1, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(items))
		}
		return index, nil
	})
}

// RemoveItemByKey removes the line with key.
func (s *Store) RemoveItemByKey(ctx context.Context, key string) (Item, error) {
	return s.removeAt(ctx, func(items []Item) (int, error) {
		return indexOf(items, key)
	})
}

// Clear deletes the persisted cart key. It reports false if storage refused.
func (s *Store) Clear(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(ctx, StorageKey); err != nil {
		s.logger.Warn("failed to clear cart", "error", err)
		return false
	}
	s.logger.Debug("cart cleared")
	return true
}

// Count is the total number of units across all lines (the header badge).
func (s *Store) Count(ctx context.Context) int {
	return CountItems(s.GetCart(ctx))
}

// Lines returns the cart in the form pricing needs.
func (s *Store) Lines(ctx context.Context) []pricing.Line {
	return ToLines(s.GetCart(ctx))
}

// CountItems sums quantities.
func CountItems(items []Item) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

// ToLines converts items to pricing lines.
func ToLines(items []Item) []pricing.Line {
	lines := make([]pricing.Line, len(items))
	for i, it := range items {
		lines[i] = pricing.Line{Price: it.Price, Quantity: it.Quantity}
	}
	return lines
}

func (s *Store) mutateAt(ctx context.Context, locate func([]Item) (int, error), quantity int) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.read(ctx)
	if err != nil {
		return Item{}, err
	}
	i, err := locate(items)
	if err != nil {
		return Item{}, err
	}
	if quantity < 1 {
		quantity = 1
	}
	items[i].Quantity = quantity
	if !s.save(ctx, items) {
		return Item{}, ErrNotSaved
	}
	return items[i], nil
}

func (s *Store) removeAt(ctx context.Context, locate func([]Item) (int, error)) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.read(ctx)
	if err != nil {
		return Item{}, err
	}
	i, err := locate(items)
	if err != nil {
		return Item{}, err
	}
	removed := items[i]
	items = append(items[:i], items[i+1:]...)
	if !s.save(ctx, items) {
		return Item{}, ErrNotSaved
	}
	s.logger.Info("cart item removed", "title", removed.Title, "key", removed.Key)
	return removed, nil
}

// load must be called with mu held.
func (s *Store) load(ctx context.Context) []Item {
	items, err := s.read(ctx)
	if err != nil {
		s.logger.Warn("error reading cart", "error", err)
		return []Item{}
	}
	return items
}

// read is load for mutations: a storage read error is returned instead of
// an empty cart, so the following save cannot overwrite lines it never saw.
func (s *Store) read(ctx context.Context) ([]Item, error) {
	raw, err := s.kv.Get(ctx, StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return []Item{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}

	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		s.logger.Warn("cart is corrupt, discarding", "error", err, "bytes", len(raw))
		if derr := s.kv.Delete(ctx, StorageKey); derr != nil {
			s.logger.Warn("failed to remove corrupt cart", "error", derr)
		}
		return []Item{}, nil
	}
	if items == nil {
		return []Item{}, nil
	}

	repaired := false
	for i := range items {
		if items[i].Key == "" {
			items[i].Key = repairKey(i, items[i])
			repaired = true
		}
		if items[i].Quantity < 1 {
			items[i].Quantity = 1
			repaired = true
		}
	}
	if repaired && !s.save(ctx, items) {
		s.logger.Warn("repaired cart not persisted, repairing again on next read", "items", len(items))
	}
	return items, nil
}

// repairKey derives a key for a stored line that has none. It depends only on
// what is stored, so a read that cannot persist the repair yields the same key
// on the next read.
func repairKey(i int, it Item) string {
	name := fmt.Sprintf("%d:%d:%s", i, it.ID, it.Title)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}

// save must be called with mu held.
func (s *Store) save(ctx context.Context, items []Item) bool {
	if items == nil {
		items = []Item{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		s.logger.Error("error encoding cart", "error", err)
		return false
	}
	if err := s.kv.Set(ctx, StorageKey, raw); err != nil {
		s.logger.Warn("error saving cart", "error", err)
		return false
	}
	return true
}

func indexOf(items []Item, key string) (int, error) {
	for i, it := range items {
		if it.Key == key {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrItemNotFound, key)
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
