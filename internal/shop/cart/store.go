package cart

import (
	"github.com/Chative-storefront/server/internal/shop/model"
	logx "github.com/Chative-storefront/server/pkg/logger"
)

// Listener receives the cart contents after every mutation. Listeners run
// synchronously and must not mutate the store.
type Listener func(items []model.CartItem)

// Store holds the cart of one UI tree. It is not safe for concurrent use;
// the owning engine serializes access.
//
// Every mutation replaces the item slice instead of editing it, so snapshots
// handed out by Items stay valid.
type Store struct {
	items     []model.CartItem
	listeners []Listener
}

func NewStore() *Store {
	return &Store{}
}

// Subscribe registers l for change notifications.
func (s *Store) Subscribe(l Listener) {
	s.listeners = append(s.listeners, l)
}

// Add merges quantity into the existing line for product, or appends a new
// line. Inventory is not checked.
func (s *Store) Add(product model.Product, quantity int) {
	next := make([]model.CartItem, 0, len(s.items)+1)
	found := false
	for _, it := range s.items {
		if it.ProductID == product.ID {
			it.Quantity += quantity
			found = true
		}
		next = append(next, it)
	}
	if !found {
		next = append(next, model.CartItem{ProductID: product.ID, Quantity: quantity, Product: product})
	}
	s.replace(dropEmpty(next))

	logx.Debug().Str("product_id", product.ID).Int("quantity", quantity).Msg("cart add")
}

// Remove deletes the line for productID; missing ids are ignored.
func (s *Store) Remove(productID string) {
	if !s.has(productID) {
		return
	}
	next := make([]model.CartItem, 0, len(s.items))
	for _, it := range s.items {
		if it.ProductID != productID {
			next = append(next, it)
		}
	}
	s.replace(next)
}

// UpdateQuantity applies delta, clamping at zero. Lines reaching zero are
// removed; missing ids are ignored.
func (s *Store) UpdateQuantity(productID string, delta int) {
	if !s.has(productID) {
		return
	}
	next := make([]model.CartItem, 0, len(s.items))
	for _, it := range s.items {
		if it.ProductID == productID {
			it.Quantity = max(0, it.Quantity+delta)
		}
		next = append(next, it)
	}
	s.replace(dropEmpty(next))
}

func (s *Store) Clear() {
	s.replace(nil)
}

// Items returns the current lines. The slice must not be modified.
func (s *Store) Items() []model.CartItem {
	return s.items
}

// QuantityOf returns the quantity in the cart for productID, zero if absent.
func (s *Store) QuantityOf(productID string) int {
	for _, it := range s.items {
		if it.ProductID == productID {
			return it.Quantity
		}
	}
	return 0
}

func (s *Store) TotalAmount() float64 {
	var total float64
	for _, it := range s.items {
		total += it.Subtotal()
	}
	return total
}

func (s *Store) TotalItems() int {
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

func (s *Store) has(productID string) bool {
	for _, it := range s.items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}

func (s *Store) replace(next []model.CartItem) {
	s.items = next
	for _, l := range s.listeners {
		l(next)
	}
}

// dropEmpty enforces quantity > 0 on every line.
func dropEmpty(items []model.CartItem) []model.CartItem {
	out := items[:0]
	for _, it := range items {
		if it.Quantity > 0 {
			out = append(out, it)
		}
	}
	return out
}
