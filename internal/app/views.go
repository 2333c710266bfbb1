package app

import (
	"time"

	"github.com/Chative-storefront/server/internal/shop/catalog"
	"github.com/Chative-storefront/server/internal/shop/model"
	"github.com/Chative-storefront/server/internal/shop/orders"
)

// CartView is a read-only snapshot of the cart.
type CartView struct {
	Items       []model.CartItem
	TotalAmount float64
	TotalItems  int
}

// SessionSummary is one row of the session history list.
type SessionSummary struct {
	ID         string
	Title      string
	CreatedAt  time.Time
	Messages   int
	Active     bool
	Processing bool
}

func (e *Engine) Cart() CartView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return CartView{
		Items:       append([]model.CartItem(nil), e.cart.Items()...),
		TotalAmount: e.cart.TotalAmount(),
		TotalItems:  e.cart.TotalItems(),
	}
}

// QuantityInCart backs the per-product badge of the shop view.
func (e *Engine) QuantityInCart(productID string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cart.QuantityOf(productID)
}

// ActiveSession returns a deep copy of the visible session.
func (e *Engine) ActiveSession() *model.Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.log.Active().Clone()
}

func (e *Engine) Session(id string) (*model.Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.log.Session(id)
	if !ok {
		return nil, false
	}
	return s.Clone(), true
}

// Sessions lists every session, newest first.
func (e *Engine) Sessions() []SessionSummary {
	e.mu.Lock()
	defer e.mu.Unlock()
	activeID := e.log.Active().ID
	out := make([]SessionSummary, 0, len(e.log.Sessions()))
	for _, s := range e.log.Sessions() {
		out = append(out, SessionSummary{
			ID:         s.ID,
			Title:      s.Title,
			CreatedAt:  s.CreatedAt,
			Messages:   len(s.Messages),
			Active:     s.ID == activeID,
			Processing: s.Processing,
		})
	}
	return out
}

func (e *Engine) Orders(tab orders.Tab) []model.Order {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.orders.Filter(tab)
}

func (e *Engine) Order(number string) (model.Order, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.orders.Find(number)
}

// Catalog is immutable and safe to read without the engine lock.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}
