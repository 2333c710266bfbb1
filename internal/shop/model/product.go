package model

// Product is an immutable catalog entry. Inventory is informational only and
// is never decremented by cart or order operations.
type Product struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Unit      string  `json:"unit"`
	Image     string  `json:"image"`
	Category  string  `json:"category"`
	Inventory int     `json:"inventory"`
}

// CartItem is a cart-scoped selection. Product is a denormalized snapshot
// taken when the item was first added.
type CartItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Product   Product `json:"product"`
}

// Subtotal returns price × quantity for the line.
func (c CartItem) Subtotal() float64 {
	return c.Product.Price * float64(c.Quantity)
}

// OrderItem is a message-scoped selection living inside a draft payload.
type OrderItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Confirmed bool   `json:"confirmed"`
}

// ProjectCart copies cart lines into unconfirmed order items.
func ProjectCart(items []CartItem) []OrderItem {
	out := make([]OrderItem, 0, len(items))
	for _, it := range items {
		out = append(out, OrderItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}
