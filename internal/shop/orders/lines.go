package orders

import "github.com/Chative-storefront/server/internal/shop/model"

// LinesFromCart turns cart lines into order lines priced at the cart snapshot.
func LinesFromCart(items []model.CartItem) []model.OrderLine {
	out := make([]model.OrderLine, 0, len(items))
	for _, it := range items {
		out = append(out, model.OrderLine{
			ProductID: it.ProductID,
			Name:      it.Product.Name,
			Price:     it.Product.Price,
			Quantity:  it.Quantity,
			Unit:      it.Product.Unit,
		})
	}
	return out
}

// LinesFromDraft resolves draft items against the catalog. Unknown products
// keep their id as the name and a zero price.
func LinesFromDraft(items []model.OrderItem, lookup func(id string) (model.Product, bool)) []model.OrderLine {
	out := make([]model.OrderLine, 0, len(items))
	for _, it := range items {
		line := model.OrderLine{ProductID: it.ProductID, Name: it.ProductID, Quantity: it.Quantity}
		if p, ok := lookup(it.ProductID); ok {
			line.Name = p.Name
			line.Price = p.Price
			line.Unit = p.Unit
		}
		out = append(out, line)
	}
	return out
}
