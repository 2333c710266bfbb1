package catalog

import (
	"strings"

	"github.com/Chative-storefront/server/internal/shop/model"
)

const (
	CategoryAll         = "全部"
	CategoryPurchased   = "买过"
	CategoryRecommended = "推荐"

	// featuredCount is how many products the purchased/recommended tabs show.
	featuredCount = 4

	defaultSearchResults = 10
	maxSearchResults     = 20
	lowStockThreshold    = 5
)

type StockLevel string

const (
	StockOut    StockLevel = "out"
	StockLow    StockLevel = "low"
	StockNormal StockLevel = "normal"
)

// Catalog is a read-only product list.
type Catalog struct {
	products []model.Product
	byID     map[string]model.Product
}

// New builds a catalog over products. Later duplicates of an id are ignored.
func New(products []model.Product) *Catalog {
	c := &Catalog{byID: make(map[string]model.Product, len(products))}
	for _, p := range products {
		if _, dup := c.byID[p.ID]; dup {
			continue
		}
		c.byID[p.ID] = p
		c.products = append(c.products, p)
	}
	return c
}

// Default returns the built-in wholesale catalog.
func Default() *Catalog {
	return New(MockProducts)
}

func (c *Catalog) All() []model.Product {
	return append([]model.Product(nil), c.products...)
}

func (c *Catalog) Lookup(id string) (model.Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Categories returns the shop tabs in display order.
func (c *Catalog) Categories() []string {
	return []string{CategoryAll, CategoryPurchased, CategoryRecommended, "铜饰品", "空托", "足金", "K金", "钻石"}
}

// Filter returns the products shown under a shop tab.
func (c *Catalog) Filter(category string) []model.Product {
	switch category {
	case "", CategoryAll:
		return c.All()
	case CategoryPurchased, CategoryRecommended:
		n := min(featuredCount, len(c.products))
		return append([]model.Product(nil), c.products[:n]...)
	}

	var out []model.Product
	for _, p := range c.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Search matches query against name and category, case-insensitively.
// An optional category narrows the result; maxResults defaults to 10 and is
// capped at 20.
func (c *Catalog) Search(query, category string, maxResults int) []model.Product {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	if maxResults <= 0 {
		maxResults = defaultSearchResults
	}
	maxResults = min(maxResults, maxSearchResults)

	var matched []model.Product
	for _, p := range c.products {
		if !strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Category), query) {
			continue
		}
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		matched = append(matched, p)
		if len(matched) == maxResults {
			break
		}
	}
	return matched
}

// Stock classifies inventory for display. It never blocks a purchase.
func Stock(p model.Product) StockLevel {
	switch {
	case p.Inventory <= 0:
		return StockOut
	case p.Inventory <= lowStockThreshold:
		return StockLow
	default:
		return StockNormal
	}
}
