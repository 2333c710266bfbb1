package orders

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Chative-storefront/server/internal/shop/model"
)

// Tab is an order list filter as shown on the orders page.
type Tab string

const (
	TabAll      Tab = "全部"
	TabPending  Tab = "待接单"
	TabAccepted Tab = "已接单"
	TabShipped  Tab = "待收货"
)

var Tabs = []Tab{TabAll, TabPending, TabAccepted, TabShipped}

const numberPrefix = "SO-"

// Book is the order history, newest first. Not safe for concurrent use.
type Book struct {
	orders []model.Order
	now    func() time.Time
}

// NewBook returns an empty book. A nil clock means time.Now.
func NewBook(now func() time.Time) *Book {
	if now == nil {
		now = time.Now
	}
	return &Book{now: now}
}

// NewSeededBook returns a book holding the sample order history.
func NewSeededBook(now func() time.Time) *Book {
	b := NewBook(now)
	b.orders = SeedOrders()
	return b
}

// Record stores a pending order for lines and returns it. Empty lines are
// rejected with ok=false.
func (b *Book) Record(lines []model.OrderLine) (model.Order, bool) {
	if len(lines) == 0 {
		return model.Order{}, false
	}
	now := b.now()
	o := model.Order{
		Number:    b.nextNumber(now),
		CreatedAt: now,
		Status:    model.StatusPending,
		Lines:     append([]model.OrderLine(nil), lines...),
	}
	b.orders = append([]model.Order{o}, b.orders...)
	return cloneOrder(o), true
}

// nextNumber picks SO-YYYYMMDD-NNN, one past the highest sequence of that day.
func (b *Book) nextNumber(now time.Time) string {
	day := numberPrefix + now.Format("20060102") + "-"
	max := 0
	for _, o := range b.orders {
		if !strings.HasPrefix(o.Number, day) {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimPrefix(o.Number, day)); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%03d", day, max+1)
}

// Filter returns copies of the orders visible under tab. Unknown tabs show all.
func (b *Book) Filter(tab Tab) []model.Order {
	var status model.OrderStatus
	switch tab {
	case TabPending:
		status = model.StatusPending
	case TabAccepted:
		status = model.StatusAccepted
	case TabShipped:
		status = model.StatusShipped
	}
	out := make([]model.Order, 0, len(b.orders))
	for _, o := range b.orders {
		if status == "" || o.Status == status {
			out = append(out, cloneOrder(o))
		}
	}
	return out
}

func (b *Book) Find(number string) (model.Order, bool) {
	for _, o := range b.orders {
		if o.Number == number {
			return cloneOrder(o), true
		}
	}
	return model.Order{}, false
}

// UpdateLineQuantity edits a line of a pending order; quantities floor at 0.
// Orders in any other status cannot be edited.
func (b *Book) UpdateLineQuantity(number string, index, delta int) bool {
	for i := range b.orders {
		o := &b.orders[i]
		if o.Number != number {
			continue
		}
		if o.Status != model.StatusPending || index < 0 || index >= len(o.Lines) {
			return false
		}
		lines := append([]model.OrderLine(nil), o.Lines...)
		lines[index].Quantity = max(0, lines[index].Quantity+delta)
		o.Lines = lines
		return true
	}
	return false
}

func cloneOrder(o model.Order) model.Order {
	o.Lines = append([]model.OrderLine(nil), o.Lines...)
	return o
}
