package model

import "time"

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusAccepted  OrderStatus = "accepted"
	StatusShipped   OrderStatus = "shipped"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// Label returns the status caption shown on the order list.
func (s OrderStatus) Label() string {
	switch s {
	case StatusPending:
		return "待接单"
	case StatusAccepted:
		return "已接单"
	case StatusShipped:
		return "已发货"
	case StatusCompleted:
		return "已完成"
	case StatusCancelled:
		return "已取消"
	default:
		return string(s)
	}
}

type OrderLine struct {
	ProductID string  `json:"productId,omitempty"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Unit      string  `json:"unit"`
}

type Order struct {
	Number    string      `json:"number"`
	CreatedAt time.Time   `json:"createdAt"`
	Status    OrderStatus `json:"status"`
	Lines     []OrderLine `json:"lines"`
	// Seeded history orders only carry summary figures.
	SummaryTotal float64 `json:"summaryTotal,omitempty"`
	SummaryCount int     `json:"summaryCount,omitempty"`
}

// Total sums the order lines, falling back to the summary for seeded orders.
func (o Order) Total() float64 {
	if len(o.Lines) == 0 {
		return o.SummaryTotal
	}
	var total float64
	for _, l := range o.Lines {
		total += l.Price * float64(l.Quantity)
	}
	return total
}

// ItemCount returns the number of distinct lines.
func (o Order) ItemCount() int {
	if len(o.Lines) == 0 {
		return o.SummaryCount
	}
	return len(o.Lines)
}
