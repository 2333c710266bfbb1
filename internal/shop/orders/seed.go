package orders

import (
	"time"

	"github.com/Chative-storefront/server/internal/shop/model"
)

var shanghai = time.FixedZone("CST", 8*60*60)

func seedTime(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, shanghai)
}

// SeedOrders returns the sample order history shown on a fresh orders page.
func SeedOrders() []model.Order {
	return []model.Order{
		{
			Number:    "SO-20240226-001",
			CreatedAt: seedTime(2024, time.February, 26, 10, 0),
			Status:    model.StatusPending,
			Lines: []model.OrderLine{
				{ProductID: "1", Name: "可口可乐 330ml 罐装", Price: 45, Quantity: 50, Unit: "箱"},
				{ProductID: "3", Name: "乐事原味薯片", Price: 65, Quantity: 20, Unit: "盒"},
			},
		},
		{
			Number:    "SO-20240225-001",
			CreatedAt: seedTime(2024, time.February, 25, 14, 30),
			Status:    model.StatusAccepted,
			Lines: []model.OrderLine{
				{ProductID: "5", Name: "农夫山泉矿泉水", Price: 28, Quantity: 100, Unit: "箱"},
				{ProductID: "2", Name: "百事可乐 330ml 罐装", Price: 44, Quantity: 10, Unit: "箱"},
				{ProductID: "6", Name: "奥利奥原味饼干", Price: 85, Quantity: 5, Unit: "箱"},
			},
		},
		{Number: "SO-20240224-089", CreatedAt: seedTime(2024, time.February, 24, 9, 15), Status: model.StatusShipped, SummaryTotal: 12800.50, SummaryCount: 12},
		{Number: "SO-20240222-112", CreatedAt: seedTime(2024, time.February, 22, 16, 45), Status: model.StatusCompleted, SummaryTotal: 560, SummaryCount: 2},
		{Number: "SO-20240220-055", CreatedAt: seedTime(2024, time.February, 20, 11, 20), Status: model.StatusCancelled, SummaryTotal: 2100, SummaryCount: 5},
		{Number: "SO-20240218-033", CreatedAt: seedTime(2024, time.February, 18, 10, 0), Status: model.StatusCompleted, SummaryTotal: 4500, SummaryCount: 8},
	}
}
