package catalog

import "github.com/Chative-storefront/server/internal/shop/model"

const imageBase = "https://images.unsplash.com/"

// MockProducts is the static wholesale catalog.
var MockProducts = []model.Product{
	{ID: "1", Name: "可口可乐 330ml 罐装", Price: 45.00, Unit: "箱 (24)", Image: imageBase + "photo-1622483767028-3f66f32aef97?w=300&q=80", Category: "饮料", Inventory: 1200},
	{ID: "2", Name: "百事可乐 330ml 罐装", Price: 44.00, Unit: "箱 (24)", Image: imageBase + "photo-1629203851122-3726ecdf080e?w=300&q=80", Category: "饮料", Inventory: 850},
	{ID: "3", Name: "乐事原味薯片", Price: 65.00, Unit: "盒 (12)", Image: imageBase + "photo-1566478989037-eec170784d0b?w=300&q=80", Category: "零食", Inventory: 500},
	{ID: "4", Name: "乐事香辣味薯片", Price: 65.00, Unit: "盒 (12)", Image: imageBase + "photo-1621447504864-d8686e12698c?w=300&q=80", Category: "零食", Inventory: 420},
	{ID: "5", Name: "农夫山泉矿泉水", Price: 28.00, Unit: "箱 (24)", Image: imageBase + "photo-1616118132534-381148898bb4?w=300&q=80", Category: "饮料", Inventory: 2000},
	{ID: "6", Name: "奥利奥原味饼干", Price: 85.00, Unit: "箱 (24)", Image: imageBase + "photo-1590080875515-8a3a8dc5735e?w=300&q=80", Category: "零食", Inventory: 300},
	{ID: "7", Name: "足金999转运珠手链", Price: 1280.00, Unit: "件", Image: imageBase + "photo-1611591437281-460bfbe1220a?w=300&q=80", Category: "足金", Inventory: 50},
	{ID: "8", Name: "18K金莫桑钻戒指", Price: 2599.00, Unit: "枚", Image: imageBase + "photo-1605100804763-247f67b3557e?w=300&q=80", Category: "K金", Inventory: 20},
	{ID: "9", Name: "纯铜复古香炉", Price: 368.00, Unit: "个", Image: imageBase + "photo-1602606394286-633e61184f4c?w=300&q=80", Category: "铜饰品", Inventory: 100},
	{ID: "10", Name: "S925银镀金空托戒指", Price: 158.00, Unit: "枚", Image: imageBase + "photo-1603561596112-0a132b72231d?w=300&q=80", Category: "空托", Inventory: 200},
	{ID: "11", Name: "1克拉D色莫桑钻裸石", Price: 899.00, Unit: "颗", Image: imageBase + "photo-1599643478518-17488fbbcd75?w=300&q=80", Category: "钻石", Inventory: 50},
	// out of stock
	{ID: "12", Name: "雪碧 330ml 罐装", Price: 42.00, Unit: "箱 (24)", Image: imageBase + "photo-1625772299848-391b6a87d7b3?w=300&q=80", Category: "饮料", Inventory: 0},
	// low stock
	{ID: "13", Name: "红牛维生素功能饮料 250ml", Price: 115.00, Unit: "箱 (24)", Image: imageBase + "photo-1622543925917-763c34d1a86e?w=300&q=80", Category: "饮料", Inventory: 5},
	{ID: "14", Name: "怡宝纯净水 555ml", Price: 26.00, Unit: "箱 (24)", Image: imageBase + "photo-1523362628745-0c100150b504?w=300&q=80", Category: "饮料", Inventory: 800},
}
