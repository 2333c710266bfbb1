package assistant

import (
	"strings"

	"github.com/Chative-storefront/server/internal/shop/model"
)

type Intent string

const (
	IntentRestock   Intent = "restock"
	IntentForecast  Intent = "forecast"
	IntentRecommend Intent = "recommend"
	IntentFallback  Intent = "fallback"
)

// Rule maps any of its keywords (plain substring match) to an intent.
type Rule struct {
	Intent   Intent
	Keywords []string
}

// DefaultRules are checked in order; the first match wins.
var DefaultRules = []Rule{
	{Intent: IntentRestock, Keywords: []string{"可乐", "薯片", "补货"}},
	{Intent: IntentForecast, Keywords: []string{"预测", "销售"}},
	{Intent: IntentRecommend, Keywords: []string{"新品", "推荐"}},
}

// Match returns the intent of the first rule with a keyword contained in text.
func Match(rules []Rule, text string) Intent {
	for _, r := range rules {
		for _, kw := range r.Keywords {
			if kw != "" && strings.Contains(text, kw) {
				return r.Intent
			}
		}
	}
	return IntentFallback
}

const (
	ForecastReply  = "根据历史数据分析，预计下周饮料类销量将增长 15%。建议提前储备「康师傅冰红茶」和「百事可乐」。"
	RecommendReply = "本周热销新品推荐：\n1. 卫龙魔芋爽 (香辣味)\n2. 农夫山泉茶π (蜜桃乌龙)\n\n是否需要加入采购单？"
	FallbackReply  = "收到。AI 正在检索商品库..."

	// VoiceTranscript is what every simulated recording "hears".
	VoiceTranscript = "我要50箱可乐和20盒薯片"

	// CameraProductID and CameraQuantity describe what a photo adds to the cart.
	CameraProductID = "5"
	CameraQuantity  = 10
)

// restockItems returns a fresh copy of the scripted restock draft.
func restockItems() []model.OrderItem {
	return []model.OrderItem{
		{ProductID: "1", Quantity: 50},
		{ProductID: "3", Quantity: 20},
	}
}

// CameraUserText is the user-side caption of a camera action.
func CameraUserText(source model.ImageSource) string {
	if source == model.ImageHandwritten {
		return "[图片] 识别手写单据"
	}
	return "[扫码] 识别商品条码"
}

func cameraSubject(source model.ImageSource) string {
	if source == model.ImageHandwritten {
		return "手写单据"
	}
	return "商品条码"
}
