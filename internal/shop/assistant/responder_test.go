package assistant

import (
	"context"
	"sync"
	"testing"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chative-storefront/server/internal/shop/catalog"
	"github.com/Chative-storefront/server/internal/shop/model"
)

func TestMatch(t *testing.T) {
	cases := []struct {
		text string
		want Intent
	}{
		{"我要50箱可乐和20盒薯片", IntentRestock},
		{"帮我补货", IntentRestock},
		{"下周销售预测", IntentForecast},
		{"有什么新品", IntentRecommend},
		{"给我推荐一下", IntentRecommend},
		{"你好", IntentFallback},
		{"", IntentFallback},
		// first rule wins
		{"可乐销售怎么样", IntentRestock},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Match(DefaultRules, tc.text), tc.text)
	}
}

func TestResponderRoutesEveryIntent(t *testing.T) {
	ctx := context.Background()
	r, err := NewResponder(ctx, nil)
	require.NoError(t, err)

	ask := func(text string) *Reply {
		t.Helper()
		out, err := r.Reply(ctx, ReplyInput{
			SessionID: "s1",
			History: []*schema.Message{
				schema.AssistantMessage("hello", nil),
				schema.UserMessage(text),
			},
		})
		require.NoError(t, err)
		require.NotNil(t, out)
		return out
	}

	draft := ask("来点可乐")
	assert.Equal(t, IntentRestock, draft.Intent)
	assert.True(t, draft.IsDraft())
	assert.Equal(t, []model.OrderItem{
		{ProductID: "1", Quantity: 50},
		{ProductID: "3", Quantity: 20},
	}, draft.DraftItems)

	forecast := ask("销售预测")
	assert.False(t, forecast.IsDraft())
	assert.Equal(t, ForecastReply, forecast.Text)

	assert.Equal(t, RecommendReply, ask("新品").Text)
	assert.Equal(t, FallbackReply, ask("在吗").Text)
}

func TestResponderUsesLatestUserMessage(t *testing.T) {
	ctx := context.Background()
	r, err := NewResponder(ctx, nil)
	require.NoError(t, err)

	out, err := r.Reply(ctx, ReplyInput{History: []*schema.Message{
		schema.UserMessage("补货"),
		schema.AssistantMessage("[draft open] 1×50", nil),
		schema.UserMessage("推荐"),
	}})
	require.NoError(t, err)
	assert.Equal(t, IntentRecommend, out.Intent)
}

func TestResponderAnswersTurnText(t *testing.T) {
	ctx := context.Background()
	r, err := NewResponder(ctx, nil)
	require.NoError(t, err)

	history := []*schema.Message{
		schema.UserMessage("帮我补货"),
		schema.UserMessage("下周销售预测"),
	}
	out, err := r.Reply(ctx, ReplyInput{Text: "帮我补货", History: history})
	require.NoError(t, err)
	assert.Equal(t, IntentRestock, out.Intent)
	assert.True(t, out.IsDraft())

	out, err = r.Reply(ctx, ReplyInput{Text: "  ", History: history})
	require.NoError(t, err)
	assert.Equal(t, IntentForecast, out.Intent)
}

func TestNodeCallbacksCarryNodeNames(t *testing.T) {
	ctx := context.Background()
	runnable, err := buildGraph(ctx, DefaultRules)
	require.NoError(t, err)

	var (
		mu    sync.Mutex
		names []string
	)
	h := einocb.NewHandlerBuilder().
		OnStartFn(func(ctx context.Context, info *einocb.RunInfo, _ einocb.CallbackInput) context.Context {
			if info != nil && info.Name != "" {
				mu.Lock()
				names = append(names, info.Name)
				mu.Unlock()
			}
			return ctx
		}).
		Build()

	_, err = runnable.Invoke(ctx, ReplyInput{Text: "在吗"}, compose.WithCallbacks(h))
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Subset(t, names, []string{NodeInputConverter, NodeMatcher, NodeFallbackReply})
	assert.NotContains(t, names, NodeDraftReply)
}

func TestDraftRepliesDoNotShareItems(t *testing.T) {
	ctx := context.Background()
	r, err := NewResponder(ctx, nil)
	require.NoError(t, err)

	in := ReplyInput{History: []*schema.Message{schema.UserMessage("补货")}}
	a, err := r.Reply(ctx, in)
	require.NoError(t, err)
	a.DraftItems[0].Quantity = 1

	b, err := r.Reply(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 50, b.DraftItems[0].Quantity)
}

func TestCustomRules(t *testing.T) {
	ctx := context.Background()
	r, err := NewResponder(ctx, []Rule{{Intent: IntentForecast, Keywords: []string{"趋势"}}})
	require.NoError(t, err)

	out, err := r.Reply(ctx, ReplyInput{History: []*schema.Message{schema.UserMessage("看看趋势")}})
	require.NoError(t, err)
	assert.Equal(t, ForecastReply, out.Text)

	out, err = r.Reply(ctx, ReplyInput{History: []*schema.Message{schema.UserMessage("可乐")}})
	require.NoError(t, err)
	assert.Equal(t, FallbackReply, out.Text)
}

func TestRenderTemplates(t *testing.T) {
	ctx := context.Background()

	greeting, err := RenderGreeting(ctx, model.StoreConfig{Name: "广州兴盛批发部", Owner: "李老板"})
	require.NoError(t, err)
	assert.Equal(t, "李老板下午好，我是广州兴盛批发部的ai开单助手，\n您可以说话（按钮），\n也可以拍订单（按钮），\n还能拍照货品说数量（按钮）\n\n我都马上把单开出来，快来试试吧", greeting)

	confirmed, err := RenderOrderConfirmed(ctx, "SO-20240301-001")
	require.NoError(t, err)
	assert.Equal(t, "订单 SO-20240301-001 已确认。\n智能调度系统已安排优先发货。", confirmed)

	ack, err := RenderCameraAck(ctx, model.ImageHandwritten, "百事可乐")
	require.NoError(t, err)
	assert.Equal(t, "已识别手写单据，添加了 10 箱百事可乐。", ack)

	ack, err = RenderCameraAck(ctx, model.ImageScan, "百事可乐")
	require.NoError(t, err)
	assert.Equal(t, "已识别商品条码，添加了 10 箱百事可乐。", ack)
}

func TestCameraUserText(t *testing.T) {
	assert.Equal(t, "[图片] 识别手写单据", CameraUserText(model.ImageHandwritten))
	assert.Equal(t, "[扫码] 识别商品条码", CameraUserText(model.ImageScan))
}

func TestCatalogTools(t *testing.T) {
	ctx := context.Background()
	tools := NewCatalogTools(catalog.Default())

	infos, err := tools.Infos(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, ToolSearchProduct, infos[0].Name)
	assert.Equal(t, ToolGetProductDetails, infos[1].Name)

	res, err := tools.Search(ctx, SearchProductInput{Query: "薯片"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, "3", res.Products[0].ID)

	res, err = tools.Search(ctx, SearchProductInput{Query: "饮料", MaxResults: 2})
	require.NoError(t, err)
	assert.Len(t, res.Products, 2)

	_, err = tools.Search(ctx, SearchProductInput{Query: "  "})
	assert.Error(t, err)

	d, err := tools.Details(ctx, "13")
	require.NoError(t, err)
	assert.Equal(t, "红牛维生素功能饮料 250ml", d.Product.Name)
	assert.Equal(t, catalog.StockLow, d.Stock)

	_, err = tools.Details(ctx, "404")
	assert.Error(t, err)
}
