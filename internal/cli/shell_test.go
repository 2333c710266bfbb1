package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chative-storefront/server/internal/app"
	errx "github.com/Chative-storefront/server/internal/core/error"
	"github.com/Chative-storefront/server/internal/shop/model"
	"github.com/Chative-storefront/server/internal/shop/scheduler"
)

func newTestShell(t *testing.T) (*shell, *bytes.Buffer) {
	t.Helper()
	e, err := app.New(context.Background(), app.Config{
		Store:     model.StoreConfig{Name: "广州兴盛批发部", Owner: "李老板"},
		Delays:    model.DefaultDelays(),
		Scheduler: scheduler.NewManualScheduler(),
	})
	require.NoError(t, err)
	t.Cleanup(e.Close)
	out := &bytes.Buffer{}
	return newShell(e, out), out
}

func run(t *testing.T, sh *shell, out *bytes.Buffer, line string) string {
	t.Helper()
	out.Reset()
	require.NoError(t, sh.exec(context.Background(), line), line)
	return out.String()
}

func TestShellCartCommands(t *testing.T) {
	sh, out := newTestShell(t)

	got := run(t, sh, out, "add 1 2")
	assert.Contains(t, got, "可口可乐 330ml 罐装 x2")
	assert.Contains(t, got, "合计 ¥90.00")

	got = run(t, sh, out, "qty 1 -2")
	assert.Contains(t, got, "购物车是空的")

	run(t, sh, out, "add 3")
	got = run(t, sh, out, "checkout")
	assert.Contains(t, got, "待接单")
	assert.Contains(t, run(t, sh, out, "cart"), "购物车是空的")
}

func TestShellDraftFlow(t *testing.T) {
	sh, out := newTestShell(t)

	run(t, sh, out, "add 1 2")
	got := run(t, sh, out, "draft")
	assert.Contains(t, got, "订单草稿")
	assert.Contains(t, got, "(待确认)")

	got = run(t, sh, out, "edit-qty last 1 3")
	assert.Contains(t, got, "可口可乐 330ml 罐装 x5")

	got = run(t, sh, out, "edit-item last 1 2")
	assert.Contains(t, got, "百事可乐 330ml 罐装 x5")

	got = run(t, sh, out, "confirm")
	assert.Contains(t, got, "待接单")
	assert.Contains(t, got, "百事可乐 330ml 罐装 x5")

	got = run(t, sh, out, "wait")
	assert.Contains(t, got, "(已确认)")
	assert.Contains(t, got, "智能调度系统已安排优先发货。")

	err := sh.exec(context.Background(), "confirm last")
	assert.Equal(t, errx.CodeInvalid, errx.CodeOf(err))
}

func TestShellConversation(t *testing.T) {
	sh, out := newTestShell(t)

	got := run(t, sh, out, "send 有什么新品推荐")
	assert.Contains(t, got, "[我] 有什么新品推荐")
	assert.Contains(t, got, "处理中")

	got = run(t, sh, out, "wait")
	assert.Contains(t, got, "卫龙魔芋爽")

	run(t, sh, out, "new")
	got = run(t, sh, out, "sessions")
	lines := strings.Split(strings.TrimSpace(got), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "* 1. 新对话"))
	assert.Contains(t, lines[1], "有什么新品推荐")

	got = run(t, sh, out, "switch 2")
	assert.Contains(t, got, "卫龙魔芋爽")

	run(t, sh, out, "voice")
	err := sh.exec(context.Background(), "voice")
	assert.Error(t, err)
	got = run(t, sh, out, "wait")
	assert.Contains(t, got, "(语音 2s) 我要50箱可乐和20盒薯片")
}

func TestShellCamera(t *testing.T) {
	sh, out := newTestShell(t)

	assert.Error(t, sh.exec(context.Background(), "camera video"))
	run(t, sh, out, "camera handwritten")
	got := run(t, sh, out, "wait")
	assert.Contains(t, got, "[我] [图片] 识别手写单据")
	assert.Contains(t, got, "农夫山泉矿泉水 x10")
}

func TestShellBrowsing(t *testing.T) {
	sh, out := newTestShell(t)

	got := run(t, sh, out, "shop 钻石")
	assert.Contains(t, got, "1克拉D色莫桑钻裸石")
	assert.NotContains(t, got, "可口可乐")

	got = run(t, sh, out, "search 可乐")
	assert.Contains(t, got, "百事可乐")

	got = run(t, sh, out, "shop")
	assert.Contains(t, got, "雪碧 330ml 罐装")
	assert.Contains(t, got, "[缺货]")
	assert.Contains(t, got, "[仅剩 5]")

	got = run(t, sh, out, "orders 已接单")
	assert.Contains(t, got, "SO-20240225-001")
	assert.NotContains(t, got, "SO-20240226-001")

	got = run(t, sh, out, "order-qty SO-20240226-001 2 -5")
	assert.Contains(t, got, "乐事原味薯片 x15")
}

func TestShellRejectsBadInput(t *testing.T) {
	sh, _ := newTestShell(t)
	ctx := context.Background()

	for _, line := range []string{
		"bogus",
		"add",
		"add 404",
		"add 1 zero",
		"add 1 -3",
		"qty 1",
		"send",
		"edit-qty last 1 1",
		"switch nope",
		"order SO-0",
		"checkout",
	} {
		err := sh.exec(ctx, line)
		require.Error(t, err, line)
		assert.Equal(t, errx.CodeInvalid, errx.CodeOf(err), line)
	}
	assert.NoError(t, sh.exec(ctx, "   "))
	assert.ErrorIs(t, sh.exec(ctx, "quit"), errQuit)
}

func TestShellRunLoop(t *testing.T) {
	sh, out := newTestShell(t)
	in := strings.NewReader("add 1\nbogus\nquit\nadd 2\n")

	require.NoError(t, sh.run(context.Background(), in))
	assert.Contains(t, out.String(), "可口可乐")
	assert.Contains(t, out.String(), "错误: unknown command")
	assert.NotContains(t, out.String(), "百事可乐")
}

func TestDemoScript(t *testing.T) {
	sh, out := newTestShell(t)

	require.NoError(t, runDemo(context.Background(), sh.engine, out))
	got := out.String()
	assert.Contains(t, got, "根据历史数据分析")
	assert.Contains(t, got, "已确认。")
	assert.Contains(t, got, "已识别商品条码")
	assert.Contains(t, got, "(语音 2s)")
	assert.Empty(t, sh.engine.Cart().Items)
}

func TestShellProductTools(t *testing.T) {
	sh, out := newTestShell(t)

	got := run(t, sh, out, "product 12")
	assert.Contains(t, got, "雪碧 330ml 罐装")
	assert.Contains(t, got, "[缺货]")

	err := sh.exec(context.Background(), "product 404")
	assert.Equal(t, errx.CodeInvalid, errx.CodeOf(err))
	assert.Error(t, sh.exec(context.Background(), "search"))
}
