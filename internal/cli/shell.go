package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/Chative-storefront/server/internal/app"
	errx "github.com/Chative-storefront/server/internal/core/error"
	"github.com/Chative-storefront/server/internal/shop/assistant"
	"github.com/Chative-storefront/server/internal/shop/model"
	"github.com/Chative-storefront/server/internal/shop/orders"
)

const shellHelp = `命令:
  shop [分类]                      浏览商品
  search <关键词>                  搜索商品
  product <商品ID>                 商品详情
  add <商品ID> [数量]              加入购物车
  rm <商品ID>                      移出购物车
  qty <商品ID> <增减>              调整数量
  clear | cart | checkout          清空 / 查看 / 结算购物车
  send <文字>                      发送消息
  voice                            语音输入
  camera <handwritten|scan>        拍照或扫码
  draft                            生成订单草稿
  edit-item <消息ID|last> <行> <商品ID>
  edit-qty <消息ID|last> <行> <增减>
  confirm [消息ID|last]            确认草稿
  new | switch <序号|ID> | sessions | show
  cancel                           取消当前对话的待处理任务
  orders [全部|待接单|已接单|待收货]
  order <订单号> | order-qty <订单号> <行> <增减>
  wait                             等待所有回复
  help | quit`

var errQuit = errors.New("quit")

type shell struct {
	engine *app.Engine
	tools  *assistant.CatalogTools
	render *renderer
}

func newShell(e *app.Engine, out io.Writer) *shell {
	return &shell{
		engine: e,
		tools:  assistant.NewCatalogTools(e.Catalog()),
		render: &renderer{out: out, catalog: e.Catalog()},
	}
}

// run reads commands until EOF or quit. Command errors are printed and do not
// stop the loop.
func (s *shell) run(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	for {
		s.render.printf("> ")
		if !sc.Scan() {
			s.render.printf("\n")
			return sc.Err()
		}
		err := s.exec(ctx, sc.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			s.render.printf("错误: %v\n", err)
		}
	}
}

// exec runs one command line.
func (s *shell) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := fields[0], fields[1:]
	e := s.engine

	switch cmd {
	case "help", "?":
		s.render.printf("%s\n", shellHelp)
	case "quit", "exit":
		return errQuit

	case "shop":
		category := ""
		if len(args) > 0 {
			category = args[0]
		}
		s.render.printf("分类: %s\n", strings.Join(e.Catalog().Categories(), " | "))
		s.render.products(e.Catalog().Filter(category), e.QuantityInCart)
	case "search":
		if len(args) == 0 {
			return errx.Invalid("usage: search <关键词>")
		}
		res, err := s.tools.Search(ctx, assistant.SearchProductInput{Query: strings.Join(args, " ")})
		if err != nil {
			return errx.Invalid("search: %v", err)
		}
		s.render.products(res.Products, e.QuantityInCart)
	case "product":
		if len(args) != 1 {
			return errx.Invalid("usage: product <商品ID>")
		}
		res, err := s.tools.Details(ctx, args[0])
		if err != nil {
			return errx.Invalid("unknown product %q", args[0])
		}
		s.render.products([]model.Product{res.Product}, e.QuantityInCart)
	case "add":
		if len(args) < 1 || len(args) > 2 {
			return errx.Invalid("usage: add <商品ID> [数量]")
		}
		qty := 1
		if len(args) == 2 {
			n, err := positive(args[1])
			if err != nil {
				return err
			}
			qty = n
		}
		if !e.AddToCart(args[0], qty) {
			return errx.Invalid("unknown product %q", args[0])
		}
		s.render.cart(e.Cart())
	case "rm":
		if len(args) != 1 {
			return errx.Invalid("usage: rm <商品ID>")
		}
		e.RemoveFromCart(args[0])
		s.render.cart(e.Cart())
	case "qty":
		if len(args) != 2 {
			return errx.Invalid("usage: qty <商品ID> <增减>")
		}
		delta, err := integer(args[1])
		if err != nil {
			return err
		}
		e.UpdateCartQuantity(args[0], delta)
		s.render.cart(e.Cart())
	case "clear":
		e.ClearCart()
		s.render.cart(e.Cart())
	case "cart":
		s.render.cart(e.Cart())
	case "checkout":
		o, ok := e.Checkout()
		if !ok {
			return errx.Invalid("cart is empty")
		}
		s.render.order(o)

	case "send":
		if !e.Send(strings.Join(args, " ")) {
			return errx.Invalid("usage: send <文字>")
		}
		s.render.session(e.ActiveSession())
	case "voice":
		if !e.VoiceInput() {
			return errx.Invalid("already recording")
		}
		s.render.printf("正在录音...\n")
	case "camera":
		if len(args) != 1 || !e.CameraAction(model.ImageSource(args[0])) {
			return errx.Invalid("usage: camera <handwritten|scan>")
		}
		s.render.printf("正在识别...\n")
	case "draft":
		e.ShowDraft()
		s.render.session(e.ActiveSession())
	case "edit-item":
		if len(args) != 3 {
			return errx.Invalid("usage: edit-item <消息ID|last> <行> <商品ID>")
		}
		id, line, err := s.draftLine(args[0], args[1])
		if err != nil {
			return err
		}
		if !e.UpdateDraftItem(id, line, args[2]) {
			return errx.Invalid("draft %s line %s cannot be changed", id, args[1])
		}
		s.render.session(e.ActiveSession())
	case "edit-qty":
		if len(args) != 3 {
			return errx.Invalid("usage: edit-qty <消息ID|last> <行> <增减>")
		}
		id, line, err := s.draftLine(args[0], args[1])
		if err != nil {
			return err
		}
		delta, err := integer(args[2])
		if err != nil {
			return err
		}
		if !e.UpdateDraftQuantity(id, line, delta) {
			return errx.Invalid("draft %s line %s cannot be changed", id, args[1])
		}
		s.render.session(e.ActiveSession())
	case "confirm":
		ref := "last"
		if len(args) > 0 {
			ref = args[0]
		}
		id, err := s.draftID(ref)
		if err != nil {
			return err
		}
		o, ok := e.ConfirmOrder(id)
		if !ok {
			return errx.Invalid("draft %s cannot be confirmed", id)
		}
		s.render.order(o)

	case "new":
		e.NewChat()
		s.render.session(e.ActiveSession())
	case "switch":
		if len(args) != 1 {
			return errx.Invalid("usage: switch <序号|ID>")
		}
		if !e.SwitchSession(s.sessionID(args[0])) {
			return errx.Invalid("unknown session %q", args[0])
		}
		s.render.session(e.ActiveSession())
	case "sessions":
		s.render.sessions(e.Sessions())
	case "show":
		s.render.session(e.ActiveSession())
	case "cancel":
		n := e.CancelPending(e.ActiveSession().ID)
		s.render.printf("已取消 %d 个任务\n", n)

	case "orders":
		tab := orders.TabAll
		if len(args) > 0 {
			tab = orders.Tab(args[0])
		}
		s.render.orders(e.Orders(tab))
	case "order":
		if len(args) != 1 {
			return errx.Invalid("usage: order <订单号>")
		}
		o, ok := e.Order(args[0])
		if !ok {
			return errx.Invalid("unknown order %q", args[0])
		}
		s.render.order(o)
	case "order-qty":
		if len(args) != 3 {
			return errx.Invalid("usage: order-qty <订单号> <行> <增减>")
		}
		line, err := positive(args[1])
		if err != nil {
			return err
		}
		delta, err := integer(args[2])
		if err != nil {
			return err
		}
		if !e.UpdateOrderLine(args[0], line-1, delta) {
			return errx.Invalid("order %s line %d cannot be changed", args[0], line)
		}
		o, _ := e.Order(args[0])
		s.render.order(o)

	case "wait":
		if err := e.Wait(ctx); err != nil {
			return err
		}
		s.render.session(e.ActiveSession())
	default:
		return errx.Invalid("unknown command %q, try help", cmd)
	}
	return nil
}

// draftID resolves "last" to the newest draft of the active session.
func (s *shell) draftID(ref string) (string, error) {
	if ref != "last" {
		return ref, nil
	}
	msgs := s.engine.ActiveSession().Messages
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Type == model.TypeOrderDraft {
			return msgs[i].ID, nil
		}
	}
	return "", errx.Invalid("no draft in this session")
}

// draftLine resolves a draft reference and a 1-based line number.
func (s *shell) draftLine(ref, line string) (string, int, error) {
	id, err := s.draftID(ref)
	if err != nil {
		return "", 0, err
	}
	n, err := positive(line)
	if err != nil {
		return "", 0, err
	}
	return id, n - 1, nil
}

// sessionID accepts a 1-based position in the session list or a raw id.
func (s *shell) sessionID(ref string) string {
	if n, err := strconv.Atoi(ref); err == nil {
		list := s.engine.Sessions()
		if n >= 1 && n <= len(list) {
			return list[n-1].ID
		}
	}
	return ref
}

func integer(v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errx.Invalid("%q is not a number", v)
	}
	return n, nil
}

func positive(v string) (int, error) {
	n, err := integer(v)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, errx.Invalid("%q must be positive", v)
	}
	return n, nil
}
