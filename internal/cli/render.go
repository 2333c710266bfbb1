package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/Chative-storefront/server/internal/app"
	"github.com/Chative-storefront/server/internal/shop/catalog"
	"github.com/Chative-storefront/server/internal/shop/model"
)

const timeLayout = "2006-01-02 15:04"

// renderer prints engine snapshots as plain text.
type renderer struct {
	out     io.Writer
	catalog *catalog.Catalog
}

func (r *renderer) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

func (r *renderer) productName(id string) string {
	if p, ok := r.catalog.Lookup(id); ok {
		return p.Name
	}
	return id
}

func (r *renderer) session(s *model.Session) {
	r.printf("== %s (%s)\n", s.Title, s.ID)
	for _, m := range s.Messages {
		r.message(m)
	}
	switch {
	case s.Recording:
		r.printf("   ... 正在录音\n")
	case s.Processing:
		r.printf("   ... 处理中\n")
	}
}

func (r *renderer) message(m *model.Message) {
	who := "助手"
	if m.Role == model.RoleUser {
		who = "我"
	}
	switch p := m.Payload.(type) {
	case *model.DraftPayload:
		state := "待确认"
		if p.Confirmed {
			state = "已确认"
		}
		r.printf("[%s] 订单草稿 %s (%s)\n", who, m.ID, state)
		var total float64
		for i, it := range p.Items {
			price := 0.0
			if prod, ok := r.catalog.Lookup(it.ProductID); ok {
				price = prod.Price
			}
			total += price * float64(it.Quantity)
			r.printf("    %d. %s x%d  ¥%.2f\n", i+1, r.productName(it.ProductID), it.Quantity, price*float64(it.Quantity))
		}
		if len(p.Items) == 0 {
			r.printf("    (空)\n")
		}
		r.printf("    合计 ¥%.2f\n", total)
	case *model.AudioPayload:
		r.printf("[%s] (语音 %.0fs) %s\n", who, p.Duration.Seconds(), p.Transcript)
	case *model.ConfirmedPayload:
		r.printf("[%s] %s\n", who, indent(m.Content))
		r.printf("    订单号 %s  合计 ¥%.2f\n", p.OrderNumber, p.Total)
	default:
		r.printf("[%s] %s\n", who, indent(m.Content))
	}
}

func (r *renderer) cart(c app.CartView) {
	if len(c.Items) == 0 {
		r.printf("购物车是空的\n")
		return
	}
	for _, it := range c.Items {
		r.printf("%-3s %s x%d  ¥%.2f\n", it.ProductID, it.Product.Name, it.Quantity, it.Subtotal())
	}
	r.printf("共 %d 件  合计 ¥%.2f\n", c.TotalItems, c.TotalAmount)
}

func (r *renderer) sessions(list []app.SessionSummary) {
	for i, s := range list {
		mark := " "
		if s.Active {
			mark = "*"
		}
		r.printf("%s %d. %s  %s  (%d 条消息)  %s\n", mark, i+1, s.Title, s.CreatedAt.Format(timeLayout), s.Messages, s.ID)
	}
}

func (r *renderer) products(list []model.Product, inCart func(id string) int) {
	for _, p := range list {
		stock := ""
		switch catalog.Stock(p) {
		case catalog.StockOut:
			stock = " [缺货]"
		case catalog.StockLow:
			stock = fmt.Sprintf(" [仅剩 %d]", p.Inventory)
		}
		badge := ""
		if n := inCart(p.ID); n > 0 {
			badge = fmt.Sprintf(" (购物车 %d)", n)
		}
		r.printf("%-3s %s  ¥%.2f/%s  %s%s%s\n", p.ID, p.Name, p.Price, p.Unit, p.Category, stock, badge)
	}
}

func (r *renderer) orders(list []model.Order) {
	if len(list) == 0 {
		r.printf("暂无订单\n")
		return
	}
	for _, o := range list {
		r.printf("%s  %s  %s  %d 种商品  ¥%.2f\n", o.Number, o.CreatedAt.Format(timeLayout), o.Status.Label(), o.ItemCount(), o.Total())
	}
}

func (r *renderer) order(o model.Order) {
	r.printf("订单 %s  %s  %s\n", o.Number, o.Status.Label(), o.CreatedAt.Format(timeLayout))
	for i, l := range o.Lines {
		r.printf("    %d. %s x%d %s  ¥%.2f\n", i+1, l.Name, l.Quantity, l.Unit, l.Price*float64(l.Quantity))
	}
	r.printf("    合计 ¥%.2f\n", o.Total())
}

func indent(s string) string {
	return strings.ReplaceAll(s, "\n", "\n    ")
}
