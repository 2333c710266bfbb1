package assistant

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/Chative-storefront/server/internal/shop/model"
)

const (
	greetingTemplate = "{owner}下午好，我是{store}的ai开单助手，\n您可以说话（按钮），\n也可以拍订单（按钮），\n还能拍照货品说数量（按钮）\n\n我都马上把单开出来，快来试试吧"
	confirmTemplate  = "订单 {order_number} 已确认。\n智能调度系统已安排优先发货。"
	cameraTemplate   = "已识别{subject}，添加了 {quantity} 箱{product}。"
)

// render formats a single agent template through the eino prompt component so
// prompt callbacks observe every canned text.
func render(ctx context.Context, tpl string, vars map[string]any) (string, error) {
	t := prompt.FromMessages(schema.FString, schema.AssistantMessage(tpl, nil))
	msgs, err := t.Format(ctx, vars)
	if err != nil {
		return "", err
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("empty render result")
	}
	return msgs[0].Content, nil
}

// RenderGreeting renders the first message of every session.
func RenderGreeting(ctx context.Context, store model.StoreConfig) (string, error) {
	out, err := render(ctx, greetingTemplate, map[string]any{
		"owner": store.Owner,
		"store": store.Name,
	})
	if err != nil {
		return "", fmt.Errorf("greeting render: %w", err)
	}
	return out, nil
}

// RenderOrderConfirmed renders the acknowledgement sent after confirmation.
func RenderOrderConfirmed(ctx context.Context, orderNumber string) (string, error) {
	out, err := render(ctx, confirmTemplate, map[string]any{"order_number": orderNumber})
	if err != nil {
		return "", fmt.Errorf("confirmation render: %w", err)
	}
	return out, nil
}

// RenderCameraAck renders the agent reply to a recognised photo or barcode.
func RenderCameraAck(ctx context.Context, source model.ImageSource, productName string) (string, error) {
	out, err := render(ctx, cameraTemplate, map[string]any{
		"subject":  cameraSubject(source),
		"quantity": CameraQuantity,
		"product":  productName,
	})
	if err != nil {
		return "", fmt.Errorf("camera ack render: %w", err)
	}
	return out, nil
}
