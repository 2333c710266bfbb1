package conversation

import (
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/Chative-storefront/server/internal/shop/model"
)

// Transcript converts the most recent maxTurns messages of a session into eino
// messages, the input format of the scripted responder graph. Drafts are
// summarised as text so the history stays readable.
func Transcript(s *model.Session, maxTurns int) []*schema.Message {
	msgs := s.Messages
	if maxTurns > 0 && len(msgs) > maxTurns {
		msgs = msgs[len(msgs)-maxTurns:]
	}

	out := make([]*schema.Message, 0, len(msgs))
	for _, m := range msgs {
		if m == nil {
			continue
		}
		content := describe(m)
		if content == "" {
			continue
		}
		switch m.Role {
		case model.RoleUser:
			out = append(out, schema.UserMessage(content))
		case model.RoleAgent:
			out = append(out, schema.AssistantMessage(content, nil))
		case model.RoleSystem:
			out = append(out, schema.SystemMessage(content))
		}
	}
	return out
}

func describe(m *model.Message) string {
	switch p := m.Payload.(type) {
	case *model.DraftPayload:
		state := "open"
		if p.Confirmed {
			state = "confirmed"
		}
		parts := make([]string, 0, len(p.Items))
		for _, it := range p.Items {
			parts = append(parts, fmt.Sprintf("%s×%d", it.ProductID, it.Quantity))
		}
		return fmt.Sprintf("[draft %s] %s", state, strings.Join(parts, ", "))
	case *model.ConfirmedPayload:
		if m.Content != "" {
			return m.Content
		}
		return fmt.Sprintf("[order %s]", p.OrderNumber)
	default:
		return strings.TrimSpace(m.Content)
	}
}

// LastUserText returns the content of the latest user message.
func LastUserText(msgs []*schema.Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		if m == nil {
			continue
		}
		if m.Role == schema.User {
			return strings.TrimSpace(m.Content)
		}
	}
	return ""
}
