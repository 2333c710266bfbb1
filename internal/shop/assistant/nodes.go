package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/Chative-storefront/server/internal/shop/conversation"
	"github.com/Chative-storefront/server/internal/shop/model"
	logx "github.com/Chative-storefront/server/pkg/logger"
)

const (
	NodeInputConverter = "input_converter"
	NodeMatcher        = "intent_matcher"
	NodeDraftReply     = "draft_reply"
	NodeForecastReply  = "forecast_reply"
	NodeRecommendReply = "recommend_reply"
	NodeFallbackReply  = "fallback_reply"
)

// ReplyInput is what the engine hands to the responder for one user turn.
// Text is the message the turn answers; when blank the latest user message
// in History is used.
type ReplyInput struct {
	SessionID string
	Text      string
	History   []*schema.Message
}

// Reply is the scripted answer. DraftItems is set only for restock intents;
// otherwise Text carries the agent message.
type Reply struct {
	Intent     Intent
	Text       string
	DraftItems []model.OrderItem
}

// IsDraft reports whether the reply should be rendered as an order draft.
func (r *Reply) IsDraft() bool { return r != nil && r.DraftItems != nil }

// ReplyState is the per-invocation local state of the responder graph.
// Only touched inside state handlers or compose.ProcessState.
type ReplyState struct {
	SessionID string
	Text      string
	Intent    Intent
}

func newInputConverterPreHandler() func(context.Context, ReplyInput, *ReplyState) (ReplyInput, error) {
	return func(ctx context.Context, in ReplyInput, s *ReplyState) (ReplyInput, error) {
		s.SessionID = in.SessionID
		s.Text = ""
		s.Intent = ""
		return in, nil
	}
}

func newInputConverterNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in ReplyInput) (string, error) {
		if text := strings.TrimSpace(in.Text); text != "" {
			return text, nil
		}
		return conversation.LastUserText(in.History), nil
	})
}

func newMatcherNode(rules []Rule) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, text string) (Intent, error) {
		return Match(rules, text), nil
	})
}

func newMatcherPreHandler() func(context.Context, string, *ReplyState) (string, error) {
	return func(ctx context.Context, text string, s *ReplyState) (string, error) {
		s.Text = text
		return text, nil
	}
}

func newMatcherPostHandler() func(context.Context, Intent, *ReplyState) (Intent, error) {
	return func(ctx context.Context, intent Intent, s *ReplyState) (Intent, error) {
		s.Intent = intent
		logx.Debug().
			Str("session_id", s.SessionID).
			Str("intent", string(intent)).
			Msg("Matched scripted intent")
		return intent, nil
	}
}

func newIntentCondition() func(context.Context, Intent) (string, error) {
	return func(ctx context.Context, intent Intent) (string, error) {
		switch intent {
		case IntentRestock:
			return NodeDraftReply, nil
		case IntentForecast:
			return NodeForecastReply, nil
		case IntentRecommend:
			return NodeRecommendReply, nil
		case IntentFallback:
			return NodeFallbackReply, nil
		default:
			return "", fmt.Errorf("no reply node for intent %q", intent)
		}
	}
}

func newDraftReplyNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, intent Intent) (*Reply, error) {
		var sessionID string
		err := compose.ProcessState(ctx, func(_ context.Context, s *ReplyState) error {
			sessionID = s.SessionID
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}
		items := restockItems()
		logx.Debug().
			Str("session_id", sessionID).
			Int("items", len(items)).
			Msg("Drafting restock order")
		return &Reply{Intent: intent, DraftItems: items}, nil
	})
}

func newTextReplyNode(text string) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, intent Intent) (*Reply, error) {
		return &Reply{Intent: intent, Text: text}, nil
	})
}
