package assistant

import (
	"context"
	"fmt"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/compose"

	logx "github.com/Chative-storefront/server/pkg/logger"
)

// Responder produces scripted replies for a user turn.
type Responder interface {
	Reply(ctx context.Context, in ReplyInput) (*Reply, error)
}

type graphResponder struct {
	runnable  compose.Runnable[ReplyInput, *Reply]
	callbacks einocb.Handler
}

func (r *graphResponder) Reply(ctx context.Context, in ReplyInput) (*Reply, error) {
	out, err := r.runnable.Invoke(ctx, in, compose.WithCallbacks(r.callbacks))
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("responder returned no reply")
	}
	return out, nil
}

// NewResponder compiles the keyword graph. Nil rules fall back to DefaultRules.
func NewResponder(ctx context.Context, rules []Rule) (Responder, error) {
	if rules == nil {
		rules = DefaultRules
	}
	runnable, err := buildGraph(ctx, rules)
	if err != nil {
		return nil, err
	}
	logx.Debug().Int("rules", len(rules)).Msg("Responder graph built successfully")
	return &graphResponder{runnable: runnable, callbacks: newNodeCallbacks()}, nil
}

type graphBuilder struct {
	rules []Rule
	graph *compose.Graph[ReplyInput, *Reply]
}

func buildGraph(ctx context.Context, rules []Rule) (compose.Runnable[ReplyInput, *Reply], error) {
	b := &graphBuilder{
		rules: rules,
		graph: compose.NewGraph[ReplyInput, *Reply](
			compose.WithGenLocalState(func(ctx context.Context) *ReplyState {
				return &ReplyState{}
			}),
		),
	}
	if err := b.addNodes(); err != nil {
		return nil, err
	}
	if err := b.addEdges(); err != nil {
		return nil, err
	}
	if err := b.addBranches(); err != nil {
		return nil, err
	}
	return b.compile(ctx)
}

func (b *graphBuilder) addNodes() error {
	type node struct {
		name   string
		lambda *compose.Lambda
		opts   []compose.GraphAddNodeOpt
	}
	nodes := []node{
		{NodeInputConverter, newInputConverterNode(), []compose.GraphAddNodeOpt{
			compose.WithStatePreHandler(newInputConverterPreHandler()),
		}},
		{NodeMatcher, newMatcherNode(b.rules), []compose.GraphAddNodeOpt{
			compose.WithStatePreHandler(newMatcherPreHandler()),
			compose.WithStatePostHandler(newMatcherPostHandler()),
		}},
		{NodeDraftReply, newDraftReplyNode(), nil},
		{NodeForecastReply, newTextReplyNode(ForecastReply), nil},
		{NodeRecommendReply, newTextReplyNode(RecommendReply), nil},
		{NodeFallbackReply, newTextReplyNode(FallbackReply), nil},
	}
	for _, n := range nodes {
		opts := append([]compose.GraphAddNodeOpt{compose.WithNodeName(n.name)}, n.opts...)
		if err := b.graph.AddLambdaNode(n.name, n.lambda, opts...); err != nil {
			return fmt.Errorf("error adding node %s: %w", n.name, err)
		}
	}
	return nil
}

func (b *graphBuilder) addEdges() error {
	edges := [][2]string{
		{compose.START, NodeInputConverter},
		{NodeInputConverter, NodeMatcher},
		{NodeDraftReply, compose.END},
		{NodeForecastReply, compose.END},
		{NodeRecommendReply, compose.END},
		{NodeFallbackReply, compose.END},
	}
	for _, edge := range edges {
		if err := b.graph.AddEdge(edge[0], edge[1]); err != nil {
			return fmt.Errorf("error adding edge %s -> %s: %w", edge[0], edge[1], err)
		}
	}
	return nil
}

func (b *graphBuilder) addBranches() error {
	intentBranch := compose.NewGraphBranch(
		newIntentCondition(),
		map[string]bool{
			NodeDraftReply:     true,
			NodeForecastReply:  true,
			NodeRecommendReply: true,
			NodeFallbackReply:  true,
		},
	)
	if err := b.graph.AddBranch(NodeMatcher, intentBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding intent branch")
		return fmt.Errorf("error adding intent branch: %w", err)
	}
	return nil
}

func (b *graphBuilder) compile(ctx context.Context) (compose.Runnable[ReplyInput, *Reply], error) {
	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(10))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}
	return runnable, nil
}
