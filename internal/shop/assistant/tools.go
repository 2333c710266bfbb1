package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/Chative-storefront/server/internal/shop/catalog"
	"github.com/Chative-storefront/server/internal/shop/model"
)

const (
	ToolSearchProduct     = "search_product"
	ToolGetProductDetails = "get_product_details"
)

type SearchProductInput struct {
	Query      string `json:"query"`
	Category   string `json:"category,omitempty"`
	MaxResults int    `json:"max_results,omitempty"`
}

type SearchProductOutput struct {
	Products []model.Product `json:"products"`
	Total    int             `json:"total"`
}

type GetProductDetailsInput struct {
	ProductID string `json:"product_id"`
}

type GetProductDetailsOutput struct {
	Product model.Product      `json:"product"`
	Stock   catalog.StockLevel `json:"stock"`
}

// CatalogTools exposes catalog lookups as eino tools taking JSON arguments,
// the same shape a tool-calling model would use.
type CatalogTools struct {
	search  tool.InvokableTool
	details tool.InvokableTool
}

func NewCatalogTools(cat *catalog.Catalog) *CatalogTools {
	return &CatalogTools{
		search:  newSearchProductTool(cat),
		details: newGetProductDetailsTool(cat),
	}
}

// Infos returns the tool descriptions.
func (t *CatalogTools) Infos(ctx context.Context) ([]*schema.ToolInfo, error) {
	out := make([]*schema.ToolInfo, 0, 2)
	for _, bt := range []tool.InvokableTool{t.search, t.details} {
		info, err := bt.Info(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, nil
}

func (t *CatalogTools) Search(ctx context.Context, in SearchProductInput) (*SearchProductOutput, error) {
	var out SearchProductOutput
	if err := invoke(ctx, t.search, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *CatalogTools) Details(ctx context.Context, productID string) (*GetProductDetailsOutput, error) {
	var out GetProductDetailsOutput
	if err := invoke(ctx, t.details, GetProductDetailsInput{ProductID: productID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func invoke(ctx context.Context, t tool.InvokableTool, in, out any) error {
	args, err := json.Marshal(in)
	if err != nil {
		return err
	}
	res, err := t.InvokableRun(ctx, string(args))
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(res), out)
}

func newSearchProductTool(cat *catalog.Catalog) tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolSearchProduct,
			Desc: "Search the wholesale catalog by product name or category keyword, e.g. 可乐, 薯片, 饮料, 钻石.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type:     "string",
					Desc:     "Keyword matched against product names and categories.",
					Required: true,
				},
				"category": {
					Type: "string",
					Desc: "Optional exact category filter.",
				},
				"max_results": {
					Type: "number",
					Desc: "Maximum number of products to return (default: 10, max: 20)",
				},
			}),
		},
		func(ctx context.Context, in *SearchProductInput) (*SearchProductOutput, error) {
			query := strings.TrimSpace(in.Query)
			if query == "" {
				return nil, fmt.Errorf("query is required")
			}
			products := cat.Search(query, strings.TrimSpace(in.Category), in.MaxResults)
			return &SearchProductOutput{Products: products, Total: len(products)}, nil
		},
	)
}

func newGetProductDetailsTool(cat *catalog.Catalog) tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolGetProductDetails,
			Desc: "Get price, unit, category and stock level of one product.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"product_id": {
					Type:     "string",
					Desc:     "Exact product id from search_product results.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *GetProductDetailsInput) (*GetProductDetailsOutput, error) {
			id := strings.TrimSpace(in.ProductID)
			if id == "" {
				return nil, fmt.Errorf("product_id is required")
			}
			p, ok := cat.Lookup(id)
			if !ok {
				return nil, fmt.Errorf("product %s not found", id)
			}
			return &GetProductDetailsOutput{Product: p, Stock: catalog.Stock(p)}, nil
		},
	)
}
