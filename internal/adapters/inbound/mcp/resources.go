package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/sweetshop/sweetshop/internal/adapters/inbound/wire"
)

const orderURIPrefix = "sweetshop://orders/"

// registerResources registers all sweetshop MCP resources on the given server.
func registerResources(s *server.MCPServer, svc Services) {
	s.AddResource(
		mcplib.NewResource(
			"sweetshop://products",
			"Products",
			mcplib.WithResourceDescription("Catalog products with their current prices"),
			mcplib.WithMIMEType("application/json"),
		),
		handleProductsResource(svc),
	)

	s.AddResource(
		mcplib.NewResource(
			"sweetshop://categories",
			"Categories",
			mcplib.WithResourceDescription("Product categories"),
			mcplib.WithMIMEType("application/json"),
		),
		handleCategoriesResource(svc),
	)

	s.AddResourceTemplate(
		mcplib.NewResourceTemplate(
			orderURIPrefix+"{id}",
			"Order",
			mcplib.WithTemplateDescription("A single order with its recorded prices"),
			mcplib.WithTemplateMIMEType("application/json"),
		),
		handleOrderResource(svc),
	)
}

func handleProductsResource(svc Services) server.ResourceHandlerFunc {
	return func(ctx context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		items, err := svc.Products.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing products: %w", err)
		}
		return jsonContents(request.Params.URI, wire.FromProducts(items))
	}
}

func handleCategoriesResource(svc Services) server.ResourceHandlerFunc {
	return func(ctx context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		items, err := svc.Categories.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing categories: %w", err)
		}
		return jsonContents(request.Params.URI, wire.FromCategories(items))
	}
}

func handleOrderResource(svc Services) server.ResourceTemplateHandlerFunc {
	return func(ctx context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		id := orderIDFromRequest(request)
		if id == "" {
			return nil, fmt.Errorf("order id is required")
		}

		order, err := svc.Orders.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return jsonContents(request.Params.URI, wire.FromOrder(order))
	}
}

// orderIDFromRequest reads the id captured by template matching, falling
// back to the URI itself.
func orderIDFromRequest(request mcplib.ReadResourceRequest) string {
	switch v := request.Params.Arguments["id"].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return strings.TrimPrefix(request.Params.URI, orderURIPrefix)
}

func jsonContents(uri string, v any) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
