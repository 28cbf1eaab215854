package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/sweetshop/sweetshop/internal/adapters/inbound/wire"
	"github.com/sweetshop/sweetshop/internal/domain"
)

// registerTools registers all sweetshop MCP tools on the given server.
func registerTools(s *server.MCPServer, svc Services) {
	s.AddTool(
		mcplib.NewTool("sweetshop_list_products",
			mcplib.WithDescription("Lists catalog products with their current prices"),
		),
		handleListProducts(svc),
	)

	s.AddTool(
		mcplib.NewTool("sweetshop_list_categories",
			mcplib.WithDescription("Lists product categories"),
		),
		handleListCategories(svc),
	)

	s.AddTool(
		mcplib.NewTool("sweetshop_list_orders",
			mcplib.WithDescription("Lists orders newest first, one page at a time"),
			mcplib.WithNumber("page", mcplib.Description("Page number (default 1)")),
			mcplib.WithNumber("limit", mcplib.Description("Orders per page (default 10)")),
			mcplib.WithString("status", mcplib.Description("Only orders with this status: PENDING, CONFIRMED, PREPARING, READY, DELIVERED or CANCELLED")),
			mcplib.WithString("start_date", mcplib.Description("Created at or after, YYYY-MM-DD or RFC 3339")),
			mcplib.WithString("end_date", mcplib.Description("Created at or before, YYYY-MM-DD or RFC 3339")),
			mcplib.WithString("product_id", mcplib.Description("Only orders containing this product")),
		),
		handleListOrders(svc),
	)

	s.AddTool(
		mcplib.NewTool("sweetshop_get_order",
			mcplib.WithDescription("Returns one order with the prices recorded when it was placed"),
			mcplib.WithString("id", mcplib.Required(), mcplib.Description("Order id")),
		),
		handleGetOrder(svc),
	)

	s.AddTool(
		mcplib.NewTool("sweetshop_create_order",
			mcplib.WithDescription("Places an order. Prices come from the catalog at the moment of ordering."),
			mcplib.WithString("customer_name", mcplib.Required(), mcplib.Description("Customer name")),
			mcplib.WithString("customer_phone", mcplib.Required(), mcplib.Description("Customer phone, at most 12 characters")),
			mcplib.WithString("scheduled_for", mcplib.Required(), mcplib.Description("Pickup time, YYYY-MM-DD or RFC 3339")),
			mcplib.WithArray("lines",
				mcplib.Required(),
				mcplib.Description("Ordered products"),
				mcplib.Items(map[string]any{
					"type": "object",
					"properties": map[string]any{
						"productId": map[string]any{"type": "string"},
						"quantity":  map[string]any{"type": "integer", "minimum": 0},
					},
					"required": []string{"productId", "quantity"},
				}),
			),
		),
		handleCreateOrder(svc),
	)

	s.AddTool(
		mcplib.NewTool("sweetshop_update_order_status",
			mcplib.WithDescription("Sets the status of an order"),
			mcplib.WithString("id", mcplib.Required(), mcplib.Description("Order id")),
			mcplib.WithString("status", mcplib.Required(), mcplib.Description("New status, case-insensitive")),
		),
		handleUpdateOrderStatus(svc),
	)
}

func handleListProducts(svc Services) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		items, err := svc.Products.List(ctx)
		if err != nil {
			return errorResult(fmt.Sprintf("listing products failed: %v", err)), nil
		}
		return jsonResult(wire.FromProducts(items))
	}
}

func handleListCategories(svc Services) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		items, err := svc.Categories.List(ctx)
		if err != nil {
			return errorResult(fmt.Sprintf("listing categories failed: %v", err)), nil
		}
		return jsonResult(wire.FromCategories(items))
	}
}

func handleListOrders(svc Services) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		filter := domain.ListOrdersFilter{
			Page:      request.GetInt("page", domain.DefaultPage),
			Limit:     request.GetInt("limit", domain.DefaultLimit),
			Status:    domain.OrderStatus(request.GetString("status", "")),
			ProductID: request.GetString("product_id", ""),
		}
		var err error
		if filter.StartDate, err = optionalTime(request.GetString("start_date", ""), false); err != nil {
			return errorResult(fmt.Sprintf("start_date: %v", err)), nil
		}
		if filter.EndDate, err = optionalTime(request.GetString("end_date", ""), true); err != nil {
			return errorResult(fmt.Sprintf("end_date: %v", err)), nil
		}

		result, err := svc.Orders.List(ctx, filter)
		if err != nil {
			return domainError(err), nil
		}
		return jsonResult(wire.FromOrderPage(result))
	}
}

func handleGetOrder(svc Services) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		order, err := svc.Orders.GetByID(ctx, id)
		if err != nil {
			return domainError(err), nil
		}
		return jsonResult(wire.FromOrder(order))
	}
}

func handleCreateOrder(svc Services) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		req := domain.OrderCreateRequest{
			CustomerName:  request.GetString("customer_name", ""),
			CustomerPhone: request.GetString("customer_phone", ""),
		}

		if raw := strings.TrimSpace(request.GetString("scheduled_for", "")); raw != "" {
			t, err := wire.ParseTimestamp(raw, false)
			if err != nil {
				return errorResult(fmt.Sprintf("scheduled_for: %v", err)), nil
			}
			req.ScheduledFor = t
		}

		lines, err := decodeLines(request.GetArguments()["lines"])
		if err != nil {
			return errorResult(fmt.Sprintf("lines: %v", err)), nil
		}
		req.Lines = lines

		order, err := svc.Orders.CreateOrder(ctx, req)
		if err != nil {
			return domainError(err), nil
		}
		return jsonResult(wire.FromOrder(order))
	}
}

func handleUpdateOrderStatus(svc Services) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		status, err := request.RequireString("status")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		order, err := svc.Orders.UpdateStatus(ctx, id, status)
		if err != nil {
			return domainError(err), nil
		}
		return jsonResult(wire.FromOrder(order))
	}
}

// decodeLines converts the loosely typed tool argument into order lines.
func decodeLines(raw any) ([]domain.OrderLineRequest, error) {
	if raw == nil {
		return nil, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var lines []domain.OrderLineRequest
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, errors.New("expected an array of {productId, quantity}")
	}
	return lines, nil
}

func optionalTime(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := wire.ParseTimestamp(raw, endOfDay)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// domainError renders a service error as a tool error. Validation failures
// list every offending field.
func domainError(err error) *mcplib.CallToolResult {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		res, mErr := jsonResult(map[string]any{"error": "validation failed", "fields": verr.Fields})
		if mErr == nil {
			res.IsError = true
			return res
		}
	}
	return errorResult(err.Error())
}

// jsonResult marshals v to indented JSON and wraps it in a CallToolResult.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns an error content result.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
