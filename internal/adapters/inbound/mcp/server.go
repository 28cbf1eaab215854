// Package mcp exposes the catalog and order operations as Model Context
// Protocol tools and resources, so assistants can look up and place orders
// over stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/sweetshop/sweetshop/internal/application"
)

// Services are the application services the MCP server delegates to.
type Services struct {
	Orders     *application.OrderService
	Products   *application.ProductService
	Categories *application.CategoryService
}

// NewServer creates an MCP server with all sweetshop tools and resources
// registered.
func NewServer(svc Services, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"sweetshop",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithRecovery(),
	)

	registerTools(s, svc)
	registerResources(s, svc)

	return s
}
