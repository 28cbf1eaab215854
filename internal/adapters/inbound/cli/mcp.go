package cli

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpadapter "github.com/sweetshop/sweetshop/internal/adapters/inbound/mcp"
)

func newMCPCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the sweetshop MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd(opts))
	return cmd
}

func newMCPServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start sweetshop MCP server (stdio)",
		Long:  "Start the sweetshop MCP server using stdio transport. Assistants can browse the catalog, look up orders and place new ones.",
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdout carries the protocol, so logs go to stderr.
			a, err := opts.bootstrap(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			s := mcpadapter.NewServer(mcpadapter.Services{
				Orders:     a.orders,
				Products:   a.products,
				Categories: a.categories,
			}, version)
			return server.ServeStdio(s)
		},
	}
}
