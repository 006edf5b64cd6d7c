package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oasguard/oasguard/internal/mcpserver"
)

// MCPCommand builds the mcp command: serve contract checking tools over
// stdio via the Model Context Protocol.
func MCPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run an MCP server exposing contract checking tools over stdio",
		Long: `Run an MCP (Model Context Protocol) server over stdio.

The server exposes check_request, check_response, and parse tools so MCP
clients can check recorded HTTP traffic against OpenAPI contracts.
Defaults are configurable via OASGUARD_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return mcpserver.Run(ctx)
		},
	}
}
