// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes oasguard contract validation as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/oasguard/oasguard"
)

const serverInstructions = `oasguard MCP server — checks recorded HTTP requests and responses against an OpenAPI 3.0 contract.

Configuration: All defaults are configurable via OASGUARD_* environment variables set in your MCP client config. The Go MCP SDK does not support initializationOptions; use env vars instead.

Key settings:
- OASGUARD_CACHE_FILE_TTL (default: 15m) — cache TTL for local file specs
- OASGUARD_CACHE_ENABLED (default: true) — disable spec caching entirely
- OASGUARD_MAX_INLINE_SIZE (default: 2097152) — max inline spec content in bytes
- OASGUARD_CHECK_STRICT (default: false) — enable strict checking by default
- OASGUARD_CHECK_NO_WARNINGS (default: false) — suppress warnings by default
- OASGUARD_RESULT_LIMIT (default: 100) — default violation limit per result

Caching: Loaded specs are cached per session. File entries use path+mtime as key (auto-invalidated on change). A background sweeper removes expired entries every 60s.`

// Run starts the MCP server over stdio and blocks until the client
// disconnects or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		specCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "oasguard", Version: oasguard.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_request",
		Description: "Check a recorded HTTP request against an OpenAPI 3.0 contract. Provide the method, path, and optionally a raw query string, headers, and body. Returns contract violations (path parameters, query parameters, headers, JSON body shape) with dotted paths locating each deviation. Strict mode rejects undeclared query parameters. Defaults are configurable via OASGUARD_CHECK_STRICT and OASGUARD_CHECK_NO_WARNINGS env vars.",
	}, handleCheckRequest)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_response",
		Description: "Check a recorded HTTP response against an OpenAPI 3.0 contract. Provide the original request method and path plus the response status, headers, and body. Resolves the declared response by exact status code, then NXX wildcard, then default. Returns contract violations with dotted paths locating each deviation.",
	}, handleCheckResponse)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "parse",
		Description: "Load an OpenAPI 3.0 document and return a structural summary: title, version, path templates, operation count, and component schema names. References are resolved and structural invariants checked; loading fails on circular references, undeclared path parameters, or operations without responses.",
	}, handleParse)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.ResultLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.ResultLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
