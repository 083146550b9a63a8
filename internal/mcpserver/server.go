package mcpserver

import (
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mkd-neo4j/graph-cypher-compiler/internal/appconfig"
)

// NewServer builds the MCP server instance and registers the compiler's
// tools. If cfg.TenantScoped is set, only compile-to-cypher-tenant is
// registered — the operator's way of preventing an unscoped compile in a
// multi-tenant deployment.
func NewServer(version string, cfg *appconfig.Config, deps *Dependencies) *server.MCPServer {
	mcpServer := server.NewMCPServer(
		"graph-cypher-compiler",
		version,
		server.WithToolCapabilities(false),
		server.WithInstructions("Translates a query document's selected root field into Cypher, driven by the schema's @cypher and @relationship directives. Use compile-to-cypher-tenant when the caller's session is scoped to one tenant."),
	)

	if cfg.TenantScoped {
		mcpServer.AddTools(
			server.ServerTool{Tool: CompileToCypherTenantSpec(), Handler: CompileToCypherTenantHandler(deps)},
		)
	} else {
		RegisterTools(mcpServer, deps)
	}

	return mcpServer
}

// Serve starts the MCP server over stdio, per cfg.TransportMode. HTTP mode
// is a Non-goal of this compiler (spec.md §1 scopes transport concerns
// out); only stdio is wired.
func Serve(mcpServer *server.MCPServer, cfg *appconfig.Config) error {
	switch cfg.TransportMode {
	case appconfig.TransportModeStdio:
		slog.Info("starting MCP server over stdio")
		return server.ServeStdio(mcpServer)
	default:
		return fmt.Errorf("unsupported transport mode: %s", cfg.TransportMode)
	}
}
