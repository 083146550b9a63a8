package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTools adds the compiler's MCP tools to srv. Both tools are
// read-only (compilation produces text, and when a GraphDB dependency is
// configured the statement runs only through ExecuteReadQuery), so
// there is no read-only-mode filtering to apply here, unlike the tool
// registries this codebase's ancestry filtered by readonly/GDS-availability.
func RegisterTools(srv *server.MCPServer, deps *Dependencies) {
	srv.AddTools(
		server.ServerTool{Tool: CompileToCypherSpec(), Handler: CompileToCypherHandler(deps)},
		server.ServerTool{Tool: CompileToCypherTenantSpec(), Handler: CompileToCypherTenantHandler(deps)},
	)
}
