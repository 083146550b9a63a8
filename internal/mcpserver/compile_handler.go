package mcpserver

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mkd-neo4j/graph-cypher-compiler/internal/compiler"
	"github.com/mkd-neo4j/graph-cypher-compiler/internal/graphdb"
	"github.com/mkd-neo4j/graph-cypher-compiler/internal/queryast"
	"github.com/mkd-neo4j/graph-cypher-compiler/internal/tenant"
)

// compileResult is the response shape returned when deps.GraphDB is
// configured: the compiled statement alongside the records it produced.
type compileResult struct {
	Cypher  string          `json:"cypher"`
	Records json.RawMessage `json:"records"`
}

// CompileToCypherHandler returns the handler for the base (non-tenant-scoped)
// compile tool.
func CompileToCypherHandler(deps *Dependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleCompile(ctx, request, deps, false)
	}
}

// CompileToCypherTenantHandler returns the handler for the tenant-scoped
// compile tool.
func CompileToCypherTenantHandler(deps *Dependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleCompile(ctx, request, deps, true)
	}
}

func handleCompile(ctx context.Context, request mcp.CallToolRequest, deps *Dependencies, tenantScoped bool) (*mcp.CallToolResult, error) {
	if deps.Schema == nil || deps.Directives == nil {
		errMessage := "schema is not initialized"
		slog.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}
	if deps.AnalyticsService == nil {
		errMessage := "analytics service is not initialized"
		slog.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	var args CompileInput
	if err := request.BindArguments(&args); err != nil {
		slog.Error("error binding arguments", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	if args.RootField == "" {
		errMessage := "rootField parameter is required"
		slog.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	deps.AnalyticsService.EmitEvent(
		deps.AnalyticsService.NewCompileEvent(args.RootField, tenantScoped),
	)

	doc, err := queryast.DecodeDocument([]byte(args.Document))
	if err != nil {
		slog.Error("error decoding document", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	var c *compiler.Compiler
	if tenantScoped {
		c = tenant.NewCompiler(deps.Schema, deps.Directives, doc, args.Variables)
	} else {
		c = compiler.New(deps.Schema, deps.Directives, doc, args.Variables)
	}

	cypher, err := c.Compile(args.RootField)
	if err != nil {
		slog.Error("error compiling document", "rootField", args.RootField, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	slog.Info("compiled query document", "rootField", args.RootField, "tenantScoped", tenantScoped)

	if deps.GraphDB == nil {
		return mcp.NewToolResultText(cypher), nil
	}

	records, err := deps.GraphDB.ExecuteReadQuery(ctx, cypher, args.Variables)
	if err != nil {
		slog.Error("error executing compiled cypher", "rootField", args.RootField, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	recordsJSON, err := graphdb.RecordsToJSON(records)
	if err != nil {
		slog.Error("error formatting records", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, err := json.Marshal(compileResult{Cypher: cypher, Records: json.RawMessage(recordsJSON)})
	if err != nil {
		slog.Error("error marshaling compile result", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
