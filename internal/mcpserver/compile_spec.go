package mcpserver

import "github.com/mark3labs/mcp-go/mcp"

// CompileInput is the shared input shape for both compile tools: a
// JSON-encoded query document (the pre-built AST a client constructed, in
// the shape internal/queryast.DecodeDocument expects), the root field to
// compile, and any runtime variable bindings the document's $-references
// resolve against.
type CompileInput struct {
	Document  string         `json:"document" jsonschema:"description=JSON-encoded query document: {operations:[...],fragments:{...}}"`
	RootField string         `json:"rootField" jsonschema:"description=Name of the top-level field in the operation's selection set to compile"`
	Variables map[string]any `json:"variables,omitempty" jsonschema:"default={},description=Runtime bindings for $-prefixed variable references in the document"`
}

func CompileToCypherSpec() mcp.Tool {
	return mcp.NewTool("compile-to-cypher",
		mcp.WithDescription("compile-to-cypher translates a query document's selected root field into a single Cypher statement, driven by the schema's @cypher and @relationship directives. It does not validate the document against the schema beyond what compilation requires. When a graph database connection is configured, it also executes the statement and returns its records alongside the Cypher text; otherwise it returns the compiled Cypher only."),
		mcp.WithInputSchema[CompileInput](),
		mcp.WithTitleAnnotation("Compile to Cypher"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}

func CompileToCypherTenantSpec() mcp.Tool {
	return mcp.NewTool("compile-to-cypher-tenant",
		mcp.WithDescription("compile-to-cypher-tenant behaves like compile-to-cypher, but injects a tenant predicate ($cypherParams.tenantId) into every compiled field whose target type declares a tenantId or tenantIds discriminator, except fields on an explicit deny-list. Use this tool instead of compile-to-cypher whenever the caller's session is scoped to one tenant."),
		mcp.WithInputSchema[CompileInput](),
		mcp.WithTitleAnnotation("Compile to Cypher (Tenant-Scoped)"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}
