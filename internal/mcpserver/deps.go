// Package mcpserver exposes the query-to-Cypher compiler as a pair of MCP
// tools, following this codebase's tool-spec/handler split: one file
// declares the tool's name/description/schema, another implements its
// handler against a narrow Dependencies surface.
package mcpserver

import (
	"github.com/mkd-neo4j/graph-cypher-compiler/internal/analytics"
	"github.com/mkd-neo4j/graph-cypher-compiler/internal/graphdb"
	"github.com/mkd-neo4j/graph-cypher-compiler/internal/schema"
)

// Dependencies is the set of collaborators every tool handler in this
// package needs. Construct once at startup and share across tools.
type Dependencies struct {
	Schema           *schema.Schema
	Directives       *schema.DirectiveIndex
	AnalyticsService analytics.Service

	// GraphDB is optional. When set, compile-to-cypher executes the
	// compiled statement and returns its records; when nil, it returns
	// the compiled Cypher text only.
	GraphDB graphdb.Service
}
