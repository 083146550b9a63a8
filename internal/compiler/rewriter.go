package compiler

import (
	"github.com/mkd-neo4j/graph-cypher-compiler/internal/condition"
	"github.com/mkd-neo4j/graph-cypher-compiler/internal/schema"
)

// ArgumentRewriter is the extension seam the tenant-scoping layer installs
// in front of condition.BuildConditionTrees: given the `where` ValueSource
// a field's arguments carried (nil if none) and the field being recursed
// into, it returns the ValueSource conditions should actually be built
// from. The zero Compiler has no rewriter and behaves as the base filter
// builder.
type ArgumentRewriter func(where condition.ValueSource, parentType *schema.ObjectType, fieldName string) condition.ValueSource

// rewriteWhere applies the compiler's ArgumentRewriter, if any, to a
// field's `where` value source before condition trees are built from it.
func (c *Compiler) rewriteWhere(where condition.ValueSource, parentType *schema.ObjectType, fieldName string) condition.ValueSource {
	if c.rewriter == nil {
		return where
	}
	return c.rewriter(where, parentType, fieldName)
}
