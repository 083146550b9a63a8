// Package compiler is the Cypher emitter: a schema-directed AST walker
// that emits a single Cypher string from a query document via a leveled
// token buffer, delegating filter-DSL analysis to internal/condition and
// traversal dispatch to internal/traverse.
package compiler

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/mkd-neo4j/graph-cypher-compiler/internal/queryast"
	"github.com/mkd-neo4j/graph-cypher-compiler/internal/schema"
	"github.com/mkd-neo4j/graph-cypher-compiler/internal/traverse"
)

// RootTypeName is the schema type a Document's operation root is resolved
// against, following the convention that the root Query type is always
// registered under this name.
const RootTypeName = "Query"

type listFlag int

const (
	flagNone listFlag = iota
	flagSingle
	flagList
)

// Compiler owns all state for one query compilation. Construct with New,
// call Compile once; the instance is single-use.
type Compiler struct {
	schema     *schema.Schema
	directives *schema.DirectiveIndex
	variables  map[string]any
	doc        *queryast.Document

	typePath        []*schema.ObjectType
	fieldPath       []*schema.Field
	fieldNodePath   []*queryast.FieldNode
	listFlagPath    []listFlag
	systemFieldPath []bool

	level   int
	buffer  []string
	tokens  tokenBuffer
	rootVar string
	rewriter ArgumentRewriter

	err error
}

// New constructs a Compiler for one compilation of doc against sch.
// variables supplies runtime bindings for $-prefixed references appearing
// in the document (e.g. a `where: $where` argument).
func New(sch *schema.Schema, directives *schema.DirectiveIndex, doc *queryast.Document, variables map[string]any) *Compiler {
	rootType, _ := sch.ObjectType(RootTypeName)
	return &Compiler{
		schema:     sch,
		directives: directives,
		variables:  variables,
		doc:        doc,
		typePath:   []*schema.ObjectType{rootType},
		level:      -1,
	}
}

// WithRewriter installs an ArgumentRewriter and returns c for chaining,
// e.g. compiler.New(...).WithRewriter(compiler.ArgumentRewriter(tenant.NewRewriter(sch))).
func (c *Compiler) WithRewriter(r ArgumentRewriter) *Compiler {
	c.rewriter = r
	return c
}

// Compile walks the document's root field named rootFieldName and returns
// the emitted Cypher string.
func (c *Compiler) Compile(rootFieldName string) (string, error) {
	op, ok := c.doc.Operation()
	if !ok {
		return "", fmt.Errorf("compiler: document must contain exactly one operation")
	}
	if op.Type != queryast.OperationQuery {
		return "", &ErrMutationNotSupported{OperationName: op.Name}
	}

	found := false
	for _, sel := range op.SelectionSet {
		if f, ok := sel.(*queryast.FieldNode); ok && f.Name == rootFieldName {
			found = true
		}
	}
	if !found {
		return "", &ErrNoRootField{RootFieldName: rootFieldName}
	}

	traverse.Traverse(c.doc, rootFieldName, c)
	if c.err != nil {
		slog.Error("compiler: fatal error during emission", "error", c.err)
		return "", c.err
	}

	// Flush any remaining tokens: append their concatenated values to the
	// main buffer (§4.4.10).
	for _, t := range c.tokens.tokens {
		c.buffer = append(c.buffer, t.joined())
	}
	c.tokens.retain(nil)

	return strings.Join(c.buffer, " "), nil
}

func (c *Compiler) currentType() *schema.ObjectType {
	return c.typePath[len(c.typePath)-1]
}

func (c *Compiler) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

// VisitField implements traverse.Visitor (§4.4.1).
func (c *Compiler) VisitField(node *queryast.FieldNode) bool {
	c.level++
	tok := newLevelToken(c.level)
	c.tokens.push(tok)

	if node.Name == "__typename" {
		c.systemFieldPath = append(c.systemFieldPath, true)
		tok.append(fmt.Sprintf("%s: '%s'", node.ResponseName(), c.currentType().Name))
		return true
	}
	c.systemFieldPath = append(c.systemFieldPath, false)

	parentType := c.currentType()
	field, err := parentType.MustField(node.Name)
	if err != nil {
		c.fail(err)
		// Push placeholder frames so VisitEndField's pops stay balanced.
		c.fieldPath = append(c.fieldPath, nil)
		c.fieldNodePath = append(c.fieldNodePath, node)
		c.listFlagPath = append(c.listFlagPath, flagNone)
		c.typePath = append(c.typePath, nil)
		return true
	}
	fieldType := field.Type
	named := fieldType.NamedType()
	targetType, hasTargetType := c.schema.ObjectType(named.Name)

	c.fieldPath = append(c.fieldPath, field)
	c.fieldNodePath = append(c.fieldNodePath, node)
	c.listFlagPath = append(c.listFlagPath, flagNone)
	c.typePath = append(c.typePath, targetType)

	// Consult the directive index for the owning type, rather than the
	// field's own copy of its directives, per the schema directive
	// index's role as the sole source the emitter queries.
	fieldDirectives := c.directives.Lookup(parentType.Name, node.Name)
	cypherDir, hasCypher := schema.FindDirective(fieldDirectives, schema.DirectiveCypher)
	relDir, hasRel := schema.FindRelationshipDirective(fieldDirectives)

	switch {
	case c.level == 0:
		c.emitTopLevelExpression(tok, field, node, parentType, named, hasTargetType, targetType, cypherDir, hasCypher)
		return false

	case !named.IsObjectLike():
		if hasCypher {
			closest := c.closestNodeVar()
			call := fmt.Sprintf("apoc.cypher.runFirstColumn(%s, { this: %s, cypherParams: $cypherParams })", serializeStatement(cypherDir), closest)
			if !fieldType.IsList() {
				call += "[0]"
			}
			tok.append(fmt.Sprintf("%s: %s", node.ResponseName(), call))
		} else {
			tok.append(fmt.Sprintf("%s: .%s", node.ResponseName(), field.Name))
		}
		return true

	case !hasCypher && !hasRel:
		switch {
		case node.Name == "node":
			tok.append(fmt.Sprintf("%s: %s", node.ResponseName(), c.closestNodeVar()))
			return true
		case !schema.IsConnectionFieldName(field.Name):
			tok.append(fmt.Sprintf("%s: null", node.ResponseName()))
			return true
		default:
			tok.append(fmt.Sprintf("%s: ", node.ResponseName()))
			return false
		}

	default:
		lf := flagSingle
		if fieldType.IsList() {
			lf = flagList
		}
		c.listFlagPath[len(c.listFlagPath)-1] = lf

		if hasCypher {
			targetVar := nodeVar(named.Name, c.level)
			tok.append(fmt.Sprintf("%s: [ %s in apoc.cypher.runFirstColumn(%s, { this: %s, cypherParams: $cypherParams }) | %s",
				node.ResponseName(), targetVar, serializeStatement(cypherDir), c.closestNodeVar(), targetVar))
		} else {
			c.emitRelationshipComprehension(tok, field, node, relDir, parentType, named, hasTargetType)
		}
		return false
	}
}

func serializeStatement(d schema.Directive) string {
	stmt, _ := d.StringArg("statement")
	return "\"" + strings.ReplaceAll(stmt, "\"", "\\\"") + "\""
}

// closestNodeVar derives the nearest enclosing node pattern variable from
// the type/level stack, used for `node` field shorthand and @cypher's
// `this` binding.
func (c *Compiler) closestNodeVar() string {
	for lvl := c.level; lvl >= 0; lvl-- {
		if lvl < len(c.typePath)-1 {
			t := c.typePath[lvl+1]
			if t != nil && !schema.IsConnectionFieldName(t.Name) {
				return nodeVar(t.Name, lvl)
			}
		}
	}
	if len(c.typePath) > 0 {
		root := c.typePath[0]
		if root != nil {
			return nodeVar(root.Name, 0)
		}
	}
	return "this"
}

// VisitEndField implements traverse.Visitor (§4.4.5).
func (c *Compiler) VisitEndField(node *queryast.FieldNode) {
	isSystem := len(c.systemFieldPath) > 0 && c.systemFieldPath[len(c.systemFieldPath)-1]
	c.systemFieldPath = c.systemFieldPath[:len(c.systemFieldPath)-1]

	if isSystem {
		c.level--
		return
	}

	if c.level == 0 {
		c.appendOptionsClause(node)
	}

	lf := c.listFlagPath[len(c.listFlagPath)-1]
	if lf != flagNone && c.level > 0 {
		tok := c.tokens.top()
		if tok != nil {
			tok.append("]")
			if lf == flagSingle {
				tok.append("[0]")
			}
		}
	}

	c.fieldPath = c.fieldPath[:len(c.fieldPath)-1]
	c.fieldNodePath = c.fieldNodePath[:len(c.fieldNodePath)-1]
	c.listFlagPath = c.listFlagPath[:len(c.listFlagPath)-1]
	c.typePath = c.typePath[:len(c.typePath)-1]
	c.level--
}

// VisitInlineFragment implements traverse.Visitor. Inline fragments don't
// push a new token level; their children fold into the enclosing field.
func (c *Compiler) VisitInlineFragment(node *queryast.InlineFragment) {
	if t, ok := c.schema.ObjectType(node.TypeCondition); ok {
		c.typePath = append(c.typePath, t)
	} else {
		c.fail(queryast.ErrMissingTypeCondition)
		c.typePath = append(c.typePath, c.currentType())
	}
}

// VisitEndInlineFragment implements traverse.Visitor.
func (c *Compiler) VisitEndInlineFragment(node *queryast.InlineFragment) {
	c.typePath = c.typePath[:len(c.typePath)-1]
}

// VisitSelectionSet implements traverse.Visitor — a no-op; collapse
// happens entirely in VisitEndSelectionSet (§4.4.6).
func (c *Compiler) VisitSelectionSet(parent traverse.SelectionSetParent) {}

// VisitEndSelectionSet implements traverse.Visitor (§4.4.6).
func (c *Compiler) VisitEndSelectionSet(parent traverse.SelectionSetParent) {
	if parent == traverse.ParentFragmentDefinition || parent == traverse.ParentInlineFragment {
		return
	}

	inner, outer := c.tokens.partition(c.level)
	parts := make([]string, 0, len(inner))
	for _, t := range inner {
		parts = append(parts, t.joined())
	}
	projection := "{ " + strings.Join(parts, ", ") + " }"

	// The level-0 root token is always the last entry of outer (it shares
	// the current level), so attaching the projection to it rather than
	// pushing a separate buffer segment keeps "RETURN <var> { ... }"
	// contiguous instead of reordering it ahead of the MATCH/RETURN text.
	if parentTok := lastOf(outer); parentTok != nil {
		parentTok.append(projection)
	}
	c.tokens.retain(outer)
}

func lastOf(tokens []*Token) *Token {
	if len(tokens) == 0 {
		return nil
	}
	return tokens[len(tokens)-1]
}
