// Package tenant extends the filter DSL analyzer with tenant scoping: it
// injects a tenant predicate into any field's `where` whose target type
// carries a tenant discriminator, by composition rather than subclassing
// — a Rewriter hook installed in front of the base condition builder.
package tenant

import (
	"github.com/mkd-neo4j/graph-cypher-compiler/internal/compiler"
	"github.com/mkd-neo4j/graph-cypher-compiler/internal/condition"
	"github.com/mkd-neo4j/graph-cypher-compiler/internal/queryast"
	"github.com/mkd-neo4j/graph-cypher-compiler/internal/schema"
)

// NewCompiler builds a Compiler with tenant scoping installed as an
// ArgumentRewriter in front of the base condition builder — composition
// over subclassing, per the extension's design.
func NewCompiler(sch *schema.Schema, directives *schema.DirectiveIndex, doc *queryast.Document, variables map[string]any) *compiler.Compiler {
	return compiler.New(sch, directives, doc, variables).WithRewriter(compiler.ArgumentRewriter(NewRewriter(sch)))
}

// denyList holds field names exempt from tenant injection even when their
// target type carries a discriminator. "sentBy" appears twice in the
// deny-list this was distilled from (the second entry is a harmless
// duplicate) — preserved as-specified rather than deduplicated.
var denyList = []string{
	"sentBy",
	"includedIn",
	"updatedBy",
	"proposedBy",
	"creator",
	"mappingInstances",
	"sentBy",
}

func isDenied(fieldName string) bool {
	for _, d := range denyList {
		if d == fieldName {
			return true
		}
	}
	return false
}

const flexEntityType = "FlexEntity"

const (
	scalarDiscriminator = "tenantId"
	listDiscriminator   = "tenantIds"
)

// tenantParamValue is the raw Cypher fragment a tenant predicate compares
// against; it is rendered unquoted via condition.NewRawValueSource rather
// than resolved through the variables map, since it isn't a query-document
// variable reference — it's the compiler-supplied tenancy context.
const tenantParamValue = "$cypherParams.tenantId"

// Rewriter is the argument-rewriter hook installed in front of
// condition.BuildConditionTrees: given the caller's `where` ValueSource
// (nil if absent) and the field being recursed into, it returns the
// ValueSource to actually build conditions from.
type Rewriter func(where condition.ValueSource, parentType *schema.ObjectType, fieldName string) condition.ValueSource

// NewRewriter builds the tenant-injection Rewriter for a schema.
func NewRewriter(sch *schema.Schema) Rewriter {
	return func(where condition.ValueSource, parentType *schema.ObjectType, fieldName string) condition.ValueSource {
		_, discriminator, ok := discriminatorFor(sch, parentType, fieldName)
		if !ok || isDenied(fieldName) {
			return where
		}

		var predicate condition.ValueSource = tenantPredicateSource{discriminator: discriminator}
		if schema.IsConnectionFieldName(fieldName) {
			predicate = nodeWrapperSource{inner: predicate}
		}
		if where == nil {
			return predicate
		}
		return andSource{left: where, right: predicate}
	}
}

// discriminatorFor resolves the field's target node type (unwrapping a
// connection if present) and reports which tenant discriminator, if any,
// it declares. The FlexEntity type never carries tenant scoping.
func discriminatorFor(sch *schema.Schema, parentType *schema.ObjectType, fieldName string) (*schema.ObjectType, string, bool) {
	field, ok := parentType.Field(fieldName)
	if !ok {
		return nil, "", false
	}
	named := field.Type.NamedType()
	targetType, ok := sch.ObjectType(named.Name)
	if !ok {
		return nil, "", false
	}

	nodeType := targetType
	if schema.IsConnectionFieldName(fieldName) {
		if nt, ok := sch.ConnectionNodeType(targetType); ok {
			nodeType = nt
		}
	}
	if nodeType.Name == flexEntityType {
		return nodeType, "", false
	}

	if _, ok := nodeType.Field(scalarDiscriminator); ok {
		return nodeType, scalarDiscriminator, true
	}
	if _, ok := nodeType.Field(listDiscriminator); ok {
		return nodeType, listDiscriminator, true
	}
	return nodeType, "", false
}

// tenantPredicateSource is a synthetic one-key object ValueSource: either
// { tenantId: $cypherParams.tenantId } or { tenantIds_INCLUDES: $cypherParams.tenantId }.
type tenantPredicateSource struct {
	discriminator string
}

func (t tenantPredicateSource) key() string {
	if t.discriminator == listDiscriminator {
		return listDiscriminator + "_INCLUDES"
	}
	return scalarDiscriminator
}

func (t tenantPredicateSource) Kind() condition.ValueKind  { return condition.KindObject }
func (t tenantPredicateSource) ObjectKeys() []string       { return []string{t.key()} }
func (t tenantPredicateSource) ListItems() []condition.ValueSource { return nil }
func (t tenantPredicateSource) VariableName() string       { return "" }
func (t tenantPredicateSource) StringValue() string        { return "" }
func (t tenantPredicateSource) IntValue() int64             { return 0 }
func (t tenantPredicateSource) FloatValue() float64        { return 0 }
func (t tenantPredicateSource) BoolValue() bool             { return false }
func (t tenantPredicateSource) DateShape() (int, int, int, bool) { return 0, 0, 0, false }

func (t tenantPredicateSource) ObjectField(name string) (condition.ValueSource, bool) {
	if name != t.key() {
		return nil, false
	}
	return condition.NewRawValueSource(tenantParamValue), true
}

// nodeWrapperSource wraps a predicate in { node: <inner> }, for connection
// fields where the tenant discriminator lives on the node type.
type nodeWrapperSource struct {
	inner condition.ValueSource
}

func (n nodeWrapperSource) Kind() condition.ValueKind  { return condition.KindObject }
func (n nodeWrapperSource) ObjectKeys() []string       { return []string{"node"} }
func (n nodeWrapperSource) ListItems() []condition.ValueSource { return nil }
func (n nodeWrapperSource) VariableName() string       { return "" }
func (n nodeWrapperSource) StringValue() string        { return "" }
func (n nodeWrapperSource) IntValue() int64             { return 0 }
func (n nodeWrapperSource) FloatValue() float64        { return 0 }
func (n nodeWrapperSource) BoolValue() bool             { return false }
func (n nodeWrapperSource) DateShape() (int, int, int, bool) { return 0, 0, 0, false }

func (n nodeWrapperSource) ObjectField(name string) (condition.ValueSource, bool) {
	if name != "node" {
		return nil, false
	}
	return n.inner, true
}

// andSource AND-combines an existing `where` with an injected predicate,
// preserving the original as the first operand, per the tenant
// extension's combination rule.
type andSource struct {
	left, right condition.ValueSource
}

func (a andSource) Kind() condition.ValueKind  { return condition.KindObject }
func (a andSource) ObjectKeys() []string       { return []string{"AND"} }
func (a andSource) VariableName() string       { return "" }
func (a andSource) StringValue() string        { return "" }
func (a andSource) IntValue() int64             { return 0 }
func (a andSource) FloatValue() float64        { return 0 }
func (a andSource) BoolValue() bool             { return false }
func (a andSource) DateShape() (int, int, int, bool) { return 0, 0, 0, false }

func (a andSource) ObjectField(name string) (condition.ValueSource, bool) {
	if name != "AND" {
		return nil, false
	}
	return valueListSource{items: []condition.ValueSource{a.left, a.right}}, true
}

func (a andSource) ListItems() []condition.ValueSource { return nil }

// valueListSource is a bare ValueSource of Kind KindList over a fixed set
// of already-built ValueSources.
type valueListSource struct {
	items []condition.ValueSource
}

func (v valueListSource) Kind() condition.ValueKind                   { return condition.KindList }
func (v valueListSource) ObjectKeys() []string                        { return nil }
func (v valueListSource) ObjectField(string) (condition.ValueSource, bool) { return nil, false }
func (v valueListSource) ListItems() []condition.ValueSource          { return v.items }
func (v valueListSource) VariableName() string                        { return "" }
func (v valueListSource) StringValue() string                         { return "" }
func (v valueListSource) IntValue() int64                              { return 0 }
func (v valueListSource) FloatValue() float64                         { return 0 }
func (v valueListSource) BoolValue() bool                              { return false }
func (v valueListSource) DateShape() (int, int, int, bool)             { return 0, 0, 0, false }
