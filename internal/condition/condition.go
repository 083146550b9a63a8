// Package condition turns a `where` filter value — whether written as query
// AST literals or bound at runtime through a variable — into a tree of
// Condition nodes the compiler's WHERE-clause synthesis walks.
package condition

import (
	"fmt"

	"github.com/mkd-neo4j/graph-cypher-compiler/internal/schema"
)

// Operator is one of the filter DSL's comparison operators. The zero value
// is not a valid Operator; use OpEquals for "no suffix given".
type Operator string

const (
	OpEquals      Operator = "EQUALS"
	OpNot         Operator = "NOT"
	OpGT          Operator = "GT"
	OpGTE         Operator = "GTE"
	OpLT          Operator = "LT"
	OpLTE         Operator = "LTE"
	OpIn          Operator = "IN"
	OpNotIn       Operator = "NOT_IN"
	OpContains    Operator = "CONTAINS"
	OpNotContains Operator = "NOT_CONTAINS"
	OpEndsWith    Operator = "ENDS_WITH"
	OpNotEndsWith Operator = "NOT_ENDS_WITH"
	OpMatches     Operator = "MATCHES"
	OpIncludes    Operator = "INCLUDES"
)

var operators = map[string]Operator{
	string(OpEquals):      OpEquals,
	string(OpNot):         OpNot,
	string(OpGT):          OpGT,
	string(OpGTE):         OpGTE,
	string(OpLT):          OpLT,
	string(OpLTE):         OpLTE,
	string(OpIn):          OpIn,
	string(OpNotIn):       OpNotIn,
	string(OpContains):    OpContains,
	string(OpNotContains): OpNotContains,
	string(OpEndsWith):    OpEndsWith,
	string(OpNotEndsWith): OpNotEndsWith,
	string(OpMatches):     OpMatches,
	string(OpIncludes):    OpIncludes,
}

// ErrUnknownOperator is returned when a `where` key carries an `_<OP>`
// suffix that isn't one of the recognized operators — a Fatal condition
// that must surface to the caller with the offending text.
type ErrUnknownOperator struct {
	Operator string
}

func (e *ErrUnknownOperator) Error() string {
	return fmt.Sprintf("condition: unknown operator %q", e.Operator)
}

// ParseOperator resolves an operator suffix. An empty string defaults to
// EQUALS per the filter DSL's field-name-pattern rule.
func ParseOperator(suffix string) (Operator, error) {
	if suffix == "" {
		return OpEquals, nil
	}
	op, ok := operators[suffix]
	if !ok {
		return "", &ErrUnknownOperator{Operator: suffix}
	}
	return op, nil
}

// Condition is the filter DSL node. Leaves carry Operator/Value; groups,
// ORs, and relationship conditions carry Nested instead. IsOr, IsGroup,
// and IsRelationship are mutually-informative discriminator flags — the
// walker branches on them explicitly, it never dispatches dynamically.
//
// Invariants: a leaf has Nested == nil. A group has Nested != nil and
// IsGroup == true. An OR has IsOr == true and every entry in Nested is
// itself a group. A relationship (nested-where) condition has
// IsRelationship == false at its own level — Nested descendants carry
// ParentType set to the related type instead. IsRelationship is only ever
// true on LEAF conditions reached through an "edge" sub-dispatch, where it
// selects the rel_<parentPropertyName><level> accessor prefix over the
// ordinary camelCase(ParentTypeName)<level> one.
type Condition struct {
	ParentType         *schema.ObjectType
	ParentPropertyName string
	Property           string
	Operator           Operator
	IsOr               bool
	IsGroup            bool
	IsRelationship     bool
	Value              string
	Nested             []*Condition
}

// IsRelationshipContainer reports whether c is a nested-where condition
// (as opposed to a leaf, a group, or an OR) — i.e. it recurses into a
// related type rather than carrying a comparable value.
func (c *Condition) IsRelationshipContainer() bool {
	return c.Nested != nil && !c.IsGroup && !c.IsOr
}
