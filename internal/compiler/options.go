package compiler

import (
	"fmt"
	"strings"

	"github.com/mkd-neo4j/graph-cypher-compiler/internal/condition"
	"github.com/mkd-neo4j/graph-cypher-compiler/internal/queryast"
)

// appendOptionsClause parses the root field's `options` argument and
// appends its ORDER BY / SKIP / LIMIT clauses to the root token (§4.4.9).
// Preserves two deliberately-asymmetric behaviors: limit 0 is falsy and
// omitted, while an explicitly-provided offset of 0 still emits SKIP 0.
func (c *Compiler) appendOptionsClause(node *queryast.FieldNode) {
	tok := c.tokens.top()
	if tok == nil {
		return
	}
	optsArg, ok := node.Argument("options")
	if !ok {
		return
	}
	opts := condition.ResolveVariable(condition.NewASTValueSource(optsArg), c.variables)
	if opts.Kind() != condition.KindObject {
		return
	}

	var clause strings.Builder

	if sortVal, ok := opts.ObjectField("sort"); ok {
		sortVal = condition.ResolveVariable(sortVal, c.variables)
		var sortObjects []condition.ValueSource
		if sortVal.Kind() == condition.KindList {
			sortObjects = sortVal.ListItems()
		} else if sortVal.Kind() == condition.KindObject {
			sortObjects = []condition.ValueSource{sortVal}
		}
		var orderParts []string
		for _, so := range sortObjects {
			for _, key := range so.ObjectKeys() {
				dirVal, _ := so.ObjectField(key)
				orderParts = append(orderParts, fmt.Sprintf("%s.%s %s", c.rootVar, key, dirVal.StringValue()))
			}
		}
		if len(orderParts) > 0 {
			clause.WriteString(" ORDER BY " + strings.Join(orderParts, ", "))
		}
	}

	if offsetVal, ok := opts.ObjectField("offset"); ok {
		clause.WriteString(fmt.Sprintf(" SKIP %d", offsetVal.IntValue()))
	}

	if limitVal, ok := opts.ObjectField("limit"); ok && limitVal.IntValue() != 0 {
		clause.WriteString(fmt.Sprintf(" LIMIT %d", limitVal.IntValue()))
	}

	tok.append(clause.String())
}
