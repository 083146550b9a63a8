package compiler

import (
	"fmt"
	"strings"

	"github.com/mkd-neo4j/graph-cypher-compiler/internal/condition"
	"github.com/mkd-neo4j/graph-cypher-compiler/internal/queryast"
	"github.com/mkd-neo4j/graph-cypher-compiler/internal/schema"
)

// emitTopLevelExpression handles level 0 (§4.4.2).
func (c *Compiler) emitTopLevelExpression(
	tok *Token,
	field *schema.Field,
	node *queryast.FieldNode,
	parentType *schema.ObjectType,
	named *schema.Type,
	hasTargetType bool,
	targetType *schema.ObjectType,
	cypherDir schema.Directive,
	hasCypher bool,
) {
	fieldName := nodeVar(named.Name, 0)
	c.rootVar = fieldName

	if hasCypher {
		tok.append(fmt.Sprintf("UNWIND %s as %s RETURN %s",
			fmt.Sprintf("apoc.cypher.runFirstColumn(%s, { cypherParams: $cypherParams })", serializeStatement(cypherDir)),
			fieldName, fieldName))
		return
	}

	var whereSource condition.ValueSource
	if whereArg, ok := node.Argument("where"); ok {
		whereSource = condition.NewASTValueSource(whereArg)
	}
	whereSource = c.rewriteWhere(whereSource, parentType, field.Name)

	var conds []*condition.Condition
	if whereSource != nil && hasTargetType {
		built, err := condition.BuildConditionTrees(c.schema, whereSource, targetType, field.Name, false, c.variables)
		if err != nil {
			c.fail(err)
		}
		conds = built
	}

	inline := c.buildInlinePropertyPattern(conds, false)
	where := c.synthesizeWhere(conds, fieldName, 0)

	tok.append(fmt.Sprintf("MATCH (%s:%s%s)%s RETURN %s", fieldName, named.Name, inline, where, fieldName))
}

// emitRelationshipComprehension handles a relationship-directive object
// field (§4.4.4).
func (c *Compiler) emitRelationshipComprehension(
	tok *Token,
	field *schema.Field,
	node *queryast.FieldNode,
	relDir schema.Directive,
	parentType *schema.ObjectType,
	named *schema.Type,
	hasTargetType bool,
) {
	edgeType, _ := relDir.StringArg("type")
	direction, _ := relDir.StringArg("direction")
	lvl := c.level

	srcFramesBack := 2
	if isEdgesSubfield(field.Name) {
		srcFramesBack = 3
	}
	srcVar := c.varAtFramesBack(srcFramesBack)

	renderedTargetTypeName := named.Name
	var targetObj *schema.ObjectType
	if hasTargetType {
		targetObj, _ = c.schema.ObjectType(named.Name)
	}
	// The where value is analyzed against the field's declared type, so a
	// connection field's `node`/`edge` keys resolve through its wrapper.
	whereType := targetObj
	if targetObj != nil && schema.IsConnectionFieldName(field.Name) {
		if nodeType, ok := c.schema.ConnectionNodeType(targetObj); ok {
			targetObj = nodeType
			renderedTargetTypeName = nodeType.Name
		}
	}

	tgtVar := nodeVar(renderedTargetTypeName, lvl)
	rv := relVar(field.Name, lvl)

	var whereSource condition.ValueSource
	if whereArg, ok := node.Argument("where"); ok {
		whereSource = condition.NewASTValueSource(whereArg)
	}
	whereSource = c.rewriteWhere(whereSource, parentType, field.Name)

	var conds []*condition.Condition
	if whereSource != nil {
		if whereType != nil {
			built, err := condition.BuildConditionTrees(c.schema, whereSource, whereType, field.Name, false, c.variables)
			if err != nil {
				c.fail(err)
			}
			conds = built
		}
	}

	renderEdges := isEdgesSubfield(field.Name)
	inlineNode := c.buildInlinePropertyPattern(conds, false)
	inlineRel := c.buildInlinePropertyPattern(conds, true)
	where := c.synthesizeWhere(conds, tgtVar, lvl)

	arrow := "-[%s:%s%s]->"
	if strings.EqualFold(direction, schema.RelationshipDirectionIn) {
		arrow = "<-[%s:%s%s]-"
	}
	relPattern := fmt.Sprintf(arrow, rv, edgeType, inlineRel)

	yielded := tgtVar
	if renderEdges {
		yielded = rv
	}

	tok.append(fmt.Sprintf("%s: [ (%s)%s(%s:%s%s)%s | %s",
		node.ResponseName(), srcVar, relPattern, tgtVar, renderedTargetTypeName, inlineNode, where, yielded))
}

func isEdgesSubfield(fieldName string) bool {
	return fieldName == "edges"
}

// varAtFramesBack walks the type stack back N frames, counting the current
// field's own frame as the first, to resolve the pattern variable a
// relationship comprehension's source binds to.
func (c *Compiler) varAtFramesBack(frames int) string {
	idx := len(c.typePath) - frames
	if idx < 0 {
		idx = 0
	}
	lvl := c.level - frames + 1
	if lvl < 0 {
		lvl = 0
	}
	t := c.typePath[idx]
	if t == nil {
		return c.closestNodeVar()
	}
	return nodeVar(t.Name, lvl)
}

// buildInlinePropertyPattern renders the subset of conds usable as an
// inline equality pattern: leaf conditions with no operator (the EQUALS
// default) matching the caller's node-vs-relationship context (§4.4.3).
func (c *Compiler) buildInlinePropertyPattern(conds []*condition.Condition, isRelationshipProperty bool) string {
	var parts []string
	for _, cond := range conds {
		if cond.IsRelationshipContainer() || cond.IsGroup || cond.IsOr {
			continue
		}
		if cond.Operator != condition.OpEquals || cond.IsRelationship != isRelationshipProperty {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", cond.Property, cond.Value))
	}
	if len(parts) == 0 {
		return ""
	}
	return " {" + strings.Join(parts, ", ") + "}"
}

// synthesizeWhere implements §4.4.7: partitions conditions into
// relationship chains (fast/slow existential) and plain predicates,
// AND-joining the result and prepending WHERE iff non-empty.
func (c *Compiler) synthesizeWhere(conds []*condition.Condition, scopeVar string, level int) string {
	var relConds, plainConds []*condition.Condition
	for _, cond := range conds {
		if cond.IsRelationshipContainer() {
			relConds = append(relConds, cond)
		} else {
			plainConds = append(plainConds, cond)
		}
	}

	var clauses []string

	var orPaths, andPaths []string
	for _, rc := range relConds {
		paths := enumerateDFSPaths(rc)
		for _, path := range paths {
			containsOr := false
			for _, p := range path {
				if p.IsOr {
					containsOr = true
				}
			}
			rendered := c.renderExistentialPath(path, scopeVar, level)
			if containsOr {
				orPaths = append(orPaths, rendered)
			} else {
				andPaths = append(andPaths, rendered)
			}
		}
	}
	if len(orPaths) > 0 {
		clauses = append(clauses, "("+strings.Join(orPaths, " OR ")+")")
	}
	clauses = append(clauses, andPaths...)

	for _, pc := range plainConds {
		rendered := c.renderPlainCondition(pc, scopeVar, level, &existentialScope{})
		if rendered != "" {
			clauses = append(clauses, rendered)
		}
	}

	if len(clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(clauses, " AND ")
}

// enumerateDFSPaths walks a relationship condition's nested relationship
// descendants depth-first, producing one path per terminal chain (§4.4.7
// step 2).
func enumerateDFSPaths(root *condition.Condition) [][]*condition.Condition {
	var deeper [][]*condition.Condition
	for _, n := range root.Nested {
		if n.IsRelationshipContainer() {
			for _, sub := range enumerateDFSPaths(n) {
				deeper = append(deeper, append([]*condition.Condition{root}, sub...))
			}
		}
	}
	if len(deeper) == 0 {
		return [][]*condition.Condition{{root}}
	}
	return deeper
}

// renderExistentialPath renders one relationship-chain path as a fast
// `exists(pattern)` or slow `exists { MATCH ... WHERE ... }` predicate,
// chosen per the fast-qualification rule in §4.4.7 step 4.
func (c *Compiler) renderExistentialPath(path []*condition.Condition, scopeVar string, level int) string {
	if pathQualifiesFast(path) {
		return "exists(" + c.renderChainPattern(path, scopeVar, level, true, nil) + ")"
	}
	scope := &existentialScope{}
	var predicates []string
	pattern := c.renderChainPattern(path, scopeVar, level, false, &predicates)
	c.collectChainPredicates(path, level, scope, &predicates)
	return "exists { MATCH " + pattern + " WHERE " + strings.Join(predicates, " AND ") + " }"
}

// renderChainPattern renders the MATCH-style pattern for a relationship
// chain, inline property maps for the fast form, bare variables for slow.
func (c *Compiler) renderChainPattern(path []*condition.Condition, scopeVar string, level int, inline bool, _ *[]string) string {
	cur := scopeVar
	var b strings.Builder
	for i, step := range path {
		field, err := step.ParentType.MustField(step.Property)
		if err != nil {
			c.fail(err)
			return ""
		}
		relDir, _ := schema.FindRelationshipDirective(c.directives.Lookup(step.ParentType.Name, step.Property))
		edgeType, _ := relDir.StringArg("type")
		direction, _ := relDir.StringArg("direction")

		targetTypeName := field.Type.NamedType().Name
		if schema.IsConnectionFieldName(step.Property) {
			if connType, ok := c.schema.ObjectType(targetTypeName); ok {
				if nodeType, ok := c.schema.ConnectionNodeType(connType); ok {
					targetTypeName = nodeType.Name
				}
			}
		}
		tgtVar := fmt.Sprintf("%s%s", camelCase(targetTypeName), suffixForIndex(level, i))
		rv := relVar(step.Property, level)

		arrow := "-[%s:%s%s]->"
		if strings.EqualFold(direction, schema.RelationshipDirectionIn) {
			arrow = "<-[%s:%s%s]-"
		}
		inlineRel := ""
		if inline {
			inlineRel = c.buildInlinePropertyPattern(step.Nested, true)
		}
		rel := fmt.Sprintf(arrow, rv, edgeType, inlineRel)

		nodePattern := tgtVar + ":" + targetTypeName
		if inline {
			nodePattern += c.buildInlinePropertyPattern(step.Nested, false)
		}
		fmt.Fprintf(&b, "(%s)%s(%s)", cur, rel, nodePattern)
		cur = tgtVar
	}
	return b.String()
}

func suffixForIndex(level, index int) string {
	return fmt.Sprintf("_%d_%d", level, index)
}

// collectChainPredicates appends the AND-joined property predicates for
// every non-relationship descendant along a slow existential chain.
func (c *Compiler) collectChainPredicates(path []*condition.Condition, level int, scope *existentialScope, out *[]string) {
	for i, step := range path {
		accessor := fmt.Sprintf("%s%s", camelCase(step.ParentType.Name), suffixForIndex(level, i))
		for _, n := range step.Nested {
			if n.IsRelationshipContainer() {
				continue
			}
			rendered := c.renderPlainCondition(n, accessor, level, scope)
			if rendered != "" {
				*out = append(*out, rendered)
			}
		}
	}
}

// pathQualifiesFast implements §4.4.7 step 4's fast-existential test.
func pathQualifiesFast(path []*condition.Condition) bool {
	for _, step := range path {
		if !allDescendantsOperatorFree(step) {
			return false
		}
	}
	return true
}

func allDescendantsOperatorFree(cond *condition.Condition) bool {
	for _, n := range cond.Nested {
		if n.IsRelationshipContainer() {
			continue
		}
		switch {
		case n.IsOr:
			for _, g := range n.Nested {
				if !allDescendantsOperatorFree(g) {
					return false
				}
			}
		case n.IsGroup:
			if !allDescendantsOperatorFree(n) {
				return false
			}
		default:
			if n.Operator != condition.OpEquals {
				return false
			}
		}
	}
	return true
}

// renderPlainCondition renders a leaf/group/OR condition (not a
// relationship chain) as a predicate string, per §4.4.8.
func (c *Compiler) renderPlainCondition(cond *condition.Condition, accessorScope string, level int, scope *existentialScope) string {
	switch {
	case cond.IsOr:
		var parts []string
		for _, g := range cond.Nested {
			parts = append(parts, c.renderPlainCondition(g, accessorScope, level, scope))
		}
		return "(" + strings.Join(parts, " OR ") + ")"
	case cond.IsGroup:
		var parts []string
		for _, n := range cond.Nested {
			parts = append(parts, c.renderPlainCondition(n, accessorScope, level, scope))
		}
		return "(" + strings.Join(parts, " AND ") + ")"
	default:
		prefix := accessorScope
		if cond.IsRelationship {
			prefix = "rel_" + cond.ParentPropertyName + fmt.Sprintf("%d", level)
		} else if accessorScope == "" {
			prefix = camelCase(cond.ParentType.Name) + fmt.Sprintf("%d", level)
		}
		return emitPredicate(prefix, cond.Property, cond.Operator, cond.Value)
	}
}

// emitPredicate maps one leaf Condition to its Cypher operator emission
// (§4.4.8's operator table). Unknown operators never reach here — they
// fail earlier, in condition.ParseOperator.
func emitPredicate(accessor, property string, op condition.Operator, value string) string {
	x := fmt.Sprintf("%s.%s", accessor, property)
	switch op {
	case condition.OpEquals:
		return fmt.Sprintf("%s = %s", x, value)
	case condition.OpNot:
		return fmt.Sprintf("%s <> %s", x, value)
	case condition.OpGT:
		return fmt.Sprintf("%s > %s", x, value)
	case condition.OpGTE:
		return fmt.Sprintf("%s >= %s", x, value)
	case condition.OpLT:
		return fmt.Sprintf("%s < %s", x, value)
	case condition.OpLTE:
		return fmt.Sprintf("%s <= %s", x, value)
	case condition.OpIn:
		return fmt.Sprintf("%s IN %s", x, value)
	case condition.OpNotIn:
		return fmt.Sprintf("NOT ( %s IN %s )", x, value)
	case condition.OpContains:
		return fmt.Sprintf("%s CONTAINS %s", x, value)
	case condition.OpNotContains:
		return fmt.Sprintf("NOT ( %s CONTAINS %s )", x, value)
	case condition.OpEndsWith:
		return fmt.Sprintf("%s ENDS WITH %s", x, value)
	case condition.OpNotEndsWith:
		return fmt.Sprintf("NOT ( %s ENDS WITH %s )", x, value)
	case condition.OpMatches:
		return fmt.Sprintf("%s =~ %s", x, value)
	case condition.OpIncludes:
		return fmt.Sprintf("%s IN %s", value, x)
	default:
		return ""
	}
}
