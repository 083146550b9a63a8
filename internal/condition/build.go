package condition

import (
	"strings"

	"github.com/mkd-neo4j/graph-cypher-compiler/internal/schema"
)

// BuildConditionTrees translates a `where` value into a list of sibling
// Condition nodes. value may originate from either ValueSource
// implementation — the two paths are structurally identical from here on.
//
// isRelationshipProperty marks leaf conditions built directly in this call
// as relationship (edge) properties rather than node properties; it is
// threaded unchanged through AND/OR continuations and reset per recursion
// into a new type context (false for "node" dispatch and ordinary nested
// fields, true only for "edge" dispatch).
func BuildConditionTrees(
	sch *schema.Schema,
	value ValueSource,
	parentType *schema.ObjectType,
	parentPropertyName string,
	isRelationshipProperty bool,
	variables map[string]any,
) ([]*Condition, error) {
	resolved := resolveVariable(value, variables)

	switch resolved.Kind() {
	case KindList:
		// Only reachable when a bare list is handed in directly (e.g. the
		// AND list form recursing element-by-element calls back in here
		// with a single object, never a list) — defensively flatten.
		var result []*Condition
		for _, item := range resolved.ListItems() {
			conds, err := BuildConditionTrees(sch, item, parentType, parentPropertyName, isRelationshipProperty, variables)
			if err != nil {
				return nil, err
			}
			result = append(result, conds...)
		}
		return result, nil
	case KindObject:
		// fall through to field-by-field processing below.
	default:
		return nil, nil
	}

	var result []*Condition
	for _, key := range resolved.ObjectKeys() {
		fieldVal, _ := resolved.ObjectField(key)

		switch key {
		case "AND":
			andVal := resolveVariable(fieldVal, variables)
			if andVal.Kind() == KindList {
				for _, item := range andVal.ListItems() {
					conds, err := BuildConditionTrees(sch, item, parentType, parentPropertyName, isRelationshipProperty, variables)
					if err != nil {
						return nil, err
					}
					result = append(result, conds...)
				}
			} else {
				conds, err := BuildConditionTrees(sch, andVal, parentType, parentPropertyName, isRelationshipProperty, variables)
				if err != nil {
					return nil, err
				}
				result = append(result, conds...)
			}

		case "OR":
			orVal := resolveVariable(fieldVal, variables)
			var groups []*Condition
			for _, item := range orVal.ListItems() {
				conds, err := BuildConditionTrees(sch, item, parentType, parentPropertyName, isRelationshipProperty, variables)
				if err != nil {
					return nil, err
				}
				groups = append(groups, &Condition{
					ParentType:         parentType,
					ParentPropertyName: parentPropertyName,
					IsGroup:            true,
					Nested:             conds,
				})
			}
			result = append(result, &Condition{
				ParentType:         parentType,
				ParentPropertyName: parentPropertyName,
				IsOr:               true,
				Nested:             groups,
			})

		case "node":
			if !isConnectionField(parentPropertyName) {
				conds, err := buildFieldCondition(sch, parentType, parentPropertyName, isRelationshipProperty, key, fieldVal, variables)
				if err != nil {
					return nil, err
				}
				result = append(result, conds...)
				continue
			}
			nodeType, ok := sch.ConnectionNodeType(parentType)
			if !ok {
				continue
			}
			conds, err := BuildConditionTrees(sch, resolveVariable(fieldVal, variables), nodeType, parentPropertyName, false, variables)
			if err != nil {
				return nil, err
			}
			result = append(result, conds...)

		case "edge":
			if !isConnectionField(parentPropertyName) {
				conds, err := buildFieldCondition(sch, parentType, parentPropertyName, isRelationshipProperty, key, fieldVal, variables)
				if err != nil {
					return nil, err
				}
				result = append(result, conds...)
				continue
			}
			edgeType, ok := sch.ConnectionEdgeType(parentType)
			if !ok {
				continue
			}
			conds, err := BuildConditionTrees(sch, resolveVariable(fieldVal, variables), edgeType, parentPropertyName, true, variables)
			if err != nil {
				return nil, err
			}
			result = append(result, conds...)

		default:
			conds, err := buildFieldCondition(sch, parentType, parentPropertyName, isRelationshipProperty, key, fieldVal, variables)
			if err != nil {
				return nil, err
			}
			result = append(result, conds...)
		}
	}
	return result, nil
}

// buildFieldCondition handles the `<field>[_<OP>]` pattern: split on the
// first underscore, resolve the operator, and either recurse into a
// related type or emit a scalar leaf.
func buildFieldCondition(
	sch *schema.Schema,
	parentType *schema.ObjectType,
	parentPropertyName string,
	isRelationshipProperty bool,
	key string,
	fieldVal ValueSource,
	variables map[string]any,
) ([]*Condition, error) {
	propertyName, opSuffix := splitFieldOperator(key)
	operator, err := ParseOperator(opSuffix)
	if err != nil {
		return nil, err
	}

	field, err := parentType.MustField(propertyName)
	if err != nil {
		return nil, err
	}

	if field.Type.IsObjectLike() {
		targetType, ok := sch.ObjectType(field.Type.NamedType().Name)
		if !ok {
			return nil, &schema.ErrFieldNotFound{TypeName: parentType.Name, FieldName: propertyName}
		}
		nested, err := BuildConditionTrees(sch, resolveVariable(fieldVal, variables), targetType, propertyName, false, variables)
		if err != nil {
			return nil, err
		}
		return []*Condition{{
			ParentType:         parentType,
			ParentPropertyName: parentPropertyName,
			Property:           propertyName,
			Nested:             nested,
		}}, nil
	}

	return []*Condition{{
		ParentType:         parentType,
		ParentPropertyName: parentPropertyName,
		Property:           propertyName,
		Operator:           operator,
		IsRelationship:     isRelationshipProperty,
		Value:              serializeValue(fieldVal),
	}}, nil
}

// splitFieldOperator splits a `where` key on its first underscore: the left
// half is the schema field name, the right half (if any) the operator
// suffix.
func splitFieldOperator(key string) (field, operatorSuffix string) {
	idx := strings.Index(key, "_")
	if idx < 0 {
		return key, ""
	}
	return key[:idx], key[idx+1:]
}

func isConnectionField(fieldName string) bool {
	return schema.IsConnectionFieldName(fieldName)
}
