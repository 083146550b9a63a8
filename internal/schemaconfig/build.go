package schemaconfig

import (
	"fmt"

	"github.com/mkd-neo4j/graph-cypher-compiler/internal/schema"
)

// BuildSchema converts a parsed SchemaConfig into a *schema.Schema, wiring
// @cypher and @relationship directives onto each field they're declared
// for.
func BuildSchema(cfg *SchemaConfig) (*schema.Schema, error) {
	sch := schema.New()

	// Object-likeness of a field's named type depends on every type
	// declaration, not just the ones read so far, so the set of object
	// type names is collected before any field is built.
	objectNames := make(map[string]struct{}, len(cfg.Types))
	for _, t := range cfg.Types {
		objectNames[t.Name] = struct{}{}
	}

	for _, t := range cfg.Types {
		obj := &schema.ObjectType{
			Name:   t.Name,
			Kind:   kindFromString(t.Kind),
			Fields: make(map[string]*schema.Field, len(t.Fields)),
		}
		for _, f := range t.Fields {
			field, err := buildField(f, objectNames)
			if err != nil {
				return nil, fmt.Errorf("schemaconfig: type %q field %q: %w", t.Name, f.Name, err)
			}
			obj.Fields[f.Name] = field
		}
		sch.AddObjectType(obj)
	}

	return sch, nil
}

func kindFromString(s string) schema.Kind {
	if s == "interface" {
		return schema.KindInterface
	}
	return schema.KindObject
}

func buildField(f FieldConfig, objectNames map[string]struct{}) (*schema.Field, error) {
	if f.Name == "" {
		return nil, fmt.Errorf("field name is required")
	}
	if f.Type == "" {
		return nil, fmt.Errorf("field type is required")
	}

	named := &schema.Type{Kind: schema.KindScalar, Name: f.Type}
	if _, ok := objectNames[f.Type]; ok {
		named.Kind = schema.KindObject
	}

	fieldType := named
	if f.NonNull {
		fieldType = &schema.Type{Kind: schema.KindNonNull, OfType: fieldType}
	}
	if f.List {
		fieldType = &schema.Type{Kind: schema.KindList, OfType: fieldType}
	}

	var directives []schema.Directive
	if f.Cypher != "" {
		directives = append(directives, schema.Directive{
			Name: schema.DirectiveCypher,
			Args: map[string]any{"statement": f.Cypher},
		})
	}
	if f.Relationship != nil {
		directives = append(directives, schema.Directive{
			Name: schema.DirectiveRelationship,
			Args: map[string]any{
				"type":      f.Relationship.Type,
				"direction": f.Relationship.Direction,
			},
		})
	}

	return &schema.Field{Name: f.Name, Type: fieldType, Directives: directives}, nil
}
