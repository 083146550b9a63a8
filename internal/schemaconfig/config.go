// Package schemaconfig loads the type/field/directive graph the compiler
// runs against from YAML, the way this codebase's dynamic tool configs are
// loaded from YAML, generalized from tool definitions to schema types.
package schemaconfig

// TypeConfig is the YAML shape of one object/interface type definition.
type TypeConfig struct {
	// Name is the GraphQL type name (e.g. "Agreement").
	Name string `yaml:"name"`

	// Kind is one of "object" or "interface". Defaults to "object".
	Kind string `yaml:"kind,omitempty"`

	// Fields lists the type's fields in declaration order.
	Fields []FieldConfig `yaml:"fields"`
}

// FieldConfig is the YAML shape of one field definition.
type FieldConfig struct {
	// Name is the field's schema name.
	Name string `yaml:"name"`

	// Type is the field's named type (e.g. "String", "Agreement").
	Type string `yaml:"type"`

	// List marks the field as a list of Type.
	List bool `yaml:"list,omitempty"`

	// NonNull marks the field (or, with List, its inner type) as non-null.
	NonNull bool `yaml:"nonNull,omitempty"`

	// Cypher, if present, installs a @cypher(statement: ...) directive.
	Cypher string `yaml:"cypher,omitempty"`

	// Relationship, if present, installs a @relationship directive.
	Relationship *RelationshipConfig `yaml:"relationship,omitempty"`
}

// RelationshipConfig is the YAML shape of a @relationship directive.
type RelationshipConfig struct {
	Type      string `yaml:"type"`
	Direction string `yaml:"direction"`
}

// SchemaConfig is the top-level YAML document: every type definition in
// the schema.
type SchemaConfig struct {
	Types []TypeConfig `yaml:"types"`
}
