// Package schema models the object-typed schema that drives compilation:
// object/scalar/enum types wrapped in list/non-null markers, fields with
// directives, and the directive index the compiler consults.
package schema

import (
	"fmt"
	"strings"
)

// Kind distinguishes the category of a Type.
type Kind int

const (
	KindObject Kind = iota
	KindInterface
	KindScalar
	KindEnum
	KindList
	KindNonNull
)

// Type is a (possibly wrapped) named type. List and NonNull wrap an inner
// Type via OfType; every other Kind is a leaf carrying Name.
type Type struct {
	Kind   Kind
	Name   string
	OfType *Type
}

// NamedType returns the innermost named type, stripping List/NonNull wrappers.
func (t *Type) NamedType() *Type {
	cur := t
	for cur != nil && (cur.Kind == KindList || cur.Kind == KindNonNull) {
		cur = cur.OfType
	}
	return cur
}

// IsList reports whether t is, or is wrapped around, a list type. NonNull(List(X))
// and List(X) both report true; List(NonNull(X)) too.
func (t *Type) IsList() bool {
	cur := t
	for cur != nil {
		if cur.Kind == KindList {
			return true
		}
		if cur.Kind == KindNonNull {
			cur = cur.OfType
			continue
		}
		break
	}
	return false
}

// IsObjectLike reports whether the named type is an object or interface type.
func (t *Type) IsObjectLike() bool {
	n := t.NamedType()
	return n != nil && (n.Kind == KindObject || n.Kind == KindInterface)
}

// Directive is a (name, arguments) pair attached to a schema field.
type Directive struct {
	Name string
	Args map[string]any
}

// StringArg returns a string-valued argument, normalizing nothing about its case.
func (d Directive) StringArg(name string) (string, bool) {
	v, ok := d.Args[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

const (
	DirectiveCypher       = "cypher"
	DirectiveRelationship = "relationship"

	RelationshipDirectionIn  = "IN"
	RelationshipDirectionOut = "OUT"
)

// Field is a field on an object or interface type.
type Field struct {
	Name       string
	Type       *Type
	Directives []Directive
}

// CypherDirective returns the field's @cypher directive, if any.
func (f *Field) CypherDirective() (Directive, bool) {
	return FindDirective(f.Directives, DirectiveCypher)
}

// RelationshipDirective returns the field's @relationship directive, if any.
func (f *Field) RelationshipDirective() (Directive, bool) {
	return FindRelationshipDirective(f.Directives)
}

// FindDirective scans an ordered directive list (as returned by
// DirectiveIndex.Lookup) for one with the given name.
func FindDirective(directives []Directive, name string) (Directive, bool) {
	for _, d := range directives {
		if d.Name == name {
			return d, true
		}
	}
	return Directive{}, false
}

// FindRelationshipDirective scans a directive list for @relationship,
// normalizing its direction argument to upper-case so "in"/"In"/"IN" are
// all accepted — the original directive parser this was distilled from is
// lenient here.
func FindRelationshipDirective(directives []Directive) (Directive, bool) {
	d, ok := FindDirective(directives, DirectiveRelationship)
	if !ok {
		return Directive{}, false
	}
	if dir, ok := d.StringArg("direction"); ok {
		d.Args = cloneArgs(d.Args)
		d.Args["direction"] = strings.ToUpper(dir)
	}
	return d, true
}

func cloneArgs(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// ObjectType is an object or interface type: a name -> field map.
type ObjectType struct {
	Name   string
	Kind   Kind
	Fields map[string]*Field
}

// Field looks up a field by name.
func (o *ObjectType) Field(name string) (*Field, bool) {
	f, ok := o.Fields[name]
	return f, ok
}

// ErrFieldNotFound is returned when a referenced field is absent on the
// current object type — a schema-mismatch class, Fatal error per spec §7.
type ErrFieldNotFound struct {
	TypeName  string
	FieldName string
}

func (e *ErrFieldNotFound) Error() string {
	return fmt.Sprintf("field %q not found on type %q", e.FieldName, e.TypeName)
}

// MustField looks up a field by name, returning ErrFieldNotFound on a miss.
func (o *ObjectType) MustField(name string) (*Field, error) {
	f, ok := o.Fields[name]
	if !ok {
		return nil, &ErrFieldNotFound{TypeName: o.Name, FieldName: name}
	}
	return f, nil
}

// Schema is a name -> type resolver over object/interface types.
type Schema struct {
	objects map[string]*ObjectType
}

// New returns an empty Schema.
func New() *Schema {
	return &Schema{objects: make(map[string]*ObjectType)}
}

// AddObjectType registers an object (or interface) type.
func (s *Schema) AddObjectType(o *ObjectType) {
	s.objects[o.Name] = o
}

// ObjectType resolves a type name to its ObjectType, if known.
func (s *Schema) ObjectType(name string) (*ObjectType, bool) {
	o, ok := s.objects[name]
	return o, ok
}

// connectionSuffix is the relay-style connection wrapper marker (§ GLOSSARY).
const connectionSuffix = "Connection"

// IsConnectionFieldName reports whether a field name encodes a connection
// wrapper per the GLOSSARY definition (name ends in "Connection").
func IsConnectionFieldName(fieldName string) bool {
	return strings.HasSuffix(fieldName, connectionSuffix)
}

// ConnectionEdgeType resolves a connection type's edges.[]Edge element type.
func (s *Schema) ConnectionEdgeType(conn *ObjectType) (*ObjectType, bool) {
	edgesField, ok := conn.Field("edges")
	if !ok {
		return nil, false
	}
	named := edgesField.Type.NamedType()
	if named == nil {
		return nil, false
	}
	return s.ObjectType(named.Name)
}

// ConnectionNodeType resolves a connection type's edges.node target type.
func (s *Schema) ConnectionNodeType(conn *ObjectType) (*ObjectType, bool) {
	edgeType, ok := s.ConnectionEdgeType(conn)
	if !ok {
		return nil, false
	}
	nodeField, ok := edgeType.Field("node")
	if !ok {
		return nil, false
	}
	named := nodeField.Type.NamedType()
	if named == nil {
		return nil, false
	}
	return s.ObjectType(named.Name)
}

// DirectiveIndex is a static "{TypeName}.{FieldName}" -> directives lookup,
// built once per schema and safe for concurrent reads thereafter.
type DirectiveIndex struct {
	byKey map[string][]Directive
}

func key(typeName, fieldName string) string {
	return typeName + "." + fieldName
}

// BuildDirectiveIndex walks every object/interface type's fields once and
// records their directives. Missing keys are treated as an empty list by
// Lookup, never an error.
func BuildDirectiveIndex(s *Schema) *DirectiveIndex {
	idx := &DirectiveIndex{byKey: make(map[string][]Directive)}
	for typeName, obj := range s.objects {
		for fieldName, field := range obj.Fields {
			if len(field.Directives) > 0 {
				idx.byKey[key(typeName, fieldName)] = field.Directives
			}
		}
	}
	return idx
}

// Lookup returns the directives recorded for TypeName.FieldName, or nil.
func (di *DirectiveIndex) Lookup(typeName, fieldName string) []Directive {
	return di.byKey[key(typeName, fieldName)]
}
