package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeNamedTypeAndIsList(t *testing.T) {
	inner := &Type{Kind: KindScalar, Name: "String"}
	list := &Type{Kind: KindList, OfType: &Type{Kind: KindNonNull, OfType: inner}}

	assert.Equal(t, "String", list.NamedType().Name)
	assert.True(t, list.IsList())
	assert.False(t, inner.IsList())
}

func TestTypeIsObjectLike(t *testing.T) {
	obj := &Type{Kind: KindObject, Name: "Agreement"}
	scalar := &Type{Kind: KindScalar, Name: "Int"}
	assert.True(t, obj.IsObjectLike())
	assert.False(t, scalar.IsObjectLike())
}

func TestFindRelationshipDirectiveNormalizesDirection(t *testing.T) {
	directives := []Directive{{Name: DirectiveRelationship, Args: map[string]any{
		"type": "HAS_PARTNER", "direction": "out",
	}}}

	d, ok := FindRelationshipDirective(directives)
	require.True(t, ok)
	dir, ok := d.StringArg("direction")
	require.True(t, ok)
	assert.Equal(t, RelationshipDirectionOut, dir)
}

func TestFindDirectiveMissing(t *testing.T) {
	_, ok := FindDirective(nil, DirectiveCypher)
	assert.False(t, ok)
}

func TestObjectTypeMustField(t *testing.T) {
	obj := &ObjectType{Name: "Agreement", Fields: map[string]*Field{
		"id": {Name: "id", Type: &Type{Kind: KindScalar, Name: "ID"}},
	}}

	f, err := obj.MustField("id")
	require.NoError(t, err)
	assert.Equal(t, "id", f.Name)

	_, err = obj.MustField("missing")
	require.Error(t, err)
	var notFound *ErrFieldNotFound
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Agreement", notFound.TypeName)
	assert.Equal(t, "missing", notFound.FieldName)
}

func TestIsConnectionFieldName(t *testing.T) {
	assert.True(t, IsConnectionFieldName("counterpartiesConnection"))
	assert.False(t, IsConnectionFieldName("counterparties"))
}

func TestConnectionNodeAndEdgeType(t *testing.T) {
	org := &ObjectType{Name: "Organization", Fields: map[string]*Field{}}
	edge := &ObjectType{Name: "CounterpartiesEdge", Fields: map[string]*Field{
		"node": {Name: "node", Type: &Type{Kind: KindObject, Name: "Organization"}},
	}}
	conn := &ObjectType{Name: "CounterpartiesConnection", Fields: map[string]*Field{
		"edges": {Name: "edges", Type: &Type{Kind: KindList, OfType: &Type{Kind: KindObject, Name: "CounterpartiesEdge"}}},
	}}

	sch := New()
	sch.AddObjectType(org)
	sch.AddObjectType(edge)
	sch.AddObjectType(conn)

	gotEdge, ok := sch.ConnectionEdgeType(conn)
	require.True(t, ok)
	assert.Equal(t, "CounterpartiesEdge", gotEdge.Name)

	gotNode, ok := sch.ConnectionNodeType(conn)
	require.True(t, ok)
	assert.Equal(t, "Organization", gotNode.Name)
}

func TestBuildDirectiveIndexLookup(t *testing.T) {
	agreement := &ObjectType{Name: "Agreement", Fields: map[string]*Field{
		"riskScore": {
			Name: "riskScore",
			Type: &Type{Kind: KindScalar, Name: "Float"},
			Directives: []Directive{
				{Name: DirectiveCypher, Args: map[string]any{"statement": "RETURN 1"}},
			},
		},
	}}
	sch := New()
	sch.AddObjectType(agreement)

	idx := BuildDirectiveIndex(sch)
	ds := idx.Lookup("Agreement", "riskScore")
	require.Len(t, ds, 1)
	assert.Equal(t, DirectiveCypher, ds[0].Name)

	assert.Empty(t, idx.Lookup("Agreement", "id"))
}
