package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkd-neo4j/graph-cypher-compiler/internal/schema"
)

func TestParseOperator(t *testing.T) {
	op, err := ParseOperator("")
	require.NoError(t, err)
	assert.Equal(t, OpEquals, op)

	op, err = ParseOperator("GTE")
	require.NoError(t, err)
	assert.Equal(t, OpGTE, op)

	_, err = ParseOperator("BOGUS")
	require.Error(t, err)
	var unknown *ErrUnknownOperator
	assert.ErrorAs(t, err, &unknown)
}

func TestConditionIsRelationshipContainer(t *testing.T) {
	leaf := &Condition{Property: "status", Operator: OpEquals}
	assert.False(t, leaf.IsRelationshipContainer())

	group := &Condition{IsGroup: true, Nested: []*Condition{leaf}}
	assert.False(t, group.IsRelationshipContainer())

	or := &Condition{IsOr: true, Nested: []*Condition{group}}
	assert.False(t, or.IsRelationshipContainer())

	relContainer := &Condition{Property: "counterpartiesConnection", Nested: []*Condition{leaf}}
	assert.True(t, relContainer.IsRelationshipContainer())
}

func TestSerializeValueKinds(t *testing.T) {
	assert.Equal(t, "true", serializeValue(NewRuntimeValueSource(true)))
	assert.Equal(t, "3", serializeValue(NewRuntimeValueSource(3)))
	assert.Equal(t, "'it\\'s'", serializeValue(NewRuntimeValueSource("it's")))
	assert.Equal(t, "null", serializeValue(NewRuntimeValueSource(nil)))
	assert.Equal(t, "$cypherParams.tenantId", serializeValue(NewRawValueSource("$cypherParams.tenantId")))

	list := NewRuntimeValueSource([]any{"a", "b"})
	assert.Equal(t, "['a','b']", serializeValue(list))

	date := NewRuntimeValueSource(map[string]any{"year": 2024, "month": 1, "day": 5})
	assert.Equal(t, "'2024-01-05'", serializeValue(date))
}

func newAgreementSchema() (*schema.Schema, *schema.ObjectType) {
	agreement := &schema.ObjectType{Name: "Agreement", Fields: map[string]*schema.Field{
		"status":  {Name: "status", Type: &schema.Type{Kind: schema.KindEnum, Name: "Status"}},
		"version": {Name: "version", Type: &schema.Type{Kind: schema.KindScalar, Name: "Int"}},
		"counterpartiesConnection": {
			Name: "counterpartiesConnection",
			Type: &schema.Type{Kind: schema.KindObject, Name: "CounterpartiesConnection"},
		},
	}}
	edge := &schema.ObjectType{Name: "CounterpartiesEdge", Fields: map[string]*schema.Field{
		"role": {Name: "role", Type: &schema.Type{Kind: schema.KindEnum, Name: "Role"}},
		"node": {Name: "node", Type: &schema.Type{Kind: schema.KindObject, Name: "Organization"}},
	}}
	org := &schema.ObjectType{Name: "Organization", Fields: map[string]*schema.Field{
		"name": {Name: "name", Type: &schema.Type{Kind: schema.KindScalar, Name: "String"}},
	}}
	conn := &schema.ObjectType{Name: "CounterpartiesConnection", Fields: map[string]*schema.Field{
		"edges": {Name: "edges", Type: &schema.Type{Kind: schema.KindList, OfType: &schema.Type{Kind: schema.KindObject, Name: "CounterpartiesEdge"}}},
	}}

	sch := schema.New()
	sch.AddObjectType(agreement)
	sch.AddObjectType(edge)
	sch.AddObjectType(org)
	sch.AddObjectType(conn)
	return sch, agreement
}

func TestBuildConditionTreesScalarLeaf(t *testing.T) {
	sch, agreement := newAgreementSchema()
	where := NewRuntimeValueSource(map[string]any{"status": "RUNNING_TEST"})

	conds, err := BuildConditionTrees(sch, where, agreement, "baseAgreements", false, nil)
	require.NoError(t, err)
	require.Len(t, conds, 1)
	assert.Equal(t, "status", conds[0].Property)
	assert.Equal(t, OpEquals, conds[0].Operator)
	assert.Equal(t, "'RUNNING_TEST'", conds[0].Value)
	assert.False(t, conds[0].IsRelationship)
}

func TestBuildConditionTreesOperatorSuffix(t *testing.T) {
	sch, agreement := newAgreementSchema()
	where := NewRuntimeValueSource(map[string]any{"version_GTE": 2})

	conds, err := BuildConditionTrees(sch, where, agreement, "baseAgreements", false, nil)
	require.NoError(t, err)
	require.Len(t, conds, 1)
	assert.Equal(t, "version", conds[0].Property)
	assert.Equal(t, OpGTE, conds[0].Operator)
	assert.Equal(t, "2", conds[0].Value)
}

func TestBuildConditionTreesANDFlattens(t *testing.T) {
	sch, agreement := newAgreementSchema()
	where := NewRuntimeValueSource(map[string]any{
		"status": "RUNNING_TEST",
		"AND": []any{
			map[string]any{"version_GTE": 0},
			map[string]any{"version_LTE": 10},
		},
	})

	conds, err := BuildConditionTrees(sch, where, agreement, "baseAgreements", false, nil)
	require.NoError(t, err)
	require.Len(t, conds, 3)
}

func TestBuildConditionTreesORWrapsGroups(t *testing.T) {
	sch, agreement := newAgreementSchema()
	where := NewRuntimeValueSource(map[string]any{
		"OR": []any{
			map[string]any{"version": 1},
			map[string]any{"version": 2},
		},
	})

	conds, err := BuildConditionTrees(sch, where, agreement, "baseAgreements", false, nil)
	require.NoError(t, err)
	require.Len(t, conds, 1)
	assert.True(t, conds[0].IsOr)
	require.Len(t, conds[0].Nested, 2)
	for _, group := range conds[0].Nested {
		assert.True(t, group.IsGroup)
		require.Len(t, group.Nested, 1)
	}
}

func TestBuildConditionTreesRelationshipEdgeAndNode(t *testing.T) {
	sch, agreement := newAgreementSchema()
	where := NewRuntimeValueSource(map[string]any{
		"counterpartiesConnection": map[string]any{
			"edge": map[string]any{
				"role": "BUYER_TEST",
			},
			"node": map[string]any{
				"name": "Lads",
			},
		},
	})

	conds, err := BuildConditionTrees(sch, where, agreement, "baseAgreements", false, nil)
	require.NoError(t, err)
	require.Len(t, conds, 1)

	container := conds[0]
	assert.Equal(t, "counterpartiesConnection", container.Property)
	assert.True(t, container.IsRelationshipContainer())
	require.Len(t, container.Nested, 2)

	var edgeLeaf, nodeLeaf *Condition
	for _, c := range container.Nested {
		if c.Property == "role" {
			edgeLeaf = c
		}
		if c.Property == "name" {
			nodeLeaf = c
		}
	}
	require.NotNil(t, edgeLeaf)
	require.NotNil(t, nodeLeaf)
	assert.True(t, edgeLeaf.IsRelationship)
	assert.False(t, nodeLeaf.IsRelationship)
}
