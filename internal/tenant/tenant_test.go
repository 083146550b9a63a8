package tenant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkd-neo4j/graph-cypher-compiler/internal/condition"
	"github.com/mkd-neo4j/graph-cypher-compiler/internal/schema"
)

func buildTenantSchema() *schema.Schema {
	query := &schema.ObjectType{Name: "Query", Fields: map[string]*schema.Field{
		"orgs": {Name: "orgs", Type: &schema.Type{Kind: schema.KindObject, Name: "Organization"}},
		"agreements": {Name: "agreements", Type: &schema.Type{Kind: schema.KindObject, Name: "Agreement"}},
		"sentBy": {Name: "sentBy", Type: &schema.Type{Kind: schema.KindObject, Name: "Organization"}},
		"flexThings": {Name: "flexThings", Type: &schema.Type{Kind: schema.KindObject, Name: "FlexEntity"}},
		"countersConnection": {Name: "countersConnection", Type: &schema.Type{Kind: schema.KindObject, Name: "CountersConnection"}},
	}}
	org := &schema.ObjectType{Name: "Organization", Fields: map[string]*schema.Field{
		"tenantIds": {Name: "tenantIds", Type: &schema.Type{Kind: schema.KindList, OfType: &schema.Type{Kind: schema.KindScalar, Name: "String"}}},
		"name":      {Name: "name", Type: &schema.Type{Kind: schema.KindScalar, Name: "String"}},
	}}
	agreement := &schema.ObjectType{Name: "Agreement", Fields: map[string]*schema.Field{
		"tenantId": {Name: "tenantId", Type: &schema.Type{Kind: schema.KindScalar, Name: "String"}},
	}}
	flex := &schema.ObjectType{Name: "FlexEntity", Fields: map[string]*schema.Field{
		"tenantId": {Name: "tenantId", Type: &schema.Type{Kind: schema.KindScalar, Name: "String"}},
	}}
	edge := &schema.ObjectType{Name: "CounterEdge", Fields: map[string]*schema.Field{
		"node": {Name: "node", Type: &schema.Type{Kind: schema.KindObject, Name: "Organization"}},
	}}
	conn := &schema.ObjectType{Name: "CountersConnection", Fields: map[string]*schema.Field{
		"edges": {Name: "edges", Type: &schema.Type{Kind: schema.KindList, OfType: &schema.Type{Kind: schema.KindObject, Name: "CounterEdge"}}},
	}}

	sch := schema.New()
	sch.AddObjectType(query)
	sch.AddObjectType(org)
	sch.AddObjectType(agreement)
	sch.AddObjectType(flex)
	sch.AddObjectType(edge)
	sch.AddObjectType(conn)
	return sch
}

func TestRewriterInjectsScalarDiscriminator(t *testing.T) {
	sch := buildTenantSchema()
	queryType, _ := sch.ObjectType("Query")
	rewriter := NewRewriter(sch)

	result := rewriter(nil, queryType, "agreements")
	require.NotNil(t, result)

	agreement, _ := sch.ObjectType("Agreement")
	conds, err := condition.BuildConditionTrees(sch, result, agreement, "agreements", false, nil)
	require.NoError(t, err)
	require.Len(t, conds, 1)
	assert.Equal(t, "tenantId", conds[0].Property)
	assert.Equal(t, condition.OpEquals, conds[0].Operator)
	assert.Equal(t, "$cypherParams.tenantId", conds[0].Value)
}

func TestRewriterInjectsListDiscriminatorWithIncludes(t *testing.T) {
	sch := buildTenantSchema()
	queryType, _ := sch.ObjectType("Query")
	rewriter := NewRewriter(sch)

	result := rewriter(nil, queryType, "orgs")
	require.NotNil(t, result)

	org, _ := sch.ObjectType("Organization")
	conds, err := condition.BuildConditionTrees(sch, result, org, "orgs", false, nil)
	require.NoError(t, err)
	require.Len(t, conds, 1)
	assert.Equal(t, "tenantIds", conds[0].Property)
	assert.Equal(t, condition.OpIncludes, conds[0].Operator)
	assert.Equal(t, "$cypherParams.tenantId", conds[0].Value)
}

func TestRewriterSkipsDeniedField(t *testing.T) {
	sch := buildTenantSchema()
	queryType, _ := sch.ObjectType("Query")
	rewriter := NewRewriter(sch)

	result := rewriter(nil, queryType, "sentBy")
	assert.Nil(t, result)
}

func TestRewriterSkipsFlexEntity(t *testing.T) {
	sch := buildTenantSchema()
	queryType, _ := sch.ObjectType("Query")
	rewriter := NewRewriter(sch)

	result := rewriter(nil, queryType, "flexThings")
	assert.Nil(t, result)
}

func TestRewriterWrapsConnectionFieldInNode(t *testing.T) {
	sch := buildTenantSchema()
	queryType, _ := sch.ObjectType("Query")
	rewriter := NewRewriter(sch)

	result := rewriter(nil, queryType, "countersConnection")
	require.NotNil(t, result)

	conn, _ := sch.ObjectType("CountersConnection")
	conds, err := condition.BuildConditionTrees(sch, result, conn, "countersConnection", false, nil)
	require.NoError(t, err)
	// The node key is dispatched to the connection's node type and its
	// conditions are flattened into the result, not kept under a container.
	require.Len(t, conds, 1)
	require.False(t, conds[0].IsRelationshipContainer())
	assert.Equal(t, "Organization", conds[0].ParentType.Name)
	require.Len(t, conds[0].Nested, 0)
	assert.Equal(t, "tenantIds", conds[0].Property)
	assert.Equal(t, condition.OpIncludes, conds[0].Operator)
}

func TestRewriterCombinesWithExistingWhere(t *testing.T) {
	sch := buildTenantSchema()
	queryType, _ := sch.ObjectType("Query")
	rewriter := NewRewriter(sch)

	existing := condition.NewRuntimeValueSource(map[string]any{"name": "Acme"})
	result := rewriter(existing, queryType, "orgs")
	require.NotNil(t, result)

	org, _ := sch.ObjectType("Organization")
	conds, err := condition.BuildConditionTrees(sch, result, org, "orgs", false, nil)
	require.NoError(t, err)
	require.Len(t, conds, 2)

	var names, tenants int
	for _, c := range conds {
		if c.Property == "name" {
			names++
		}
		if c.Property == "tenantIds" {
			tenants++
		}
	}
	assert.Equal(t, 1, names)
	assert.Equal(t, 1, tenants)
}
