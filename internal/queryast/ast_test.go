package queryast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentOperationRequiresExactlyOne(t *testing.T) {
	doc := &Document{}
	_, ok := doc.Operation()
	assert.False(t, ok)

	doc.Operations = append(doc.Operations, &OperationDefinition{Name: "a"})
	op, ok := doc.Operation()
	require.True(t, ok)
	assert.Equal(t, "a", op.Name)

	doc.Operations = append(doc.Operations, &OperationDefinition{Name: "b"})
	_, ok = doc.Operation()
	assert.False(t, ok)
}

func TestFieldNodeResponseNameAndArgument(t *testing.T) {
	field := &FieldNode{
		Name: "baseAgreements",
		Arguments: []Argument{
			{Name: "where", Value: &StringValue{Value: "x"}},
		},
	}
	assert.Equal(t, "baseAgreements", field.ResponseName())

	field.Alias = "agreements"
	assert.Equal(t, "agreements", field.ResponseName())

	v, ok := field.Argument("where")
	require.True(t, ok)
	assert.Equal(t, &StringValue{Value: "x"}, v)

	_, ok = field.Argument("missing")
	assert.False(t, ok)
}

func TestObjectValueField(t *testing.T) {
	obj := &ObjectValue{Fields: []ObjectField{
		{Name: "status", Value: &EnumValue{Value: "RUNNING_TEST"}},
	}}
	v, ok := obj.Field("status")
	require.True(t, ok)
	assert.Equal(t, &EnumValue{Value: "RUNNING_TEST"}, v)

	_, ok = obj.Field("missing")
	assert.False(t, ok)
}
