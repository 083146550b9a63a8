package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCamelCase(t *testing.T) {
	assert.Equal(t, "agreement", camelCase("Agreement"))
	assert.Equal(t, "", camelCase(""))
}

func TestNodeVarAndRelVar(t *testing.T) {
	assert.Equal(t, "agreement0", nodeVar("Agreement", 0))
	assert.Equal(t, "rel_counterparties1", relVar("counterparties", 1))
}

func TestSanitizeIdentifier(t *testing.T) {
	assert.Equal(t, "fooBar", SanitizeIdentifier("foo-Bar!"))
	assert.Equal(t, "v1abc", SanitizeIdentifier("1abc"))
	assert.Equal(t, "var", SanitizeIdentifier("###"))
}

func TestExistentialScopeSuffixForAdvancesOnlyWhenRequested(t *testing.T) {
	scope := &existentialScope{}
	assert.Equal(t, "", scope.suffixFor(false))
	assert.Equal(t, "_0", scope.suffixFor(true))
	assert.Equal(t, "", scope.suffixFor(false))
	assert.Equal(t, "_1", scope.suffixFor(true))
}
