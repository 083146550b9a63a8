package condition

import (
	"sort"

	"github.com/mkd-neo4j/graph-cypher-compiler/internal/queryast"
)

// ValueKind discriminates the shape a ValueSource currently holds.
type ValueKind int

const (
	KindObject ValueKind = iota
	KindList
	KindVariable
	KindString
	KindEnum
	KindInt
	KindFloat
	KindBool
	KindNull
	// KindRaw marks a pre-rendered Cypher fragment (e.g. "$cypherParams.tenantId")
	// that serializeValue must emit byte-for-byte, unquoted — used by
	// synthetic conditions the tenant extension injects, never produced by
	// the AST or runtime paths.
	KindRaw
)

// ValueSource abstracts over the two `where`-value origins the filter DSL
// analyzer accepts: query AST literals and runtime (variable-bound) values.
// Both implementations produce structurally-identical Condition trees.
type ValueSource interface {
	Kind() ValueKind
	ObjectKeys() []string
	ObjectField(name string) (ValueSource, bool)
	ListItems() []ValueSource
	VariableName() string
	StringValue() string
	IntValue() int64
	FloatValue() float64
	BoolValue() bool
	// DateShape reports the {year, month, day} heuristic match used to
	// normalize duck-typed date objects on the runtime path; the AST path
	// never matches since query literals have no such composite shape.
	DateShape() (year, month, day int, ok bool)
}

// rawValueSource wraps a pre-rendered Cypher fragment.
type rawValueSource struct {
	text string
}

// NewRawValueSource builds a ValueSource that serializes to text verbatim,
// unquoted — for synthetic predicate values (e.g. a `$cypherParams...`
// reference) that don't originate from query AST or variable literals.
func NewRawValueSource(text string) ValueSource {
	return rawValueSource{text: text}
}

func (r rawValueSource) Kind() ValueKind                         { return KindRaw }
func (r rawValueSource) ObjectKeys() []string                    { return nil }
func (r rawValueSource) ObjectField(string) (ValueSource, bool)   { return nil, false }
func (r rawValueSource) ListItems() []ValueSource                { return nil }
func (r rawValueSource) VariableName() string                    { return "" }
func (r rawValueSource) StringValue() string                     { return r.text }
func (r rawValueSource) IntValue() int64                          { return 0 }
func (r rawValueSource) FloatValue() float64                     { return 0 }
func (r rawValueSource) BoolValue() bool                          { return false }
func (r rawValueSource) DateShape() (int, int, int, bool)         { return 0, 0, 0, false }

// ResolveVariable is the exported form of resolveVariable, usable by
// callers outside this package that need the same container-position
// variable substitution (e.g. the compiler's `options` argument parsing).
func ResolveVariable(v ValueSource, variables map[string]any) ValueSource {
	return resolveVariable(v, variables)
}

// resolveVariable substitutes a bound runtime value for a VariableValue
// ValueSource — used only at "container" positions (an AND/OR/node/edge/
// field value that needs its structure inspected), never at serialization
// time, where a variable reference is rendered as "$name" verbatim.
func resolveVariable(v ValueSource, variables map[string]any) ValueSource {
	if v.Kind() != KindVariable {
		return v
	}
	if rv, ok := variables[v.VariableName()]; ok {
		return NewRuntimeValueSource(rv)
	}
	return v
}

// astValueSource wraps a query AST value node.
type astValueSource struct {
	value queryast.Value
}

// NewASTValueSource builds a ValueSource over a parsed query AST value.
func NewASTValueSource(v queryast.Value) ValueSource {
	return astValueSource{value: v}
}

func (a astValueSource) Kind() ValueKind {
	switch a.value.(type) {
	case *queryast.ObjectValue:
		return KindObject
	case *queryast.ListValue:
		return KindList
	case *queryast.VariableValue:
		return KindVariable
	case *queryast.StringValue:
		return KindString
	case *queryast.EnumValue:
		return KindEnum
	case *queryast.IntValue:
		return KindInt
	case *queryast.FloatValue:
		return KindFloat
	case *queryast.BooleanValue:
		return KindBool
	default:
		return KindNull
	}
}

func (a astValueSource) ObjectKeys() []string {
	obj, ok := a.value.(*queryast.ObjectValue)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(obj.Fields))
	for _, f := range obj.Fields {
		keys = append(keys, f.Name)
	}
	return keys
}

func (a astValueSource) ObjectField(name string) (ValueSource, bool) {
	obj, ok := a.value.(*queryast.ObjectValue)
	if !ok {
		return nil, false
	}
	v, ok := obj.Field(name)
	if !ok {
		return nil, false
	}
	return astValueSource{value: v}, true
}

func (a astValueSource) ListItems() []ValueSource {
	list, ok := a.value.(*queryast.ListValue)
	if !ok {
		return nil
	}
	items := make([]ValueSource, 0, len(list.Values))
	for _, v := range list.Values {
		items = append(items, astValueSource{value: v})
	}
	return items
}

func (a astValueSource) VariableName() string {
	v, ok := a.value.(*queryast.VariableValue)
	if !ok {
		return ""
	}
	return v.Name
}

func (a astValueSource) StringValue() string {
	switch v := a.value.(type) {
	case *queryast.StringValue:
		return v.Value
	case *queryast.EnumValue:
		return v.Value
	default:
		return ""
	}
}

func (a astValueSource) IntValue() int64 {
	v, ok := a.value.(*queryast.IntValue)
	if !ok {
		return 0
	}
	return v.Value
}

func (a astValueSource) FloatValue() float64 {
	v, ok := a.value.(*queryast.FloatValue)
	if !ok {
		return 0
	}
	return v.Value
}

func (a astValueSource) BoolValue() bool {
	v, ok := a.value.(*queryast.BooleanValue)
	if !ok {
		return false
	}
	return v.Value
}

func (a astValueSource) DateShape() (int, int, int, bool) {
	return 0, 0, 0, false
}

// runtimeValueSource wraps a deserialized variable value: map[string]any,
// []any, string, float64/int/int64, bool, or nil, mirroring the shapes a
// JSON-decoded GraphQL variable takes.
type runtimeValueSource struct {
	value any
}

// NewRuntimeValueSource builds a ValueSource over an arbitrary runtime value.
func NewRuntimeValueSource(v any) ValueSource {
	return runtimeValueSource{value: v}
}

func (r runtimeValueSource) Kind() ValueKind {
	switch v := r.value.(type) {
	case nil:
		return KindNull
	case map[string]any:
		return KindObject
	case []any:
		return KindList
	case string:
		return KindString
	case bool:
		return KindBool
	case int, int32, int64:
		return KindInt
	case float64:
		if v == float64(int64(v)) {
			return KindInt
		}
		return KindFloat
	case float32:
		return KindFloat
	default:
		return KindNull
	}
}

func (r runtimeValueSource) ObjectKeys() []string {
	obj, ok := r.value.(map[string]any)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (r runtimeValueSource) ObjectField(name string) (ValueSource, bool) {
	obj, ok := r.value.(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := obj[name]
	if !ok {
		return nil, false
	}
	return runtimeValueSource{value: v}, true
}

func (r runtimeValueSource) ListItems() []ValueSource {
	list, ok := r.value.([]any)
	if !ok {
		return nil
	}
	items := make([]ValueSource, 0, len(list))
	for _, v := range list {
		items = append(items, runtimeValueSource{value: v})
	}
	return items
}

func (r runtimeValueSource) VariableName() string {
	return ""
}

func (r runtimeValueSource) StringValue() string {
	s, _ := r.value.(string)
	return s
}

func (r runtimeValueSource) IntValue() int64 {
	switch v := r.value.(type) {
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func (r runtimeValueSource) FloatValue() float64 {
	switch v := r.value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 0
	}
}

func (r runtimeValueSource) BoolValue() bool {
	b, _ := r.value.(bool)
	return b
}

func (r runtimeValueSource) DateShape() (year, month, day int, ok bool) {
	obj, isObj := r.value.(map[string]any)
	if !isObj {
		return 0, 0, 0, false
	}
	y, yok := asInt(obj["year"])
	m, mok := asInt(obj["month"])
	d, dok := asInt(obj["day"])
	if !yok || !mok || !dok {
		return 0, 0, 0, false
	}
	return y, m, d, true
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}
