package queryast

import (
	"encoding/json"
	"fmt"
)

// DecodeDocument parses the MCP-facing JSON document shape into a Document.
// This is the one piece of "parsing" the compiler's input boundary owns —
// it never parses query *text*, only a pre-structured JSON encoding of the
// AST a client already built.
func DecodeDocument(data []byte) (*Document, error) {
	var raw struct {
		Operations []jsonOperation            `json:"operations"`
		Fragments  map[string]jsonFragment     `json:"fragments"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("queryast: decode document: %w", err)
	}

	doc := &Document{Fragments: make(map[string]*FragmentDefinition, len(raw.Fragments))}
	for _, op := range raw.Operations {
		sels, err := decodeSelections(op.SelectionSet)
		if err != nil {
			return nil, err
		}
		doc.Operations = append(doc.Operations, &OperationDefinition{
			Type:          decodeOperationType(op.Type),
			Name:          op.Name,
			SelectionSet:  sels,
			VariableNames: op.Variables,
		})
	}
	for name, frag := range raw.Fragments {
		sels, err := decodeSelections(frag.SelectionSet)
		if err != nil {
			return nil, err
		}
		doc.Fragments[name] = &FragmentDefinition{
			Name:          name,
			TypeCondition: frag.TypeCondition,
			SelectionSet:  sels,
		}
	}
	return doc, nil
}

type jsonOperation struct {
	Type         string          `json:"type"`
	Name         string          `json:"name"`
	Variables    []string        `json:"variables"`
	SelectionSet []jsonSelection `json:"selectionSet"`
}

type jsonFragment struct {
	TypeCondition string          `json:"typeCondition"`
	SelectionSet  []jsonSelection `json:"selectionSet"`
}

type jsonSelection struct {
	Kind          string          `json:"kind"`
	Name          string          `json:"name"`
	Alias         string          `json:"alias"`
	TypeCondition string          `json:"typeCondition"`
	Arguments     []jsonArgument  `json:"arguments"`
	SelectionSet  []jsonSelection `json:"selectionSet"`
}

type jsonArgument struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

func decodeOperationType(s string) OperationType {
	switch s {
	case "mutation":
		return OperationMutation
	case "subscription":
		return OperationSubscription
	default:
		return OperationQuery
	}
}

func decodeSelections(in []jsonSelection) ([]Selection, error) {
	out := make([]Selection, 0, len(in))
	for _, s := range in {
		sel, err := decodeSelection(s)
		if err != nil {
			return nil, err
		}
		out = append(out, sel)
	}
	return out, nil
}

func decodeSelection(s jsonSelection) (Selection, error) {
	switch s.Kind {
	case "", "field":
		args := make([]Argument, 0, len(s.Arguments))
		for _, a := range s.Arguments {
			val, err := decodeValue(a.Value)
			if err != nil {
				return nil, err
			}
			args = append(args, Argument{Name: a.Name, Value: val})
		}
		children, err := decodeSelections(s.SelectionSet)
		if err != nil {
			return nil, err
		}
		return &FieldNode{Alias: s.Alias, Name: s.Name, Arguments: args, SelectionSet: children}, nil
	case "inlineFragment":
		children, err := decodeSelections(s.SelectionSet)
		if err != nil {
			return nil, err
		}
		return &InlineFragment{TypeCondition: s.TypeCondition, SelectionSet: children}, nil
	case "fragmentSpread":
		return &FragmentSpread{Name: s.Name}, nil
	default:
		return nil, fmt.Errorf("queryast: unknown selection kind %q", s.Kind)
	}
}

type jsonValue struct {
	Kind   string          `json:"kind"`
	Name   string          `json:"name"`
	Value  json.RawMessage `json:"value"`
	Fields []jsonObjectField `json:"fields"`
	Values []json.RawMessage `json:"values"`
}

type jsonObjectField struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

func decodeValue(raw json.RawMessage) (Value, error) {
	if raw == nil {
		return &NullValue{}, nil
	}
	var jv jsonValue
	if err := json.Unmarshal(raw, &jv); err != nil {
		return nil, fmt.Errorf("queryast: decode value: %w", err)
	}
	switch jv.Kind {
	case "object":
		fields := make([]ObjectField, 0, len(jv.Fields))
		for _, f := range jv.Fields {
			v, err := decodeValue(f.Value)
			if err != nil {
				return nil, err
			}
			fields = append(fields, ObjectField{Name: f.Name, Value: v})
		}
		return &ObjectValue{Fields: fields}, nil
	case "list":
		values := make([]Value, 0, len(jv.Values))
		for _, rv := range jv.Values {
			v, err := decodeValue(rv)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		return &ListValue{Values: values}, nil
	case "variable":
		return &VariableValue{Name: jv.Name}, nil
	case "string":
		var s string
		_ = json.Unmarshal(jv.Value, &s)
		return &StringValue{Value: s}, nil
	case "enum":
		var s string
		_ = json.Unmarshal(jv.Value, &s)
		return &EnumValue{Value: s}, nil
	case "int":
		var n int64
		_ = json.Unmarshal(jv.Value, &n)
		return &IntValue{Value: n}, nil
	case "float":
		var f float64
		_ = json.Unmarshal(jv.Value, &f)
		return &FloatValue{Value: f}, nil
	case "boolean":
		var b bool
		_ = json.Unmarshal(jv.Value, &b)
		return &BooleanValue{Value: b}, nil
	case "null", "":
		return &NullValue{}, nil
	default:
		return nil, fmt.Errorf("queryast: unknown value kind %q", jv.Kind)
	}
}
