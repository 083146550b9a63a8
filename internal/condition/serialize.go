package condition

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// serializeValue renders v into the pre-serialized Cypher literal stored on
// a leaf Condition's Value field. It never resolves variables — a
// VariableValue always serializes to "$name", per the filter DSL's
// serialization rules.
func serializeValue(v ValueSource) string {
	if y, m, d, ok := v.DateShape(); ok {
		return fmt.Sprintf("'%04d-%02d-%02d'", y, m, d)
	}
	switch v.Kind() {
	case KindRaw:
		return v.StringValue()
	case KindBool:
		return strconv.FormatBool(v.BoolValue())
	case KindInt:
		return strconv.FormatInt(v.IntValue(), 10)
	case KindFloat:
		return strconv.FormatFloat(v.FloatValue(), 'g', -1, 64)
	case KindString, KindEnum:
		return "'" + escapeSingleQuotes(v.StringValue()) + "'"
	case KindVariable:
		return "$" + v.VariableName()
	case KindList:
		items := v.ListItems()
		parts := make([]string, 0, len(items))
		for _, item := range items {
			parts = append(parts, serializeValue(item))
		}
		return "[" + strings.Join(parts, ",") + "]"
	case KindNull:
		return "null"
	default:
		slog.Warn("condition: unrecognized value kind, serializing as null")
		return "null"
	}
}

func escapeSingleQuotes(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}
