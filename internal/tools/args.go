package tools

import (
	"encoding/json"
	"fmt"
	"math"
)

// Arguments are the decoded arguments of a tool call.
type Arguments map[string]any

// String returns the named argument if it is a string.
func (a Arguments) String(name string) (string, bool) {
	s, ok := a[name].(string)
	return s, ok
}

// OptionalString returns a pointer to the named string argument, or nil when absent.
// The pointer marshals to null, which the upstream API expects for unset fields.
func (a Arguments) OptionalString(name string) *string {
	s, ok := a.String(name)
	if !ok {
		return nil
	}
	return &s
}

// maxInt64Float is 2^63, the first float64 past the int64 range.
const maxInt64Float = float64(1 << 63)

// Int returns the named argument if it is an integral number within int64 range.
func (a Arguments) Int(name string) (int64, bool) {
	switch v := a[name].(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		if v != math.Trunc(v) || v < math.MinInt64 || v >= maxInt64Float {
			return 0, false
		}
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	default:
		return 0, false
	}
}

// RequireString is String for arguments the schema already validated.
func (a Arguments) RequireString(tool ToolName, name string) (string, error) {
	s, ok := a.String(name)
	if !ok {
		return "", a.argumentError(tool, name)
	}
	return s, nil
}

// RequireInt is Int for arguments the schema already validated.
func (a Arguments) RequireInt(tool ToolName, name string) (int64, error) {
	n, ok := a.Int(name)
	if !ok {
		return 0, a.argumentError(tool, name)
	}
	return n, nil
}

func (a Arguments) argumentError(tool ToolName, name string) error {
	if _, present := a[name]; !present {
		return &ArgumentError{Tool: tool, Argument: name, Reason: ReasonMissing}
	}
	return &ArgumentError{
		Tool:     tool,
		Argument: name,
		Reason:   ReasonInvalid,
		Cause:    fmt.Errorf("%s: unexpected value %v of type %T", name, a[name], a[name]),
	}
}

// withoutNulls copies args, dropping null values so they count as absent.
func withoutNulls(args map[string]any) Arguments {
	out := make(Arguments, len(args))
	for k, v := range args {
		if v == nil {
			continue
		}
		out[k] = v
	}
	return out
}
