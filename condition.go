package sqlchain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Condition is the predicate tree sum type of spec.md §3/§4.2: either a leaf
// comparison (Value) or a boolean group (Group) of child Conditions.
type Condition struct {
	// Leaf fields, valid when IsGroup is false.
	Field string
	Op    string
	Value any

	// Group fields, valid when this Condition is a group.
	IsGroup bool
	Or      bool
	Children []Condition
}

// NewValueCondition builds a leaf Condition.
func NewValueCondition(field, op string, value any) Condition {
	return Condition{Field: field, Op: op, Value: value}
}

// NewGroup builds a Group Condition. or selects OR-joining of children
// instead of AND.
func NewGroup(or bool, children ...Condition) Condition {
	return Condition{IsGroup: true, Or: or, Children: children}
}

// RequiredVariables returns the union of placeholder names syntactically
// present in every leaf's value, per spec.md §4.2.
func (c Condition) RequiredVariables() []string {
	if c.IsGroup {
		seen := map[string]bool{}
		var names []string
		for _, child := range c.Children {
			for _, n := range child.RequiredVariables() {
				if !seen[n] {
					seen[n] = true
					names = append(names, n)
				}
			}
		}
		return names
	}
	return extractVariableNames(c.Value)
}

// Build renders the SQL fragment for this Condition tree (spec.md §4.2).
func (c Condition) Build(d Dialect, variables map[string]any, executed []*Statement) (string, error) {
	if c.IsGroup {
		if len(c.Children) == 0 {
			return "", nil
		}
		if len(c.Children) == 1 {
			return c.Children[0].Build(d, variables, executed)
		}
		joiner := " AND "
		if c.Or {
			joiner = " OR "
		}
		parts := make([]string, 0, len(c.Children))
		for _, child := range c.Children {
			frag, err := child.Build(d, variables, executed)
			if err != nil {
				return "", err
			}
			parts = append(parts, frag)
		}
		return "( " + strings.Join(parts, joiner) + " )", nil
	}

	resolved := c.Value
	if isPlaceholderValue(resolved) {
		resolved = substituteValue(resolved, variables, executed)
	}

	field := quoteIdent(d, c.Field)
	if strings.EqualFold(stringifyValue(resolved), "null") {
		switch c.Op {
		case "=", "==":
			return field + " IS NULL", nil
		case "!=", "<>":
			return field + " IS NOT NULL", nil
		}
	}

	rendered, err := renderScalarValue(d, resolved)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s %s", field, c.Op, rendered), nil
}

// renderScalarValue implements the value-serializer table of spec.md §4.6
// shared between the predicate tree and the statement renderer.
func renderScalarValue(d Dialect, v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "NULL", nil
	case time.Time:
		return "'" + t.UTC().Format(dateTimeForm) + "'", nil
	case []any:
		// Raw-fragment escape hatch: a one-element list is emitted verbatim.
		if len(t) != 1 {
			return "", fmt.Errorf("sqlchain: raw fragment must have exactly one element, got %d", len(t))
		}
		return fmt.Sprintf("%v", t[0]), nil
	case []byte:
		return d.RenderBytes(t), nil
	case string:
		return "'" + t + "'", nil
	case bool:
		if t {
			return "1", nil
		}
		return "0", nil
	case int, int32, int64, uint, uint32, uint64:
		return fmt.Sprintf("%v", t), nil
	case float32, float64:
		return trimFloatAny(t), nil
	case json.Number:
		return t.String(), nil
	default:
		return fmt.Sprintf("%v", t), nil
	}
}

func trimFloatAny(v any) string {
	switch f := v.(type) {
	case float32:
		return strconv.FormatFloat(float64(f), 'g', -1, 64)
	case float64:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return fmt.Sprintf("%v", v)
}

// conditionGroupJSON is the Group wire shape of spec.md §6,
// {"or": bool, "conditions": [...]}; a Value leaf is instead the
// three-element list [field, op, value], handled directly in
// MarshalJSON/UnmarshalJSON.
type conditionGroupJSON struct {
	Or         bool            `json:"or"`
	Conditions []Condition `json:"conditions"`
}

// MarshalJSON emits the polymorphic wire shape.
func (c Condition) MarshalJSON() ([]byte, error) {
	if c.IsGroup {
		return json.Marshal(conditionGroupJSON{Or: c.Or, Conditions: c.Children})
	}
	return json.Marshal([3]any{c.Field, c.Op, EncodeValue(c.Value)})
}

// UnmarshalJSON distinguishes the two shapes by runtime JSON token: a list
// decodes as a Value leaf, an object decodes as a Group.
func (c *Condition) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == "" {
		*c = Condition{}
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var triple [3]any
		if err := json.Unmarshal(data, &triple); err != nil {
			return fmt.Errorf("sqlchain: decoding condition leaf: %w", err)
		}
		field, _ := triple[0].(string)
		op, _ := triple[1].(string)
		*c = Condition{Field: field, Op: op, Value: DecodeValue(triple[2])}
		return nil
	}
	var group conditionGroupJSON
	if err := json.Unmarshal(data, &group); err != nil {
		return fmt.Errorf("sqlchain: decoding condition group: %w", err)
	}
	*c = Condition{IsGroup: true, Or: group.Or, Children: group.Conditions}
	return nil
}
