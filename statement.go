package sqlchain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StatementKind is the tagged variant for the four statement shapes
// spec.md §3 supports.
type StatementKind string

const (
	KindSelect StatementKind = "SELECT"
	KindInsert StatementKind = "INSERT"
	KindUpdate StatementKind = "UPDATE"
	KindDelete StatementKind = "DELETE"
)

// Statement is the central entity of spec.md §3: an abstract SQL statement
// together with the result slots the Chain Executor (C7) fills in.
type Statement struct {
	SQLID         string
	Table         string
	Kind          StatementKind
	Parameters    *OrderedMap
	Predicate     *Condition
	ReturnColumns *OrderedMap
	OrderBy       string
	Limit         int
	Variables     *OrderedMap
	ReturnLastID  bool

	// Result slots, mutated only by the Chain Executor.
	Results     []map[string]any
	LastID      any
	Executed    bool
	RenderedSQL string
}

// IsVariableStatement reports whether SQLID has the shape "%NAME%"
// (spec.md I1): such a statement runs only during the binding pass.
func (s *Statement) IsVariableStatement() bool {
	return isExactVariable(s.SQLID)
}

// VariableName returns NAME for a variable-producing statement "%NAME%",
// or "" if this is not one.
func (s *Statement) VariableName() string {
	if !s.IsVariableStatement() {
		return ""
	}
	return variableName(s.SQLID)
}

// RequiredVariables is the union of variables.keys, the predicate's required
// variables, and placeholders extracted from parameters values (spec.md
// §4.3).
func (s *Statement) RequiredVariables() []string {
	seen := map[string]bool{}
	var names []string
	add := func(list []string) {
		for _, n := range list {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	if s.Variables != nil {
		add(s.Variables.Keys())
	}
	if s.Predicate != nil {
		add(s.Predicate.RequiredVariables())
	}
	if s.Parameters != nil {
		s.Parameters.Each(func(_ string, v any) {
			add(extractVariableNames(v))
		})
	}
	return names
}

// Validate enforces the Statement-level invariants of spec.md §3 (I2-I4)
// that are independent of rendering.
func (s *Statement) Validate() error {
	switch s.Kind {
	case KindInsert, KindUpdate:
		if s.Parameters == nil || s.Parameters.Len() == 0 {
			return newBuildError(fmt.Sprintf("%s on %q requires non-empty parameters", s.Kind, s.Table))
		}
		if s.Kind == KindUpdate && (s.Predicate == nil || isEmptyPredicate(*s.Predicate)) {
			return newBuildError(fmt.Sprintf("UPDATE on %q requires a non-empty WHERE", s.Table))
		}
	case KindSelect, KindDelete:
		// WHERE is optional for both, per spec.md I4.
	default:
		return newBuildError(fmt.Sprintf("unsupported statement kind %q", s.Kind))
	}
	return nil
}

func isEmptyPredicate(c Condition) bool {
	return c.IsGroup && len(c.Children) == 0 && c.Field == "" && c.Op == ""
}

// Describe renders a short human-readable summary used in executor log
// lines ("SQL executed: " + s.Describe()).
func (s *Statement) Describe() string {
	return fmt.Sprintf("%s %s (sqlId=%s)", s.Kind, s.Table, s.SQLID)
}

// statementJSON is the wire shape of spec.md §6.
type statementJSON struct {
	SQLID         string          `json:"sqlID"`
	Table         string          `json:"table"`
	Type          StatementKind   `json:"type"`
	Where         *Condition      `json:"where,omitempty"`
	ReturnColumns *OrderedMap     `json:"returnColumns,omitempty"`
	ReturnLastID  bool            `json:"returnLastID,omitempty"`
	OrderBy       *string         `json:"orderBy,omitempty"`
	Limit         *int            `json:"limit,omitempty"`
	Parameters    *OrderedMap     `json:"parameters,omitempty"`
	Variables     *OrderedMap     `json:"variables,omitempty"`
}

// MarshalJSON emits the spec.md §6 wire shape.
func (s *Statement) MarshalJSON() ([]byte, error) {
	w := statementJSON{
		SQLID:         s.SQLID,
		Table:         s.Table,
		Type:          s.Kind,
		Where:         s.Predicate,
		ReturnColumns: s.ReturnColumns,
		ReturnLastID:  s.ReturnLastID,
		Parameters:    encodeOrderedMap(s.Parameters),
		Variables:     encodeOrderedMap(s.Variables),
	}
	if s.OrderBy != "" {
		w.OrderBy = &s.OrderBy
	}
	if s.Limit > 0 {
		w.Limit = &s.Limit
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the spec.md §6 wire shape.
func (s *Statement) UnmarshalJSON(data []byte) error {
	var w statementJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("sqlchain: decoding statement: %w", err)
	}
	*s = Statement{
		SQLID:         w.SQLID,
		Table:         w.Table,
		Kind:          w.Type,
		Predicate:     w.Where,
		ReturnColumns: decodeOrderedMap(w.ReturnColumns),
		ReturnLastID:  w.ReturnLastID,
		Parameters:    decodeOrderedMap(w.Parameters),
		Variables:     decodeOrderedMap(w.Variables),
	}
	if w.OrderBy != nil {
		s.OrderBy = *w.OrderBy
	}
	if w.Limit != nil {
		s.Limit = *w.Limit
	}
	return nil
}

// encodeOrderedMap applies EncodeValue to every value before serialization.
func encodeOrderedMap(m *OrderedMap) *OrderedMap {
	if m == nil {
		return nil
	}
	out := NewOrderedMap()
	m.Each(func(k string, v any) { out.Set(k, EncodeValue(v)) })
	return out
}

// decodeOrderedMap applies DecodeValue to every value after deserialization.
func decodeOrderedMap(m *OrderedMap) *OrderedMap {
	if m == nil {
		return nil
	}
	out := NewOrderedMap()
	m.Each(func(k string, v any) { out.Set(k, DecodeValue(v)) })
	return out
}

// parseOrderBy implements spec.md §4.6's ORDER BY parsing: a leading '>'
// means DESC, leading '<' or bare means ASC (no keyword emitted for ASC).
func parseOrderBy(spec string) (column string, desc bool) {
	if spec == "" {
		return "", false
	}
	switch spec[0] {
	case '>':
		return strings.TrimPrefix(spec, ">"), true
	case '<':
		return strings.TrimPrefix(spec, "<"), false
	default:
		return spec, false
	}
}
