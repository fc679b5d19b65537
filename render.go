package sqlchain

import (
	"fmt"
	"strings"
)

// RenderResult is what the Statement Renderer (C6) produces: the final,
// fully-inlined SQL text plus the substituted values, kept in both column
// order and by name for a future driver-bound rendering path (spec.md §4.6:
// "the current contract emits all values inlined into the SQL text; the
// returned ordered/named value maps exist for future driver-bound rendering
// and may be empty").
type RenderResult struct {
	SQL           string
	ValuesOrdered []any
	ValuesNamed   map[string]any
}

// Render turns a Statement into dialect-specific SQL text, substituting
// every parameter and predicate value against variables and executed
// (spec.md §4.6). Build-time invariants (I2-I4) are enforced via
// s.Validate before any text is assembled.
func Render(s *Statement, d Dialect, variables map[string]any, executed []*Statement) (RenderResult, error) {
	if err := s.Validate(); err != nil {
		return RenderResult{}, err
	}

	cols, vals, named := substituteParameters(s.Parameters, variables, executed)

	var sqlText string
	var err error
	switch s.Kind {
	case KindInsert:
		sqlText, err = renderInsert(s, d, cols, vals)
	case KindUpdate:
		sqlText, err = renderUpdate(s, d, cols, vals, variables, executed)
	case KindSelect:
		sqlText, err = renderSelect(s, d, variables, executed)
	case KindDelete:
		sqlText, err = renderDelete(s, d, variables, executed)
	default:
		return RenderResult{}, newBuildError(fmt.Sprintf("unsupported statement kind %q", s.Kind))
	}
	if err != nil {
		return RenderResult{}, err
	}
	return RenderResult{SQL: sqlText, ValuesOrdered: vals, ValuesNamed: named}, nil
}

// substituteParameters resolves every parameter value, preserving the
// OrderedMap's column order for INSERT/UPDATE column lists (spec.md §3:
// "insertion order is the execution order").
func substituteParameters(params *OrderedMap, variables map[string]any, executed []*Statement) (cols []string, vals []any, named map[string]any) {
	named = map[string]any{}
	params.Each(func(k string, v any) {
		resolved := v
		if isPlaceholderValue(v) {
			resolved = substituteValue(v, variables, executed)
		}
		cols = append(cols, k)
		vals = append(vals, resolved)
		named[k] = resolved
	})
	return cols, vals, named
}

func renderInsert(s *Statement, d Dialect, cols []string, vals []any) (string, error) {
	colParts := make([]string, len(cols))
	valParts := make([]string, len(vals))
	for i, c := range cols {
		colParts[i] = quoteIdent(d, c)
		rendered, err := renderScalarValue(d, vals[i])
		if err != nil {
			return "", err
		}
		valParts[i] = rendered
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(d, s.Table), strings.Join(colParts, " , "), strings.Join(valParts, " , ")), nil
}

func renderUpdate(s *Statement, d Dialect, cols []string, vals []any, variables map[string]any, executed []*Statement) (string, error) {
	setParts := make([]string, len(cols))
	for i, c := range cols {
		rendered, err := renderScalarValue(d, vals[i])
		if err != nil {
			return "", err
		}
		setParts[i] = fmt.Sprintf("%s = %s", quoteIdent(d, c), rendered)
	}
	where, err := s.Predicate.Build(d, variables, executed)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s",
		quoteIdent(d, s.Table), strings.Join(setParts, " , "), where), nil
}

func renderSelect(s *Statement, d Dialect, variables map[string]any, executed []*Statement) (string, error) {
	cols := "*"
	if s.ReturnColumns != nil && s.ReturnColumns.Len() > 0 {
		parts := make([]string, 0, s.ReturnColumns.Len())
		s.ReturnColumns.Each(func(col string, alias any) {
			part := quoteIdent(d, col)
			if aliasStr, ok := alias.(string); ok && aliasStr != "" {
				part += " as " + quoteIdent(d, aliasStr)
			}
			parts = append(parts, part)
		})
		cols = strings.Join(parts, " , ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", cols, quoteIdent(d, s.Table))
	if err := appendWhereOrderLimit(&b, s, d, variables, executed); err != nil {
		return "", err
	}
	return b.String(), nil
}

func renderDelete(s *Statement, d Dialect, variables map[string]any, executed []*Statement) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "DELETE FROM %s", quoteIdent(d, s.Table))
	if err := appendWhereOrderLimit(&b, s, d, variables, executed); err != nil {
		return "", err
	}
	return b.String(), nil
}

// appendWhereOrderLimit appends the clauses shared by SELECT and DELETE
// (spec.md I4): an optional WHERE, then ORDER BY, then LIMIT.
func appendWhereOrderLimit(b *strings.Builder, s *Statement, d Dialect, variables map[string]any, executed []*Statement) error {
	where, err := renderWhere(s, d, variables, executed)
	if err != nil {
		return err
	}
	if where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}
	if s.OrderBy != "" {
		col, desc := parseOrderBy(s.OrderBy)
		b.WriteString(" ORDER BY ")
		b.WriteString(quoteIdent(d, col))
		if desc {
			b.WriteString(" DESC")
		}
	}
	if s.Limit > 0 {
		fmt.Fprintf(b, " LIMIT %d", s.Limit)
	}
	return nil
}

func renderWhere(s *Statement, d Dialect, variables map[string]any, executed []*Statement) (string, error) {
	if s.Predicate == nil || isEmptyPredicate(*s.Predicate) {
		return "", nil
	}
	return s.Predicate.Build(d, variables, executed)
}
