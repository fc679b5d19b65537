package sqlchain

import "fmt"

// substituteValue implements the §4.5 substitution rules, applied during
// rendering to every parameter value and leaf predicate value:
//   - lists recurse element-wise, preserving shape for the raw-fragment path;
//   - a string that is exactly "%N%" is replaced by variables[N] verbatim
//     (which may be any value, including nil);
//   - a string that is exactly "#table:id#" is replaced by the referenced
//     statement's lastId (or its results, when lastId is unset) verbatim;
//   - any other string has every occurrence of either pattern substituted
//     in place, each stringified (so arithmetic fragments like
//     "#order:11# + 10" become "101 + 10").
func substituteValue(v any, variables map[string]any, executed []*Statement) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = substituteValue(e, variables, executed)
		}
		return out
	case string:
		if isExactVariable(t) {
			return variables[variableName(t)]
		}
		if isExactBackref(t) {
			table, sqlID := splitBackref(t)
			return backrefValue(table, sqlID, executed)
		}
		if !isPlaceholderString(t) {
			return t
		}
		return placeholderPattern.ReplaceAllStringFunc(t, func(m string) string {
			var resolved any
			if isExactVariable(m) {
				resolved = variables[variableName(m)]
			} else {
				table, sqlID := splitBackref(m)
				resolved = backrefValue(table, sqlID, executed)
			}
			return stringifyValue(resolved)
		})
	default:
		return v
	}
}

// backrefValue finds the first executed statement matching table:sqlID and
// returns its lastId if set, otherwise its results (spec.md I5). A forward
// or unknown reference yields nil.
func backrefValue(table, sqlID string, executed []*Statement) any {
	for _, s := range executed {
		if s.Table == table && s.SQLID == sqlID {
			if s.LastID != nil {
				return s.LastID
			}
			return s.Results
		}
	}
	return nil
}

// resolveVariables runs the §4.5 binding pass: every placeholder name
// required by a non-variable statement is bound, in order of first
// appearance, before the main execution pass begins. runStatement executes
// a single variable-producing statement (render + executeRaw), writing its
// result slots; it is supplied by the Chain Executor since it needs a live
// Connection.
func resolveVariables(chain *Chain, runStatement func(s *Statement) bool) {
	if chain.ResolvedVariables == nil {
		chain.ResolvedVariables = map[string]any{}
	}
	seen := map[string]bool{}
	var order []string
	for _, s := range chain.Statements {
		if s.IsVariableStatement() {
			continue
		}
		for _, n := range s.RequiredVariables() {
			if !seen[n] {
				seen[n] = true
				order = append(order, n)
			}
		}
	}
	for _, name := range order {
		if _, ok := chain.ResolvedVariables[name]; ok {
			continue
		}
		chain.ResolvedVariables[name] = resolveVariable(chain, name, runStatement)
	}
}

// resolveVariable implements the "standard callback" of spec.md §4.5: run
// every "%N%"-shaped statement, take the first non-null first-row
// first-column value across them, falling back to caller overrides and then
// the chain's properties map. A variable left unresolved is logged at Info
// and bound to nil.
func resolveVariable(chain *Chain, name string, runStatement func(s *Statement) bool) any {
	var found any
	haveFound := false
	for _, s := range chain.Statements {
		if s.VariableName() != name {
			continue
		}
		runStatement(s)
		if !haveFound {
			if v := firstColumnValue(s); v != nil {
				found, haveFound = v, true
			}
		}
	}
	if haveFound {
		return found
	}
	if chain.Overrides != nil {
		if v, ok := chain.Overrides[name]; ok {
			return v
		}
	}
	if chain.Properties != nil {
		if v, ok := chain.Properties.Get(name); ok {
			return v
		}
	}
	orNoop(chain.Logger).Info(fmt.Sprintf("Can't resolve variable %q", name))
	return nil
}

// firstColumnValue reads the first result row's first column, using the
// statement's declared returnColumns order (its alias, if any) to pick which
// map key counts as "first" — row maps themselves carry no ordering.
func firstColumnValue(s *Statement) any {
	if len(s.Results) == 0 {
		return nil
	}
	row := s.Results[0]
	if s.ReturnColumns != nil && s.ReturnColumns.Len() > 0 {
		col := s.ReturnColumns.Keys()[0]
		outKey := col
		if alias, _ := s.ReturnColumns.Get(col); alias != nil {
			if aliasStr, ok := alias.(string); ok && aliasStr != "" {
				outKey = aliasStr
			}
		}
		if v, ok := row[outKey]; ok {
			return v
		}
	}
	for _, v := range row {
		return v
	}
	return nil
}
