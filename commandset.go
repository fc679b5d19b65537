package sqlchain

import (
	"context"
	"fmt"
)

// CommandSet is the Host Surface (C8) of spec.md §4.8: it owns a set of
// named DBCommands and exposes operations callable from embedded user
// procedures. Missing-id cases are LookupMiss — logged at info level and
// reported as false/nil, never as an error (spec.md §7).
type CommandSet struct {
	Executor *ChainExecutor
	Logger   Logger
	commands map[string]*Chain
}

// NewCommandSet builds a CommandSet over the given commands, keyed by their
// Chain.ID.
func NewCommandSet(executor *ChainExecutor, logger Logger, commands ...*Chain) *CommandSet {
	cs := &CommandSet{Executor: executor, Logger: orNoop(logger), commands: map[string]*Chain{}}
	for _, c := range commands {
		cs.commands[c.ID] = c
	}
	return cs
}

// ExecuteDbCommandById runs the named command's whole chain, merging
// overrides into its binding-pass variable overrides.
func (cs *CommandSet) ExecuteDbCommandById(ctx context.Context, id string, overrides map[string]any) bool {
	chain, ok := cs.commands[id]
	if !ok {
		cs.Logger.Info(fmt.Sprintf("Can't find command %q", id))
		return false
	}
	chain.Overrides = mergeOverrides(chain.Overrides, overrides)
	return cs.Executor.Execute(ctx, chain, nil)
}

// ExecuteSqlById runs just the one statement owning sqlID, inside its own
// transaction against its owning command's credentials.
func (cs *CommandSet) ExecuteSqlById(ctx context.Context, sqlID string, overrides map[string]any) bool {
	owner, stmt, ok := cs.findStatement(sqlID)
	if !ok {
		cs.Logger.Info(fmt.Sprintf("Can't find sql %q", sqlID))
		return false
	}
	return cs.Executor.Execute(ctx, subChain(owner, []*Statement{stmt}, overrides), nil)
}

// ExecuteSqlsByIds groups sqlIDs by owning command and runs each group in
// its own transaction, in first-appearance command order. Any group's
// failure short-circuits the remaining groups.
func (cs *CommandSet) ExecuteSqlsByIds(ctx context.Context, sqlIDs []string, overrides map[string]any) bool {
	groups := map[*Chain][]*Statement{}
	var order []*Chain
	for _, id := range sqlIDs {
		owner, stmt, ok := cs.findStatement(id)
		if !ok {
			cs.Logger.Info(fmt.Sprintf("Can't find sql %q", id))
			return false
		}
		if _, seen := groups[owner]; !seen {
			order = append(order, owner)
		}
		groups[owner] = append(groups[owner], stmt)
	}
	for _, owner := range order {
		if !cs.Executor.Execute(ctx, subChain(owner, groups[owner], overrides), nil) {
			return false
		}
	}
	return true
}

// GetSqlResults returns the result rows of a previously executed statement.
func (cs *CommandSet) GetSqlResults(sqlID string) []map[string]any {
	_, stmt, ok := cs.findStatement(sqlID)
	if !ok {
		cs.Logger.Info(fmt.Sprintf("Can't find sql %q", sqlID))
		return nil
	}
	return stmt.Results
}

// GetSqlResult returns the first result row, or nil if there is none.
func (cs *CommandSet) GetSqlResult(sqlID string) map[string]any {
	results := cs.GetSqlResults(sqlID)
	if len(results) == 0 {
		return nil
	}
	return results[0]
}

// GetSqlResultsColumn projects one column across every result row.
func (cs *CommandSet) GetSqlResultsColumn(sqlID, col string) []any {
	results := cs.GetSqlResults(sqlID)
	if results == nil {
		return nil
	}
	out := make([]any, len(results))
	for i, row := range results {
		out[i] = row[col]
	}
	return out
}

// GetSqlResultColumn returns one column from the first result row.
func (cs *CommandSet) GetSqlResultColumn(sqlID, col string) any {
	row := cs.GetSqlResult(sqlID)
	if row == nil {
		return nil
	}
	return row[col]
}

// GetProperty reads a property from a command's properties map.
func (cs *CommandSet) GetProperty(id, key string) any {
	chain, ok := cs.commands[id]
	if !ok {
		cs.Logger.Info(fmt.Sprintf("Can't find command %q", id))
		return nil
	}
	if chain.Properties == nil {
		return nil
	}
	v, _ := chain.Properties.Get(key)
	return v
}

func (cs *CommandSet) findStatement(sqlID string) (*Chain, *Statement, bool) {
	for _, chain := range cs.commands {
		if stmt, ok := chain.statementByID(sqlID); ok {
			return chain, stmt, true
		}
	}
	return nil, nil, false
}

// subChain builds a throwaway Chain sharing owner's credentials and
// properties but running only statements, used by ExecuteSqlById/
// ExecuteSqlsByIds to scope a transaction to a subset of an owning command.
func subChain(owner *Chain, statements []*Statement, overrides map[string]any) *Chain {
	return &Chain{
		ID:         owner.ID,
		Host:       owner.Host,
		Port:       owner.Port,
		User:       owner.User,
		Pass:       owner.Pass,
		DB:         owner.DB,
		Software:   owner.Software,
		Properties: owner.Properties,
		Statements: statements,
		Overrides:  mergeOverrides(owner.Overrides, overrides),
		Logger:     owner.Logger,
		Metrics:    owner.Metrics,
	}
}

func mergeOverrides(base, extra map[string]any) map[string]any {
	if len(extra) == 0 {
		return base
	}
	out := make(map[string]any, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
