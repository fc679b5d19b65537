package sqlchain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConnection is a scripted Connection used to exercise the Chain
// Executor without a real database, in the spirit of the reference corpus's
// own mock.go.
type fakeConnection struct {
	dialect Dialect
	results []*ExecResult

	calls                               []string
	idx                                 int
	began, committed, rolledBack        bool
	failOnCall                          int // -1 disables
}

func (f *fakeConnection) Dialect() Dialect { return f.dialect }
func (f *fakeConnection) Begin(context.Context) bool    { f.began = true; return true }
func (f *fakeConnection) Commit(context.Context) bool   { f.committed = true; return true }
func (f *fakeConnection) Rollback(context.Context) bool { f.rolledBack = true; return true }
func (f *fakeConnection) Close() error                  { return nil }

func (f *fakeConnection) ExecuteRaw(ctx context.Context, sql string) *ExecResult {
	call := len(f.calls)
	f.calls = append(f.calls, sql)
	if call == f.failOnCall {
		return nil
	}
	if call >= len(f.results) {
		return &ExecResult{}
	}
	return f.results[call]
}

// capturingLogger records every Info/Error call for sequence assertions.
type capturingLogger struct {
	lines []string
}

func (l *capturingLogger) Info(msg string, args ...any) { l.lines = append(l.lines, msg) }
func (l *capturingLogger) Error(msg string, err error, args ...any) {
	l.lines = append(l.lines, msg)
}

// basicChain builds the representative scenario spec.md §8 describes: two
// variable-producing statements (user, tab) followed by four main-pass
// statements, the third of which threads a prior insert's lastId through a
// raw-fragment arithmetic expression.
func basicChain() (*Chain, *fakeConnection) {
	varUser := &Statement{SQLID: "%SYS_USER%", Table: "user", Kind: KindSelect, ReturnColumns: newOrderedMap("id", nil)}
	varTab := &Statement{SQLID: "%TAB_NUMBER%", Table: "tab", Kind: KindSelect, ReturnColumns: newOrderedMap("id", nil)}

	insertOrder := &Statement{
		SQLID: "11", Table: "order", Kind: KindInsert,
		Parameters:   newOrderedMap("user", "%SYS_USER%", "tab", "%TAB_NUMBER%"),
		ReturnLastID: true,
	}
	insertOrderRef := &Statement{
		SQLID: "12", Table: "order_ref", Kind: KindInsert,
		Parameters:    newOrderedMap("order", "#order:11#", "next_order", []any{"#order:11# + 10"}, "ref", 1002),
		ReturnColumns: newOrderedMap("next_order", nil),
		ReturnLastID:  true,
	}
	update := &Statement{
		SQLID: "13", Table: "tab", Kind: KindUpdate,
		Parameters: newOrderedMap("status", "used"),
		Predicate:  conditionPtr(NewValueCondition("num", "=", "%TAB_NUMBER%")),
	}
	del := &Statement{
		SQLID: "14", Table: "tab_use", Kind: KindDelete,
		Predicate: conditionPtr(NewValueCondition("num", "=", "%TAB_NUMBER%")),
	}

	chain := NewChain("generic", varUser, varTab, insertOrder, insertOrderRef, update, del)
	chain.ResolvedVariables = nil

	conn := &fakeConnection{
		dialect:    GenericDialect,
		failOnCall: -1,
		results: []*ExecResult{
			{Results: []map[string]any{{"id": "u10"}}},          // variable: SYS_USER
			{Results: []map[string]any{{"id": 301}}},             // variable: TAB_NUMBER
			{LastID: int64(101)},                                 // insertOrder
			{LastID: int64(0)},                                   // insertOrderRef (driver returns 0)
			{},                                                   // update
			{},                                                   // delete
		},
	}
	return chain, conn
}

func conditionPtr(c Condition) *Condition { return &c }

func TestChainExecutor_EndToEndScenario(t *testing.T) {
	chain, conn := basicChain()
	logger := &capturingLogger{}
	chain.Logger = logger

	executor := NewChainExecutor(RetryPolicy{MaxAttempts: 1}, nil)
	ok := executor.Execute(context.Background(), chain, conn)

	require.True(t, ok)
	assert.True(t, conn.began)
	assert.True(t, conn.committed)
	assert.False(t, conn.rolledBack)

	assert.Equal(t, []string{
		"Started transaction",
		"Executed SQL for variable SYS_USER",
		"Executed SQL for variable TAB_NUMBER",
		"SQL executed: INSERT order (sqlId=11)",
		"SQL executed: INSERT order_ref (sqlId=12)",
		"SQL executed: UPDATE tab (sqlId=13)",
		"SQL executed: DELETE tab_use (sqlId=14)",
		"Commit transaction: OK",
	}, logger.lines)

	insertOrder := chain.Statements[2]
	insertOrderRef := chain.Statements[3]
	assert.Equal(t, int64(101), insertOrder.LastID)
	assert.Equal(t, int64(111), insertOrderRef.LastID)

	del := chain.Statements[5]
	assert.Equal(t, "DELETE FROM `tab_use` WHERE `num` = 301", del.RenderedSQL)
}

func TestChainExecutor_FailureRollsBackAndStops(t *testing.T) {
	chain, conn := basicChain()
	logger := &capturingLogger{}
	chain.Logger = logger
	conn.failOnCall = 2 // insertOrder's executeRaw fails

	executor := NewChainExecutor(RetryPolicy{MaxAttempts: 1}, nil)
	ok := executor.Execute(context.Background(), chain, conn)

	require.False(t, ok)
	assert.True(t, conn.rolledBack)
	assert.False(t, conn.committed)

	insertOrderRef := chain.Statements[3]
	assert.False(t, insertOrderRef.Executed)
}
