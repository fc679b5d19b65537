package sqlchain

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ChainExecutor is the Chain Executor (C7) of spec.md §4.7: it drives a
// chain's statements through begin → resolve-variables → execute → commit,
// rolling back as one unit on any failure. There is no partial commit.
type ChainExecutor struct {
	Retry   RetryPolicy
	Metrics *Metrics
}

// NewChainExecutor builds a ChainExecutor with the given connect-retry
// policy. metrics may be nil.
func NewChainExecutor(retry RetryPolicy, metrics *Metrics) *ChainExecutor {
	return &ChainExecutor{Retry: retry, Metrics: metrics}
}

// Execute runs chain to completion against providedConn, or a freshly
// dialed connection when providedConn is nil (spec.md §4.7's pseudocode
// contract). It returns false — never panics or returns an error — for every
// hard failure kind in spec.md §7's error table.
func (e *ChainExecutor) Execute(ctx context.Context, chain *Chain, providedConn Connection) bool {
	logger := orNoop(chain.Logger)

	conn := providedConn
	if conn == nil {
		c, err := e.dial(ctx, chain)
		if err != nil {
			logger.Error("Can't open DB", err)
			return false
		}
		conn = c
		defer conn.Close()
	}

	if !conn.Begin(ctx) {
		logger.Error("Can't begin transaction", newTransactionError("begin returned false"))
		return false
	}
	logger.Info("Started transaction")

	var executed []*Statement
	bindingFailed := false
	runStatement := func(s *Statement) bool {
		if !e.runOne(ctx, chain, conn, s, &executed, logger, true) {
			bindingFailed = true
			return false
		}
		return true
	}
	resolveVariables(chain, runStatement)
	if bindingFailed {
		conn.Rollback(ctx)
		e.Metrics.incRollback()
		return false
	}

	for _, s := range chain.Statements {
		if s.IsVariableStatement() {
			continue
		}
		if !e.runOne(ctx, chain, conn, s, &executed, logger, false) {
			conn.Rollback(ctx)
			e.Metrics.incRollback()
			return false
		}
	}

	ok := conn.Commit(ctx)
	if ok {
		logger.Info("Commit transaction: OK")
		e.Metrics.incCommit()
	} else {
		logger.Error("Commit transaction: FAILED", newTransactionError("commit returned false"))
		conn.Rollback(ctx)
		e.Metrics.incRollback()
	}
	return ok
}

// dial opens a Connection for chain via its registered driver, honoring the
// connect-retry policy (spec.md §5(b)).
func (e *ChainExecutor) dial(ctx context.Context, chain *Chain) (Connection, error) {
	_, factory, ok := LookupDriver(chain.Software)
	if !ok {
		return nil, newConnectError(fmt.Errorf("no driver registered for software %q", chain.Software))
	}
	provider := factory()
	cfg := chain.ConnectionConfig()
	conn, err := retryConnect(ctx, e.Retry, func(ctx context.Context) (Connection, error) {
		return provider.Open(ctx, cfg)
	})
	if err != nil {
		return nil, newConnectError(err)
	}
	return conn, nil
}

// runOne renders and executes a single statement, writing its result slots
// and appending it to executed on success (spec.md §4.7).
func (e *ChainExecutor) runOne(ctx context.Context, chain *Chain, conn Connection, s *Statement, executed *[]*Statement, logger Logger, isVariable bool) bool {
	start := time.Now()
	result, err := Render(s, conn.Dialect(), chain.ResolvedVariables, *executed)
	e.Metrics.observeRenderSeconds(time.Since(start).Seconds())
	if err != nil {
		logger.Error("Can't render "+s.Describe(), err)
		return false
	}
	s.RenderedSQL = result.SQL

	r := conn.ExecuteRaw(ctx, result.SQL)
	if r == nil {
		logger.Error("Can't execute "+s.Describe(), newExecuteError(s, fmt.Errorf("executeRaw returned nil")))
		return false
	}

	s.Results = r.Results
	s.LastID = resolveLastId(r.LastID, s, result.ValuesNamed, *executed)
	s.Executed = true
	*executed = append(*executed, s)
	e.Metrics.incStatement()

	if isVariable {
		logger.Info("Executed SQL for variable " + s.VariableName())
	} else {
		logger.Info("SQL executed: " + s.Describe())
	}
	return true
}

// arithmeticPattern matches the two-term integer arithmetic spec.md §4.7
// step 4 evaluates, e.g. "101 + 10" or "5-3".
var arithmeticPattern = regexp.MustCompile(`^(-?\d+)\s*([+-])\s*(-?\d+)$`)

// resolveLastId implements spec.md §4.7's resolveLastId algorithm, letting
// raw-fragment arithmetic like next_order=['#order:11# + 10'] thread a
// computed id forward even when the driver itself reports 0.
func resolveLastId(driverReturnedId any, s *Statement, valuesNamed map[string]any, executed []*Statement) any {
	if n, ok := toInt64(driverReturnedId); ok && n != 0 {
		return n
	}
	if str, ok := driverReturnedId.(string); ok && str != "" {
		return str
	}
	if s.ReturnColumns == nil || s.ReturnColumns.Len() == 0 {
		return nil
	}
	col := s.ReturnColumns.Keys()[0]
	val, ok := valuesNamed[col]
	if !ok && s.Parameters != nil {
		val, _ = s.Parameters.Get(col)
	}
	return coerceLastId(val)
}

func coerceLastId(val any) any {
	if n, ok := toInt64(val); ok {
		return n
	}
	if list, ok := val.([]any); ok && len(list) == 1 {
		elem := list[0]
		if n, ok := toInt64(elem); ok {
			return n
		}
		if str, ok := elem.(string); ok {
			if n, ok := evalArithmetic(str); ok {
				return n
			}
		}
		return nil
	}
	if str, ok := val.(string); ok {
		if n, err := strconv.ParseInt(strings.TrimSpace(str), 10, 64); err == nil {
			return n
		}
	}
	return nil
}

func evalArithmetic(s string) (int64, bool) {
	m := arithmeticPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, false
	}
	a, errA := strconv.ParseInt(m[1], 10, 64)
	b, errB := strconv.ParseInt(m[3], 10, 64)
	if errA != nil || errB != nil {
		return 0, false
	}
	if m[2] == "+" {
		return a + b, true
	}
	return a - b, true
}

func toInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case uint:
		return int64(t), true
	case uint64:
		return int64(t), true
	case float32:
		if float64(int64(t)) == float64(t) {
			return int64(t), true
		}
	case float64:
		if float64(int64(t)) == t {
			return int64(t), true
		}
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, true
		}
	}
	return 0, false
}
