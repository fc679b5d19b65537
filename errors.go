package sqlchain

import "github.com/pkg/errors"

// BuildError is spec.md §7's hard failure for statement-construction
// invariants: empty INSERT/UPDATE parameters, an empty UPDATE predicate, or
// an unsupported statement kind. It aborts the whole chain.
type BuildError struct {
	msg string
}

func newBuildError(msg string) error { return &BuildError{msg: msg} }

func (e *BuildError) Error() string { return "sqlchain: build error: " + e.msg }

// ConnectError wraps a ConnectionProvider failure after retries are
// exhausted. No transaction exists yet, so there is nothing to roll back.
type ConnectError struct {
	cause error
}

func newConnectError(cause error) error { return &ConnectError{cause: cause} }

func (e *ConnectError) Error() string { return errors.Wrap(e.cause, "sqlchain: connect error").Error() }
func (e *ConnectError) Unwrap() error { return e.cause }

// TransactionError covers a begin/commit call returning false.
type TransactionError struct {
	msg string
}

func newTransactionError(msg string) error { return &TransactionError{msg: msg} }

func (e *TransactionError) Error() string { return "sqlchain: transaction error: " + e.msg }

// ExecuteError wraps an executeRaw failure, naming the offending statement.
type ExecuteError struct {
	Statement *Statement
	cause     error
}

func newExecuteError(s *Statement, cause error) error { return &ExecuteError{Statement: s, cause: cause} }

func (e *ExecuteError) Error() string {
	return errors.Wrapf(e.cause, "sqlchain: executing %s", e.Statement.Describe()).Error()
}
func (e *ExecuteError) Unwrap() error { return e.cause }
