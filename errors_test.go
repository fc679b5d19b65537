package sqlchain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildError_Message(t *testing.T) {
	err := newBuildError("INSERT requires at least one parameter")
	assert.Equal(t, "sqlchain: build error: INSERT requires at least one parameter", err.Error())
}

func TestConnectError_WrapsAndUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := newConnectError(cause)

	assert.Contains(t, err.Error(), "sqlchain: connect error")
	assert.Contains(t, err.Error(), "connection refused")
	assert.Same(t, cause, errors.Unwrap(err))
	assert.True(t, errors.Is(err, cause))
}

func TestTransactionError_Message(t *testing.T) {
	err := newTransactionError("begin failed")
	assert.Equal(t, "sqlchain: transaction error: begin failed", err.Error())
}

func TestExecuteError_NamesOffendingStatement(t *testing.T) {
	stmt := &Statement{SQLID: "11", Table: "order", Kind: KindInsert}
	cause := errors.New("duplicate key")
	err := newExecuteError(stmt, cause)

	assert.Contains(t, err.Error(), "executing INSERT order (sqlId=11)")
	assert.Contains(t, err.Error(), "duplicate key")
	assert.True(t, errors.Is(err, cause))

	var execErr *ExecuteError
	require := assert.New(t)
	require.True(errors.As(err, &execErr))
	require.Same(stmt, execErr.Statement)
}
