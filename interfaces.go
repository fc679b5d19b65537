package sqlchain

import "context"

// ExecResult is what executeRaw returns for a single rendered statement
// (spec.md §6): the materialized rows (nil for statements that produce
// none) and the driver-reported last-insert-id, if any.
type ExecResult struct {
	Results []map[string]any
	LastID  any
}

// Connection is the sole external collaborator contract the Chain Executor
// depends on (spec.md §1/§6): "the executor only consumes a Connection
// interface with begin / commit / rollback / executeRaw." Concrete driver
// bindings (mysqlConnection, postgresConnection) implement it; so can a
// test fake.
type Connection interface {
	// Begin starts a transaction. false is a non-throwing failure.
	Begin(ctx context.Context) bool
	// Commit commits the open transaction. false is a non-throwing failure.
	Commit(ctx context.Context) bool
	// Rollback rolls back the open transaction.
	Rollback(ctx context.Context) bool
	// ExecuteRaw runs already-rendered SQL text inlined with its values
	// (spec.md §4.6: "the current contract emits all values inlined into
	// the SQL text"). nil means the statement itself failed.
	ExecuteRaw(ctx context.Context, sql string) *ExecResult
	// Dialect returns the Dialect this connection renders statements for.
	Dialect() Dialect
	// Close releases the connection.
	Close() error
}

// ConnectionProvider produces Connections for a given Config, per spec.md
// §3's "Connections are obtained from an external provider."
type ConnectionProvider interface {
	Open(ctx context.Context, cfg Config) (Connection, error)
}

// ConnectionProviderFactory builds a ConnectionProvider; used by the driver
// registry (C12) to defer provider construction until a chain actually
// needs one for a given "software" selector.
type ConnectionProviderFactory func() ConnectionProvider
