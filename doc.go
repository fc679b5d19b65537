// Package sqlchain executes declaratively-described chains of SQL
// statements against a remote relational database, transactionally, with
// cross-statement variable resolution and reference rewriting.
//
// # Overview
//
// A client describes what statements should run — table, kind, parameters,
// predicate tree, ordering, projection — and ships the description as a
// Chain (a DBCommand, in the wire format's terms). The Chain Executor opens
// a single transaction, resolves %NAME% variables and #table:id# back
// references across statements, renders each statement into the target
// SQL dialect, and commits or rolls back the whole chain atomically.
//
// # Quick start
//
//	chain := &sqlchain.Chain{
//		Software: "mysql",
//		Statements: []*sqlchain.Statement{
//			{SQLID: "1", Table: "account", Kind: sqlchain.KindInsert,
//				Parameters: params, ReturnLastID: true},
//		},
//	}
//	executor := sqlchain.NewChainExecutor(sqlchain.RetryPolicy{MaxAttempts: 3}, nil)
//	ok := executor.Execute(ctx, chain, nil)
//
// # Configuration
//
// Connection credentials can be supplied programmatically via Config or
// layered with environment variables using the SQLCHAIN_* prefix; see
// LoadConfig.
package sqlchain

// Version returns the current library version.
func Version() string { return "v0.1.0" }
