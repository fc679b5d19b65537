package sqlchain

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// postgresConnectionProvider opens Connections backed by database/sql over
// lib/pq, the Postgres counterpart to mysqlConnectionProvider.
type postgresConnectionProvider struct{}

func (postgresConnectionProvider) Open(ctx context.Context, cfg Config) (Connection, error) {
	db, err := sql.Open("postgres", postgresDSN(cfg))
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &postgresConnection{db: db}, nil
}

// postgresDSN builds a lib/pq keyword/value connection string.
func postgresDSN(cfg Config) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Pass, cfg.DB)
}

func init() {
	RegisterDriver("postgres", PostgresDialect, func() ConnectionProvider { return postgresConnectionProvider{} })
}

// postgresConnection implements Connection over a single *sql.DB, mirroring
// mysqlConnection's shape with driver-specific last-id handling: lib/pq
// never populates sql.Result.LastInsertId, so a Postgres chain relies on
// returnColumns/parameters-based resolution (resolveLastId steps 2-5).
type postgresConnection struct {
	db *sql.DB
	tx *sql.Tx
}

func (c *postgresConnection) Dialect() Dialect { return PostgresDialect }

func (c *postgresConnection) Begin(ctx context.Context) bool {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return false
	}
	c.tx = tx
	return true
}

func (c *postgresConnection) Commit(ctx context.Context) bool {
	if c.tx == nil {
		return false
	}
	return c.tx.Commit() == nil
}

func (c *postgresConnection) Rollback(ctx context.Context) bool {
	if c.tx == nil {
		return false
	}
	return c.tx.Rollback() == nil
}

func (c *postgresConnection) Close() error { return c.db.Close() }

func (c *postgresConnection) ExecuteRaw(ctx context.Context, query string) *ExecResult {
	if c.tx == nil {
		return nil
	}
	if looksLikeSelect(query) {
		rows, err := c.tx.QueryContext(ctx, query)
		if err != nil {
			return nil
		}
		defer rows.Close()
		results, err := scanRows(rows)
		if err != nil {
			return nil
		}
		return &ExecResult{Results: results}
	}
	if _, err := c.tx.ExecContext(ctx, query); err != nil {
		return nil
	}
	return &ExecResult{}
}
