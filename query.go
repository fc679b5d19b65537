package sqlchain

import (
	"context"
	"database/sql"
	"strings"

	_ "github.com/go-sql-driver/mysql"
)

// mysqlConnectionProvider opens Connections backed by database/sql over
// go-sql-driver/mysql, adapting the dial/exec style of the reference
// corpus's Conn/query helpers to the Connection contract (spec.md §6).
type mysqlConnectionProvider struct{}

func (mysqlConnectionProvider) Open(ctx context.Context, cfg Config) (Connection, error) {
	db, err := sql.Open("mysql", dsnFromConfig(cfg))
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &mysqlConnection{db: db}, nil
}

func init() {
	RegisterDriver("mysql", MySQLDialect, func() ConnectionProvider { return mysqlConnectionProvider{} })
}

// mysqlConnection implements Connection over a single *sql.DB, running the
// whole chain inside one *sql.Tx (spec.md §5: "a single chain holds one
// connection for its entire lifetime").
type mysqlConnection struct {
	db *sql.DB
	tx *sql.Tx
}

func (c *mysqlConnection) Dialect() Dialect { return MySQLDialect }

func (c *mysqlConnection) Begin(ctx context.Context) bool {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return false
	}
	c.tx = tx
	return true
}

func (c *mysqlConnection) Commit(ctx context.Context) bool {
	if c.tx == nil {
		return false
	}
	return c.tx.Commit() == nil
}

func (c *mysqlConnection) Rollback(ctx context.Context) bool {
	if c.tx == nil {
		return false
	}
	return c.tx.Rollback() == nil
}

func (c *mysqlConnection) Close() error { return c.db.Close() }

// ExecuteRaw runs rendered, fully-inlined SQL text (spec.md §4.6) and
// materializes rows into portable Go values via the value codec (C1).
func (c *mysqlConnection) ExecuteRaw(ctx context.Context, query string) *ExecResult {
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
	res, err := c.tx.ExecContext(ctx, query)
	if err != nil {
		return nil
	}
	lastID, _ := res.LastInsertId()
	return &ExecResult{LastID: lastID}
}

func looksLikeSelect(sqlText string) bool {
	trimmed := strings.TrimSpace(sqlText)
	return len(trimmed) >= 6 && strings.EqualFold(trimmed[:6], "SELECT")
}

// scanRows materializes *sql.Rows into []map[string]any, storing each column
// value exactly as the driver scanned it; no conversion is applied, so a
// driver that returns []byte for text columns leaves them as []byte.
func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []map[string]any
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			row[col] = raw[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
