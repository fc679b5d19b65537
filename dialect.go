package sqlchain

import "fmt"

// Dialect parameterizes the renderer with the two database-specific choices
// spec.md §4.4 calls out: identifier quoting and byte-literal syntax.
type Dialect interface {
	// Name identifies the dialect, e.g. "mysql", "postgres".
	Name() string
	// Quote is the character surrounding every identifier the renderer emits.
	Quote() byte
	// RenderBytes renders a byte sequence as a dialect-specific SQL fragment.
	RenderBytes(b []byte) string
}

type mysqlDialect struct{}

func (mysqlDialect) Name() string    { return "mysql" }
func (mysqlDialect) Quote() byte     { return '`' }
func (mysqlDialect) RenderBytes(b []byte) string {
	return fmt.Sprintf("X'%x'", b)
}

type postgresDialect struct{}

func (postgresDialect) Name() string { return "postgres" }
func (postgresDialect) Quote() byte  { return '"' }
func (postgresDialect) RenderBytes(b []byte) string {
	return fmt.Sprintf("'\\x%x'", b)
}

// genericDialect is the minimal dialect spec.md §4.4 requires for tests: it
// backtick-quotes identifiers like MySQL but renders bytes the Postgres way.
type genericDialect struct{}

func (genericDialect) Name() string { return "generic" }
func (genericDialect) Quote() byte  { return '`' }
func (genericDialect) RenderBytes(b []byte) string {
	return fmt.Sprintf("'\\x%x'", b)
}

// MySQLDialect is the reference MySQL dialect (spec.md §4.4, row A).
var MySQLDialect Dialect = mysqlDialect{}

// PostgresDialect is the reference Postgres dialect (spec.md §4.4, row B).
var PostgresDialect Dialect = postgresDialect{}

// GenericDialect is the minimal test dialect spec.md §4.4 calls for.
var GenericDialect Dialect = genericDialect{}

// quoteIdent wraps an identifier in the dialect's quote character.
func quoteIdent(d Dialect, ident string) string {
	q := d.Quote()
	return string(q) + ident + string(q)
}
