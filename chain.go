package sqlchain

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Chain is spec.md §3's "Chain / DBCommand": connection credentials, a
// dialect selector, an ordered list of Statements, and a properties map used
// as the variable lookup of last resort. CommandSet (C8) refers to the same
// entity as a DBCommand.
type Chain struct {
	ID       string
	Host     string
	Port     int
	User     string
	Pass     string
	DB       string
	Software string

	Properties *OrderedMap
	Statements []*Statement

	// Overrides are caller-supplied variable bindings consulted by the
	// binding pass ahead of Properties (spec.md §4.5).
	Overrides map[string]any

	// ResolvedVariables is the chain-wide binding-pass output; empty until
	// the Chain Executor runs.
	ResolvedVariables map[string]any

	Logger  Logger
	Metrics *Metrics
}

// DBCommand is the name spec.md's CommandSet (C8) uses for a Chain.
type DBCommand = Chain

// NewChain builds a Chain with a random id (callers may overwrite ID
// afterwards) — CommandSet keys commands by id, so an anonymous chain built
// purely in code still needs one to be addressable.
func NewChain(software string, statements ...*Statement) *Chain {
	return &Chain{ID: uuid.NewString(), Software: software, Statements: statements}
}

// ConnectionConfig projects a Chain's credentials into a Config suitable for
// a ConnectionProvider.Open call.
func (c *Chain) ConnectionConfig() Config {
	return Config{
		Driver: c.Software,
		Host:   c.Host,
		Port:   c.Port,
		User:   c.User,
		Pass:   c.Pass,
		DB:     c.DB,
	}
}

// chainJSON is the wire shape of spec.md §6, including the legacy "ip" host
// alias.
type chainJSON struct {
	ID         string          `json:"id,omitempty"`
	Host       string          `json:"host,omitempty"`
	IP         string          `json:"ip,omitempty"`
	Port       int             `json:"port,omitempty"`
	User       string          `json:"user,omitempty"`
	Pass       string          `json:"pass,omitempty"`
	DB         string          `json:"db,omitempty"`
	Software   string          `json:"software,omitempty"`
	Properties *OrderedMap     `json:"properties,omitempty"`
	Statements []*Statement    `json:"sqls,omitempty"`
}

// MarshalJSON emits the spec.md §6 wire shape.
func (c *Chain) MarshalJSON() ([]byte, error) {
	w := chainJSON{
		ID:         c.ID,
		Host:       c.Host,
		Port:       c.Port,
		User:       c.User,
		Pass:       c.Pass,
		DB:         c.DB,
		Software:   c.Software,
		Properties: encodeOrderedMap(c.Properties),
		Statements: c.Statements,
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the spec.md §6 wire shape, falling back to the
// legacy "ip" field when "host" is absent.
func (c *Chain) UnmarshalJSON(data []byte) error {
	var w chainJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("sqlchain: decoding chain: %w", err)
	}
	host := w.Host
	if host == "" {
		host = w.IP
	}
	*c = Chain{
		ID:         w.ID,
		Host:       host,
		Port:       w.Port,
		User:       w.User,
		Pass:       w.Pass,
		DB:         w.DB,
		Software:   w.Software,
		Properties: decodeOrderedMap(w.Properties),
		Statements: w.Statements,
	}
	return nil
}

// statementByID returns the statement with the given sqlID, if any.
func (c *Chain) statementByID(sqlID string) (*Statement, bool) {
	for _, s := range c.Statements {
		if s.SQLID == sqlID {
			return s, true
		}
	}
	return nil, false
}
