package sqlchain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChain_UnmarshalJSON_LegacyIPAlias(t *testing.T) {
	data := []byte(`{"ip":"10.0.0.5","port":3306,"user":"root","db":"app","software":"mysql","sqls":[]}`)
	var chain Chain
	require.NoError(t, json.Unmarshal(data, &chain))
	assert.Equal(t, "10.0.0.5", chain.Host)
	assert.Equal(t, 3306, chain.Port)
}

func TestChain_UnmarshalJSON_HostWinsOverIP(t *testing.T) {
	data := []byte(`{"host":"db.internal","ip":"10.0.0.5","sqls":[]}`)
	var chain Chain
	require.NoError(t, json.Unmarshal(data, &chain))
	assert.Equal(t, "db.internal", chain.Host)
}

func TestChain_UnmarshalJSON_PreservesStatementDeclarationOrder(t *testing.T) {
	data := []byte(`{"sqls":[
		{"sqlID":"1","table":"t","type":"SELECT"},
		{"sqlID":"2","table":"t","type":"SELECT"}
	]}`)
	var chain Chain
	require.NoError(t, json.Unmarshal(data, &chain))
	require.Len(t, chain.Statements, 2)
	assert.Equal(t, "1", chain.Statements[0].SQLID)
	assert.Equal(t, "2", chain.Statements[1].SQLID)
}

func TestChain_StatementByID(t *testing.T) {
	chain := NewChain("mysql", &Statement{SQLID: "a", Table: "t", Kind: KindSelect})
	s, ok := chain.statementByID("a")
	require.True(t, ok)
	assert.Equal(t, "t", s.Table)

	_, ok = chain.statementByID("missing")
	assert.False(t, ok)
}

func TestNewChain_AssignsID(t *testing.T) {
	chain := NewChain("mysql")
	assert.NotEmpty(t, chain.ID)
}
