package sqlchain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// golden case 2: nested AND/OR predicate with NULL normalization.
func TestRender_NestedPredicateWithNullNormalization(t *testing.T) {
	pred := NewGroup(false,
		NewValueCondition("serie", "=", "tabs"),
		NewGroup(true,
			NewValueCondition("status", "=", "free"),
			NewValueCondition("status", "=", nil),
		),
	)
	s := &Statement{
		Table:         "tab",
		Kind:          KindSelect,
		ReturnColumns: newOrderedMap("num", nil),
		Predicate:     &pred,
		OrderBy:       ">num",
		Limit:         1,
	}

	result, err := Render(s, GenericDialect, nil, nil)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT `num` FROM `tab` WHERE ( `serie` = 'tabs' AND ( `status` = 'free' OR `status` IS NULL ) ) ORDER BY `num` DESC LIMIT 1",
		result.SQL)
}

func TestCondition_NullNormalization(t *testing.T) {
	eq := NewValueCondition("field", "=", nil)
	sql, err := eq.Build(GenericDialect, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "`field` IS NULL", sql)

	neq := NewValueCondition("field", "!=", nil)
	sql, err = neq.Build(GenericDialect, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "`field` IS NOT NULL", sql)

	ne := NewValueCondition("field", "<>", nil)
	sql, err = ne.Build(GenericDialect, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "`field` IS NOT NULL", sql)
}

func TestCondition_SingleChildGroupUnwraps(t *testing.T) {
	group := NewGroup(false, NewValueCondition("a", "=", 1))
	sql, err := group.Build(GenericDialect, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "`a` = 1", sql)
}

func TestCondition_RequiredVariables(t *testing.T) {
	c := NewGroup(false,
		NewValueCondition("a", "=", "%FOO%"),
		NewValueCondition("b", "=", "#table:1#"),
		NewValueCondition("c", "=", "%BAR%"),
	)
	assert.Equal(t, []string{"FOO", "BAR"}, c.RequiredVariables())
}

func TestCondition_JSONRoundTrip_Leaf(t *testing.T) {
	c := NewValueCondition("status", "=", "free")
	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `["status","=","free"]`, string(data))

	var decoded Condition
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, c, decoded)
}

func TestCondition_JSONRoundTrip_Group(t *testing.T) {
	c := NewGroup(true, NewValueCondition("a", "=", 1), NewValueCondition("b", "=", 2))
	data, err := json.Marshal(c)
	require.NoError(t, err)

	var decoded Condition
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.IsGroup)
	assert.True(t, decoded.Or)
	assert.Len(t, decoded.Children, 2)
}
