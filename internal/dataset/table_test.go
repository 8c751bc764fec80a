package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_Get(t *testing.T) {
	tbl := New("companies", []string{"Company_ID", "Name"}, [][]string{
		{"1", "Acme"},
		{"2"},
	})

	assert.Equal(t, "Acme", tbl.Get(0, "name"))
	assert.Equal(t, "1", tbl.Get(0, "COMPANY_ID")) // case-insensitive
	assert.Empty(t, tbl.Get(1, "name"))            // ragged row
	assert.Empty(t, tbl.Get(5, "name"))            // out of range
	assert.Empty(t, tbl.Get(0, "missing"))
}

func TestTable_HasColumn(t *testing.T) {
	tbl := New("contacts", []string{" Email "}, nil)
	assert.True(t, tbl.HasColumn("email")) // header whitespace trimmed
	assert.False(t, tbl.HasColumn("phone"))
}

func TestTable_RequireColumns(t *testing.T) {
	tbl := New("opportunities", []string{"Opportunity_ID", "Status"}, nil)

	assert.NoError(t, tbl.RequireColumns("opportunity_id", "status"))

	err := tbl.RequireColumns("opportunity_id", "forecast", "certainty")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "forecast, certainty")
	assert.Contains(t, err.Error(), "opportunities")
}

func TestTable_NilSafety(t *testing.T) {
	var tbl *Table
	assert.Zero(t, tbl.Len())
	assert.False(t, tbl.HasColumn("a"))
	assert.Empty(t, tbl.Get(0, "a"))
	assert.Error(t, tbl.RequireColumns("a"))
}
