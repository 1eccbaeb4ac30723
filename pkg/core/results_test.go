package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryResults(t *testing.T) {
	r := &QueryResults{
		Columns: []ResultColumn{{Name: "id"}, {Name: "name"}},
		Rows:    [][]any{{1, "Alice"}, {2, "Bob"}},
	}
	assert.Equal(t, []string{"id", "name"}, r.ColumnNames())
	assert.Equal(t, 2, r.RowCount())

	var empty *QueryResults
	assert.Nil(t, empty.ColumnNames())
	assert.Zero(t, empty.RowCount())
}
