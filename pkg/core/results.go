package core

// ResultColumn describes one column of a preview result set.
type ResultColumn struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

// QueryResults is a tabular preview payload. Each row holds one value per column.
type QueryResults struct {
	Columns []ResultColumn `json:"columns"`
	Rows    [][]any        `json:"rows"`
}

// ColumnNames returns the column names in order. A nil result has none.
func (r *QueryResults) ColumnNames() []string {
	if r == nil {
		return nil
	}
	names := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		names[i] = c.Name
	}
	return names
}

// RowCount returns the number of rows, treating a nil result as empty.
func (r *QueryResults) RowCount() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}
