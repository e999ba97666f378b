package models

// RawRow is one row of an uploaded table, keyed by the column label exactly as
// it appeared in the source file.
type RawRow map[string]string

// RawTable is one uploaded tabular dataset before any mapping is applied.
// It carries no schema assumptions; every cell is kept as text and coerced
// later, when a field mapping is applied.
type RawTable struct {
	Headers []string `json:"headers"`
	Rows    []RawRow `json:"rows"`
}

// Preview returns up to n rows for the mapping UI.
func (t *RawTable) Preview(n int) []RawRow {
	if t == nil || n <= 0 {
		return nil
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return t.Rows[:n]
}

// RowCount returns the number of data rows (header excluded).
func (t *RawTable) RowCount() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}
