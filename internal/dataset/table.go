// Package dataset loads tabular decision data from CSV and JSON files.
package dataset

// Row represents a single row with column name to value mapping.
type Row map[string]string

// Table is a header plus rows. Columns keeps the header order; a column
// listed there may still be blank in individual rows.
type Table struct {
	Columns []string
	Rows    []Row
}

// HasColumn reports whether name is part of the header.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Len returns the number of data rows.
func (t Table) Len() int {
	return len(t.Rows)
}
