package export

import "fmt"

// Table is the tabular content shared by every exporter.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

func (t Table) check() error {
	if len(t.Headers) == 0 {
		return fmt.Errorf("table requires at least one header")
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Headers) {
			return fmt.Errorf("row %d has %d cells, want %d", i+1, len(row), len(t.Headers))
		}
	}
	return nil
}
