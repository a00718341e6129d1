package epochs

import (
	"github.com/savantlab/gbif-records/pkg/table"
)

// Result is the merged, epoch-labeled, year-sorted occurrence table produced
// by an aggregation. It is the canonical artifact downstream consumers
// operate on.
type Result struct {
	Table *table.Table
}

// Len returns the number of records.
func (r *Result) Len() int {
	return r.Table.Len()
}

// View returns a copy restricted to the conventional analysis columns:
// species, year, epoch, country, stateProvince.
func (r *Result) View() (*table.Table, error) {
	return r.Table.Select(ViewColumns...)
}

// SaveCSV persists the result as a delimited flat file with a leading row
// sequence column.
func (r *Result) SaveCSV(path string) error {
	return r.Table.SaveCSV(path)
}

// LoadFromCSV restores a previously saved aggregation. The saved row index
// column is discarded; columns and row order are reproduced exactly.
func LoadFromCSV(path string) (*Result, error) {
	tbl, err := table.LoadCSV(path)
	if err != nil {
		return nil, err
	}
	return &Result{Table: tbl}, nil
}
