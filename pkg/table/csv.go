package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// WriteCSV writes the table as a delimited flat file: a header row with an
// unnamed leading index column followed by the table columns, then one row
// per record with a fresh 0-based sequence number in the first field.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := append([]string{""}, t.columns...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	row := make([]string, len(t.columns)+1)
	for i, rec := range t.rows {
		row[0] = strconv.Itoa(i)
		for j, col := range t.columns {
			row[j+1] = FormatValue(rec[col])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a table previously written by WriteCSV. The leading index
// column is discarded; row sequence numbers are regenerated on the next save.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("read csv header: empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) < 1 {
		return nil, fmt.Errorf("read csv header: no columns")
	}

	t := New()
	cols := header[1:]
	for _, col := range cols {
		if _, seen := t.colSet[col]; seen {
			return nil, fmt.Errorf("read csv header: duplicate column %q", col)
		}
		t.colSet[col] = struct{}{}
		t.columns = append(t.columns, col)
	}

	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(t.rows), err)
		}
		if len(fields) != len(cols)+1 {
			return nil, fmt.Errorf("read csv row %d: got %d fields, want %d",
				len(t.rows), len(fields), len(cols)+1)
		}
		rec := make(Record, len(cols))
		for j, col := range cols {
			rec[col] = fields[j+1]
		}
		t.rows = append(t.rows, rec)
	}

	return t, nil
}

// SaveCSV writes the table to a file, creating or truncating it.
func (t *Table) SaveCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save csv: %w", err)
	}
	defer f.Close()

	return t.WriteCSV(f)
}

// LoadCSV reads a table from a file written by SaveCSV.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load csv: %w", err)
	}
	defer f.Close()

	return ReadCSV(f)
}
