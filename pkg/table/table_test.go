package table

import (
	"reflect"
	"testing"
)

func TestFromRecordsColumnUnion(t *testing.T) {
	tbl := FromRecords([]Record{
		{"species": "Rana sylvatica", "year": 1950.0},
		{"species": "Rana pipiens", "year": 1951.0, "stateProvince": "New York"},
		{"country": "US"},
	})

	if tbl.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", tbl.Len())
	}

	// Union of observed fields: record order first, alphabetical within a record.
	want := []string{"species", "year", "stateProvince", "country"}
	if got := tbl.Columns(); !reflect.DeepEqual(got, want) {
		t.Errorf("Columns() = %v, want %v", got, want)
	}
}

func TestAppendRegistersNewColumns(t *testing.T) {
	tbl := New()
	tbl.Append(Record{"b": 1, "a": 2})
	tbl.Append(Record{"c": 3})

	want := []string{"a", "b", "c"}
	if got := tbl.Columns(); !reflect.DeepEqual(got, want) {
		t.Errorf("Columns() = %v, want %v", got, want)
	}
}

func TestValue(t *testing.T) {
	tbl := FromRecords([]Record{
		{"species": "Rana sylvatica"},
		{"year": 1950.0},
	})

	if v, ok := tbl.Value(0, "species"); !ok || v != "Rana sylvatica" {
		t.Errorf("Value(0, species) = %v, %v, want Rana sylvatica, true", v, ok)
	}
	if _, ok := tbl.Value(1, "species"); ok {
		t.Error("Value(1, species) should report missing")
	}
}

func TestConcat(t *testing.T) {
	a := FromRecords([]Record{{"species": "A", "year": 1900.0}})
	b := FromRecords([]Record{{"species": "B", "year": 1910.0, "county": "Kings"}})

	merged := Concat(a, b)

	if merged.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", merged.Len())
	}
	want := []string{"species", "year", "county"}
	if got := merged.Columns(); !reflect.DeepEqual(got, want) {
		t.Errorf("Columns() = %v, want %v", got, want)
	}
	if v, _ := merged.Value(1, "species"); v != "B" {
		t.Errorf("row order not preserved: Value(1, species) = %v", v)
	}
}

func TestConcatSkipsNil(t *testing.T) {
	a := FromRecords([]Record{{"x": 1}})
	merged := Concat(nil, a, nil)
	if merged.Len() != 1 {
		t.Errorf("Len() = %d, want 1", merged.Len())
	}
}

func TestSetColumn(t *testing.T) {
	tbl := FromRecords([]Record{
		{"species": "A"},
		{"species": "B"},
	})
	tbl.SetColumn(ColumnEpoch, 1950)

	if !tbl.HasColumn(ColumnEpoch) {
		t.Fatal("epoch column not registered")
	}
	for i := 0; i < tbl.Len(); i++ {
		if v, _ := tbl.Value(i, ColumnEpoch); v != 1950 {
			t.Errorf("row %d epoch = %v, want 1950", i, v)
		}
	}
}

func TestSortByYear(t *testing.T) {
	tests := []struct {
		name  string
		years []any
		want  []string
	}{
		{
			name:  "numeric_years",
			years: []any{1990.0, 1950.0, 1970.0},
			want:  []string{"1950", "1970", "1990"},
		},
		{
			name:  "missing_years_sort_last",
			years: []any{1990.0, nil, 1950.0},
			want:  []string{"1950", "1990", ""},
		},
		{
			name:  "string_years_from_csv",
			years: []any{"1990", "1950", "1970"},
			want:  []string{"1950", "1970", "1990"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := New()
			for _, y := range tt.years {
				rec := Record{}
				if y != nil {
					rec[ColumnYear] = y
				}
				tbl.Append(rec)
			}
			tbl.SortByYear()

			got := make([]string, tbl.Len())
			for i := range got {
				v, _ := tbl.Value(i, ColumnYear)
				got[i] = FormatValue(v)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("sorted years = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortByYearStable(t *testing.T) {
	tbl := FromRecords([]Record{
		{"year": 1950.0, "seq": "a"},
		{"year": 1950.0, "seq": "b"},
		{"year": 1940.0, "seq": "c"},
		{"year": 1950.0, "seq": "d"},
	})
	tbl.SortByYear()

	got := ""
	for i := 0; i < tbl.Len(); i++ {
		v, _ := tbl.Value(i, "seq")
		got += v.(string)
	}
	if got != "cabd" {
		t.Errorf("row order after stable sort = %q, want %q", got, "cabd")
	}
}

func TestSelect(t *testing.T) {
	tbl := FromRecords([]Record{
		{"species": "A", "year": 1950.0, "country": "US", "day": 12.0},
	})

	view, err := tbl.Select("species", "year", "country")
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}
	want := []string{"species", "year", "country"}
	if got := view.Columns(); !reflect.DeepEqual(got, want) {
		t.Errorf("Columns() = %v, want %v", got, want)
	}
	if view.HasColumn("day") {
		t.Error("unselected column leaked into view")
	}

	if _, err := tbl.Select("species", "missing"); err == nil {
		t.Error("Select() with unknown column should fail")
	}
}

func TestEqual(t *testing.T) {
	a := FromRecords([]Record{{"species": "A", "year": 1950.0}})
	b := FromRecords([]Record{{"species": "A", "year": "1950"}})
	c := FromRecords([]Record{{"species": "B", "year": 1950.0}})

	// Rendered-form comparison: float 1950 equals string "1950".
	if !a.Equal(b) {
		t.Error("tables differing only in cell representation should be equal")
	}
	if a.Equal(c) {
		t.Error("tables with different values should not be equal")
	}
	if a.Equal(nil) {
		t.Error("table should not equal nil")
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"Rana sylvatica", "Rana sylvatica"},
		{1950.0, "1950"},
		{1950.5, "1950.5"},
		{42, "42"},
		{int64(7), "7"},
		{true, "true"},
	}

	for _, tt := range tests {
		if got := FormatValue(tt.in); got != tt.want {
			t.Errorf("FormatValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsMissing(t *testing.T) {
	if !IsMissing(nil) {
		t.Error("nil should be missing")
	}
	if !IsMissing("") {
		t.Error("empty string should be missing")
	}
	if IsMissing("x") || IsMissing(0.0) {
		t.Error("real values should not be missing")
	}
}
