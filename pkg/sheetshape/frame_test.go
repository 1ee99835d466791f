package sheetshape

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ukaji3/sheetshape-go/pkg/sheetshape/models"
)

func TestBuildTable(t *testing.T) {
	g := grid(
		vals("Report"),
		vals("a", nil, "a", 2024, "a"),
		vals(1, 2, 3),
		vals(4, nil, nil, nil, nil, "late"),
		vals(7),
	)

	tbl, err := buildTable(g, 1, 0)
	if err != nil {
		t.Fatalf("buildTable failed: %v", err)
	}

	expectedCols := []string{"a", "Unnamed: 1", "a.1", "2024", "a.2", "Unnamed: 5"}
	if !reflect.DeepEqual(tbl.Columns, expectedCols) {
		t.Errorf("Expected columns %v, got %v", expectedCols, tbl.Columns)
	}
	if tbl.NumRows() != 3 {
		t.Fatalf("Expected 3 rows, got %d", tbl.NumRows())
	}
	for i, row := range tbl.Rows {
		if len(row) != len(expectedCols) {
			t.Errorf("Row %d has %d cells, expected %d", i, len(row), len(expectedCols))
		}
	}
	if !tbl.Rows[0][5].IsNull() {
		t.Errorf("Expected padding null, got %v", tbl.Rows[0][5])
	}
	if s, _ := tbl.Rows[1][5].Str(); s != "late" {
		t.Errorf("Expected 'late', got %v", tbl.Rows[1][5])
	}
	// The title row above the header never appears.
	for _, row := range tbl.Rows {
		if s, ok := row[0].Str(); ok && s == "Report" {
			t.Error("Row above the header leaked into the table")
		}
	}
}

func TestBuildTableMaxRows(t *testing.T) {
	g := grid(
		vals("x", "y"),
		vals(1, 2),
		vals(3, 4),
		vals(5, 6, 7),
	)

	tbl, err := buildTable(g, 0, 2)
	if err != nil {
		t.Fatalf("buildTable failed: %v", err)
	}
	if tbl.NumRows() != 2 {
		t.Errorf("Expected 2 rows, got %d", tbl.NumRows())
	}
	// Width only considers the selected rows.
	if tbl.NumColumns() != 2 {
		t.Errorf("Expected 2 columns, got %d", tbl.NumColumns())
	}
}

func TestBuildTableOutOfRange(t *testing.T) {
	g := grid(vals("x", "y"))
	for _, row := range []int{-1, 1, 5} {
		if _, err := buildTable(g, row, 0); !errors.Is(err, ErrHeaderOutOfRange) {
			t.Errorf("buildTable(row %d) error = %v, expected ErrHeaderOutOfRange", row, err)
		}
	}
}

func TestInferType(t *testing.T) {
	tests := []struct {
		values   []models.Value
		expected models.ColumnType
	}{
		{vals(1, 2.5, nil), models.TypeNumeric},
		{vals("a", nil, "b"), models.TypeText},
		{vals(true, false), models.TypeBoolean},
		{vals(nil, nil), models.TypeUnknown},
		{vals(), models.TypeUnknown},
		{vals(1, "a"), models.TypeText},
		{vals(true, 1), models.TypeText},
	}

	for _, tt := range tests {
		if got := inferType(tt.values); got != tt.expected {
			t.Errorf("inferType(%v) = %s, expected %s", tt.values, got, tt.expected)
		}
	}
}

func TestDescribeColumns(t *testing.T) {
	tbl := table([]string{"id", "city", "empty"},
		vals(1, "Lima", nil),
		vals(2, "Lima", nil),
		vals(3, "Cusco", nil),
		vals(4, "Puno", nil),
	)

	cols := describeColumns(tbl)
	if len(cols) != 3 {
		t.Fatalf("Expected 3 columns, got %d", len(cols))
	}
	if cols[0].InferredType != models.TypeNumeric || cols[0].UniqueRatio != 1 {
		t.Errorf("Unexpected id column: %+v", cols[0])
	}
	if cols[1].UniqueValues != 3 || cols[1].UniqueRatio != 0.75 {
		t.Errorf("Unexpected city column: %+v", cols[1])
	}
	if len(cols[1].SampleValues) != 3 {
		t.Errorf("Expected 3 samples, got %d", len(cols[1].SampleValues))
	}
	if cols[2].HasData || cols[2].InferredType != models.TypeUnknown {
		t.Errorf("Unexpected empty column: %+v", cols[2])
	}
}

func TestUniqueNames(t *testing.T) {
	tests := []struct {
		in       []string
		expected []string
	}{
		{[]string{"a", "b"}, []string{"a", "b"}},
		{[]string{"a", "a", "a"}, []string{"a", "a.1", "a.2"}},
		{[]string{"a.1", "a", "a"}, []string{"a.1", "a", "a.2"}},
		{[]string{"a", "a", "a.1"}, []string{"a", "a.2", "a.1"}},
	}

	for _, tt := range tests {
		if got := uniqueNames(tt.in); !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("uniqueNames(%v) = %v, expected %v", tt.in, got, tt.expected)
		}
	}
}
