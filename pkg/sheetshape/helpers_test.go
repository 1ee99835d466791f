package sheetshape

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ukaji3/sheetshape-go/pkg/sheetshape/models"
	"github.com/ukaji3/sheetshape-go/pkg/sheetshape/parser"
	"github.com/xuri/excelize/v2"
)

// vals converts Go literals to cell values: nil is null, strings are text,
// ints and floats are numbers.
func vals(in ...interface{}) []models.Value {
	out := make([]models.Value, len(in))
	for i, v := range in {
		switch x := v.(type) {
		case nil:
			out[i] = models.Null()
		case string:
			out[i] = models.Text(x)
		case int:
			out[i] = models.Number(float64(x))
		case float64:
			out[i] = models.Number(x)
		case bool:
			out[i] = models.Bool(x)
		case time.Time:
			out[i] = models.DateTime(x)
		case models.Value:
			out[i] = x
		default:
			panic("unsupported literal")
		}
	}
	return out
}

func table(columns []string, rows ...[]models.Value) *models.Table {
	t := models.NewTable(columns)
	for _, r := range rows {
		t.Rows = append(t.Rows, models.Row(r))
	}
	return t
}

func grid(rows ...[]models.Value) parser.Grid {
	return parser.Grid(rows)
}

// writeWorkbook saves a workbook whose sheets hold the given rows, starting at A1.
func writeWorkbook(t *testing.T, name string, sheets map[string][][]interface{}, order ...string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range order {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				t.Fatalf("Failed to rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			t.Fatalf("Failed to create sheet: %v", err)
		}
		for r, row := range sheets[sheet] {
			cell, _ := excelize.CoordinatesToCellName(1, r+1)
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				t.Fatalf("Failed to write row: %v", err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}
	return path
}

// memoryEngine returns an engine whose reader serves wb for a placeholder file.
func memoryEngine(t *testing.T, wb *parser.MemoryWorkbook, opts Options) (*Engine, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "memory.xlsx")
	if err := os.WriteFile(path, []byte("stub"), 0o600); err != nil {
		t.Fatalf("Failed to write placeholder: %v", err)
	}
	e := New(opts, WithOpener(func(string) (parser.Workbook, error) { return wb, nil }))
	return e, path
}
