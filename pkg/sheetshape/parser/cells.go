package parser

import (
	"strconv"
	"strings"
	"time"

	"github.com/ukaji3/sheetshape-go/pkg/sheetshape/models"
	"github.com/xuri/excelize/v2"
)

// ExtractCells reads every row of a sheet into typed values.
// Trailing rows with no values are dropped; interior empty rows are kept.
// Numbers whose cell style carries a date or time format become DateTime,
// honoring the workbook's 1904 date system.
func ExtractCells(f *excelize.File, sheetName string) (Grid, error) {
	shown, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}
	raw, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	dates := newDateStyles(f)
	grid := make(Grid, 0, len(raw))
	for rowIdx, row := range raw {
		var shownRow []string
		if rowIdx < len(shown) {
			shownRow = shown[rowIdx]
		}

		cells := make([]models.Value, len(row))
		for colIdx, rawValue := range row {
			if rawValue == "" {
				continue
			}
			display := rawValue
			if colIdx < len(shownRow) {
				display = shownRow[colIdx]
			}
			cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return nil, err
			}
			typ, err := f.GetCellType(sheetName, cellName)
			if err != nil {
				typ = excelize.CellTypeUnset
			}
			v := typeCell(typ, rawValue, display)
			if n, ok := v.Float(); ok && dates.isDate(sheetName, cellName) {
				if t, err := excelize.ExcelDateToTime(n, dates.date1904); err == nil {
					v = models.DateTime(t)
				}
			}
			cells[colIdx] = v
		}
		grid = append(grid, cells)
	}

	return trimTrailingEmptyRows(grid), nil
}

// typeCell converts one cell using the reader's native type. Text is kept
// verbatim; numeric-looking text stays text. Date formats are applied by
// ExtractCells.
func typeCell(typ excelize.CellType, raw, display string) models.Value {
	switch typ {
	case excelize.CellTypeBool:
		return models.Bool(raw == "1" || strings.EqualFold(raw, "true"))
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeError, excelize.CellTypeFormula:
		return models.Text(display)
	case excelize.CellTypeDate:
		if t, ok := parseISOTime(raw); ok {
			return models.DateTime(t)
		}
		return models.Text(display)
	}

	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return models.Text(display)
	}
	return models.Number(n)
}

func parseISOTime(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func trimTrailingEmptyRows(grid Grid) Grid {
	end := len(grid)
	for end > 0 && RowIsEmpty(grid[end-1]) {
		end--
	}
	return grid[:end]
}

// RowIsEmpty reports whether every cell of row is null.
func RowIsEmpty(row []models.Value) bool {
	for _, v := range row {
		if !v.IsNull() {
			return false
		}
	}
	return true
}
