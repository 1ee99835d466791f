// Package parser provides spreadsheet reading utilities.
package parser

import (
	"path/filepath"
	"strings"

	"github.com/ukaji3/sheetshape-go/pkg/sheetshape/models"
	"github.com/xuri/excelize/v2"
)

// SupportedExtensions lists the spreadsheet extensions the reader accepts.
var SupportedExtensions = []string{".xlsx", ".xls", ".xlsm"}

// IsSupported reports whether path has a supported spreadsheet extension.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Grid holds the typed cells of a sheet by physical row (0-based).
// Rows may be shorter than the sheet width; missing cells are null.
type Grid [][]models.Value

// Workbook is an open spreadsheet file.
type Workbook interface {
	// SheetNames returns sheet names in workbook order.
	SheetNames() []string
	// ReadGrid reads every row of a sheet.
	ReadGrid(sheet string) (Grid, error)
	// Close releases the underlying file.
	Close() error
}

// OpenWorkbook opens an .xlsx, .xlsm or .xls file. Legacy BIFF .xls files
// that are not OOXML packages fail here with the reader's error.
func OpenWorkbook(path string) (Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	return &xlsxWorkbook{f: f}, nil
}

type xlsxWorkbook struct {
	f *excelize.File
}

func (w *xlsxWorkbook) SheetNames() []string { return w.f.GetSheetList() }

func (w *xlsxWorkbook) ReadGrid(sheet string) (Grid, error) {
	return ExtractCells(w.f, sheet)
}

func (w *xlsxWorkbook) Close() error { return w.f.Close() }

// MemoryWorkbook is a Workbook backed by in-memory grids.
type MemoryWorkbook struct {
	Names  []string
	Grids  map[string]Grid
	Errors map[string]error
}

func (m *MemoryWorkbook) SheetNames() []string { return m.Names }

func (m *MemoryWorkbook) ReadGrid(sheet string) (Grid, error) {
	if err := m.Errors[sheet]; err != nil {
		return nil, err
	}
	return m.Grids[sheet], nil
}

func (m *MemoryWorkbook) Close() error { return nil }
