package parser

import (
	"fmt"

	"github.com/ukaji3/sheetshape-go/pkg/sheetshape/models"
	"github.com/xuri/excelize/v2"
)

// Bounds is the bounding box of non-empty cells, 0-based and inclusive.
type Bounds struct {
	MinRow, MaxRow int
	MinCol, MaxCol int
}

// Ref renders b in Excel range notation (e.g. "A1:D10").
func (b Bounds) Ref() string {
	startCell, _ := excelize.CoordinatesToCellName(b.MinCol+1, b.MinRow+1)
	endCell, _ := excelize.CoordinatesToCellName(b.MaxCol+1, b.MaxRow+1)
	return fmt.Sprintf("%s:%s", startCell, endCell)
}

// Density returns the share of non-empty cells inside b.
func (b Bounds) Density(grid Grid) float64 {
	total := (b.MaxRow - b.MinRow + 1) * (b.MaxCol - b.MinCol + 1)
	if total <= 0 {
		return 0
	}
	return float64(countNonEmptyCells(grid, b)) / float64(total)
}

// DataBounds finds the bounding box of non-empty cells.
// ok is false when the grid holds no values.
func DataBounds(grid Grid) (b Bounds, ok bool) {
	b = Bounds{MinRow: -1, MaxRow: -1, MinCol: -1, MaxCol: -1}

	for rowIdx, row := range grid {
		for colIdx, cell := range row {
			if cell.IsNull() {
				continue
			}
			if b.MinRow < 0 || rowIdx < b.MinRow {
				b.MinRow = rowIdx
			}
			if b.MaxRow < 0 || rowIdx > b.MaxRow {
				b.MaxRow = rowIdx
			}
			if b.MinCol < 0 || colIdx < b.MinCol {
				b.MinCol = colIdx
			}
			if b.MaxCol < 0 || colIdx > b.MaxCol {
				b.MaxCol = colIdx
			}
		}
	}

	return b, b.MinRow >= 0
}

// CountNonEmptyRows counts rows holding at least one value.
func CountNonEmptyRows(grid Grid) int {
	n := 0
	for _, row := range grid {
		if !RowIsEmpty(row) {
			n++
		}
	}
	return n
}

// RowWidth returns the index after the last non-empty cell of row.
func RowWidth(row []models.Value) int {
	for i := len(row) - 1; i >= 0; i-- {
		if !row[i].IsNull() {
			return i + 1
		}
	}
	return 0
}

// countNonEmptyCells counts non-empty cells within bounds.
func countNonEmptyCells(grid Grid, b Bounds) int {
	count := 0
	for rowIdx := b.MinRow; rowIdx <= b.MaxRow && rowIdx < len(grid); rowIdx++ {
		row := grid[rowIdx]
		for colIdx := b.MinCol; colIdx <= b.MaxCol && colIdx < len(row); colIdx++ {
			if !row[colIdx].IsNull() {
				count++
			}
		}
	}
	return count
}
