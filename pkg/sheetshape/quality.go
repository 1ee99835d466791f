package sheetshape

import (
	"github.com/ukaji3/sheetshape-go/pkg/sheetshape/models"
)

// Quality score weights.
const (
	nullPenalty      = 0.4
	duplicatePenalty = 0.3
	emptyRowPenalty  = 0.3
)

// Validate computes null, duplicate and emptiness metrics of t and a quality
// score in [0,1]. A table with no rows scores 0.
func Validate(t *models.Table) models.QualityReport {
	rep := models.QualityReport{
		TotalRows:    t.NumRows(),
		TotalColumns: t.NumColumns(),
	}

	colNulls := make([]int, t.NumColumns())
	seen := newRowSet(t.NumRows())
	for _, row := range t.Rows {
		empty := true
		for c, v := range row {
			if v.IsNull() {
				colNulls[c]++
				rep.NullCells++
			} else {
				empty = false
			}
		}
		if empty {
			rep.EmptyRows++
		}
		if seen.add(row) {
			rep.DuplicateRows++
		}
	}
	for _, n := range colNulls {
		if n == rep.TotalRows {
			rep.EmptyColumns++
		}
		if n > 0 {
			rep.ColumnsWithNulls++
		}
	}

	rep.QualityScore = qualityScore(rep)
	return rep
}

func qualityScore(rep models.QualityReport) float64 {
	if rep.TotalRows == 0 {
		return 0
	}
	rows := float64(rep.TotalRows)
	var nullRatio float64
	if cells := rows * float64(rep.TotalColumns); cells > 0 {
		nullRatio = float64(rep.NullCells) / cells
	}
	score := 1 - (nullRatio*nullPenalty +
		float64(rep.DuplicateRows)/rows*duplicatePenalty +
		float64(rep.EmptyRows)/rows*emptyRowPenalty)
	switch {
	case score < 0:
		return 0
	case score > 1:
		return 1
	}
	return score
}
