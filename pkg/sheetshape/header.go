package sheetshape

import (
	"github.com/ukaji3/sheetshape-go/pkg/sheetshape/models"
	"github.com/ukaji3/sheetshape-go/pkg/sheetshape/parser"
)

// headerSampleRows is the number of data rows read below each header candidate.
const headerSampleRows = 3

// Header score weights.
const (
	weightNamed     = 0.4
	weightDiversity = 0.3
	weightDensity   = 0.3
)

// LowConfidence is the confidence below which a detected header should not be trusted.
const LowConfidence = 0.5

// DetectHeader scores each of the first maxRows rows as a header and returns
// the best one. Ties keep the earliest row. When no candidate has at least two
// columns it returns (0, 0).
func DetectHeader(grid parser.Grid, maxRows int) (row int, confidence float64) {
	limit := maxRows
	if limit > len(grid) {
		limit = len(grid)
	}
	for r := 0; r < limit; r++ {
		score, ok := scoreHeaderCandidate(grid, r)
		if !ok {
			continue
		}
		if score > confidence {
			row, confidence = r, score
		}
	}
	return row, confidence
}

// scoreHeaderCandidate returns the header confidence of row r. ok is false
// when the candidate is rejected.
func scoreHeaderCandidate(grid parser.Grid, r int) (score float64, ok bool) {
	t, err := buildTable(grid, r, headerSampleRows)
	if err != nil || t.NumColumns() < 2 {
		return 0, false
	}

	named := 0
	for _, c := range t.Columns {
		if !isPlaceholder(c) {
			named++
		}
	}
	cols := float64(t.NumColumns())
	score = weightNamed * float64(named) / cols

	if t.NumRows() > 0 {
		types := make(map[models.ColumnType]struct{})
		filled := 0
		for i := range t.Columns {
			values := t.ColumnValues(i)
			types[inferType(values)] = struct{}{}
			for _, v := range values {
				if !v.IsNull() {
					filled++
				}
			}
		}
		score += weightDiversity * float64(len(types)) / cols
		score += weightDensity * float64(filled) / (cols * float64(t.NumRows()))
	}
	return score, true
}
