package sheetshape

import (
	"fmt"
	"strings"

	"github.com/ukaji3/sheetshape-go/pkg/sheetshape/models"
	"github.com/ukaji3/sheetshape-go/pkg/sheetshape/parser"
)

// placeholderPrefix starts the generated name of a blank header cell.
const placeholderPrefix = "Unnamed: "

// buildTable reads the grid with headerRow as the header and at most maxRows
// data rows below it (maxRows <= 0 reads all). Rows above headerRow are never
// included. The width is the last non-empty column across the header and the
// selected rows; blank header cells become "Unnamed: <i>" and repeated names
// get ".1", ".2" suffixes.
func buildTable(grid parser.Grid, headerRow, maxRows int) (*models.Table, error) {
	if headerRow < 0 || headerRow >= len(grid) {
		return nil, fmt.Errorf("%w: row %d, sheet has %d rows", ErrHeaderOutOfRange, headerRow, len(grid))
	}

	end := len(grid)
	if maxRows > 0 && headerRow+1+maxRows < end {
		end = headerRow + 1 + maxRows
	}
	header := grid[headerRow]
	body := grid[headerRow+1 : end]

	width := parser.RowWidth(header)
	for _, r := range body {
		if w := parser.RowWidth(r); w > width {
			width = w
		}
	}

	columns := make([]string, width)
	for i := range columns {
		var v models.Value
		if i < len(header) {
			v = header[i]
		}
		columns[i] = headerName(v, i)
	}
	columns = uniqueNames(columns)

	t := models.NewTable(columns)
	for _, r := range body {
		row := make(models.Row, width)
		copy(row, r)
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// uniqueNames returns names with repeats suffixed ".1", ".2", ... in order of
// appearance. A suffix never collides with another name.
func uniqueNames(names []string) []string {
	out := make([]string, len(names))
	seen := make(map[string]int, len(names))
	for _, name := range names {
		seen[name] = 0
	}
	used := make(map[string]bool, len(names))
	for i, name := range names {
		if used[name] {
			base := name
			n := seen[base]
			for {
				n++
				name = fmt.Sprintf("%s.%d", base, n)
				if _, taken := seen[name]; !taken && !used[name] {
					break
				}
			}
			seen[base] = n
		}
		used[name] = true
		out[i] = name
	}
	return out
}

// headerName stringifies a header cell; blank cells get a placeholder.
func headerName(v models.Value, i int) string {
	if v.IsNull() {
		return fmt.Sprintf("%s%d", placeholderPrefix, i)
	}
	return v.String()
}

// isPlaceholder reports whether a column name was generated for a blank header cell.
func isPlaceholder(name string) bool {
	return strings.HasPrefix(name, strings.TrimSpace(placeholderPrefix))
}

// inferType returns the common type of the non-null values. Mixed types
// generalize to text; all-null columns are unknown.
func inferType(values []models.Value) models.ColumnType {
	typ := models.TypeUnknown
	for _, v := range values {
		var t models.ColumnType
		switch v.Kind() {
		case models.KindNull:
			continue
		case models.KindNumber:
			t = models.TypeNumeric
		case models.KindBool:
			t = models.TypeBoolean
		case models.KindDateTime:
			t = models.TypeDateTime
		default:
			t = models.TypeText
		}
		if typ == models.TypeUnknown {
			typ = t
		} else if typ != t {
			return models.TypeText
		}
	}
	return typ
}

// describeColumns summarizes each column of a sampled table.
func describeColumns(t *models.Table) []models.Column {
	out := make([]models.Column, len(t.Columns))
	for i, name := range t.Columns {
		values := t.ColumnValues(i)
		distinct := newValueSet()
		var samples []models.Value
		for _, v := range values {
			if v.IsNull() {
				continue
			}
			distinct.add(v)
			if len(samples) < 3 {
				samples = append(samples, v)
			}
		}
		col := models.Column{
			Name:         name,
			InferredType: inferType(values),
			UniqueValues: distinct.len(),
			HasData:      distinct.len() > 0,
			SampleValues: samples,
		}
		if len(values) > 0 {
			col.UniqueRatio = float64(distinct.len()) / float64(len(values))
		}
		out[i] = col
	}
	return out
}
