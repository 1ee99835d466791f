package sheetshape

import (
	"sort"
	"strings"
	"time"

	"github.com/ukaji3/sheetshape-go/internal/metrics"
	"github.com/ukaji3/sheetshape-go/pkg/sheetshape/models"
	"go.uber.org/zap"
)

// Cleaner applies the fixed cleaning pipeline:
//
//  1. drop rows, then columns, whose cells are all missing
//  2. replace missing-value markers with null
//  3. convert flag columns to booleans
//  4. trim column names; names made equal by trimming get ".1", ".2" suffixes
//  5. drop exact duplicate rows, keeping the first
//
// Cleaning a cleaned table returns it unchanged.
type Cleaner struct {
	flags map[string]struct{}
	log   *zap.Logger
}

// NewCleaner returns a cleaner that treats the named columns as flag columns.
// Names are matched after trimming surrounding whitespace.
func NewCleaner(flagColumns []string, log *zap.Logger) *Cleaner {
	if log == nil {
		log = zap.NewNop()
	}
	flags := make(map[string]struct{}, len(flagColumns))
	for _, name := range flagColumns {
		flags[columnKey(name)] = struct{}{}
	}
	return &Cleaner{flags: flags, log: log}
}

// IsFlagColumn reports whether name designates a flag column.
func (c *Cleaner) IsFlagColumn(name string) bool {
	_, ok := c.flags[columnKey(name)]
	return ok
}

// Clean returns the cleaned copy of t and a summary of the changes. t is not
// modified.
func (c *Cleaner) Clean(t *models.Table) (*models.Table, models.CleanSummary) {
	start := time.Now()
	sum := models.CleanSummary{
		RowsBefore:    t.NumRows(),
		ColumnsBefore: t.NumColumns(),
	}

	out := dropEmpty(t, &sum)
	sum.StandardizedNulls = standardizeNulls(out)
	c.normalizeFlags(out, &sum)
	trimmed := make([]string, len(out.Columns))
	for i, name := range out.Columns {
		trimmed[i] = strings.TrimSpace(name)
	}
	out.Columns = uniqueNames(trimmed)
	out.Rows, sum.DroppedDuplicateRows = dropDuplicates(out.Rows)

	sum.RowsAfter = out.NumRows()
	sum.ColumnsAfter = out.NumColumns()

	metrics.RecordRows("clean", "dropped_empty", sum.DroppedEmptyRows)
	metrics.RecordRows("clean", "dropped_duplicate", sum.DroppedDuplicateRows)
	metrics.RecordStep("clean", nil, time.Since(start))
	c.log.Debug("table cleaned",
		zap.Int("rows_before", sum.RowsBefore),
		zap.Int("rows_after", sum.RowsAfter),
		zap.Int("columns_before", sum.ColumnsBefore),
		zap.Int("columns_after", sum.ColumnsAfter))
	return out, sum
}

// dropEmpty copies the rows and columns of t holding at least one value.
// Missing-value markers count as empty.
func dropEmpty(t *models.Table, sum *models.CleanSummary) *models.Table {
	var rows []models.Row
	keepCol := make([]bool, t.NumColumns())
	for _, row := range t.Rows {
		empty := true
		for _, v := range row {
			if !Normalize(v).IsNull() {
				empty = false
				break
			}
		}
		if empty {
			sum.DroppedEmptyRows++
			continue
		}
		rows = append(rows, row)
		for i, v := range row {
			if !Normalize(v).IsNull() {
				keepCol[i] = true
			}
		}
	}

	var idx []int
	cols := []string{}
	for i, keep := range keepCol {
		if keep {
			idx = append(idx, i)
			cols = append(cols, t.Columns[i])
		}
	}
	sum.DroppedEmptyColumns = t.NumColumns() - len(cols)

	out := models.NewTable(cols)
	for _, row := range rows {
		r := make(models.Row, len(idx))
		for j, i := range idx {
			r[j] = row[i]
		}
		out.Rows = append(out.Rows, r)
	}
	return out
}

// standardizeNulls replaces missing-value markers in place and returns how
// many cells changed.
func standardizeNulls(t *models.Table) int {
	n := 0
	for _, row := range t.Rows {
		for i, v := range row {
			if !v.IsNull() && Normalize(v).IsNull() {
				row[i] = models.Null()
				n++
			}
		}
	}
	return n
}

func (c *Cleaner) normalizeFlags(t *models.Table, sum *models.CleanSummary) {
	for col, name := range t.Columns {
		if !c.IsFlagColumn(name) {
			continue
		}
		sum.FlagColumns = append(sum.FlagColumns, strings.TrimSpace(name))

		unexpected := make(map[string]struct{})
		for _, row := range t.Rows {
			v, ok := NormalizeFlag(row[col])
			if !ok {
				unexpected[row[col].String()] = struct{}{}
				continue
			}
			if !v.Equal(row[col]) {
				row[col] = v
				sum.NormalizedFlags++
			}
		}
		if len(unexpected) == 0 {
			continue
		}

		tokens := make([]string, 0, len(unexpected))
		for tok := range unexpected {
			tokens = append(tokens, tok)
		}
		sort.Strings(tokens)
		if sum.UnexpectedFlagValues == nil {
			sum.UnexpectedFlagValues = make(map[string][]string)
		}
		sum.UnexpectedFlagValues[strings.TrimSpace(name)] = tokens
		c.log.Warn("unexpected flag values left unconverted",
			zap.String("column", name),
			zap.Strings("values", tokens))
	}
}

// dropDuplicates keeps the first occurrence of each distinct row.
func dropDuplicates(rows []models.Row) ([]models.Row, int) {
	seen := newRowSet(len(rows))
	out := make([]models.Row, 0, len(rows))
	for _, row := range rows {
		if seen.add(row) {
			continue
		}
		out = append(out, row)
	}
	return out, len(rows) - len(out)
}
