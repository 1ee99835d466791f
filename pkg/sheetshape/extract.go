package sheetshape

import (
	"context"
	"time"

	"github.com/ukaji3/sheetshape-go/internal/metrics"
	"github.com/ukaji3/sheetshape-go/pkg/sheetshape/models"
	"github.com/ukaji3/sheetshape-go/pkg/sheetshape/parser"
	"go.uber.org/zap"
)

// Extraction is a table read from one sheet.
type Extraction struct {
	// Sheet is the sheet the table was read from.
	Sheet string
	// HeaderRow is the 0-based header row used.
	HeaderRow int
	// HeaderConfidence is the detector score, or 1 when the caller supplied the header row.
	HeaderConfidence float64
	// HeaderDetected is set when HeaderRow came from DetectHeader.
	HeaderDetected bool
	Table          *models.Table
}

// Extract reads the whole sheet using headerRow verbatim as the header. An
// empty sheet name selects the first sheet. maxRows caps the data rows read;
// zero or less reads all of them.
func (e *Engine) Extract(ctx context.Context, path, sheet string, headerRow, maxRows int) (*Extraction, error) {
	return e.extract(ctx, path, sheet, headerRow, maxRows)
}

// ExtractDetected detects the header row of the sheet and then extracts it.
func (e *Engine) ExtractDetected(ctx context.Context, path, sheet string, maxRows int) (*Extraction, error) {
	return e.extract(ctx, path, sheet, -1, maxRows)
}

// ExtractAll extracts every sheet of the file with a detected header. A sheet
// that fails carries its error in errs; the other sheets are still returned.
func (e *Engine) ExtractAll(ctx context.Context, path string, maxRows int) (out []*Extraction, errs map[string]error, err error) {
	start := time.Now()
	defer func() { metrics.RecordStep("extract_all", err, time.Since(start)) }()

	ctx, cancel := e.budget(ctx)
	defer cancel()

	wb, err := e.openWorkbook(path)
	if err != nil {
		return nil, nil, err
	}
	defer wb.Close()

	errs = make(map[string]error)
	for _, name := range wb.SheetNames() {
		if err := ctxErr(ctx); err != nil {
			return nil, nil, err
		}
		x, err := e.extractSheet(wb, name, -1, maxRows)
		if err != nil {
			e.log.Warn("sheet extraction failed", zap.String("sheet", name), zap.Error(err))
			errs[name] = err
			continue
		}
		out = append(out, x)
	}
	return out, errs, nil
}

func (e *Engine) extract(ctx context.Context, path, sheet string, headerRow, maxRows int) (x *Extraction, err error) {
	start := time.Now()
	defer func() { metrics.RecordStep("extract", err, time.Since(start)) }()

	ctx, cancel := e.budget(ctx)
	defer cancel()

	wb, err := e.openWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	name, err := resolveSheet(wb, sheet)
	if err != nil {
		return nil, err
	}
	x, err = e.extractSheet(wb, name, headerRow, maxRows)
	if err != nil {
		return nil, err
	}
	if err := ctxErr(ctx); err != nil {
		e.log.Warn("extraction timed out", zap.String("sheet", name))
		return nil, err
	}
	return x, nil
}

// extractSheet reads one sheet. A negative headerRow is detected.
func (e *Engine) extractSheet(wb parser.Workbook, name string, headerRow, maxRows int) (*Extraction, error) {
	grid, err := wb.ReadGrid(name)
	if err != nil {
		return nil, NewExtractionError(name, "read", err)
	}

	x := &Extraction{Sheet: name, HeaderRow: headerRow, HeaderConfidence: 1}
	if headerRow < 0 {
		x.HeaderRow, x.HeaderConfidence = DetectHeader(grid, e.opts.MaxHeaderRows)
		x.HeaderDetected = true
	}

	if len(grid) == 0 && x.HeaderRow == 0 {
		x.Table = models.NewTable([]string{})
		return x, nil
	}
	t, err := buildTable(grid, x.HeaderRow, maxRows)
	if err != nil {
		return nil, err
	}
	x.Table = t

	metrics.RecordRows("extract", "extracted", t.NumRows())
	e.log.Debug("sheet extracted",
		zap.String("sheet", name),
		zap.Int("header_row", x.HeaderRow),
		zap.Int("rows", t.NumRows()),
		zap.Int("columns", t.NumColumns()))
	return x, nil
}
