package sheetshape

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ukaji3/sheetshape-go/internal/metrics"
	"github.com/ukaji3/sheetshape-go/pkg/sheetshape/models"
	"github.com/ukaji3/sheetshape-go/pkg/sheetshape/parser"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Analyze infers the structure of every sheet in the file at path. A sheet
// that cannot be read carries an error in its structure; only a missing,
// unsupported or unreadable file fails the whole call.
func (e *Engine) Analyze(ctx context.Context, path string) (fs *models.FileStructure, err error) {
	start := time.Now()
	defer func() { metrics.RecordStep("analyze", err, time.Since(start)) }()

	ctx, cancel := e.budget(ctx)
	defer cancel()

	wb, err := e.openWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	names := wb.SheetNames()
	structures := make([]models.SheetStructure, len(names))
	grids := make([]parser.Grid, len(names))
	readErrs := make([]error, len(names))

	// The workbook handle is not safe for concurrent reads.
	for i, name := range names {
		if err := ctxErr(ctx); err != nil {
			e.log.Warn("analysis timed out", zap.String("file", filepath.Base(path)), zap.String("sheet", name))
			return nil, err
		}
		grids[i], readErrs[i] = wb.ReadGrid(name)
	}

	var g errgroup.Group
	g.SetLimit(e.opts.Parallelism)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if readErrs[i] != nil {
				structures[i] = e.failedSheet(name, NewExtractionError(name, "read", readErrs[i]))
				return nil
			}
			if ctx.Err() != nil {
				return nil
			}
			structures[i] = e.analyzeGrid(name, grids[i])
			return nil
		})
	}
	_ = g.Wait()
	if err := ctxErr(ctx); err != nil {
		e.log.Warn("analysis timed out", zap.String("file", filepath.Base(path)))
		return nil, err
	}

	fs = &models.FileStructure{
		Filename:    filepath.Base(path),
		TotalSheets: len(names),
		SheetNames:  names,
		Sheets:      make(map[string]models.SheetStructure, len(names)),
	}
	for i, name := range names {
		fs.Sheets[name] = structures[i]
	}
	e.log.Debug("file analyzed", zap.String("file", fs.Filename), zap.Int("sheets", fs.TotalSheets))
	return fs, nil
}

// AnalyzeSheet infers the structure of one sheet. An empty sheet name selects
// the first sheet.
func (e *Engine) AnalyzeSheet(ctx context.Context, path, sheet string) (st *models.SheetStructure, err error) {
	start := time.Now()
	defer func() { metrics.RecordStep("analyze_sheet", err, time.Since(start)) }()

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
	grid, readErr := wb.ReadGrid(name)
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}

	var s models.SheetStructure
	if readErr != nil {
		s = e.failedSheet(name, NewExtractionError(name, "read", readErr))
	} else {
		s = e.analyzeGrid(name, grid)
	}
	return &s, nil
}

func (e *Engine) failedSheet(name string, err error) models.SheetStructure {
	e.log.Warn("sheet read failed", zap.String("sheet", name), zap.Error(err))
	return models.SheetStructure{Name: name, Columns: []string{}, Error: err.Error()}
}

// analyzeGrid detects the header, samples the rows below it and summarizes
// the columns. A panic while sampling is recorded on the sheet.
func (e *Engine) analyzeGrid(name string, grid parser.Grid) (s models.SheetStructure) {
	defer func() {
		if r := recover(); r != nil {
			s = e.failedSheet(name, NewExtractionError(name, "sample", fmt.Errorf("%v", r)))
		}
	}()

	row, confidence := DetectHeader(grid, e.opts.MaxHeaderRows)
	s = models.SheetStructure{
		Name:              name,
		HeaderRowIndex:    row,
		HeaderConfidence:  confidence,
		LowConfidence:     confidence < LowConfidence,
		Columns:           []string{},
		EstimatedRowCount: parser.CountNonEmptyRows(grid),
	}
	if b, ok := parser.DataBounds(grid); ok {
		s.DataRange = b.Ref()
		s.DataDensity = round(b.Density(grid), 2)
	}

	if len(grid) > 0 {
		sample, err := buildTable(grid, row, e.opts.SampleRows)
		if err != nil {
			return e.failedSheet(name, NewExtractionError(name, "sample", err))
		}
		s.Columns = sample.Columns
		s.ColumnDetails = describeColumns(sample)
		s.SampledRows = sample.NumRows()
	}
	s.IsValid = len(s.Columns) > 1 && s.SampledRows > 0

	if s.LowConfidence {
		e.log.Info("low confidence header",
			zap.String("sheet", name),
			zap.Int("header_row", row),
			zap.Float64("confidence", confidence))
	}
	return s
}
