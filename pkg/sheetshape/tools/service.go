// Package tools exposes the engine as a set of operations that never fail
// across their boundary: every error is flattened into a result carrying a
// status discriminator.
package tools

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ukaji3/sheetshape-go/pkg/sheetshape"
	"github.com/ukaji3/sheetshape-go/pkg/sheetshape/models"
	"github.com/ukaji3/sheetshape-go/pkg/sheetshape/parser"
	"go.uber.org/zap"
)

// Config configures a Service.
type Config struct {
	// Dir holds the spreadsheet files. Filenames are resolved inside it.
	Dir string
	// MaxRowsDefault caps extracted rows when a request does not. Zero means no cap.
	MaxRowsDefault int
	// CacheSize is the number of extractions kept. Zero disables the cache.
	CacheSize int
	// CacheTTL expires cached extractions. Zero keeps them until evicted.
	CacheTTL time.Duration
}

// Service runs engine operations on files of one directory.
type Service struct {
	cfg    Config
	engine *sheetshape.Engine
	log    *zap.Logger
	cache  *extractionCache
}

// NewService creates a service.
func NewService(cfg Config, engine *sheetshape.Engine, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		cfg:    cfg,
		engine: engine,
		log:    log,
		cache:  newExtractionCache(cfg.CacheSize, cfg.CacheTTL),
	}
}

// Dir returns the directory the service reads from.
func (s *Service) Dir() string { return s.cfg.Dir }

// ListFiles lists the spreadsheet files of the directory, newest first.
func (s *Service) ListFiles() (res ListResult) {
	defer s.recoverInto(&res.Envelope, "list_files")

	res.Directory = s.cfg.Dir
	entries, err := os.ReadDir(s.cfg.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		res.Envelope = s.failure("list_files", fmt.Errorf("%w: directory %s", sheetshape.ErrFileNotFound, s.cfg.Dir))
		return res
	}
	if err != nil {
		res.Envelope = s.failure("list_files", err)
		return res
	}

	limit := s.engine.Options().MaxFileSize
	res.Files = []models.FileInfo{}
	var total int64
	for _, entry := range entries {
		if entry.IsDir() || !parser.IsSupported(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			s.log.Warn("stat failed", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		total += info.Size()
		fi := models.FileInfo{
			Name:      entry.Name(),
			SizeMB:    megabytes(info.Size()),
			Modified:  info.ModTime(),
			Extension: strings.ToLower(filepath.Ext(entry.Name())),
			Valid:     true,
		}
		if limit > 0 && info.Size() > limit {
			fi.Valid = false
			fi.Errors = append(fi.Errors, fmt.Sprintf("file exceeds the %.0f MB limit", float64(limit)/(1<<20)))
		}
		res.Files = append(res.Files, fi)
	}
	sort.SliceStable(res.Files, func(i, j int) bool {
		return res.Files[i].Modified.After(res.Files[j].Modified)
	})

	res.Envelope = Envelope{Status: StatusSuccess}
	res.TotalFiles = len(res.Files)
	res.TotalSizeMB = megabytes(total)
	return res
}

// AnalyzeStructure infers the structure of every sheet of a file.
func (s *Service) AnalyzeStructure(ctx context.Context, filename string) (res StructureResult) {
	defer s.recoverInto(&res.Envelope, "analyze_structure")

	path, err := s.resolve(filename)
	if err != nil {
		res.Envelope = s.failure("analyze_structure", err)
		return res
	}
	structure, err := s.engine.Analyze(ctx, path)
	if err != nil {
		res.Envelope = s.failure("analyze_structure", err)
		return res
	}
	res.Envelope = Envelope{Status: StatusSuccess}
	res.FileStructure = structure
	return res
}

// Extract reads a table and reports its quality without cleaning it.
func (s *Service) Extract(ctx context.Context, req ExtractRequest) (res TableResult) {
	defer s.recoverInto(&res.Envelope, "extract")

	x, err := s.load(ctx, req)
	if err != nil {
		res.Envelope = s.failure("extract", err)
		return res
	}
	q := sheetshape.Validate(x.Table)
	res = tableResult(req.Filename, x, x.Table)
	res.Quality = &q
	return res
}

// Clean reads a table and returns its cleaned form. Quality is computed on
// the cleaned table.
func (s *Service) Clean(ctx context.Context, req ExtractRequest) (res TableResult) {
	defer s.recoverInto(&res.Envelope, "clean")

	x, cleaned, sum, err := s.loadCleaned(ctx, req)
	if err != nil {
		res.Envelope = s.failure("clean", err)
		return res
	}
	q := sheetshape.Validate(cleaned)
	res = tableResult(req.Filename, x, cleaned)
	res.Quality = &q
	res.Cleaning = &sum
	return res
}

// Profile computes column statistics of the cleaned table.
func (s *Service) Profile(ctx context.Context, req ExtractRequest) (res ProfileResult) {
	defer s.recoverInto(&res.Envelope, "profile")

	x, cleaned, _, err := s.loadCleaned(ctx, req)
	if err != nil {
		res.Envelope = s.failure("profile", err)
		return res
	}
	p := sheetshape.Profile(cleaned)
	res.Envelope = Envelope{Status: StatusSuccess}
	res.Filename = req.Filename
	res.Sheet = x.Sheet
	res.Profile = &p
	return res
}

// UniqueValues lists the distinct non-null values of a cleaned column.
func (s *Service) UniqueValues(ctx context.Context, req ExtractRequest, column string) (res UniqueResult) {
	defer s.recoverInto(&res.Envelope, "unique_values")

	res.Column = column
	_, cleaned, _, err := s.loadCleaned(ctx, req)
	if err != nil {
		res.Envelope = s.failure("unique_values", err)
		return res
	}
	idx, err := columnIndex(cleaned, column)
	if err != nil {
		res.Envelope = s.failure("unique_values", err)
		return res
	}

	values := cleaned.ColumnValues(idx)
	for _, v := range values {
		if v.IsNull() {
			res.NullCount++
		}
	}
	res.Values = sheetshape.Distinct(values)
	if res.Values == nil {
		res.Values = []models.Value{}
	}
	res.UniqueCount = len(res.Values)
	res.Envelope = Envelope{Status: StatusSuccess}
	return res
}

// FilterByValue returns the cleaned rows whose column renders as value.
func (s *Service) FilterByValue(ctx context.Context, req ExtractRequest, column, value string) (res TableResult) {
	defer s.recoverInto(&res.Envelope, "filter_by_value")

	x, cleaned, _, err := s.loadCleaned(ctx, req)
	if err != nil {
		res.Envelope = s.failure("filter_by_value", err)
		return res
	}
	idx, err := columnIndex(cleaned, column)
	if err != nil {
		res.Envelope = s.failure("filter_by_value", err)
		return res
	}

	filtered := models.NewTable(cleaned.Columns)
	for _, row := range cleaned.Rows {
		if !row[idx].IsNull() && row[idx].String() == value {
			filtered.Rows = append(filtered.Rows, row)
		}
	}
	q := sheetshape.Validate(filtered)
	res = tableResult(req.Filename, x, filtered)
	res.Quality = &q
	return res
}

// ExtractAll analyzes a file, then extracts, validates and cleans every
// valid sheet at its detected header row. Quality is computed on the raw
// extraction. Results are not cached.
func (s *Service) ExtractAll(ctx context.Context, filename string) (res ExtractAllResult) {
	defer s.recoverInto(&res.Envelope, "extract_all")

	path, err := s.resolve(filename)
	if err != nil {
		res.Envelope = s.failure("extract_all", err)
		return res
	}
	structure, err := s.engine.Analyze(ctx, path)
	if err != nil {
		res.Envelope = s.failure("extract_all", err)
		return res
	}

	extractions, sheetErrs, err := s.engine.ExtractAll(ctx, path, 0)
	if err != nil {
		res.Envelope = s.failure("extract_all", err)
		return res
	}

	res.Filename = filename
	res.Structure = structure
	res.Sheets = make(map[string]SheetData)
	for name, err := range sheetErrs {
		if structure.Sheets[name].IsValid {
			res.Sheets[name] = SheetData{HeaderRow: structure.Sheets[name].HeaderRowIndex, Error: err.Error()}
		}
	}
	for _, x := range extractions {
		if !structure.Sheets[x.Sheet].IsValid {
			continue
		}
		cleaned, sum := s.engine.Cleaner().Clean(x.Table)
		res.Sheets[x.Sheet] = SheetData{
			HeaderRow: x.HeaderRow,
			Columns:   cleaned.Columns,
			Data:      cleaned.Records(),
			Quality:   sheetshape.Validate(x.Table),
			Cleaning:  sum,
		}
	}
	res.Envelope = Envelope{Status: StatusSuccess}
	return res
}

// CachedExtractions returns the number of extractions held in the cache.
func (s *Service) CachedExtractions() int { return s.cache.len() }

func (s *Service) load(ctx context.Context, req ExtractRequest) (*sheetshape.Extraction, error) {
	path, err := s.resolve(req.Filename)
	if err != nil {
		return nil, err
	}
	return s.extraction(ctx, path, req)
}

func (s *Service) loadCleaned(ctx context.Context, req ExtractRequest) (*sheetshape.Extraction, *models.Table, models.CleanSummary, error) {
	x, err := s.load(ctx, req)
	if err != nil {
		return nil, nil, models.CleanSummary{}, err
	}
	cleaned, sum := s.engine.Cleaner().Clean(x.Table)
	return x, cleaned, sum, nil
}

// extraction serves req from the cache or the engine. Cached tables are
// shared and must not be modified.
func (s *Service) extraction(ctx context.Context, path string, req ExtractRequest) (*sheetshape.Extraction, error) {
	maxRows := req.MaxRows
	if maxRows == 0 {
		maxRows = s.cfg.MaxRowsDefault
	}
	if maxRows < 0 {
		maxRows = 0
	}
	headerRow := -1
	if req.HeaderRow != nil {
		if *req.HeaderRow < 0 {
			return nil, fmt.Errorf("%w: %d", sheetshape.ErrHeaderOutOfRange, *req.HeaderRow)
		}
		headerRow = *req.HeaderRow
	}

	key, cacheable := cacheKey(path, req.Sheet, headerRow, maxRows)
	if cacheable {
		if x, ok := s.cache.get(key); ok {
			s.log.Debug("extraction cache hit", zap.String("file", req.Filename), zap.String("sheet", req.Sheet))
			return x, nil
		}
	}

	var (
		x   *sheetshape.Extraction
		err error
	)
	if headerRow < 0 {
		x, err = s.engine.ExtractDetected(ctx, path, req.Sheet, maxRows)
	} else {
		x, err = s.engine.Extract(ctx, path, req.Sheet, headerRow, maxRows)
	}
	if err != nil {
		return nil, err
	}
	if cacheable {
		s.cache.add(key, x)
	}
	return x, nil
}

// resolve maps a bare filename into the service directory.
func (s *Service) resolve(filename string) (string, error) {
	if filename == "" || filename == "." || filename == ".." || strings.ContainsAny(filename, `/\`) {
		return "", fmt.Errorf("%w: %q", sheetshape.ErrFileNotFound, filename)
	}
	return filepath.Join(s.cfg.Dir, filename), nil
}

func (s *Service) failure(op string, err error) Envelope {
	kind := sheetshape.Kind(err)
	s.log.Warn("operation failed", zap.String("op", op), zap.String("kind", kind), zap.Error(err))
	return Envelope{Status: StatusError, Error: err.Error(), ErrorKind: kind}
}

func (s *Service) recoverInto(env *Envelope, op string) {
	if r := recover(); r != nil {
		*env = s.failure(op, fmt.Errorf("internal error: %v", r))
	}
}

func tableResult(filename string, x *sheetshape.Extraction, t *models.Table) TableResult {
	return TableResult{
		Envelope:         Envelope{Status: StatusSuccess},
		Filename:         filename,
		Sheet:            x.Sheet,
		HeaderRow:        x.HeaderRow,
		HeaderConfidence: x.HeaderConfidence,
		HeaderDetected:   x.HeaderDetected,
		Columns:          t.Columns,
		RowCount:         t.NumRows(),
		Data:             t.Records(),
	}
}

func columnIndex(t *models.Table, column string) (int, error) {
	if i := t.ColumnIndex(strings.TrimSpace(column)); i >= 0 {
		return i, nil
	}
	return -1, fmt.Errorf("%w: %q (available: %v)", sheetshape.ErrColumnNotFound, column, t.Columns)
}

func megabytes(n int64) float64 {
	return math.Round(float64(n)/(1<<20)*100) / 100
}
