package sheetshape

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ukaji3/sheetshape-go/pkg/sheetshape/parser"
	"go.uber.org/zap"
)

// Opener opens a spreadsheet file for reading.
type Opener func(path string) (parser.Workbook, error)

// Engine runs structure inference, extraction and cleaning. It holds no
// per-call state and is safe for concurrent use.
type Engine struct {
	opts    Options
	log     *zap.Logger
	open    Opener
	cleaner *Cleaner
}

// Option customizes an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithOpener replaces the spreadsheet reader.
func WithOpener(fn Opener) Option {
	return func(e *Engine) {
		if fn != nil {
			e.open = fn
		}
	}
}

// New creates an engine.
func New(opts Options, options ...Option) *Engine {
	e := &Engine{
		opts: opts.withDefaults(),
		log:  zap.NewNop(),
		open: parser.OpenWorkbook,
	}
	for _, o := range options {
		o(e)
	}
	e.cleaner = NewCleaner(e.opts.FlagColumns, e.log)
	return e
}

// Options returns the effective options.
func (e *Engine) Options() Options { return e.opts }

// Cleaner returns the cleaner configured with the engine's flag columns.
func (e *Engine) Cleaner() *Cleaner { return e.cleaner }

// budget applies the per-call time budget to ctx.
func (e *Engine) budget(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.opts.Timeout > 0 {
		return context.WithTimeout(ctx, e.opts.Timeout)
	}
	return context.WithCancel(ctx)
}

// openWorkbook validates path and opens it. Only missing files, unsupported
// extensions and files that cannot be read as a spreadsheet at all fail here.
func (e *Engine) openWorkbook(path string) (parser.Workbook, error) {
	name := filepath.Base(path)
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, name)
	}
	if err != nil {
		return nil, NewExtractionError("", "open", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrFileNotFound, name)
	}
	if !parser.IsSupported(path) {
		return nil, fmt.Errorf("%w: %s (supported: %v)", ErrUnsupportedFormat, name, parser.SupportedExtensions)
	}
	if e.opts.MaxFileSize > 0 && info.Size() > e.opts.MaxFileSize {
		return nil, fmt.Errorf("%w: %s is %.2f MB, limit %.2f MB", ErrFileTooLarge, name,
			float64(info.Size())/(1<<20), float64(e.opts.MaxFileSize)/(1<<20))
	}

	wb, err := e.open(path)
	if err != nil {
		return nil, NewExtractionError("", "open", err)
	}
	return wb, nil
}

// resolveSheet returns sheet, or the first sheet when sheet is empty.
func resolveSheet(wb parser.Workbook, sheet string) (string, error) {
	names := wb.SheetNames()
	if sheet == "" {
		if len(names) == 0 {
			return "", fmt.Errorf("%w: workbook has no sheets", ErrSheetNotFound)
		}
		return names[0], nil
	}
	for _, n := range names {
		if n == sheet {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: %q (available: %v)", ErrSheetNotFound, sheet, names)
}
