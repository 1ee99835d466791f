package sheetshape

import (
	"context"
	"errors"
	"fmt"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrUnsupportedFormat indicates the input file extension is not a supported spreadsheet format.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ErrSheetNotFound indicates the requested sheet does not exist in the workbook.
var ErrSheetNotFound = errors.New("sheet not found")

// ErrColumnNotFound indicates the requested column does not exist in the table.
var ErrColumnNotFound = errors.New("column not found")

// ErrFileTooLarge indicates the file exceeds the configured size limit.
var ErrFileTooLarge = errors.New("file too large")

// ErrHeaderOutOfRange indicates a header row index beyond the sheet's rows.
var ErrHeaderOutOfRange = errors.New("header row out of range")

// ErrTimeout indicates the per-call time budget ran out.
var ErrTimeout = errors.New("processing time budget exceeded")

// ExtractionError represents a failure scoped to one sheet or column.
type ExtractionError struct {
	SheetName string
	Component string // "open", "read", "sample", "profile"
	Err       error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error in sheet %q (%s): %v", e.SheetName, e.Component, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError creates a new ExtractionError.
func NewExtractionError(sheetName, component string, err error) *ExtractionError {
	return &ExtractionError{
		SheetName: sheetName,
		Component: component,
		Err:       err,
	}
}

// Error kinds reported across the tool boundary.
const (
	KindNotFound          = "not_found"
	KindUnsupportedFormat = "unsupported_format"
	KindInvalidRequest    = "invalid_request"
	KindTimeout           = "timeout"
	KindReadFailure       = "read_failure"
)

// Kind classifies err into the error taxonomy.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrFileNotFound), errors.Is(err, ErrSheetNotFound), errors.Is(err, ErrColumnNotFound):
		return KindNotFound
	case errors.Is(err, ErrUnsupportedFormat), errors.Is(err, ErrFileTooLarge):
		return KindUnsupportedFormat
	case errors.Is(err, ErrHeaderOutOfRange):
		return KindInvalidRequest
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return KindTimeout
	}
	return KindReadFailure
}

// ctxErr maps a finished context onto ErrTimeout.
func ctxErr(ctx context.Context) error {
	err := ctx.Err()
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrTimeout, err)
}
