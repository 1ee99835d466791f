package tools

import (
	"github.com/ukaji3/sheetshape-go/pkg/sheetshape/models"
)

// Result statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope is the status discriminator carried by every result.
type Envelope struct {
	Status string `json:"status"`
	// Error is a flattened, human-readable message. Empty on success.
	Error string `json:"error,omitempty"`
	// ErrorKind classifies Error (not_found, unsupported_format, ...).
	ErrorKind string `json:"error_kind,omitempty"`
}

// OK reports whether the operation succeeded.
func (e Envelope) OK() bool { return e.Status == StatusSuccess }

// ExtractRequest selects a table from a workbook.
type ExtractRequest struct {
	Filename string `json:"filename"`
	// Sheet defaults to the first sheet.
	Sheet string `json:"sheet,omitempty"`
	// HeaderRow is detected when nil.
	HeaderRow *int `json:"header_row,omitempty"`
	// MaxRows caps the data rows. Zero uses the service default; negative reads all rows.
	MaxRows int `json:"max_rows,omitempty"`
}

// ListResult is returned by ListFiles.
type ListResult struct {
	Envelope
	Directory   string            `json:"directory"`
	TotalFiles  int               `json:"total_files"`
	TotalSizeMB float64           `json:"total_size_mb"`
	Files       []models.FileInfo `json:"files"`
}

// StructureResult is returned by AnalyzeStructure.
type StructureResult struct {
	Envelope
	*models.FileStructure
}

// TableResult is returned by Extract and Clean.
type TableResult struct {
	Envelope
	Filename         string          `json:"filename,omitempty"`
	Sheet            string          `json:"sheet,omitempty"`
	HeaderRow        int             `json:"header_row"`
	HeaderConfidence float64         `json:"header_confidence"`
	HeaderDetected   bool            `json:"header_detected"`
	Columns          []string        `json:"columns"`
	RowCount         int             `json:"row_count"`
	Data             []models.Record `json:"data"`
	// Quality is computed on the table returned in Data.
	Quality  *models.QualityReport `json:"quality,omitempty"`
	Cleaning *models.CleanSummary  `json:"cleaning,omitempty"`
}

// ProfileResult is returned by Profile.
type ProfileResult struct {
	Envelope
	Filename string               `json:"filename,omitempty"`
	Sheet    string               `json:"sheet,omitempty"`
	Profile  *models.TableProfile `json:"profile,omitempty"`
}

// UniqueResult is returned by UniqueValues.
type UniqueResult struct {
	Envelope
	Column      string         `json:"column"`
	UniqueCount int            `json:"unique_count"`
	NullCount   int            `json:"null_count"`
	Values      []models.Value `json:"values"`
}

// SheetData is one sheet of an ExtractAll result.
type SheetData struct {
	HeaderRow int                  `json:"header_row"`
	Columns   []string             `json:"columns"`
	Data      []models.Record      `json:"data"`
	Quality   models.QualityReport `json:"quality"`
	Cleaning  models.CleanSummary  `json:"cleaning"`
	Error     string               `json:"error,omitempty"`
}

// ExtractAllResult is returned by ExtractAll.
type ExtractAllResult struct {
	Envelope
	Filename  string                `json:"filename,omitempty"`
	Structure *models.FileStructure `json:"structure,omitempty"`
	Sheets    map[string]SheetData  `json:"sheets,omitempty"`
}
