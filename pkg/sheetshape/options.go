// Package sheetshape infers the tabular structure of spreadsheet files and
// extracts, validates and cleans their tables.
package sheetshape

import "time"

// DefaultFlagColumns are the boolean flag columns of the school census workbooks.
var DefaultFlagColumns = []string{"Multigrado", "Unitaria", "Bidocente"}

// Options configures engine behavior.
type Options struct {
	// MaxHeaderRows is the number of leading rows scored as header candidates.
	MaxHeaderRows int
	// SampleRows is the number of data rows the analyzer reads per sheet.
	SampleRows int
	// FlagColumns names the columns normalized to booleans by the cleaner.
	FlagColumns []string
	// MaxFileSize rejects larger files, in bytes. Zero disables the check.
	MaxFileSize int64
	// Timeout bounds each Analyze/Extract call. Zero disables the budget.
	Timeout time.Duration
	// Parallelism bounds concurrent per-sheet analysis. Values below 1 mean sequential.
	Parallelism int
}

// DefaultOptions returns default engine options.
func DefaultOptions() Options {
	return Options{
		MaxHeaderRows: 10,
		SampleRows:    10,
		FlagColumns:   DefaultFlagColumns,
		MaxFileSize:   100 << 20,
		Timeout:       30 * time.Second,
		Parallelism:   1,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxHeaderRows <= 0 {
		o.MaxHeaderRows = d.MaxHeaderRows
	}
	if o.SampleRows <= 0 {
		o.SampleRows = d.SampleRows
	}
	if o.FlagColumns == nil {
		o.FlagColumns = d.FlagColumns
	}
	if o.Parallelism < 1 {
		o.Parallelism = 1
	}
	return o
}
