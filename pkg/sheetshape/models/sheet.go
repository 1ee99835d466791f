package models

// SheetStructure represents the inferred layout of a single sheet.
type SheetStructure struct {
	// Name is the sheet name.
	Name string `json:"name"`
	// HeaderRowIndex is the 0-based row holding the column names.
	HeaderRowIndex int `json:"header_row_index"`
	// HeaderConfidence is the detector score in [0,1].
	HeaderConfidence float64 `json:"header_confidence"`
	// LowConfidence is set when HeaderConfidence is below 0.5.
	LowConfidence bool `json:"low_confidence"`
	// Columns lists the column names in sheet order.
	Columns []string `json:"columns"`
	// ColumnDetails carries inferred type and uniqueness per column.
	ColumnDetails []Column `json:"column_details,omitempty"`
	// IsValid is true when the sheet has more than one column and at least one data row.
	IsValid bool `json:"is_valid"`
	// SampledRows is the number of data rows read for the sample.
	SampledRows int `json:"sampled_rows"`
	// EstimatedRowCount counts the rows of the sheet that are not entirely empty.
	EstimatedRowCount int `json:"estimated_row_count"`
	// DataRange is the bounding range of non-empty cells (e.g. "A1:D10").
	DataRange string `json:"data_range,omitempty"`
	// DataDensity is the share of non-empty cells inside DataRange.
	DataDensity float64 `json:"data_density"`
	// Error describes a failure scoped to this sheet.
	Error string `json:"error,omitempty"`
}
