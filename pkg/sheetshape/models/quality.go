package models

// QualityReport summarizes null, duplicate and emptiness metrics of a table.
type QualityReport struct {
	TotalRows        int     `json:"total_rows"`
	TotalColumns     int     `json:"total_columns"`
	EmptyRows        int     `json:"empty_rows"`
	EmptyColumns     int     `json:"empty_columns"`
	DuplicateRows    int     `json:"duplicate_rows"`
	ColumnsWithNulls int     `json:"columns_with_nulls"`
	NullCells        int     `json:"null_cells"`
	QualityScore     float64 `json:"quality_score"`
}
