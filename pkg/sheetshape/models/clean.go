package models

// CleanSummary records what each cleaning step changed.
type CleanSummary struct {
	RowsBefore           int `json:"rows_before"`
	RowsAfter            int `json:"rows_after"`
	ColumnsBefore        int `json:"columns_before"`
	ColumnsAfter         int `json:"columns_after"`
	DroppedEmptyRows     int `json:"dropped_empty_rows"`
	DroppedEmptyColumns  int `json:"dropped_empty_columns"`
	StandardizedNulls    int `json:"standardized_nulls"`
	NormalizedFlags      int `json:"normalized_flags"`
	DroppedDuplicateRows int `json:"dropped_duplicate_rows"`
	// FlagColumns lists the flag columns found in the table.
	FlagColumns []string `json:"flag_columns,omitempty"`
	// UnexpectedFlagValues maps a flag column to tokens left unconverted.
	UnexpectedFlagValues map[string][]string `json:"unexpected_flag_values,omitempty"`
}
