package models

// FileStructure represents workbook-level container with per-sheet structures.
type FileStructure struct {
	// Filename is the workbook file name (no path).
	Filename string `json:"filename"`
	// TotalSheets is the number of sheets in the workbook.
	TotalSheets int `json:"total_sheets"`
	// SheetNames lists sheets in workbook order.
	SheetNames []string `json:"sheet_names"`
	// Sheets maps sheet name to SheetStructure.
	Sheets map[string]SheetStructure `json:"sheets"`
}
