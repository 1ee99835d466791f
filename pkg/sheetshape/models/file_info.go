package models

import "time"

// FileInfo describes one spreadsheet file in the working directory.
type FileInfo struct {
	Name      string    `json:"name"`
	SizeMB    float64   `json:"size_mb"`
	Modified  time.Time `json:"modified"`
	Extension string    `json:"extension"`
	// Valid is false when the file exceeds the size limit.
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}
