package models

// NumericStats holds descriptive statistics of a numeric column.
type NumericStats struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	Std      float64 `json:"std"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Range    float64 `json:"range"`
	Q1       float64 `json:"q1"`
	Q3       float64 `json:"q3"`
	IQR      float64 `json:"iqr"`
	Outliers int     `json:"outliers_count"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"`
}

// ValueCount is a value and how often it occurs.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// TextStats holds length and case statistics of a text column.
type TextStats struct {
	MostCommon      []ValueCount `json:"most_common"`
	LengthMin       int          `json:"length_min"`
	LengthMax       int          `json:"length_max"`
	LengthMean      float64      `json:"length_mean"`
	LengthMedian    float64      `json:"length_median"`
	ContainsNumbers int          `json:"contains_numbers"`
	AllUppercase    int          `json:"all_uppercase"`
	AllLowercase    int          `json:"all_lowercase"`
	MixedCase       int          `json:"mixed_case"`
}

// ColumnPatterns flags what a column probably holds.
type ColumnPatterns struct {
	PotentialID       bool         `json:"potential_id"`
	PotentialCategory bool         `json:"potential_category"`
	Categories        []ValueCount `json:"categories,omitempty"`
	PotentialDate     bool         `json:"potential_date"`
}

// ColumnStats is the profile of one column.
type ColumnStats struct {
	Name         string         `json:"name"`
	InferredType ColumnType     `json:"inferred_type"`
	NullCount    int            `json:"null_count"`
	NullPercent  float64        `json:"null_percent"`
	Distinct     int            `json:"distinct"`
	UniqueRatio  float64        `json:"unique_ratio"`
	Numeric      *NumericStats  `json:"numeric,omitempty"`
	Text         *TextStats     `json:"text,omitempty"`
	Patterns     ColumnPatterns `json:"patterns"`
	Error        string         `json:"error,omitempty"`
}

// TableProfile is the profile of a whole table.
type TableProfile struct {
	Rows             int            `json:"rows"`
	Columns          int            `json:"columns"`
	TypeDistribution map[string]int `json:"type_distribution"`
	TotalNulls       int            `json:"total_nulls"`
	CompleteRows     int            `json:"complete_rows"`
	CompletionRate   float64        `json:"completion_rate"`
	HighNullColumns  []string       `json:"high_null_columns,omitempty"`
	ColumnStats      []ColumnStats  `json:"column_stats"`
	Recommendations  []string       `json:"recommendations,omitempty"`
}
