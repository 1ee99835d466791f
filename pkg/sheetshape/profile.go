package sheetshape

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/ukaji3/sheetshape-go/internal/metrics"
	"github.com/ukaji3/sheetshape-go/pkg/sheetshape/models"
	"gonum.org/v1/gonum/stat"
)

var (
	dateTextRe = regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|\d{4}-\d{2}-\d{2}`)
	digitRe    = regexp.MustCompile(`\d`)
)

// idColumnNames are the lower-cased names that mark a unique column as an identifier.
var idColumnNames = map[string]struct{}{"id": {}, "codigo": {}, "key": {}, "identificador": {}}

const (
	topValues         = 5
	maxCategories     = 20
	highNullPercent   = 50
	recommendNullsPct = 10
)

// Profile computes descriptive and pattern statistics of t. A failure while
// profiling one column is recorded on that column only.
func Profile(t *models.Table) models.TableProfile {
	start := time.Now()
	p := models.TableProfile{
		Rows:             t.NumRows(),
		Columns:          t.NumColumns(),
		TypeDistribution: make(map[string]int),
		ColumnStats:      make([]models.ColumnStats, 0, t.NumColumns()),
	}

	for _, row := range t.Rows {
		complete := true
		for _, v := range row {
			if v.IsNull() {
				p.TotalNulls++
				complete = false
			}
		}
		if complete {
			p.CompleteRows++
		}
	}
	if p.Rows > 0 {
		p.CompletionRate = round(float64(p.CompleteRows)/float64(p.Rows)*100, 2)
	}

	var dates, categories []string
	for i, name := range t.Columns {
		cs := profileColumn(name, t.ColumnValues(i))
		p.TypeDistribution[string(cs.InferredType)]++
		if cs.NullPercent > highNullPercent {
			p.HighNullColumns = append(p.HighNullColumns, name)
		}
		if cs.Patterns.PotentialDate {
			dates = append(dates, name)
		}
		if cs.Patterns.PotentialCategory {
			categories = append(categories, name)
		}
		p.ColumnStats = append(p.ColumnStats, cs)
	}

	if cells := p.Rows * p.Columns; cells > 0 {
		if pct := float64(p.TotalNulls) / float64(cells) * 100; pct > recommendNullsPct {
			p.Recommendations = append(p.Recommendations,
				fmt.Sprintf("High share of null values (%.1f%%); consider cleaning the data.", pct))
		}
	}
	if len(dates) > 0 {
		p.Recommendations = append(p.Recommendations, "Convert to dates: "+strings.Join(dates, ", "))
	}
	if len(categories) > 0 {
		p.Recommendations = append(p.Recommendations, "Convert to categories: "+strings.Join(categories, ", "))
	}

	metrics.RecordStep("profile", nil, time.Since(start))
	return p
}

func profileColumn(name string, values []models.Value) (cs models.ColumnStats) {
	cs = models.ColumnStats{Name: name, InferredType: inferType(values)}
	defer func() {
		if r := recover(); r != nil {
			cs.Error = NewExtractionError("", "profile", fmt.Errorf("column %q: %v", name, r)).Error()
		}
	}()

	present := make([]models.Value, 0, len(values))
	for _, v := range values {
		if v.IsNull() {
			cs.NullCount++
			continue
		}
		present = append(present, v)
	}
	if len(values) > 0 {
		cs.NullPercent = round(float64(cs.NullCount)/float64(len(values))*100, 2)
	}

	distinct := newValueSet()
	for _, v := range present {
		distinct.add(v)
	}
	cs.Distinct = distinct.len()
	if len(values) > 0 {
		cs.UniqueRatio = round(float64(cs.Distinct)/float64(len(values)), 3)
	}
	if len(present) == 0 {
		return cs
	}

	switch cs.InferredType {
	case models.TypeNumeric:
		cs.Numeric = numericStats(present)
	case models.TypeText:
		cs.Text = textStats(present)
	}

	if cs.Distinct == len(present) {
		if _, ok := idColumnNames[strings.ToLower(name)]; ok {
			cs.Patterns.PotentialID = true
		}
	}
	if float64(cs.Distinct) < float64(len(present))*0.1 && cs.Distinct < maxCategories {
		cs.Patterns.PotentialCategory = true
		cs.Patterns.Categories = valueCounts(present, topValues)
	}
	if cs.InferredType == models.TypeText {
		dateLike := 0
		for _, v := range present {
			if dateTextRe.MatchString(v.String()) {
				dateLike++
			}
		}
		cs.Patterns.PotentialDate = float64(dateLike) > float64(len(present))*0.5
	}
	return cs
}

func numericStats(present []models.Value) *models.NumericStats {
	xs := make([]float64, len(present))
	for i, v := range present {
		xs[i], _ = v.Float()
	}
	sort.Float64s(xs)

	q1, q3 := quantile(xs, 0.25), quantile(xs, 0.75)
	iqr := q3 - q1
	lo, hi := q1-1.5*iqr, q3+1.5*iqr
	outliers := 0
	for _, x := range xs {
		if x < lo || x > hi {
			outliers++
		}
	}

	minV, maxV := xs[0], xs[len(xs)-1]
	return &models.NumericStats{
		Count:    len(xs),
		Mean:     round(stat.Mean(xs, nil), 2),
		Median:   round(quantile(xs, 0.5), 2),
		Std:      round(finite(stat.StdDev(xs, nil)), 2),
		Min:      round(minV, 2),
		Max:      round(maxV, 2),
		Range:    round(maxV-minV, 2),
		Q1:       round(q1, 2),
		Q3:       round(q3, 2),
		IQR:      round(iqr, 2),
		Outliers: outliers,
		Skewness: round(finite(stat.Skew(xs, nil)), 3),
		Kurtosis: round(finite(stat.ExKurtosis(xs, nil)), 3),
	}
}

func textStats(present []models.Value) *models.TextStats {
	ts := &models.TextStats{MostCommon: valueCounts(present, topValues)}
	lengths := make([]float64, len(present))
	for i, v := range present {
		s := v.String()
		n := utf8.RuneCountInString(s)
		lengths[i] = float64(n)
		if i == 0 || n < ts.LengthMin {
			ts.LengthMin = n
		}
		if n > ts.LengthMax {
			ts.LengthMax = n
		}
		if digitRe.MatchString(s) {
			ts.ContainsNumbers++
		}
		upper, lower := caseOf(s)
		switch {
		case upper:
			ts.AllUppercase++
		case lower:
			ts.AllLowercase++
		default:
			ts.MixedCase++
		}
	}
	sort.Float64s(lengths)
	ts.LengthMean = round(stat.Mean(lengths, nil), 1)
	ts.LengthMedian = round(quantile(lengths, 0.5), 1)
	return ts
}

// caseOf reports whether s is all upper or all lower case. Strings with no
// cased letters are neither.
func caseOf(s string) (upper, lower bool) {
	hasUpper, hasLower := false, false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		}
	}
	return hasUpper && !hasLower, hasLower && !hasUpper
}

// valueCounts returns the n most frequent renderings of values. Ties keep
// first-seen order.
func valueCounts(values []models.Value, n int) []models.ValueCount {
	idx := make(map[string]int)
	var out []models.ValueCount
	for _, v := range values {
		s := v.String()
		if i, ok := idx[s]; ok {
			out[i].Count++
			continue
		}
		idx[s] = len(out)
		out = append(out, models.ValueCount{Value: s, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// quantile returns the p-quantile of sorted xs, interpolating linearly
// between the closest ranks.
func quantile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	pos := p * float64(len(xs)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	return xs[lo] + (xs[hi]-xs[lo])*(pos-float64(lo))
}

func finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

func round(x float64, places int) float64 {
	m := math.Pow(10, float64(places))
	return math.Round(x*m) / m
}
