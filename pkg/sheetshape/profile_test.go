package sheetshape

import (
	"math"
	"strings"
	"testing"

	"github.com/ukaji3/sheetshape-go/pkg/sheetshape/models"
)

func TestProfileNumericColumn(t *testing.T) {
	tbl := table([]string{"score"}, vals(1), vals(2), vals(3), vals(4), vals(100), vals(nil))

	p := Profile(tbl)
	cs := p.ColumnStats[0]
	if cs.InferredType != models.TypeNumeric || cs.Numeric == nil {
		t.Fatalf("Expected numeric stats, got %+v", cs)
	}
	n := cs.Numeric
	if n.Count != 5 || n.Median != 3 || n.Q1 != 2 || n.Q3 != 4 || n.IQR != 2 {
		t.Errorf("Unexpected quartiles: %+v", n)
	}
	if n.Mean != 22 || n.Min != 1 || n.Max != 100 || n.Range != 99 {
		t.Errorf("Unexpected summary: %+v", n)
	}
	if n.Outliers != 1 {
		t.Errorf("Expected 1 outlier, got %d", n.Outliers)
	}
	if n.Skewness <= 0 {
		t.Errorf("Expected positive skew, got %.3f", n.Skewness)
	}
	if cs.NullCount != 1 || math.Abs(cs.NullPercent-16.67) > 1e-9 {
		t.Errorf("Unexpected null stats: %d %.2f", cs.NullCount, cs.NullPercent)
	}
}

func TestProfileTextColumn(t *testing.T) {
	tbl := table([]string{"code"}, vals("ABC"), vals("abc"), vals("Abc"), vals("a1"), vals("abc"))

	cs := Profile(tbl).ColumnStats[0]
	if cs.Text == nil {
		t.Fatalf("Expected text stats, got %+v", cs)
	}
	ts := cs.Text
	if ts.AllUppercase != 1 || ts.AllLowercase != 3 || ts.MixedCase != 1 {
		t.Errorf("Unexpected case counts: %+v", ts)
	}
	if ts.ContainsNumbers != 1 || ts.LengthMin != 2 || ts.LengthMax != 3 {
		t.Errorf("Unexpected text stats: %+v", ts)
	}
	if ts.MostCommon[0].Value != "abc" || ts.MostCommon[0].Count != 2 {
		t.Errorf("Expected 'abc' most common, got %+v", ts.MostCommon)
	}
}

func TestProfilePatterns(t *testing.T) {
	tbl := table([]string{"id", "region", "fecha"})
	for i := 0; i < 30; i++ {
		region := "norte"
		if i%2 == 0 {
			region = "sur"
		}
		tbl.Rows = append(tbl.Rows, vals(i, region, "12/05/2024"))
	}

	p := Profile(tbl)
	byName := map[string]models.ColumnStats{}
	for _, cs := range p.ColumnStats {
		byName[cs.Name] = cs
	}

	if !byName["id"].Patterns.PotentialID {
		t.Error("Expected id to be a potential identifier")
	}
	region := byName["region"].Patterns
	if !region.PotentialCategory || len(region.Categories) != 2 {
		t.Errorf("Expected region to be a category, got %+v", region)
	}
	if !byName["fecha"].Patterns.PotentialDate {
		t.Error("Expected fecha to look like a date")
	}

	joined := strings.Join(p.Recommendations, "\n")
	if !strings.Contains(joined, "fecha") || !strings.Contains(joined, "region") {
		t.Errorf("Unexpected recommendations: %v", p.Recommendations)
	}
	if p.TypeDistribution["numeric"] != 1 || p.TypeDistribution["text"] != 2 {
		t.Errorf("Unexpected type distribution: %v", p.TypeDistribution)
	}
	if p.CompletionRate != 100 {
		t.Errorf("Expected full completion, got %.2f", p.CompletionRate)
	}
}

func TestProfileNulls(t *testing.T) {
	tbl := table([]string{"a", "b"}, vals(1, nil), vals(nil, nil), vals(3, "x"))

	p := Profile(tbl)
	if p.TotalNulls != 3 || p.CompleteRows != 1 {
		t.Errorf("Unexpected null summary: %+v", p)
	}
	if len(p.HighNullColumns) != 1 || p.HighNullColumns[0] != "b" {
		t.Errorf("Expected b to be a high-null column, got %v", p.HighNullColumns)
	}
	if len(p.Recommendations) == 0 || !strings.Contains(p.Recommendations[0], "null") {
		t.Errorf("Expected a null recommendation, got %v", p.Recommendations)
	}
}

func TestProfileEmptyTable(t *testing.T) {
	p := Profile(table([]string{"a"}))
	if p.Rows != 0 || len(p.ColumnStats) != 1 || p.ColumnStats[0].Numeric != nil {
		t.Errorf("Unexpected profile: %+v", p)
	}
}

func TestQuantile(t *testing.T) {
	xs := []float64{1, 2, 3, 4}
	tests := []struct {
		p        float64
		expected float64
	}{
		{0, 1},
		{0.25, 1.75},
		{0.5, 2.5},
		{0.75, 3.25},
		{1, 4},
	}
	for _, tt := range tests {
		if got := quantile(xs, tt.p); math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("quantile(%v) = %v, expected %v", tt.p, got, tt.expected)
		}
	}
}
