package tools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ukaji3/sheetshape-go/pkg/sheetshape"
	"github.com/ukaji3/sheetshape-go/pkg/sheetshape/models"
	"github.com/xuri/excelize/v2"
)

func writeSchools(t *testing.T, dir, name string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	rows := [][]interface{}{
		{"Listado de escuelas"},
		{},
		{"Codigo", "Region", "Multigrado", "Notas"},
		{101, "Norte", "Sí", "N/A"},
		{102, "Sur", "No", "-"},
		{103, "Norte", "X", "None"},
		{103, "Norte", "X", "None"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("Failed to write row: %v", err)
		}
	}
	if _, err := f.NewSheet("Vacia"); err != nil {
		t.Fatalf("Failed to add sheet: %v", err)
	}

	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}
	return path
}

func newTestService(t *testing.T, cfg Config) *Service {
	t.Helper()
	if cfg.Dir == "" {
		cfg.Dir = t.TempDir()
	}
	return NewService(cfg, sheetshape.New(sheetshape.DefaultOptions()), nil)
}

func TestExtractMissingFile(t *testing.T) {
	s := newTestService(t, Config{})

	res := s.Extract(context.Background(), ExtractRequest{Filename: "nope.xlsx"})
	if res.Status != StatusError {
		t.Fatalf("Expected error status, got %+v", res.Envelope)
	}
	if !strings.Contains(res.Error, "not found") {
		t.Errorf("Expected 'not found' in %q", res.Error)
	}
	if res.ErrorKind != sheetshape.KindNotFound {
		t.Errorf("Expected kind %q, got %q", sheetshape.KindNotFound, res.ErrorKind)
	}

	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"status":"error"`) {
		t.Errorf("Expected status discriminator in %s", data)
	}
}

func TestResolveRejectsPaths(t *testing.T) {
	s := newTestService(t, Config{})
	for _, name := range []string{"", "../secret.xlsx", "sub/file.xlsx", `sub\file.xlsx`, ".."} {
		res := s.AnalyzeStructure(context.Background(), name)
		if res.OK() || res.ErrorKind != sheetshape.KindNotFound {
			t.Errorf("AnalyzeStructure(%q) = %+v, expected not_found", name, res.Envelope)
		}
	}
}

func TestResolveAllowsDotsInNames(t *testing.T) {
	dir := t.TempDir()
	writeSchools(t, dir, "notas..v2.xlsx")
	res := newTestService(t, Config{Dir: dir}).Extract(context.Background(), ExtractRequest{Filename: "notas..v2.xlsx"})
	if !res.OK() {
		t.Fatalf("Expected success, got %+v", res.Envelope)
	}
	if res.RowCount != 4 {
		t.Errorf("Expected 4 rows, got %d", res.RowCount)
	}
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	older := writeSchools(t, dir, "older.xlsx")
	newer := writeSchools(t, dir, "newer.xlsm")
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	now := time.Now()
	if err := os.Chtimes(older, now, now.Add(-time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(newer, now, now); err != nil {
		t.Fatal(err)
	}

	res := newTestService(t, Config{Dir: dir}).ListFiles()
	if !res.OK() {
		t.Fatalf("ListFiles failed: %+v", res.Envelope)
	}
	if res.TotalFiles != 2 {
		t.Fatalf("Expected 2 files, got %d", res.TotalFiles)
	}
	if res.Files[0].Name != "newer.xlsm" || res.Files[1].Name != "older.xlsx" {
		t.Errorf("Expected newest first, got %s, %s", res.Files[0].Name, res.Files[1].Name)
	}
	if res.Files[0].Extension != ".xlsm" || !res.Files[0].Valid {
		t.Errorf("Unexpected file info: %+v", res.Files[0])
	}
}

func TestListFilesOverLimit(t *testing.T) {
	dir := t.TempDir()
	writeSchools(t, dir, "big.xlsx")

	opts := sheetshape.DefaultOptions()
	opts.MaxFileSize = 10
	s := NewService(Config{Dir: dir}, sheetshape.New(opts), nil)

	res := s.ListFiles()
	if !res.OK() || len(res.Files) != 1 {
		t.Fatalf("Unexpected result: %+v", res)
	}
	if res.Files[0].Valid || len(res.Files[0].Errors) == 0 {
		t.Errorf("Expected oversize file to be invalid, got %+v", res.Files[0])
	}
}

func TestListFilesMissingDirectory(t *testing.T) {
	s := newTestService(t, Config{Dir: filepath.Join(t.TempDir(), "missing")})
	res := s.ListFiles()
	if res.OK() || res.ErrorKind != sheetshape.KindNotFound {
		t.Errorf("Expected not_found error, got %+v", res.Envelope)
	}
}

func TestExtractAndClean(t *testing.T) {
	dir := t.TempDir()
	writeSchools(t, dir, "escuelas.xlsx")
	s := newTestService(t, Config{Dir: dir})
	ctx := context.Background()

	raw := s.Extract(ctx, ExtractRequest{Filename: "escuelas.xlsx"})
	if !raw.OK() {
		t.Fatalf("Extract failed: %+v", raw.Envelope)
	}
	if !raw.HeaderDetected || raw.HeaderRow != 2 || raw.Sheet != "Sheet1" {
		t.Errorf("Unexpected header: row %d detected %v sheet %s", raw.HeaderRow, raw.HeaderDetected, raw.Sheet)
	}
	if raw.RowCount != 4 || raw.Quality.DuplicateRows != 1 {
		t.Errorf("Unexpected raw extraction: %d rows, %+v", raw.RowCount, raw.Quality)
	}

	cleaned := s.Clean(ctx, ExtractRequest{Filename: "escuelas.xlsx"})
	if !cleaned.OK() {
		t.Fatalf("Clean failed: %+v", cleaned.Envelope)
	}
	if cleaned.RowCount != 3 || len(cleaned.Columns) != 3 {
		t.Errorf("Expected 3x3 cleaned table, got %dx%d", cleaned.RowCount, len(cleaned.Columns))
	}
	if cleaned.Cleaning == nil || cleaned.Cleaning.DroppedDuplicateRows != 1 {
		t.Errorf("Unexpected cleaning summary: %+v", cleaned.Cleaning)
	}
	v, ok := cleaned.Data[0].Get("Multigrado")
	if b, isBool := v.Boolean(); !ok || !isBool || !b {
		t.Errorf("Expected Multigrado true, got %v", v)
	}
	if cleaned.Quality.QualityScore != 1 {
		t.Errorf("Expected perfect cleaned quality, got %.3f", cleaned.Quality.QualityScore)
	}

	row := 0
	explicit := s.Extract(ctx, ExtractRequest{Filename: "escuelas.xlsx", HeaderRow: &row, MaxRows: 2})
	if !explicit.OK() || explicit.HeaderDetected || explicit.RowCount != 2 {
		t.Errorf("Unexpected explicit extraction: %+v", explicit)
	}

	bad := -3
	res := s.Extract(ctx, ExtractRequest{Filename: "escuelas.xlsx", HeaderRow: &bad})
	if res.OK() || res.ErrorKind != sheetshape.KindInvalidRequest {
		t.Errorf("Expected invalid_request, got %+v", res.Envelope)
	}
}

func TestUniqueValuesAndFilter(t *testing.T) {
	dir := t.TempDir()
	writeSchools(t, dir, "escuelas.xlsx")
	s := newTestService(t, Config{Dir: dir})
	ctx := context.Background()
	req := ExtractRequest{Filename: "escuelas.xlsx"}

	u := s.UniqueValues(ctx, req, "Region")
	if !u.OK() {
		t.Fatalf("UniqueValues failed: %+v", u.Envelope)
	}
	if u.UniqueCount != 2 || u.Values[0].String() != "Norte" || u.Values[1].String() != "Sur" {
		t.Errorf("Unexpected unique values: %v", u.Values)
	}

	f := s.FilterByValue(ctx, req, "Region", "Norte")
	if !f.OK() || f.RowCount != 2 {
		t.Errorf("Expected 2 rows in Norte, got %+v", f)
	}

	missing := s.UniqueValues(ctx, req, "Distrito")
	if missing.OK() || missing.ErrorKind != sheetshape.KindNotFound {
		t.Errorf("Expected column not found, got %+v", missing.Envelope)
	}
}

func TestProfile(t *testing.T) {
	dir := t.TempDir()
	writeSchools(t, dir, "escuelas.xlsx")
	res := newTestService(t, Config{Dir: dir}).Profile(context.Background(), ExtractRequest{Filename: "escuelas.xlsx"})
	if !res.OK() || res.Profile == nil {
		t.Fatalf("Profile failed: %+v", res.Envelope)
	}
	if res.Profile.Rows != 3 || res.Profile.TypeDistribution[string(models.TypeBoolean)] != 1 {
		t.Errorf("Unexpected profile: %+v", res.Profile)
	}
}

func TestExtractAll(t *testing.T) {
	dir := t.TempDir()
	writeSchools(t, dir, "escuelas.xlsx")
	res := newTestService(t, Config{Dir: dir}).ExtractAll(context.Background(), "escuelas.xlsx")
	if !res.OK() {
		t.Fatalf("ExtractAll failed: %+v", res.Envelope)
	}
	if res.Structure.TotalSheets != 2 {
		t.Errorf("Expected 2 sheets, got %d", res.Structure.TotalSheets)
	}
	if _, ok := res.Sheets["Vacia"]; ok {
		t.Error("Expected the empty sheet to be skipped")
	}
	sheet, ok := res.Sheets["Sheet1"]
	if !ok || sheet.Error != "" {
		t.Fatalf("Expected Sheet1 data, got %+v", sheet)
	}
	if len(sheet.Data) != 3 || sheet.Quality.DuplicateRows != 1 {
		t.Errorf("Unexpected sheet data: %d rows, %+v", len(sheet.Data), sheet.Quality)
	}
}

func TestExtractionCache(t *testing.T) {
	dir := t.TempDir()
	path := writeSchools(t, dir, "escuelas.xlsx")
	s := newTestService(t, Config{Dir: dir, CacheSize: 8, CacheTTL: time.Minute})
	ctx := context.Background()
	req := ExtractRequest{Filename: "escuelas.xlsx"}

	s.Extract(ctx, req)
	s.Clean(ctx, req)
	if n := s.CachedExtractions(); n != 1 {
		t.Fatalf("Expected 1 cached extraction, got %d", n)
	}

	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}
	if res := s.Extract(ctx, req); !res.OK() {
		t.Fatalf("Extract failed: %+v", res.Envelope)
	}
	if n := s.CachedExtractions(); n != 2 {
		t.Errorf("Expected a fresh entry after modification, got %d", n)
	}
}

func TestCacheDisabled(t *testing.T) {
	dir := t.TempDir()
	writeSchools(t, dir, "escuelas.xlsx")
	s := newTestService(t, Config{Dir: dir})
	s.Extract(context.Background(), ExtractRequest{Filename: "escuelas.xlsx"})
	if n := s.CachedExtractions(); n != 0 {
		t.Errorf("Expected no cached extractions, got %d", n)
	}
}
