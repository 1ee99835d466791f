package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ukaji3/sheetshape-go/pkg/sheetshape/models"
)

func TestToJSON(t *testing.T) {
	tbl := models.NewTable([]string{"b", "a"})
	tbl.Rows = append(tbl.Rows, models.Row{models.Text("<x & y>"), models.Number(1.5)})

	data, err := ToJSON(tbl.Records(), false)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	expected := `[{"b":"<x & y>","a":1.5}]`
	if string(data) != expected {
		t.Errorf("Expected %s, got %s", expected, data)
	}
}

func TestToJSONPretty(t *testing.T) {
	data, err := ToJSON(map[string]int{"n": 1}, true)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	if !strings.Contains(string(data), "\n  \"n\": 1") {
		t.Errorf("Expected indented output, got %s", data)
	}
	if bytes.HasSuffix(data, []byte("\n")) {
		t.Error("Expected no trailing newline")
	}
}

func TestWriteNullValue(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, []models.Value{models.Null(), models.Bool(true)}, false); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if got := buf.String(); got != "[null,true]\n" {
		t.Errorf("Unexpected output %q", got)
	}
}
