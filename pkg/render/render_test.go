package render

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/tmengistu/stratum/pkg/errors"
	"github.com/tmengistu/stratum/pkg/takeoff"
)

func sampleRecords() []takeoff.Record {
	return []takeoff.Record{
		{FamilyName: "Basic Wall", TypeName: "Generic 200mm", CategoryName: "Walls", MaterialName: "Concrete", LayerNumber: 1},
		{FamilyName: "Basic Wall", TypeName: "Generic 200mm", CategoryName: "Walls", MaterialName: "Gypsum Board", LayerNumber: 2},
	}
}

func TestValidateFormat(t *testing.T) {
	for format := range ValidFormats {
		if err := ValidateFormat(format); err != nil {
			t.Errorf("ValidateFormat(%q) = %v", format, err)
		}
	}
	err := ValidateFormat("pdf")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Fatalf("expected INVALID_FORMAT, got %v", err)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "", want: []string{FormatTable}},
		{in: "  ", want: []string{FormatTable}},
		{in: "json", want: []string{"json"}},
		{in: "json,csv", want: []string{"json", "csv"}},
		{in: " json , csv ,", want: []string{"json", "csv"}},
	}
	for _, tt := range tests {
		if got := ParseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(sampleRecords(), WithJSONModel("office"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out struct {
		Model   string           `json:"model"`
		Count   int              `json:"count"`
		Records []takeoff.Record `json:"records"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out.Model != "office" {
		t.Errorf("model = %q, want %q", out.Model, "office")
	}
	if out.Count != 2 || len(out.Records) != 2 {
		t.Errorf("count = %d, records = %d, want 2/2", out.Count, len(out.Records))
	}
	if out.Records[0].MaterialName != "Concrete" || out.Records[0].LayerNumber != 1 {
		t.Errorf("unexpected first record: %+v", out.Records[0])
	}
}

func TestRenderJSONEmpty(t *testing.T) {
	data, err := RenderJSON(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(string(data), `"records": null`) {
		t.Error("empty report should render an empty array, not null")
	}
	if !strings.Contains(string(data), `"count": 0`) {
		t.Errorf("expected a zero count, got:\n%s", data)
	}
}

func TestRenderCSV(t *testing.T) {
	data, err := RenderCSV(sampleRecords())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines:\n%s", len(lines), data)
	}
	if lines[0] != "Family,Type,Category,Material,Layer" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if lines[1] != "Basic Wall,Generic 200mm,Walls,Concrete,1" {
		t.Errorf("unexpected first row: %s", lines[1])
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(sampleRecords())
	for _, want := range []string{"Family", "Generic 200mm", "Concrete", "Gypsum Board"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}

	if got := RenderTable(nil); got != "No material layers extracted." {
		t.Errorf("empty table = %q", got)
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleRecords())

	if !strings.HasPrefix(dot, "digraph takeoff {") {
		t.Errorf("unexpected DOT prefix:\n%s", dot)
	}
	for _, want := range []string{
		`"Basic Wall / Generic 200mm"`,
		`"material: Concrete"`,
		`"material: Gypsum Board"`,
		`label="layer 1"`,
		`label="layer 2"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %s:\n%s", want, dot)
		}
	}

	// Shared nodes are declared once even with repeated records.
	if strings.Count(dot, `"material: Concrete" [label="Concrete"`) != 1 {
		t.Errorf("material node declared more than once:\n%s", dot)
	}

	// Deterministic for the same input.
	if dot != ToDOT(sampleRecords()) {
		t.Error("ToDOT is not deterministic")
	}
}

func TestRenderDispatch(t *testing.T) {
	records := sampleRecords()

	for _, format := range []string{FormatTable, FormatJSON, FormatCSV, FormatDOT} {
		data, err := Render(records, format)
		if err != nil {
			t.Errorf("Render(%q) error: %v", format, err)
		}
		if len(data) == 0 {
			t.Errorf("Render(%q) produced no output", format)
		}
	}

	if _, err := Render(records, "pdf"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("expected INVALID_FORMAT for unknown format, got %v", err)
	}
}
