package cli

import (
	"reflect"
	"testing"

	"github.com/tmengistu/stratum/pkg/render"
)

func TestParseElements(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []int64
		wantErr bool
	}{
		{name: "empty", in: "", want: nil},
		{name: "whitespace only", in: "   ", want: nil},
		{name: "single id", in: "42", want: []int64{42}},
		{name: "list keeps order", in: "3,1,2", want: []int64{3, 1, 2}},
		{name: "spaces and trailing comma", in: " 1 , 2 ,", want: []int64{1, 2}},
		{name: "not a number", in: "1,wall", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseElements(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestArtifactPath(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		format   string
		multiple bool
		want     string
	}{
		{name: "default json", output: "", format: render.FormatJSON, want: "takeoff.json"},
		{name: "default table", output: "", format: render.FormatTable, want: "takeoff.txt"},
		{name: "single format uses output verbatim", output: "report.out", format: render.FormatCSV, want: "report.out"},
		{name: "multiple formats append extension", output: "report.out", format: render.FormatCSV, multiple: true, want: "report.csv"},
		{name: "multiple formats without extension", output: "report", format: render.FormatSVG, multiple: true, want: "report.svg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := artifactPath(tt.output, tt.format, tt.multiple); got != tt.want {
				t.Errorf("artifactPath(%q, %q, %v) = %q, want %q", tt.output, tt.format, tt.multiple, got, tt.want)
			}
		})
	}
}
