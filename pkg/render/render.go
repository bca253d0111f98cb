// Package render turns takeoff records into report artifacts.
//
// Each output format has its own sink function; [Render] dispatches on
// the format name so the pipeline, CLI, and API share one entry point.
// Sinks never modify the record slice and produce deterministic output
// for the same input, which keeps rendered artifacts cacheable.
package render

import (
	"strings"

	"github.com/tmengistu/stratum/pkg/errors"
	"github.com/tmengistu/stratum/pkg/takeoff"
)

// Format constants for output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
	FormatDOT   = "dot"
	FormatSVG   = "svg"
	FormatPNG   = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatTable: true,
	FormatJSON:  true,
	FormatCSV:   true,
	FormatDOT:   true,
	FormatSVG:   true,
	FormatPNG:   true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: table, json, csv, dot, svg, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list, defaulting to the
// terminal table when empty.
func ParseFormats(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{FormatTable}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Render produces the report artifact for one format.
// Diagram formats (svg, png) go through the DOT sink first.
func Render(records []takeoff.Record, format string, opts ...JSONOption) ([]byte, error) {
	switch format {
	case FormatTable:
		return []byte(RenderTable(records)), nil
	case FormatJSON:
		return RenderJSON(records, opts...)
	case FormatCSV:
		return RenderCSV(records)
	case FormatDOT:
		return []byte(ToDOT(records)), nil
	case FormatSVG:
		return RenderSVG(ToDOT(records))
	case FormatPNG:
		return RenderPNG(ToDOT(records))
	default:
		return nil, ValidateFormat(format)
	}
}
