package render

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/tmengistu/stratum/pkg/takeoff"
)

// csvHeader is the fixed column order of the CSV report.
var csvHeader = []string{"Family", "Type", "Category", "Material", "Layer"}

// RenderCSV exports the takeoff records as CSV with a header row, in
// takeoff order. Suitable for spreadsheet import.
func RenderCSV(records []takeoff.Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, rec := range records {
		row := []string{
			rec.FamilyName,
			rec.TypeName,
			rec.CategoryName,
			rec.MaterialName,
			strconv.Itoa(rec.LayerNumber),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
