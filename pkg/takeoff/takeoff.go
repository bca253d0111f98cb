// Package takeoff extracts material-per-layer records from a building
// model document.
//
// Given a selection of placed elements, the takeoff walks each distinct
// element type's compound layer structure and emits one [Record] per
// layer whose material resolves. The core is a single synchronous pass:
// normalize the selection, resolve distinct types, read each type's
// layers, resolve each layer's material.
//
// Failure handling is two-tier. A nil document or an empty selection is
// fatal and aborts the run before any extraction starts. Everything
// else — missing type ids, types without a compound structure, layers
// whose material does not resolve, panicking host entities — is logged
// and skipped at the narrowest scope, so one bad input never aborts the
// whole run.
//
// The package never mutates the document and holds no state between
// runs.
package takeoff

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/tmengistu/stratum/pkg/errors"
	"github.com/tmengistu/stratum/pkg/model"
)

// Fallback values used when a type attribute is absent or unreadable.
const (
	DefaultFamilyName   = "Unknown Family"
	DefaultTypeName     = "Unknown Type"
	DefaultCategoryName = "Unknown Category"
)

// Record is one row of the takeoff report: a single material layer of a
// single element type. Records are immutable once produced.
//
// LayerNumber is the layer's 1-based position within its type's
// compound structure, in source order. For a type whose layers all
// resolve, records carry layer numbers 1..N with no gaps.
type Record struct {
	FamilyName   string `json:"family_name"`
	TypeName     string `json:"type_name"`
	CategoryName string `json:"category"`
	MaterialName string `json:"material"`
	LayerNumber  int    `json:"layer_number"`
}

// Extract runs the full takeoff over doc for the selected elements and
// returns the ordered record sequence.
//
// Output order is: element types in order of first appearance in the
// selection, and within a type, ascending layer order. The result may
// be empty when every type or layer was skipped; skips are visible only
// in the log.
//
// Extract fails fatally when doc is nil or the selection normalizes to
// nothing; no extraction work is attempted in that case. A nil logger
// discards all diagnostics.
func Extract(doc model.Document, sel Selection, logger *log.Logger) ([]Record, error) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if doc == nil {
		return nil, errors.New(errors.ErrCodeDocumentUnavailable, "could not access model document")
	}

	ids, err := Normalize(sel)
	if err != nil {
		return nil, err
	}

	var records []Record
	for _, typ := range ResolveTypes(doc, ids, logger) {
		records = append(records, extractType(doc, typ, logger)...)
	}
	return records, nil
}
