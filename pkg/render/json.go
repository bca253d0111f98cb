package render

import (
	"encoding/json"

	"github.com/tmengistu/stratum/pkg/takeoff"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	model string
}

// WithJSONModel records the source model name in the JSON output.
func WithJSONModel(name string) JSONOption {
	return func(r *jsonRenderer) { r.model = name }
}

type jsonOutput struct {
	Model   string           `json:"model,omitempty"`
	Count   int              `json:"count"`
	Records []takeoff.Record `json:"records"`
}

// RenderJSON exports the takeoff records as a pretty-printed JSON
// document. This is the primary data interchange format: the API serves
// it and downstream reporting tools consume it.
//
// Records appear exactly in takeoff order (type first-appearance order,
// ascending layer order within a type); RenderJSON adds no sorting,
// grouping, or deduplication. An empty record slice renders as an empty
// array, not null.
func RenderJSON(records []takeoff.Record, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	if records == nil {
		records = []takeoff.Record{}
	}
	out := jsonOutput{
		Model:   r.model,
		Count:   len(records),
		Records: records,
	}
	return json.MarshalIndent(out, "", "  ")
}
