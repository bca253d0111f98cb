package takeoff

import (
	"github.com/tmengistu/stratum/pkg/errors"
	"github.com/tmengistu/stratum/pkg/model"
)

// Selection identifies the elements to take off. It is satisfied by a
// single element id ([One]) or an ordered id list ([Many]), so callers
// that hold one element and callers that hold a list go through the
// same entry point.
type Selection interface {
	// ElementIDs returns the selected element ids in order.
	ElementIDs() []model.ID
}

// One selects a single element.
type One model.ID

// ElementIDs returns the id wrapped in a one-element sequence.
func (o One) ElementIDs() []model.ID { return []model.ID{model.ID(o)} }

// Many selects an ordered list of elements.
type Many []model.ID

// ElementIDs returns the ids in order.
func (m Many) ElementIDs() []model.ID { return m }

// Normalize turns a selection into a non-empty ordered id sequence.
//
// It fails with [errors.ErrCodeInvalidSelection] when sel is nil or
// normalizes to an empty sequence. This is the only user-input
// validation in the run and happens before any other processing.
func Normalize(sel Selection) ([]model.ID, error) {
	if sel == nil {
		return nil, errors.New(errors.ErrCodeInvalidSelection, "input selection is null")
	}
	ids := sel.ElementIDs()
	if len(ids) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidSelection, "please select some elements first")
	}
	return ids, nil
}
