package takeoff

import (
	"github.com/charmbracelet/log"

	"github.com/tmengistu/stratum/pkg/model"
)

// ResolveTypes maps selected element ids to their element types,
// deduplicated by type identity in order of first appearance.
//
// Elements that cannot be resolved — unknown id, entity that is not a
// placed element, nil type id, or a type id that does not resolve to an
// element type — are skipped with a logged warning and contribute
// nothing to the output. This stage never fails the run.
func ResolveTypes(doc model.Document, ids []model.ID, logger *log.Logger) []model.ElementType {
	var types []model.ElementType
	seen := make(map[model.ID]struct{}, len(ids))

	for _, id := range ids {
		ent, ok := doc.Element(id)
		if !ok {
			logger.Warn("selected element not found in document", "element", id)
			continue
		}
		el, ok := ent.(model.Element)
		if !ok {
			logger.Warn("selected entity is not a placed element", "element", id)
			continue
		}

		typeID := el.TypeID()
		if typeID.IsNil() {
			logger.Warn("element has no valid type id", "element", id)
			continue
		}
		if _, dup := seen[typeID]; dup {
			continue
		}

		tent, ok := doc.Element(typeID)
		if !ok {
			logger.Warn("element type not found", "element", id, "type_id", typeID)
			continue
		}
		typ, ok := tent.(model.ElementType)
		if !ok {
			logger.Warn("type id does not resolve to an element type", "element", id, "type_id", typeID)
			continue
		}

		seen[typeID] = struct{}{}
		types = append(types, typ)
	}
	return types
}
