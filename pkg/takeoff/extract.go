package takeoff

import (
	"github.com/charmbracelet/log"

	"github.com/tmengistu/stratum/pkg/model"
)

// extractType produces the records for one element type: one per layer
// of its compound structure whose material resolves.
//
// Types without a compound structure or without layers contribute zero
// records. A panic from the host entity abandons the type's remaining
// work but keeps records already collected; processing continues with
// the next type.
func extractType(doc model.Document, typ model.ElementType, logger *log.Logger) (records []Record) {
	// The recover is installed before any host call: even the first
	// attribute read may panic on a faulting entity.
	typeName := DefaultTypeName
	defer func() {
		if r := recover(); r != nil {
			logger.Error("abandoning element type", "type", typeName, "type_id", typ.ID(), "panic", r)
		}
	}()

	typeName = ReadAttribute(typ, model.AttrTypeName, DefaultTypeName, logger)
	familyName := ReadAttribute(typ, model.AttrFamilyName, DefaultFamilyName, logger)
	categoryName, ok := typ.Category()
	if !ok {
		categoryName = DefaultCategoryName
	}

	structure, ok := typ.Structure()
	if !ok {
		logger.Warn("no compound structure found", "type", typeName)
		return nil
	}
	if len(structure.Layers) == 0 {
		logger.Warn("no layers found in compound structure", "type", typeName)
		return nil
	}

	for idx, layer := range structure.Layers {
		rec, ok := extractLayer(doc, layer, idx, typeName, familyName, categoryName, logger)
		if ok {
			records = append(records, rec)
		}
	}
	return records
}

// extractLayer resolves one layer's material and builds its record.
// The layer is reported as idx+1: positions are 1-based in the output.
//
// A layer whose material id does not resolve is skipped with a warning
// naming the type and the 1-based index; no placeholder record is
// emitted. A panic while processing the layer skips only that layer.
func extractLayer(doc model.Document, layer model.Layer, idx int, typeName, familyName, categoryName string, logger *log.Logger) (rec Record, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("skipping layer", "type", typeName, "layer", idx+1, "panic", r)
			ok = false
		}
	}()

	ent, found := doc.Element(layer.MaterialID)
	if !found {
		logger.Warn("material not found for layer", "type", typeName, "layer", idx+1)
		return Record{}, false
	}
	mat, isMaterial := ent.(model.Material)
	if !isMaterial {
		logger.Warn("material id does not resolve to a material", "type", typeName, "layer", idx+1)
		return Record{}, false
	}

	return Record{
		FamilyName:   familyName,
		TypeName:     typeName,
		CategoryName: categoryName,
		MaterialName: mat.Name(),
		LayerNumber:  idx + 1,
	}, true
}
